package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/formulalab/masterclass/pkg/export"
	"github.com/formulalab/masterclass/pkg/render"
)

// presentCommand creates the present command for the terminal deck.
func (c *CLI) presentCommand() *cobra.Command {
	var (
		output     string
		lessonPath string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "present",
		Short: "Present the deck in the terminal",
		Long: `Present the deck in the terminal.

Navigate slides with the arrow keys and trigger exports without leaving
the presentation. Navigation is locked while an export runs.

Keys:
  ←/→, ↑/↓   previous / next slide
  g / G      first / last slide
  d          export current slide as PDF
  x          export current slide as PowerPoint
  w          export full deck as a static HTML page
  z          export full deck as a ZIP of images
  q          quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if lessonPath == "" {
				lessonPath = c.Config.Lesson
			}
			return c.runPresent(cmd.Context(), output, lessonPath, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "export output directory")
	cmd.Flags().StringVarP(&lessonPath, "lesson", "l", "", "lesson JSON file to load over the defaults")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the asset cache")

	return cmd
}

func (c *CLI) runPresent(ctx context.Context, output, lessonPath string, noCache bool) error {
	s, err := c.newSession(lessonPath)
	if err != nil {
		return fmt.Errorf("prepare deck: %w", err)
	}

	inliner := c.newInliner(noCache)
	s.store.Replace(inliner.InlineLogo(ctx, s.store.Snapshot()))

	e, err := c.newExporter(s, output, export.NopNotifier{})
	if err != nil {
		return err
	}

	r, err := render.New(s.deck)
	if err != nil {
		return err
	}

	model := newPresentModel(ctx, s, e, r)
	_, err = tea.NewProgram(model, tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// PresentModel - Terminal presentation
// =============================================================================

// exportDoneMsg carries the outcome of an async export.
type exportDoneMsg struct {
	res *export.Result
	err error
}

// presentModel is the bubbletea model for the terminal presentation.
type presentModel struct {
	ctx       context.Context
	session   *session
	exporter  *export.Exporter
	renderer  *render.Renderer
	markdown  *glamour.TermRenderer
	exporting bool
	status    string
	width     int
}

func newPresentModel(ctx context.Context, s *session, e *export.Exporter, r *render.Renderer) presentModel {
	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(72),
	)
	if err != nil {
		md = nil // fall back to plain markdown
	}
	return presentModel{
		ctx:      ctx,
		session:  s,
		exporter: e,
		renderer: r,
		markdown: md,
	}
}

func (m presentModel) Init() tea.Cmd {
	return nil
}

func (m presentModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case exportDoneMsg:
		m.exporting = false
		if msg.err != nil {
			m.status = styleIconError.Render(iconError) + " " + msg.err.Error()
		} else {
			m.status = styleIconSuccess.Render(iconSuccess) + " " +
				fmt.Sprintf("Saved %s %s", export.Describe(msg.res.Format), StyleDim.Render(msg.res.Path))
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
		if m.exporting {
			// Moving slides would corrupt a running full-deck walk.
			return m, nil
		}
		switch msg.String() {
		case "left", "up", "k":
			m.move(-1)
		case "right", "down", "j", " ", "enter":
			m.move(1)
		case "g":
			m.moveTo(0)
		case "G":
			m.moveTo(len(m.session.deck) - 1)
		case "d":
			return m.startExport(export.FormatPDF)
		case "x":
			return m.startExport(export.FormatPPTX)
		case "w":
			return m.startExport(export.FormatHTML)
		case "z":
			return m.startExport(export.FormatZIP)
		}
	}
	return m, nil
}

func (m *presentModel) move(delta int) {
	m.moveTo(m.session.view.ActiveIndex() + delta)
}

func (m *presentModel) moveTo(i int) {
	i = m.session.deck.Clamp(i)
	if err := m.session.view.SetActiveIndex(i); err == nil {
		m.status = ""
	}
}

func (m presentModel) startExport(format string) (tea.Model, tea.Cmd) {
	m.exporting = true
	m.status = styleIconSpinner.Render("…") + " " + StyleDim.Render("Exporting "+export.Describe(format))
	e := m.exporter
	ctx := m.ctx
	return m, func() tea.Msg {
		var res *export.Result
		var err error
		switch format {
		case export.FormatPDF:
			res, err = e.CurrentSlidePDF(ctx)
		case export.FormatPPTX:
			res, err = e.CurrentSlidePPTX(ctx)
		case export.FormatHTML:
			res, err = e.FullDeckHTML(ctx)
		case export.FormatZIP:
			res, err = e.FullDeckZIP(ctx)
		}
		return exportDoneMsg{res: res, err: err}
	}
}

func (m presentModel) View() string {
	var b strings.Builder

	i := m.session.view.ActiveIndex()
	d := m.session.deck

	b.WriteString(StyleTitle.Render(m.session.store.Snapshot().Title))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(fmt.Sprintf("[%d/%d]", i+1, len(d))))
	b.WriteString("\n\n")

	summary := m.renderer.Summary(i)
	if m.markdown != nil {
		if out, err := m.markdown.Render(summary); err == nil {
			summary = out
		}
	}
	b.WriteString(summary)
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}

	help := "←/→ navigate · d pdf · x pptx · w page · z zip · q quit"
	if m.exporting {
		help = "export running, navigation locked · q quit"
	}
	b.WriteString(lipgloss.NewStyle().Foreground(colorDim).Render(help))
	b.WriteString("\n")

	return b.String()
}

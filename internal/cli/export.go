package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/formulalab/masterclass/pkg/export"
)

// exportCommand creates the export command for writing deck artifacts.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		output     string
		lessonPath string
		slideIndex int
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "export [pdf|pptx|html|zip]",
		Short: "Export the deck or the current slide",
		Long: `Export the deck in one of four formats.

Single-slide formats capture one rendered slide:
  pdf    one-page PDF sized to the capture
  pptx   single-slide PowerPoint file

Full-deck formats walk every slide:
  html   self-contained static page with all slides
  zip    PNG captures of every slide, one per entry

Captures require wkhtmltoimage on PATH.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := args[0]
			if err := export.ValidateFormat(format); err != nil {
				return err
			}
			return c.runExport(cmd.Context(), format, exportParams{
				output:     output,
				lessonPath: lessonPath,
				slideIndex: slideIndex,
				noCache:    noCache,
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default: current directory)")
	cmd.Flags().StringVarP(&lessonPath, "lesson", "l", "", "lesson JSON file to load over the defaults")
	cmd.Flags().IntVarP(&slideIndex, "slide", "s", 1, "slide number for single-slide formats (1-based)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the asset cache")

	return cmd
}

type exportParams struct {
	output     string
	lessonPath string
	slideIndex int
	noCache    bool
}

// runExport builds a session and runs one export flow.
func (c *CLI) runExport(ctx context.Context, format string, p exportParams) error {
	if p.lessonPath == "" {
		p.lessonPath = c.Config.Lesson
	}
	s, err := c.newSession(p.lessonPath)
	if err != nil {
		return fmt.Errorf("prepare deck: %w", err)
	}

	// Inline the logo up front so captures don't depend on the network.
	inliner := c.newInliner(p.noCache)
	s.store.Replace(inliner.InlineLogo(ctx, s.store.Snapshot()))

	if format == export.FormatPDF || format == export.FormatPPTX {
		if p.slideIndex < 1 || p.slideIndex > len(s.deck) {
			return fmt.Errorf("slide %d out of range (deck has %d slides)", p.slideIndex, len(s.deck))
		}
		if err := s.view.SetActiveIndex(p.slideIndex - 1); err != nil {
			return err
		}
	}

	e, err := c.newExporter(s, p.output, export.NopNotifier{})
	if err != nil {
		return err
	}

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Exporting %s...", export.Describe(format)))
	spinner.Start()

	var res *export.Result
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
	if err != nil {
		spinner.StopWithError("Export failed")
		return err
	}
	spinner.Stop()

	prog.done(fmt.Sprintf("Exported %d slide(s)", res.Slides))
	printSuccess("Saved %s", export.Describe(format))
	printFile(res.Path)
	printDetail("%d bytes", res.Size)
	return nil
}

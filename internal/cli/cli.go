// Package cli implements the masterclass command-line interface.
package cli

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/formulalab/masterclass/pkg/assets"
	"github.com/formulalab/masterclass/pkg/buildinfo"
	"github.com/formulalab/masterclass/pkg/cache"
	"github.com/formulalab/masterclass/pkg/deck"
	"github.com/formulalab/masterclass/pkg/export"
	"github.com/formulalab/masterclass/pkg/lesson"
	"github.com/formulalab/masterclass/pkg/render"
	"github.com/formulalab/masterclass/pkg/view"
)

// appName is the application name used for directories and display.
const appName = "masterclass"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *Config
}

// New creates a new CLI instance with a default logger and the
// configuration loaded from disk.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: LoadConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Masterclass presents and exports an interactive lesson deck",
		Long:         `Masterclass drives an interactive marketing lesson deck: present it in the terminal, serve it over HTTP with inline editing, and export slides as PDF, PowerPoint, a static HTML page, or a ZIP of images.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.presentCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.lessonCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// session bundles the pieces every command needs: the deck, the lesson
// store, and the shared HTML view.
type session struct {
	deck  deck.Deck
	store *lesson.Store
	view  *view.HTMLView
}

// newSession builds a view over the given lesson document. A lesson
// file set in the config (or via --lesson) is loaded on top of the
// defaults; missing fields keep their default values.
func (c *CLI) newSession(lessonPath string) (*session, error) {
	doc := lesson.Default()
	if lessonPath != "" {
		loaded, err := lesson.ImportJSON(lessonPath, doc)
		if err != nil {
			return nil, err
		}
		doc = loaded
		c.Logger.Debug("loaded lesson", "path", lessonPath)
	}

	d := deck.Default()
	r, err := render.New(d)
	if err != nil {
		return nil, err
	}
	store := lesson.NewStore(doc)
	v, err := view.NewHTML(r, store)
	if err != nil {
		return nil, err
	}
	return &session{deck: d, store: store, view: v}, nil
}

// newExporter wires an exporter over a session using the CLI config.
func (c *CLI) newExporter(s *session, outputDir string, notifier export.Notifier) (*export.Exporter, error) {
	if outputDir == "" {
		outputDir = c.Config.OutputDir
	}
	opts := export.Options{
		MarkupSettle: c.Config.markupSettle(),
		RasterSettle: c.Config.rasterSettle(),
		Raster:       c.Config.rasterOptions(),
	}
	fns := []export.Option{
		export.WithSaver(export.NewDirSaver(outputDir)),
		export.WithLogger(c.Logger),
	}
	if notifier != nil {
		fns = append(fns, export.WithNotifier(notifier))
	}
	return export.New(s.view, s.store, s.deck, opts, fns...)
}

// newInliner builds the asset inliner backed by the on-disk cache.
func (c *CLI) newInliner(noCache bool) *assets.Inliner {
	client := &http.Client{Timeout: 15 * time.Second}
	return assets.NewInliner(client, newAssetCache(noCache), c.Logger)
}

func newAssetCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	c, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return c
}

// cacheDir returns the cache directory using XDG standard (~/.cache/masterclass/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

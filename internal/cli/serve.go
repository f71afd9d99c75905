package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/formulalab/masterclass/internal/server"
	"github.com/formulalab/masterclass/pkg/export"
	"github.com/formulalab/masterclass/pkg/lesson"
)

// serveCommand creates the serve command for the HTTP presentation.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		output     string
		lessonPath string
		watch      bool
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the deck over HTTP",
		Long: `Serve the deck over HTTP.

The server renders slides as full HTML pages, accepts lesson edits, and
runs exports on request. Only one export runs at a time; overlapping
requests get 409 Conflict.

With --watch, the lesson file is reloaded whenever it changes on disk.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if lessonPath == "" {
				lessonPath = c.Config.Lesson
			}
			if addr == "" {
				addr = c.Config.addr()
			}
			return c.runServe(cmd.Context(), serveParams{
				addr:       addr,
				output:     output,
				lessonPath: lessonPath,
				watch:      watch,
				noCache:    noCache,
			})
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default "+DefaultAddr+")")
	cmd.Flags().StringVarP(&output, "output", "o", "", "export output directory")
	cmd.Flags().StringVarP(&lessonPath, "lesson", "l", "", "lesson JSON file to load over the defaults")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload the lesson file when it changes")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the asset cache")

	return cmd
}

type serveParams struct {
	addr       string
	output     string
	lessonPath string
	watch      bool
	noCache    bool
}

func (c *CLI) runServe(ctx context.Context, p serveParams) error {
	s, err := c.newSession(p.lessonPath)
	if err != nil {
		return fmt.Errorf("prepare deck: %w", err)
	}

	inliner := c.newInliner(p.noCache)
	s.store.Replace(inliner.InlineLogo(ctx, s.store.Snapshot()))

	e, err := c.newExporter(s, p.output, export.NewLogNotifier(c.Logger))
	if err != nil {
		return err
	}

	srv := server.New(s.view, s.store, s.deck, e, c.Logger)

	if p.watch {
		if p.lessonPath == "" {
			printWarning("--watch needs a lesson file, ignoring")
		} else {
			stop, err := c.watchLesson(ctx, p.lessonPath, s)
			if err != nil {
				return fmt.Errorf("watch lesson: %w", err)
			}
			defer stop()
		}
	}

	httpSrv := &http.Server{
		Addr:              p.addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	printInfo("Serving deck on http://%s", p.addr)
	printNextStep("Open the deck", "http://"+p.addr+"/")
	if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

// watchLesson reloads the lesson store whenever the file changes.
// Editors replace files on save, so Create events count as changes too.
func (c *CLI) watchLesson(ctx context.Context, path string, s *session) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				doc, err := lesson.ImportJSON(path, lesson.Default())
				if err != nil {
					c.Logger.Warn("lesson reload failed", "path", path, "err", err)
					continue
				}
				s.store.Replace(doc)
				if err := s.view.Refresh(); err != nil {
					c.Logger.Warn("view refresh failed", "err", err)
					continue
				}
				c.Logger.Info("lesson reloaded", "path", path)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				c.Logger.Warn("lesson watcher error", "err", err)
			}
		}
	}()

	return func() { watcher.Close() }, nil
}

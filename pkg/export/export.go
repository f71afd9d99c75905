// Package export implements the deck export pipeline.
//
// This package centralizes the capture → encode → package → save flow
// behind an [Exporter] that CLI, TUI, and server components share. Four
// operations are supported:
//
//  1. CurrentSlidePDF: capture the active slide, wrap it in a one-page PDF
//  2. CurrentSlidePPTX: capture the active slide, wrap it in a PowerPoint file
//  3. FullDeckHTML: walk every slide and assemble a static HTML page
//  4. FullDeckZIP: walk every slide and collect PNG captures into a ZIP
//
// Only one export may run at a time. A second request while one is in
// flight is rejected immediately with [errors.ErrCodeExportInProgress];
// requests are never queued. Full-deck walks drive the shared view
// through every slide, so the exporter always restores the slide that
// was active when the export started, on success and on failure alike.
package export

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/formulalab/masterclass/pkg/deck"
	"github.com/formulalab/masterclass/pkg/errors"
	"github.com/formulalab/masterclass/pkg/export/archive"
	"github.com/formulalab/masterclass/pkg/export/pdfdoc"
	"github.com/formulalab/masterclass/pkg/lesson"
	"github.com/formulalab/masterclass/pkg/observability"
	"github.com/formulalab/masterclass/pkg/raster"
	"github.com/formulalab/masterclass/pkg/view"
)

// Format constants for export outputs.
const (
	FormatPDF  = "pdf"
	FormatPPTX = "pptx"
	FormatHTML = "html"
	FormatZIP  = "zip"
)

// ValidFormats is the set of supported export formats.
var ValidFormats = map[string]bool{
	FormatPDF:  true,
	FormatPPTX: true,
	FormatHTML: true,
	FormatZIP:  true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: pdf, pptx, html, zip)", format)
	}
	return nil
}

const (
	// DefaultMarkupSettle bounds the wait for the view to settle before
	// markup is read during a full-deck HTML walk.
	DefaultMarkupSettle = 600 * time.Millisecond

	// DefaultRasterSettle bounds the wait for the view to settle before
	// a slide is captured during a raster walk.
	DefaultRasterSettle = 800 * time.Millisecond
)

// Options configures an export run.
type Options struct {
	// MarkupSettle bounds the per-slide settle wait for markup reads.
	MarkupSettle time.Duration

	// RasterSettle bounds the per-slide settle wait for captures.
	RasterSettle time.Duration

	// Raster configures slide rasterization.
	Raster raster.Options

	validated bool
}

// ValidateAndSetDefaults checks option values and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.MarkupSettle < 0 || o.RasterSettle < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "settle delays must not be negative")
	}
	if o.MarkupSettle == 0 {
		o.MarkupSettle = DefaultMarkupSettle
	}
	if o.RasterSettle == 0 {
		o.RasterSettle = DefaultRasterSettle
	}
	o.validated = true
	return nil
}

// Result describes a completed export.
type Result struct {
	// Format is one of the Format constants.
	Format string

	// Filename is the artifact's file name.
	Filename string

	// Path is where the saver placed the artifact.
	Path string

	// Size is the artifact size in bytes.
	Size int

	// Slides is the number of slides the export covered.
	Slides int

	// Duration is the wall-clock export time.
	Duration time.Duration
}

// Packager turns a PNG capture into a presentation file. It is loaded
// lazily: the slide packager is only constructed the first time a PPTX
// export runs.
type Packager func(png []byte) ([]byte, error)

// Exporter runs deck exports against a shared view.
//
// The Exporter itself is safe for concurrent use: overlapping export
// requests are serialized by rejection, never by queueing.
type Exporter struct {
	view   view.View
	store  *lesson.Store
	deck   deck.Deck
	rz     raster.Rasterizer
	saver  Saver
	notify Notifier
	logger *log.Logger
	opts   Options

	packager func() (Packager, error)
	busy     atomic.Bool
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithRasterizer sets the rasterizer used for captures.
func WithRasterizer(rz raster.Rasterizer) Option {
	return func(e *Exporter) { e.rz = rz }
}

// WithSaver sets where artifacts are written.
func WithSaver(s Saver) Option {
	return func(e *Exporter) { e.saver = s }
}

// WithNotifier sets the completion notifier.
func WithNotifier(n Notifier) Option {
	return func(e *Exporter) { e.notify = n }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Exporter) { e.logger = l }
}

// WithPackagerLoader sets the lazy loader for the PPTX packager.
func WithPackagerLoader(load func() (Packager, error)) Option {
	return func(e *Exporter) {
		e.packager = sync.OnceValues(load)
	}
}

// New creates an Exporter for the given view, lesson store, and deck.
func New(v view.View, store *lesson.Store, d deck.Deck, opts Options, optFns ...Option) (*Exporter, error) {
	if v == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "view is required")
	}
	if store == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "lesson store is required")
	}
	if len(d) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "deck must not be empty")
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	e := &Exporter{
		view:  v,
		store: store,
		deck:  d,
		opts:  opts,
	}
	for _, fn := range optFns {
		fn(e)
	}
	if e.rz == nil {
		e.rz = raster.NewWKHTML()
	}
	if e.saver == nil {
		e.saver = NewDirSaver(".")
	}
	if e.logger == nil {
		e.logger = log.Default()
	}
	if e.notify == nil {
		e.notify = NewLogNotifier(e.logger)
	}
	if e.packager == nil {
		e.packager = sync.OnceValues(defaultPackagerLoader)
	}
	return e, nil
}

// Busy reports whether an export is currently running.
func (e *Exporter) Busy() bool {
	return e.busy.Load()
}

// acquire claims the in-progress flag or rejects.
func (e *Exporter) acquire(format string) error {
	if !e.busy.CompareAndSwap(false, true) {
		return errors.New(errors.ErrCodeExportInProgress,
			"an export is already running, retry when it completes")
	}
	e.logger.Debug("export started", "format", format)
	return nil
}

func (e *Exporter) release() {
	e.busy.Store(false)
}

// run executes fn under the in-progress flag and emits exactly one
// notice for the outcome.
func (e *Exporter) run(ctx context.Context, format string, fn func(session string) (*Result, error)) (*Result, error) {
	if err := e.acquire(format); err != nil {
		observability.Export().OnExportRejected(ctx, format)
		return nil, err
	}
	defer e.release()

	session := uuid.NewString()[:8]
	start := time.Now()
	observability.Export().OnExportStart(ctx, format)
	res, err := fn(session)
	if err != nil {
		observability.Export().OnExportComplete(ctx, format, 0, time.Since(start), err)
		e.logger.Error("export failed",
			"format", format, "session", session, "err", err)
		e.notify.Failed(format, err)
		return nil, err
	}
	res.Format = format
	res.Duration = time.Since(start)
	observability.Export().OnExportComplete(ctx, format, res.Slides, res.Duration, nil)
	e.logger.Info("export complete",
		"format", format,
		"session", session,
		"file", res.Path,
		"bytes", res.Size,
		"duration", res.Duration)
	e.notify.Done(res)
	return res, nil
}

// CurrentSlidePDF captures the active slide and saves it as a one-page
// PDF named after the slide title.
func (e *Exporter) CurrentSlidePDF(ctx context.Context) (*Result, error) {
	return e.run(ctx, FormatPDF, func(session string) (*Result, error) {
		capture, slide, err := e.captureActive(ctx)
		if err != nil {
			return nil, err
		}
		data, err := pdfdoc.FromPNG(capture)
		if err != nil {
			return nil, err
		}
		return e.save("lezione-"+lesson.Slug(slide.Title)+".pdf", data, 1)
	})
}

// CurrentSlidePPTX captures the active slide and saves it as a
// single-slide PowerPoint file named after the slide title. The
// packager is loaded on first use.
func (e *Exporter) CurrentSlidePPTX(ctx context.Context) (*Result, error) {
	return e.run(ctx, FormatPPTX, func(session string) (*Result, error) {
		pack, err := e.packager()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodePackaging, err, "load slide packager")
		}
		capture, slide, err := e.captureActive(ctx)
		if err != nil {
			return nil, err
		}
		data, err := pack(capture)
		if err != nil {
			return nil, err
		}
		return e.save("lezione-"+lesson.Slug(slide.Title)+".pptx", data, 1)
	})
}

// FullDeckHTML walks every slide, collects its live markup, and saves a
// self-contained static page for the whole deck.
func (e *Exporter) FullDeckHTML(ctx context.Context) (*Result, error) {
	return e.run(ctx, FormatHTML, func(session string) (*Result, error) {
		doc := e.store.Snapshot()
		sections := make([][]byte, 0, len(e.deck))

		err := e.walk(ctx, e.opts.MarkupSettle, func(i int) error {
			markup, err := e.view.Markup()
			if err != nil {
				return err
			}
			sections = append(sections, markup)
			return nil
		})
		if err != nil {
			return nil, err
		}

		page, err := StaticPage(doc, e.deck, sections)
		if err != nil {
			return nil, err
		}
		name := "presentazione-completa-" + lesson.Slug(doc.Title) + ".html"
		return e.save(name, page, len(e.deck))
	})
}

// FullDeckZIP walks every slide, captures each as a PNG, and saves the
// captures as a ZIP archive in deck order.
func (e *Exporter) FullDeckZIP(ctx context.Context) (*Result, error) {
	return e.run(ctx, FormatZIP, func(session string) (*Result, error) {
		b := archive.New()

		err := e.walk(ctx, e.opts.RasterSettle, func(i int) error {
			slideStart := time.Now()
			page, err := e.view.Page()
			if err != nil {
				return err
			}
			capture, err := e.rz.Capture(ctx, page, e.opts.Raster)
			if err != nil {
				return err
			}
			observability.Export().OnSlideCaptured(ctx, FormatZIP, i, time.Since(slideStart))
			return b.AddEntry(e.deck.EntryName(i), capture)
		})
		if err != nil {
			return nil, err
		}

		data, err := b.Bytes()
		if err != nil {
			return nil, err
		}
		doc := e.store.Snapshot()
		name := "immagini-lezione-" + lesson.Slug(doc.Title) + ".zip"
		return e.save(name, data, len(e.deck))
	})
}

// walk visits every slide in deck order, waiting for the view to settle
// before calling visit, and restores the starting slide when done. The
// restore happens on every path out, including failures.
func (e *Exporter) walk(ctx context.Context, settle time.Duration, visit func(i int) error) error {
	restore := e.view.ActiveIndex()
	defer func() {
		if err := e.view.SetActiveIndex(restore); err != nil {
			e.logger.Warn("restore slide after walk", "index", restore, "err", err)
		}
	}()

	for i := range e.deck {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(errors.ErrCodeCapture, err, "walk canceled at slide %d", i+1)
		}
		if err := e.view.SetActiveIndex(i); err != nil {
			return err
		}
		if err := e.waitSettled(ctx, settle); err != nil {
			return err
		}
		if err := visit(i); err != nil {
			// Keep the visit error's code; errors from outside the
			// pipeline count as capture failures.
			code := errors.GetCode(err)
			if code == "" {
				code = errors.ErrCodeCapture
			}
			return errors.Wrap(code, err, "slide %d (%s)", i+1, e.deck[i].ID)
		}
	}
	return nil
}

// captureActive rasterizes the currently active slide.
func (e *Exporter) captureActive(ctx context.Context) ([]byte, deck.Slide, error) {
	i := e.view.ActiveIndex()
	if !e.deck.Valid(i) {
		return nil, deck.Slide{}, errors.New(errors.ErrCodeInvalidSlide, "active slide %d out of range", i)
	}
	if err := e.waitSettled(ctx, e.opts.RasterSettle); err != nil {
		return nil, deck.Slide{}, err
	}
	page, err := e.view.Page()
	if err != nil {
		return nil, deck.Slide{}, err
	}
	capture, err := e.rz.Capture(ctx, page, e.opts.Raster)
	if err != nil {
		return nil, deck.Slide{}, err
	}
	return capture, e.deck[i], nil
}

// waitSettled blocks until the view reports it has settled, the bound
// elapses, or ctx is canceled. The bound keeps a stuck view from
// hanging an export.
func (e *Exporter) waitSettled(ctx context.Context, bound time.Duration) error {
	select {
	case <-e.view.Settled():
		return nil
	case <-time.After(bound):
		return nil
	case <-ctx.Done():
		return errors.Wrap(errors.ErrCodeCapture, ctx.Err(), "settle wait canceled")
	}
}

func (e *Exporter) save(name string, data []byte, slides int) (*Result, error) {
	path, err := e.saver.Save(name, data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePackaging, err, "save %s", name)
	}
	return &Result{Filename: name, Path: path, Size: len(data), Slides: slides}, nil
}

// Describe returns a short human-readable label for a format.
func Describe(format string) string {
	switch format {
	case FormatPDF:
		return "slide PDF"
	case FormatPPTX:
		return "slide PowerPoint"
	case FormatHTML:
		return "full deck page"
	case FormatZIP:
		return "full deck images"
	default:
		return strings.ToUpper(format)
	}
}

// Package raster converts rendered slide pages into PNG images.
//
// The [Rasterizer] interface is the capability contract the export
// pipeline consumes; [WKHTML] is the default implementation, shelling out
// to the external wkhtmltoimage tool. Capture is always performed at a
// fixed pixel density against a flat background color so exported images
// match the on-screen slide exactly.
package raster

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/formulalab/masterclass/pkg/errors"
)

// Options control a single capture.
type Options struct {
	// Scale is the pixel density multiplier. 2.0 produces a 2x image.
	Scale float64
	// Background is the flat background color behind the slide.
	Background string
	// Width is the logical viewport width in pixels.
	Width int
}

// Default capture settings: 2x density on the app background.
const (
	DefaultScale      = 2.0
	DefaultBackground = "#fdfdfd"
	DefaultWidth      = 1232 // slide max-width plus page padding
)

// DefaultOptions returns the standard capture settings.
func DefaultOptions() Options {
	return Options{Scale: DefaultScale, Background: DefaultBackground, Width: DefaultWidth}
}

// withDefaults fills zero fields with the standard settings.
func (o Options) withDefaults() Options {
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Background == "" {
		o.Background = DefaultBackground
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	return o
}

// Rasterizer converts a standalone HTML page into an encoded PNG.
type Rasterizer interface {
	Capture(ctx context.Context, page []byte, opts Options) ([]byte, error)
}

// WKHTML rasterizes pages by shelling out to wkhtmltoimage.
// Requires wkhtmltopdf: brew install wkhtmltopdf (macOS),
// apt install wkhtmltopdf (Linux).
type WKHTML struct{}

// NewWKHTML creates the wkhtmltoimage-backed rasterizer.
func NewWKHTML() *WKHTML { return &WKHTML{} }

// Capture renders page to PNG at the requested density and background.
func (w *WKHTML) Capture(ctx context.Context, page []byte, opts Options) ([]byte, error) {
	opts = opts.withDefaults()

	if _, err := exec.LookPath("wkhtmltoimage"); err != nil {
		return nil, errors.New(errors.ErrCodeCapture,
			"image capture requires wkhtmltoimage. Install with:\n  macOS:  brew install wkhtmltopdf\n  Linux:  apt install wkhtmltopdf")
	}

	// wkhtmltoimage resolves relative references against the input path,
	// so the page goes through a temp file rather than stdin.
	tmp, err := os.CreateTemp("", "masterclass-*.html")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCapture, err, "stage capture input")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(page); err != nil {
		tmp.Close()
		return nil, errors.Wrap(errors.ErrCodeCapture, err, "stage capture input")
	}
	tmp.Close()

	args := []string{
		"--format", "png",
		"--zoom", fmt.Sprintf("%.2f", opts.Scale),
		"--width", fmt.Sprintf("%.0f", float64(opts.Width)*opts.Scale),
		"--quality", "100",
		"--enable-local-file-access",
		filepath.ToSlash(tmp.Name()),
		"-", // PNG to stdout
	}

	cmd := exec.CommandContext(ctx, "wkhtmltoimage", args...)
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCapture, err,
			"wkhtmltoimage: %s", errBuf.String())
	}
	if out.Len() == 0 {
		return nil, errors.New(errors.ErrCodeCapture, "wkhtmltoimage produced no output")
	}
	return out.Bytes(), nil
}

var _ Rasterizer = (*WKHTML)(nil)

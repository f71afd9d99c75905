// Package pdfdoc wraps a rendered slide capture into a one-page PDF.
//
// The page is landscape and sized exactly to the capture's pixel
// dimensions, so the image fills the page edge to edge with no margins
// and no rescaling artifacts.
package pdfdoc

import (
	"bytes"
	"image"
	_ "image/png"

	"github.com/jung-kurt/gofpdf"

	"github.com/formulalab/masterclass/pkg/errors"
)

// FromPNG builds a single-page PDF document containing the PNG capture
// at its native pixel size.
func FromPNG(png []byte) ([]byte, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(png))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "decode capture dimensions")
	}
	if format != "png" {
		return nil, errors.New(errors.ErrCodeDecode, "capture is %s, expected png", format)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.New(errors.ErrCodeDecode, "capture has empty dimensions %dx%d", cfg.Width, cfg.Height)
	}

	w, h := float64(cfg.Width), float64(cfg.Height)
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "L",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader("capture", opts, bytes.NewReader(png))
	pdf.ImageOptions("capture", 0, 0, w, h, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodePackaging, err, "write pdf")
	}
	return buf.Bytes(), nil
}

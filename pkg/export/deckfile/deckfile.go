// Package deckfile writes a rendered slide capture as a PowerPoint file.
//
// The generated package is a minimal OOXML presentation: one slide, one
// picture stretched across the full canvas, and the smallest set of
// parts PowerPoint and LibreOffice accept (content types, relationship
// files, a slide master, a layout and a theme). The slide canvas is
// sized to the capture so the picture fills it exactly.
package deckfile

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"

	"github.com/formulalab/masterclass/pkg/errors"
	"github.com/formulalab/masterclass/pkg/export/archive"
)

// emuPerPixel converts 96 DPI pixels to English Metric Units.
const emuPerPixel = 9525

// FromPNG builds a single-slide .pptx package containing the PNG
// capture at full canvas size.
func FromPNG(png []byte) ([]byte, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(png))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "decode capture dimensions")
	}
	if format != "png" {
		return nil, errors.New(errors.ErrCodeDecode, "capture is %s, expected png", format)
	}

	cx := cfg.Width * emuPerPixel
	cy := cfg.Height * emuPerPixel

	b := archive.New()
	parts := []struct {
		name string
		data string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", rootRelsXML},
		{"ppt/presentation.xml", fmt.Sprintf(presentationXML, cx, cy, cx, cy)},
		{"ppt/_rels/presentation.xml.rels", presentationRelsXML},
		{"ppt/slideMasters/slideMaster1.xml", slideMasterXML},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", slideMasterRelsXML},
		{"ppt/slideLayouts/slideLayout1.xml", slideLayoutXML},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", slideLayoutRelsXML},
		{"ppt/theme/theme1.xml", themeXML},
		{"ppt/slides/slide1.xml", fmt.Sprintf(slideXML, cx, cy)},
		{"ppt/slides/_rels/slide1.xml.rels", slideRelsXML},
	}
	for _, p := range parts {
		if err := b.AddEntry(p.name, []byte(p.data)); err != nil {
			return nil, err
		}
	}
	if err := b.AddEntry("ppt/media/image1.png", png); err != nil {
		return nil, err
	}
	return b.Bytes()
}

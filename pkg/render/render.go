// Package render produces the HTML markup for individual slides.
//
// # Overview
//
// Rendering is a pure function of (slide index, lesson document, editing
// flag): the same inputs always produce the same markup. Each slide has its
// own template, embedded into the binary via go:embed. The output of
// [Renderer.Slide] is the inner markup of exactly one slide, rooted in a
// single stable container element — the contract the export pipeline
// depends on for capture.
//
// # Editing mode
//
// With [WithEditing], text fields render as input elements bound to their
// document field names, so a host view can wire up inline editing. The
// non-editing output contains only presentational markup.
//
// [Renderer.Standalone] wraps a slide's markup in a minimal self-contained
// HTML page on the app background; this is the unit the rasterizer consumes.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/formulalab/masterclass/pkg/deck"
	"github.com/formulalab/masterclass/pkg/lesson"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Background is the app background color, also used as the raster
// capture background so slide edges blend into the page.
const Background = "#fdfdfd"

// ContainerID is the id of the single stable container element that roots
// every rendered slide. Capture reads this element's subtree.
const ContainerID = "slide-root"

// Option configures a single render call.
type Option func(*renderOpts)

type renderOpts struct {
	editing bool
}

// WithEditing renders text fields as editable inputs.
func WithEditing() Option {
	return func(o *renderOpts) { o.editing = true }
}

// Renderer renders slides of one deck.
type Renderer struct {
	deck deck.Deck
	tmpl *template.Template
}

// slideData is the data passed to every slide template.
type slideData struct {
	Index   int
	Number  int // 1-based position
	Slide   deck.Slide
	Doc     lesson.Document
	Editing bool
}

// New creates a renderer for the given deck, parsing the embedded
// slide templates. It fails if any deck slide has no matching template.
func New(d deck.Deck) (*Renderer, error) {
	tmpl := template.New("slides").Funcs(template.FuncMap{
		"field":     fieldHelper,
		"textarea":  textareaHelper,
		"paragraph": paragraphHelper,
		// The logo may be a data URI, which html/template's URL filter
		// would reject; the document owner controls this value.
		"safeurl": func(s string) template.URL { return template.URL(s) },
	})
	tmpl, err := tmpl.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse slide templates: %w", err)
	}
	for _, s := range d {
		if tmpl.Lookup(s.ID) == nil {
			return nil, fmt.Errorf("no template for slide %q", s.ID)
		}
	}
	return &Renderer{deck: d, tmpl: tmpl}, nil
}

// Deck returns the deck this renderer was built for.
func (r *Renderer) Deck() deck.Deck { return r.deck }

// Slide renders the inner markup of the slide at index i.
// The result is rooted in a single <div id="slide-root"> container.
func (r *Renderer) Slide(i int, doc lesson.Document, opts ...Option) ([]byte, error) {
	if !r.deck.Valid(i) {
		return nil, fmt.Errorf("slide index %d out of range [0,%d)", i, len(r.deck))
	}
	var o renderOpts
	for _, opt := range opts {
		opt(&o)
	}

	data := slideData{
		Index:   i,
		Number:  i + 1,
		Slide:   r.deck[i],
		Doc:     doc,
		Editing: o.editing,
	}

	var body bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&body, r.deck[i].ID, data); err != nil {
		return nil, fmt.Errorf("render slide %s: %w", r.deck[i].ID, err)
	}

	var out bytes.Buffer
	fmt.Fprintf(&out, "<div class=\"slide slide-%s\" id=%q>\n", r.deck[i].ID, ContainerID)
	out.Write(body.Bytes())
	out.WriteString("\n</div>")
	return out.Bytes(), nil
}

// Standalone wraps one slide's inner markup in a minimal full HTML page
// suitable for rasterizing: charset, viewport, base styles and the app
// background color.
func (r *Renderer) Standalone(inner []byte, doc lesson.Document) []byte {
	var out bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&out, "standalone", struct {
		Title      string
		Background string
		Inner      template.HTML
	}{
		Title:      doc.Title,
		Background: Background,
		Inner:      template.HTML(inner),
	}); err != nil {
		// The standalone template takes no user input paths that can fail;
		// a failure here is a programming error.
		panic(fmt.Sprintf("render standalone page: %v", err))
	}
	return out.Bytes()
}

// fieldHelper renders a document text field: a plain span normally, an
// input bound to the field name in editing mode.
func fieldHelper(editing bool, name, value string) template.HTML {
	if editing {
		return template.HTML(fmt.Sprintf(
			`<input class="edit" type="text" name=%q value=%q>`,
			name, template.HTMLEscapeString(value)))
	}
	return template.HTML(fmt.Sprintf(`<span>%s</span>`, template.HTMLEscapeString(value)))
}

// textareaHelper is fieldHelper for multiline fields.
func textareaHelper(editing bool, name, value string) template.HTML {
	if editing {
		return template.HTML(fmt.Sprintf(
			`<textarea class="edit" name=%q rows="3">%s</textarea>`,
			name, template.HTMLEscapeString(value)))
	}
	return paragraphHelper(value)
}

// paragraphHelper escapes value and converts newlines to <br>.
func paragraphHelper(value string) template.HTML {
	escaped := template.HTMLEscapeString(value)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

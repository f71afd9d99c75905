package export

import (
	"bytes"
	"html/template"

	"github.com/formulalab/masterclass/pkg/deck"
	"github.com/formulalab/masterclass/pkg/errors"
	"github.com/formulalab/masterclass/pkg/lesson"
)

// staticPageTmpl lays out the full-deck page: a title block, one card
// per slide with a numbered dark header, and a closing attribution.
var staticPageTmpl = template.Must(template.New("static").Parse(`<!DOCTYPE html>
<html lang="it">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}} - Presentazione Completa</title>
<script src="https://cdn.tailwindcss.com"></script>
<link rel="preconnect" href="https://fonts.googleapis.com">
<link href="https://fonts.googleapis.com/css2?family=Inter:wght@400;500;600;700;800;900&display=swap" rel="stylesheet">
<style>
body { font-family: 'Inter', sans-serif; background: #f1f5f9; }
.slide-section { background: white; border-radius: 1.5rem; overflow: hidden; margin-bottom: 3rem; box-shadow: 0 10px 40px rgba(0,0,0,0.08); }
.slide-section .slide { min-height: auto; }
</style>
</head>
<body class="p-4 md:p-12">
<div class="max-w-6xl mx-auto">
<header class="text-center mb-12">
<h1 class="text-4xl font-black text-slate-900 uppercase tracking-tight">{{.Title}}</h1>
<p class="text-slate-500 font-medium mt-2">{{.Subtitle}}</p>
<p class="text-slate-400 text-sm font-semibold mt-4 uppercase tracking-widest">Masterclass by {{.Teacher}}</p>
<p class="text-slate-400 text-sm font-medium">{{.Date}} - {{.Location}}</p>
</header>
{{range .Slides}}
<section class="slide-section">
<div class="bg-slate-900 text-white px-8 py-4 text-sm font-bold uppercase tracking-widest">{{.Header}}</div>
{{.Markup}}
</section>
{{end}}
<footer class="text-center text-slate-400 text-sm font-medium py-8">
{{.Title}} &middot; Docente: {{.Teacher}} ({{.Email}})
</footer>
</div>
</body>
</html>
`))

type staticSlide struct {
	Header string
	Markup template.HTML
}

type staticPageData struct {
	Title    string
	Subtitle string
	Teacher  string
	Email    string
	Date     string
	Location string
	Slides   []staticSlide
}

// StaticPage assembles the live markup of every slide into one
// self-contained HTML document. Sections must be in deck order and
// cover the whole deck.
func StaticPage(doc lesson.Document, d deck.Deck, sections [][]byte) ([]byte, error) {
	if len(sections) != len(d) {
		return nil, errors.New(errors.ErrCodePackaging,
			"have markup for %d slides, deck has %d", len(sections), len(d))
	}

	data := staticPageData{
		Title:    doc.Title,
		Subtitle: doc.Subtitle,
		Teacher:  doc.Teacher,
		Email:    doc.Email,
		Date:     doc.Date,
		Location: doc.Location,
	}
	for i, section := range sections {
		data.Slides = append(data.Slides, staticSlide{
			Header: d.Header(i),
			Markup: template.HTML(section),
		})
	}

	var buf bytes.Buffer
	if err := staticPageTmpl.Execute(&buf, data); err != nil {
		return nil, errors.Wrap(errors.ErrCodePackaging, err, "assemble deck page")
	}
	return buf.Bytes(), nil
}

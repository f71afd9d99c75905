// Package deck defines the fixed slide sequence of the Masterclass.
//
// The deck is a process-wide constant: a fixed-length, fixed-order list of
// slide descriptors. It is never mutated at runtime — the exporter and the
// views use it only for iteration bounds and for deriving labels and
// filenames.
package deck

import "fmt"

// Slide describes one addressable unit of the presentation.
type Slide struct {
	// ID is the stable identifier, used in archive entry names.
	ID string
	// Title is the display label shown in navigation and export headers.
	Title string
}

// Deck is an ordered sequence of slides.
type Deck []Slide

// Default returns the fixed 14-slide Masterclass deck.
func Default() Deck {
	return Deck{
		{ID: "intro", Title: "Benvenuti"},
		{ID: "concept", Title: "Piano vs Calendario"},
		{ID: "visual", Title: "Il Potere del Visual"},
		{ID: "neuro", Title: "Neuroscienze 2024"},
		{ID: "identity", Title: "Identità & Social"},
		{ID: "journey", Title: "Il Viaggio del Cliente"},
		{ID: "metrics", Title: "Metriche vs KPI"},
		{ID: "market", Title: "Analisi Mercato (UC 1655)"},
		{ID: "offer", Title: "Configurazione Offerta (UC 1656)"},
		{ID: "luxury", Title: "Marketing del Lusso & Digital"},
		{ID: "strategy", Title: "Il Piano Editoriale"},
		{ID: "rubriche", Title: "Rubriche Creative"},
		{ID: "calendar", Title: "Il Calendario Operativo"},
		{ID: "exercise", Title: "Esercitazione"},
	}
}

// Valid reports whether i is a valid slide index for the deck.
func (d Deck) Valid(i int) bool {
	return i >= 0 && i < len(d)
}

// Clamp returns i limited to the deck's index range.
func (d Deck) Clamp(i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(d) {
		return len(d) - 1
	}
	return i
}

// EntryName returns the archive entry name for the slide at index i:
// a two-digit, zero-padded 1-based position followed by the slide ID,
// e.g. "slide-03-visual.png".
func (d Deck) EntryName(i int) string {
	return fmt.Sprintf("slide-%02d-%s.png", i+1, d[i].ID)
}

// Header returns the per-slide export header label, e.g.
// "Slide 3: Il Potere del Visual".
func (d Deck) Header(i int) string {
	return fmt.Sprintf("Slide %d: %s", i+1, d[i].Title)
}

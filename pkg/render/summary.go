package render

import (
	"fmt"
	"strings"
)

// Summary returns a markdown summary of the slide at index i, used by the
// terminal UI for its preview pane. Like [Renderer.Slide], it is a pure
// function of the index and the document.
func (r *Renderer) Summary(i int) string {
	if !r.deck.Valid(i) {
		return ""
	}
	s := r.deck[i]
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", s.Title)

	switch s.ID {
	case "intro":
		b.WriteString("Apertura della masterclass: titolo, data, orario e luogo della lezione, gli obiettivi e il messaggio del docente.\n")
	case "concept":
		b.WriteString("Piano editoriale come strategia, calendario come esecuzione: due strumenti, due ritmi.\n")
	case "visual":
		b.WriteString("I numeri del neuromarketing visivo, e il dovere di verificarne le fonti.\n")
	case "neuro":
		b.WriteString("La ricerca 2024 su attenzione frammentata e decisioni emotive.\n")
	case "identity":
		b.WriteString("Appartenenza, status, coerenza: perché i social vendono identità.\n")
	case "journey":
		b.WriteString("Le cinque fasi del viaggio del cliente e i contenuti che ogni fase chiede.\n")
	case "metrics":
		b.WriteString("Distinguere le metriche (tutto ciò che si conta) dai KPI (ciò che decide).\n")
	case "market":
		b.WriteString("Analisi di mercato: cosa cercare, con quali strumenti, per quali decisioni.\n")
	case "offer":
		b.WriteString("Costi e valore dell'offerta, e gli ingredienti di una promessa che converte.\n")
	case "luxury":
		b.WriteString("Come il lusso usa il digitale: scarsità, storytelling, accesso al mondo del brand.\n")
	case "strategy":
		b.WriteString("La struttura del piano editoriale: identità, pubblico, obiettivi, rubriche, canali.\n")
	case "rubriche":
		b.WriteString("Quattro formati ricorrenti che danno ritmo alla comunicazione.\n")
	case "calendar":
		b.WriteString("Il calendario operativo: colonne minime, ritmo sostenibile, margine per l'attualità.\n")
	case "exercise":
		b.WriteString("L'esercitazione finale: obiettivo SMART, rubriche e una settimana di calendario.\n")
	}
	return b.String()
}

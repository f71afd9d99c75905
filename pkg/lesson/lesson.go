// Package lesson holds the mutable lesson document and its state store.
//
// # Overview
//
// A [Document] is the single editable data model behind the deck: the lesson
// title, schedule, objectives, message and presenter info. Every field has a
// default, so a Document is always a fully-populated, independently valid
// value. The [Store] owns the live document; everything else (renderer,
// exporter, HTTP handlers) works on snapshots.
//
// The flat JSON form produced by [WriteJSON] round-trips through [ReadJSON]
// with field order and objectives order preserved. Imports are tolerant
// per-field: fields absent from the JSON keep their previous values.
package lesson

import "slices"

// Document is the lesson data model. All scalar fields are plain text;
// LogoURL, PodcastURL and VideoURL are optional and may hold either a
// remote URL or an embedded data URI.
type Document struct {
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Location    string   `json:"location"`
	Objectives  []string `json:"objectives"`
	Message     string   `json:"message"`
	Teacher     string   `json:"teacher"`
	TeacherRole string   `json:"teacherRole"`
	Email       string   `json:"email"`
	LogoURL     string   `json:"logoUrl,omitempty"`
	PodcastURL  string   `json:"podcastUrl,omitempty"`
	VideoURL    string   `json:"videoUrl,omitempty"`
}

// Default returns the fully-populated default lesson document.
func Default() Document {
	return Document{
		Title:    "Marketing & Comunicazione Online",
		Subtitle: "Lecce, Lunedì 2 Marzo 2026",
		Date:     "02 Marzo 2026",
		Time:     "14:30 - 20:30",
		Location: "Forum Lab, Lecce",
		Objectives: []string{
			"Comprendere le fasi di un piano di comunicazione",
			"Configurazione Offerta (UC 1656)",
			"Identificare le nuove regole del marketing digitale",
			"Saper definire obiettivi SMART e KPI",
			"Utilizzare l'AI per l'ottimizzazione dei processi",
		},
		Message:     "Dal sogno al segno.\nDal segno a un universo da abitare",
		Teacher:     "Mari Indennitate",
		TeacherRole: "aka Veravox",
		Email:       "veravox@indennitatedigital.it",
		LogoURL:     "https://pbs.twimg.com/profile_images/2027150076972273664/dcIvrP9l_400x400.jpg",
		PodcastURL:  "https://open.spotify.com/show/3R6qX7X2X5X5X5",
		VideoURL:    "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
	}
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := d
	out.Objectives = make([]string, len(d.Objectives))
	copy(out.Objectives, d.Objectives)
	return out
}

// Equal reports whether two documents have identical content,
// including objectives order.
func (d Document) Equal(other Document) bool {
	return d.Title == other.Title &&
		d.Subtitle == other.Subtitle &&
		d.Date == other.Date &&
		d.Time == other.Time &&
		d.Location == other.Location &&
		d.Message == other.Message &&
		d.Teacher == other.Teacher &&
		d.TeacherRole == other.TeacherRole &&
		d.Email == other.Email &&
		d.LogoURL == other.LogoURL &&
		d.PodcastURL == other.PodcastURL &&
		d.VideoURL == other.VideoURL &&
		slices.Equal(d.Objectives, other.Objectives)
}

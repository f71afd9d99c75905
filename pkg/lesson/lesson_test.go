package lesson

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestDefaultIsFullyPopulated(t *testing.T) {
	d := Default()
	fields := map[string]string{
		"Title":    d.Title,
		"Subtitle": d.Subtitle,
		"Date":     d.Date,
		"Time":     d.Time,
		"Location": d.Location,
		"Message":  d.Message,
		"Teacher":  d.Teacher,
		"Email":    d.Email,
	}
	for name, v := range fields {
		if v == "" {
			t.Errorf("Default().%s is empty", name)
		}
	}
	if len(d.Objectives) == 0 {
		t.Error("Default() has no objectives")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	a := Default()
	b := a.Clone()
	b.Objectives[0] = "changed"
	if a.Objectives[0] == "changed" {
		t.Error("Clone shares the objectives slice")
	}
}

func TestEqual(t *testing.T) {
	base := Default()
	if !base.Equal(base.Clone()) {
		t.Error("document should equal its clone")
	}

	mutations := map[string]func(*Document){
		"Title":      func(d *Document) { d.Title = "x" },
		"Location":   func(d *Document) { d.Location = "x" },
		"Email":      func(d *Document) { d.Email = "x" },
		"LogoURL":    func(d *Document) { d.LogoURL = "x" },
		"objectives": func(d *Document) { d.Objectives[0] = "x" },
		"order": func(d *Document) {
			d.Objectives[0], d.Objectives[1] = d.Objectives[1], d.Objectives[0]
		},
	}
	for name, mutate := range mutations {
		got := base.Clone()
		mutate(&got)
		if got.Equal(base) {
			t.Errorf("Equal missed a change to %s", name)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	orig := Default()
	orig.Title = "Corso Avanzato"
	orig.Objectives = []string{"primo", "secondo", "terzo"}

	var buf bytes.Buffer
	if err := WriteJSON(orig, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	got, err := ReadJSON(&buf, Document{})
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if !got.Equal(orig) {
		t.Errorf("round-trip mismatch:\n got %+v\nwant %+v", got, orig)
	}
}

func TestReadJSONPartialKeepsBase(t *testing.T) {
	base := Default()
	partial := `{"title": "Solo Titolo", "objectives": ["a", "b"]}`

	got, err := ReadJSON(strings.NewReader(partial), base)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if got.Title != "Solo Titolo" {
		t.Errorf("Title = %q", got.Title)
	}
	if got.Teacher != base.Teacher {
		t.Errorf("Teacher = %q, want base value %q", got.Teacher, base.Teacher)
	}
	if len(got.Objectives) != 2 || got.Objectives[0] != "a" || got.Objectives[1] != "b" {
		t.Errorf("Objectives = %v", got.Objectives)
	}

	// A snapshot with no objectives at all keeps the base list.
	got, err = ReadJSON(strings.NewReader(`{"title": "x"}`), base)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if len(got.Objectives) != len(base.Objectives) {
		t.Errorf("Objectives = %v, want base list", got.Objectives)
	}
}

func TestReadJSONInvalid(t *testing.T) {
	if _, err := ReadJSON(strings.NewReader("{nope"), Default()); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestImportExportFile(t *testing.T) {
	path := t.TempDir() + "/lezione.json"
	orig := Default()
	orig.Location = "Aula Magna"

	if err := ExportJSON(orig, path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	got, err := ImportJSON(path, Default())
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if !got.Equal(orig) {
		t.Error("file round-trip mismatch")
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Marketing & Comunicazione Online", "marketing-&-comunicazione-online"},
		{"UPPER lower", "upper-lower"},
		{"  spaced   out  ", "spaced-out"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExportFilename(t *testing.T) {
	d := Document{Title: "Marketing Online"}
	if got := ExportFilename(d); got != "lezione-marketing-online.json" {
		t.Errorf("ExportFilename = %q", got)
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewDefaultStore()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Update(func(d *Document) { d.Title = "nuovo" })
		}()
		go func() {
			defer wg.Done()
			_ = s.Snapshot()
		}()
	}
	wg.Wait()
	if s.Snapshot().Title != "nuovo" {
		t.Error("update not applied")
	}
}

func TestStoreSnapshotIsolation(t *testing.T) {
	s := NewDefaultStore()
	snap := s.Snapshot()
	snap.Objectives[0] = "mutated"
	if s.Snapshot().Objectives[0] == "mutated" {
		t.Error("snapshot mutation leaked into the store")
	}
}

func TestStoreSetObjective(t *testing.T) {
	s := NewDefaultStore()
	s.SetObjective(1, "aggiornato")
	if s.Snapshot().Objectives[1] != "aggiornato" {
		t.Error("SetObjective did not apply")
	}
	// Out-of-range indexes are ignored.
	s.SetObjective(99, "x")
	s.SetObjective(-1, "x")
}

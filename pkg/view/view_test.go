package view

import (
	"strings"
	"testing"

	"github.com/formulalab/masterclass/pkg/deck"
	"github.com/formulalab/masterclass/pkg/lesson"
	"github.com/formulalab/masterclass/pkg/render"
)

func newTestView(t *testing.T) (*HTMLView, *lesson.Store) {
	t.Helper()
	r, err := render.New(deck.Default())
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	store := lesson.NewDefaultStore()
	v, err := NewHTML(r, store)
	if err != nil {
		t.Fatalf("NewHTML: %v", err)
	}
	return v, store
}

func TestNewViewShowsFirstSlide(t *testing.T) {
	v, _ := newTestView(t)
	if v.ActiveIndex() != 0 {
		t.Errorf("ActiveIndex = %d, want 0", v.ActiveIndex())
	}
	markup, err := v.Markup()
	if err != nil {
		t.Fatalf("Markup: %v", err)
	}
	if !strings.Contains(string(markup), `id="slide-root"`) {
		t.Error("markup missing container")
	}
}

func TestSetActiveIndex(t *testing.T) {
	v, _ := newTestView(t)
	if err := v.SetActiveIndex(3); err != nil {
		t.Fatalf("SetActiveIndex: %v", err)
	}
	if v.ActiveIndex() != 3 {
		t.Errorf("ActiveIndex = %d, want 3", v.ActiveIndex())
	}
	// Out-of-range indexes fail and leave the view unchanged.
	if err := v.SetActiveIndex(99); err == nil {
		t.Error("expected error for out-of-range index")
	}
	if v.ActiveIndex() != 3 {
		t.Errorf("failed SetActiveIndex moved the view to %d", v.ActiveIndex())
	}
}

func TestSettledSignal(t *testing.T) {
	v, _ := newTestView(t)
	if err := v.SetActiveIndex(1); err != nil {
		t.Fatal(err)
	}
	select {
	case <-v.Settled():
	default:
		t.Error("synchronous view should settle immediately after SetActiveIndex")
	}
}

func TestRefreshPicksUpStoreChanges(t *testing.T) {
	v, store := newTestView(t)
	store.Update(func(d *lesson.Document) { d.Title = "Titolo Aggiornato" })

	if err := v.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	markup, _ := v.Markup()
	if !strings.Contains(string(markup), "Titolo Aggiornato") {
		t.Error("refresh did not pick up the store update")
	}
}

func TestEditingToggle(t *testing.T) {
	v, _ := newTestView(t)
	if err := v.SetEditing(true); err != nil {
		t.Fatalf("SetEditing: %v", err)
	}
	if !v.Editing() {
		t.Error("Editing should be on")
	}
	markup, _ := v.Markup()
	if !strings.Contains(string(markup), "<input") {
		t.Error("editing markup should contain inputs")
	}

	if err := v.SetEditing(false); err != nil {
		t.Fatalf("SetEditing off: %v", err)
	}
	markup, _ = v.Markup()
	if strings.Contains(string(markup), "<input") {
		t.Error("non-editing markup should not contain inputs")
	}
}

func TestPageIsStandalone(t *testing.T) {
	v, _ := newTestView(t)
	page, err := v.Page()
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if !strings.Contains(string(page), "<!DOCTYPE html>") {
		t.Error("Page should return a standalone document")
	}
}

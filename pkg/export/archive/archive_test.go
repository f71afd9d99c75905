package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/formulalab/masterclass/pkg/errors"
)

func TestBuilderOrderAndContent(t *testing.T) {
	b := New()
	entries := []struct {
		name string
		data string
	}{
		{"slide-01-intro.png", "one"},
		{"slide-02-concept.png", "two"},
		{"slide-03-visual.png", "three"},
	}
	for _, e := range entries {
		if err := b.AddEntry(e.name, []byte(e.data)); err != nil {
			t.Fatalf("AddEntry(%q): %v", e.name, err)
		}
	}
	if b.Len() != len(entries) {
		t.Fatalf("Len() = %d, want %d", b.Len(), len(entries))
	}

	raw, err := b.Bytes()
	if err != nil {
		t.Fatalf("Bytes(): %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		t.Fatalf("zip.NewReader: %v", err)
	}
	if len(zr.File) != len(entries) {
		t.Fatalf("archive has %d files, want %d", len(zr.File), len(entries))
	}
	for i, f := range zr.File {
		if f.Name != entries[i].name {
			t.Errorf("entry %d name = %q, want %q", i, f.Name, entries[i].name)
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %q: %v", f.Name, err)
		}
		data, _ := io.ReadAll(rc)
		rc.Close()
		if string(data) != entries[i].data {
			t.Errorf("entry %q content = %q, want %q", f.Name, data, entries[i].data)
		}
	}
}

func TestBuilderRejectsWriteAfterFinalize(t *testing.T) {
	b := New()
	if err := b.AddEntry("a.txt", []byte("a")); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Bytes(); err != nil {
		t.Fatal(err)
	}
	err := b.AddEntry("b.txt", []byte("b"))
	if errors.GetCode(err) != errors.ErrCodePackaging {
		t.Errorf("expected %s, got %v", errors.ErrCodePackaging, err)
	}
}

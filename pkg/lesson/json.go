package lesson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// WriteJSON encodes a document as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON] for round-trip editing.
func WriteJSON(d Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode lesson: %w", err)
	}
	return nil
}

// ReadJSON decodes a lesson document from r.
//
// The decode is tolerant per-field: the result starts from base, and only
// fields present in the JSON overwrite it. There is no cross-field
// validation — a partial snapshot produces a valid document with defaults
// filling the gaps. Objectives, when present, replace the base list in
// their entirety with order preserved.
func ReadJSON(r io.Reader, base Document) (Document, error) {
	doc := base.Clone()
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return base, fmt.Errorf("decode lesson: %w", err)
	}
	if doc.Objectives == nil {
		doc.Objectives = base.Clone().Objectives
	}
	return doc, nil
}

// ExportJSON writes a document to a JSON file at path.
func ExportJSON(d Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(d, f)
}

// ImportJSON reads a lesson JSON file at path, starting from base for any
// fields the file omits.
func ImportJSON(path string, base Document) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return base, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f, base)
}

// ExportFilename returns the canonical lesson snapshot filename for a
// document: "lezione-<title>.json", lower-cased with spaces as hyphens.
func ExportFilename(d Document) string {
	return "lezione-" + Slug(d.Title) + ".json"
}

// Slug lower-cases s and replaces whitespace runs with hyphens.
func Slug(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}

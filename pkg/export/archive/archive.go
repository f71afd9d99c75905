// Package archive accumulates named entries into a ZIP file in memory.
package archive

import (
	"archive/zip"
	"bytes"

	"github.com/formulalab/masterclass/pkg/errors"
)

// Builder collects entries and serializes them as a ZIP archive.
// Entries appear in the archive in insertion order.
type Builder struct {
	buf    bytes.Buffer
	w      *zip.Writer
	names  []string
	closed bool
}

// New creates an empty archive builder.
func New() *Builder {
	b := &Builder{}
	b.w = zip.NewWriter(&b.buf)
	return b
}

// AddEntry appends a file entry with the given name and content.
func (b *Builder) AddEntry(name string, data []byte) error {
	if b.closed {
		return errors.New(errors.ErrCodePackaging, "archive already finalized")
	}
	f, err := b.w.Create(name)
	if err != nil {
		return errors.Wrap(errors.ErrCodePackaging, err, "create archive entry %q", name)
	}
	if _, err := f.Write(data); err != nil {
		return errors.Wrap(errors.ErrCodePackaging, err, "write archive entry %q", name)
	}
	b.names = append(b.names, name)
	return nil
}

// Names returns the entry names in insertion order.
func (b *Builder) Names() []string {
	out := make([]string, len(b.names))
	copy(out, b.names)
	return out
}

// Len returns the number of entries added so far.
func (b *Builder) Len() int { return len(b.names) }

// Bytes finalizes the archive and returns the ZIP file content. The
// builder cannot be written to afterwards.
func (b *Builder) Bytes() ([]byte, error) {
	if !b.closed {
		if err := b.w.Close(); err != nil {
			return nil, errors.Wrap(errors.ErrCodePackaging, err, "finalize archive")
		}
		b.closed = true
	}
	return b.buf.Bytes(), nil
}

package lesson

import "sync"

// Store is the exclusive owner of the mutable lesson document.
// All access goes through snapshots or locked updates, so a Store is safe
// for concurrent use by the view, the HTTP handlers and the exporter.
type Store struct {
	mu  sync.RWMutex
	doc Document
}

// NewStore creates a store seeded with the given document.
func NewStore(doc Document) *Store {
	return &Store{doc: doc.Clone()}
}

// NewDefaultStore creates a store seeded with the default lesson.
func NewDefaultStore() *Store {
	return NewStore(Default())
}

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// Update applies fn to the document under the write lock.
// fn receives a pointer to the live document and may mutate any field.
func (s *Store) Update(fn func(*Document)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.doc)
}

// Replace swaps in a whole new document.
func (s *Store) Replace(doc Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc.Clone()
}

// SetObjective replaces the objective at index i, ignoring out-of-range indexes.
func (s *Store) SetObjective(i int, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i >= 0 && i < len(s.doc.Objectives) {
		s.doc.Objectives[i] = text
	}
}

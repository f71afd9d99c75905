// Package view hosts the live slide view the export pipeline captures.
//
// # Overview
//
// A [View] owns two pieces of process-wide shared state: the current
// display index and the rendered container for that index. The export
// orchestrator is the only external mutator of the display index while an
// export runs; ordinary navigation is disabled at the control boundary
// whenever an export is in progress.
//
// Instead of the blind fixed waits of time-based render settling, a View
// exposes [View.Settled]: a channel closed once the active slide has fully
// rendered. Callers that cannot trust the signal (a remote view, slow
// asset loads) bound the wait with a fallback timeout.
package view

import (
	"sync"

	"github.com/formulalab/masterclass/pkg/errors"
	"github.com/formulalab/masterclass/pkg/lesson"
	"github.com/formulalab/masterclass/pkg/render"
)

// View is the host-view contract the export orchestrator drives.
type View interface {
	// ActiveIndex returns the currently displayed slide index.
	ActiveIndex() int

	// SetActiveIndex displays the slide at index i.
	SetActiveIndex(i int) error

	// Settled returns a channel closed once the active slide has fully
	// rendered. The channel is replaced on every SetActiveIndex.
	Settled() <-chan struct{}

	// Markup returns the inner markup of the active slide's container.
	Markup() ([]byte, error)

	// Page returns the active slide wrapped as a standalone HTML page,
	// the unit a rasterizer consumes.
	Page() ([]byte, error)
}

// HTMLView is the in-process View over a renderer and a lesson store.
// It re-renders eagerly on every index change, so its Settled signal
// resolves as soon as SetActiveIndex returns.
type HTMLView struct {
	mu       sync.RWMutex
	renderer *render.Renderer
	store    *lesson.Store
	index    int
	editing  bool
	markup   []byte
	settled  chan struct{}
}

// NewHTML creates a view showing slide 0.
func NewHTML(r *render.Renderer, store *lesson.Store) (*HTMLView, error) {
	v := &HTMLView{renderer: r, store: store}
	if err := v.SetActiveIndex(0); err != nil {
		return nil, err
	}
	return v, nil
}

// ActiveIndex returns the currently displayed slide index.
func (v *HTMLView) ActiveIndex() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.index
}

// SetActiveIndex renders and displays the slide at index i.
func (v *HTMLView) SetActiveIndex(i int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.display(i)
}

// display renders index i into the container. Caller holds the lock.
func (v *HTMLView) display(i int) error {
	var opts []render.Option
	if v.editing {
		opts = append(opts, render.WithEditing())
	}
	markup, err := v.renderer.Slide(i, v.store.Snapshot(), opts...)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSlide, err, "display slide %d", i)
	}

	v.index = i
	v.markup = markup
	settled := make(chan struct{})
	close(settled) // synchronous render: settled as soon as display returns
	v.settled = settled
	return nil
}

// SetEditing toggles inline-editing mode and re-renders the active slide.
func (v *HTMLView) SetEditing(editing bool) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.editing == editing {
		return nil
	}
	v.editing = editing
	return v.display(v.index)
}

// Editing reports whether inline-editing mode is on.
func (v *HTMLView) Editing() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.editing
}

// Refresh re-renders the active slide against the current document,
// picking up store updates.
func (v *HTMLView) Refresh() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.display(v.index)
}

// Settled returns the render-complete channel for the active slide.
func (v *HTMLView) Settled() <-chan struct{} {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.settled
}

// Markup returns the inner markup of the active slide's container.
func (v *HTMLView) Markup() ([]byte, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.markup == nil {
		return nil, errors.New(errors.ErrCodeViewDetached, "no slide rendered")
	}
	out := make([]byte, len(v.markup))
	copy(out, v.markup)
	return out, nil
}

// Page returns the active slide wrapped as a standalone HTML page.
func (v *HTMLView) Page() ([]byte, error) {
	markup, err := v.Markup()
	if err != nil {
		return nil, err
	}
	return v.renderer.Standalone(markup, v.store.Snapshot()), nil
}

var _ View = (*HTMLView)(nil)

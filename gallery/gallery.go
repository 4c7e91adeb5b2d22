// Package gallery implements the media viewer state machine: a current
// index cycling over a project's normalized media sequence, with keyboard
// navigation and a render contract for the fullsize element and the
// thumbnail strip.
//
// The state is modeled as three variants rather than inline index
// arithmetic: Empty (no media), Single (one item, navigation disabled) and
// a multi-item gallery carrying the current index. Views are immutable;
// operations return the next view.
package gallery

import (
	"fmt"

	"github.com/mfolden/portfolio-backend/models"
)

// View is the viewer state over a normalized media sequence.
type View interface {
	// Len is the number of items in the sequence.
	Len() int
	// Index is the current position, always 0 for Empty and Single.
	Index() int
	// Current returns the selected item; ok is false for Empty.
	Current() (models.MediaItem, bool)
	// Next advances with wraparound. No-op when Len() <= 1.
	Next() View
	// Previous steps back with wraparound. No-op when Len() <= 1.
	Previous() View
	// Select jumps to a thumbnail. i must be a valid index.
	Select(i int) (View, error)
	// Items returns the full sequence in display order.
	Items() []models.MediaItem
}

// New builds the view for a normalized media sequence. The index always
// starts at 0; callers presenting a different project must build a new view.
func New(items []models.MediaItem) View {
	switch len(items) {
	case 0:
		return empty{}
	case 1:
		return single{item: items[0]}
	default:
		return multi{items: items, index: 0}
	}
}

// FromProject builds the view over the project's normalized media.
func FromProject(p *models.Project) View {
	return New(p.NormalizedMedia())
}

type empty struct{}

func (empty) Len() int                          { return 0 }
func (empty) Index() int                        { return 0 }
func (empty) Current() (models.MediaItem, bool) { return models.MediaItem{}, false }
func (e empty) Next() View                      { return e }
func (e empty) Previous() View                  { return e }
func (empty) Items() []models.MediaItem         { return nil }

func (e empty) Select(i int) (View, error) {
	return e, fmt.Errorf("select %d on empty gallery", i)
}

type single struct {
	item models.MediaItem
}

func (single) Len() int                            { return 1 }
func (single) Index() int                          { return 0 }
func (s single) Current() (models.MediaItem, bool) { return s.item, true }
func (s single) Next() View                        { return s }
func (s single) Previous() View                    { return s }
func (s single) Items() []models.MediaItem         { return []models.MediaItem{s.item} }

func (s single) Select(i int) (View, error) {
	if i != 0 {
		return s, fmt.Errorf("select %d out of range [0,1)", i)
	}
	return s, nil
}

type multi struct {
	items []models.MediaItem
	index int
}

func (m multi) Len() int   { return len(m.items) }
func (m multi) Index() int { return m.index }

func (m multi) Current() (models.MediaItem, bool) {
	return m.items[m.index], true
}

func (m multi) Next() View {
	m.index = (m.index + 1) % len(m.items)
	return m
}

func (m multi) Previous() View {
	m.index = (m.index - 1 + len(m.items)) % len(m.items)
	return m
}

func (m multi) Select(i int) (View, error) {
	if i < 0 || i >= len(m.items) {
		return m, fmt.Errorf("select %d out of range [0,%d)", i, len(m.items))
	}
	m.index = i
	return m, nil
}

func (m multi) Items() []models.MediaItem { return m.items }

// At restores a previously communicated position, e.g. from a stateless
// request. Out-of-range indexes fall back to 0.
func At(items []models.MediaItem, index int) View {
	v := New(items)
	if index > 0 && index < v.Len() {
		v, _ = v.Select(index)
	}
	return v
}

package database

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mfolden/portfolio-backend/models"
)

// Mirror is a consumer-local copy of the ordered project list, plus the
// "currently previewing" reference for views that hold one. Live
// subscribers feed it snapshot events; one-shot consumers fill it once.
//
// The two variants degrade differently on purpose: a live mirror keeps its
// last good snapshot when the subscription errors (stale beats empty on a
// transient error), while the one-shot fill clears to empty so the public
// page just shows no projects.
type Mirror struct {
	mu       sync.Mutex
	projects []models.Project
	preview  *uuid.UUID
	loading  bool
	notify   func(message string)
}

// NewMirror builds an empty, loading mirror for a live subscription.
// notify (optional) surfaces subscription failures to the user.
func NewMirror(notify func(message string)) *Mirror {
	return &Mirror{loading: true, notify: notify}
}

// OneShot fetches the list a single time. On failure the mirror is empty;
// no notification is raised.
func OneShot(fetch func() ([]models.Project, error)) *Mirror {
	m := &Mirror{}
	projects, err := fetch()
	if err != nil {
		m.projects = nil
		return m
	}
	m.projects = projects
	return m
}

// Apply consumes one subscription event. A snapshot replaces the local
// list wholesale; an error stops the loading indicator, raises the
// notification and leaves the last snapshot in place. A previewed project
// that is no longer in the snapshot is cleared so nothing renders a
// dangling reference.
func (m *Mirror) Apply(event Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.loading = false
	if event.Err != nil {
		if m.notify != nil {
			m.notify("failed to load projects")
		}
		return
	}

	m.projects = event.Snapshot
	if m.preview != nil && !containsID(event.Snapshot, *m.preview) {
		m.preview = nil
	}
}

// Projects returns the mirrored list in snapshot order.
func (m *Mirror) Projects() []models.Project {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.projects
}

// Loading reports whether the first snapshot is still pending.
func (m *Mirror) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// SetPreview records the project currently open in a preview view.
func (m *Mirror) SetPreview(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.preview = &id
}

// Preview returns the previewed project id, if any.
func (m *Mirror) Preview() (uuid.UUID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.preview == nil {
		return uuid.Nil, false
	}
	return *m.preview, true
}

func containsID(projects []models.Project, id uuid.UUID) bool {
	for i := range projects {
		if projects[i].ID == id {
			return true
		}
	}
	return false
}

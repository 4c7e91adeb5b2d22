package database

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfolden/portfolio-backend/models"
)

func snapshot(ids ...uuid.UUID) []models.Project {
	projects := make([]models.Project, 0, len(ids))
	for _, id := range ids {
		projects = append(projects, models.Project{ID: id, Title: "p-" + id.String()[:8]})
	}
	return projects
}

func TestMirrorReplacesWholesale(t *testing.T) {
	m := NewMirror(nil)
	require.True(t, m.Loading())

	first := snapshot(uuid.New(), uuid.New())
	m.Apply(Event{Snapshot: first})
	assert.False(t, m.Loading())
	assert.Len(t, m.Projects(), 2)

	// The next snapshot replaces everything, including removals.
	second := snapshot(uuid.New())
	m.Apply(Event{Snapshot: second})
	require.Len(t, m.Projects(), 1)
	assert.Equal(t, second[0].ID, m.Projects()[0].ID)
}

func TestMirrorKeepsLastSnapshotOnError(t *testing.T) {
	var notices []string
	m := NewMirror(func(message string) { notices = append(notices, message) })

	good := snapshot(uuid.New(), uuid.New())
	m.Apply(Event{Snapshot: good})
	m.Apply(Event{Err: errors.New("connection reset")})

	assert.Len(t, m.Projects(), 2, "the last good snapshot survives an error event")
	assert.False(t, m.Loading())
	assert.Equal(t, []string{"failed to load projects"}, notices)
}

func TestMirrorErrorBeforeFirstSnapshot(t *testing.T) {
	var notices []string
	m := NewMirror(func(message string) { notices = append(notices, message) })

	m.Apply(Event{Err: errors.New("boom")})

	assert.Empty(t, m.Projects())
	assert.False(t, m.Loading(), "an error still ends the loading state")
	assert.Len(t, notices, 1)
}

func TestMirrorClearsVanishedPreview(t *testing.T) {
	kept := uuid.New()
	deleted := uuid.New()

	m := NewMirror(nil)
	m.Apply(Event{Snapshot: snapshot(kept, deleted)})
	m.SetPreview(deleted)

	m.Apply(Event{Snapshot: snapshot(kept)})

	_, ok := m.Preview()
	assert.False(t, ok, "a preview of a removed project is dropped")
}

func TestMirrorKeepsSurvivingPreview(t *testing.T) {
	kept := uuid.New()

	m := NewMirror(nil)
	m.Apply(Event{Snapshot: snapshot(kept, uuid.New())})
	m.SetPreview(kept)

	m.Apply(Event{Snapshot: snapshot(kept)})

	id, ok := m.Preview()
	require.True(t, ok)
	assert.Equal(t, kept, id)
}

func TestOneShotClearsToEmptyOnFailure(t *testing.T) {
	m := OneShot(func() ([]models.Project, error) {
		return snapshot(uuid.New()), errors.New("query failed")
	})

	assert.Empty(t, m.Projects(), "a failed one-shot fill shows no projects")
	assert.False(t, m.Loading())
}

func TestOneShotFills(t *testing.T) {
	want := snapshot(uuid.New(), uuid.New(), uuid.New())
	m := OneShot(func() ([]models.Project, error) {
		return want, nil
	})

	assert.Len(t, m.Projects(), 3)
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestNormalizedMediaPrefersStoredSequence(t *testing.T) {
	legacy := "https://cdn.example.com/legacy.png"
	p := Project{
		Type: ProjectTypeGraphics,
		Media: datatypes.NewJSONSlice([]MediaItem{
			{Type: MediaTypeImage, URL: "https://cdn.example.com/a.png"},
			{Type: MediaTypeImage, URL: "https://cdn.example.com/b.png"},
		}),
		MediaURL: &legacy,
	}

	media := p.NormalizedMedia()
	require.Len(t, media, 2)
	assert.Equal(t, "https://cdn.example.com/a.png", media[0].URL)
	assert.Equal(t, "https://cdn.example.com/b.png", media[1].URL)
}

func TestNormalizedMediaSynthesizesFromLegacyURL(t *testing.T) {
	legacy := "https://cdn.example.com/clip.mp4"

	motion := Project{Type: ProjectTypeMotion, MediaURL: &legacy}
	media := motion.NormalizedMedia()
	require.Len(t, media, 1)
	assert.Equal(t, MediaTypeVideo, media[0].Type, "motion projects synthesize a video item")
	assert.Equal(t, legacy, media[0].URL)

	for _, projectType := range []ProjectType{ProjectTypeGraphics, ProjectTypeFrontend} {
		p := Project{Type: projectType, MediaURL: &legacy}
		media := p.NormalizedMedia()
		require.Len(t, media, 1)
		assert.Equal(t, MediaTypeImage, media[0].Type)
	}
}

func TestNormalizedMediaEmpty(t *testing.T) {
	blank := ""

	assert.Nil(t, (&Project{Type: ProjectTypeGraphics}).NormalizedMedia())
	assert.Nil(t, (&Project{Type: ProjectTypeGraphics, MediaURL: &blank}).NormalizedMedia())
}

func TestProjectTypeValid(t *testing.T) {
	assert.True(t, ProjectTypeGraphics.Valid())
	assert.True(t, ProjectTypeMotion.Valid())
	assert.True(t, ProjectTypeFrontend.Valid())
	assert.False(t, ProjectType("podcast").Valid())
	assert.False(t, ProjectType("").Valid())
}

func TestUserIsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: "viewer"}).IsAdmin())
	assert.False(t, (*User)(nil).IsAdmin())
}

package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty input", "", nil},
		{"whitespace only", "   ", nil},
		{"single tag", "branding", []string{"branding"}},
		{"trims entries", " branding , logo ", []string{"branding", "logo"}},
		{"drops empties", "branding,,logo,", []string{"branding", "logo"}},
		{"dedupes keeping first order", "logo,branding,logo,branding", []string{"logo", "branding"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTags(tt.raw))
		})
	}
}

func TestNewProjectTagsPreservesOrder(t *testing.T) {
	projectID := uuid.New()
	tags := NewProjectTags(projectID, []string{"motion", "3d", "loop"})

	require.Len(t, tags, 3)
	for i, tag := range tags {
		assert.Equal(t, projectID, tag.ProjectID)
		assert.Equal(t, i, tag.Position)
	}
	assert.Equal(t, "motion", tags[0].Value)
	assert.Equal(t, "loop", tags[2].Value)

	assert.Nil(t, NewProjectTags(projectID, nil))
}

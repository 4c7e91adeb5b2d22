package models

import "github.com/google/uuid"

// ProjectTag represents a tag associated with a project. Position preserves
// the order tags were submitted in.
type ProjectTag struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProjectID uuid.UUID `json:"project_id" db:"project_id" gorm:"type:uuid;not null;index:idx_project_tag_project_id;uniqueIndex:idx_project_tag_unique;constraint:OnDelete:CASCADE"`
	Value     string    `json:"value" db:"value" gorm:"type:text;not null;uniqueIndex:idx_project_tag_unique"`
	Position  int       `json:"position" db:"position" gorm:"not null;default:0"`
}

// NewProjectTags builds ordered tag rows for a project from plain values.
func NewProjectTags(projectID uuid.UUID, values []string) []ProjectTag {
	if len(values) == 0 {
		return nil
	}
	tags := make([]ProjectTag, 0, len(values))
	for i, value := range values {
		tags = append(tags, ProjectTag{
			ID:        uuid.New(),
			ProjectID: projectID,
			Value:     value,
			Position:  i,
		})
	}
	return tags
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProjectType is the fixed category of a project. It never changes after
// creation.
type ProjectType string

const (
	ProjectTypeGraphics ProjectType = "graphics"
	ProjectTypeMotion   ProjectType = "motion"
	ProjectTypeFrontend ProjectType = "frontend"
)

// Valid reports whether t is one of the known project types.
func (t ProjectType) Valid() bool {
	switch t {
	case ProjectTypeGraphics, ProjectTypeMotion, ProjectTypeFrontend:
		return true
	}
	return false
}

// MediaKind matches the resource kind expected by the media host.
func (t ProjectType) MediaKind() MediaType {
	if t == ProjectTypeMotion {
		return MediaTypeVideo
	}
	return MediaTypeImage
}

// MediaType distinguishes image and video media items.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// MediaItem is one element of a project's ordered media sequence. It is only
// ever embedded in a Project, never stored on its own.
type MediaItem struct {
	Type MediaType `json:"type"`
	URL  string    `json:"url"`
}

// Project represents a portfolio project with its media gallery
type Project struct {
	ID          uuid.UUID                       `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Title       string                          `json:"title" db:"title" gorm:"type:text;not null"`
	Description string                          `json:"description" db:"description" gorm:"type:text"`
	Type        ProjectType                     `json:"type" db:"type" gorm:"type:text;not null"`
	Media       datatypes.JSONSlice[MediaItem]  `json:"media" db:"media" gorm:"type:jsonb"`
	MediaURL    *string                         `json:"media_url,omitempty" db:"media_url" gorm:"type:text"`
	LiveLink    *string                         `json:"live_link,omitempty" db:"live_link" gorm:"type:text"`
	Tags        []ProjectTag                    `json:"tags,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	Status      string                          `json:"status" db:"status" gorm:"type:text;not null;default:published"`
	Featured    bool                            `json:"featured" db:"featured" gorm:"not null;default:false"`
	Views       int64                           `json:"views" db:"views" gorm:"not null;default:0"`
	Likes       int64                           `json:"likes" db:"likes" gorm:"not null;default:0"`
	OwnerID     string                          `json:"owner_id" db:"owner_id" gorm:"type:text;not null"`
	CreatedAt   time.Time                       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time                       `json:"updated_at" db:"updated_at"`
}

// NormalizedMedia returns the project's media in the unified format: the
// stored sequence when present, otherwise a single item synthesized from the
// legacy media_url column, otherwise nothing. Every render path (gallery,
// card thumbnail, admin preview) must go through this method.
func (p *Project) NormalizedMedia() []MediaItem {
	if len(p.Media) > 0 {
		return []MediaItem(p.Media)
	}
	if p.MediaURL != nil && *p.MediaURL != "" {
		return []MediaItem{{Type: p.Type.MediaKind(), URL: *p.MediaURL}}
	}
	return nil
}

// TagValues returns the project's tag strings in insertion order.
func (p *Project) TagValues() []string {
	if len(p.Tags) == 0 {
		return nil
	}
	values := make([]string, 0, len(p.Tags))
	for _, tag := range p.Tags {
		values = append(values, tag.Value)
	}
	return values
}

package api

import (
	"github.com/google/uuid"

	"github.com/mfolden/portfolio-backend/models"
)

// ProjectStore is the slice of the document store the handlers read from
// and delete through.
type ProjectStore interface {
	FindAllOrdered() ([]models.Project, error)
	FindByID(id uuid.UUID) (*models.Project, error)
	Delete(id uuid.UUID) error
	IncrementViews(id uuid.UUID) error
}

// RoleStore resolves role records for the session gate.
type RoleStore interface {
	FindByID(id string) (*models.User, error)
}

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler projectHandler
	galleryHandler galleryHandler
	streamHandler  streamHandler
	authHandler    *authHandler
	contactHandler contactHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// ProjectView is the render-ready shape of a project: stored fields plus
// the normalized media sequence and the thumbnail derived from it. Every
// screen gets its media through this one normalization.
type ProjectView struct {
	Project   models.Project     `json:"project"`
	Tags      []string           `json:"tags"`
	Media     []models.MediaItem `json:"media"`
	Thumbnail *models.MediaItem  `json:"thumbnail,omitempty"`
}

func newProjectView(p models.Project) ProjectView {
	media := p.NormalizedMedia()
	view := ProjectView{Project: p, Tags: p.TagValues(), Media: media}
	if len(media) > 0 {
		view.Thumbnail = &media[0]
	}
	return view
}

// ProjectCollection is the wholesale snapshot shape shared by the public
// list and the admin stream.
type ProjectCollection struct {
	Projects []ProjectView `json:"projects"`
	Total    int           `json:"total"`
}

func newProjectCollection(projects []models.Project) ProjectCollection {
	views := make([]ProjectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, newProjectView(p))
	}
	return ProjectCollection{Projects: views, Total: len(views)}
}

package api

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mfolden/portfolio-backend/database"
	"github.com/mfolden/portfolio-backend/errs"
	"github.com/mfolden/portfolio-backend/models"
	"github.com/mfolden/portfolio-backend/services"
)

const maxMultipartMemory = 32 << 20

// Submitter runs the validated create/update pipeline.
type Submitter interface {
	Create(ctx context.Context, callerID string, in services.Input) (*models.Project, error)
	Update(ctx context.Context, callerID string, id uuid.UUID, in services.Input) (*models.Project, error)
}

type projectHandler struct {
	responder  Responder
	logger     zerolog.Logger
	projects   ProjectStore
	submission Submitter
}

func newProjectHandler(projects ProjectStore, submission Submitter) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:  NewResponder(logger),
		logger:     logger,
		projects:   projects,
		submission: submission,
	}
}

// getAllProjects serves the public portfolio list. This is the one-shot
// mirror: a failed fetch degrades silently to an empty collection.
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mirror := database.OneShot(func() ([]models.Project, error) {
			projects, err := h.projects.FindAllOrdered()
			if err != nil {
				h.logger.Error().Err(err).Msg("public project fetch failed")
			}
			return projects, err
		})

		h.responder.WriteJSON(w, newProjectCollection(mirror.Projects()))
	}
}

func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, ok := h.loadProject(w, r)
		if !ok {
			return
		}
		h.responder.WriteJSON(w, newProjectView(*project))
	}
}

// createProject handles the multipart upload form for a new project.
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := parseSubmission(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.submission.Create(r.Context(), CallerID(r.Context()), in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, newProjectView(*project))
	}
}

// updateProject handles the multipart edit form. Omitting files keeps the
// existing media sequence.
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseProjectID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		in, err := parseSubmission(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.submission.Update(r.Context(), CallerID(r.Context()), projectID, in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, newProjectView(*project))
	}
}

// deleteProject removes a project. Irreversible; hosted media blobs are
// left behind on the media host.
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, ok := h.loadProject(w, r)
		if !ok {
			return
		}

		if err := h.projects.Delete(project.ID); err != nil {
			h.responder.WriteError(w, errs.NewWriteError("delete", "project", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "project deleted successfully",
		})
	}
}

// incrementViews bumps the public view counter. Fire and forget from the
// portfolio page.
func (h projectHandler) incrementViews() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseProjectID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projects.IncrementViews(projectID); err != nil {
			h.responder.WriteError(w, errs.NewWriteError("update", "project views", err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h projectHandler) loadProject(w http.ResponseWriter, r *http.Request) (*models.Project, bool) {
	projectID, err := parseProjectID(r)
	if err != nil {
		h.responder.WriteError(w, err)
		return nil, false
	}

	project, err := h.projects.FindByID(projectID)
	if err != nil {
		h.responder.WriteError(w, errs.NewDataFetchError("project", err))
		return nil, false
	}
	if project == nil {
		h.responder.WriteError(w, errs.NewNotFound("project"))
		return nil, false
	}
	return project, true
}

func parseProjectID(r *http.Request) (uuid.UUID, error) {
	projectIDStr := chi.URLParam(r, "projectID")
	if projectIDStr == "" {
		return uuid.Nil, errs.NewBadRequestError("missing projectID")
	}
	projectID, err := uuid.Parse(projectIDStr)
	if err != nil {
		return uuid.Nil, errs.NewBadRequestError("invalid projectID")
	}
	return projectID, nil
}

// parseSubmission reads the multipart form fields and file handles. Files
// are not opened here; the submission service opens each one only after
// its size guard passes.
func parseSubmission(r *http.Request) (services.Input, error) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return services.Input{}, errs.NewMalformedPayloadError("multipart", err)
	}

	in := services.Input{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Type:        models.ProjectType(r.FormValue("type")),
		LiveLink:    r.FormValue("live_link"),
		Tags:        r.FormValue("tags"),
	}

	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["files"] {
			header := header
			in.Files = append(in.Files, services.FileInput{
				Name: header.Filename,
				Size: header.Size,
				Open: func() (io.ReadCloser, error) { return header.Open() },
			})
		}
	}
	return in, nil
}

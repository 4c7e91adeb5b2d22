package api

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mfolden/portfolio-backend/errs"
	"github.com/mfolden/portfolio-backend/gallery"
)

type galleryHandler struct {
	responder Responder
	logger    zerolog.Logger
	projects  ProjectStore
}

func newGalleryHandler(projects ProjectStore) galleryHandler {
	logger := log.With().Str("handlerName", "galleryHandler").Logger()
	return galleryHandler{
		responder: NewResponder(logger),
		logger:    logger,
		projects:  projects,
	}
}

// galleryResponse is the viewer state after applying the request's
// navigation. closed is true after an escape key; the client should
// dismiss the viewer and detach its key listener.
type galleryResponse struct {
	Closed bool          `json:"closed"`
	Frame  gallery.Frame `json:"frame"`
}

// viewGallery serves the gallery view model for one project. The client
// passes its current index and, optionally, the key event or thumbnail
// selection to apply.
//
//	GET /project/{projectID}/gallery?index=2&key=ArrowRight
//	GET /project/{projectID}/gallery?select=4
func (h galleryHandler) viewGallery() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseProjectID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.FindByID(projectID)
		if err != nil {
			h.responder.WriteError(w, errs.NewDataFetchError("project", err))
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFound("project"))
			return
		}

		index, _ := strconv.Atoi(r.URL.Query().Get("index"))
		view := gallery.At(project.NormalizedMedia(), index)

		if selectParam := r.URL.Query().Get("select"); selectParam != "" {
			i, convErr := strconv.Atoi(selectParam)
			if convErr != nil {
				h.responder.WriteError(w, errs.NewBadRequestError("invalid select index"))
				return
			}
			view, err = view.Select(i)
			if err != nil {
				h.responder.WriteError(w, errs.NewBadRequestError(err.Error()))
				return
			}
		}

		closed := false
		if key := r.URL.Query().Get("key"); key != "" {
			var action gallery.KeyAction
			view, action = gallery.HandleKey(view, key)
			closed = action == gallery.KeyClosed
		}

		h.responder.WriteJSON(w, galleryResponse{
			Closed: closed,
			Frame:  gallery.Render(view),
		})
	}
}

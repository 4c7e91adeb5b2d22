package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mfolden/portfolio-backend/database"
)

// streamHandler serves the admin dashboard's live project list as
// server-sent events. Each connection owns a mirror fed by the watcher:
// snapshots replace the list wholesale, subscription errors surface as a
// notice while the last good snapshot stays on screen.
type streamHandler struct {
	responder Responder
	logger    zerolog.Logger
	watcher   *database.Watcher
}

func newStreamHandler(watcher *database.Watcher) streamHandler {
	logger := log.With().Str("handlerName", "streamHandler").Logger()
	return streamHandler{
		responder: NewResponder(logger),
		logger:    logger,
		watcher:   watcher,
	}
}

func (h streamHandler) streamProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			h.responder.WriteError(w, fmt.Errorf("streaming unsupported"))
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		mirror := database.NewMirror(func(message string) {
			fmt.Fprintf(w, "event: notice\ndata: %s\n\n", message)
			flusher.Flush()
		})
		if previewParam := r.URL.Query().Get("preview"); previewParam != "" {
			if previewID, err := uuid.Parse(previewParam); err == nil {
				mirror.SetPreview(previewID)
			}
		}

		events, unsubscribe := h.watcher.Subscribe()
		defer unsubscribe()

		for {
			select {
			case <-r.Context().Done():
				return
			case event, open := <-events:
				if !open {
					return
				}
				mirror.Apply(event)
				if event.Err != nil {
					continue
				}
				h.writeSnapshot(w, flusher, mirror)
			}
		}
	}
}

type streamSnapshot struct {
	ProjectCollection
	Preview *uuid.UUID `json:"preview,omitempty"`
}

func (h streamHandler) writeSnapshot(w http.ResponseWriter, flusher http.Flusher, mirror *database.Mirror) {
	snapshot := streamSnapshot{
		ProjectCollection: newProjectCollection(mirror.Projects()),
	}
	if previewID, ok := mirror.Preview(); ok {
		snapshot.Preview = &previewID
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		h.logger.Error().Err(err).Msg("marshaling snapshot failed")
		return
	}
	fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", payload)
	flusher.Flush()
}

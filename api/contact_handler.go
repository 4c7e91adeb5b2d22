package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mfolden/portfolio-backend/errs"
)

// ContactSender delivers a contact-form message to the site owner.
type ContactSender interface {
	Deliver(name, email, message string) error
	ChatLink() string
}

type contactHandler struct {
	responder Responder
	logger    zerolog.Logger
	contact   ContactSender
}

func newContactHandler(contact ContactSender) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()
	return contactHandler{
		responder: NewResponder(logger),
		logger:    logger,
		contact:   contact,
	}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (h contactHandler) sendMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req contactRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("contact", err))
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		req.Email = strings.TrimSpace(req.Email)
		req.Message = strings.TrimSpace(req.Message)
		if req.Name == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("name"))
			return
		}
		if req.Email == "" || !strings.Contains(req.Email, "@") {
			h.responder.WriteError(w, errs.NewInvalidFieldError("email", "must be a valid email address"))
			return
		}
		if req.Message == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("message"))
			return
		}

		if err := h.contact.Deliver(req.Name, req.Email, req.Message); err != nil {
			h.logger.Error().Err(err).Msg("delivering contact message failed")
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{"status": "sent"})
	}
}

func (h contactHandler) chatLink() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		link := h.contact.ChatLink()
		if link == "" {
			h.responder.WriteError(w, errs.NewNotFoundError("no chat contact configured"))
			return
		}
		h.responder.WriteJSON(w, map[string]string{"url": link})
	}
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/mfolden/portfolio-backend/errs"
)

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// WriteError converts any error into a short, user-facing JSON body. No
// error terminates the request loop; unexpected ones become a generic 500.
func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	if !errors.As(err, &apiErr) {
		r.logger.Error().Msg(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		r.WriteJSON(w, map[string]any{
			"error":   "Internal Server Error",
			"message": "An unexpected error occurred",
			"status":  "error",
		})
		return
	}

	response := map[string]any{
		"error":  apiErr.Error(),
		"status": "error",
	}
	if apiErr.Field != "" {
		response["field"] = apiErr.Field
	}
	if apiErr.Details != "" {
		response["details"] = apiErr.Details
	}
	if apiErr.Cause != nil {
		response["cause"] = apiErr.GetFullError()
	}

	// Authorization failures are a security boundary: the client must
	// drop its session and go back to login. A role-fetch transport
	// failure also redirects, but the session stays valid.
	if errs.IsAuthorizationFailure(apiErr) {
		response["signed_out"] = true
		response["redirect"] = "/login"
		if errors.Is(apiErr, errs.ErrNotAdmin) {
			response["redirect_after_ms"] = int(errs.DeniedRedirectDelay.Milliseconds())
		}
	} else if errors.Is(apiErr, errs.ErrRoleCheckFailed) {
		response["redirect"] = "/login"
	}

	w.WriteHeader(apiErr.StatusCode)
	r.WriteJSON(w, response)
}

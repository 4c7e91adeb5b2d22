package api

import (
	"net/http"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mfolden/portfolio-backend/errs"
	"github.com/mfolden/portfolio-backend/identity"
)

type statusResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.status = statusCode
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

func LogInternalServerErrors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Interface("panic", err).
					Str("stack", string(debug.Stack())).
					Msg("Recovered from panic")

				if !srw.wroteHeader {
					srw.WriteHeader(http.StatusInternalServerError)
				}
			}
		}()

		next.ServeHTTP(srw, r)

		if srw.status == http.StatusInternalServerError {
			log.Error().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("500 error response")
		}
	})
}

// ColoredHTTPLoggingMiddleware logs HTTP requests with colored output based on status codes
func ColoredHTTPLoggingMiddleware(next http.Handler) http.Handler {
	colorLogger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		next.ServeHTTP(srw, r)

		duration := time.Since(start)

		var logEvent *zerolog.Event
		switch {
		case srw.status >= 500:
			logEvent = colorLogger.Error()
		case srw.status >= 400:
			logEvent = colorLogger.Warn()
		default:
			logEvent = colorLogger.Info()
		}

		logEvent.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", srw.status).
			Dur("duration", duration).
			Str("remote_addr", r.RemoteAddr).
			Msg("HTTP Request")
	})
}

// sessionGate guards admin routes: it validates the session with the
// identity provider and checks the caller's role record on every request.
// This is the route guard; mutating flows re-check the role a second time
// inside the submission service.
type sessionGate struct {
	provider  identity.Provider
	roles     RoleStore
	responder Responder
}

func newSessionGate(provider identity.Provider, roles RoleStore) sessionGate {
	logger := log.With().Str("handlerName", "sessionGate").Logger()
	return sessionGate{
		provider:  provider,
		roles:     roles,
		responder: NewResponder(logger),
	}
}

func (m sessionGate) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractSessionToken(r)
		if token == "" {
			m.responder.WriteError(w, errs.NewUnauthorizedError("authentication required"))
			return
		}

		ident, err := m.provider.ValidateSession(r.Context(), token)
		if err != nil {
			m.responder.WriteError(w, err)
			return
		}

		user, err := m.roles.FindByID(ident.ID)
		if err != nil {
			m.responder.WriteError(w, errs.NewRoleCheckFailedError(err))
			return
		}
		if user == nil {
			m.forceSignOut(r)
			m.responder.WriteError(w, errs.NewRoleRecordMissingError(ident.ID))
			return
		}
		if !user.IsAdmin() {
			m.forceSignOut(r)
			m.responder.WriteError(w, errs.NewNotAdminError())
			return
		}

		ctx := ctxWithCaller(r.Context(), ident.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// forceSignOut revokes the provider session of a caller that failed the
// role check. Best effort; the 401/403 response already tells the client
// to drop its tokens.
func (m sessionGate) forceSignOut(r *http.Request) {
	if refresh := extractRefreshToken(r); refresh != "" {
		_ = m.provider.SignOut(r.Context(), refresh)
	}
}

// extractSessionToken reads the session token from the Authorization
// header, falling back to the session cookie.
func extractSessionToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}
	if cookie, err := r.Cookie("session_token"); err == nil {
		return cookie.Value
	}
	return ""
}

func extractRefreshToken(r *http.Request) string {
	if refresh := r.Header.Get("X-Refresh-Token"); refresh != "" {
		return refresh
	}
	if cookie, err := r.Cookie("refresh_token"); err == nil {
		return cookie.Value
	}
	return ""
}

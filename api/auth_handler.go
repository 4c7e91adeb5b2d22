package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mfolden/portfolio-backend/errs"
	"github.com/mfolden/portfolio-backend/gate"
	"github.com/mfolden/portfolio-backend/identity"
	"github.com/mfolden/portfolio-backend/models"
)

// maxGateSessions caps the per-token gate map. Expired and abandoned
// tokens are never verified again, so the longest-idle gate is evicted
// when a new token arrives at the cap.
const maxGateSessions = 1024

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	provider  identity.Provider
	roles     RoleStore

	mu       sync.Mutex
	sessions map[string]*gateSession
}

func newAuthHandler(provider identity.Provider, roles RoleStore) *authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()
	return &authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		provider:  provider,
		roles:     roles,
		sessions:  make(map[string]*gateSession),
	}
}

// gateSession is one mounted session gate, keyed by session token. It
// lives until logout so snapshot replays (repeated verify calls with the
// same token) hit the same gate and the granted notification stays
// one-time.
type gateSession struct {
	gate *gate.Gate

	// lastSeen is guarded by the handler's mutex, not the session's.
	lastSeen time.Time

	mu      sync.Mutex
	outcome *verifyOutcome
	signOut func()
}

type notice struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type verifyOutcome struct {
	Notices         []notice `json:"notices,omitempty"`
	SignedOut       bool     `json:"signed_out,omitempty"`
	Redirect        string   `json:"redirect,omitempty"`
	RedirectAfterMs int      `json:"redirect_after_ms,omitempty"`
}

type verifyResponse struct {
	State string `json:"state"`
	verifyOutcome
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	SessionToken string `json:"session_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
}

// login exchanges credentials for provider tokens.
func (h *authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("login", err))
			return
		}
		if req.Email == "" || req.Password == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("email, password"))
			return
		}

		session, err := h.provider.SignInWithPassword(r.Context(), req.Email, req.Password)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, loginResponse{
			SessionToken: session.SessionToken,
			RefreshToken: session.RefreshToken,
			UserID:       session.Identity.ID,
			Email:        session.Identity.Email,
		})
	}
}

// logout revokes the provider session and tears down the session gate.
func (h *authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token := extractSessionToken(r); token != "" {
			h.dropSession(token)
		}
		if refresh := extractRefreshToken(r); refresh != "" {
			if err := h.provider.SignOut(r.Context(), refresh); err != nil {
				h.logger.Warn().Err(err).Msg("provider sign-out failed")
			}
		}
		h.responder.WriteJSON(w, map[string]string{"status": "signed_out"})
	}
}

// verify drives the session gate for the caller's token: it resolves the
// identity, runs the role check, and reports the resulting state plus any
// notifications and redirect instructions. Replaying verify with the same
// token does not repeat the one-time granted notification.
func (h *authHandler) verify() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := extractSessionToken(r)
		session := h.session(token)

		var ident *gate.Identity
		if token != "" {
			resolved, err := h.provider.ValidateSession(r.Context(), token)
			if err == nil {
				ident = &gate.Identity{ID: resolved.ID, Email: resolved.Email}
			}
		}

		outcome := session.run(r, h.provider, ident)
		state := session.gate.State()

		status := http.StatusOK
		switch state {
		case gate.StateDenied:
			status = http.StatusForbidden
		case gate.StateChecking:
			status = http.StatusUnauthorized
		}

		w.WriteHeader(status)
		h.responder.WriteJSON(w, verifyResponse{
			State:         state.String(),
			verifyOutcome: *outcome,
		})
	}
}

// session returns the gate for a token, creating it on first sight.
func (h *authHandler) session(token string) *gateSession {
	h.mu.Lock()
	defer h.mu.Unlock()

	if s, ok := h.sessions[token]; ok {
		s.lastSeen = time.Now()
		return s
	}

	if len(h.sessions) >= maxGateSessions {
		h.evictOldestLocked()
	}

	s := &gateSession{lastSeen: time.Now()}
	fetch := func(_ context.Context, subjectID string) (*models.User, bool, error) {
		user, err := h.roles.FindByID(subjectID)
		if err != nil {
			return nil, false, err
		}
		if user == nil {
			return nil, false, nil
		}
		return user, true, nil
	}
	s.gate = gate.New(fetch, gate.Callbacks{
		Notify: func(kind gate.NoticeKind, message string) {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.outcome != nil {
				s.outcome.Notices = append(s.outcome.Notices, notice{Kind: string(kind), Message: message})
			}
		},
		SignOut: func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.outcome != nil {
				s.outcome.SignedOut = true
			}
			if s.signOut != nil {
				s.signOut()
			}
		},
		Navigate: func(target string, delay time.Duration) {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.outcome != nil {
				s.outcome.Redirect = target
				s.outcome.RedirectAfterMs = int(delay.Milliseconds())
			}
		},
	})
	h.sessions[token] = s
	return s
}

// run evaluates one identity transition and collects the gate's side
// effects for the response.
func (s *gateSession) run(r *http.Request, provider identity.Provider, ident *gate.Identity) *verifyOutcome {
	s.mu.Lock()
	s.outcome = &verifyOutcome{}
	s.signOut = func() {
		if refresh := extractRefreshToken(r); refresh != "" {
			_ = provider.SignOut(r.Context(), refresh)
		}
	}
	s.mu.Unlock()

	s.gate.OnIdentity(r.Context(), ident)

	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.outcome
	s.outcome = nil
	s.signOut = nil
	return out
}

// evictOldestLocked closes and removes the longest-idle gate. The caller
// holds h.mu.
func (h *authHandler) evictOldestLocked() {
	var (
		oldestToken string
		oldest      time.Time
		found       bool
	)
	for token, s := range h.sessions {
		if !found || s.lastSeen.Before(oldest) {
			oldestToken = token
			oldest = s.lastSeen
			found = true
		}
	}
	if found {
		h.sessions[oldestToken].gate.Close()
		delete(h.sessions, oldestToken)
	}
}

// dropSession tears down the gate for a token (logout / unmount).
func (h *authHandler) dropSession(token string) {
	h.mu.Lock()
	s, ok := h.sessions[token]
	delete(h.sessions, token)
	h.mu.Unlock()

	if ok {
		s.gate.Close()
	}
}

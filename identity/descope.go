package identity

import (
	"context"
	"errors"
	"net/http"

	"github.com/descope/go-sdk/descope"
	"github.com/descope/go-sdk/descope/client"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mfolden/portfolio-backend/errs"
)

// DescopeProvider implements Provider against Descope.
type DescopeProvider struct {
	client *client.DescopeClient
	logger zerolog.Logger
}

func NewDescope(projectID string) (*DescopeProvider, error) {
	c, err := client.NewWithConfig(&client.Config{ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	return &DescopeProvider{
		client: c,
		logger: log.With().Str("handlerName", "identityProvider").Logger(),
	}, nil
}

func (p *DescopeProvider) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	authInfo, err := p.client.Auth.Password().SignIn(ctx, email, password, nil)
	if err != nil {
		return nil, p.mapSignInError(err)
	}

	session := &Session{
		Identity: Identity{Email: email},
	}
	if authInfo.User != nil {
		session.Identity.ID = authInfo.User.UserID
		session.Identity.Email = authInfo.User.Email
	}
	if authInfo.SessionToken != nil {
		session.SessionToken = authInfo.SessionToken.JWT
	}
	if authInfo.RefreshToken != nil {
		session.RefreshToken = authInfo.RefreshToken.JWT
	}
	return session, nil
}

func (p *DescopeProvider) ValidateSession(ctx context.Context, sessionToken string) (*Identity, error) {
	if sessionToken == "" {
		return nil, errs.NewUnauthorizedError("authentication required")
	}

	authorized, token, err := p.client.Auth.ValidateSessionWithToken(ctx, sessionToken)
	if err != nil {
		var de *descope.Error
		if errors.As(err, &de) {
			return nil, errs.NewUnauthorizedError("invalid or expired session")
		}
		return nil, errs.NewAuthUnavailableError(err)
	}
	if !authorized || token == nil {
		return nil, errs.NewUnauthorizedError("invalid or expired session")
	}

	return &Identity{ID: token.ID}, nil
}

// SignOut revokes the provider session. Best effort: a failed revocation is
// logged, not surfaced, since the client drops its tokens either way.
func (p *DescopeProvider) SignOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "/", nil)
	if err != nil {
		return err
	}
	req.AddCookie(&http.Cookie{Name: descope.RefreshCookieName, Value: refreshToken})
	if err := p.client.Auth.Logout(req, nil); err != nil {
		p.logger.Warn().Err(err).Msg("provider sign-out failed")
		return err
	}
	return nil
}

// mapSignInError converts provider failures into the fixed user-facing
// messages: credential problems all read the same, rate limiting gets its
// own message, everything else is a connectivity notice.
func (p *DescopeProvider) mapSignInError(err error) error {
	if errors.Is(err, descope.ErrRateLimitExceeded) {
		return errs.NewRateLimitedError()
	}

	var de *descope.Error
	if errors.As(err, &de) {
		// Wrong password, unknown user and malformed credentials are
		// deliberately indistinguishable to the caller.
		return errs.NewInvalidCredentialsError()
	}

	p.logger.Error().Err(err).Msg("sign-in transport failure")
	return errs.NewAuthUnavailableError(err)
}

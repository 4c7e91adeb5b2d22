// Package identity wraps the external identity provider. Sessions are
// issued and validated by the provider; this service never mints its own
// tokens.
package identity

import "context"

// Identity is a validated subject.
type Identity struct {
	ID    string
	Email string
}

// Session is the result of a password sign-in. The tokens are the
// provider's; the backend only relays them.
type Session struct {
	Identity     Identity
	SessionToken string
	RefreshToken string
}

// Provider is the surface this service consumes from the identity SaaS.
// Failures are already mapped to the errs taxonomy by implementations.
type Provider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	ValidateSession(ctx context.Context, sessionToken string) (*Identity, error)
	SignOut(ctx context.Context, refreshToken string) error
}

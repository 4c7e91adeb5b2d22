package errs

import (
	"errors"
	"net/http"
	"time"
)

// Authentication failures (the caller could not be identified)
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrRateLimited        = errors.New("too many attempts, please try again later")
	ErrAuthUnavailable    = errors.New("could not reach the authentication service")
)

// Authorization failures (the caller is identified but not allowed in).
// These are a security boundary: the handler must force a sign-out and
// redirect, not just report them.
var (
	ErrNotAdmin          = errors.New("access denied")
	ErrRoleRecordMissing = errors.New("user record not found")
	ErrRoleCheckFailed   = errors.New("could not verify access")
)

// DeniedRedirectDelay is how long a client should keep the access-denied
// message on screen before navigating to login.
const DeniedRedirectDelay = 2 * time.Second

func NewInvalidCredentialsError() *ApiErr {
	return &ApiErr{StatusCode: http.StatusUnauthorized, err: ErrInvalidCredentials}
}

func NewRateLimitedError() *ApiErr {
	return &ApiErr{StatusCode: http.StatusTooManyRequests, err: ErrRateLimited}
}

func NewAuthUnavailableError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrAuthUnavailable,
		Cause:      cause,
	}
}

func NewNotAdminError() *ApiErr {
	return &ApiErr{StatusCode: http.StatusForbidden, err: ErrNotAdmin}
}

func NewRoleRecordMissingError(subjectID string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrRoleRecordMissing,
		Details:    "no role record exists for subject " + subjectID,
	}
}

func NewRoleCheckFailedError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrRoleCheckFailed,
		Cause:      cause,
	}
}

// IsAuthorizationFailure reports whether err must trigger the forced
// sign-out-and-redirect path. A failed role fetch is not an authorization
// verdict: the caller is sent back to login without revoking the session.
func IsAuthorizationFailure(err error) bool {
	return errors.Is(err, ErrNotAdmin) ||
		errors.Is(err, ErrRoleRecordMissing)
}

func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrAuthUnavailable)
}

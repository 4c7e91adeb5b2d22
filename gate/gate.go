// Package gate implements the role-gated access check that runs on every
// protected screen: watch the current identity, resolve its role record,
// and either grant admin access or force a sign-out and a redirect to
// login.
package gate

import (
	"context"
	"sync"
	"time"

	"github.com/mfolden/portfolio-backend/errs"
	"github.com/mfolden/portfolio-backend/models"
)

// State of the gate. A denied gate has already fired its sign-out and
// redirect callbacks; terminal behavior is the navigation away, not a
// further state.
type State int

const (
	StateChecking State = iota
	StateDenied
	StateGranted
)

func (s State) String() string {
	switch s {
	case StateDenied:
		return "denied"
	case StateGranted:
		return "granted"
	default:
		return "checking"
	}
}

// LoginTarget is where denied and unauthenticated sessions are sent.
const LoginTarget = "/login"

// Identity is the authenticated subject as reported by the provider.
type Identity struct {
	ID    string
	Email string
}

// RoleFetcher loads the role record for a subject id. found is false when
// no record exists; err is reserved for transport failures.
type RoleFetcher func(ctx context.Context, subjectID string) (user *models.User, found bool, err error)

// NoticeKind classifies gate notifications for the consuming view.
type NoticeKind string

const (
	NoticeGranted NoticeKind = "granted"
	NoticeDenied  NoticeKind = "denied"
	NoticeError   NoticeKind = "error"
)

// Callbacks are the side effects the gate is allowed to trigger. Any nil
// callback is skipped.
type Callbacks struct {
	Notify   func(kind NoticeKind, message string)
	SignOut  func()
	Navigate func(target string, delay time.Duration)
}

// Gate evaluates identity transitions for one mounted session. It is safe
// for concurrent use; a closed gate ignores all further events.
type Gate struct {
	fetch RoleFetcher
	cb    Callbacks

	mu            sync.Mutex
	state         State
	grantNotified bool
	closed        bool
	unsubscribe   func()
}

func New(fetch RoleFetcher, cb Callbacks) *Gate {
	return &Gate{fetch: fetch, cb: cb, state: StateChecking}
}

// IdentityStream is a subscribable source of identity transitions; nil
// means no authenticated user.
type IdentityStream interface {
	Subscribe(onChange func(*Identity)) (unsubscribe func())
}

// Attach subscribes the gate to a stream. Close detaches, so a torn-down
// gate never acts on late events.
func (g *Gate) Attach(ctx context.Context, stream IdentityStream) {
	unsub := stream.Subscribe(func(ident *Identity) {
		g.OnIdentity(ctx, ident)
	})
	g.mu.Lock()
	g.unsubscribe = unsub
	g.mu.Unlock()
}

// OnIdentity processes one identity transition.
func (g *Gate) OnIdentity(ctx context.Context, ident *Identity) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.mu.Unlock()

	if ident == nil {
		g.setState(StateChecking)
		g.navigate(LoginTarget, 0)
		return
	}

	user, found, err := g.fetch(ctx, ident.ID)
	switch {
	case err != nil:
		g.setState(StateChecking)
		g.notify(NoticeError, errs.ErrRoleCheckFailed.Error())
		g.navigate(LoginTarget, 0)
	case !found:
		g.setState(StateDenied)
		g.notify(NoticeError, errs.ErrRoleRecordMissing.Error())
		g.signOut()
		g.navigate(LoginTarget, 0)
	case !user.IsAdmin():
		g.setState(StateDenied)
		g.notify(NoticeDenied, errs.ErrNotAdmin.Error())
		g.signOut()
		g.navigate(LoginTarget, errs.DeniedRedirectDelay)
	default:
		g.grant()
	}
}

// State returns the gate's current state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Close tears the gate down: it unsubscribes from the identity stream and
// drops all subsequent events.
func (g *Gate) Close() {
	g.mu.Lock()
	unsub := g.unsubscribe
	g.unsubscribe = nil
	g.closed = true
	g.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

func (g *Gate) grant() {
	g.mu.Lock()
	first := !g.grantNotified
	g.grantNotified = true
	g.state = StateGranted
	g.mu.Unlock()

	// Snapshot replays within one mounted session must not repeat the
	// granted notification.
	if first {
		g.notify(NoticeGranted, "access granted")
	}
}

func (g *Gate) setState(s State) {
	g.mu.Lock()
	g.state = s
	g.mu.Unlock()
}

func (g *Gate) notify(kind NoticeKind, message string) {
	if g.cb.Notify != nil {
		g.cb.Notify(kind, message)
	}
}

func (g *Gate) signOut() {
	if g.cb.SignOut != nil {
		g.cb.SignOut()
	}
}

func (g *Gate) navigate(target string, delay time.Duration) {
	if g.cb.Navigate != nil {
		g.cb.Navigate(target, delay)
	}
}

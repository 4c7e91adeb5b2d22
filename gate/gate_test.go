package gate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfolden/portfolio-backend/errs"
	"github.com/mfolden/portfolio-backend/models"
)

type recorder struct {
	notices   []NoticeKind
	signOuts  int
	navigated []string
	delays    []time.Duration
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		Notify: func(kind NoticeKind, message string) {
			r.notices = append(r.notices, kind)
		},
		SignOut: func() {
			r.signOuts++
		},
		Navigate: func(target string, delay time.Duration) {
			r.navigated = append(r.navigated, target)
			r.delays = append(r.delays, delay)
		},
	}
}

func adminFetcher(t *testing.T) RoleFetcher {
	t.Helper()
	return func(ctx context.Context, subjectID string) (*models.User, bool, error) {
		return &models.User{ID: subjectID, Role: models.RoleAdmin}, true, nil
	}
}

func TestNoIdentityNavigatesToLogin(t *testing.T) {
	rec := &recorder{}
	g := New(adminFetcher(t), rec.callbacks())

	g.OnIdentity(context.Background(), nil)

	assert.Equal(t, StateChecking, g.State())
	assert.Equal(t, []string{LoginTarget}, rec.navigated)
	assert.Equal(t, []time.Duration{0}, rec.delays)
	assert.Zero(t, rec.signOuts)
	assert.Empty(t, rec.notices)
}

func TestAdminIsGrantedOnce(t *testing.T) {
	rec := &recorder{}
	g := New(adminFetcher(t), rec.callbacks())
	ident := &Identity{ID: "subj-1", Email: "owner@example.com"}

	g.OnIdentity(context.Background(), ident)
	require.Equal(t, StateGranted, g.State())
	require.Equal(t, []NoticeKind{NoticeGranted}, rec.notices)

	// A replayed snapshot within the same mounted session must not repeat
	// the granted notification.
	g.OnIdentity(context.Background(), ident)
	assert.Equal(t, StateGranted, g.State())
	assert.Equal(t, []NoticeKind{NoticeGranted}, rec.notices)
	assert.Zero(t, rec.signOuts)
	assert.Empty(t, rec.navigated)
}

func TestMissingRoleRecordSignsOut(t *testing.T) {
	rec := &recorder{}
	fetch := func(ctx context.Context, subjectID string) (*models.User, bool, error) {
		return nil, false, nil
	}
	g := New(fetch, rec.callbacks())

	g.OnIdentity(context.Background(), &Identity{ID: "subj-2"})

	assert.Equal(t, StateDenied, g.State())
	assert.Equal(t, 1, rec.signOuts)
	assert.Equal(t, []NoticeKind{NoticeError}, rec.notices)
	assert.Equal(t, []string{LoginTarget}, rec.navigated)
	assert.Equal(t, []time.Duration{0}, rec.delays)
}

func TestNonAdminDeniedWithDelayedRedirect(t *testing.T) {
	rec := &recorder{}
	fetch := func(ctx context.Context, subjectID string) (*models.User, bool, error) {
		return &models.User{ID: subjectID, Role: "viewer"}, true, nil
	}
	g := New(fetch, rec.callbacks())

	g.OnIdentity(context.Background(), &Identity{ID: "subj-3"})

	assert.Equal(t, StateDenied, g.State())
	assert.Equal(t, 1, rec.signOuts)
	assert.Equal(t, []NoticeKind{NoticeDenied}, rec.notices)
	require.Equal(t, []string{LoginTarget}, rec.navigated)
	assert.Equal(t, errs.DeniedRedirectDelay, rec.delays[0])
}

func TestRoleFetchErrorStaysChecking(t *testing.T) {
	rec := &recorder{}
	fetch := func(ctx context.Context, subjectID string) (*models.User, bool, error) {
		return nil, false, errors.New("connection refused")
	}
	g := New(fetch, rec.callbacks())

	g.OnIdentity(context.Background(), &Identity{ID: "subj-4"})

	assert.Equal(t, StateChecking, g.State(), "a transport failure is not a denial")
	assert.Zero(t, rec.signOuts, "no forced sign-out on a transport failure")
	assert.Equal(t, []NoticeKind{NoticeError}, rec.notices)
	assert.Equal(t, []string{LoginTarget}, rec.navigated)
}

func TestClosedGateDropsEvents(t *testing.T) {
	rec := &recorder{}
	g := New(adminFetcher(t), rec.callbacks())

	g.Close()
	g.OnIdentity(context.Background(), &Identity{ID: "subj-5"})

	assert.Empty(t, rec.notices)
	assert.Empty(t, rec.navigated)
	assert.Equal(t, StateChecking, g.State())
}

type fakeStream struct {
	handler func(*Identity)
	unsubs  int
}

func (s *fakeStream) Subscribe(onChange func(*Identity)) func() {
	s.handler = onChange
	return func() { s.unsubs++ }
}

func (s *fakeStream) emit(ident *Identity) {
	if s.handler != nil {
		s.handler(ident)
	}
}

func TestAttachAndCloseUnsubscribes(t *testing.T) {
	rec := &recorder{}
	g := New(adminFetcher(t), rec.callbacks())
	stream := &fakeStream{}

	g.Attach(context.Background(), stream)
	stream.emit(&Identity{ID: "subj-6"})
	require.Equal(t, StateGranted, g.State())

	g.Close()
	assert.Equal(t, 1, stream.unsubs)

	// Late events after teardown are ignored even if the source misbehaves.
	stream.emit(nil)
	assert.Equal(t, []NoticeKind{NoticeGranted}, rec.notices)
	assert.Empty(t, rec.navigated)
}

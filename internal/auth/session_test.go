package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/weekplan/internal/apiclient"
	"github.com/alexanderramin/weekplan/internal/app"
	"github.com/alexanderramin/weekplan/internal/domain"
	"github.com/alexanderramin/weekplan/internal/server/servertest"
	"github.com/alexanderramin/weekplan/internal/testutil"
)

type fixture struct {
	url    string
	blobs  *testutil.MemoryBlobStore
	client *apiclient.Client
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ts := servertest.Start(t)
	return &fixture{
		url:    ts.URL,
		blobs:  testutil.NewMemoryBlobStore(),
		client: apiclient.New(apiclient.Config{BaseURL: ts.URL}, nil),
	}
}

func (f *fixture) session() *Session { return NewSession(f.blobs, f.client) }

// recorder collects published status changes.
type recorder struct {
	mu  sync.Mutex
	got []bool
}

func (r *recorder) record(b bool) {
	r.mu.Lock()
	r.got = append(r.got, b)
	r.mu.Unlock()
}

func (r *recorder) events() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.got...)
}

var ada = domain.Registration{Email: "ada@example.com", Password: "long enough", Name: "Ada"}

func TestSession_GuestWithoutBackend(t *testing.T) {
	s := NewSession(testutil.NewMemoryBlobStore(), nil)
	assert.False(t, s.IsInitialized())

	require.NoError(t, s.Initialize(context.Background()))
	assert.True(t, s.IsInitialized())
	assert.False(t, s.IsAuthenticated())
	require.NoError(t, s.WaitInitialized(context.Background()))

	_, err := s.Login(context.Background(), "a@b.c", "whatever")
	assert.ErrorIs(t, err, ErrNoBackend)
	assert.NoError(t, s.Logout(context.Background()))
}

func TestSession_WaitInitializedHonorsContext(t *testing.T) {
	s := NewSession(testutil.NewMemoryBlobStore(), nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.WaitInitialized(ctx), context.DeadlineExceeded)
}

func TestSession_NoStoredToken(t *testing.T) {
	f := newFixture(t)
	s := f.session()
	require.NoError(t, s.Initialize(context.Background()))
	assert.True(t, s.IsInitialized())
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())
}

func TestSession_RegisterPersistsTokenAndPublishes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.session()
	require.NoError(t, s.Initialize(ctx))

	rec := &recorder{}
	unsub := s.Subscribe(rec.record)
	defer unsub()

	u, err := s.Register(ctx, ada)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, []bool{true}, rec.events())

	token, err := f.blobs.GetBlob(ctx, TokenKey)
	require.NoError(t, err)
	assert.Equal(t, f.client.Token(), string(token))

	// A fresh session restores from the stored token.
	restored := NewSession(f.blobs, apiclient.New(apiclient.Config{BaseURL: f.url}, nil))
	require.NoError(t, restored.Initialize(ctx))
	assert.True(t, restored.IsAuthenticated())
	require.NotNil(t, restored.User())
	assert.Equal(t, u.ID, restored.User().ID)
}

func TestSession_InvalidStoredTokenIsDiscarded(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.blobs.Set(TokenKey, []byte("stale"))

	s := f.session()
	err := s.Initialize(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, apiclient.ErrUnauthorized)
	assert.True(t, s.IsInitialized())
	assert.False(t, s.IsAuthenticated())

	_, err = f.blobs.GetBlob(ctx, TokenKey)
	assert.ErrorIs(t, err, app.ErrBlobNotFound)
	assert.Empty(t, f.client.Token())
}

func TestSession_LoginFailureLeavesGuest(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.session()
	require.NoError(t, s.Initialize(ctx))
	_, err := s.Register(ctx, ada)
	require.NoError(t, err)
	require.NoError(t, s.Logout(ctx))

	_, err = s.Login(ctx, ada.Email, "wrong password")
	assert.ErrorIs(t, err, apiclient.ErrUnauthorized)
	assert.False(t, s.IsAuthenticated())

	u, err := s.Login(ctx, ada.Email, ada.Password)
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Name)
	assert.True(t, s.IsAuthenticated())
}

func TestSession_LogoutClearsEverything(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.session()
	require.NoError(t, s.Initialize(ctx))
	_, err := s.Register(ctx, ada)
	require.NoError(t, err)

	rec := &recorder{}
	s.Subscribe(rec.record)

	require.NoError(t, s.Logout(ctx))
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())
	assert.Empty(t, f.client.Token())
	assert.Equal(t, []bool{false}, rec.events())

	_, err = f.blobs.GetBlob(ctx, TokenKey)
	assert.ErrorIs(t, err, app.ErrBlobNotFound)

	// Second logout is a no-op and publishes nothing.
	require.NoError(t, s.Logout(ctx))
	assert.Equal(t, []bool{false}, rec.events())
}

func TestSession_RejectedTokenSignsOut(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.session()
	require.NoError(t, s.Initialize(ctx))
	_, err := s.Register(ctx, ada)
	require.NoError(t, err)

	rec := &recorder{}
	s.Subscribe(rec.record)

	// Revoke the session behind the Session's back.
	other := apiclient.New(apiclient.Config{BaseURL: f.url}, nil)
	other.SetToken(f.client.Token())
	require.NoError(t, other.Logout(ctx))

	_, err = f.client.ListTasks(ctx, app.TaskFilter{})
	assert.ErrorIs(t, err, apiclient.ErrUnauthorized)
	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, []bool{false}, rec.events())
	_, err = f.blobs.GetBlob(ctx, TokenKey)
	assert.ErrorIs(t, err, app.ErrBlobNotFound)
}

func TestSession_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.session()
	require.NoError(t, s.Initialize(ctx))
	_, err := s.Register(ctx, ada)
	require.NoError(t, err)

	name := "Countess"
	u, err := s.UpdateProfile(ctx, domain.ProfilePatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Countess", u.Name)
	assert.Equal(t, "Countess", s.User().Name)
}

func TestSession_StoreFailureOnSignIn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.session()
	require.NoError(t, s.Initialize(ctx))
	f.blobs.PutErr = errors.New("disk full")

	_, err := s.Register(ctx, ada)
	require.Error(t, err)
	assert.False(t, s.IsAuthenticated())
}

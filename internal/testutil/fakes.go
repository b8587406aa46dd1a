package testutil

import (
	"context"
	"sync"

	"github.com/alexanderramin/weekplan/internal/app"
)

// MemoryBlobStore is an in-memory app.BlobStore with failure injection.
type MemoryBlobStore struct {
	mu     sync.Mutex
	blobs  map[string][]byte
	PutErr error
	GetErr error
	puts   int
}

func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{blobs: make(map[string][]byte)}
}

func (m *MemoryBlobStore) GetBlob(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	b, ok := m.blobs[key]
	if !ok {
		return nil, app.ErrBlobNotFound
	}
	return append([]byte(nil), b...), nil
}

func (m *MemoryBlobStore) PutBlob(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PutErr != nil {
		return m.PutErr
	}
	m.puts++
	m.blobs[key] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryBlobStore) DeleteBlob(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blobs[key]; !ok {
		return app.ErrBlobNotFound
	}
	delete(m.blobs, key)
	return nil
}

// Set stores raw bytes directly, bypassing failure injection.
func (m *MemoryBlobStore) Set(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = data
}

func (m *MemoryBlobStore) Puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}

// RecordingNotifier keeps every notice it receives.
type RecordingNotifier struct {
	mu      sync.Mutex
	notices []app.Notice
}

func (r *RecordingNotifier) Notify(_ context.Context, n app.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *RecordingNotifier) Notices() []app.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]app.Notice(nil), r.notices...)
}

// FakeAuth is a controllable app.AuthStatus. It starts uninitialized.
type FakeAuth struct {
	mu            sync.Mutex
	initialized   bool
	authenticated bool
	ready         chan struct{}
	subs          map[int]func(bool)
	nextSub       int
}

func NewFakeAuth() *FakeAuth {
	return &FakeAuth{ready: make(chan struct{}), subs: make(map[int]func(bool))}
}

// NewReadyAuth returns a FakeAuth that is already initialized.
func NewReadyAuth(authenticated bool) *FakeAuth {
	a := NewFakeAuth()
	a.Initialize(authenticated)
	return a
}

// Initialize marks the provider ready with the given status.
func (a *FakeAuth) Initialize(authenticated bool) {
	a.mu.Lock()
	a.authenticated = authenticated
	if !a.initialized {
		a.initialized = true
		close(a.ready)
	}
	a.mu.Unlock()
}

// SetAuthenticated flips the status and notifies subscribers.
func (a *FakeAuth) SetAuthenticated(authenticated bool) {
	a.mu.Lock()
	a.authenticated = authenticated
	fns := make([]func(bool), 0, len(a.subs))
	for _, fn := range a.subs {
		fns = append(fns, fn)
	}
	a.mu.Unlock()
	for _, fn := range fns {
		fn(authenticated)
	}
}

func (a *FakeAuth) IsInitialized() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.initialized
}

func (a *FakeAuth) IsAuthenticated() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.authenticated
}

func (a *FakeAuth) WaitInitialized(ctx context.Context) error {
	select {
	case <-a.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *FakeAuth) Subscribe(fn func(bool)) func() {
	a.mu.Lock()
	id := a.nextSub
	a.nextSub++
	a.subs[id] = fn
	a.mu.Unlock()
	return func() {
		a.mu.Lock()
		delete(a.subs, id)
		a.mu.Unlock()
	}
}

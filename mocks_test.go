package auth_test

import (
	"context"
	"sync"

	auth "github.com/Rajesh-Alachandra/jobportal-auth"
)

// memStore is an in-memory SessionStore with injectable failures
type memStore struct {
	mu       sync.Mutex
	identity *auth.Identity
	token    string
	loadErr  error
	saveErr  error
	clearErr error
	saves    int
	clears   int
}

func newMemStore() *memStore {
	return &memStore{}
}

func (m *memStore) Load(ctx context.Context) (*auth.Identity, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, "", m.loadErr
	}
	return m.identity, m.token, nil
}

func (m *memStore) Save(ctx context.Context, identity *auth.Identity, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.identity = identity
	m.token = token
	return nil
}

func (m *memStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clears++
	if m.clearErr != nil {
		return m.clearErr
	}
	m.identity = nil
	m.token = ""
	return nil
}

func (m *memStore) state() (*auth.Identity, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.identity, m.token
}

// gatedBroker blocks each Authenticate call until the test releases it, so
// tests control the order in which concurrent logins settle.
type gatedBroker struct {
	mu      sync.Mutex
	calls   []*gatedCall
	started chan struct{}
}

type gatedCall struct {
	email   string
	release chan struct{}
}

func newGatedBroker() *gatedBroker {
	return &gatedBroker{started: make(chan struct{}, 8)}
}

func (b *gatedBroker) Authenticate(ctx context.Context, email, password string) (*auth.Identity, string, error) {
	call := &gatedCall{email: email, release: make(chan struct{})}
	b.mu.Lock()
	b.calls = append(b.calls, call)
	b.mu.Unlock()
	b.started <- struct{}{}

	select {
	case <-call.release:
	case <-ctx.Done():
		return nil, "", ctx.Err()
	}

	return &auth.Identity{
		ID:    "id-" + email,
		Role:  auth.RoleEmployer,
		Email: email,
	}, "token-" + email, nil
}

func (b *gatedBroker) Register(ctx context.Context, role auth.Role, payload auth.RegistrationPayload) (*auth.Identity, string, error) {
	return nil, "", auth.RegistrationError("")
}

func (b *gatedBroker) call(i int) *gatedCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[i]
}

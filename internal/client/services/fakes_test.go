package services

import (
	"context"
	"sync"

	"github.com/VijayPalsawdiya/ttrush-go/internal/client/models"
	"github.com/VijayPalsawdiya/ttrush-go/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewDefault()
}

// apiCall records one request issued through the fake client.
type apiCall struct {
	Method   string
	Endpoint string
	Body     any
}

// fakeAPI implements api.Client for service tests. Handler decides the
// response; when nil the call succeeds with an empty body.
type fakeAPI struct {
	mu      sync.Mutex
	calls   []apiCall
	Handler func(call apiCall, out any) error
}

func (f *fakeAPI) do(ctx context.Context, method, endpoint string, body any, out any) error {
	call := apiCall{Method: method, Endpoint: endpoint, Body: body}
	f.mu.Lock()
	f.calls = append(f.calls, call)
	handler := f.Handler
	f.mu.Unlock()

	if handler == nil {
		return nil
	}
	return handler(call, out)
}

func (f *fakeAPI) Do(ctx context.Context, method, endpoint string, body any, out any) error {
	return f.do(ctx, method, endpoint, body, out)
}

func (f *fakeAPI) DoPublic(ctx context.Context, method, endpoint string, body any, out any) error {
	return f.do(ctx, method, endpoint, body, out)
}

func (f *fakeAPI) Calls() []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]apiCall(nil), f.calls...)
}

func (f *fakeAPI) CallCount(endpoint string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Endpoint == endpoint {
			n++
		}
	}
	return n
}

// fakeDirectory implements UserDirectory with a fixed local population.
type fakeDirectory struct {
	mu         sync.Mutex
	users      []models.User
	remembered []models.User
}

func (d *fakeDirectory) LocalUsers() []models.User {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]models.User(nil), d.users...)
}

func (d *fakeDirectory) Remember(users ...models.User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.remembered = append(d.remembered, users...)
}

// memTokens implements tokens.Store in memory.
type memTokens struct {
	mu   sync.Mutex
	pair *models.TokenPair
}

func (s *memTokens) Get(ctx context.Context) (*models.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pair == nil {
		return nil, nil
	}
	p := *s.pair
	return &p, nil
}

func (s *memTokens) Set(ctx context.Context, pair models.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = &pair
	return nil
}

func (s *memTokens) SetAccessToken(ctx context.Context, accessToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pair != nil {
		s.pair.AccessToken = accessToken
	}
	return nil
}

func (s *memTokens) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = nil
	return nil
}

// memState implements state.Store in memory.
type memState struct {
	mu        sync.Mutex
	session   *models.Session
	onboarded bool
}

func (s *memState) LoadSession(ctx context.Context) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, nil
	}
	sess := *s.session
	return &sess, nil
}

func (s *memState) SaveSession(ctx context.Context, sess models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = &sess
	return nil
}

func (s *memState) OnboardingCompleted(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.onboarded, nil
}

func (s *memState) SetOnboardingCompleted(ctx context.Context, done bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onboarded = done
	return nil
}

func (s *memState) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	s.onboarded = false
	return nil
}

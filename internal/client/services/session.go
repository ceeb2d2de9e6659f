package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/VijayPalsawdiya/ttrush-go/internal/client/api"
	"github.com/VijayPalsawdiya/ttrush-go/internal/client/models"
	"github.com/VijayPalsawdiya/ttrush-go/internal/client/repositories/state"
	"github.com/VijayPalsawdiya/ttrush-go/internal/client/repositories/tokens"
	"github.com/VijayPalsawdiya/ttrush-go/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// State is the derived authentication state of the client.
type State string

const (
	StateUnauthenticated   State = "unauthenticated"
	StateIncompleteProfile State = "incomplete_profile"
	StateOnboarding        State = "onboarding"
	StateActive            State = "active"
)

// IdentityProvider is the external identity SDK (Google sign-in on mobile).
// Only session revocation is needed in this core; obtaining the ID token is
// the caller's concern.
type IdentityProvider interface {
	Revoke(ctx context.Context) error
}

// ProfileUpdate is a partial profile change; zero-valued fields are left
// unchanged.
type ProfileUpdate struct {
	Name        string
	PhotoURL    string
	Gender      models.Gender
	PhoneNumber string
	GameType    models.GameType
}

func (u ProfileUpdate) isZero() bool {
	return u.Name == "" && u.PhotoURL == "" && u.Gender == "" && u.PhoneNumber == "" && u.GameType == ""
}

// SessionManager owns the authenticated user's identity and the sign-in /
// sign-out / profile state machine.
//
// Contract:
//   - Restore recomputes the state from durable storage on cold start.
//   - SignIn exchanges an identity-provider token for a session.
//   - UpdateProfile merges locally when the network is unavailable and marks
//     the profile dirty until RefreshProfile reconciles it.
//   - SignOut runs its three cleanup steps independently; local state is
//     cleared even when the remote calls fail.
type SessionManager interface {
	Restore(ctx context.Context) (State, error)
	SignIn(ctx context.Context, idToken string) (State, error)
	UpdateProfile(ctx context.Context, upd ProfileUpdate) error
	CompleteProfile(ctx context.Context, upd ProfileUpdate) error
	RefreshProfile(ctx context.Context) error
	CompleteOnboarding(ctx context.Context) error
	SignOut(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
	RegisterPushToken(ctx context.Context, fcmToken string) error
	CurrentUser() *models.User
	State() State
	Subscribe(fn func(State)) func()
}

type sessionManager struct {
	api    api.Client
	tokens tokens.Store
	state  state.Store
	idp    IdentityProvider
	log    logging.Logger

	mu      sync.Mutex
	session *models.Session
	current State
	subs    map[uuid.UUID]func(State)
}

// NewSessionManager constructs a SessionManager; idp may be nil when no
// external identity session needs revoking (tests, token paste flows).
func NewSessionManager(apiClient api.Client, tok tokens.Store, st state.Store, idp IdentityProvider, log logging.Logger) SessionManager {
	return &sessionManager{
		api:     apiClient,
		tokens:  tok,
		state:   st,
		idp:     idp,
		log:     log.With("component", "session"),
		current: StateUnauthenticated,
		subs:    make(map[uuid.UUID]func(State)),
	}
}

func deriveState(sess models.Session) State {
	if !sess.User.IsProfileComplete || !sess.User.HasRequiredProfileFields() {
		return StateIncompleteProfile
	}
	if !sess.OnboardingCompleted {
		return StateOnboarding
	}
	return StateActive
}

// Restore loads the persisted session and tokens and recomputes the derived
// state. A session without a token pair violates the session⇒tokens
// invariant and is discarded: the user must sign in again.
func (m *sessionManager) Restore(ctx context.Context) (State, error) {
	sess, err := m.state.LoadSession(ctx)
	if err != nil {
		return StateUnauthenticated, err
	}
	if sess == nil {
		m.transition(nil, StateUnauthenticated)
		return StateUnauthenticated, nil
	}

	pair, err := m.tokens.Get(ctx)
	if err != nil {
		return StateUnauthenticated, err
	}
	if pair == nil {
		m.log.Warn(ctx, "stored session has no token pair, discarding")
		if clearErr := m.state.Clear(ctx); clearErr != nil {
			m.log.Error(ctx, "failed to clear orphaned session", "error", clearErr)
		}
		m.transition(nil, StateUnauthenticated)
		return StateUnauthenticated, nil
	}

	m.inspectAccessToken(ctx, pair.AccessToken, sess.User.ID)

	if done, err := m.state.OnboardingCompleted(ctx); err == nil && done {
		sess.OnboardingCompleted = true
	}

	st := deriveState(*sess)
	m.transition(sess, st)

	if sess.ProfileDirty {
		// Reconcile a profile that diverged during an offline update.
		if err := m.RefreshProfile(ctx); err != nil {
			m.log.Warn(ctx, "profile resync failed, keeping local copy", "error", err)
		}
	}

	return m.State(), nil
}

// inspectAccessToken reads the stored token's claims without verifying the
// signature (the backend owns verification) to spot stale or mismatched
// tokens early.
func (m *sessionManager) inspectAccessToken(ctx context.Context, accessToken, userID string) {
	parsed, _, err := jwt.NewParser().ParseUnverified(accessToken, jwt.MapClaims{})
	if err != nil {
		m.log.Warn(ctx, "stored access token is not a parseable JWT", "error", err)
		return
	}
	if sub, err := parsed.Claims.GetSubject(); err == nil && sub != "" && sub != userID {
		m.log.Warn(ctx, "access token subject does not match stored session", "subject", sub, "userId", userID)
	}
	if exp, err := parsed.Claims.GetExpirationTime(); err == nil && exp != nil && exp.Before(time.Now()) {
		m.log.Debug(ctx, "stored access token expired, first request will refresh")
	}
}

// SignIn exchanges an externally obtained identity token for a token pair and
// profile, persists both, and derives the resulting state.
func (m *sessionManager) SignIn(ctx context.Context, idToken string) (State, error) {
	if idToken == "" {
		return StateUnauthenticated, api.ErrValidation
	}

	var result struct {
		User         models.BackendUser `json:"user"`
		AccessToken  string             `json:"accessToken"`
		RefreshToken string             `json:"refreshToken"`
	}
	body := map[string]string{"token": idToken}
	if err := m.api.DoPublic(ctx, http.MethodPost, endpointAuthGoogle, body, &result); err != nil {
		return StateUnauthenticated, err
	}

	pair := models.TokenPair{AccessToken: result.AccessToken, RefreshToken: result.RefreshToken}
	if err := m.tokens.Set(ctx, pair); err != nil {
		return StateUnauthenticated, err
	}

	onboarded, err := m.state.OnboardingCompleted(ctx)
	if err != nil {
		m.log.Warn(ctx, "failed to read onboarding flag", "error", err)
	}

	sess := models.Session{User: result.User.ToUser(), OnboardingCompleted: onboarded}
	if err := m.state.SaveSession(ctx, sess); err != nil {
		return StateUnauthenticated, err
	}

	st := deriveState(sess)
	m.transition(&sess, st)
	m.log.Info(ctx, "signed in", "userId", sess.User.ID, "state", string(st))
	return st, nil
}

func applyUpdate(u models.User, upd ProfileUpdate) models.User {
	if upd.Name != "" {
		u.Name = upd.Name
	}
	if upd.PhotoURL != "" {
		u.PhotoURL = upd.PhotoURL
	}
	if upd.Gender != "" {
		u.Gender = upd.Gender
	}
	if upd.PhoneNumber != "" {
		u.PhoneNumber = upd.PhoneNumber
	}
	if upd.GameType != "" {
		u.GameType = upd.GameType
	}
	return u
}

func updatePayload(upd ProfileUpdate) map[string]any {
	payload := make(map[string]any)
	if upd.Name != "" {
		payload["name"] = upd.Name
	}
	if upd.PhotoURL != "" {
		payload["profilePicture"] = upd.PhotoURL
	}
	if upd.Gender != "" {
		payload["gender"] = upd.Gender
	}
	if upd.PhoneNumber != "" {
		payload["phoneNumber"] = upd.PhoneNumber
	}
	if upd.GameType != "" {
		payload["gameType"] = upd.GameType
	}
	return payload
}

// UpdateProfile pushes a partial profile change. When the network is
// unavailable the change is merged locally and marked dirty; any other
// failure surfaces to the caller untouched.
func (m *sessionManager) UpdateProfile(ctx context.Context, upd ProfileUpdate) error {
	if upd.isZero() {
		return api.ErrValidation
	}

	m.mu.Lock()
	if m.session == nil {
		m.mu.Unlock()
		return api.ErrUnauthenticated
	}
	sess := *m.session
	m.mu.Unlock()

	var updated models.BackendUser
	err := m.api.Do(ctx, http.MethodPut, endpointProfile, updatePayload(upd), &updated)
	if err == nil {
		sess.User = updated.ToUser()
		sess.ProfileDirty = false
		return m.persistAndTransition(ctx, sess)
	}

	if !errors.Is(err, api.ErrNetworkUnavailable) {
		return err
	}

	// Degraded path: keep the user's edit locally and reconcile later.
	m.log.Warn(ctx, "profile update failed offline, merging locally", "error", err)
	sess.User = applyUpdate(sess.User, upd)
	sess.User.IsProfileComplete = sess.User.HasRequiredProfileFields()
	sess.ProfileDirty = true
	return m.persistAndTransition(ctx, sess)
}

// CompleteProfile validates that all required fields are present before
// dispatching; missing fields never reach the backend.
func (m *sessionManager) CompleteProfile(ctx context.Context, upd ProfileUpdate) error {
	m.mu.Lock()
	if m.session == nil {
		m.mu.Unlock()
		return api.ErrUnauthenticated
	}
	merged := applyUpdate(m.session.User, upd)
	m.mu.Unlock()

	if !merged.HasRequiredProfileFields() {
		return api.ErrValidation
	}
	return m.UpdateProfile(ctx, upd)
}

// RefreshProfile overwrites the local profile with the server's copy and
// clears the dirty flag.
func (m *sessionManager) RefreshProfile(ctx context.Context) error {
	m.mu.Lock()
	if m.session == nil {
		m.mu.Unlock()
		return api.ErrUnauthenticated
	}
	sess := *m.session
	m.mu.Unlock()

	var bu models.BackendUser
	if err := m.api.Do(ctx, http.MethodGet, endpointProfile, nil, &bu); err != nil {
		return err
	}

	sess.User = bu.ToUser()
	sess.ProfileDirty = false
	return m.persistAndTransition(ctx, sess)
}

func (m *sessionManager) persistAndTransition(ctx context.Context, sess models.Session) error {
	if err := m.state.SaveSession(ctx, sess); err != nil {
		return err
	}
	m.transition(&sess, deriveState(sess))
	return nil
}

// CompleteOnboarding durably sets the onboarding flag and moves to the
// active state.
func (m *sessionManager) CompleteOnboarding(ctx context.Context) error {
	m.mu.Lock()
	if m.session == nil {
		m.mu.Unlock()
		return api.ErrUnauthenticated
	}
	sess := *m.session
	m.mu.Unlock()

	if err := m.state.SetOnboardingCompleted(ctx, true); err != nil {
		return err
	}
	sess.OnboardingCompleted = true
	return m.persistAndTransition(ctx, sess)
}

// SignOut runs the backend logout, the identity-provider revoke and the local
// wipe. The three steps are independently fault-tolerant: a failure is logged
// and the remaining steps still run.
func (m *sessionManager) SignOut(ctx context.Context) error {
	if err := m.api.Do(ctx, http.MethodPost, endpointAuthLogout, nil, nil); err != nil {
		m.log.Warn(ctx, "backend logout failed", "error", err)
	}

	if m.idp != nil {
		if err := m.idp.Revoke(ctx); err != nil {
			m.log.Warn(ctx, "identity provider revoke failed", "error", err)
		}
	}

	m.clearLocal(ctx)
	m.transition(nil, StateUnauthenticated)
	m.log.Info(ctx, "signed out")
	return nil
}

// DeleteAccount wipes local state; server-side deletion is owned elsewhere.
func (m *sessionManager) DeleteAccount(ctx context.Context) error {
	m.clearLocal(ctx)
	m.transition(nil, StateUnauthenticated)
	return nil
}

func (m *sessionManager) clearLocal(ctx context.Context) {
	if err := m.tokens.Clear(ctx); err != nil {
		m.log.Error(ctx, "failed to clear tokens", "error", err)
	}
	if err := m.state.Clear(ctx); err != nil {
		m.log.Error(ctx, "failed to clear session state", "error", err)
	}
}

// RegisterPushToken registers the device's push token; best-effort.
func (m *sessionManager) RegisterPushToken(ctx context.Context, fcmToken string) error {
	body := map[string]string{"fcmToken": fcmToken}
	if err := m.api.Do(ctx, http.MethodPost, endpointFCMToken, body, nil); err != nil {
		m.log.Warn(ctx, "push token registration failed", "error", err)
	}
	return nil
}

func (m *sessionManager) CurrentUser() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	u := m.session.User
	return &u
}

func (m *sessionManager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Subscribe registers fn for state transitions and returns an unsubscribe
// function. Subscribers are invoked after the transition is applied.
func (m *sessionManager) Subscribe(fn func(State)) func() {
	id := uuid.New()
	m.mu.Lock()
	m.subs[id] = fn
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *sessionManager) transition(sess *models.Session, st State) {
	m.mu.Lock()
	m.session = sess
	changed := m.current != st
	m.current = st
	subs := make([]func(State), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range subs {
		fn(st)
	}
}

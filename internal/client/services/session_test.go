package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/VijayPalsawdiya/ttrush-go/internal/client/api"
	"github.com/VijayPalsawdiya/ttrush-go/internal/client/models"
	"github.com/stretchr/testify/require"
)

type fakeIdentity struct {
	revoked bool
	Err     error
}

func (f *fakeIdentity) Revoke(ctx context.Context) error {
	f.revoked = true
	return f.Err
}

func completeUser() models.User {
	return models.User{
		ID:                "u1",
		Email:             "asha@example.com",
		Name:              "Asha",
		Gender:            models.GenderFemale,
		PhoneNumber:       "+371000000",
		GameType:          models.GameTypeRightHand,
		IsProfileComplete: true,
	}
}

func newSessionFixture(handler func(call apiCall, out any) error) (*fakeAPI, *memTokens, *memState, *fakeIdentity, SessionManager) {
	fake := &fakeAPI{Handler: handler}
	tok := &memTokens{}
	st := &memState{}
	idp := &fakeIdentity{}
	mgr := NewSessionManager(fake, tok, st, idp, testLogger())
	return fake, tok, st, idp, mgr
}

func signInHandler(user models.BackendUser) func(call apiCall, out any) error {
	return func(call apiCall, out any) error {
		if call.Endpoint != endpointAuthGoogle {
			return nil
		}
		result := out.(*struct {
			User         models.BackendUser `json:"user"`
			AccessToken  string             `json:"accessToken"`
			RefreshToken string             `json:"refreshToken"`
		})
		result.User = user
		result.AccessToken = "access-token"
		result.RefreshToken = "refresh-token"
		return nil
	}
}

func TestRestore_NoSessionIsUnauthenticated(t *testing.T) {
	ctx := context.Background()
	_, _, _, _, mgr := newSessionFixture(nil)

	st, err := mgr.Restore(ctx)
	require.NoError(t, err)
	require.Equal(t, StateUnauthenticated, st)
	require.Nil(t, mgr.CurrentUser())
}

func TestRestore_SessionWithoutTokensIsDiscarded(t *testing.T) {
	ctx := context.Background()
	_, _, st, _, mgr := newSessionFixture(nil)
	require.NoError(t, st.SaveSession(ctx, models.Session{User: completeUser()}))

	got, err := mgr.Restore(ctx)
	require.NoError(t, err)
	require.Equal(t, StateUnauthenticated, got)

	// The orphaned session was cleared, not just ignored.
	sess, err := st.LoadSession(ctx)
	require.NoError(t, err)
	require.Nil(t, sess)
}

func TestRestore_CompleteOnboardedSessionIsActive(t *testing.T) {
	ctx := context.Background()
	_, tok, st, _, mgr := newSessionFixture(nil)
	require.NoError(t, tok.Set(ctx, models.TokenPair{AccessToken: "a", RefreshToken: "r"}))
	require.NoError(t, st.SaveSession(ctx, models.Session{User: completeUser()}))
	require.NoError(t, st.SetOnboardingCompleted(ctx, true))

	got, err := mgr.Restore(ctx)
	require.NoError(t, err)
	require.Equal(t, StateActive, got)
	require.Equal(t, "u1", mgr.CurrentUser().ID)
}

func TestRestore_DirtyProfileReconciledFromServer(t *testing.T) {
	ctx := context.Background()
	fake, tok, st, _, mgr := newSessionFixture(nil)
	fake.Handler = func(call apiCall, out any) error {
		if call.Endpoint == endpointProfile {
			*(out.(*models.BackendUser)) = models.BackendUser{
				ID: "u1", Name: "Asha (server)", Email: "asha@example.com",
				Gender: models.GenderFemale, PhoneNumber: "+371000000",
				GameType: models.GameTypeRightHand, IsProfileComplete: true,
			}
		}
		return nil
	}

	require.NoError(t, tok.Set(ctx, models.TokenPair{AccessToken: "a", RefreshToken: "r"}))
	require.NoError(t, st.SaveSession(ctx, models.Session{User: completeUser(), ProfileDirty: true}))
	require.NoError(t, st.SetOnboardingCompleted(ctx, true))

	_, err := mgr.Restore(ctx)
	require.NoError(t, err)

	require.Equal(t, "Asha (server)", mgr.CurrentUser().Name)
	sess, err := st.LoadSession(ctx)
	require.NoError(t, err)
	require.False(t, sess.ProfileDirty)
}

func TestSignIn_DerivesStateFromProfile(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		user models.BackendUser
		want State
	}{
		{
			name: "incomplete profile",
			user: models.BackendUser{ID: "u1", Email: "a@b.c", Name: "Asha"},
			want: StateIncompleteProfile,
		},
		{
			name: "complete but not onboarded",
			user: models.BackendUser{
				ID: "u1", Email: "a@b.c", Name: "Asha",
				Gender: models.GenderFemale, PhoneNumber: "+371000000",
				GameType: models.GameTypeRightHand, IsProfileComplete: true,
			},
			want: StateOnboarding,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, tok, _, _, mgr := newSessionFixture(signInHandler(tc.user))

			st, err := mgr.SignIn(ctx, "id-token")
			require.NoError(t, err)
			require.Equal(t, tc.want, st)

			pair, err := tok.Get(ctx)
			require.NoError(t, err)
			require.NotNil(t, pair)
		})
	}
}

func TestSignIn_EmptyTokenIsValidationError(t *testing.T) {
	_, _, _, _, mgr := newSessionFixture(nil)
	_, err := mgr.SignIn(context.Background(), "")
	require.ErrorIs(t, err, api.ErrValidation)
}

func TestUpdateProfile_OfflineMergesLocallyAndMarksDirty(t *testing.T) {
	ctx := context.Background()
	fake, tok, st, _, mgr := newSessionFixture(nil)
	require.NoError(t, tok.Set(ctx, models.TokenPair{AccessToken: "a", RefreshToken: "r"}))
	require.NoError(t, st.SaveSession(ctx, models.Session{User: completeUser()}))
	require.NoError(t, st.SetOnboardingCompleted(ctx, true))
	_, err := mgr.Restore(ctx)
	require.NoError(t, err)

	fake.Handler = func(call apiCall, out any) error {
		return fmt.Errorf("%w: connection refused", api.ErrNetworkUnavailable)
	}

	require.NoError(t, mgr.UpdateProfile(ctx, ProfileUpdate{Name: "Asha K"}))

	require.Equal(t, "Asha K", mgr.CurrentUser().Name)
	sess, err := st.LoadSession(ctx)
	require.NoError(t, err)
	require.True(t, sess.ProfileDirty)
}

func TestUpdateProfile_OtherErrorsSurface(t *testing.T) {
	ctx := context.Background()
	fake, tok, st, _, mgr := newSessionFixture(nil)
	require.NoError(t, tok.Set(ctx, models.TokenPair{AccessToken: "a", RefreshToken: "r"}))
	require.NoError(t, st.SaveSession(ctx, models.Session{User: completeUser()}))
	_, err := mgr.Restore(ctx)
	require.NoError(t, err)

	reqErr := &api.RequestError{Status: http.StatusBadRequest, Message: "phone number taken"}
	fake.Handler = func(call apiCall, out any) error { return reqErr }

	err = mgr.UpdateProfile(ctx, ProfileUpdate{PhoneNumber: "+371111111"})
	require.ErrorIs(t, err, reqErr)

	// Nothing was merged locally.
	require.Equal(t, completeUser().PhoneNumber, mgr.CurrentUser().PhoneNumber)
}

func TestCompleteProfile_MissingFieldsNeverReachBackend(t *testing.T) {
	ctx := context.Background()
	fake, _, _, _, mgr := newSessionFixture(signInHandler(models.BackendUser{ID: "u1", Email: "a@b.c", Name: "Asha"}))
	_, err := mgr.SignIn(ctx, "id-token")
	require.NoError(t, err)

	before := len(fake.Calls())
	err = mgr.CompleteProfile(ctx, ProfileUpdate{Gender: models.GenderFemale})
	require.ErrorIs(t, err, api.ErrValidation)
	require.Len(t, fake.Calls(), before)
}

func TestCompleteOnboarding_MovesToActive(t *testing.T) {
	ctx := context.Background()
	_, _, st, _, mgr := newSessionFixture(signInHandler(models.BackendUser{
		ID: "u1", Email: "a@b.c", Name: "Asha",
		Gender: models.GenderFemale, PhoneNumber: "+371000000",
		GameType: models.GameTypeRightHand, IsProfileComplete: true,
	}))
	got, err := mgr.SignIn(ctx, "id-token")
	require.NoError(t, err)
	require.Equal(t, StateOnboarding, got)

	require.NoError(t, mgr.CompleteOnboarding(ctx))
	require.Equal(t, StateActive, mgr.State())

	done, err := st.OnboardingCompleted(ctx)
	require.NoError(t, err)
	require.True(t, done)
}

func TestSignOut_ClearsLocalStateDespiteRemoteFailures(t *testing.T) {
	ctx := context.Background()
	fake, tok, st, idp, mgr := newSessionFixture(signInHandler(models.BackendUser{ID: "u1", Email: "a@b.c", Name: "Asha"}))
	_, err := mgr.SignIn(ctx, "id-token")
	require.NoError(t, err)

	fake.Handler = func(call apiCall, out any) error { return errors.New("backend down") }
	idp.Err = errors.New("revoke failed")

	require.NoError(t, mgr.SignOut(ctx))

	require.Equal(t, StateUnauthenticated, mgr.State())
	require.True(t, idp.revoked)

	pair, err := tok.Get(ctx)
	require.NoError(t, err)
	require.Nil(t, pair)
	sess, err := st.LoadSession(ctx)
	require.NoError(t, err)
	require.Nil(t, sess)
}

func TestRegisterPushToken_BestEffort(t *testing.T) {
	ctx := context.Background()
	fake, _, _, _, mgr := newSessionFixture(func(call apiCall, out any) error {
		return errors.New("backend down")
	})

	require.NoError(t, mgr.RegisterPushToken(ctx, "fcm-1"))
	require.Equal(t, 1, fake.CallCount(endpointFCMToken))
}

func TestSubscribe_NotifiedOnChangeOnly(t *testing.T) {
	ctx := context.Background()
	_, _, _, _, mgr := newSessionFixture(signInHandler(models.BackendUser{ID: "u1", Email: "a@b.c", Name: "Asha"}))

	var seen []State
	unsubscribe := mgr.Subscribe(func(st State) { seen = append(seen, st) })
	defer unsubscribe()

	// Already unauthenticated: restoring an empty store is not a change.
	_, err := mgr.Restore(ctx)
	require.NoError(t, err)
	require.Empty(t, seen)

	_, err = mgr.SignIn(ctx, "id-token")
	require.NoError(t, err)
	require.Equal(t, []State{StateIncompleteProfile}, seen)

	require.NoError(t, mgr.SignOut(ctx))
	require.Equal(t, []State{StateIncompleteProfile, StateUnauthenticated}, seen)
}

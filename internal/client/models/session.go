package models

// TokenPair holds the access/refresh token pair issued at login.
// A non-empty session always implies a stored pair; the reverse is enforced
// by the session manager on restore.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Session is the authenticated user's durable local state.
type Session struct {
	User                User `json:"user"`
	OnboardingCompleted bool `json:"onboardingCompleted"`

	// ProfileDirty marks a profile that was merged locally after a failed
	// network update and has not been reconciled with the server yet.
	ProfileDirty bool `json:"profileDirty,omitempty"`
}

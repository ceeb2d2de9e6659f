// Package state persists the serialized session and the onboarding flag.
package state

import (
	"context"

	"github.com/VijayPalsawdiya/ttrush-go/internal/client/models"
)

// Store is the durable session-state store. LoadSession returns nil (no
// error) when nothing is stored or the stored value is corrupt; either way
// the client must re-authenticate.
type Store interface {
	LoadSession(ctx context.Context) (*models.Session, error)
	SaveSession(ctx context.Context, s models.Session) error
	OnboardingCompleted(ctx context.Context) (bool, error)
	SetOnboardingCompleted(ctx context.Context, done bool) error
	Clear(ctx context.Context) error
}

// Package tokens persists the access/refresh token pair in local storage.
package tokens

import (
	"context"

	"github.com/VijayPalsawdiya/ttrush-go/internal/client/models"
)

// Store is the durable token store.
//
// Contract:
//   - Get returns nil (no error) when no pair is stored.
//   - Set and Clear are atomic: a reader never observes one token of the
//     pair without the other.
//   - SetAccessToken replaces only the access token, keeping the stored
//     refresh token (used after a refresh cycle).
type Store interface {
	Get(ctx context.Context) (*models.TokenPair, error)
	Set(ctx context.Context, pair models.TokenPair) error
	SetAccessToken(ctx context.Context, accessToken string) error
	Clear(ctx context.Context) error
}

package tokens

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/VijayPalsawdiya/ttrush-go/internal/client/models"
	"github.com/VijayPalsawdiya/ttrush-go/internal/dbx"
)

const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func getValue(ctx context.Context, q dbx.DBTX, key string) (string, error) {
	var value string
	err := q.QueryRowContext(ctx, `SELECT value FROM local_state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get local_state[%s]: %w", key, err)
	}
	return value, nil
}

func setValue(ctx context.Context, q dbx.DBTX, key, value string) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO local_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set local_state[%s]: %w", key, err)
	}
	return nil
}

// Get returns the stored pair, or nil when either token is absent. A pair
// with only one half present is treated as absent; Clear-ing it is the
// session manager's job.
func (s *SQLiteStore) Get(ctx context.Context) (*models.TokenPair, error) {
	access, err := getValue(ctx, s.db, keyAccessToken)
	if err != nil {
		return nil, err
	}
	refresh, err := getValue(ctx, s.db, keyRefreshToken)
	if err != nil {
		return nil, err
	}
	if access == "" || refresh == "" {
		return nil, nil
	}
	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Set stores both tokens in one transaction.
func (s *SQLiteStore) Set(ctx context.Context, pair models.TokenPair) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := setValue(ctx, tx, keyAccessToken, pair.AccessToken); err != nil {
			return err
		}
		return setValue(ctx, tx, keyRefreshToken, pair.RefreshToken)
	})
}

func (s *SQLiteStore) SetAccessToken(ctx context.Context, accessToken string) error {
	return setValue(ctx, s.db, keyAccessToken, accessToken)
}

// Clear removes both tokens in one transaction so a half-cleared pair is
// never observable.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM local_state WHERE key IN (?, ?)`, keyAccessToken, keyRefreshToken)
		if err != nil {
			return fmt.Errorf("failed to clear tokens: %w", err)
		}
		return nil
	})
}

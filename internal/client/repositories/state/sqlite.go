package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/VijayPalsawdiya/ttrush-go/internal/client/models"
	"github.com/VijayPalsawdiya/ttrush-go/internal/dbx"
)

const (
	keySession    = "session"
	keyOnboarding = "onboarding_completed"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM local_state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get local_state[%s]: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO local_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set local_state[%s]: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) LoadSession(ctx context.Context) (*models.Session, error) {
	raw, err := s.get(ctx, keySession)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var sess models.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		// Corrupt stored session: treat as absent.
		return nil, nil
	}
	return &sess, nil
}

func (s *SQLiteStore) SaveSession(ctx context.Context, sess models.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}
	return s.set(ctx, keySession, raw)
}

func (s *SQLiteStore) OnboardingCompleted(ctx context.Context) (bool, error) {
	raw, err := s.get(ctx, keyOnboarding)
	if err != nil {
		return false, err
	}
	return string(raw) == "true", nil
}

func (s *SQLiteStore) SetOnboardingCompleted(ctx context.Context, done bool) error {
	value := "false"
	if done {
		value = "true"
	}
	return s.set(ctx, keyOnboarding, []byte(value))
}

// Clear removes the session and onboarding flag in one transaction.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM local_state WHERE key IN (?, ?)`, keySession, keyOnboarding)
		if err != nil {
			return fmt.Errorf("failed to clear session state: %w", err)
		}
		return nil
	})
}

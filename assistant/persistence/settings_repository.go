package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dfryer1193/wpgen/assistant/domain"
	"github.com/dfryer1193/wpgen/shared/db"
)

var _ domain.SettingsRepository = (*SQLiteSettingsRepository)(nil)

// SQLiteSettingsRepository stores the credentials blob in the settings table.
type SQLiteSettingsRepository struct {
	db  *sql.DB
	key string
}

func NewSettingsRepository(conn *sql.DB) *SQLiteSettingsRepository {
	return &SQLiteSettingsRepository{
		db:  conn,
		key: domain.SettingsKey,
	}
}

const upsertSettingQuery = `
	INSERT INTO settings (key, value, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET
		value = excluded.value,
		updated_at = excluded.updated_at
`

// Save replaces the stored credentials.
func (r *SQLiteSettingsRepository) Save(ctx context.Context, creds *domain.Credentials) error {
	blob, err := encodeCredentials(creds)
	if err != nil {
		return err
	}

	return db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		executor := db.GetExecutor(txCtx, r.db)
		if _, err := executor.ExecContext(txCtx, upsertSettingQuery, r.key, blob, time.Now().UTC()); err != nil {
			return fmt.Errorf("failed to upsert settings: %w", err)
		}
		return nil
	})
}

const getSettingQuery = `SELECT value FROM settings WHERE key = ?`

// Load returns the stored credentials, or nil when none were saved.
func (r *SQLiteSettingsRepository) Load(ctx context.Context) (*domain.Credentials, error) {
	var blob string
	err := db.GetExecutor(ctx, r.db).QueryRowContext(ctx, getSettingQuery, r.key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	return decodeCredentials([]byte(blob))
}

func encodeCredentials(creds *domain.Credentials) ([]byte, error) {
	if creds == nil {
		return nil, fmt.Errorf("credentials cannot be nil")
	}
	blob, err := json.Marshal(creds)
	if err != nil {
		return nil, fmt.Errorf("failed to encode credentials: %w", err)
	}
	return blob, nil
}

func decodeCredentials(blob []byte) (*domain.Credentials, error) {
	var creds domain.Credentials
	if err := json.Unmarshal(blob, &creds); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptSettings, err)
	}
	return &creds, nil
}

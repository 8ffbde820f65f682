package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fernet/fernet-go"

	"github.com/mvanetten/stock-portfolio-analytics/internal/apperrors"
)

// SettingRepository provides access to the key/value settings store. Secret
// values (provider API tokens) are encrypted at rest with a fernet key; plain
// settings pass through untouched.
type SettingRepository struct {
	db  *sql.DB
	key *fernet.Key
}

// NewSettingRepository creates a new SettingRepository. fernetKey may be
// empty, in which case secret operations fail with ErrMissingFernetKey while
// plain settings keep working.
func NewSettingRepository(db *sql.DB, fernetKey string) (*SettingRepository, error) {
	repo := &SettingRepository{db: db}
	if fernetKey != "" {
		key, err := fernet.DecodeKey(fernetKey)
		if err != nil {
			return nil, fmt.Errorf("failed to decode settings fernet key: %w", err)
		}
		repo.key = key
	}
	return repo, nil
}

// Get retrieves a plain setting value.
// Returns apperrors.ErrSettingNotFound when the key does not exist.
func (r *SettingRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	var encrypted bool
	query := `SELECT value, encrypted FROM setting WHERE key = ?`
	err := r.db.QueryRowContext(ctx, query, key).Scan(&value, &encrypted)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", apperrors.ErrSettingNotFound, key)
	}
	if err != nil {
		return "", fmt.Errorf("failed to query setting %s: %w", key, err)
	}

	if encrypted {
		return r.decrypt(key, value)
	}
	return value, nil
}

// Set stores a plain setting value, replacing any existing one.
func (r *SettingRepository) Set(ctx context.Context, key, value string) error {
	return r.store(ctx, key, value, false)
}

// SetSecret encrypts and stores a sensitive setting value.
func (r *SettingRepository) SetSecret(ctx context.Context, key, value string) error {
	if r.key == nil {
		return apperrors.ErrMissingFernetKey
	}
	token, err := fernet.EncryptAndSign([]byte(value), r.key)
	if err != nil {
		return fmt.Errorf("failed to encrypt setting %s: %w", key, err)
	}
	return r.store(ctx, key, string(token), true)
}

func (r *SettingRepository) decrypt(key, token string) (string, error) {
	if r.key == nil {
		return "", apperrors.ErrMissingFernetKey
	}
	// TTL 0: stored tokens never expire.
	plaintext := fernet.VerifyAndDecrypt([]byte(token), 0, []*fernet.Key{r.key})
	if plaintext == nil {
		return "", fmt.Errorf("failed to decrypt setting %s", key)
	}
	return string(plaintext), nil
}

func (r *SettingRepository) store(ctx context.Context, key, value string, encrypted bool) error {
	query := `INSERT INTO setting (key, value, encrypted) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, encrypted = excluded.encrypted`
	if _, err := r.db.ExecContext(ctx, query, key, value, encrypted); err != nil {
		return fmt.Errorf("failed to store setting %s: %w", key, err)
	}
	return nil
}

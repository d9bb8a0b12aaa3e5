// Package storage provides the SQLite-backed persistence layer for the
// single user profile record.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/pmehta/expenso/internal/model"
)

// profileKey is the well-known storage key the profile record lives under.
const profileKey = "currentUser"

// ProfileStore persists the UserProfile as one JSON record in a key-value
// table. Absence or structural-validation failure is equivalent to "no
// profile": corrupt rows are cleared and logged, never surfaced as errors.
type ProfileStore struct {
	db     *sql.DB
	dbPath string
}

// NewProfileStore opens (or creates) the database at dbPath.
func NewProfileStore(dbPath string) (*ProfileStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("dbPath must not be empty")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &ProfileStore{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *ProfileStore) Close() error {
	return s.db.Close()
}

// Load returns the persisted profile, or nil when none exists. A record
// that fails to deserialize or fails structural validation is treated as
// corrupt: it is cleared and nil is returned.
func (s *ProfileStore) Load(ctx context.Context) (*model.UserProfile, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM app_state WHERE key = ?`, profileKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	var profile model.UserProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		slog.Warn("persisted profile does not deserialize, clearing", "error", err)
		return nil, s.Clear(ctx)
	}

	if err := profile.Validate(); err != nil {
		slog.Warn("persisted profile fails structural checks, clearing", "error", err)
		return nil, s.Clear(ctx)
	}

	return &profile, nil
}

// Save persists the profile as one atomic write. Callers build the complete
// new record first; partially-updated profiles are never observable.
func (s *ProfileStore) Save(ctx context.Context, profile *model.UserProfile) error {
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("refusing to persist invalid profile: %w", err)
	}

	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		profileKey, string(raw))
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// Clear removes the persisted profile.
func (s *ProfileStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM app_state WHERE key = ?`, profileKey)
	if err != nil {
		return fmt.Errorf("failed to clear profile: %w", err)
	}
	return nil
}

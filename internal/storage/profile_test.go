package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmehta/expenso/internal/model"
)

func newTestStore(t *testing.T) *ProfileStore {
	t.Helper()

	store, err := NewProfileStore(filepath.Join(t.TempDir(), "expenso.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestLoadWithoutProfile(t *testing.T) {
	store := newTestStore(t)

	profile, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	want := &model.UserProfile{
		Name:        "Priya",
		AccessToken: "token-1",
		Email:       "priya@example.com",
		GoogleID:    "g-123",
		SheetID:     "sheet-1",
		SheetURL:    "https://docs.google.com/spreadsheets/d/sheet-1/edit",
	}
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveOverwritesPrevious(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &model.UserProfile{Name: "Priya"}))
	require.NoError(t, store.Save(ctx, &model.UserProfile{Name: "Priya", AccessToken: "t", Email: "p@example.com", SheetID: "s"}))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.ProfileComplete, got.Completeness())
}

func TestSaveRejectsInvalidProfile(t *testing.T) {
	store := newTestStore(t)

	err := store.Save(context.Background(), &model.UserProfile{AccessToken: "t"})
	assert.Error(t, err)
}

func TestLoadClearsCorruptRecord(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "{{{"},
		{name: "structurally invalid", raw: `{"accessToken":"t","sheetId":"s"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			ctx := context.Background()

			_, err := store.db.ExecContext(ctx,
				`INSERT INTO app_state (key, value) VALUES (?, ?)`, profileKey, tt.raw)
			require.NoError(t, err)

			profile, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Nil(t, profile)

			// The corrupt row is gone; a second load sees a clean store.
			var count int
			require.NoError(t, store.db.QueryRowContext(ctx,
				`SELECT COUNT(*) FROM app_state WHERE key = ?`, profileKey).Scan(&count))
			assert.Zero(t, count)
		})
	}
}

func TestClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &model.UserProfile{Name: "Priya"}))
	require.NoError(t, store.Clear(ctx))

	profile, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, profile)
}

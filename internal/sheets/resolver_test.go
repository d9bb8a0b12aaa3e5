package sheets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmehta/expenso/internal/common"
	"github.com/pmehta/expenso/internal/model"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.RetryAttempts = 1
	cfg.RetryDelay = time.Millisecond
	return cfg
}

func testIdentity() Identity {
	return Identity{AccessToken: "t", UserName: "A"}
}

func TestResolveFindsExistingSheet(t *testing.T) {
	store := NewMockStore()
	existing := &model.SpreadsheetRef{ID: "existing-id", URL: "https://example.com/existing"}
	store.FindFunc = func(_ context.Context, name string) (*model.SpreadsheetRef, error) {
		assert.Equal(t, "Personal Expenses - A", name)
		return existing, nil
	}

	resolver, err := NewResolver(testConfig(), store.Factory())
	require.NoError(t, err)

	resolution, err := resolver.Resolve(context.Background(), testIdentity())
	require.NoError(t, err)
	assert.Equal(t, existing, resolution.Ref)
	assert.False(t, resolution.Created)
	assert.Empty(t, store.CreateCalls, "find hit must not create")
}

func TestResolveCreatesWhenMissing(t *testing.T) {
	store := NewMockStore()

	resolver, err := NewResolver(testConfig(), store.Factory())
	require.NoError(t, err)

	resolution, err := resolver.Resolve(context.Background(), testIdentity())
	require.NoError(t, err)
	assert.True(t, resolution.Created)
	assert.Equal(t, "mock-sheet-id", resolution.Ref.ID)
	assert.NoError(t, resolution.HeaderWarning)

	require.Len(t, store.CreateCalls, 1)
	assert.Equal(t, "Personal Expenses - A", store.CreateCalls[0])
	require.Len(t, store.WriteHeaderCalls, 1)
	assert.Equal(t, "mock-sheet-id", store.WriteHeaderCalls[0])
}

func TestResolveIsIdempotent(t *testing.T) {
	store := NewMockStore()
	existing := &model.SpreadsheetRef{ID: "existing-id", URL: "https://example.com/existing"}
	store.FindFunc = func(_ context.Context, _ string) (*model.SpreadsheetRef, error) {
		return existing, nil
	}

	resolver, err := NewResolver(testConfig(), store.Factory())
	require.NoError(t, err)

	first, err := resolver.Resolve(context.Background(), testIdentity())
	require.NoError(t, err)

	second, err := resolver.Resolve(context.Background(), testIdentity())
	require.NoError(t, err)

	assert.Equal(t, first.Ref.ID, second.Ref.ID)
	assert.Empty(t, store.CreateCalls)
	// Memoized: the second resolve never reaches the store.
	assert.Len(t, store.FindCalls, 1)
}

func TestResolveHeaderFailureIsSoft(t *testing.T) {
	store := NewMockStore()
	headerErr := errors.New("header write exploded")
	store.WriteHeaderFunc = func(_ context.Context, _, _ string) error {
		return headerErr
	}

	resolver, err := NewResolver(testConfig(), store.Factory())
	require.NoError(t, err)

	resolution, err := resolver.Resolve(context.Background(), testIdentity())
	require.NoError(t, err, "header failure must not fail resolution")
	assert.Equal(t, "mock-sheet-id", resolution.Ref.ID)
	assert.ErrorIs(t, resolution.HeaderWarning, headerErr)
}

func TestResolveFailsWhenFindAndCreateFail(t *testing.T) {
	store := NewMockStore()
	store.FindFunc = func(_ context.Context, _ string) (*model.SpreadsheetRef, error) {
		return nil, errors.New("drive down")
	}
	store.CreateFunc = func(_ context.Context, _, _ string) (*model.SpreadsheetRef, error) {
		return nil, errors.New("sheets down")
	}

	resolver, err := NewResolver(testConfig(), store.Factory())
	require.NoError(t, err)

	_, err = resolver.Resolve(context.Background(), testIdentity())
	assert.ErrorIs(t, err, common.ErrResolutionFailed)
}

func TestResolveRequiresIdentity(t *testing.T) {
	resolver, err := NewResolver(testConfig(), NewMockStore().Factory())
	require.NoError(t, err)

	tests := []struct {
		name     string
		identity Identity
	}{
		{name: "missing token", identity: Identity{UserName: "A"}},
		{name: "missing name", identity: Identity{AccessToken: "t"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolver.Resolve(context.Background(), tt.identity)
			assert.ErrorIs(t, err, common.ErrResolutionFailed)
		})
	}
}

func TestAppenderAppendsOnce(t *testing.T) {
	store := NewMockStore()
	appender, err := NewAppender(testConfig(), store.Factory())
	require.NoError(t, err)

	row := []string{"2026-08-30", "500", "food", "Spent 500 on groceries", "cash"}
	require.NoError(t, appender.Append(context.Background(), "t", "sheet-1", row))

	require.Len(t, store.AppendCalls, 1)
	assert.Equal(t, "sheet-1", store.AppendCalls[0].SpreadsheetID)
	assert.Equal(t, "Expenses!A:E", store.AppendCalls[0].RangeSelector)
	assert.Equal(t, row, store.AppendCalls[0].Row)
}

func TestAppenderDoesNotRetryFailures(t *testing.T) {
	store := NewMockStore()
	store.AppendRowFunc = func(_ context.Context, _, _ string, _ []string) error {
		return errors.New("network error")
	}

	appender, err := NewAppender(testConfig(), store.Factory())
	require.NoError(t, err)

	err = appender.Append(context.Background(), "t", "sheet-1", []string{"a", "b", "c", "d", "e"})
	assert.ErrorIs(t, err, common.ErrCommitFailed)
	assert.Equal(t, 1, store.AppendCallCount(), "a failed append must not be retried")
}

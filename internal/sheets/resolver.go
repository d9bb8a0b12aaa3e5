package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pmehta/expenso/internal/common"
	"github.com/pmehta/expenso/internal/model"
)

// Identity carries what the resolver needs to act on a user's behalf.
type Identity struct {
	AccessToken string
	UserName    string
}

// Resolution is the outcome of a find-or-create. HeaderWarning is non-nil
// when the sheet was created but the header row could not be written; the
// reference is still valid in that case.
type Resolution struct {
	Ref           *model.SpreadsheetRef
	HeaderWarning error
	Created       bool
}

// Resolver maps a user identity to their backing spreadsheet using a
// find-or-create protocol. Find runs before create so repeated sessions
// reuse the same sheet instead of piling up duplicates.
//
// The lookup-then-create sequence is not atomic against the backing store:
// two concurrent resolutions for the same identity can both miss the find
// and create two spreadsheets. Accepted as a rare, low-cost duplicate
// rather than adding distributed locking.
type Resolver struct {
	newStore StoreFactory
	cache    map[string]*model.SpreadsheetRef
	config   Config
	mu       sync.Mutex
}

// NewResolver creates a resolver backed by the given store factory.
func NewResolver(config Config, factory StoreFactory) (*Resolver, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if factory == nil {
		return nil, fmt.Errorf("store factory is required")
	}

	return &Resolver{
		config:   config,
		newStore: factory,
		cache:    make(map[string]*model.SpreadsheetRef),
	}, nil
}

// Resolve finds or creates the user's expense spreadsheet. Successful
// resolutions are memoized per (userName, sheet name) for the resolver's
// lifetime, so a second call returns the cached reference without touching
// the store.
func (r *Resolver) Resolve(ctx context.Context, identity Identity) (Resolution, error) {
	if identity.AccessToken == "" {
		return Resolution{}, fmt.Errorf("%w: missing access token", common.ErrResolutionFailed)
	}
	if identity.UserName == "" {
		return Resolution{}, fmt.Errorf("%w: missing user name", common.ErrResolutionFailed)
	}

	targetName := r.config.TargetName(identity.UserName)
	cacheKey := identity.UserName + "\x00" + r.config.SheetName

	r.mu.Lock()
	if cached, ok := r.cache[cacheKey]; ok {
		r.mu.Unlock()
		return Resolution{Ref: cached}, nil
	}
	r.mu.Unlock()

	store, err := r.newStore(ctx, identity.AccessToken)
	if err != nil {
		return Resolution{}, fmt.Errorf("%w: %v", common.ErrResolutionFailed, err)
	}

	// The lookup is read-only, so transient failures are safe to retry.
	var found *model.SpreadsheetRef
	findErr := common.WithRetry(ctx, func() error {
		var opErr error
		found, opErr = store.FindSpreadsheet(ctx, targetName)
		return opErr
	}, common.RetryOptions{
		MaxAttempts:  r.config.RetryAttempts,
		InitialDelay: r.config.RetryDelay,
	})

	if findErr == nil && found != nil {
		slog.Info("found existing spreadsheet", "name", targetName, "id", found.ID)
		r.remember(cacheKey, found)
		return Resolution{Ref: found}, nil
	}

	if findErr != nil {
		slog.Warn("spreadsheet lookup failed, attempting create", "name", targetName, "error", findErr)
	}

	created, createErr := store.CreateSpreadsheet(ctx, targetName, r.config.WorksheetTitle)
	if createErr != nil {
		if findErr != nil {
			return Resolution{}, fmt.Errorf("%w: find: %v; create: %v", common.ErrResolutionFailed, findErr, createErr)
		}
		return Resolution{}, fmt.Errorf("%w: %v", common.ErrResolutionFailed, createErr)
	}

	slog.Info("created new spreadsheet", "name", targetName, "id", created.ID, "url", created.URL)

	resolution := Resolution{Ref: created, Created: true}
	if headerErr := store.WriteHeader(ctx, created.ID, r.config.WorksheetTitle); headerErr != nil {
		// The sheet itself is usable; the caller decides how to surface this.
		slog.Warn("header row write failed", "id", created.ID, "error", headerErr)
		resolution.HeaderWarning = headerErr
	}

	r.remember(cacheKey, created)
	return resolution, nil
}

func (r *Resolver) remember(key string, ref *model.SpreadsheetRef) {
	r.mu.Lock()
	r.cache[key] = ref
	r.mu.Unlock()
}

// Appender writes confirmed expense rows to a resolved spreadsheet.
type Appender struct {
	newStore StoreFactory
	config   Config
}

// NewAppender creates an appender backed by the given store factory.
func NewAppender(config Config, factory StoreFactory) (*Appender, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if factory == nil {
		return nil, fmt.Errorf("store factory is required")
	}
	return &Appender{config: config, newStore: factory}, nil
}

// Append writes one expense row. The append is attempted exactly once: a
// failed commit is surfaced to the user instead of silently retried, since
// an ambiguous retry could append the same expense twice.
func (a *Appender) Append(ctx context.Context, accessToken, spreadsheetID string, row []string) error {
	store, err := a.newStore(ctx, accessToken)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrCommitFailed, err)
	}

	if err := store.AppendRow(ctx, spreadsheetID, a.config.AppendRange(), row); err != nil {
		return fmt.Errorf("%w: %v", common.ErrCommitFailed, err)
	}
	return nil
}

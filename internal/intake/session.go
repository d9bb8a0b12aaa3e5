package intake

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/pmehta/expenso/internal/common"
	"github.com/pmehta/expenso/internal/model"
)

// State names a stage of the intake pipeline.
type State int

const (
	// StateIdle means no candidate is in flight.
	StateIdle State = iota
	// StateParsing means a submission is being parsed.
	StateParsing
	// StateAwaitingConfirmation means a candidate is pending user review.
	StateAwaitingConfirmation
	// StateCommitting means a confirmed candidate is being appended.
	StateCommitting
)

// String returns a human-readable state label.
func (s State) String() string {
	switch s {
	case StateParsing:
		return "parsing"
	case StateAwaitingConfirmation:
		return "awaiting_confirmation"
	case StateCommitting:
		return "committing"
	default:
		return "idle"
	}
}

// User-facing pipeline messages.
const (
	msgRetryPrompt = `I couldn't understand the expense amount. Please try again with format like "Spent 500 on groceries" or "Paid 200 for fuel"`
	msgCommitError = "Sorry, there was an error adding your expense. Please try again."
	msgCancelled   = "Expense cancelled. Feel free to add another expense."
)

// Session is the explicit context object for one user's intake pipeline.
// It holds the single pending candidate and guarantees at most one commit
// in flight. All methods are safe for concurrent use: the host is expected
// to call sequentially, but overlapping async completions must not corrupt
// the pending slot or double-commit.
type Session struct {
	parser   Parser
	appender Appender
	profiles ProfileReader
	notifier Notifier

	id      string
	mu      sync.Mutex
	state   State
	pending *model.Candidate
}

// NewSession creates an idle intake session.
func NewSession(parser Parser, appender Appender, profiles ProfileReader, notifier Notifier) *Session {
	if notifier == nil {
		notifier = NotifierFunc(func(string) {})
	}
	return &Session{
		id:       uuid.NewString(),
		parser:   parser,
		appender: appender,
		profiles: profiles,
		notifier: notifier,
		state:    StateIdle,
	}
}

// ID returns the session identifier used in diagnostics.
func (s *Session) ID() string {
	return s.id
}

// State returns the current pipeline state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Pending returns a copy of the pending candidate, or nil when none is
// awaiting confirmation.
func (s *Session) Pending() *model.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return nil
	}
	copied := *s.pending
	return &copied
}

// Submit parses a user text submission into a pending candidate. Blank
// input is ignored. While a previous cycle is still in flight the
// submission is rejected with ErrPipelineBusy rather than corrupting the
// pending candidate. A parse that detects no positive amount returns the
// pipeline to idle and prompts the user to retry.
func (s *Session) Submit(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	s.mu.Lock()
	if s.state != StateIdle {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w: pipeline is %s", common.ErrPipelineBusy, state)
	}
	s.state = StateParsing
	s.mu.Unlock()

	candidate := s.parser.Parse(ctx, text)

	s.mu.Lock()
	defer s.mu.Unlock()

	if candidate.Amount <= 0 {
		s.state = StateIdle
		s.pending = nil
		s.notifier.Notify(msgRetryPrompt)
		return fmt.Errorf("%w: %q", common.ErrNoAmount, text)
	}

	s.pending = &candidate
	s.state = StateAwaitingConfirmation

	slog.Debug("candidate pending confirmation",
		"session_id", s.id,
		"amount", candidate.Amount,
		"category", candidate.Category)
	return nil
}

// Confirm commits the pending candidate. Only one commit can be in flight:
// a second Confirm while committing is ignored with ErrNothingPending. The
// candidate is snapshotted before the append so later mutation of the
// pending slot cannot alter the in-flight write. Whatever the outcome, the
// pipeline returns to idle with the candidate cleared, so the host's
// interactive controls always come back.
func (s *Session) Confirm(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateAwaitingConfirmation || s.pending == nil {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w: pipeline is %s", common.ErrNothingPending, state)
	}
	snapshot := *s.pending
	s.state = StateCommitting
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.pending = nil
		s.state = StateIdle
		s.mu.Unlock()
	}()

	return s.commit(ctx, snapshot)
}

// commit validates and appends one snapshotted candidate.
func (s *Session) commit(ctx context.Context, snapshot model.Candidate) error {
	if err := snapshot.Validate(); err != nil {
		s.notifier.Notify(msgCommitError)
		return fmt.Errorf("%w: %v", common.ErrCommitFailed, err)
	}

	profile, err := s.profiles.Load(ctx)
	if err != nil {
		s.notifier.Notify(msgCommitError)
		return fmt.Errorf("%w: %v", common.ErrCommitFailed, err)
	}

	// Defense in depth: never attempt the network call with an
	// incomplete profile.
	if profile == nil || profile.SheetID == "" || profile.AccessToken == "" {
		s.notifier.Notify(msgCommitError)
		return fmt.Errorf("%w: missing sheet or access token", common.ErrProfileNotReady)
	}

	if err := s.appender.Append(ctx, profile.AccessToken, profile.SheetID, snapshot.Row()); err != nil {
		common.LogError(err, "expense commit failed", common.Fields{
			"session_id": s.id,
			"sheet_id":   profile.SheetID,
		})
		s.notifier.Notify(msgCommitError)
		return fmt.Errorf("%w: %v", common.ErrCommitFailed, err)
	}

	slog.Info("expense committed",
		"session_id", s.id,
		"amount", snapshot.Amount,
		"category", snapshot.Category)
	s.notifier.Notify(fmt.Sprintf("✅ Expense of ₹%s for %s has been added to your sheet!",
		formatAmount(snapshot.Amount), snapshot.Category))
	return nil
}

// Cancel discards the pending candidate. Once committing has begun the
// commit runs to completion and cannot be cancelled.
func (s *Session) Cancel(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateCommitting:
		return fmt.Errorf("%w: commit already in progress", common.ErrPipelineBusy)
	case StateAwaitingConfirmation:
		s.pending = nil
		s.state = StateIdle
		s.notifier.Notify(msgCancelled)
		return nil
	default:
		return fmt.Errorf("%w: pipeline is %s", common.ErrNothingPending, s.state)
	}
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

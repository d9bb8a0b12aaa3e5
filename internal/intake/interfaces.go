// Package intake implements the expense parse/confirm/commit pipeline.
package intake

import (
	"context"

	"github.com/pmehta/expenso/internal/model"
)

// Parser turns raw user text into a candidate. Implementations must be
// total: any input yields a structurally valid candidate, with amount 0
// meaning "unparseable".
type Parser interface {
	Parse(ctx context.Context, raw string) model.Candidate
}

// Appender writes a confirmed expense row to the user's spreadsheet.
type Appender interface {
	Append(ctx context.Context, accessToken, spreadsheetID string, row []string) error
}

// ProfileReader supplies the persisted profile. The pipeline only reads
// it; auth and resolution own the writes.
type ProfileReader interface {
	Load(ctx context.Context) (*model.UserProfile, error)
}

// Notifier receives single-line user-facing messages from the pipeline.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(message string)

// Notify implements the Notifier interface.
func (f NotifierFunc) Notify(message string) {
	f(message)
}

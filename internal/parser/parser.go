// Package parser turns free-text expense descriptions into structured
// candidates. A remote classifier is tried first; any failure falls back to
// a deterministic local heuristic, so parsing is total and never blocks on
// an unreachable third party.
package parser

import (
	"context"
	"log/slog"

	"github.com/pmehta/expenso/internal/model"
)

// Classifier defines the interface for remote expense classification.
type Classifier interface {
	Classify(ctx context.Context, text string) (model.Candidate, error)
}

// Parser converts raw user input into expense candidates.
type Parser struct {
	classifier Classifier
}

// New creates a parser. A nil classifier is allowed and means the local
// heuristic is always used.
func New(classifier Classifier) *Parser {
	return &Parser{classifier: classifier}
}

// Parse returns a structurally valid candidate for any input, including the
// empty string. An amount of 0 signals that no amount could be detected.
// Remote results are used verbatim when the call succeeds; every remote
// failure is recovered locally and never surfaced to the caller.
func (p *Parser) Parse(ctx context.Context, raw string) model.Candidate {
	if p.classifier != nil {
		candidate, err := p.classifier.Classify(ctx, raw)
		if err == nil {
			return candidate
		}
		slog.Debug("remote classifier unavailable, using local heuristic", "error", err)
	}

	return parseLocal(raw)
}

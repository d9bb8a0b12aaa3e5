package main

import (
	"log/slog"

	"github.com/pmehta/expenso/internal/config"
	"github.com/pmehta/expenso/internal/parser"
	"github.com/pmehta/expenso/internal/storage"
)

// getProfileStore opens the profile database and runs pending migrations.
// The returned cleanup closes the store.
func getProfileStore() (*storage.ProfileStore, func(), error) {
	store, err := storage.NewProfileStore(config.DatabasePath())
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("failed to close profile store", "error", closeErr)
		}
	}

	return store, cleanup, nil
}

// buildParser assembles the expense parser. Without an API key the parser
// still works via the keyword fallback.
func buildParser() *parser.Parser {
	cfg := config.LoadParserConfig()
	if cfg.APIKey == "" {
		slog.Debug("no OpenAI key configured, using fallback parser only")
		return parser.New(nil)
	}

	classifier, err := parser.NewOpenAIClassifier(cfg)
	if err != nil {
		slog.Warn("remote classifier unavailable, using fallback parser", "error", err)
		return parser.New(nil)
	}
	return parser.New(classifier)
}

// Package sheets provides the Google Drive/Sheets backed spreadsheet store
// and the find-or-create resolution protocol that maps a user to their
// expense sheet.
package sheets

import (
	"fmt"
	"time"
)

// Config holds the configuration for spreadsheet resolution and appends.
type Config struct {
	// SheetName is the base spreadsheet name; the user's name is appended
	// as " - <name>" to form the canonical target.
	SheetName string
	// WorksheetTitle is the tab that holds expense rows.
	WorksheetTitle string
	RetryAttempts  int
	RetryDelay     time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SheetName:      "Personal Expenses",
		WorksheetTitle: "Expenses",
		RetryAttempts:  3,
		RetryDelay:     time.Second,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.SheetName == "" {
		return fmt.Errorf("sheet name must not be empty")
	}
	if c.WorksheetTitle == "" {
		return fmt.Errorf("worksheet title must not be empty")
	}
	if c.RetryAttempts < 0 {
		return fmt.Errorf("retry attempts cannot be negative")
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("retry delay cannot be negative")
	}
	return nil
}

// TargetName computes the canonical spreadsheet name for a user.
func (c *Config) TargetName(userName string) string {
	return fmt.Sprintf("%s - %s", c.SheetName, userName)
}

// AppendRange returns the A1 range selector used for expense appends.
func (c *Config) AppendRange() string {
	return fmt.Sprintf("%s!A:E", c.WorksheetTitle)
}

// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"strings"
)

// Completeness classifies how far a profile has progressed through onboarding.
type Completeness int

const (
	// ProfileEmpty means no usable profile exists (no name recorded).
	ProfileEmpty Completeness = iota
	// ProfilePartial means the user has a name but no linked Google account.
	ProfilePartial
	// ProfileComplete means name, token, email and sheet are all present.
	ProfileComplete
)

// String returns a human-readable completeness label.
func (c Completeness) String() string {
	switch c {
	case ProfilePartial:
		return "partial"
	case ProfileComplete:
		return "complete"
	default:
		return "empty"
	}
}

// UserProfile is the single persisted record describing one user's setup
// progress. Optional fields stay empty until the corresponding onboarding
// step completes. The access token is short-lived and never refreshed here;
// expiry forces re-authentication.
type UserProfile struct {
	Name        string `json:"name"`
	AccessToken string `json:"accessToken,omitempty"`
	Email       string `json:"email,omitempty"`
	GoogleID    string `json:"googleId,omitempty"`
	SheetID     string `json:"sheetId,omitempty"`
	SheetURL    string `json:"sheetUrl,omitempty"`
}

// HasName reports whether onboarding step one has been completed.
func (p *UserProfile) HasName() bool {
	return p != nil && strings.TrimSpace(p.Name) != ""
}

// Completeness derives the profile's completeness class. A profile that has
// a token but no resolved sheet is still partial: the auth flow must finish
// sheet resolution before the profile counts as complete.
func (p *UserProfile) Completeness() Completeness {
	if !p.HasName() {
		return ProfileEmpty
	}
	if p.AccessToken != "" && p.Email != "" && p.SheetID != "" {
		return ProfileComplete
	}
	return ProfilePartial
}

// Validate performs the structural checks applied to persisted profiles.
// A record that deserializes but fails these checks is treated as corrupt
// and cleared by the caller.
func (p *UserProfile) Validate() error {
	if p == nil {
		return fmt.Errorf("profile is nil")
	}
	if !p.HasName() {
		if p.AccessToken != "" || p.Email != "" || p.SheetID != "" {
			return fmt.Errorf("profile has credentials but no name")
		}
		return fmt.Errorf("profile has no name")
	}
	return nil
}

// SpreadsheetRef identifies a resolved backing spreadsheet.
type SpreadsheetRef struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

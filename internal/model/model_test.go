package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfileCompleteness(t *testing.T) {
	tests := []struct {
		name    string
		profile *UserProfile
		want    Completeness
	}{
		{name: "nil", profile: nil, want: ProfileEmpty},
		{name: "zero value", profile: &UserProfile{}, want: ProfileEmpty},
		{name: "whitespace name", profile: &UserProfile{Name: "  "}, want: ProfileEmpty},
		{name: "name only", profile: &UserProfile{Name: "Priya"}, want: ProfilePartial},
		{
			name:    "token without sheet",
			profile: &UserProfile{Name: "Priya", AccessToken: "t", Email: "p@example.com"},
			want:    ProfilePartial,
		},
		{
			name:    "all fields",
			profile: &UserProfile{Name: "Priya", AccessToken: "t", Email: "p@example.com", SheetID: "s"},
			want:    ProfileComplete,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.profile.Completeness())
		})
	}
}

func TestProfileValidate(t *testing.T) {
	var nilProfile *UserProfile
	assert.Error(t, nilProfile.Validate())
	assert.Error(t, (&UserProfile{}).Validate())
	assert.Error(t, (&UserProfile{AccessToken: "t", SheetID: "s"}).Validate())
	assert.NoError(t, (&UserProfile{Name: "Priya"}).Validate())
}

func TestCandidateValidate(t *testing.T) {
	tests := []struct {
		name      string
		candidate *Candidate
		wantErr   bool
	}{
		{name: "nil", candidate: nil, wantErr: true},
		{name: "zero amount", candidate: &Candidate{}, wantErr: true},
		{name: "negative", candidate: &Candidate{Amount: -5}, wantErr: true},
		{name: "nan", candidate: &Candidate{Amount: math.NaN()}, wantErr: true},
		{name: "inf", candidate: &Candidate{Amount: math.Inf(1)}, wantErr: true},
		{name: "positive", candidate: &Candidate{Amount: 500}, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.candidate.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCandidateRow(t *testing.T) {
	c := Candidate{
		Amount:      120.5,
		Category:    "transport",
		Description: "Paid 120.50 for fuel",
		Date:        "2026-08-30",
		PaymentMode: "upi",
	}

	assert.Equal(t,
		[]string{"2026-08-30", "120.5", "transport", "Paid 120.50 for fuel", "upi"},
		c.Row())
}

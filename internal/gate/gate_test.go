package gate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmehta/expenso/internal/model"
)

func emptyProfile() *model.UserProfile {
	return nil
}

func partialProfile() *model.UserProfile {
	return &model.UserProfile{Name: "A"}
}

func completeProfile() *model.UserProfile {
	return &model.UserProfile{
		Name:        "A",
		AccessToken: "t",
		Email:       "a@example.com",
		SheetID:     "sheet-1",
	}
}

func TestRouteToScreen(t *testing.T) {
	tests := []struct {
		name      string
		profile   *model.UserProfile
		requested model.Screen
		want      model.Screen
	}{
		// Onboarding is always reachable.
		{name: "empty requests onboarding", profile: emptyProfile(), requested: model.ScreenOnboarding, want: model.ScreenOnboarding},
		{name: "partial requests onboarding", profile: partialProfile(), requested: model.ScreenOnboarding, want: model.ScreenOnboarding},
		{name: "complete requests onboarding", profile: completeProfile(), requested: model.ScreenOnboarding, want: model.ScreenOnboarding},

		// Auth needs a name.
		{name: "empty requests auth", profile: emptyProfile(), requested: model.ScreenAuth, want: model.ScreenOnboarding},
		{name: "partial requests auth", profile: partialProfile(), requested: model.ScreenAuth, want: model.ScreenAuth},
		{name: "complete requests auth", profile: completeProfile(), requested: model.ScreenAuth, want: model.ScreenAuth},

		// Chat needs a complete profile; denials redirect to the
		// canonical screen, never to Chat.
		{name: "empty requests chat", profile: emptyProfile(), requested: model.ScreenChat, want: model.ScreenOnboarding},
		{name: "partial requests chat", profile: partialProfile(), requested: model.ScreenChat, want: model.ScreenAuth},
		{name: "complete requests chat", profile: completeProfile(), requested: model.ScreenChat, want: model.ScreenChat},

		// A token without a resolved sheet is still partial.
		{
			name:      "token but no sheet requests chat",
			profile:   &model.UserProfile{Name: "A", AccessToken: "t", Email: "a@example.com"},
			requested: model.ScreenChat,
			want:      model.ScreenAuth,
		},

		// Blank names don't count.
		{
			name:      "whitespace name requests auth",
			profile:   &model.UserProfile{Name: "   "},
			requested: model.ScreenAuth,
			want:      model.ScreenOnboarding,
		},

		// Unknown screens fail closed.
		{name: "unknown screen", profile: completeProfile(), requested: model.Screen("settings"), want: model.ScreenChat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RouteToScreen(tt.requested, tt.profile))
		})
	}
}

func TestCanonicalScreen(t *testing.T) {
	assert.Equal(t, model.ScreenOnboarding, CanonicalScreen(emptyProfile()))
	assert.Equal(t, model.ScreenAuth, CanonicalScreen(partialProfile()))
	assert.Equal(t, model.ScreenChat, CanonicalScreen(completeProfile()))
}

func TestEnforceRevertsUnauthorizedScreen(t *testing.T) {
	g := New(nil)

	screen, reverted := g.Enforce(model.ScreenChat, partialProfile())
	assert.True(t, reverted)
	assert.Equal(t, model.ScreenAuth, screen)

	screen, reverted = g.Enforce(model.ScreenChat, completeProfile())
	assert.False(t, reverted)
	assert.Equal(t, model.ScreenChat, screen)
}

type stubStore struct {
	profile *model.UserProfile
	loadErr error
	cleared bool
}

func (s *stubStore) Load(_ context.Context) (*model.UserProfile, error) {
	return s.profile, s.loadErr
}

func (s *stubStore) Clear(_ context.Context) error {
	s.cleared = true
	s.profile = nil
	return nil
}

func TestGateRouteUsesPersistedProfile(t *testing.T) {
	store := &stubStore{profile: partialProfile()}
	g := New(store)

	screen, profile, err := g.Route(context.Background(), model.ScreenChat)
	require.NoError(t, err)
	assert.Equal(t, model.ScreenAuth, screen)
	assert.Equal(t, store.profile, profile)
}

func TestGateRouteMissingProfile(t *testing.T) {
	g := New(&stubStore{})

	screen, profile, err := g.Route(context.Background(), model.ScreenChat)
	require.NoError(t, err)
	assert.Nil(t, profile)
	assert.Equal(t, model.ScreenOnboarding, screen)
}

func TestGateRouteStorageError(t *testing.T) {
	g := New(&stubStore{loadErr: errors.New("disk gone")})

	screen, _, err := g.Route(context.Background(), model.ScreenChat)
	assert.Error(t, err)
	assert.Equal(t, model.ScreenOnboarding, screen)
}

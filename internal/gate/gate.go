// Package gate implements the screen-access state machine over the
// persisted user profile. Screens are gated strictly by profile
// completeness, and every denied request redirects silently to the
// canonical screen for the current state: the gate fails closed to the
// least-privileged screen instead of showing errors.
package gate

import (
	"context"
	"log/slog"

	"github.com/pmehta/expenso/internal/model"
)

// ProfileStore is the slice of the persistence layer the gate needs.
type ProfileStore interface {
	Load(ctx context.Context) (*model.UserProfile, error)
	Clear(ctx context.Context) error
}

// CanonicalScreen returns the screen implied by the profile's completeness
// class: Onboarding when empty, Auth when partial, Chat when complete.
func CanonicalScreen(profile *model.UserProfile) model.Screen {
	switch profile.Completeness() {
	case model.ProfileComplete:
		return model.ScreenChat
	case model.ProfilePartial:
		return model.ScreenAuth
	default:
		return model.ScreenOnboarding
	}
}

// Allowed reports whether the requested screen is reachable for the
// profile. Onboarding is always reachable; Auth needs a name; Chat needs a
// complete profile. Unknown screens are never reachable.
func Allowed(requested model.Screen, profile *model.UserProfile) bool {
	switch requested {
	case model.ScreenOnboarding:
		return true
	case model.ScreenAuth:
		return profile.HasName()
	case model.ScreenChat:
		return profile.Completeness() == model.ProfileComplete
	default:
		return false
	}
}

// RouteToScreen resolves a screen request against the profile. Denied or
// unknown requests are redirected, without error, to the canonical screen.
func RouteToScreen(requested model.Screen, profile *model.UserProfile) model.Screen {
	if Allowed(requested, profile) {
		return requested
	}

	canonical := CanonicalScreen(profile)
	slog.Warn("screen access denied, redirecting",
		"requested", requested,
		"redirected_to", canonical,
		"completeness", profile.Completeness().String())
	return canonical
}

// Gate binds the routing rules to a profile store.
type Gate struct {
	store ProfileStore
}

// New creates a gate over the given profile store.
func New(store ProfileStore) *Gate {
	return &Gate{store: store}
}

// Route loads the persisted profile and resolves the screen request
// against it. The store already treats corrupt records as absent, so a
// corrupt profile routes to Onboarding here. The loaded profile is
// returned so callers don't re-read it.
func (g *Gate) Route(ctx context.Context, requested model.Screen) (model.Screen, *model.UserProfile, error) {
	profile, err := g.store.Load(ctx)
	if err != nil {
		return model.ScreenOnboarding, nil, err
	}

	return RouteToScreen(requested, profile), profile, nil
}

// Enforce reverts an externally forced screen. If the active screen is not
// reachable for the profile, the corrected canonical screen is returned
// along with reverted=true. Host surfaces call this whenever they observe
// a screen change they did not initiate.
func (g *Gate) Enforce(active model.Screen, profile *model.UserProfile) (model.Screen, bool) {
	if Allowed(active, profile) {
		return active, false
	}

	canonical := CanonicalScreen(profile)
	slog.Warn("blocked unauthorized screen activation",
		"screen", active,
		"redirected_to", canonical)
	return canonical, true
}

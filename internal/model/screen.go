package model

// Screen names one of the three user-facing surfaces. Which screens are
// reachable is determined solely by profile completeness.
type Screen string

const (
	// ScreenOnboarding collects the user's name. Always reachable.
	ScreenOnboarding Screen = "onboarding"
	// ScreenAuth runs Google sign-in and sheet resolution. Requires a name.
	ScreenAuth Screen = "auth"
	// ScreenChat is the expense intake surface. Requires a complete profile.
	ScreenChat Screen = "chat"
)

// Valid reports whether s names a known screen.
func (s Screen) Valid() bool {
	switch s {
	case ScreenOnboarding, ScreenAuth, ScreenChat:
		return true
	}
	return false
}

// Package guard decides whether a protected view may render for the current
// session. Decisions are never cached; the session can change between
// navigations.
package guard

import "github.com/shopforge/storefront/internal/session"

// Decision is the outcome of an access check.
type Decision int

const (
	// Render allows the requested view.
	Render Decision = iota
	// RedirectToLogin sends an unauthenticated user to the login entry point.
	RedirectToLogin
	// RedirectToHome sends an authenticated but under-privileged user to the
	// default landing view. They are logged in, just not allowed here.
	RedirectToHome
)

// String returns a label for logging.
func (d Decision) String() string {
	switch d {
	case Render:
		return "render"
	case RedirectToLogin:
		return "redirect_login"
	case RedirectToHome:
		return "redirect_home"
	default:
		return "unknown"
	}
}

// Guard evaluates access against the session store.
type Guard struct {
	store *session.Store
}

// New creates a guard over the given store.
func New(store *session.Store) *Guard {
	return &Guard{store: store}
}

// Decide evaluates access for a view. requiredRole may be empty, in which
// case any authenticated session renders.
func (g *Guard) Decide(requiredRole string) Decision {
	if !g.store.IsAuthenticated() {
		return RedirectToLogin
	}
	if requiredRole != "" && !g.store.HasRole(requiredRole) {
		return RedirectToHome
	}
	return Render
}

package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopforge/storefront/internal/session"
)

func authedStore(t *testing.T, roles ...string) *session.Store {
	t.Helper()
	st := session.NewStore(nil)
	require.NoError(t, st.Set(session.Session{UserID: "u-1", Roles: roles, Token: "tok"}))
	return st
}

func TestDecide_UnauthenticatedAlwaysRedirectsToLogin(t *testing.T) {
	g := New(session.NewStore(nil))
	assert.Equal(t, RedirectToLogin, g.Decide(""))
	assert.Equal(t, RedirectToLogin, g.Decide("admin"))
}

func TestDecide_AuthenticatedNoRoleRequired(t *testing.T) {
	g := New(authedStore(t, "customer"))
	assert.Equal(t, Render, g.Decide(""))
}

func TestDecide_RoleMembership(t *testing.T) {
	g := New(authedStore(t, "customer", "admin"))
	assert.Equal(t, Render, g.Decide("admin"))

	underprivileged := New(authedStore(t, "customer"))
	assert.Equal(t, RedirectToHome, underprivileged.Decide("admin"),
		"an authenticated user lacking the role goes home, not to login")
}

func TestDecide_ReflectsCurrentStoreState(t *testing.T) {
	st := authedStore(t, "customer")
	g := New(st)
	require.Equal(t, Render, g.Decide(""))

	st.Clear()
	assert.Equal(t, RedirectToLogin, g.Decide(""), "decisions are not cached across navigations")
}

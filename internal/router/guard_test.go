package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtbank/teller/internal/bankapi"
	"github.com/dtbank/teller/internal/session"
)

func TestGuardAdmitsPublicRoutesWithoutSession(t *testing.T) {
	table := DefaultTable()
	guard, err := NewGuard(table, session.NewMemoryStore())
	require.NoError(t, err)

	for _, path := range []string{"/login", "/users/create"} {
		route, ok := table.LookupPath(path)
		require.True(t, ok, path)

		decision := guard.Resolve(route)
		assert.False(t, decision.Redirected, path)
		assert.Equal(t, route, decision.Route, path)
	}
}

func TestGuardRedirectsProtectedRoutesWhenAnonymous(t *testing.T) {
	table := DefaultTable()
	guard, err := NewGuard(table, session.NewMemoryStore())
	require.NoError(t, err)

	for _, route := range table.Routes {
		if table.IsPublic(route.Path) {
			continue
		}
		decision := guard.Resolve(route)
		assert.True(t, decision.Redirected, route.Path)
		assert.Equal(t, "/login", decision.Route.Path, route.Path)
	}
}

func TestGuardAdmitsProtectedRoutesWithSession(t *testing.T) {
	table := DefaultTable()
	store := session.NewMemoryStore()
	require.NoError(t, store.Set(&bankapi.User{ID: 1, Username: "alice"}))

	guard, err := NewGuard(table, store)
	require.NoError(t, err)

	accounts, ok := table.Lookup("accounts")
	require.True(t, ok)

	decision := guard.Resolve(accounts)
	assert.False(t, decision.Redirected)
	assert.Equal(t, accounts, decision.Route)
}

func TestGuardReevaluatesEveryNavigation(t *testing.T) {
	table := DefaultTable()
	store := session.NewMemoryStore()
	guard, err := NewGuard(table, store)
	require.NoError(t, err)

	accounts, ok := table.Lookup("accounts")
	require.True(t, ok)

	assert.True(t, guard.Resolve(accounts).Redirected)

	require.NoError(t, store.Set(&bankapi.User{ID: 1, Username: "alice"}))
	assert.False(t, guard.Resolve(accounts).Redirected, "login takes effect on the next navigation")

	require.NoError(t, store.Clear())
	assert.True(t, guard.Resolve(accounts).Redirected, "logout takes effect on the next navigation")
}

func TestNewGuardRequiresLoginRoute(t *testing.T) {
	table := &Table{
		Routes:      []Route{{Path: "/accounts", Name: "accounts"}},
		PublicPaths: []string{"/login"},
	}
	_, err := NewGuard(table, session.NewMemoryStore())
	assert.Error(t, err)
}

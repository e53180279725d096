package router

import (
	"fmt"

	"github.com/dtbank/teller/internal/bankapi"
)

// Guard gates navigation on the presence of a cached session. It holds no
// state of its own: authenticated-or-not is recomputed from the session
// store on every call, so a login or logout takes effect on the next
// navigation without any invalidation step.
type Guard struct {
	table *Table
	store bankapi.SessionStore
	login Route
}

// Decision is the outcome of resolving one navigation. Route is where the
// navigation actually goes; Redirected marks that the requested target was
// replaced by the login route.
type Decision struct {
	Route      Route
	Redirected bool
}

// NewGuard creates a guard over the given route table and session store.
func NewGuard(table *Table, store bankapi.SessionStore) (*Guard, error) {
	login, ok := table.LookupPath("/login")
	if !ok {
		return nil, fmt.Errorf("router: route table has no login route")
	}
	return &Guard{table: table, store: store, login: login}, nil
}

// Resolve evaluates a navigation to target. Public paths are admitted
// unconditionally; anything else requires a cached session and redirects to
// the login route without one. Resolve never fails: an absent session is a
// redirect decision, not an error.
func (g *Guard) Resolve(target Route) Decision {
	if g.table.IsPublic(target.Path) {
		return Decision{Route: target}
	}
	if g.store.Get() == nil {
		return Decision{Route: g.login, Redirected: true}
	}
	return Decision{Route: target}
}

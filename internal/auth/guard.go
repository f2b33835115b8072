package auth

import "github.com/eventsphere/client-core/internal/model"

// Routes guards redirect to on denial.
const (
	LoginRoute   = "/auth/login"
	CatalogRoute = "/events"
)

// Decision is a guard verdict: either navigation is allowed, or it is denied
// with a route the caller should redirect to.
type Decision struct {
	Allowed  bool
	Redirect string
}

// AccessGuard denies navigation to anonymous users.
//
// Guards read the most recently published session snapshot rather than doing
// a fresh fetch; NewSessionStore completes restoration before returning, so
// any guard built after it evaluates settled state.
type AccessGuard struct {
	sessions *SessionStore
}

// NewAccessGuard builds an AccessGuard over the session store.
func NewAccessGuard(sessions *SessionStore) *AccessGuard {
	return &AccessGuard{sessions: sessions}
}

// CanActivate grants navigation when a session exists; otherwise it denies
// and redirects to the login page.
func (g *AccessGuard) CanActivate() Decision {
	if !g.sessions.IsAuthenticated().Get() {
		return Decision{Redirect: LoginRoute}
	}
	return Decision{Allowed: true}
}

// RoleGuard restricts navigation to a set of roles attached to the route.
type RoleGuard struct {
	sessions *SessionStore
}

// NewRoleGuard builds a RoleGuard over the session store.
func NewRoleGuard(sessions *SessionStore) *RoleGuard {
	return &RoleGuard{sessions: sessions}
}

// CanActivate grants navigation when the current role is present in allowed.
// An empty allowed list means the route carries no restriction: any
// authenticated role passes. Denials redirect to the event catalog.
func (g *RoleGuard) CanActivate(allowed ...model.Role) Decision {
	role, ok := g.sessions.CurrentRole()
	if !ok {
		return Decision{Redirect: CatalogRoute}
	}
	if len(allowed) == 0 {
		return Decision{Allowed: true}
	}
	for _, r := range allowed {
		if r == role {
			return Decision{Allowed: true}
		}
	}
	return Decision{Redirect: CatalogRoute}
}

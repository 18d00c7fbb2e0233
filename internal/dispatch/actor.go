package dispatch

import "edubackend/internal/domain"

// Actor is the caller's identity for a single request. It is resolved
// once before dispatch, passed to the handler as an explicit parameter,
// and discarded when the request finishes. Handlers must check
// Authenticated before trusting UserID on public routes.
type Actor struct {
	UserID        domain.ID
	Authenticated bool
	Role          domain.Role
}

// Anonymous is the actor used when credential resolution was absent or
// failed on a public route.
var Anonymous = Actor{}

// Is reports whether the actor is authenticated with one of the given roles.
func (a Actor) Is(roles ...domain.Role) bool {
	if !a.Authenticated {
		return false
	}
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

package middleware

import (
	"net/http"
	"strings"

	"edubackend/internal/auth"
	"edubackend/internal/dispatch"
	"edubackend/internal/domain"
	"edubackend/internal/http/web"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// ResolveActor runs the credential resolver best-effort on every
// request. Failure is tolerated here: the request proceeds anonymous,
// and RequireAuth / RequireRoles decide whether that is fatal.
func ResolveActor(resolve auth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			if actor, err := resolve(strings.TrimSpace(token)); err == nil {
				c.Set(actorKey, actor)
			}
		}
		c.Next()
	}
}

// ActorFrom returns the resolved actor, or Anonymous when resolution
// was absent or failed.
func ActorFrom(c *gin.Context) dispatch.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(dispatch.Actor); ok {
			return actor
		}
	}
	return dispatch.Anonymous
}

// RequireAuth rejects unauthenticated requests with 401 before any
// handler runs.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ActorFrom(c).Authenticated {
			web.AbortFail(c, http.StatusUnauthorized, "authentication required")
			return
		}
		c.Next()
	}
}

// RequireRoles additionally checks role membership. Unauthenticated
// callers get 401, a role mismatch gets 403; either way the handler is
// never invoked.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := ActorFrom(c)
		if !actor.Authenticated {
			web.AbortFail(c, http.StatusUnauthorized, "authentication required")
			return
		}
		if !actor.Is(roles...) {
			web.AbortFail(c, http.StatusForbidden, "role not allowed")
			return
		}
		c.Next()
	}
}

package middleware

import (
	"strings"

	"qube-panel/internal/core/domain"
	"qube-panel/internal/core/services"
	"qube-panel/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SessionCookieName is the cookie carrying the opaque session id
const SessionCookieName = "qube_session"

// Locals keys set by SessionMiddleware
const (
	LocalsSessionID = "sessionID"
	LocalsIdentity  = "identity"
	LocalsToken     = "upstreamToken"
)

// ExtractSessionID reads the session id from the request: the session
// cookie first, then a bearer Authorization header for non-browser clients.
func ExtractSessionID(c *fiber.Ctx) string {
	if sid := c.Cookies(SessionCookieName); sid != "" {
		return sid
	}
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// SessionMiddleware resolves the request's session into an identity and
// upstream credential. Requests without a usable session are turned away
// with the same neutral 401 whether the session is missing, has no
// credential, or holds one the upstream rejects.
func SessionMiddleware(sessions *services.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := ExtractSessionID(c)
		if sessionID == "" {
			return response.Unauthorized(c, "Not authenticated")
		}

		identity, err := sessions.Identity(c.Context(), sessionID)
		if err != nil {
			return response.Unauthorized(c, "Not authenticated")
		}

		token, err := sessions.Token(c.Context(), sessionID)
		if err != nil {
			return response.Unauthorized(c, "Not authenticated")
		}

		c.Locals(LocalsSessionID, sessionID)
		c.Locals(LocalsIdentity, identity)
		c.Locals(LocalsToken, token)
		return c.Next()
	}
}

// RequireView gates a route group behind the role allow-list for one view.
// Must run after SessionMiddleware.
func RequireView(authz *services.AuthzService, view domain.View) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := c.Locals(LocalsIdentity).(*domain.Identity)
		if !ok {
			return response.Unauthorized(c, "Not authenticated")
		}
		if !authz.CanView(identity.Role, view) {
			return response.Forbidden(c, "You are not authorized to access this view")
		}
		return c.Next()
	}
}

// Identity returns the resolved identity set by SessionMiddleware.
func Identity(c *fiber.Ctx) *domain.Identity {
	identity, _ := c.Locals(LocalsIdentity).(*domain.Identity)
	return identity
}

// Token returns the upstream credential set by SessionMiddleware.
func Token(c *fiber.Ctx) string {
	token, _ := c.Locals(LocalsToken).(string)
	return token
}

// SessionID returns the session id set by SessionMiddleware.
func SessionID(c *fiber.Ctx) string {
	sessionID, _ := c.Locals(LocalsSessionID).(string)
	return sessionID
}

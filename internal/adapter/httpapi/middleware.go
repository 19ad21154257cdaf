package httpapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// userIDKey is the request local under which requireSession stores the
// resolved user id.
const userIDKey = "user_id"

// requireSession authenticates the request by resolving its bearer token to a
// user id. Requests without a valid session never reach favorites handlers.
func (s *Server) requireSession(c *fiber.Ctx) error {
	token := bearerToken(c.Get(fiber.HeaderAuthorization))
	if token == "" {
		return writeError(c, fiber.StatusUnauthorized, "missing bearer token")
	}

	userID, err := s.sessions.Resolve(c.Context(), token)
	if err != nil {
		s.logger.Error("session resolve failed", "error", err)
		return writeError(c, fiber.StatusInternalServerError, "session lookup failed")
	}
	if userID == "" {
		return writeError(c, fiber.StatusUnauthorized, "invalid or expired session")
	}

	c.Locals(userIDKey, userID)
	return c.Next()
}

// sessionUserID returns the user id stored by requireSession.
func sessionUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals(userIDKey).(string)
	return userID
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

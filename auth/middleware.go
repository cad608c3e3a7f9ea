package auth

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// DefaultContextKey is where the session middleware stores verified claims
const DefaultContextKey = "user"

// MiddlewareConfig configures the session middleware
type MiddlewareConfig struct {
	Verifier   TokenVerifier
	ContextKey string
	Logger     Logger
}

// NewSessionMiddleware returns the middleware protecting token-gated
// routes. A candidate token is looked up in the request body, the query
// string, and the Authorization header, in that order. Verified claims are
// stored in the request locals and mirrored into the request context.
func NewSessionMiddleware(cfg MiddlewareConfig) fiber.Handler {
	if cfg.Verifier == nil {
		panic("AUTH: session middleware configuration: Verifier is required.")
	}
	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultContextKey
	}
	if cfg.Logger == nil {
		cfg.Logger = defLogger{}
	}

	return func(c *fiber.Ctx) error {
		raw := ExtractRawToken(c)
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "No token provided",
			})
		}

		claims, err := cfg.Verifier.Validate(raw)
		if err != nil {
			cfg.Logger.Debug("invalid token", "error", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(cfg.ContextKey, claims)
		c.SetUserContext(WithClaimsContext(c.UserContext(), claims))

		return c.Next()
	}
}

// ExtractRawToken locates a candidate token. Body field takes precedence
// over the query parameter, which takes precedence over the Authorization
// header. The header value is split on whitespace and the final segment is
// used, so both "Bearer <token>" and a bare token are accepted.
func ExtractRawToken(c *fiber.Ctx) string {
	if body := c.Body(); len(body) > 0 {
		var payload struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(body, &payload); err == nil && payload.Token != "" {
			return payload.Token
		}
	}

	if token := c.Query("token"); token != "" {
		return token
	}

	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		fields := strings.Fields(header)
		if len(fields) > 0 {
			return strings.TrimSpace(fields[len(fields)-1])
		}
	}

	return ""
}

// RequireRole is the access control guard. It runs after the session
// middleware; a request with no claims attached is rejected, not crashed.
func RequireRole(role UserRole, contextKey string) fiber.Handler {
	if contextKey == "" {
		contextKey = DefaultContextKey
	}

	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromLocals(c, contextKey)
		if !ok || !claims.HasRole(role) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": ErrAdminOnly.Message,
			})
		}
		return c.Next()
	}
}

// AdminOnly guards admin routes
func AdminOnly(contextKey string) fiber.Handler {
	return RequireRole(RoleAdmin, contextKey)
}

// ClaimsFromLocals extracts verified claims from the fiber locals
func ClaimsFromLocals(c *fiber.Ctx, key string) (*JWTClaims, bool) {
	if key == "" {
		key = DefaultContextKey
	}
	raw := c.Locals(key)
	if raw == nil {
		return nil, false
	}
	claims, ok := raw.(*JWTClaims)
	return claims, ok
}

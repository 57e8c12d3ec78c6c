package middleware

import (
	"errors"
	"strings"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/policy"
	"go-inventory-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

const principalKey = "principal"

// Authenticator resolves a bearer token to the calling user.
type Authenticator interface {
	Authenticate(tokenString string) (*service.Principal, error)
}

// RequireAuth is middleware that validates the bearer token and sets the principal in context.
func RequireAuth(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, problem := bearerToken(c)
		if problem != "" {
			return unauthenticated(c, problem)
		}

		principal, err := auth.Authenticate(tokenString)
		if err != nil {
			return unauthenticated(c, "Unauthenticated.")
		}

		c.Locals(principalKey, principal)
		c.Locals("user_id", principal.User.ID)
		c.Locals("user_email", principal.User.Email)
		c.Locals("user_name", principal.User.Name)
		c.Locals("user_role", principal.User.Role)

		return c.Next()
	}
}

// Authorize runs the gate before the handler so a denied request never reaches the store.
func Authorize(gate *policy.Gate, resource string, ability policy.Ability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := gate.Authorize(CurrentUser(c), resource, ability)
		if err == nil {
			return c.Next()
		}

		var denied *policy.PermissionDenied
		if errors.As(err, &denied) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": denied.Message,
			})
		}
		return err
	}
}

// CurrentPrincipal returns the principal stored by RequireAuth, or nil.
func CurrentPrincipal(c *fiber.Ctx) *service.Principal {
	p, _ := c.Locals(principalKey).(*service.Principal)
	return p
}

func CurrentUser(c *fiber.Ctx) *model.User {
	if p := CurrentPrincipal(c); p != nil {
		return p.User
	}
	return nil
}

// bearerToken reads "Authorization: Bearer <token>", falling back to ?token= for websocket upgrades.
// The second result describes why no token could be read.
func bearerToken(c *fiber.Ctx) (string, string) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		if t := c.Query("token"); t != "" {
			return t, ""
		}
		return "", "Missing authorization token"
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", "Invalid authorization format. Use: Bearer <token>"
	}
	return parts[1], ""
}

func unauthenticated(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

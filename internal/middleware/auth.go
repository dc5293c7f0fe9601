package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/bazaar/internal/identity"
	"github.com/example/bazaar/internal/models"
)

const claimsContextKey = "authClaims"

// Guard evaluates role policies against session credentials. Role and
// identity are read from the token; verification status is always
// re-fetched from the store.
type Guard struct {
	secret string
	store  identity.Store
}

// NewGuard constructs a Guard.
func NewGuard(secret string, store identity.Store) *Guard {
	return &Guard{secret: secret, store: store}
}

// policy checks one authorization rule. nil means the request may pass.
type policy func(c *fiber.Ctx) error

// run adapts a policy into a fiber.Handler: a passing policy lets the
// request continue, a failing one returns its error.
func run(p policy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := p(c); err != nil {
			return err
		}
		return c.Next()
	}
}

// StoreAdmin admits only verified store administrators.
func (g *Guard) StoreAdmin() fiber.Handler {
	return run(g.requireRole(models.RoleStoreAdmin))
}

// PlatformAdmin admits only verified platform administrators.
func (g *Guard) PlatformAdmin() fiber.Handler {
	return run(g.requireRole(models.RoleAdmin))
}

// StoreOrPlatformAdmin evaluates the two role policies in order; the
// first that passes wins. Only when every policy fails does the request
// get a 403, regardless of how the individual policies failed.
func (g *Guard) StoreOrPlatformAdmin() fiber.Handler {
	policies := []policy{
		g.requireRole(models.RoleStoreAdmin),
		g.requireRole(models.RoleAdmin),
	}

	return func(c *fiber.Ctx) error {
		for _, p := range policies {
			if p(c) == nil {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden,
			"access denied: store admin or platform admin required")
	}
}

func (g *Guard) requireRole(role string) policy {
	return func(c *fiber.Ctx) error {
		claims, err := g.bearerClaims(c)
		if err != nil {
			return err
		}

		if claims.Role != role {
			return fiber.NewError(fiber.StatusForbidden, "access denied: admins only")
		}

		user, err := g.store.FindByEmail(claims.Email)
		if errors.Is(err, identity.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		} else if err != nil {
			return err
		}

		if !user.Verified {
			return fiber.NewError(fiber.StatusForbidden, "user account is not verified")
		}

		c.Locals(claimsContextKey, claims)
		return nil
	}
}

func (g *Guard) bearerClaims(c *fiber.Ctx) (*identity.Claims, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "please authenticate")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
	}

	claims, err := identity.ParseToken(g.secret, parts[1])
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid token")
	}

	return claims, nil
}

// CurrentClaims extracts the claims stashed by a passing policy.
func CurrentClaims(c *fiber.Ctx) (*identity.Claims, bool) {
	claims, ok := c.Locals(claimsContextKey).(*identity.Claims)
	return claims, ok
}

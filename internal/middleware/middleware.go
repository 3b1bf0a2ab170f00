package middleware

import (
	"caltrack/domain"
	"caltrack/internal/api/presenters"
	"caltrack/internal/utils"
	"caltrack/pkg/identity"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"golang.org/x/crypto/bcrypt"
)

type (
	Middleware interface {
		CORSMiddleware() fiber.Handler
		IdentityMiddleware(identityService identity.IdentityService) fiber.Handler
		AdminMiddleware() fiber.Handler
	}

	middleware struct{}
)

func NewMiddleware() Middleware {
	return &middleware{}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Device-Id",
		AllowMethods: "GET, POST, PATCH, PUT, DELETE, OPTIONS",
	})
}

// IdentityMiddleware resolves the caller from a bearer token or device id
// header and stores the result in locals. A verified token always wins over
// the device header.
func (m *middleware) IdentityMiddleware(identityService identity.IdentityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := ""
		if auth := c.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		}
		deviceID := c.Get("X-Device-Id")

		resolved, err := identityService.Resolve(c.Context(), token, deviceID)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageUnauthenticated, err)
		}

		c.Locals("identity", resolved)
		c.Locals("user_id", resolved.UserID)
		return c.Next()
	}
}

// AdminMiddleware guards operator endpoints with a shared secret compared
// against its bcrypt hash from configuration.
func (m *middleware) AdminMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		hash := utils.GetConfig("ADMIN_SECRET_HASH")
		secret := c.Get("X-Admin-Secret")
		if hash == "" || secret == "" {
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedProcessRequest, domain.ErrNotAllowed)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedProcessRequest, domain.ErrNotAllowed)
		}
		c.Locals("role", domain.RoleAdmin)
		return c.Next()
	}
}

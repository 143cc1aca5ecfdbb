package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ticket-tracker/internal/domain"
	"github.com/spec-kit/ticket-tracker/internal/repository"
	apperrors "github.com/spec-kit/ticket-tracker/pkg/util"
)

const userKey = "auth_user"

// IdentityMiddleware decodes the bearer session token and hydrates the
// requesting user. Authentication itself (login, credentials) happens in the
// external auth service; this middleware only consumes its tokens.
type IdentityMiddleware struct {
	tokens *TokenManager
	users  repository.UserRepository
}

// NewIdentityMiddleware constructs middleware.
func NewIdentityMiddleware(tokens *TokenManager, users repository.UserRepository) *IdentityMiddleware {
	return &IdentityMiddleware{tokens: tokens, users: users}
}

// Handle enforces a valid session token for protected routes.
func (m *IdentityMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	user, err := m.users.GetByID(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.MapError(err)
	}

	c.Locals(userKey, user)
	return c.Next()
}

// CurrentUser retrieves the authenticated user from request locals.
func CurrentUser(c *fiber.Ctx) (*domain.User, bool) {
	val := c.Locals(userKey)
	if val == nil {
		return nil, false
	}
	user, ok := val.(*domain.User)
	return user, ok
}

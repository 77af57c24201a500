package middleware

import (
	"errors"
	"strings"

	"jobmatch/internal/domain/user"
	"jobmatch/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	CtxUserIDKey      = "user_id"
	CtxEmailKey       = "email"
	CtxUserTypeKey    = "user_type"
	CtxAccessTokenKey = "access_token"
	CtxRequestIDKey   = "request_id"
)

type AuthMiddleware struct {
	jwt jwt.Service
}

func NewAuthMiddleware(jwtSvc jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc}
}

// Middleware rejects requests without a valid access token.
func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := BearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		claims, err := m.jwt.ValidateAccessToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
			}
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
		}

		setIdentity(c, claims, token)
		return c.Next()
	}
}

// Optional attaches the caller identity when a valid token is present and
// lets anonymous requests through.
func (m *AuthMiddleware) Optional() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := BearerToken(c.Get(fiber.HeaderAuthorization))
		if ok {
			if claims, err := m.jwt.ValidateAccessToken(token); err == nil {
				setIdentity(c, claims, token)
			}
		}
		return c.Next()
	}
}

// RequireUserType must run after Middleware.
func RequireUserType(types ...user.Type) fiber.Handler {
	return func(c fiber.Ctx) error {
		ut, ok := UserTypeFromCtx(c)
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}
		for _, t := range types {
			if ut == t {
				return c.Next()
			}
		}
		return NewAppError(fiber.StatusForbidden, "Forbidden", nil, nil)
	}
}

func setIdentity(c fiber.Ctx, claims *jwt.Claims, token string) {
	c.Locals(CtxUserIDKey, claims.UserID)
	c.Locals(CtxEmailKey, claims.Email)
	c.Locals(CtxUserTypeKey, user.Type(claims.UserType))
	c.Locals(CtxAccessTokenKey, token)
}

func UserIDFromCtx(c fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(CtxUserIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

func UserTypeFromCtx(c fiber.Ctx) (user.Type, bool) {
	t, ok := c.Locals(CtxUserTypeKey).(user.Type)
	return t, ok && t != ""
}

func BearerToken(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}

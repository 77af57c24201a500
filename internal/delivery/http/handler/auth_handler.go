package handler

import (
	"errors"
	"strings"

	"jobmatch/internal/delivery/http/dto"
	"jobmatch/internal/delivery/http/middleware"
	"jobmatch/internal/pkg/response"
	ucauth "jobmatch/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
)

type AuthHandler struct {
	uc ucauth.AuthUsecase
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	UserType string `json:"user_type"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func NewAuthHandler(uc ucauth.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// RegisterRoutes mounts the auth endpoints. limit throttles the credential endpoints and may be nil.
func (h *AuthHandler) RegisterRoutes(r fiber.Router, limit fiber.Handler) {
	if r == nil {
		return
	}

	if limit == nil {
		limit = passThrough
	}

	r.Post("/register", limit, h.Register)
	r.Post("/login", limit, h.Login)
	r.Post("/refresh", limit, h.Refresh)
	r.Post("/logout", h.Logout)
	r.Get("/session", h.Session)
}

func (h *AuthHandler) Register(c fiber.Ctx) error {
	var req registerRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	sess, err := h.uc.Register(c.Context(), ucauth.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		UserType: req.UserType,
	})
	if err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.Created(c, sessionResponse(sess))
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req loginRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	sess, err := h.uc.Login(c.Context(), ucauth.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.OK(c, sessionResponse(sess))
}

func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	tok, err := refreshTokenFromRequest(c)
	if err != nil {
		return err
	}

	sess, err := h.uc.Refresh(c.Context(), tok)
	if err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.OK(c, sessionResponse(sess))
}

func (h *AuthHandler) Logout(c fiber.Ctx) error {
	tok, err := refreshTokenFromRequest(c)
	if err != nil {
		return err
	}

	if err := h.uc.Logout(c.Context(), tok); err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.OK(c, map[string]any{"event": "SIGNED_OUT"})
}

func (h *AuthHandler) Session(c fiber.Ctx) error {
	tok, ok := middleware.BearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	cur, err := h.uc.Session(c.Context(), tok)
	if err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.OK(c, dto.CurrentSessionResponse{
		User:      dto.NewUserResponse(cur.User),
		ExpiresAt: cur.ExpiresAt,
	})
}

// refreshTokenFromRequest reads the refresh token from the JSON body, falling back to the bearer header.
func refreshTokenFromRequest(c fiber.Ctx) (string, error) {
	var req refreshRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return "", middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
		}
	}
	if tok := strings.TrimSpace(req.RefreshToken); tok != "" {
		return tok, nil
	}
	if tok, ok := middleware.BearerToken(c.Get(fiber.HeaderAuthorization)); ok {
		return tok, nil
	}
	return "", middleware.NewAppError(fiber.StatusBadRequest, "Refresh token is required", nil, nil)
}

func sessionResponse(s ucauth.Session) dto.SessionResponse {
	return dto.SessionResponse{
		User:             dto.NewUserResponse(s.User),
		AccessToken:      s.AccessToken,
		AccessExpiresAt:  s.AccessExpiresAt,
		RefreshToken:     s.RefreshToken,
		RefreshExpiresAt: s.RefreshExpiresAt,
		TokenType:        "Bearer",
	}
}

func mapAuthUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	var inputErr *ucauth.InputError
	switch {
	case errors.As(err, &inputErr):
		return middleware.NewAppError(fiber.StatusBadRequest, inputErr.Message, nil, err)
	case errors.Is(err, ucauth.ErrEmailAlreadyRegistered):
		return middleware.NewAppError(fiber.StatusConflict, "Email already registered", nil, err)
	case errors.Is(err, ucauth.ErrInvalidCredentials):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid login credentials", nil, err)
	case errors.Is(err, ucauth.ErrInvalidSession):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid or expired session", nil, err)
	case errors.Is(err, ucauth.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func passThrough(c fiber.Ctx) error { return c.Next() }

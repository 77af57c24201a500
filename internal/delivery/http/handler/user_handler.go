package handler

import (
	"errors"

	"jobmatch/internal/delivery/http/dto"
	"jobmatch/internal/delivery/http/middleware"
	"jobmatch/internal/pkg/response"
	useruc "jobmatch/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
)

type UserHandler struct {
	uc useruc.Usecase
}

type updateProfileRequest struct {
	AvatarURL       *string   `json:"avatar_url"`
	Title           *string   `json:"title"`
	Bio             *string   `json:"bio"`
	Location        *string   `json:"location"`
	Skills          *[]string `json:"skills"`
	ExperienceYears *int      `json:"experience_years"`
}

func NewUserHandler(uc useruc.Usecase) *UserHandler {
	return &UserHandler{uc: uc}
}

// RegisterRoutes expects r to be behind the auth middleware.
func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me", h.GetMe)
	r.Put("/me/profile", h.UpdateProfile)
}

func (h *UserHandler) GetMe(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	me, err := h.uc.GetMe(c.Context(), userID)
	if err != nil {
		return mapUserUsecaseError(err)
	}

	res := dto.MeResponse{
		User:    dto.NewUserResponse(me.User),
		Profile: dto.NewProfileResponse(me.Profile),
	}
	return response.OK(c, res)
}

func (h *UserHandler) UpdateProfile(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req updateProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	p, err := h.uc.UpdateProfile(c.Context(), userID, useruc.UpdateProfileInput{
		AvatarURL:       req.AvatarURL,
		Title:           req.Title,
		Bio:             req.Bio,
		Location:        req.Location,
		Skills:          req.Skills,
		ExperienceYears: req.ExperienceYears,
	})
	if err != nil {
		return mapUserUsecaseError(err)
	}
	return response.OK(c, dto.NewProfileResponse(p))
}

func mapUserUsecaseError(err error) error {
	var inputErr *useruc.InputError
	switch {
	case errors.As(err, &inputErr):
		return middleware.NewAppError(fiber.StatusBadRequest, inputErr.Message, nil, err)
	case errors.Is(err, useruc.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	case errors.Is(err, useruc.ErrProfileNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Profile not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

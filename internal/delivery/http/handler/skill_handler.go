package handler

import (
	"errors"

	"jobmatch/internal/delivery/http/middleware"
	"jobmatch/internal/domain/user"
	"jobmatch/internal/pkg/response"
	ucskill "jobmatch/internal/usecase/skill"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type SkillHandler struct {
	uc ucskill.Usecase
}

type skillResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
}

type createSkillRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

func NewSkillHandler(uc ucskill.Usecase) *SkillHandler {
	return &SkillHandler{uc: uc}
}

func (h *SkillHandler) RegisterRoutes(r fiber.Router, authMw *middleware.AuthMiddleware) {
	if r == nil || authMw == nil {
		return
	}

	r.Get("/", h.List)
	r.Post("/", authMw.Middleware(), middleware.RequireUserType(user.TypeEmployer), h.Create)
}

func (h *SkillHandler) List(c fiber.Ctx) error {
	items, err := h.uc.List(c.Context(), c.Query("q"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	res := make([]skillResponse, 0, len(items))
	for _, it := range items {
		res = append(res, skillResponse{ID: it.ID, Name: it.Name, Category: it.Category})
	}
	return response.OK(c, res)
}

func (h *SkillHandler) Create(c fiber.Ctx) error {
	var req createSkillRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	created, err := h.uc.Add(c.Context(), req.Name, req.Category)
	if err != nil {
		switch {
		case errors.Is(err, ucskill.ErrInvalidInput):
			return middleware.NewAppError(fiber.StatusBadRequest, "Skill name is required", nil, err)
		case errors.Is(err, ucskill.ErrAlreadyExist):
			return middleware.NewAppError(fiber.StatusConflict, "Skill already exists", nil, err)
		default:
			return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
		}
	}

	return response.Created(c, skillResponse{
		ID:       created.ID,
		Name:     created.Name,
		Category: created.Category,
	})
}

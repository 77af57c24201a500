package handler

import (
	"errors"
	"strconv"
	"strings"

	"jobmatch/internal/delivery/http/dto"
	"jobmatch/internal/delivery/http/middleware"
	"jobmatch/internal/domain/job"
	"jobmatch/internal/domain/user"
	"jobmatch/internal/pkg/response"
	ucjob "jobmatch/internal/usecase/job"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type JobsHandler struct {
	uc ucjob.Usecase
}

type jobRequest struct {
	Title           *string   `json:"title"`
	Description     *string   `json:"description"`
	Location        *string   `json:"location"`
	SalaryRange     *string   `json:"salary_range"`
	ExperienceLevel *string   `json:"experience_level"`
	EmploymentType  *string   `json:"employment_type"`
	Skills          *[]string `json:"skills"`
	IsRemote        *bool     `json:"is_remote"`
	IsActive        *bool     `json:"is_active"`
}

func NewJobsHandler(uc ucjob.Usecase) *JobsHandler {
	return &JobsHandler{uc: uc}
}

// RegisterRoutes mounts the listing endpoints. Search and detail are public; the rest require a session.
func (h *JobsHandler) RegisterRoutes(r fiber.Router, authMw *middleware.AuthMiddleware) {
	if r == nil || authMw == nil {
		return
	}

	employer := middleware.RequireUserType(user.TypeEmployer)

	r.Get("/", h.HandleSearchJobs)
	r.Get("/mine", authMw.Middleware(), employer, h.HandleListMine)
	r.Post("/", authMw.Middleware(), employer, h.HandleCreateJob)
	r.Get("/:id", authMw.Optional(), h.HandleGetJob)
	r.Put("/:id", authMw.Middleware(), employer, h.HandleUpdateJob)
	r.Delete("/:id", authMw.Middleware(), employer, h.HandleCloseJob)
}

func (h *JobsHandler) HandleSearchJobs(c fiber.Ctx) error {
	f, err := parseSearchFilter(c)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	}

	res, err := h.uc.Search(c.Context(), f)
	if err != nil {
		return mapJobUsecaseError(err)
	}

	return response.OK(c, dto.JobSearchResponse{
		Filter: res.Filter,
		Jobs:   dto.NewJobResponses(res.Jobs),
		Count:  len(res.Jobs),
	})
}

func (h *JobsHandler) HandleListMine(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	items, err := h.uc.ListMine(c.Context(), actor)
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.OK(c, dto.NewJobResponses(items))
}

func (h *JobsHandler) HandleGetJob(c fiber.Ctx) error {
	id, err := jobIDParam(c)
	if err != nil {
		return err
	}

	var viewer *ucjob.Actor
	if actor, err := actorFromCtx(c); err == nil {
		viewer = &actor
	}

	j, err := h.uc.Get(c.Context(), id, viewer)
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.OK(c, dto.NewJobResponse(j))
}

func (h *JobsHandler) HandleCreateJob(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	var req jobRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	in := ucjob.PostInput{
		Draft: job.Draft{
			Title:           deref(req.Title),
			Description:     deref(req.Description),
			Location:        deref(req.Location),
			SalaryRange:     deref(req.SalaryRange),
			ExperienceLevel: deref(req.ExperienceLevel),
			EmploymentType:  deref(req.EmploymentType),
		},
	}
	if req.Skills != nil {
		in.Draft.Skills = *req.Skills
	}
	if req.IsRemote != nil {
		in.IsRemote = *req.IsRemote
	}

	created, err := h.uc.Post(c.Context(), actor, in)
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Created(c, dto.NewJobResponse(created))
}

func (h *JobsHandler) HandleUpdateJob(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	id, err := jobIDParam(c)
	if err != nil {
		return err
	}

	var req jobRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	updated, err := h.uc.Update(c.Context(), actor, id, ucjob.UpdateInput{
		Title:           req.Title,
		Description:     req.Description,
		Location:        req.Location,
		SalaryRange:     req.SalaryRange,
		ExperienceLevel: req.ExperienceLevel,
		EmploymentType:  req.EmploymentType,
		Skills:          req.Skills,
		IsRemote:        req.IsRemote,
		IsActive:        req.IsActive,
	})
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.OK(c, dto.NewJobResponse(updated))
}

func (h *JobsHandler) HandleCloseJob(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	id, err := jobIDParam(c)
	if err != nil {
		return err
	}

	closed, err := h.uc.Close(c.Context(), actor, id)
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.OK(c, dto.NewJobResponse(closed))
}

func parseSearchFilter(c fiber.Ctx) (job.Filter, error) {
	f := job.Filter{
		Query:           c.Query("query", c.Query("q")),
		Location:        c.Query("location"),
		ExperienceLevel: c.Query("experience_level"),
		EmploymentType:  c.Query("employment_type"),
		Skills:          parseSkillsQuery(c.Query("skills")),
	}

	var err error
	if f.RemoteOnly, err = parseQueryBool(c, "remote_only"); err != nil {
		return job.Filter{}, err
	}
	if f.SalaryMin, err = parseQueryInt64(c, "salary_min"); err != nil {
		return job.Filter{}, err
	}
	if f.SalaryMax, err = parseQueryInt64(c, "salary_max"); err != nil {
		return job.Filter{}, err
	}
	if f.Limit, err = parseQueryIntStrict(c, "limit", 0); err != nil {
		return job.Filter{}, err
	}
	if f.Offset, err = parseQueryIntStrict(c, "offset", 0); err != nil {
		return job.Filter{}, err
	}
	return f, nil
}

type queryParamError struct {
	key string
}

func (e *queryParamError) Error() string {
	return "Invalid value for " + e.key
}

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, &queryParamError{key: key}
	}
	return v, nil
}

func parseQueryInt64(c fiber.Ctx, key string) (*int64, error) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, &queryParamError{key: key}
	}
	return &v, nil
}

func parseQueryBool(c fiber.Ctx, key string) (bool, error) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, &queryParamError{key: key}
	}
	return v, nil
}

// parseSkillsQuery accepts "skills=go,sql".
func parseSkillsQuery(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func actorFromCtx(c fiber.Ctx) (ucjob.Actor, error) {
	id, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return ucjob.Actor{}, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	ut, _ := middleware.UserTypeFromCtx(c)
	return ucjob.Actor{UserID: id, UserType: ut}, nil
}

func jobIDParam(c fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid job id", nil, err)
	}
	return id, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func mapJobUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	var validation *job.ValidationError
	var filterErr *job.FilterError
	switch {
	case errors.As(err, &validation):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Invalid job details", validation.Fields, err)
	case errors.As(err, &filterErr):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid "+filterErr.Field+": "+filterErr.Reason, nil, err)
	case errors.Is(err, ucjob.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Only the employer who posted this job can change it", nil, err)
	case errors.Is(err, ucjob.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	case errors.Is(err, ucjob.ErrProfileNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Profile not found", nil, err)
	case errors.Is(err, ucjob.ErrSearchFailed):
		return middleware.NewPublicAppError(fiber.StatusInternalServerError, "Failed to load jobs", err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

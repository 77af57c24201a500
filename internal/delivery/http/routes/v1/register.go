package v1

import (
	"jobmatch/internal/delivery/http/handler"
	"jobmatch/internal/delivery/http/middleware"
	"jobmatch/internal/pkg/jwt"
	ucauth "jobmatch/internal/usecase/auth"
	ucjob "jobmatch/internal/usecase/job"
	ucskill "jobmatch/internal/usecase/skill"
	useruc "jobmatch/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
)

// Deps are the usecases and security pieces the v1 API is built from.
type Deps struct {
	Tokens      jwt.Service
	AuthLimiter *middleware.RateLimiter

	Auth   ucauth.AuthUsecase
	Users  useruc.Usecase
	Jobs   ucjob.Usecase
	Skills ucskill.Usecase
}

// Register mounts /auth, /users, /jobs and /skills. Usecases left nil are not mounted.
func Register(r fiber.Router, deps Deps) {
	if r == nil {
		return
	}

	authMw := middleware.NewAuthMiddleware(deps.Tokens)

	if deps.Auth != nil {
		var limit fiber.Handler
		if deps.AuthLimiter != nil {
			limit = deps.AuthLimiter.Middleware()
		}
		handler.NewAuthHandler(deps.Auth).RegisterRoutes(r.Group("/auth"), limit)
	}
	if deps.Users != nil {
		handler.NewUserHandler(deps.Users).RegisterRoutes(r.Group("/users", authMw.Middleware()))
	}
	if deps.Jobs != nil {
		handler.NewJobsHandler(deps.Jobs).RegisterRoutes(r.Group("/jobs"), authMw)
	}
	if deps.Skills != nil {
		handler.NewSkillHandler(deps.Skills).RegisterRoutes(r.Group("/skills"), authMw)
	}
}

package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"jobmatch/internal/config"
	"jobmatch/internal/delivery/http/handler"
	"jobmatch/internal/delivery/http/middleware"
	"jobmatch/internal/delivery/http/routes"
	v1 "jobmatch/internal/delivery/http/routes/v1"
	"jobmatch/internal/metrics"
	"jobmatch/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the HTTP app around an already wired container.
func New(c *Container) *App {
	f := fiber.New(fiber.Config{
		AppName: c.Config.App.AppName,
	})

	registerGlobalMiddleware(f, c.Logger, c.Metrics)

	registry := routes.NewRegistry(
		handler.NewHealthHandler(c.DB, c.Redis),
		c.Metrics,
		ws.NewHandler(c.Hub, c.Tokens, c.Logger),
		v1.Deps{
			Tokens:      c.Tokens,
			AuthLimiter: middleware.NewRateLimiter(c.Config.RateLimit.AuthPerMinute, c.Config.RateLimit.AuthBurst),
			Auth:        c.Auth,
			Users:       c.Users,
			Jobs:        c.Jobs,
			Skills:      c.Skills,
		},
	)
	registry.Register(f)

	return &App{Fiber: f, Container: c}
}

// Bootstrap wires the container, starts background workers and returns the app
// with a cleanup func that stops them.
func Bootstrap(ctx context.Context, cfg config.Config, logger *log.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	go c.Hub.Run(hubCtx)
	c.Scheduler.Start()

	app := New(c)
	cleanup := func() error {
		stopHub()
		return c.Close()
	}
	return app, cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, logger *log.Logger, m *metrics.Metrics) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(logger, "/health", "/metrics").Middleware())
	if m != nil {
		app.Use(m.Middleware())
	}
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}

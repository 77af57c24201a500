package routes

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"jobmatch/internal/delivery/http/handler"
	v1 "jobmatch/internal/delivery/http/routes/v1"
	"jobmatch/internal/metrics"
	"jobmatch/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func newTestApp(db handler.Pinger) *fiber.App {
	app := fiber.New()
	tokens := jwt.NewHMACService("a", "r", time.Minute, time.Hour, "test")
	NewRegistry(
		handler.NewHealthHandler(db, stubPinger{}),
		metrics.New(),
		nil,
		v1.Deps{Tokens: tokens},
	).Register(app)
	return app
}

func TestRegistry_OpsRoutes(t *testing.T) {
	app := newTestApp(stubPinger{})

	cases := []struct {
		path   string
		status int
	}{
		{"/health", fiber.StatusOK},
		{"/metrics", fiber.StatusOK},
		{"/ws", fiber.StatusNotFound},
		{"/api/v1/jobs", fiber.StatusNotFound},
	}
	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", tc.path, nil))
		if err != nil {
			t.Fatalf("%s: %v", tc.path, err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.path, tc.status, resp.StatusCode)
		}
	}
}

func TestRegistry_HealthReportsDatabaseDown(t *testing.T) {
	app := newTestApp(stubPinger{err: errors.New("down")})

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != fiber.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
}

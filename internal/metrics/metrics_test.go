package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareAndHandler(t *testing.T) {
	m := New()
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/jobs/:id", func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	app.Get("/metrics", m.Handler())

	for i := 0; i < 2; i++ {
		if _, err := app.Test(httptest.NewRequest(http.MethodGet, "/jobs/abc", nil)); err != nil {
			t.Fatalf("request: %v", err)
		}
	}

	got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/jobs/:id", "204"))
	if got != 2 {
		t.Fatalf("expected 2 requests recorded under route pattern, got %v", got)
	}

	m.CacheHit()
	m.CacheMiss()
	m.CacheMiss()
	if v := testutil.ToFloat64(m.SearchCache.WithLabelValues("miss")); v != 2 {
		t.Fatalf("expected 2 misses, got %v", v)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if err != nil {
		t.Fatalf("metrics request: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "jobmatch_http_requests_total") {
		t.Fatalf("expected exposition to contain request counter")
	}
}

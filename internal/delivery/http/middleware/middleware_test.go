package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"jobmatch/internal/domain/user"
	"jobmatch/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		t.Fatalf("decode %q: %v", string(b), err)
	}
	return env
}

func newApp() *fiber.App {
	app := fiber.New()
	app.Use(NewErrorMiddleware(nil).Middleware())
	return app
}

func TestErrorMiddleware_HidesInternalDetails(t *testing.T) {
	app := newApp()
	app.Get("/boom", func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusInternalServerError, "db password leaked", nil, errors.New("x"))
	})
	app.Get("/public", func(c fiber.Ctx) error {
		return NewPublicAppError(fiber.StatusInternalServerError, "Failed to load jobs", errors.New("x"))
	})
	app.Get("/panic", func(c fiber.Ctx) error {
		panic("oops")
	})
	app.Get("/unprocessable", func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusUnprocessableEntity, "", map[string]string{"title": "bad"}, nil)
	})

	cases := []struct {
		path   string
		status int
		msg    string
	}{
		{"/boom", 500, "internal server error"},
		{"/public", 500, "Failed to load jobs"},
		{"/panic", 500, "internal server error"},
		{"/unprocessable", 422, "unprocessable entity"},
	}
	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, tc.path, nil))
		if err != nil {
			t.Fatalf("%s: %v", tc.path, err)
		}
		env := decode(t, resp)
		if resp.StatusCode != tc.status || env.Message != tc.msg {
			t.Fatalf("%s: got %d %q, want %d %q", tc.path, resp.StatusCode, env.Message, tc.status, tc.msg)
		}
	}
}

func TestAuthMiddleware(t *testing.T) {
	svc := jwt.NewHMACService("a", "r", time.Minute, time.Hour, "jobmatch")
	auth := NewAuthMiddleware(svc)
	uid := uuid.New()
	sub := jwt.Subject{UserID: uid, Email: "e@x.io", UserType: string(user.TypeEmployer)}
	access, err := svc.IssueAccessToken(sub)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	refresh, err := svc.IssueRefreshToken(sub)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	app := newApp()
	app.Get("/private", auth.Middleware(), func(c fiber.Ctx) error {
		id, _ := UserIDFromCtx(c)
		return c.SendString(id.String())
	})
	app.Get("/employers", auth.Middleware(), RequireUserType(user.TypeEmployer), func(c fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/seekers", auth.Middleware(), RequireUserType(user.TypeJobSeeker), func(c fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/maybe", auth.Optional(), func(c fiber.Ctx) error {
		if _, ok := UserIDFromCtx(c); ok {
			return c.SendString("known")
		}
		return c.SendString("anonymous")
	})

	do := func(path, token string) *http.Response {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		return resp
	}

	if resp := do("/private", ""); resp.StatusCode != 401 {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}
	if resp := do("/private", refresh.Value); resp.StatusCode != 401 {
		t.Fatalf("expected 401 for refresh token, got %d", resp.StatusCode)
	}
	resp := do("/private", access.Value)
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != 200 || string(body) != uid.String() {
		t.Fatalf("expected 200 with uid, got %d %q", resp.StatusCode, body)
	}
	if resp := do("/employers", access.Value); resp.StatusCode != 204 {
		t.Fatalf("expected 204 for employer, got %d", resp.StatusCode)
	}
	if resp := do("/seekers", access.Value); resp.StatusCode != 403 {
		t.Fatalf("expected 403 for wrong type, got %d", resp.StatusCode)
	}

	resp = do("/maybe", "garbage")
	body, _ = io.ReadAll(resp.Body)
	if string(body) != "anonymous" {
		t.Fatalf("expected anonymous, got %q", body)
	}
	resp = do("/maybe", access.Value)
	body, _ = io.ReadAll(resp.Body)
	if string(body) != "known" {
		t.Fatalf("expected known, got %q", body)
	}
}

func TestBearerToken(t *testing.T) {
	cases := map[string]bool{
		"Bearer abc":  true,
		"bearer abc":  true,
		"Bearer   ":   false,
		"Basic abc":   false,
		"abc":         false,
		"":            false,
		" Bearer xyz": true,
	}
	for header, want := range cases {
		if _, ok := BearerToken(header); ok != want {
			t.Fatalf("BearerToken(%q) ok=%v, want %v", header, ok, want)
		}
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(60, 2)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	if !rl.Allow("1.1.1.1") || !rl.Allow("1.1.1.1") {
		t.Fatalf("expected burst of 2 to pass")
	}
	if rl.Allow("1.1.1.1") {
		t.Fatalf("expected third request to be throttled")
	}
	if !rl.Allow("2.2.2.2") {
		t.Fatalf("other clients must not share the bucket")
	}

	now = now.Add(time.Second)
	if !rl.Allow("1.1.1.1") {
		t.Fatalf("expected a token after one second")
	}

	app := newApp()
	limited := NewRateLimiter(1, 1)
	app.Post("/login", limited.Middleware(), func(c fiber.Ctx) error { return c.SendStatus(200) })
	for i, want := range []int{200, 429} {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		if resp.StatusCode != want {
			t.Fatalf("request %d: got %d, want %d", i, resp.StatusCode, want)
		}
	}
}

func TestAccessLog_SetsRequestIDAndSkipsQuietPaths(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(NewAccessLogMiddleware(log.New(&buf, "", 0), "/health").Middleware())
	app.Get("/health", func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/jobs", func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Header.Get(fiber.HeaderXRequestID) == "" {
		t.Fatalf("expected request id header")
	}
	if buf.Len() != 0 {
		t.Fatalf("expected quiet path to skip logging, got %q", buf.String())
	}

	req := httptest.NewRequest("GET", "/jobs", nil)
	req.Header.Set(fiber.HeaderXRequestID, "rid-1")
	if _, err := app.Test(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "[HTTP] GET /jobs status=200") || !strings.Contains(buf.String(), "rid=rid-1") {
		t.Fatalf("unexpected log line: %q", buf.String())
	}
}

package response

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
)

func TestSuccessAndErrorEnvelope(t *testing.T) {
	app := fiber.New()
	app.Get("/ok", func(c fiber.Ctx) error {
		return Success(c, fiber.StatusCreated, "", map[string]int{"n": 1})
	})
	app.Get("/bad", func(c fiber.Ctx) error {
		return Error(c, 999, "", nil)
	})

	cases := []struct {
		path    string
		status  int
		message string
	}{
		{"/ok", fiber.StatusCreated, MessageCreated},
		{"/bad", fiber.StatusInternalServerError, MessageInternalServerError},
	}
	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", tc.path, nil))
		if err != nil {
			t.Fatalf("%s: %v", tc.path, err)
		}
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		var env SemanticResponse
		if err := json.Unmarshal(body, &env); err != nil {
			t.Fatalf("%s: decode: %v", tc.path, err)
		}
		if resp.StatusCode != tc.status || env.Status != tc.status || env.Message != tc.message {
			t.Fatalf("%s: got %d %+v", tc.path, resp.StatusCode, env)
		}
	}
}

func TestDefaultMessage(t *testing.T) {
	cases := map[int]string{
		fiber.StatusNotFound:           MessageNotFound,
		fiber.StatusServiceUnavailable: MessageServiceUnavailable,
		fiber.StatusBadGateway:         MessageInternalServerError,
		fiber.StatusTeapot:             MessageError,
	}
	for status, want := range cases {
		if got := DefaultMessage(status); got != want {
			t.Fatalf("DefaultMessage(%d) = %q, want %q", status, got, want)
		}
	}
}

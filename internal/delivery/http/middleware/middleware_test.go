package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"skill-swap/internal/pkg/jwt"
	"skill-swap/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

func newTestApp(logger *log.Logger) *fiber.App {
	app := fiber.New()
	app.Use(NewAccessLogMiddleware(logger).Middleware())
	app.Use(NewErrorMiddleware(logger).Middleware())
	return app
}

func decodeEnvelope(t *testing.T, body io.Reader) response.SemanticResponse {
	t.Helper()
	var env response.SemanticResponse
	if err := json.NewDecoder(body).Decode(&env); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return env
}

func TestErrorMiddleware_AppErrorAndPanic(t *testing.T) {
	var buf bytes.Buffer
	app := newTestApp(log.New(&buf, "", 0))
	app.Get("/conflict", func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusConflict, "Email already registered", nil, errors.New("dup"))
	})
	app.Get("/boom", func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusInternalServerError, "db password leaked", nil, errors.New("secret"))
	})
	app.Get("/panic", func(c fiber.Ctx) error {
		panic("kaboom")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/conflict", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	env := decodeEnvelope(t, resp.Body)
	if resp.StatusCode != fiber.StatusConflict || env.Message != "Email already registered" || env.Status != fiber.StatusConflict {
		t.Fatalf("unexpected conflict response: %d %+v", resp.StatusCode, env)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/boom", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	env = decodeEnvelope(t, resp.Body)
	if resp.StatusCode != fiber.StatusInternalServerError || env.Message != response.MessageInternalServerError {
		t.Fatalf("expected hidden 5xx message, got %d %+v", resp.StatusCode, env)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/panic", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("expected 500 after panic, got %d", resp.StatusCode)
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Fatalf("expected panic to be logged, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "HTTP access | rid=") {
		t.Fatalf("expected access log lines, got %q", buf.String())
	}
}

func TestAccessLog_PropagatesRequestID(t *testing.T) {
	app := newTestApp(log.New(io.Discard, "", 0))
	app.Get("/", func(c fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-ID", "rid-123")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if got := resp.Header.Get("X-Request-ID"); got != "rid-123" {
		t.Fatalf("expected echoed request id, got %q", got)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if _, err := uuid.Parse(resp.Header.Get("X-Request-ID")); err != nil {
		t.Fatalf("expected generated request id, got %q", resp.Header.Get("X-Request-ID"))
	}
}

func TestAuthMiddleware(t *testing.T) {
	tokens := jwt.NewHMACService("access", "refresh", time.Minute, time.Hour)
	app := newTestApp(log.New(io.Discard, "", 0))
	app.Get("/me", NewAuthMiddleware(tokens).Middleware(), func(c fiber.Ctx) error {
		id, ok := UserID(c)
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}
		return c.SendString(id.String())
	})

	id := uuid.New()
	access, _ := tokens.GenerateAccessToken(id, "a@b.c", "USER")
	refresh, _ := tokens.GenerateRefreshToken(id)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", fiber.StatusUnauthorized},
		{"wrong scheme", "Basic abc", fiber.StatusUnauthorized},
		{"refresh token", "Bearer " + refresh, fiber.StatusUnauthorized},
		{"access token", "Bearer " + access, fiber.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.StatusCode)
			}
			if tc.want == fiber.StatusOK {
				b, _ := io.ReadAll(resp.Body)
				if string(b) != id.String() {
					t.Fatalf("expected user id in body, got %q", b)
				}
			}
		})
	}
}

func TestRateLimit_BurstThenReject(t *testing.T) {
	rl := NewRateLimitMiddleware(1, 2)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	app := newTestApp(log.New(io.Discard, "", 0))
	app.Post("/login", rl.Middleware(), func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		codes = append(codes, resp.StatusCode)
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != fiber.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence: %v", codes)
	}

	now = now.Add(time.Second)
	resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected token refill after 1s, got %d", resp.StatusCode)
	}
}

func TestRateLimit_SweepDropsIdleVisitors(t *testing.T) {
	rl := NewRateLimitMiddleware(1, 1)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.allow("10.0.0.1")
	now = now.Add(rl.idleTTL + time.Minute)
	rl.sweep(now)

	if len(rl.visitors) != 0 {
		t.Fatalf("expected idle visitor removed, got %d", len(rl.visitors))
	}
}

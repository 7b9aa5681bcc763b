package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/account_balance/internal/logging"
)

func setupRateLimitedApp(t *testing.T, limit int) (*fiber.App, *miniredis.Miniredis, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	app := fiber.New()
	app.Use(RateLimit(cache, limit, logging.Discard()))
	app.Get("/resource", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	cleanup := func() {
		cache.Close()
		mr.Close()
	}
	return app, mr, cleanup
}

func TestRateLimitBlocksAfterLimit(t *testing.T) {
	app, _, cleanup := setupRateLimitedApp(t, 2)
	defer cleanup()

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/resource", nil))
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("request %d: expected 200 got %d", i, resp.StatusCode)
		}
	}

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/resource", nil))
	if err != nil {
		t.Fatalf("third request: %v", err)
	}
	if resp.StatusCode != fiber.StatusTooManyRequests {
		t.Fatalf("expected %d got %d", fiber.StatusTooManyRequests, resp.StatusCode)
	}
	if got := resp.Header.Get("X-RateLimit-Remaining"); got != "0" {
		t.Fatalf("expected remaining 0, got %q", got)
	}
}

func TestRateLimitWindowExpires(t *testing.T) {
	app, mr, cleanup := setupRateLimitedApp(t, 1)
	defer cleanup()

	if resp, _ := app.Test(httptest.NewRequest(fiber.MethodGet, "/resource", nil)); resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected first request to pass, got %d", resp.StatusCode)
	}
	mr.FastForward(61 * time.Second)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/resource", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected window reset, got %d", resp.StatusCode)
	}
}

func TestRateLimitFailsOpen(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer cache.Close()
	mr.Close()

	app := fiber.New()
	app.Use(RateLimit(cache, 1, logging.Discard()))
	app.Get("/resource", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/resource", nil))
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("expected fail-open 200, got %d", resp.StatusCode)
		}
	}
}

func TestRateLimitWithoutRedis(t *testing.T) {
	app := fiber.New()
	app.Use(RateLimit(nil, 1, nil))
	app.Get("/resource", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for i := 0; i < 3; i++ {
		resp, _ := app.Test(httptest.NewRequest(fiber.MethodGet, "/resource", nil))
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("expected no-op limiter, got %d", resp.StatusCode)
		}
	}
}

func TestRequestIDGeneratedAndPropagated(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/id", func(c *fiber.Ctx) error {
		return c.SendString(RequestIDFrom(c))
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/id", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	generated := resp.Header.Get(requestIDHeader)
	if generated == "" {
		t.Fatal("expected generated request id header")
	}

	req := httptest.NewRequest(fiber.MethodGet, "/id", nil)
	req.Header.Set(requestIDHeader, "caller-id")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if got := resp.Header.Get(requestIDHeader); got != "caller-id" {
		t.Fatalf("expected caller id echoed, got %q", got)
	}
}

func TestMetricsCountsByRouteAndStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	if err != nil {
		t.Fatalf("new metrics: %v", err)
	}

	app := fiber.New()
	app.Use(metrics.Handler())
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		if c.Params("id") == "missing" {
			return fiber.NewError(fiber.StatusNotFound, "missing")
		}
		return c.SendStatus(fiber.StatusOK)
	})

	for _, path := range []string{"/items/1", "/items/2", "/items/missing"} {
		if _, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil)); err != nil {
			t.Fatalf("request %s: %v", path, err)
		}
	}

	ok := metrics.requestTotal.WithLabelValues(fiber.MethodGet, "/items/:id", "200")
	if got := testutil.ToFloat64(ok); got != 2 {
		t.Fatalf("expected 2 ok requests, got %v", got)
	}
	notFound := metrics.requestTotal.WithLabelValues(fiber.MethodGet, "/items/:id", "404")
	if got := testutil.ToFloat64(notFound); got != 1 {
		t.Fatalf("expected 1 not found request, got %v", got)
	}

	if _, err := NewMetrics(reg); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate registration error, got %v", err)
	}
}

func TestAuditLogsStatusOfReturnedErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	app := fiber.New()
	app.Use(Audit(logger))
	app.Get("/gone", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "gone")
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("boom")
	})

	cases := map[string]int{"/gone": fiber.StatusNotFound, "/boom": fiber.StatusInternalServerError}
	for path, want := range cases {
		buf.Reset()
		if _, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil)); err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		var entry struct {
			Status int    `json:"status"`
			Path   string `json:"path"`
		}
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("%s: decode log %s: %v", path, buf.String(), err)
		}
		if entry.Path != path || entry.Status != want {
			t.Fatalf("%s: expected status %d logged, got %+v", path, want, entry)
		}
	}
}

package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/mkoba-pay/mkoba_pay/internal/logging"
)

func setupTestApp(t *testing.T) (*fiber.App, *atomic.Int64, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	app := fiber.New()
	app.Use(Idempotency(cache, time.Minute, logging.Discard()))

	var calls atomic.Int64
	app.Post("/topup", func(c *fiber.Ctx) error {
		calls.Add(1)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"balance_cents": 50_000})
	})

	cleanup := func() {
		cache.Close()
		mr.Close()
	}
	return app, &calls, cleanup
}

func postTopUp(t *testing.T, app *fiber.App, idemKey string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/topup", strings.NewReader("{}"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if idemKey != "" {
		req.Header.Set(idempotencyKeyHeader, idemKey)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestIdempotencyWithoutHeaderPassesThrough(t *testing.T) {
	app, calls, cleanup := setupTestApp(t)
	defer cleanup()

	for i := 0; i < 2; i++ {
		if status, _ := postTopUp(t, app, ""); status != fiber.StatusOK {
			t.Fatalf("expected %d, got %d", fiber.StatusOK, status)
		}
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected handler to run twice without keys, ran %d times", got)
	}
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	app, calls, cleanup := setupTestApp(t)
	defer cleanup()

	status1, body1 := postTopUp(t, app, "retry-1")
	if status1 != fiber.StatusOK {
		t.Fatalf("first request status %d", status1)
	}

	status2, body2 := postTopUp(t, app, "retry-1")
	if status2 != fiber.StatusOK {
		t.Fatalf("replay status %d", status2)
	}
	if body1 != body2 {
		t.Fatalf("replay body differs: %s vs %s", body1, body2)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("handler must run once per key, ran %d times", got)
	}
}

func TestIdempotencyDistinctKeysRunSeparately(t *testing.T) {
	app, calls, cleanup := setupTestApp(t)
	defer cleanup()

	postTopUp(t, app, "key-a")
	postTopUp(t, app, "key-b")
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected two handler runs, got %d", got)
	}
}

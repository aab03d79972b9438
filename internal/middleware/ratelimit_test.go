package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newLimitedRouter(rps float64, burst int) *gin.Engine {
	r := gin.New()
	r.Use(NewRateLimiter(rps, burst).Middleware())
	r.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func ping(r *gin.Engine, ip string) int {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiter_WithinBudget(t *testing.T) {
	r := newLimitedRouter(10, 10)

	for i := 0; i < 5; i++ {
		if code := ping(r, "192.168.1.1"); code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, code)
		}
	}
}

func TestRateLimiter_BurstExhausted(t *testing.T) {
	r := newLimitedRouter(1, 2)

	var last int
	for i := 0; i < 5; i++ {
		last = ping(r, "10.0.0.1")
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("status after burst = %d, want 429", last)
	}
}

func TestRateLimiter_BucketsArePerIP(t *testing.T) {
	r := newLimitedRouter(1, 1)

	if code := ping(r, "10.0.0.1"); code != http.StatusOK {
		t.Fatalf("first IP: status = %d, want 200", code)
	}
	if code := ping(r, "10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("first IP second hit: status = %d, want 429", code)
	}
	if code := ping(r, "10.0.0.2"); code != http.StatusOK {
		t.Errorf("second IP should have its own bucket, got %d", code)
	}
}

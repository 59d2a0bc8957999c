package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func TestRateLimiterBurstThenReject(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(RateLimiterConfig{
		Rate:            rate.Every(time.Hour),
		Burst:           3,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()

	r := gin.New()
	r.POST("/login", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 3; i++ {
		if code := hit("10.0.0.1"); code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, code)
		}
	}
	if code := hit("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("over-burst request: status = %d, want 429", code)
	}

	// другой клиент — свой лимит
	if code := hit("10.0.0.2"); code != http.StatusOK {
		t.Fatalf("second client: status = %d, want 200", code)
	}
}

func TestRateLimiterAllowRefills(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		Rate:            rate.Every(10 * time.Millisecond),
		Burst:           1,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()

	if !rl.allow("k") {
		t.Fatal("first request must pass")
	}
	if rl.allow("k") {
		t.Fatal("second immediate request must be limited")
	}
	time.Sleep(15 * time.Millisecond)
	if !rl.allow("k") {
		t.Fatal("request after refill must pass")
	}
}

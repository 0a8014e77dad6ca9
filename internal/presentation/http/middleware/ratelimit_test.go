package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimitConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  RateLimitConfig
		wantErr bool
	}{
		{"valid", RateLimitConfig{RequestsPerWindow: 30, WindowDuration: time.Minute}, false},
		{"zero requests", RateLimitConfig{RequestsPerWindow: 0, WindowDuration: time.Minute}, true},
		{"zero window", RateLimitConfig{RequestsPerWindow: 30, WindowDuration: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAllowEnforcesCeiling(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{RequestsPerWindow: 3, WindowDuration: time.Minute})

	for i := 0; i < 3; i++ {
		if allowed, _ := rl.Allow("1.2.3.4"); !allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	allowed, retryAfter := rl.Allow("1.2.3.4")
	if allowed {
		t.Error("fourth request in the window should be rejected")
	}
	if retryAfter <= 0 {
		t.Errorf("retryAfter = %d, want > 0", retryAfter)
	}

	// A different caller has its own bucket.
	if allowed, _ := rl.Allow("5.6.7.8"); !allowed {
		t.Error("distinct key should not share the exhausted bucket")
	}
}

func TestAllowResetsAfterWindow(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{RequestsPerWindow: 1, WindowDuration: 20 * time.Millisecond})

	if allowed, _ := rl.Allow("1.2.3.4"); !allowed {
		t.Fatal("first request should be allowed")
	}
	if allowed, _ := rl.Allow("1.2.3.4"); allowed {
		t.Fatal("second request within the window should be rejected")
	}

	time.Sleep(30 * time.Millisecond)
	if allowed, _ := rl.Allow("1.2.3.4"); !allowed {
		t.Error("request after window expiry should be allowed")
	}
}

func TestExpiredBucketsArePruned(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{RequestsPerWindow: 1, WindowDuration: time.Nanosecond})

	for i := 0; i < 10000; i++ {
		rl.Allow(fmt.Sprintf("10.0.%d.%d", i/256, i%256))
	}

	time.Sleep(time.Millisecond)
	rl.Cleanup()

	rl.mu.Lock()
	remaining := len(rl.buckets)
	rl.mu.Unlock()
	if remaining != 0 {
		t.Errorf("bucket map holds %d entries for expired windows, want 0", remaining)
	}
}

func TestAllowSweepsExpiredBuckets(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{RequestsPerWindow: 1, WindowDuration: 10 * time.Millisecond})

	for i := 0; i < 100; i++ {
		rl.Allow(fmt.Sprintf("10.1.0.%d", i))
	}

	time.Sleep(20 * time.Millisecond)
	rl.Allow("10.2.0.1")

	rl.mu.Lock()
	remaining := len(rl.buckets)
	rl.mu.Unlock()
	if remaining != 1 {
		t.Errorf("bucket map holds %d entries after the sweep, want 1", remaining)
	}
}

func TestMiddlewareRejectsWith429(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := NewRateLimiter(RateLimitConfig{RequestsPerWindow: 1, WindowDuration: time.Minute})
	router := gin.New()
	router.Use(rl.Middleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", first.Code)
	}

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", second.Code)
	}
	if second.Header().Get("Retry-After") == "" {
		t.Error("429 response should carry a Retry-After header")
	}
}

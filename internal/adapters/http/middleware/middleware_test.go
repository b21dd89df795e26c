package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"eventra/internal/domain/favorite"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

// TestRateLimiter_Allow verifies the bucket drains and is per IP.
func TestRateLimiter_Allow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rl := NewRateLimiter(ctx, 2, time.Hour)

	if !rl.Allow("1.1.1.1") || !rl.Allow("1.1.1.1") {
		t.Fatal("first two requests must pass")
	}
	if rl.Allow("1.1.1.1") {
		t.Error("third request must be limited")
	}
	if !rl.Allow("2.2.2.2") {
		t.Error("other IPs have their own bucket")
	}
}

// TestRateLimit_IgnoresPort verifies clients are keyed by host, not host:port.
func TestRateLimit_IgnoresPort(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := RateLimit(NewRateLimiter(ctx, 1, time.Hour))(okHandler)

	codes := []int{}
	for _, addr := range []string{"10.0.0.1:5000", "10.0.0.1:5001"} {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("codes = %v", codes)
	}
}

// TestSecurityHeaders verifies the headers and that remote https images are allowed.
func TestSecurityHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	SecurityHeaders(okHandler).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	if rr.Header().Get("X-Frame-Options") != "DENY" || rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Errorf("headers = %v", rr.Header())
	}
	if csp := rr.Header().Get("Content-Security-Policy"); !strings.Contains(csp, "img-src 'self' https:") {
		t.Errorf("csp = %q", csp)
	}
}

// TestCSRF verifies form posts need a token while JSON posts and reads pass.
func TestCSRF(t *testing.T) {
	h := CSRF(make([]byte, 32), false, nil)(okHandler)
	tests := []struct {
		name        string
		method      string
		contentType string
		want        int
	}{
		{"get passes", "GET", "", http.StatusOK},
		{"form post without token", "POST", "application/x-www-form-urlencoded", http.StatusForbidden},
		{"json exempt", "POST", "application/json", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/events/e1/favorite", strings.NewReader("x=1"))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

// TestVisitor verifies cookie issuance, reuse and key derivation.
func TestVisitor(t *testing.T) {
	var key string
	h := Visitor(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key = VisitorKeyFromContext(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != VisitorCookieName || !cookies[0].HttpOnly {
		t.Fatalf("cookies = %+v", cookies)
	}
	if key != favorite.VisitorKey(cookies[0].Value) {
		t.Errorf("key = %q", key)
	}

	known := uuid.NewString()
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: VisitorCookieName, Value: known})
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if len(rr.Result().Cookies()) != 0 {
		t.Error("known visitor must not get a new cookie")
	}
	if key != favorite.VisitorKey(known) {
		t.Errorf("key = %q", key)
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: VisitorCookieName, Value: "tampered"})
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if len(rr.Result().Cookies()) != 1 {
		t.Error("malformed cookie must be replaced")
	}
}

// TestChain verifies the last middleware listed runs first.
func TestChain(t *testing.T) {
	var order []string
	mw := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	Chain(okHandler, mw("inner"), mw("outer")).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	if strings.Join(order, ",") != "outer,inner" {
		t.Errorf("order = %v", order)
	}
}

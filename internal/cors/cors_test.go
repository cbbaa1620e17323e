package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddlewareWildcard(t *testing.T) {
	var called bool
	handler := Middleware(Config{AllowedOrigins: []string{"*"}, MaxAge: 10 * time.Minute}, okHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/static/app.js", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if !called {
		t.Fatal("next handler was not called")
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestMiddlewarePreflight(t *testing.T) {
	var called bool
	handler := Middleware(Config{AllowedOrigins: []string{"*"}, MaxAge: 10 * time.Minute}, okHandler(&called))

	// Pre-flight must succeed even when the target file does not exist.
	req := httptest.NewRequest(http.MethodOptions, "/static/does-not-exist.xyz", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if called {
		t.Fatal("pre-flight reached the file handler")
	}
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNoContent)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Methods"); got != allowedMethods {
		t.Errorf("Access-Control-Allow-Methods = %q, want %q", got, allowedMethods)
	}
	if got := rr.Header().Get("Access-Control-Max-Age"); got != "600" {
		t.Errorf("Access-Control-Max-Age = %q, want 600", got)
	}
}

func TestMiddlewareConfiguredOrigins(t *testing.T) {
	tests := []struct {
		name       string
		origin     string
		wantHeader string
		wantVary   bool
	}{
		{name: "allowed origin echoed", origin: "https://a.example", wantHeader: "https://a.example", wantVary: true},
		{name: "unknown origin refused", origin: "https://evil.example", wantHeader: ""},
		{name: "no origin header", origin: "", wantHeader: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var called bool
			handler := Middleware(Config{
				AllowedOrigins: []string{"https://a.example", "https://b.example"},
				MaxAge:         time.Minute,
			}, okHandler(&called))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if !called {
				t.Fatal("next handler was not called")
			}
			if got := rr.Header().Get("Access-Control-Allow-Origin"); got != tt.wantHeader {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantHeader)
			}
			if tt.wantVary && rr.Header().Get("Vary") != "Origin" {
				t.Errorf("Vary = %q, want Origin", rr.Header().Get("Vary"))
			}
		})
	}
}

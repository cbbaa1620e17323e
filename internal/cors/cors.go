package cors

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	allowedMethods = "GET, HEAD, OPTIONS"
	allowedHeaders = "Content-Type, Authorization, X-Requested-With"
)

// Config controls the cross-origin response policy.
type Config struct {
	// AllowedOrigins lists origins granted access; "*" allows all.
	AllowedOrigins []string
	// MaxAge bounds how long clients may cache a pre-flight answer.
	MaxAge time.Duration
}

// Middleware applies the cross-origin policy to every route and answers
// pre-flight OPTIONS requests directly, without consulting the filesystem.
func Middleware(cfg Config, next http.Handler) http.Handler {
	allowAll := false
	origins := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		if trimmed == "*" {
			allowAll = true
			continue
		}
		origins[trimmed] = struct{}{}
	}

	maxAge := strconv.Itoa(int(cfg.MaxAge.Seconds()))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		switch {
		case allowAll:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "":
			if _, ok := origins[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
		}

		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
			w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)
			w.Header().Set("Access-Control-Max-Age", maxAge)
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

package isolation

import (
	"bufio"
	"net"
	"net/http"
)

// Header values browsers require before granting cross-origin isolation
// (SharedArrayBuffer and friends).
const (
	HeaderOpenerPolicy   = "Cross-Origin-Opener-Policy"
	HeaderEmbedderPolicy = "Cross-Origin-Embedder-Policy"

	openerPolicy   = "same-origin"
	embedderPolicy = "require-corp"
)

// Middleware stamps the isolation headers on every response. The stamp
// happens inside WriteHeader so it covers every status the inner handlers
// produce, including 404s and rate-limit rejections, and overwrites any
// value a handler set itself.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stamp(w.Header())
		next.ServeHTTP(&isolatedWriter{ResponseWriter: w}, r)
	})
}

func stamp(h http.Header) {
	h.Set(HeaderOpenerPolicy, openerPolicy)
	h.Set(HeaderEmbedderPolicy, embedderPolicy)
}

type isolatedWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *isolatedWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		stamp(w.Header())
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *isolatedWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// Hijack passes websocket upgrades through the wrapped ResponseWriter.
func (w *isolatedWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	return hijacker.Hijack()
}

// Flush keeps streaming behavior for handlers that require it.
func (w *isolatedWriter) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

package httpx

import (
	"compress/gzip"
	"io"
	"net/http"
	"path"
	"strings"
	"sync"
)

// Extensions whose content is already compressed; recompressing wastes CPU
// for no size win.
var skipCompression = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".webp": {},
	".mp4": {}, ".webm": {}, ".ogg": {},
	".zip": {}, ".gz": {}, ".br": {},
	".woff": {}, ".woff2": {},
}

// gzipWriterPool reuses gzip writers to reduce allocations.
var gzipWriterPool = sync.Pool{
	New: func() interface{} {
		// Level 5 balances speed against ratio.
		w, _ := gzip.NewWriterLevel(nil, 5)
		return w
	},
}

// Compression gzips responses for clients that accept it. Range requests and
// already-compressed asset types pass through untouched.
func Compression(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") ||
			r.Header.Get("Range") != "" ||
			r.Header.Get("Upgrade") != "" {
			next.ServeHTTP(w, r)
			return
		}
		if _, ok := skipCompression[strings.ToLower(path.Ext(r.URL.Path))]; ok {
			next.ServeHTTP(w, r)
			return
		}

		gz := gzipWriterPool.Get().(*gzip.Writer)
		defer func() {
			_ = gz.Close()
			gz.Reset(io.Discard)
			gzipWriterPool.Put(gz)
		}()
		gz.Reset(w)

		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Add("Vary", "Accept-Encoding")

		next.ServeHTTP(&gzipResponseWriter{Writer: gz, ResponseWriter: w}, r)
	})
}

// gzipResponseWriter routes the body through the gzip writer while headers
// and status go to the underlying ResponseWriter.
type gzipResponseWriter struct {
	io.Writer
	http.ResponseWriter
	wroteHeader bool
}

func (w *gzipResponseWriter) WriteHeader(status int) {
	w.wroteHeader = true
	// The handler's Content-Length refers to the uncompressed body.
	w.ResponseWriter.Header().Del("Content-Length")
	w.ResponseWriter.WriteHeader(status)
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.Writer.Write(b)
}

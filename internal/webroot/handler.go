package webroot

import (
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Handler serves the entry document and the static assets tree. It holds no
// mutable state; every request resolves against the filesystem directly.
type Handler struct {
	root   string
	index  string
	assets fs.FS
	logger *slog.Logger
}

func New(root, index, staticDir string, logger *slog.Logger) *Handler {
	return &Handler{
		root:   root,
		index:  index,
		assets: os.DirFS(staticDir),
		logger: logger,
	}
}

// ServeIndex serves the entry document for the exact root path. The "/"
// pattern on ServeMux also catches every unmatched route, so anything other
// than the root path is not found.
func (h *Handler) ServeIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	name := filepath.Join(h.root, h.index)
	info, err := os.Stat(name)
	if err != nil || info.IsDir() {
		h.logger.Warn("entry document not found", "path", name)
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, name)
}

// ServeAsset serves a file from the assets tree. The route is mounted behind
// StripPrefix, so the URL path is the asset path relative to the static dir.
// Path validation is delegated to io/fs: a path with ".." segments, a leading
// slash, or any other escape from the tree is not a valid rooted path and
// maps to 404 like a missing file.
func (h *Handler) ServeAsset(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(r.URL.Path, "/")
	if rel == "" || !fs.ValidPath(rel) {
		http.NotFound(w, r)
		return
	}

	f, err := h.assets.Open(rel)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	info, err := f.Stat()
	_ = f.Close()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	http.ServeFileFS(w, r, h.assets, rel)
}

package livereload

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/nkoval/coiserve/internal/metrics"
)

// Notifier receives a signal when watched content changes.
type Notifier interface {
	Broadcast()
}

type fingerprint struct {
	modTime time.Time
	size    int64
}

// Watcher polls the watched directories for changed, added or removed files
// and notifies on every difference between consecutive scans.
type Watcher struct {
	dirs     []string
	interval time.Duration
	notifier Notifier
	metrics  *metrics.Metrics
	logger   *slog.Logger

	seen   map[string]fingerprint
	primed bool
}

func NewWatcher(dirs []string, interval time.Duration, notifier Notifier, m *metrics.Metrics, logger *slog.Logger) *Watcher {
	return &Watcher{
		dirs:     dirs,
		interval: interval,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
		seen:     make(map[string]fingerprint),
	}
}

// Run polls until ctx is cancelled. Runs in its own goroutine.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("livereload watcher started",
		"dirs", w.dirs,
		"interval", w.interval.String(),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("livereload watcher stopped")
			return
		case <-ticker.C:
			w.scan()
		}
	}
}

// scan fingerprints the watched trees. The first scan only primes the state;
// later scans broadcast once per detected change set.
func (w *Watcher) scan() {
	current := make(map[string]fingerprint, len(w.seen))
	for _, dir := range w.dirs {
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				// Unreadable entries are treated as absent.
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}
			current[path] = fingerprint{modTime: info.ModTime(), size: info.Size()}
			return nil
		})
	}

	changed := len(current) != len(w.seen)
	if !changed {
		for path, fp := range current {
			if prev, ok := w.seen[path]; !ok || prev != fp {
				changed = true
				break
			}
		}
	}

	w.seen = current
	if !w.primed {
		w.primed = true
		return
	}

	if changed {
		w.logger.Debug("content change detected")
		w.notifier.Broadcast()
		if w.metrics != nil {
			w.metrics.ReloadBroadcasts.Inc()
		}
	}
}

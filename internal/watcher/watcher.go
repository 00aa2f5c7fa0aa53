// Package watcher polls a project tree and re-runs a scan when files change.
package watcher

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/a-menaf-altintas/codescan/internal/discover"
)

const (
	baseInterval = 1 * time.Second
	maxInterval  = 60 * time.Second
)

type fileSnapshot struct {
	modTime time.Time
	size    int64
}

// ScanFunc is called when a change is detected.
type ScanFunc func(ctx context.Context) error

// Options configures a Watcher.
type Options struct {
	// Discover selects the files whose changes count.
	Discover discover.Options
	// Interval fixes the poll interval; zero means adaptive to tree size.
	Interval time.Duration
}

// Watcher polls one root for file changes and triggers re-scans.
type Watcher struct {
	root   string
	opts   Options
	scanFn ScanFunc

	snapshot map[string]fileSnapshot
	interval time.Duration
	nextPoll time.Time
	scans    int
}

// New creates a Watcher. scanFn is called when file changes are detected.
func New(root string, opts Options, scanFn ScanFunc) *Watcher {
	return &Watcher{root: root, opts: opts, scanFn: scanFn}
}

// Scans returns how many successful re-scans the watcher triggered.
func (w *Watcher) Scans() int {
	return w.scans
}

// Run blocks until ctx is cancelled. It ticks at the base interval and polls
// only when the current interval has elapsed.
func (w *Watcher) Run(ctx context.Context) {
	tick := baseInterval
	if w.opts.Interval > 0 && w.opts.Interval < tick {
		tick = w.opts.Interval
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	slog.Info("watcher.start", "root", w.root)
	for {
		select {
		case <-ctx.Done():
			slog.Info("watcher.stop", "root", w.root, "scans", w.scans)
			return
		case now := <-ticker.C:
			if now.Before(w.nextPoll) {
				continue
			}
			w.poll(ctx)
		}
	}
}

// poll captures a snapshot of the tree and compares it with the previous one.
// The first poll only records a baseline. A failed scan keeps the old
// snapshot so the change is retried next cycle.
func (w *Watcher) poll(ctx context.Context) {
	if _, err := os.Stat(w.root); err != nil {
		slog.Warn("watcher.root_gone", "path", w.root)
		w.nextPoll = time.Now().Add(maxInterval)
		return
	}

	snap, err := captureSnapshot(ctx, w.root, &w.opts.Discover)
	if err != nil {
		slog.Warn("watcher.snapshot", "path", w.root, "err", err)
		w.nextPoll = time.Now().Add(w.interval)
		return
	}

	interval := w.pollInterval(len(snap))

	if w.snapshot == nil {
		slog.Debug("watcher.baseline", "path", w.root, "files", len(snap))
		w.snapshot = snap
		w.interval = interval
		w.nextPoll = time.Now().Add(interval)
		return
	}

	if snapshotsEqual(w.snapshot, snap) {
		w.interval = interval
		w.nextPoll = time.Now().Add(interval)
		return
	}

	slog.Info("watcher.changed", "path", w.root, "files", len(snap))
	if err := w.scanFn(ctx); err != nil {
		slog.Warn("watcher.scan", "path", w.root, "err", err)
		w.nextPoll = time.Now().Add(interval)
		return
	}

	w.scans++
	w.snapshot = snap
	w.interval = interval
	w.nextPoll = time.Now().Add(interval)
}

// captureSnapshot records mtime and size of every discovered file.
func captureSnapshot(ctx context.Context, root string, opts *discover.Options) (map[string]fileSnapshot, error) {
	listing, err := discover.Discover(ctx, root, opts)
	if err != nil {
		return nil, err
	}

	snap := make(map[string]fileSnapshot, len(listing.Files))
	for _, f := range listing.Files {
		info, statErr := os.Stat(f.Path)
		if statErr != nil {
			continue
		}
		snap[f.RelPath] = fileSnapshot{
			modTime: info.ModTime(),
			size:    info.Size(),
		}
	}
	return snap, nil
}

// snapshotsEqual returns true if two snapshots have identical files with same mtime+size.
func snapshotsEqual(a, b map[string]fileSnapshot) bool {
	if len(a) != len(b) {
		return false
	}
	for path, aSnap := range a {
		bSnap, ok := b[path]
		if !ok {
			return false
		}
		if !aSnap.modTime.Equal(bSnap.modTime) || aSnap.size != bSnap.size {
			return false
		}
	}
	return true
}

func (w *Watcher) pollInterval(fileCount int) time.Duration {
	if w.opts.Interval > 0 {
		return w.opts.Interval
	}
	return pollInterval(fileCount)
}

// pollInterval computes the adaptive interval from file count.
// 1s base + 1s per 500 files, capped at 60s.
func pollInterval(fileCount int) time.Duration {
	ms := 1000 + (fileCount/500)*1000
	if ms > 60000 {
		ms = 60000
	}
	return time.Duration(ms) * time.Millisecond
}

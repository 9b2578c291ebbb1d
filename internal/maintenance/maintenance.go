// Package maintenance runs periodic housekeeping for the read API as Go
// tickers. It removes temporary files left by interrupted writes, drops
// cached responses once the collector has rewritten a season, and purges
// expired cache entries and idle rate-limit buckets.
package maintenance

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/albapepper/scoracle-collector/internal/cache"
)

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	SweepInterval   time.Duration // Orphaned temporary files
	TempMaxAge      time.Duration // Minimum age before a temporary file is removed
	RefreshInterval time.Duration // Data directory change detection
	PurgeInterval   time.Duration // Expired cache entries and idle clients
	ClientIdle      time.Duration // Idle time before a client's bucket is dropped
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig() Config {
	return Config{
		SweepInterval:   30 * time.Minute,
		TempMaxAge:      time.Hour,
		RefreshInterval: time.Minute,
		PurgeInterval:   5 * time.Minute,
		ClientIdle:      10 * time.Minute,
	}
}

// Pruner drops per-client state idle for longer than the given duration.
type Pruner interface {
	Prune(idle time.Duration) int
}

// Targets are the resources maintained. A nil Limiter skips client pruning.
type Targets struct {
	DataDir string
	Cache   *cache.Cache
	Limiter Pruner
}

// Start launches all configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, targets Targets, cfg Config, logger *slog.Logger) {
	dataDir, c := targets.DataDir, targets.Cache
	logger.Info("Maintenance tickers started",
		"sweep", cfg.SweepInterval,
		"refresh", cfg.RefreshInterval,
		"purge", cfg.PurgeInterval)

	tickers := make([]*time.Ticker, 0, 3)
	defer func() {
		for _, t := range tickers {
			t.Stop()
		}
	}()

	if cfg.SweepInterval > 0 {
		t := time.NewTicker(cfg.SweepInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() {
			n, err := SweepTempFiles(dataDir, cfg.TempMaxAge, time.Now())
			if err != nil {
				logger.Warn("Sweep: failed", "error", err)
			} else if n > 0 {
				logger.Info("Sweep: removed temporary files", "count", n)
			}
		})
	}

	if cfg.RefreshInterval > 0 {
		w := &Watcher{Dir: dataDir}
		// Record the starting state so the first tick does not flush.
		_, _ = w.Changed()
		t := time.NewTicker(cfg.RefreshInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() {
			changed, err := w.Changed()
			if err != nil {
				logger.Warn("Refresh: failed to scan data directory", "error", err)
				return
			}
			if changed {
				n := c.Flush()
				logger.Info("Refresh: season files changed, cache flushed", "entries", n)
			}
		})
	}

	if cfg.PurgeInterval > 0 {
		t := time.NewTicker(cfg.PurgeInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() {
			entries, clients := Purge(targets, cfg.ClientIdle)
			logger.Debug("Purge: finished", "cache_entries", entries, "clients", clients)
		})
	}

	<-ctx.Done()
	logger.Info("Maintenance tickers stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

// --------------------------------------------------------------------------
// Task implementations
// --------------------------------------------------------------------------

// Purge removes expired cache entries and, when a limiter is set, clients
// idle longer than idle.
func Purge(targets Targets, idle time.Duration) (entries, clients int) {
	if targets.Cache != nil {
		entries = targets.Cache.Purge()
	}
	if targets.Limiter != nil {
		clients = targets.Limiter.Prune(idle)
	}
	return entries, clients
}

func isTemp(name string) bool {
	return strings.Contains(name, ".db.tmp")
}

// SweepTempFiles removes temporary table files under dir whose modification
// time is older than maxAge. A missing dir is not an error.
func SweepTempFiles(dir string, maxAge time.Duration, now time.Time) (int, error) {
	removed := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == dir {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() || !isTemp(d.Name()) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if now.Sub(info.ModTime()) < maxAge {
			return nil
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		removed++
		return nil
	})
	return removed, err
}

// Watcher detects rewritten season files by their newest modification time
// and file count.
type Watcher struct {
	Dir string

	latest time.Time
	count  int
	seen   bool
}

// Changed scans Dir and reports whether the set of table files differs from
// the previous scan. The first scan only records state.
func (w *Watcher) Changed() (bool, error) {
	var latest time.Time
	count := 0
	err := filepath.WalkDir(w.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == w.Dir {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() || filepath.Ext(d.Name()) != ".db" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		count++
		if info.ModTime().After(latest) {
			latest = info.ModTime()
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	changed := w.seen && (count != w.count || !latest.Equal(w.latest))
	w.latest, w.count, w.seen = latest, count, true
	return changed, nil
}

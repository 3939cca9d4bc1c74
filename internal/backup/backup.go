// Package backup writes periodic JSON snapshots of all pastes to disk and
// runs the expiry sweep between snapshots.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"darkbin/internal/featureflags"
	"darkbin/internal/middleware"
	"darkbin/internal/repository"
)

const filePrefix = "pastes_backup_"

// Exporter owns the snapshot directory and the sweep/backup schedule.
type Exporter struct {
	repo     repository.PasteRepository
	dir      string
	retain   int
	interval time.Duration
	// sweepAfter is the grace window: a paste is only swept once its expiry
	// is at least this far in the past, so direct links keep working for a
	// while after a listing stops showing the paste.
	sweepAfter time.Duration
	flags      *featureflags.Manager
	log        *slog.Logger
}

func NewExporter(repo repository.PasteRepository, dir string, retain int, interval, sweepAfter time.Duration, flags *featureflags.Manager) *Exporter {
	if retain < 1 {
		retain = 1
	}
	return &Exporter{
		repo:       repo,
		dir:        dir,
		retain:     retain,
		interval:   interval,
		sweepAfter: sweepAfter,
		flags:      flags,
		log:        middleware.Logger,
	}
}

// Run executes the snapshot/sweep loop until ctx is cancelled. Failures are
// logged and the loop continues; a broken disk must not take the server down.
func (e *Exporter) Run(ctx context.Context) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	e.log.Info("backup loop started",
		slog.String("dir", e.dir),
		slog.Duration("interval", e.interval),
		slog.Int("retain", e.retain))

	for {
		select {
		case <-ctx.Done():
			e.log.Info("backup loop stopped")
			return
		case <-ticker.C:
			e.runOnce(ctx)
		}
	}
}

func (e *Exporter) runOnce(ctx context.Context) {
	if swept, err := e.Sweep(ctx); err != nil {
		e.log.Error("expiry sweep failed", slog.String("error", err.Error()))
	} else if swept > 0 {
		e.log.Info("expiry sweep removed pastes", slog.Int64("count", swept))
	}

	if e.flags.Enabled(featureflags.FlagBackupPaused, "") {
		e.log.Info("backup paused by feature flag")
		return
	}

	path, err := e.ExportOnce(ctx)
	if err != nil {
		middleware.BackupRuns.WithLabelValues("error").Inc()
		e.log.Error("backup export failed", slog.String("error", err.Error()))
		return
	}
	middleware.BackupRuns.WithLabelValues("ok").Inc()
	e.log.Info("backup written", slog.String("path", path))
}

// ExportOnce writes one snapshot file and prunes old ones down to the
// retention count. It returns the path of the file written.
func (e *Exporter) ExportOnce(ctx context.Context) (string, error) {
	pastes, err := e.repo.All(ctx)
	if err != nil {
		return "", fmt.Errorf("loading pastes for backup: %w", err)
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating backup dir: %w", err)
	}

	name := fmt.Sprintf("%s%d.json", filePrefix, time.Now().UnixMilli())
	path := filepath.Join(e.dir, name)

	data, err := json.MarshalIndent(pastes, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding backup: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("writing backup: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("finalizing backup: %w", err)
	}

	if err := e.prune(); err != nil {
		e.log.Warn("backup prune failed", slog.String("error", err.Error()))
	}

	return path, nil
}

// Sweep deletes pastes whose expiry passed more than sweepAfter ago.
func (e *Exporter) Sweep(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-e.sweepAfter).Format(time.RFC3339)
	swept, err := e.repo.SweepExpired(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if swept > 0 {
		middleware.ExpiredSwept.Add(float64(swept))
	}
	return swept, nil
}

// prune removes snapshot files beyond the newest retain. Snapshot names embed
// a millisecond timestamp, so lexicographic order is not chronological across
// digit-count boundaries; sort by parsed modification time instead.
func (e *Exporter) prune() error {
	entries, err := os.ReadDir(e.dir)
	if err != nil {
		return err
	}

	type snapshot struct {
		name string
		mod  time.Time
	}
	var snaps []snapshot
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		snaps = append(snaps, snapshot{name: name, mod: info.ModTime()})
	}

	if len(snaps) <= e.retain {
		return nil
	}

	sort.Slice(snaps, func(i, j int) bool { return snaps[i].mod.After(snaps[j].mod) })

	for _, old := range snaps[e.retain:] {
		if err := os.Remove(filepath.Join(e.dir, old.name)); err != nil {
			return err
		}
	}
	return nil
}

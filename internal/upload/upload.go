package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/claude/logbook/internal/ingest/alpha"
)

// Stats tracks push progress.
type Stats struct {
	FilesTotal    int
	FilesPushed   int
	FilesSkipped  int
	FilesErrored  int
	FilesRejected int

	SessionsSent int
	SetsInserted int64
}

// Pusher walks a directory of Alpha Progression CSV exports and POSTs each
// new or changed file to a logbook server.
type Pusher struct {
	client *Client
	state  *StateDB
	dir    string
	dryRun bool
	log    *slog.Logger
	stats  Stats
}

// New creates a new Pusher. client may be nil in dry-run mode.
func New(client *Client, state *StateDB, dir string, dryRun bool, log *slog.Logger) *Pusher {
	return &Pusher{
		client: client,
		state:  state,
		dir:    dir,
		dryRun: dryRun,
		log:    log,
	}
}

// Run pushes every *.csv file in the directory, oldest name first. Per-file
// failures are logged and counted; only a failure to list the directory or
// a cancelled context stops the run.
func (p *Pusher) Run(ctx context.Context) (*Stats, error) {
	files, err := filepath.Glob(filepath.Join(p.dir, "*.csv"))
	if err != nil {
		return &p.stats, err
	}
	sort.Strings(files)

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return &p.stats, err
		}
		p.stats.FilesTotal++
		p.pushFile(ctx, f)
	}
	return &p.stats, nil
}

func (p *Pusher) pushFile(ctx context.Context, path string) {
	relPath, _ := filepath.Rel(p.dir, path)
	log := p.log.With("file", relPath)

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("read failed", "error", err)
		p.stats.FilesErrored++
		return
	}
	size := int64(len(data))
	hash := HashBytes(data)

	pushed, err := p.state.IsPushed(ctx, relPath, size, hash)
	if err != nil {
		log.Warn("state check failed", "error", err)
		p.stats.FilesErrored++
		return
	}
	if pushed {
		p.stats.FilesSkipped++
		return
	}

	// Parse locally first so a broken export is reported without a round trip.
	sessions, err := alpha.Parse(bytes.NewReader(data))
	if err != nil {
		log.Warn("parse failed", "error", err)
		p.stats.FilesRejected++
		return
	}

	if p.dryRun {
		log.Info("would push", "sessions", len(sessions))
		p.stats.SessionsSent += len(sessions)
		return
	}

	res, err := p.client.SendAlpha(ctx, data)
	if err != nil {
		var rej *RejectedError
		if errors.As(err, &rej) {
			log.Warn("export rejected", "status", rej.Status, "error", rej.Body)
			p.stats.FilesRejected++
			return
		}
		log.Error("push failed", "error", err)
		p.stats.FilesErrored++
		return
	}

	if err := p.state.MarkPushed(ctx, relPath, size, hash, res.SessionsInserted); err != nil {
		log.Warn("recording push failed", "error", err)
	}
	p.stats.FilesPushed++
	p.stats.SessionsSent += res.SessionsInserted
	p.stats.SetsInserted += res.SetsInserted
	log.Info("pushed", "sessions", res.SessionsInserted, "sets", res.SetsInserted)
}

// Summary renders the stats for the terminal.
func (s *Stats) Summary() string {
	return fmt.Sprintf("files: %d total, %d pushed, %d skipped, %d rejected, %d errored; sessions: %d; sets: %d",
		s.FilesTotal, s.FilesPushed, s.FilesSkipped, s.FilesRejected, s.FilesErrored, s.SessionsSent, s.SetsInserted)
}

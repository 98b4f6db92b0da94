package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/coocood/freecache"

	"github.com/claude/logbook/internal/models"
)

// Store is the query surface the engine reads from.
type Store interface {
	History(ctx context.Context, exercise string, limit int) ([]models.Set, error)
	MostRecentFor(ctx context.Context, exercise, setType string) (*models.Set, error)
	RecentSessions(ctx context.Context, limit int) ([]models.Session, error)
}

// Engine computes PRs over a Store and memoizes them until the next write.
type Engine struct {
	store Store
	cache *freecache.Cache
	log   *slog.Logger

	// gen moves on every Invalidate. A PR computed across a move is not cached.
	gen atomic.Uint64
}

// NewEngine creates an Engine. cacheBytes <= 0 disables the PR cache.
func NewEngine(store Store, cacheBytes int, log *slog.Logger) *Engine {
	e := &Engine{store: store, log: log}
	if cacheBytes > 0 {
		e.cache = freecache.NewCache(cacheBytes)
	}
	return e
}

// Invalidate drops every cached PR. Call it after any write to the store.
func (e *Engine) Invalidate() {
	e.gen.Add(1)
	if e.cache != nil {
		e.cache.Clear()
	}
}

// BestPR returns the best-scoring set for (exercise, setType) among the
// newest PRWindow history rows, or nil when none scores.
func (e *Engine) BestPR(ctx context.Context, exercise, setType string) (*models.PR, error) {
	key := []byte(exercise + "\x00" + setType)
	if pr, ok := e.cached(key); ok {
		return pr, nil
	}

	gen := e.gen.Load()
	rows, err := e.store.History(ctx, exercise, PRWindow)
	if err != nil {
		return nil, fmt.Errorf("loading history for PR: %w", err)
	}
	pr := Best(rows, setType)
	if e.gen.Load() == gen {
		e.remember(key, pr)
	}
	return pr, nil
}

func (e *Engine) cached(key []byte) (*models.PR, bool) {
	if e.cache == nil {
		return nil, false
	}
	data, err := e.cache.Get(key)
	if err != nil {
		if !errors.Is(err, freecache.ErrNotFound) {
			e.log.Warn("pr cache read failed", "error", err)
		}
		return nil, false
	}
	var pr *models.PR
	if err := json.Unmarshal(data, &pr); err != nil {
		e.log.Warn("pr cache entry corrupt", "error", err)
		return nil, false
	}
	return pr, true
}

func (e *Engine) remember(key []byte, pr *models.PR) {
	if e.cache == nil {
		return
	}
	data, err := json.Marshal(pr)
	if err != nil {
		return
	}
	if err := e.cache.Set(key, data, 0); err != nil {
		e.log.Debug("pr cache entry not stored", "error", err)
	}
}

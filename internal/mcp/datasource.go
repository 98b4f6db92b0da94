package mcp

import (
	"context"

	"github.com/claude/logbook/internal/analytics"
	"github.com/claude/logbook/internal/logbook"
	"github.com/claude/logbook/internal/models"
	"github.com/claude/logbook/internal/program"
	"github.com/claude/logbook/internal/storage"
)

// DataSource abstracts the read side of the logbook for MCP tools. Local
// (an in-process service) and HTTPClient (remote via REST API) satisfy it.
type DataSource interface {
	Program(ctx context.Context) ([]program.Workout, error)
	Exercises(ctx context.Context) ([]string, error)
	LastFor(ctx context.Context, exercise, setType string) (*models.Set, error)
	History(ctx context.Context, exercise string, limit int) ([]models.Set, error)
	BestPR(ctx context.Context, exercise, setType string) (*models.PR, error)
	Suggest(ctx context.Context, exercise, setType string) (*models.Suggestion, error)
	RecentSessions(ctx context.Context, limit int) ([]models.Session, error)
	Snapshot(ctx context.Context) ([]analytics.SnapshotRow, error)
	BodyweightTrend(ctx context.Context, days int) (analytics.Trend, error)
	TrainingIntensity(ctx context.Context, days int, exercise string) (*storage.TrainingIntensityResult, error)
	Stats(ctx context.Context) (*storage.DataStats, error)
}

// Local serves MCP tools from an in-process service.
type Local struct {
	*logbook.Service
}

// Compile-time check: Local satisfies DataSource.
var _ DataSource = Local{}

// Program implements DataSource.
func (l Local) Program(context.Context) ([]program.Workout, error) {
	return l.Service.Program(), nil
}

// Exercises implements DataSource.
func (l Local) Exercises(context.Context) ([]string, error) {
	return l.Service.Exercises(), nil
}

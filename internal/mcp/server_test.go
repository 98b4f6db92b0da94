package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claude/logbook/internal/analytics"
	"github.com/claude/logbook/internal/logbook"
	"github.com/claude/logbook/internal/logging"
	"github.com/claude/logbook/internal/models"
	"github.com/claude/logbook/internal/program"
	"github.com/claude/logbook/internal/storage"
)

func newTestService(t *testing.T) *logbook.Service {
	t.Helper()
	db, err := storage.Open(context.Background(), storage.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	log := logging.Discard()
	svc := logbook.New(db, program.Default(), analytics.NewEngine(db, 1<<20, log), log)

	reps, rir, bw := int64(12), 0.0, 180.0
	_, err = svc.SaveSession(context.Background(), logbook.SaveRequest{
		Date:       "2024-03-01",
		Type:       "FB-A",
		Bodyweight: &bw,
		Sets: []models.SetInput{
			{Exercise: "Pull-Ups (Failure)", SetType: "Set 1 (Fail)", Load: "BW+20", Reps: &reps, RIR: &rir},
		},
	})
	require.NoError(t, err)
	return svc
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	return text.Text
}

// TestSuggestNextTool verifies the tool returns the progression for the last set.
func TestSuggestNextTool(t *testing.T) {
	h := &handlers{ds: Local{newTestService(t)}, log: logging.Discard()}

	res, err := h.suggestNext(context.Background(), call(map[string]any{
		"exercise": "Pull-Ups (Failure)",
		"set_type": "Set 1 (Fail)",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var next models.Suggestion
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &next))
	assert.Equal(t, "BW+25", next.Load)
}

// TestToolsRequireParams verifies missing arguments produce tool errors, not
// protocol errors.
func TestToolsRequireParams(t *testing.T) {
	h := &handlers{ds: Local{newTestService(t)}, log: logging.Discard()}
	ctx := context.Background()

	for name, fn := range map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"get_last_set":         h.getLastSet,
		"get_best_pr":          h.getBestPR,
		"suggest_next":         h.suggestNext,
		"get_exercise_history": h.getExerciseHistory,
		"calculate_plates":     h.calculatePlates,
	} {
		res, err := fn(ctx, call(map[string]any{"set_type": "Top Set"}))
		require.NoError(t, err, name)
		assert.True(t, res.IsError, name)
	}

	res, err := h.getBodyweightTrend(ctx, call(map[string]any{"days": 0}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestBestPRTool(t *testing.T) {
	h := &handlers{ds: Local{newTestService(t)}, log: logging.Discard()}

	res, err := h.getBestPR(context.Background(), call(map[string]any{
		"exercise": "Pull-Ups (Failure)",
		"set_type": "Set 1 (Fail)",
	}))
	require.NoError(t, err)

	var pr models.PR
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &pr))
	assert.Equal(t, 12.0, pr.Score)
}

func TestCalculatePlatesTool(t *testing.T) {
	h := &handlers{ds: Local{newTestService(t)}, log: logging.Discard()}

	res, err := h.calculatePlates(context.Background(), call(map[string]any{"target": 225.0}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), `"per_side":90`)

	res, err = h.calculatePlates(context.Background(), call(map[string]any{"target": 46.0}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

// TestResources verifies both resources serve JSON under their own URI.
func TestResources(t *testing.T) {
	h := &handlers{ds: Local{newTestService(t)}, log: logging.Discard()}
	ctx := context.Background()

	var req mcp.ReadResourceRequest
	req.Params.URI = "logbook://recent_sessions"
	contents, err := h.recentSessions(ctx, req)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text := contents[0].(mcp.TextResourceContents)
	assert.Equal(t, "logbook://recent_sessions", text.URI)

	var sessions []models.Session
	require.NoError(t, json.Unmarshal([]byte(text.Text), &sessions))
	require.Len(t, sessions, 1)
	assert.Equal(t, "FB-A", sessions[0].Type)

	req.Params.URI = "logbook://program"
	contents, err = h.programResource(ctx, req)
	require.NoError(t, err)
	var workouts []program.Workout
	require.NoError(t, json.Unmarshal([]byte(contents[0].(mcp.TextResourceContents).Text), &workouts))
	assert.Len(t, workouts, 3)
}

func TestNew(t *testing.T) {
	s := New(Local{newTestService(t)}, "test", logging.Discard())
	assert.NotNil(t, s)
}

package mcp

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/logbook/internal/logbook"
	"github.com/claude/logbook/internal/plates"
)

// --- Tool definitions ---

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List every exercise in the training program, sorted by name."),
)

var toolGetProgram = mcp.NewTool("get_program",
	mcp.WithDescription("Get the workout templates (e.g. FB-A, FB-B, FB-C), each with its ordered exercises and set types."),
)

var toolGetLastSet = mcp.NewTool("get_last_set",
	mcp.WithDescription("Get the most recently logged set for an exercise and set type. Returns null when nothing was logged."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exact exercise name as listed by list_exercises")),
	mcp.WithString("set_type", mcp.Required(), mcp.Description("Set type label (e.g. 'Top Set', 'Back-off', 'Set 1 (Fail)')")),
)

var toolGetExerciseHistory = mcp.NewTool("get_exercise_history",
	mcp.WithDescription("Get logged sets for an exercise across all set types, newest first. Each set has load, reps, RIR, notes, date and bodyweight."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exact exercise name")),
	mcp.WithNumber("limit", mcp.Description("Maximum sets to return. Defaults to 200.")),
)

var toolGetBestPR = mcp.NewTool("get_best_pr",
	mcp.WithDescription("Get the personal record for an exercise and set type. Weighted lifts are scored by Epley estimated 1RM; bodyweight failure movements by reps. Returns null when no set scores."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exact exercise name")),
	mcp.WithString("set_type", mcp.Required(), mcp.Description("Set type label")),
)

var toolSuggestNext = mcp.NewTool("suggest_next",
	mcp.WithDescription("Suggest load, reps and RIR for the next set of an exercise and set type, based on the last matching set. Returns null when nothing was logged."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exact exercise name")),
	mcp.WithString("set_type", mcp.Required(), mcp.Description("Set type label")),
)

var toolGetRecentSessions = mcp.NewTool("get_recent_sessions",
	mcp.WithDescription("Get the most recent sessions, newest first, with date, workout type, bodyweight, calories and sleep."),
	mcp.WithNumber("limit", mcp.Description("Maximum sessions to return. Defaults to 50.")),
)

var toolGetSnapshot = mcp.NewTool("get_snapshot",
	mcp.WithDescription("Key-lift snapshot: last set and PR for each key lift, with display text."),
)

var toolGetBodyweightTrend = mcp.NewTool("get_bodyweight_trend",
	mcp.WithDescription("Bodyweight readings over a trailing window with change, change per week, mean, min, max and regression slope per week."),
	mcp.WithNumber("days", mcp.Description("Window in days. Defaults to 7.")),
)

var toolGetTrainingIntensity = mcp.NewTool("get_training_intensity",
	mcp.WithDescription("RIR distribution, failure rate and per-exercise set/rep totals over a trailing window."),
	mcp.WithNumber("days", mcp.Description("Window in days. Defaults to 90.")),
	mcp.WithString("exercise", mcp.Description("Restrict to one exact exercise name")),
)

var toolGetStats = mcp.NewTool("get_stats",
	mcp.WithDescription("Totals of logged sessions and sets, the logged date range and a per-workout-type breakdown."),
)

var toolCalculatePlates = mcp.NewTool("calculate_plates",
	mcp.WithDescription("Plates to load on each side of the bar for a target weight (plates 45, 35, 25, 10, 5, 2.5)."),
	mcp.WithNumber("target", mcp.Required(), mcp.Description("Total target weight including the bar")),
	mcp.WithNumber("bar", mcp.Description("Bar weight. Defaults to 45.")),
)

// --- Tool handlers ---

func (h *handlers) listExercises(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := h.ds.Exercises(ctx)
	if err != nil {
		return h.queryFailed("list_exercises", err), nil
	}
	return jsonResult(names)
}

func (h *handlers) getProgram(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workouts, err := h.ds.Program(ctx)
	if err != nil {
		return h.queryFailed("get_program", err), nil
	}
	return jsonResult(workouts)
}

func (h *handlers) getLastSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, setType, errResult := requirePair(req)
	if errResult != nil {
		return errResult, nil
	}
	last, err := h.ds.LastFor(ctx, exercise, setType)
	if err != nil {
		return h.queryFailed("get_last_set", err), nil
	}
	return jsonResult(last)
}

func (h *handlers) getExerciseHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	rows, err := h.ds.History(ctx, exercise, req.GetInt("limit", 0))
	if err != nil {
		return h.queryFailed("get_exercise_history", err), nil
	}
	return jsonResult(rows)
}

func (h *handlers) getBestPR(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, setType, errResult := requirePair(req)
	if errResult != nil {
		return errResult, nil
	}
	pr, err := h.ds.BestPR(ctx, exercise, setType)
	if err != nil {
		return h.queryFailed("get_best_pr", err), nil
	}
	return jsonResult(pr)
}

func (h *handlers) suggestNext(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, setType, errResult := requirePair(req)
	if errResult != nil {
		return errResult, nil
	}
	next, err := h.ds.Suggest(ctx, exercise, setType)
	if err != nil {
		return h.queryFailed("suggest_next", err), nil
	}
	return jsonResult(next)
}

func (h *handlers) getRecentSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions, err := h.ds.RecentSessions(ctx, req.GetInt("limit", 0))
	if err != nil {
		return h.queryFailed("get_recent_sessions", err), nil
	}
	return jsonResult(sessions)
}

func (h *handlers) getSnapshot(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rows, err := h.ds.Snapshot(ctx)
	if err != nil {
		return h.queryFailed("get_snapshot", err), nil
	}
	return jsonResult(rows)
}

func (h *handlers) getBodyweightTrend(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := req.GetInt("days", 7)
	if days <= 0 {
		return mcp.NewToolResultError("days must be positive"), nil
	}
	trend, err := h.ds.BodyweightTrend(ctx, days)
	if err != nil {
		return h.queryFailed("get_bodyweight_trend", err), nil
	}
	return jsonResult(trend)
}

func (h *handlers) getTrainingIntensity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := req.GetInt("days", 90)
	if days <= 0 {
		return mcp.NewToolResultError("days must be positive"), nil
	}
	result, err := h.ds.TrainingIntensity(ctx, days, req.GetString("exercise", ""))
	if err != nil {
		return h.queryFailed("get_training_intensity", err), nil
	}
	return jsonResult(result)
}

func (h *handlers) getStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := h.ds.Stats(ctx)
	if err != nil {
		return h.queryFailed("get_stats", err), nil
	}
	return jsonResult(stats)
}

func (h *handlers) calculatePlates(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := req.RequireFloat("target")
	if err != nil {
		return mcp.NewToolResultError("target parameter is required"), nil
	}
	b, err := plates.Calculate(target, req.GetFloat("bar", plates.DefaultBar))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(b)
}

func requirePair(req mcp.CallToolRequest) (string, string, *mcp.CallToolResult) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return "", "", mcp.NewToolResultError("exercise parameter is required")
	}
	setType, err := req.RequireString("set_type")
	if err != nil {
		return "", "", mcp.NewToolResultError("set_type parameter is required")
	}
	return exercise, setType, nil
}

// queryFailed reports input errors verbatim and everything else generically.
func (h *handlers) queryFailed(tool string, err error) *mcp.CallToolResult {
	if errors.Is(err, logbook.ErrValidation) {
		return mcp.NewToolResultError(err.Error())
	}
	h.log.Error("mcp "+tool, "error", err)
	return mcp.NewToolResultError("query failed")
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

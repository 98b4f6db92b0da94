package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Logbook", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Workout logbook. Look up the training program, logged sets, personal records, next-set suggestions, bodyweight trend and training intensity. Loads are free text: plain numbers, \"<n>s\" for a dumbbell pair, \"BW\" or \"BW+<n>\" for bodyweight plus added weight."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
		server.ServerTool{Tool: toolGetProgram, Handler: h.getProgram},
		server.ServerTool{Tool: toolGetLastSet, Handler: h.getLastSet},
		server.ServerTool{Tool: toolGetExerciseHistory, Handler: h.getExerciseHistory},
		server.ServerTool{Tool: toolGetBestPR, Handler: h.getBestPR},
		server.ServerTool{Tool: toolSuggestNext, Handler: h.suggestNext},
		server.ServerTool{Tool: toolGetRecentSessions, Handler: h.getRecentSessions},
		server.ServerTool{Tool: toolGetSnapshot, Handler: h.getSnapshot},
		server.ServerTool{Tool: toolGetBodyweightTrend, Handler: h.getBodyweightTrend},
		server.ServerTool{Tool: toolGetTrainingIntensity, Handler: h.getTrainingIntensity},
		server.ServerTool{Tool: toolGetStats, Handler: h.getStats},
		server.ServerTool{Tool: toolCalculatePlates, Handler: h.calculatePlates},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resProgram, Handler: h.programResource},
		server.ServerResource{Resource: resRecentSessions, Handler: h.recentSessions},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resProgram = mcp.NewResource(
	"logbook://program",
	"Training Program",
	mcp.WithResourceDescription("Workout templates with their exercises and set types, in program order"),
	mcp.WithMIMEType("application/json"),
)

var resRecentSessions = mcp.NewResource(
	"logbook://recent_sessions",
	"Recent Sessions",
	mcp.WithResourceDescription("The 20 most recent sessions, newest first"),
	mcp.WithMIMEType("application/json"),
)

// Package mcp exposes the in-progress workout session to AI assistants over
// the Model Context Protocol. Tools mirror the tracker's mutation surface so
// an assistant can log a workout conversationally; the current session is
// also published as a resource.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/claude/liftlog/internal/api"
	"github.com/claude/liftlog/internal/workout"
)

// New creates an MCP server with all tools and resources registered. The
// backend client may be nil; finish_workout then returns the payload without
// submitting it.
func New(tracker *workout.Tracker, backend *api.Client, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("LiftLog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("LiftLog workout logger. Start a workout, add exercises and sets, fill in weight/reps/RPE, mark sets complete, and finish to submit. Weight and reps are free text in the user's display units; they are validated on completion and converted on submission."),
	)

	h := &handlers{tracker: tracker, backend: backend, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGetSession, Handler: h.getSession},
		server.ServerTool{Tool: toolStartWorkout, Handler: h.startWorkout},
		server.ServerTool{Tool: toolDiscardWorkout, Handler: h.discardWorkout},
		server.ServerTool{Tool: toolFinishWorkout, Handler: h.finishWorkout},
		server.ServerTool{Tool: toolSetSessionDate, Handler: h.setSessionDate},
		server.ServerTool{Tool: toolSetNotes, Handler: h.setNotes},
		server.ServerTool{Tool: toolAddExercise, Handler: h.addExercise},
		server.ServerTool{Tool: toolRemoveExercise, Handler: h.removeExercise},
		server.ServerTool{Tool: toolAddSet, Handler: h.addSet},
		server.ServerTool{Tool: toolRemoveSet, Handler: h.removeSet},
		server.ServerTool{Tool: toolUpdateSet, Handler: h.updateSet},
		server.ServerTool{Tool: toolSetSetType, Handler: h.setSetType},
		server.ServerTool{Tool: toolCompleteSet, Handler: h.completeSet},
		server.ServerTool{Tool: toolCreateSuperset, Handler: h.createSuperset},
		server.ServerTool{Tool: toolCopyPrevious, Handler: h.copyPrevious},
	)

	s.AddResources(
		server.ServerResource{Resource: resCurrentSession, Handler: h.currentSession},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	tracker *workout.Tracker
	backend *api.Client
	log     *slog.Logger
}

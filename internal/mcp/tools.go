package mcp

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/liftlog/internal/workout"
)

// splitIDs parses a comma-separated ID list, dropping empty entries.
func splitIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}

// --- Tool definitions ---

var toolGetSession = mcp.NewTool("get_session",
	mcp.WithDescription("Get the full current workout session: exercises, sets (with local IDs), superset groups, and cached previous performance."),
)

var toolStartWorkout = mcp.NewTool("start_workout",
	mcp.WithDescription("Start a workout session, replacing whatever session exists. Omit all parameters for a blank session dated today."),
	mcp.WithString("session_date", mcp.Description("Session date (YYYY-MM-DD). Defaults to today.")),
	mcp.WithString("edit_session_id", mcp.Description("Server session ID to edit. When set the finished workout revises that session instead of creating a new one.")),
)

var toolDiscardWorkout = mcp.NewTool("discard_workout",
	mcp.WithDescription("Discard the current session and reset to an empty one. Nothing is submitted."),
)

var toolFinishWorkout = mcp.NewTool("finish_workout",
	mcp.WithDescription("Build the submission payload from the current session and submit it to the configured server. Only completed sets with parseable weight and reps are included."),
)

var toolSetSessionDate = mcp.NewTool("set_session_date",
	mcp.WithDescription("Change the session date."),
	mcp.WithString("session_date", mcp.Required(), mcp.Description("New session date (YYYY-MM-DD)")),
)

var toolSetNotes = mcp.NewTool("set_notes",
	mcp.WithDescription("Set the session notes, replacing any existing notes."),
	mcp.WithString("notes", mcp.Required(), mcp.Description("Free-text session notes")),
)

var toolAddExercise = mcp.NewTool("add_exercise",
	mcp.WithDescription("Append an exercise to the session. It starts with one blank set. Returns the exercise's local ID."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Exercise name (e.g. 'Bench Press')")),
)

var toolRemoveExercise = mcp.NewTool("remove_exercise",
	mcp.WithDescription("Remove an exercise and all its sets. Superset groups referencing it are pruned."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Local ID of the exercise")),
)

var toolAddSet = mcp.NewTool("add_set",
	mcp.WithDescription("Append a set to an exercise. Weight and reps are prefilled from the exercise's last set. Returns the set's local ID."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Local ID of the exercise")),
)

var toolRemoveSet = mcp.NewTool("remove_set",
	mcp.WithDescription("Remove a set. Refused when it is the exercise's only set; remaining sets are renumbered."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Local ID of the exercise")),
	mcp.WithString("set_id", mcp.Required(), mcp.Description("Local ID of the set")),
)

var toolUpdateSet = mcp.NewTool("update_set",
	mcp.WithDescription("Update one field of a set. The value is stored verbatim; validation happens when the set is completed."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Local ID of the exercise")),
	mcp.WithString("set_id", mcp.Required(), mcp.Description("Local ID of the set")),
	mcp.WithString("field", mcp.Required(), mcp.Description("Field to update"), mcp.Enum("weight", "reps", "rpe")),
	mcp.WithString("value", mcp.Required(), mcp.Description("New value as display-unit text (e.g. '102.5', '8')")),
)

var toolSetSetType = mcp.NewTool("set_set_type",
	mcp.WithDescription("Change a set's type."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Local ID of the exercise")),
	mcp.WithString("set_id", mcp.Required(), mcp.Description("Local ID of the set")),
	mcp.WithString("set_type", mcp.Required(), mcp.Description("Set type"), mcp.Enum("normal", "warmup", "dropset", "amrap")),
)

var toolCompleteSet = mcp.NewTool("complete_set",
	mcp.WithDescription("Toggle a set's completed state. Completing requires parseable weight and reps; the result reports what is missing."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Local ID of the exercise")),
	mcp.WithString("set_id", mcp.Required(), mcp.Description("Local ID of the set")),
)

var toolCreateSuperset = mcp.NewTool("create_superset",
	mcp.WithDescription("Group two or more exercises into a superset. Returns the group ID."),
	mcp.WithString("exercise_ids", mcp.Required(), mcp.Description("Comma-separated local IDs of the exercises to group")),
)

var toolCopyPrevious = mcp.NewTool("copy_previous_set",
	mcp.WithDescription("Fill a set's weight and reps from the same-numbered set of the exercise's previous performance, if cached."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Local ID of the exercise")),
	mcp.WithString("set_id", mcp.Required(), mcp.Description("Local ID of the set")),
)

// --- Tool handlers ---

func sessionResult(s *workout.Session) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(s)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return sessionResult(h.tracker.Snapshot())
}

func (h *handlers) startWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opts := workout.StartOptions{
		SessionDate:   req.GetString("session_date", ""),
		EditSessionID: req.GetString("edit_session_id", ""),
	}
	if opts.EditSessionID != "" {
		opts.Mode = workout.ModeEdit
	}
	h.tracker.StartWorkout(opts)
	return sessionResult(h.tracker.Snapshot())
}

func (h *handlers) discardWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.tracker.DiscardWorkout()
	return mcp.NewToolResultText("session discarded"), nil
}

func (h *handlers) finishWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sub, editID, err := h.tracker.FinishWorkout()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	submitted := false
	if h.backend != nil {
		if err := h.backend.SubmitSession(sub, editID); err != nil {
			h.log.Error("mcp finish_workout: submission failed", "error", err)
			return mcp.NewToolResultError("submission failed: " + err.Error()), nil
		}
		submitted = true
		h.tracker.DiscardWorkout()
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"submitted": submitted,
		"payload":   sub,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) setSessionDate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := req.RequireString("session_date")
	if err != nil {
		return mcp.NewToolResultError("session_date parameter is required"), nil
	}
	if !h.tracker.SetSessionDate(date) {
		return mcp.NewToolResultError("invalid session date: " + date), nil
	}
	return mcp.NewToolResultText("session date set to " + date), nil
}

func (h *handlers) setNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	notes, err := req.RequireString("notes")
	if err != nil {
		return mcp.NewToolResultError("notes parameter is required"), nil
	}
	h.tracker.SetNotes(notes)
	return mcp.NewToolResultText("notes updated"), nil
}

func (h *handlers) addExercise(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name parameter is required"), nil
	}
	id := h.tracker.AddExercise(name)
	result, err := mcp.NewToolResultJSON(map[string]string{"exercise_id": id})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) removeExercise(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("exercise_id")
	if err != nil {
		return mcp.NewToolResultError("exercise_id parameter is required"), nil
	}
	if !h.tracker.RemoveExercise(id) {
		return mcp.NewToolResultError("unknown exercise: " + id), nil
	}
	return mcp.NewToolResultText("exercise removed"), nil
}

func (h *handlers) addSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exID, err := req.RequireString("exercise_id")
	if err != nil {
		return mcp.NewToolResultError("exercise_id parameter is required"), nil
	}
	id := h.tracker.AddSet(exID)
	if id == "" {
		return mcp.NewToolResultError("unknown exercise: " + exID), nil
	}
	result, err := mcp.NewToolResultJSON(map[string]string{"set_id": id})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) removeSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exID, setID, errResult := requireSetAddress(req)
	if errResult != nil {
		return errResult, nil
	}
	if !h.tracker.RemoveSet(exID, setID) {
		return mcp.NewToolResultError("set not removable (unknown, or the exercise's only set)"), nil
	}
	return mcp.NewToolResultText("set removed"), nil
}

func (h *handlers) updateSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exID, setID, errResult := requireSetAddress(req)
	if errResult != nil {
		return errResult, nil
	}
	field, err := req.RequireString("field")
	if err != nil {
		return mcp.NewToolResultError("field parameter is required"), nil
	}
	value, err := req.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError("value parameter is required"), nil
	}
	if !h.tracker.UpdateSetField(exID, setID, workout.SetField(field), value) {
		return mcp.NewToolResultError("unknown set or field"), nil
	}
	return mcp.NewToolResultText(field + " updated"), nil
}

func (h *handlers) setSetType(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exID, setID, errResult := requireSetAddress(req)
	if errResult != nil {
		return errResult, nil
	}
	setType, err := req.RequireString("set_type")
	if err != nil {
		return mcp.NewToolResultError("set_type parameter is required"), nil
	}
	if !h.tracker.UpdateSetType(exID, setID, workout.SetType(setType)) {
		return mcp.NewToolResultError("unknown set"), nil
	}
	return mcp.NewToolResultText("set type updated"), nil
}

func (h *handlers) completeSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exID, setID, errResult := requireSetAddress(req)
	if errResult != nil {
		return errResult, nil
	}
	res := h.tracker.ToggleSetCompleted(exID, setID)
	result, err := mcp.NewToolResultJSON(res)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) createSuperset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("exercise_ids")
	if err != nil {
		return mcp.NewToolResultError("exercise_ids parameter is required"), nil
	}
	ids := splitIDs(raw)
	groupID, ok := h.tracker.CreateSuperset(ids)
	if !ok {
		return mcp.NewToolResultError("superset requires at least two existing exercises"), nil
	}
	result, err := mcp.NewToolResultJSON(map[string]string{"group_id": groupID})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) copyPrevious(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exID, setID, errResult := requireSetAddress(req)
	if errResult != nil {
		return errResult, nil
	}
	if !h.tracker.CopyPreviousToSet(exID, setID) {
		return mcp.NewToolResultText("no previous performance available for that set"), nil
	}
	return mcp.NewToolResultText("previous values copied"), nil
}

// requireSetAddress extracts the exercise_id/set_id pair common to the
// per-set tools. The third return is a ready error result when either is
// missing.
func requireSetAddress(req mcp.CallToolRequest) (string, string, *mcp.CallToolResult) {
	exID, err := req.RequireString("exercise_id")
	if err != nil {
		return "", "", mcp.NewToolResultError("exercise_id parameter is required")
	}
	setID, err := req.RequireString("set_id")
	if err != nil {
		return "", "", mcp.NewToolResultError("set_id parameter is required")
	}
	return exID, setID, nil
}

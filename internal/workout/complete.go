package workout

import (
	"strconv"
	"strings"
)

// ToggleResult reports the outcome of a completion toggle. A rejected toggle
// leaves the set untouched and names the offending fields; it is an ordinary
// value, not an error.
type ToggleResult struct {
	Completed       bool   `json:"completed"`
	ValidationError string `json:"validation_error,omitempty"`
}

// parseNumericText parses the tolerant numeric-text format the set fields
// accept: surrounding spaces and a European decimal comma are allowed.
func parseNumericText(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// missingCompletionFields is the completion predicate: a set may complete only
// when weight and reps are present and parseable. Returns the fields that
// fail, in display order.
func missingCompletionFields(set *Set) []string {
	var missing []string
	if _, ok := parseNumericText(set.Weight); !ok {
		missing = append(missing, "weight")
	}
	if _, ok := parseNumericText(set.Reps); !ok {
		missing = append(missing, "reps")
	}
	return missing
}

// ToggleSetCompleted flips a set between incomplete and complete. Un-completing
// always succeeds and clears the completion timestamp. Completing runs the
// validator first; on rejection the state is unchanged and the result carries
// the missing fields. This is the only engine operation that can refuse a
// well-typed request.
func (t *Tracker) ToggleSetCompleted(exerciseID, setID string) ToggleResult {
	t.mu.Lock()
	defer t.mu.Unlock()

	set := t.findSetLocked(exerciseID, setID)
	if set == nil {
		return ToggleResult{ValidationError: "unknown set"}
	}

	if set.Completed {
		set.Completed = false
		set.CompletedAt = nil
		t.persistLocked()
		return ToggleResult{Completed: false}
	}

	if missing := missingCompletionFields(set); len(missing) > 0 {
		return ToggleResult{Completed: false, ValidationError: "Missing: " + strings.Join(missing, ", ")}
	}

	now := t.now()
	set.Completed = true
	set.CompletedAt = &now
	t.persistLocked()
	return ToggleResult{Completed: true}
}

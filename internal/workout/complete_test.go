package workout

import (
	"strings"
	"testing"
)

func addFilledSet(t *testing.T, tr *Tracker, exID, weight, reps string) string {
	t.Helper()
	setID := tr.Snapshot().findExercise(exID).Sets[0].LocalID
	tr.UpdateSetField(exID, setID, FieldWeight, weight)
	tr.UpdateSetField(exID, setID, FieldReps, reps)
	return setID
}

// TestToggleCompletesValidSet verifies the incomplete→complete transition
// stamps a completion time and reports success.
func TestToggleCompletesValidSet(t *testing.T) {
	tr := startedTracker(t)
	ex := tr.AddExercise("Bench Press")
	set := addFilledSet(t, tr, ex, "100", "5")

	res := tr.ToggleSetCompleted(ex, set)
	if !res.Completed || res.ValidationError != "" {
		t.Fatalf("toggle = %+v, want completed with no error", res)
	}

	got := tr.Snapshot().Exercises[0].Sets[0]
	if !got.Completed {
		t.Error("set not marked completed")
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(testClock) {
		t.Errorf("completed_at = %v, want %v", got.CompletedAt, testClock)
	}
}

// TestToggleRejectsUnderfilledSet verifies the validation rejection: state
// unchanged, structured result naming the missing fields.
func TestToggleRejectsUnderfilledSet(t *testing.T) {
	tests := []struct {
		name, weight, reps string
		wantMissing        []string
	}{
		{"both blank", "", "", []string{"weight", "reps"}},
		{"missing reps", "80", "", []string{"reps"}},
		{"missing weight", "", "8", []string{"weight"}},
		{"unparseable weight", "heavy", "8", []string{"weight"}},
		{"unparseable reps", "80", "a few", []string{"reps"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := startedTracker(t)
			ex := tr.AddExercise("Press")
			set := addFilledSet(t, tr, ex, tt.weight, tt.reps)

			res := tr.ToggleSetCompleted(ex, set)
			if res.Completed {
				t.Fatal("underfilled set completed")
			}
			if res.ValidationError == "" {
				t.Fatal("expected a validation error")
			}
			for _, field := range tt.wantMissing {
				if !strings.Contains(res.ValidationError, field) {
					t.Errorf("error %q does not name %q", res.ValidationError, field)
				}
			}
			if got := tr.Snapshot().Exercises[0].Sets[0]; got.Completed || got.CompletedAt != nil {
				t.Error("rejected toggle mutated the set")
			}
		})
	}
}

// TestToggleTwiceRoundTrips verifies complete→incomplete clears the timestamp
// and that a double toggle restores the original completion state.
func TestToggleTwiceRoundTrips(t *testing.T) {
	tr := startedTracker(t)
	ex := tr.AddExercise("Squat")
	set := addFilledSet(t, tr, ex, "140", "3")

	tr.ToggleSetCompleted(ex, set)
	res := tr.ToggleSetCompleted(ex, set)
	if res.Completed || res.ValidationError != "" {
		t.Fatalf("second toggle = %+v, want incomplete with no error", res)
	}

	got := tr.Snapshot().Exercises[0].Sets[0]
	if got.Completed || got.CompletedAt != nil {
		t.Errorf("after double toggle: completed=%v completed_at=%v", got.Completed, got.CompletedAt)
	}
}

// TestUncompleteNeedsNoValidation verifies a completed set whose fields were
// since blanked can still be un-completed.
func TestUncompleteNeedsNoValidation(t *testing.T) {
	tr := startedTracker(t)
	ex := tr.AddExercise("Squat")
	set := addFilledSet(t, tr, ex, "140", "3")
	tr.ToggleSetCompleted(ex, set)
	tr.UpdateSetField(ex, set, FieldWeight, "")

	res := tr.ToggleSetCompleted(ex, set)
	if res.Completed || res.ValidationError != "" {
		t.Errorf("un-complete = %+v, want success", res)
	}
}

// TestParseNumericText covers the tolerant numeric-text format shared by the
// completion validator and the payload builder.
func TestParseNumericText(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"100", 100, true},
		{" 7.5 ", 7.5, true},
		{"102,5", 102.5, true},
		{"", 0, false},
		{"  ", 0, false},
		{"abc", 0, false},
		{"8 reps", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseNumericText(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseNumericText(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

package units

import (
	"math"
	"testing"

	"github.com/claude/liftlog/internal/workout"
)

// TestMetricIsIdentity verifies metric input is already canonical.
func TestMetricIsIdentity(t *testing.T) {
	if got := ToKilograms(100, workout.UnitsMetric); got != 100 {
		t.Errorf("ToKilograms(100, metric) = %v", got)
	}
	if got := FromKilograms(100, workout.UnitsMetric); got != 100 {
		t.Errorf("FromKilograms(100, metric) = %v", got)
	}
}

// TestImperialRoundTrip verifies lb→kg→lb returns the original value within
// floating point tolerance.
func TestImperialRoundTrip(t *testing.T) {
	for _, lbs := range []float64{45, 135, 225.5, 0} {
		kg := ToKilograms(lbs, workout.UnitsImperial)
		back := FromKilograms(kg, workout.UnitsImperial)
		if math.Abs(back-lbs) > 1e-9 {
			t.Errorf("round trip %v lbs -> %v kg -> %v lbs", lbs, kg, back)
		}
	}
}

// TestKnownConversion pins a familiar plate-math value: 225 lbs is about
// 102.06 kg.
func TestKnownConversion(t *testing.T) {
	kg := ToKilograms(225, workout.UnitsImperial)
	if math.Abs(kg-102.058) > 0.01 {
		t.Errorf("225 lbs = %v kg, want ~102.06", kg)
	}
}

// TestCopyForwardSubmissionRoundTrip wires both converters into an imperial
// tracker and checks a cached kilogram weight survives copy-forward and
// submission unchanged: FromKilograms renders it in pounds for the set text,
// ToKilograms takes it back to canonical in the payload.
func TestCopyForwardSubmissionRoundTrip(t *testing.T) {
	tr := workout.NewTracker(workout.Options{
		Units:       workout.UnitsImperial,
		Convert:     ToKilograms,
		ConvertBack: FromKilograms,
	})
	tr.StartWorkout(workout.StartOptions{})
	ex := tr.AddExercise("Deadlift")
	tr.SetPreviousPerformance(map[string]*workout.PreviousPerformance{
		"deadlift": {Sets: []workout.PreviousSet{{WeightKg: 100, Reps: 5}}},
	})

	set := tr.Snapshot().Exercises[0].Sets[0].LocalID
	if !tr.CopyPreviousToSet(ex, set) {
		t.Fatal("copy should succeed")
	}

	sub, _, err := tr.FinishWorkout()
	if err != nil {
		t.Fatal(err)
	}
	if got := sub.Exercises[0].Sets[0].WeightKg; math.Abs(got-100) > 1e-9 {
		t.Errorf("weight_kg = %v, want 100", got)
	}
}

package workout

import (
	"errors"
	"time"
)

// Submission is the wire shape the backend accepts for a finished session.
type Submission struct {
	SessionDate string               `json:"session_date"`
	Exercises   []SubmissionExercise `json:"exercises"`
	StartTime   *string              `json:"start_time"`
	EndTime     string               `json:"end_time"`
	Metadata    SubmissionMetadata   `json:"metadata"`
}

type SubmissionExercise struct {
	ExerciseName string          `json:"exercise_name"`
	Sets         []SubmissionSet `json:"sets"`
}

type SubmissionSet struct {
	Reps     float64  `json:"reps"`
	WeightKg float64  `json:"weight_kg"`
	RPE      *float64 `json:"rpe,omitempty"`
}

type SubmissionMetadata struct {
	Notes          string               `json:"notes,omitempty"`
	SupersetGroups []SubmissionSuperset `json:"superset_groups,omitempty"`
}

type SubmissionSuperset struct {
	ID            string   `json:"id"`
	ExerciseNames []string `json:"exercise_names"`
}

// ErrNoActiveSession is returned by FinishWorkout when nothing is in progress.
var ErrNoActiveSession = errors.New("no active session")

// BuildSubmission maps the session to the backend wire shape. Weight text is
// interpreted once, here: parsed as entered and converted to kilograms through
// the supplied converter. Numeric coercion is best-effort — a malformed field
// becomes zero (or is omitted, for RPE) rather than failing the payload; the
// completion validator has already vetted every set the user meant to count.
func (s *Session) BuildSubmission(convert WeightConverter, units UnitSystem, now time.Time) *Submission {
	sub := &Submission{
		SessionDate: s.SessionDate,
		Exercises:   make([]SubmissionExercise, 0, len(s.Exercises)),
		EndTime:     now.Format(time.RFC3339),
	}
	if s.StartedAt != nil {
		st := s.StartedAt.Format(time.RFC3339)
		sub.StartTime = &st
	}

	for _, ex := range s.Exercises {
		se := SubmissionExercise{ExerciseName: ex.Name, Sets: make([]SubmissionSet, 0, len(ex.Sets))}
		for _, set := range ex.Sets {
			ss := SubmissionSet{}
			if reps, ok := parseNumericText(set.Reps); ok {
				ss.Reps = reps
			}
			if w, ok := parseNumericText(set.Weight); ok {
				if convert != nil {
					w = convert(w, units)
				}
				ss.WeightKg = w
			}
			if rpe, ok := parseNumericText(set.RPE); ok {
				ss.RPE = &rpe
			}
			se.Sets = append(se.Sets, ss)
		}
		sub.Exercises = append(sub.Exercises, se)
	}

	sub.Metadata.Notes = s.Notes
	for _, g := range s.SupersetGroups {
		names := make([]string, len(g.ExerciseIDs))
		for i, id := range g.ExerciseIDs {
			// Pruning on exercise removal keeps ids resolvable; an empty
			// name here would indicate a logic defect upstream.
			if ex := s.findExercise(id); ex != nil {
				names[i] = ex.Name
			}
		}
		sub.Metadata.SupersetGroups = append(sub.Metadata.SupersetGroups, SubmissionSuperset{
			ID:            g.ID,
			ExerciseNames: names,
		})
	}

	return sub
}

// FinishWorkout computes the submission payload from the current state, in
// the tracker's configured unit system. The second return is the server
// session id being edited, empty for a new session; it is read under the same
// lock as the payload so the pair is always consistent. FinishWorkout does
// not mutate the session; callers discard or reset after the submission is
// accepted.
func (t *Tracker) FinishWorkout() (*Submission, string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.session.Active {
		return nil, "", ErrNoActiveSession
	}
	editID := ""
	if t.session.Mode == ModeEdit {
		editID = t.session.EditSessionID
	}
	return t.session.BuildSubmission(t.convert, t.units, t.now()), editID, nil
}

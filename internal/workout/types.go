package workout

import (
	"time"

	"github.com/google/uuid"
)

// Mode distinguishes a brand-new session from a revision of one that already
// exists on the server.
type Mode string

const (
	ModeNew  Mode = "new"
	ModeEdit Mode = "edit"
)

// SetType tags how a set counts toward the workout.
type SetType string

const (
	SetNormal  SetType = "normal"
	SetWarmup  SetType = "warmup"
	SetDropSet SetType = "dropset"
	SetAMRAP   SetType = "amrap"
)

// UnitSystem names the unit family weight text was entered in.
type UnitSystem string

const (
	UnitsMetric   UnitSystem = "metric"
	UnitsImperial UnitSystem = "imperial"
)

// WeightConverter converts a weight entered in the given unit system to
// kilograms. The session model never interprets weight text itself; the
// converter is supplied by the surrounding application.
type WeightConverter func(value float64, units UnitSystem) float64

// Set is one logged set of an exercise. Weight, reps and RPE hold the user's
// raw text and are only parsed at completion/submission time.
type Set struct {
	LocalID     string     `json:"local_id"`
	Number      int        `json:"set_number"`
	Weight      string     `json:"weight"`
	Reps        string     `json:"reps"`
	RPE         string     `json:"rpe"`
	Type        SetType    `json:"set_type"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Exercise holds an ordered run of sets. An exercise always has at least one
// set; removing the last remaining set is a no-op.
type Exercise struct {
	LocalID string `json:"local_id"`
	Name    string `json:"exercise_name"`
	Sets    []Set  `json:"sets"`
}

// SupersetGroup marks exercises the user performs back-to-back. Membership is
// by exercise local id and always references exercises present in the session.
type SupersetGroup struct {
	ID          string   `json:"id"`
	ExerciseIDs []string `json:"exercise_local_ids"`
}

// PreviousSet is one set from an earlier logged session, weight in kilograms.
type PreviousSet struct {
	WeightKg float64 `json:"weight_kg"`
	Reps     int     `json:"reps"`
}

// PreviousPerformance is the cached prior-session data for one exercise name.
type PreviousPerformance struct {
	Sets []PreviousSet `json:"sets"`
}

// Session is the aggregate root for one in-progress (or in-revision) workout.
// A nil entry in Previous means the server was asked and had nothing.
type Session struct {
	WorkoutID        string                          `json:"workout_id"`
	Mode             Mode                            `json:"mode"`
	EditSessionID    string                          `json:"edit_session_id,omitempty"`
	SessionDate      string                          `json:"session_date"`
	StartedAt        *time.Time                      `json:"started_at,omitempty"`
	Exercises        []Exercise                      `json:"exercises"`
	SupersetGroups   []SupersetGroup                 `json:"superset_groups"`
	Notes            string                          `json:"notes,omitempty"`
	SourceTemplateID string                          `json:"source_template_id,omitempty"`
	Previous         map[string]*PreviousPerformance `json:"previous_performance"`
	Active           bool                            `json:"is_active"`
}

// newID returns a locally-unique opaque identifier.
func newID() string {
	return uuid.NewString()
}

// defaultSession is the inactive empty state every workout starts from and
// that DiscardWorkout resets to.
func defaultSession() *Session {
	return &Session{
		Mode:     ModeNew,
		Previous: map[string]*PreviousPerformance{},
	}
}

// Clone returns a deep copy of the session, safe to hand across goroutines.
func (s *Session) Clone() *Session {
	c := *s
	if s.StartedAt != nil {
		t := *s.StartedAt
		c.StartedAt = &t
	}
	if s.Exercises != nil {
		c.Exercises = make([]Exercise, len(s.Exercises))
		for i, ex := range s.Exercises {
			c.Exercises[i] = ex
			c.Exercises[i].Sets = make([]Set, len(ex.Sets))
			for j, set := range ex.Sets {
				c.Exercises[i].Sets[j] = set
				if set.CompletedAt != nil {
					t := *set.CompletedAt
					c.Exercises[i].Sets[j].CompletedAt = &t
				}
			}
		}
	}
	if s.SupersetGroups != nil {
		c.SupersetGroups = make([]SupersetGroup, len(s.SupersetGroups))
		for i, g := range s.SupersetGroups {
			c.SupersetGroups[i] = g
			c.SupersetGroups[i].ExerciseIDs = append([]string(nil), g.ExerciseIDs...)
		}
	}
	c.Previous = make(map[string]*PreviousPerformance, len(s.Previous))
	for name, prev := range s.Previous {
		if prev == nil {
			c.Previous[name] = nil
			continue
		}
		p := PreviousPerformance{Sets: append([]PreviousSet(nil), prev.Sets...)}
		c.Previous[name] = &p
	}
	return &c
}

func (s *Session) findExercise(localID string) *Exercise {
	for i := range s.Exercises {
		if s.Exercises[i].LocalID == localID {
			return &s.Exercises[i]
		}
	}
	return nil
}

func (e *Exercise) findSet(localID string) *Set {
	for i := range e.Sets {
		if e.Sets[i].LocalID == localID {
			return &e.Sets[i]
		}
	}
	return nil
}

// renumber restores the 1..N invariant on set numbers after a removal.
func (e *Exercise) renumber() {
	for i := range e.Sets {
		e.Sets[i].Number = i + 1
	}
}

// Package workout holds the in-progress session model: the durable record of
// an exercise session being built interactively. Every operation is a
// synchronous state transition; after each one the full session is snapshotted
// and handed to the persistence sink without blocking the caller.
package workout

import (
	"sync"
	"time"
)

// Options configures a Tracker. All fields are optional.
type Options struct {
	// Persist receives a deep copy of the session after every mutation. It
	// must not block; pair it with a write-behind store writer.
	Persist func(*Session)

	// ValidSessionDate gates SetSessionDate and the date passed to
	// StartWorkout. Nil accepts any date string.
	ValidSessionDate func(string) bool

	// Units is the display unit system weight text is entered in. Empty
	// means metric.
	Units UnitSystem

	// Convert turns entered weight into kilograms for submission payloads.
	// Nil means weights are already canonical.
	Convert WeightConverter

	// ConvertBack turns cached kilogram values into display units when
	// previous performance is copied into a set. Nil means no conversion.
	ConvertBack WeightConverter

	// Restored seeds the tracker with a recovered snapshot, typically the
	// last durably-written state from a previous process.
	Restored *Session

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Tracker owns the single active session for the process and exposes all
// mutations. Methods are safe for concurrent use; each runs to completion
// under one lock, so callers observe the same serialized semantics the UI
// event loop would provide.
type Tracker struct {
	mu          sync.Mutex
	session     *Session
	persist     func(*Session)
	validDate   func(string) bool
	units       UnitSystem
	convert     WeightConverter
	convertBack WeightConverter
	now         func() time.Time
}

// NewTracker creates a tracker holding either the restored snapshot or the
// default inactive session.
func NewTracker(opts Options) *Tracker {
	t := &Tracker{
		session:     opts.Restored,
		persist:     opts.Persist,
		validDate:   opts.ValidSessionDate,
		units:       opts.Units,
		convert:     opts.Convert,
		convertBack: opts.ConvertBack,
		now:         opts.Now,
	}
	if t.session == nil {
		t.session = defaultSession()
	}
	if t.session.Previous == nil {
		t.session.Previous = map[string]*PreviousPerformance{}
	}
	if t.units == "" {
		t.units = UnitsMetric
	}
	if t.now == nil {
		t.now = time.Now
	}
	return t
}

// persistLocked hands a snapshot of the current state to the persistence sink.
// Callers hold t.mu.
func (t *Tracker) persistLocked() {
	if t.persist != nil {
		t.persist(t.session.Clone())
	}
}

// Snapshot returns a deep copy of the current session state.
func (t *Tracker) Snapshot() *Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.session.Clone()
}

// Active reports whether a session is in progress.
func (t *Tracker) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.session.Active
}

// TemplateExercise seeds one exercise when starting from a saved template.
type TemplateExercise struct {
	Name string `json:"name"`
	Sets int    `json:"sets"`
}

// StartOptions carries the arguments to StartWorkout.
type StartOptions struct {
	Mode             Mode               `json:"mode"`
	EditSessionID    string             `json:"edit_session_id"`
	SessionDate      string             `json:"session_date"`
	SourceTemplateID string             `json:"source_template_id"`
	Template         []TemplateExercise `json:"template"`
}

// StartWorkout resets to a fresh active session. A supplied session date is
// used only if it passes the injected validator; otherwise today's date is
// taken. Template exercises are seeded with blank sets.
func (t *Tracker) StartWorkout(opts StartOptions) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	s := defaultSession()
	s.WorkoutID = newID()
	s.Mode = ModeNew
	if opts.Mode == ModeEdit && opts.EditSessionID != "" {
		s.Mode = ModeEdit
		s.EditSessionID = opts.EditSessionID
	}
	s.SessionDate = now.Format("2006-01-02")
	if opts.SessionDate != "" && t.dateOK(opts.SessionDate) {
		s.SessionDate = opts.SessionDate
	}
	s.StartedAt = &now
	s.SourceTemplateID = opts.SourceTemplateID
	s.Active = true

	for _, te := range opts.Template {
		ex := Exercise{LocalID: newID(), Name: te.Name}
		n := te.Sets
		if n < 1 {
			n = 1
		}
		for i := 0; i < n; i++ {
			ex.Sets = append(ex.Sets, Set{LocalID: newID(), Number: i + 1, Type: SetNormal})
		}
		s.Exercises = append(s.Exercises, ex)
	}

	t.session = s
	t.persistLocked()
}

// DiscardWorkout resets every field to the default inactive state. Idempotent.
func (t *Tracker) DiscardWorkout() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.session = defaultSession()
	t.persistLocked()
}

// SetSessionDate replaces the session date if the injected validator accepts
// it. Returns false (state unchanged) otherwise.
func (t *Tracker) SetSessionDate(date string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.dateOK(date) {
		return false
	}
	t.session.SessionDate = date
	t.persistLocked()
	return true
}

func (t *Tracker) dateOK(date string) bool {
	return t.validDate == nil || t.validDate(date)
}

// SetNotes replaces the session's free-text notes.
func (t *Tracker) SetNotes(notes string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.session.Notes = notes
	t.persistLocked()
}

// AddExercise appends a new exercise with a single blank set and returns its
// local id.
func (t *Tracker) AddExercise(name string) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	ex := Exercise{
		LocalID: newID(),
		Name:    name,
		Sets:    []Set{{LocalID: newID(), Number: 1, Type: SetNormal}},
	}
	t.session.Exercises = append(t.session.Exercises, ex)
	t.persistLocked()
	return ex.LocalID
}

// RemoveExercise removes the exercise and prunes it from every superset
// group; groups left with fewer than two members are deleted. Returns false
// if the id is unknown.
func (t *Tracker) RemoveExercise(localID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := -1
	for i := range t.session.Exercises {
		if t.session.Exercises[i].LocalID == localID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	t.session.Exercises = append(t.session.Exercises[:idx], t.session.Exercises[idx+1:]...)
	t.pruneSupersetsLocked(localID)
	t.persistLocked()
	return true
}

// ReorderExercises moves one exercise within the display order. Out-of-range
// indexes leave the state unchanged.
func (t *Tracker) ReorderExercises(from, to int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := len(t.session.Exercises)
	if from < 0 || from >= n || to < 0 || to >= n {
		return false
	}
	if from == to {
		return true
	}
	ex := t.session.Exercises[from]
	rest := append(t.session.Exercises[:from], t.session.Exercises[from+1:]...)
	t.session.Exercises = append(rest[:to], append([]Exercise{ex}, rest[to:]...)...)
	t.persistLocked()
	return true
}

// AddSet appends a set to the exercise, carrying the previous last set's
// weight and reps forward as a convenience default. RPE starts blank and the
// set starts incomplete. Returns the new set's local id, or "" if the
// exercise is unknown.
func (t *Tracker) AddSet(exerciseID string) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	ex := t.session.findExercise(exerciseID)
	if ex == nil {
		return ""
	}
	set := Set{LocalID: newID(), Number: len(ex.Sets) + 1, Type: SetNormal}
	if n := len(ex.Sets); n > 0 {
		set.Weight = ex.Sets[n-1].Weight
		set.Reps = ex.Sets[n-1].Reps
	}
	ex.Sets = append(ex.Sets, set)
	t.persistLocked()
	return set.LocalID
}

// RemoveSet removes the set and renumbers the remainder. Removing an
// exercise's only set is a no-op: an exercise always keeps at least one.
func (t *Tracker) RemoveSet(exerciseID, setID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	ex := t.session.findExercise(exerciseID)
	if ex == nil || len(ex.Sets) <= 1 {
		return false
	}
	idx := -1
	for i := range ex.Sets {
		if ex.Sets[i].LocalID == setID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	ex.Sets = append(ex.Sets[:idx], ex.Sets[idx+1:]...)
	ex.renumber()
	t.persistLocked()
	return true
}

// SetField names a free-form numeric-text field of a set.
type SetField string

const (
	FieldWeight SetField = "weight"
	FieldReps   SetField = "reps"
	FieldRPE    SetField = "rpe"
)

// UpdateSetField stores the raw text value verbatim. No parsing happens here;
// validation runs at completion and submission time.
func (t *Tracker) UpdateSetField(exerciseID, setID string, field SetField, value string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	set := t.findSetLocked(exerciseID, setID)
	if set == nil {
		return false
	}
	switch field {
	case FieldWeight:
		set.Weight = value
	case FieldReps:
		set.Reps = value
	case FieldRPE:
		set.RPE = value
	default:
		return false
	}
	t.persistLocked()
	return true
}

// UpdateSetType replaces the set's type tag.
func (t *Tracker) UpdateSetType(exerciseID, setID string, setType SetType) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	set := t.findSetLocked(exerciseID, setID)
	if set == nil {
		return false
	}
	set.Type = setType
	t.persistLocked()
	return true
}

func (t *Tracker) findSetLocked(exerciseID, setID string) *Set {
	ex := t.session.findExercise(exerciseID)
	if ex == nil {
		return nil
	}
	return ex.findSet(setID)
}

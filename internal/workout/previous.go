package workout

import (
	"strconv"
	"strings"
)

// SetPreviousPerformance merges fetched prior-session data into the cache.
// Keys are stored lower-cased; the merge is additive with last write winning
// per key. A nil value records that the server was asked and found nothing.
func (t *Tracker) SetPreviousPerformance(entries map[string]*PreviousPerformance) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for name, data := range entries {
		t.session.Previous[strings.ToLower(name)] = data
	}
	t.persistLocked()
}

// CopyPreviousToSet overwrites a set's weight and reps with the values logged
// at the same position in the previous session for that exercise name
// (matched case-insensitively). The cache holds kilograms but the set's
// weight field holds display-unit text, so the value goes through the
// injected back-converter before it is written. Silent no-op when there is no
// cache entry or the position has no counterpart.
func (t *Tracker) CopyPreviousToSet(exerciseID, setID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	ex := t.session.findExercise(exerciseID)
	if ex == nil {
		return false
	}
	prev := t.session.Previous[strings.ToLower(ex.Name)]
	if prev == nil {
		return false
	}

	pos := -1
	for i := range ex.Sets {
		if ex.Sets[i].LocalID == setID {
			pos = i
			break
		}
	}
	if pos < 0 || pos >= len(prev.Sets) {
		return false
	}

	w := prev.Sets[pos].WeightKg
	if t.convertBack != nil {
		w = t.convertBack(w, t.units)
	}
	ex.Sets[pos].Weight = strconv.FormatFloat(w, 'f', -1, 64)
	ex.Sets[pos].Reps = strconv.Itoa(prev.Sets[pos].Reps)
	t.persistLocked()
	return true
}

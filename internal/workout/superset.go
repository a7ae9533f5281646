package workout

// CreateSuperset groups the given exercises. It succeeds only when at least
// two ids are supplied and every id references an exercise currently in the
// session; otherwise it returns ("", false) and changes nothing. A rejection
// here is a validation outcome, not an error.
func (t *Tracker) CreateSuperset(exerciseIDs []string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(exerciseIDs) < 2 {
		return "", false
	}
	for _, id := range exerciseIDs {
		if t.session.findExercise(id) == nil {
			return "", false
		}
	}

	g := SupersetGroup{
		ID:          newID(),
		ExerciseIDs: append([]string(nil), exerciseIDs...),
	}
	t.session.SupersetGroups = append(t.session.SupersetGroups, g)
	t.persistLocked()
	return g.ID, true
}

// RemoveSuperset deletes the group with the given id. No-op if absent.
func (t *Tracker) RemoveSuperset(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.session.SupersetGroups {
		if t.session.SupersetGroups[i].ID == id {
			t.session.SupersetGroups = append(t.session.SupersetGroups[:i], t.session.SupersetGroups[i+1:]...)
			t.persistLocked()
			return
		}
	}
}

// pruneSupersetsLocked drops a removed exercise from every group and deletes
// groups whose membership falls below two. This keeps group membership
// structurally valid; no other operation can break it. Callers hold t.mu.
func (t *Tracker) pruneSupersetsLocked(exerciseID string) {
	kept := t.session.SupersetGroups[:0]
	for _, g := range t.session.SupersetGroups {
		ids := g.ExerciseIDs[:0]
		for _, id := range g.ExerciseIDs {
			if id != exerciseID {
				ids = append(ids, id)
			}
		}
		g.ExerciseIDs = ids
		if len(g.ExerciseIDs) >= 2 {
			kept = append(kept, g)
		}
	}
	t.session.SupersetGroups = kept
}

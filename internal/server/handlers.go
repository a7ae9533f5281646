package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/claude/liftlog/internal/workout"
)

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Snapshot())
}

func (s *Server) handleStartWorkout(w http.ResponseWriter, r *http.Request) {
	var opts workout.StartOptions
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
			return
		}
	}
	s.tracker.StartWorkout(opts)
	writeJSON(w, http.StatusCreated, s.tracker.Snapshot())
}

func (s *Server) handleDiscardWorkout(w http.ResponseWriter, r *http.Request) {
	s.tracker.DiscardWorkout()
	writeJSON(w, http.StatusOK, map[string]string{"status": "discarded"})
}

// handleFinishWorkout builds the submission payload, submits it when a
// backend is configured, and discards the session only after the backend
// accepted it. Offline, the payload is returned for the caller to deal with
// and the session stays intact.
func (s *Server) handleFinishWorkout(w http.ResponseWriter, r *http.Request) {
	sub, editID, err := s.tracker.FinishWorkout()
	if err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}

	submitted := false
	if s.backend != nil {
		if err := s.backend.SubmitSession(sub, editID); err != nil {
			s.log.Error("session submission failed", "error", err)
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
			return
		}
		submitted = true
		s.tracker.DiscardWorkout()
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"submitted": submitted,
		"payload":   sub,
	})
}

func (s *Server) handleSetSessionDate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionDate string `json:"session_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if !s.tracker.SetSessionDate(req.SessionDate) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "invalid session date"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"session_date": req.SessionDate})
}

func (s *Server) handleSetNotes(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	s.tracker.SetNotes(req.Notes)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAddExercise(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	id := s.tracker.AddExercise(req.Name)
	writeJSON(w, http.StatusCreated, map[string]string{"local_id": id})
}

func (s *Server) handleRemoveExercise(w http.ResponseWriter, r *http.Request) {
	if !s.tracker.RemoveExercise(chi.URLParam(r, "exerciseID")) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown exercise"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (s *Server) handleReorderExercises(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From int `json:"from"`
		To   int `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if !s.tracker.ReorderExercises(req.From, req.To) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "index out of range"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAddSet(w http.ResponseWriter, r *http.Request) {
	id := s.tracker.AddSet(chi.URLParam(r, "exerciseID"))
	if id == "" {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown exercise"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"local_id": id})
}

func (s *Server) handleRemoveSet(w http.ResponseWriter, r *http.Request) {
	// A refusal here covers both an unknown id and the only-set case; the
	// UI treats both as "nothing happened".
	if !s.tracker.RemoveSet(chi.URLParam(r, "exerciseID"), chi.URLParam(r, "setID")) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "set not removable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (s *Server) handleUpdateSetField(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	ok := s.tracker.UpdateSetField(
		chi.URLParam(r, "exerciseID"), chi.URLParam(r, "setID"),
		workout.SetField(req.Field), req.Value,
	)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown set or field"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleUpdateSetType(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SetType string `json:"set_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	ok := s.tracker.UpdateSetType(
		chi.URLParam(r, "exerciseID"), chi.URLParam(r, "setID"),
		workout.SetType(req.SetType),
	)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown set"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleToggleSet always answers 200 with the toggle result; a validation
// rejection is an ordinary outcome the UI branches on, not an HTTP error.
func (s *Server) handleToggleSet(w http.ResponseWriter, r *http.Request) {
	res := s.tracker.ToggleSetCompleted(chi.URLParam(r, "exerciseID"), chi.URLParam(r, "setID"))
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCopyPrevious(w http.ResponseWriter, r *http.Request) {
	copied := s.tracker.CopyPreviousToSet(chi.URLParam(r, "exerciseID"), chi.URLParam(r, "setID"))
	writeJSON(w, http.StatusOK, map[string]bool{"copied": copied})
}

func (s *Server) handleCreateSuperset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ExerciseIDs []string `json:"exercise_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	id, ok := s.tracker.CreateSuperset(req.ExerciseIDs)
	if !ok {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error": "superset requires at least two existing exercises",
		})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleRemoveSuperset(w http.ResponseWriter, r *http.Request) {
	s.tracker.RemoveSuperset(chi.URLParam(r, "groupID"))
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (s *Server) handleSetPrevious(w http.ResponseWriter, r *http.Request) {
	var entries map[string]*workout.PreviousPerformance
	if err := json.NewDecoder(r.Body).Decode(&entries); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	s.tracker.SetPreviousPerformance(entries)
	writeJSON(w, http.StatusOK, map[string]int{"entries": len(entries)})
}

// handleRefreshPrevious fetches prior-performance data from the backend for
// every exercise currently in the session and merges it into the cache.
func (s *Server) handleRefreshPrevious(w http.ResponseWriter, r *http.Request) {
	if s.backend == nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "no backend configured"})
		return
	}

	snap := s.tracker.Snapshot()
	names := make([]string, 0, len(snap.Exercises))
	for _, ex := range snap.Exercises {
		names = append(names, ex.Name)
	}

	entries, err := s.backend.FetchPreviousPerformance(names)
	if err != nil {
		s.log.Error("previous performance fetch failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	s.tracker.SetPreviousPerformance(entries)
	writeJSON(w, http.StatusOK, map[string]int{"entries": len(entries)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

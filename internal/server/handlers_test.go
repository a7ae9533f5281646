package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/api"
	"github.com/claude/liftlog/internal/workout"
)

func testServer(t *testing.T, backend *api.Client) *Server {
	t.Helper()
	tracker := workout.NewTracker(workout.Options{
		Now: func() time.Time { return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC) },
		ValidSessionDate: func(d string) bool {
			_, err := time.Parse("2006-01-02", d)
			return err == nil
		},
	})
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(tracker, backend, "", log)
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return v
}

// TestSessionLifecycleOverHTTP drives a full workout through the REST
// surface: start, build up an exercise, complete a set, and finish offline.
func TestSessionLifecycleOverHTTP(t *testing.T) {
	s := testServer(t, nil)

	rec := do(t, s, http.MethodPost, "/api/v1/session/start", workout.StartOptions{Mode: workout.ModeNew})
	if rec.Code != http.StatusCreated {
		t.Fatalf("start status = %d", rec.Code)
	}

	rec = do(t, s, http.MethodPost, "/api/v1/session/exercises", map[string]string{"name": "Bench Press"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add exercise status = %d: %s", rec.Code, rec.Body)
	}
	exID := decode[map[string]string](t, rec)["local_id"]

	rec = do(t, s, http.MethodPost, "/api/v1/session/exercises/"+exID+"/sets", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add set status = %d", rec.Code)
	}

	sess := decode[workout.Session](t, do(t, s, http.MethodGet, "/api/v1/session/", nil))
	if len(sess.Exercises) != 1 || len(sess.Exercises[0].Sets) != 2 {
		t.Fatalf("session shape = %d exercises, want 1 with 2 sets", len(sess.Exercises))
	}
	set1 := sess.Exercises[0].Sets[0].LocalID

	base := "/api/v1/session/exercises/" + exID + "/sets/" + set1
	do(t, s, http.MethodPut, base+"/field", map[string]string{"field": "weight", "value": "100"})
	do(t, s, http.MethodPut, base+"/field", map[string]string{"field": "reps", "value": "5"})

	res := decode[workout.ToggleResult](t, do(t, s, http.MethodPost, base+"/toggle", nil))
	if !res.Completed || res.ValidationError != "" {
		t.Fatalf("toggle = %+v", res)
	}

	rec = do(t, s, http.MethodPost, "/api/v1/session/finish", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("finish status = %d: %s", rec.Code, rec.Body)
	}
	finish := decode[struct {
		Submitted bool               `json:"submitted"`
		Payload   workout.Submission `json:"payload"`
	}](t, rec)
	if finish.Submitted {
		t.Error("offline finish should not report submitted")
	}
	if len(finish.Payload.Exercises) != 1 || finish.Payload.Exercises[0].Sets[0].Reps != 5 {
		t.Errorf("payload = %+v", finish.Payload)
	}
}

// TestToggleRejectionOverHTTP verifies an underfilled set's rejection comes
// back as a structured 200 response the UI can branch on.
func TestToggleRejectionOverHTTP(t *testing.T) {
	s := testServer(t, nil)
	do(t, s, http.MethodPost, "/api/v1/session/start", nil)
	exID := decode[map[string]string](t, do(t, s, http.MethodPost, "/api/v1/session/exercises", map[string]string{"name": "Row"}))["local_id"]
	sess := decode[workout.Session](t, do(t, s, http.MethodGet, "/api/v1/session/", nil))
	setID := sess.Exercises[0].Sets[0].LocalID

	rec := do(t, s, http.MethodPost, "/api/v1/session/exercises/"+exID+"/sets/"+setID+"/toggle", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	res := decode[workout.ToggleResult](t, rec)
	if res.Completed || res.ValidationError == "" {
		t.Errorf("toggle = %+v, want rejection with validation error", res)
	}
}

// TestSupersetEndpoints verifies creation rejection (422) and success (201).
func TestSupersetEndpoints(t *testing.T) {
	s := testServer(t, nil)
	do(t, s, http.MethodPost, "/api/v1/session/start", nil)
	a := decode[map[string]string](t, do(t, s, http.MethodPost, "/api/v1/session/exercises", map[string]string{"name": "A"}))["local_id"]
	b := decode[map[string]string](t, do(t, s, http.MethodPost, "/api/v1/session/exercises", map[string]string{"name": "B"}))["local_id"]

	rec := do(t, s, http.MethodPost, "/api/v1/session/supersets", map[string][]string{"exercise_ids": {a}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("single-member status = %d, want 422", rec.Code)
	}

	rec = do(t, s, http.MethodPost, "/api/v1/session/supersets", map[string][]string{"exercise_ids": {a, b}})
	if rec.Code != http.StatusCreated {
		t.Fatalf("pair status = %d", rec.Code)
	}
	if decode[map[string]string](t, rec)["id"] == "" {
		t.Error("created superset has no id")
	}
}

// TestSessionDateRejection verifies the injected date validator surfaces as
// a 422.
func TestSessionDateRejection(t *testing.T) {
	s := testServer(t, nil)
	do(t, s, http.MethodPost, "/api/v1/session/start", nil)

	rec := do(t, s, http.MethodPut, "/api/v1/session/date", map[string]string{"session_date": "not-a-date"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}

	rec = do(t, s, http.MethodPut, "/api/v1/session/date", map[string]string{"session_date": "2026-03-13"})
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

// TestUnknownExerciseIs404 verifies missing-target operations are reported,
// not swallowed.
func TestUnknownExerciseIs404(t *testing.T) {
	s := testServer(t, nil)
	do(t, s, http.MethodPost, "/api/v1/session/start", nil)

	rec := do(t, s, http.MethodDelete, "/api/v1/session/exercises/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// TestFinishSubmitsAndDiscards verifies the online path: the payload reaches
// the backend and the session resets afterwards.
func TestFinishSubmitsAndDiscards(t *testing.T) {
	var got workout.Submission
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	}))
	defer backend.Close()

	s := testServer(t, api.NewClient(backend.URL, "k"))
	do(t, s, http.MethodPost, "/api/v1/session/start", nil)
	do(t, s, http.MethodPost, "/api/v1/session/exercises", map[string]string{"name": "Squat"})

	rec := do(t, s, http.MethodPost, "/api/v1/session/finish", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("finish status = %d: %s", rec.Code, rec.Body)
	}
	if len(got.Exercises) != 1 || got.Exercises[0].ExerciseName != "Squat" {
		t.Errorf("backend received %+v", got)
	}

	sess := decode[workout.Session](t, do(t, s, http.MethodGet, "/api/v1/session/", nil))
	if sess.Active {
		t.Error("session still active after submitted finish")
	}
}

// TestRefreshPrevious verifies the fetch-and-merge path into the
// prior-performance cache.
func TestRefreshPrevious(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]*workout.PreviousPerformance{
			"bench press": {Sets: []workout.PreviousSet{{WeightKg: 90, Reps: 5}}},
		})
	}))
	defer backend.Close()

	s := testServer(t, api.NewClient(backend.URL, "k"))
	do(t, s, http.MethodPost, "/api/v1/session/start", nil)
	do(t, s, http.MethodPost, "/api/v1/session/exercises", map[string]string{"name": "Bench Press"})

	rec := do(t, s, http.MethodPost, "/api/v1/session/previous/refresh", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh status = %d: %s", rec.Code, rec.Body)
	}

	sess := decode[workout.Session](t, do(t, s, http.MethodGet, "/api/v1/session/", nil))
	if sess.Previous["bench press"] == nil {
		t.Error("cache not populated after refresh")
	}
}

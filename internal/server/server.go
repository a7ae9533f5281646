// Package server exposes the session model to the local UI as a REST
// surface. Handlers are thin: they decode arguments, invoke one tracker
// operation, and report the outcome; all session semantics live in the
// workout package.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/claude/liftlog/internal/api"
	"github.com/claude/liftlog/internal/workout"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	tracker *workout.Tracker
	backend *api.Client // nil in offline mode
	log     *slog.Logger
	router  chi.Router
}

// New creates a new Server with all routes configured. An empty apiKey
// disables request authentication (loopback/tsnet deployments).
func New(tracker *workout.Tracker, backend *api.Client, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		tracker: tracker,
		backend: backend,
		log:     log,
		router:  chi.NewRouter(),
	}
	s.routes(apiKey)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes(apiKey string) {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	if apiKey != "" {
		s.router.Use(APIKeyAuth(apiKey))
	}

	s.router.Route("/api/v1/session", func(r chi.Router) {
		r.Get("/", s.handleGetSession)
		r.Post("/start", s.handleStartWorkout)
		r.Post("/discard", s.handleDiscardWorkout)
		r.Post("/finish", s.handleFinishWorkout)
		r.Put("/date", s.handleSetSessionDate)
		r.Put("/notes", s.handleSetNotes)

		r.Post("/exercises", s.handleAddExercise)
		r.Post("/exercises/reorder", s.handleReorderExercises)
		r.Delete("/exercises/{exerciseID}", s.handleRemoveExercise)

		r.Post("/exercises/{exerciseID}/sets", s.handleAddSet)
		r.Delete("/exercises/{exerciseID}/sets/{setID}", s.handleRemoveSet)
		r.Put("/exercises/{exerciseID}/sets/{setID}/field", s.handleUpdateSetField)
		r.Put("/exercises/{exerciseID}/sets/{setID}/type", s.handleUpdateSetType)
		r.Post("/exercises/{exerciseID}/sets/{setID}/toggle", s.handleToggleSet)
		r.Post("/exercises/{exerciseID}/sets/{setID}/copy-previous", s.handleCopyPrevious)

		r.Post("/supersets", s.handleCreateSuperset)
		r.Delete("/supersets/{groupID}", s.handleRemoveSuperset)

		r.Post("/previous", s.handleSetPrevious)
		r.Post("/previous/refresh", s.handleRefreshPrevious)
	})
}

package http

import (
	"encoding/json"
	"net/http"

	"github.com/ericplane/classnotes-quiz/internal/auth"
	"github.com/ericplane/classnotes-quiz/internal/progress"
)

// Lecture identities are paths ("lectures/week1.md"), so they travel as a
// query parameter rather than a route segment.

// ListAttemptsHandler returns the learner's attempt history for a lecture,
// oldest first.
func ListAttemptsHandler(store progress.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lectureID := r.URL.Query().Get("lecture_id")
		if lectureID == "" {
			http.Error(w, "lecture_id required", 400)
			return
		}
		attempts, err := store.ListAttempts(r.Context(), auth.LearnerID(r), lectureID)
		if err != nil {
			http.Error(w, "history unavailable", http.StatusServiceUnavailable)
			return
		}
		if attempts == nil {
			attempts = []progress.Attempt{}
		}
		_ = json.NewEncoder(w).Encode(attempts)
	}
}

// ClearProgressHandler drops the in-progress snapshot so the next open starts
// a fresh attempt (explicit retake).
func ClearProgressHandler(store progress.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lectureID := r.URL.Query().Get("lecture_id")
		if lectureID == "" {
			http.Error(w, "lecture_id required", 400)
			return
		}
		if err := store.ClearProgress(r.Context(), auth.LearnerID(r), lectureID); err != nil {
			http.Error(w, "progress unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

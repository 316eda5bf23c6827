package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ericplane/classnotes-quiz/internal/auth"
	"github.com/ericplane/classnotes-quiz/internal/quiz"
	"github.com/ericplane/classnotes-quiz/internal/session"

	"github.com/go-chi/chi/v5"
)

// OpenSessionHandler opens a quiz session for the requesting learner. Missing
// documents map to 404, structurally invalid ones to 422; the host shows both
// at the open call site. Nothing is rendered on failure.
func OpenSessionHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			QuizPath string `json:"quiz_path"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if req.QuizPath == "" {
			http.Error(w, "quiz_path required", 400)
			return
		}
		id, s, err := mgr.Open(r.Context(), req.QuizPath, auth.LearnerID(r))
		if err != nil {
			writeOpenError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(struct {
			SessionID string         `json:"session_id"`
			View      *session.View  `json:"view"`
			Warnings  []quiz.Warning `json:"warnings,omitempty"`
		}{id, s.View(), s.Warnings()})
	}
}

func GetSessionHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		var view *session.View
		err := mgr.With(id, func(s *session.Session) error {
			view = s.View()
			return nil
		})
		if err != nil {
			http.Error(w, err.Error(), 404)
			return
		}
		_ = json.NewEncoder(w).Encode(view)
	}
}

func SelectAnswerHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		var req struct {
			QuestionID string      `json:"question_id"`
			Value      interface{} `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		var view *session.View
		err := mgr.With(id, func(s *session.Session) error {
			v, err := s.Select(r.Context(), req.QuestionID, req.Value)
			view = v
			return err
		})
		if err != nil {
			writeSessionError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(view)
	}
}

func GotoHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		var req struct {
			Index int `json:"index"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		var view *session.View
		err := mgr.With(id, func(s *session.Session) error {
			v, err := s.Goto(r.Context(), req.Index)
			view = v
			return err
		})
		if err != nil {
			writeSessionError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(view)
	}
}

func SubmitHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		var view *session.View
		err := mgr.With(id, func(s *session.Session) error {
			v, err := s.Submit(r.Context())
			view = v
			return err
		})
		if err != nil {
			writeSessionError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(view)
	}
}

// CloseSessionHandler tears down the render state only; persisted answers and
// progress are untouched.
func CloseSessionHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		if err := mgr.Close(id); err != nil {
			http.Error(w, err.Error(), 404)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeOpenError(w http.ResponseWriter, err error) {
	var ve *quiz.ValidationError
	switch {
	case errors.Is(err, quiz.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &ve):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, session.ErrNotActive):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

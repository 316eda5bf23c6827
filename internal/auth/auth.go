// Package auth scopes persisted progress to a learner identity. The tool is
// single-learner by default (everything keys under "local"); a shared
// deployment can enable bearer tokens so each learner gets their own progress
// and history rows.
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultLearner is used when no token is presented.
const DefaultLearner = "local"

type Service struct{ hmac []byte }

func NewService(secret string) *Service { return &Service{hmac: []byte(secret)} }

type Claims struct {
	Sub string `json:"sub"`
	jwt.RegisteredClaims
}

func (s *Service) IssueToken(learnerID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Sub: learnerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "classnotes-quiz",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(30 * 24 * time.Hour)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.hmac)
}

func (s *Service) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.hmac, nil
	})
	if err != nil || !token.Valid {
		return nil, err
	}
	c, _ := token.Claims.(*Claims)
	return c, nil
}

type ctxKey struct{}

// LearnerID reports the learner bound to the request, defaulting to "local".
func LearnerID(r *http.Request) string {
	if v, ok := r.Context().Value(ctxKey{}).(string); ok && v != "" {
		return v
	}
	return DefaultLearner
}

// Middleware resolves an optional bearer token to a learner id. A missing
// header falls back to the default learner; a malformed token is rejected.
func Middleware(s *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if h == "" {
				next.ServeHTTP(w, r)
				return
			}
			if !strings.HasPrefix(h, "Bearer ") {
				http.Error(w, "missing bearer", http.StatusUnauthorized)
				return
			}
			c, err := s.Parse(strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				http.Error(w, "bad token", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKey{}, c.Sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// POST /auth/token  { "learner_id": "..." } — local trust: the tool issues a
// token for whatever identity the learner claims.
func TokenHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			LearnerID string `json:"learner_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.LearnerID == "" {
			http.Error(w, "learner_id required", http.StatusBadRequest)
			return
		}
		tok, err := s.IssueToken(req.LearnerID)
		if err != nil {
			http.Error(w, "issue token", 500)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": tok})
	}
}

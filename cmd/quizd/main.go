package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"time"

	api "github.com/ericplane/classnotes-quiz/internal/api/http"
	"github.com/ericplane/classnotes-quiz/internal/auth"
	"github.com/ericplane/classnotes-quiz/internal/config"
	"github.com/ericplane/classnotes-quiz/internal/db"
	"github.com/ericplane/classnotes-quiz/internal/progress"
	"github.com/ericplane/classnotes-quiz/internal/quiz"
	"github.com/ericplane/classnotes-quiz/internal/render"
	"github.com/ericplane/classnotes-quiz/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// --- Progress store ---
	var store progress.Store
	switch cfg.ProgressDriver {
	case "sqlite", "postgres":
		dbh, err := db.Open(ctx, db.Driver(cfg.ProgressDriver), cfg.DBDSN)
		if err != nil {
			log.Fatalf("db open failed: %v", err)
		}
		store = progress.NewSQLStore(dbh)
	case "redis":
		rs := progress.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rs.Ping(ctx); err != nil {
			log.Fatalf("redis ping failed: %v", err)
		}
		store = rs
	case "memory":
		store = progress.NewMemoryStore()
	default:
		log.Fatalf("unsupported progress driver: %s", cfg.ProgressDriver)
	}

	// --- Collaborators ---
	source, err := quiz.NewFSSource(cfg.NotesDir)
	if err != nil {
		log.Fatalf("notes dir: %v", err)
	}
	var renderer render.Renderer = render.Passthrough{}
	if cfg.EnableMarkdown {
		renderer = render.NewMarkdown()
	}
	var rng *rand.Rand
	if cfg.ShuffleSeed != 0 {
		rng = rand.New(rand.NewSource(cfg.ShuffleSeed))
	}

	mgr := session.NewManager(session.Config{
		Source:   source,
		Store:    store,
		Renderer: renderer,
		Rand:     rng,
	})
	authSvc := auth.NewService(cfg.AuthSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.EnableAuth {
		r.Post("/auth/token", auth.TokenHandler(authSvc))
	}

	r.Group(func(pr chi.Router) {
		pr.Use(auth.Middleware(authSvc))

		pr.Post("/sessions", api.OpenSessionHandler(mgr))
		pr.Get("/sessions/{sessionID}", api.GetSessionHandler(mgr))
		pr.Post("/sessions/{sessionID}/answers", api.SelectAnswerHandler(mgr))
		pr.Post("/sessions/{sessionID}/goto", api.GotoHandler(mgr))
		pr.Post("/sessions/{sessionID}/submit", api.SubmitHandler(mgr))
		pr.Delete("/sessions/{sessionID}", api.CloseSessionHandler(mgr))

		pr.Get("/attempts", api.ListAttemptsHandler(store))
		pr.Delete("/progress", api.ClearProgressHandler(store))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (progress=%s, notes=%s)", cfg.HTTPAddr, cfg.ProgressDriver, cfg.NotesDir)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}

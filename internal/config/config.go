package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	HTTPAddr string
	NotesDir string // base path quiz references resolve against

	ProgressDriver string // sqlite|postgres|redis|memory
	DBDSN          string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	EnableAuth bool
	AuthSecret string

	EnableMarkdown bool
	ShuffleSeed    int64 // 0 = time-seeded

	CORSOrigins []string
}

func FromEnv() Config {
	return Config{
		HTTPAddr:       envOr("HTTP_ADDR", ":8080"),
		NotesDir:       envOr("NOTES_DIR", "./notes"),
		ProgressDriver: envOr("PROGRESS_DRIVER", "sqlite"),
		DBDSN:          envOr("DB_DSN", ""),
		RedisAddr:      envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        envInt("REDIS_DB", 0),
		EnableAuth:     envBool("ENABLE_AUTH", false),
		AuthSecret:     envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		EnableMarkdown: envBool("ENABLE_MARKDOWN", true),
		ShuffleSeed:    int64(envInt("SHUFFLE_SEED", 0)),
		CORSOrigins:    csvOr("CORS_ORIGINS", "http://localhost:3000,http://localhost:8000"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/thesavant42/gitsome-search/internal/api"
	"github.com/thesavant42/gitsome-search/internal/db"
)

const (
	defaultDBPath   = "gitsome-search.db"
	defaultLogLevel = "info"
)

// Config holds runtime configuration
type Config struct {
	Token         string // GITHUB_TOKEN, optional (higher rate limits)
	APIBaseURL    string // GITSOME_API_URL
	DBPath        string // GITSOME_DB
	Backend       string // GITSOME_STORE: sqlite or bolt
	LogLevel      string // GITSOME_LOG_LEVEL
	StrictFilters bool   // GITSOME_STRICT_FILTERS
	ExactCache    bool   // GITSOME_EXACT_CACHE
	MaxHistory    int    // GITSOME_MAX_HISTORY, 0 = unbounded
}

// Load reads configuration from the environment, after loading a local .env
// file if one exists. Variables already set in the environment win over .env.
func Load() Config {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	return Config{
		Token:         getEnv("GITHUB_TOKEN", ""),
		APIBaseURL:    strings.TrimRight(getEnv("GITSOME_API_URL", api.DefaultBaseURL), "/"),
		DBPath:        getEnv("GITSOME_DB", defaultDBPath),
		Backend:       strings.ToLower(getEnv("GITSOME_STORE", db.BackendSQLite)),
		LogLevel:      strings.ToLower(getEnv("GITSOME_LOG_LEVEL", defaultLogLevel)),
		StrictFilters: getEnvBool("GITSOME_STRICT_FILTERS", false),
		ExactCache:    getEnvBool("GITSOME_EXACT_CACHE", false),
		MaxHistory:    getEnvInt("GITSOME_MAX_HISTORY", 0),
	}
}

// Level returns the parsed log level, falling back to info
func (c Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendNeo4j    = "neo4j"
)

// Config contains runtime settings for the server
type Config struct {
	LogLevel string
	Host     string // default 0.0.0.0
	Port     string // default PORT env or 8080

	// Backend selects the repository implementation
	Backend string

	Postgres struct {
		URL string
	}
	Neo4j struct {
		URI      string
		Username string
		Password string
	}
	Adzuna struct {
		AppID   string
		AppKey  string
		Country string
	} // Adzuna API credentials
	Sheets struct {
		CredentialsPath string
	}

	TransitionPolicy    string
	GovernorCooldown    time.Duration
	SearchDebounce      time.Duration
	AppliedHydrateLimit int
	ListRatePerMinute   int
	MembershipDBPath    string
	HTTPClientTimeout   time.Duration
	ShutdownTimeout     time.Duration
}

// AdzunaEnabled reports whether import credentials are present
func (c Config) AdzunaEnabled() bool {
	return c.Adzuna.AppID != "" && c.Adzuna.AppKey != ""
}

// SheetsEnabled reports whether export credentials are present
func (c Config) SheetsEnabled() bool {
	return c.Sheets.CredentialsPath != ""
}

// Load reads an optional .env file, then populates config from environment variables
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		LogLevel:            "info",
		Host:                "0.0.0.0",
		Port:                "8080",
		Backend:             BackendMemory,
		TransitionPolicy:    "permissive",
		GovernorCooldown:    30 * time.Second,
		SearchDebounce:      300 * time.Millisecond,
		AppliedHydrateLimit: 500,
		ListRatePerMinute:   60,
		MembershipDBPath:    "data/membership.db",
		HTTPClientTimeout:   15 * time.Second,
		ShutdownTimeout:     10 * time.Second,
	}

	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}

	var invalid []string
	dur := func(key string, dst *time.Duration) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil || d < 0 {
				invalid = append(invalid, key)
				return
			}
			*dst = d
		}
	}
	num := func(key string, dst *int) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				invalid = append(invalid, key)
				return
			}
			*dst = n
		}
	}

	str("LOG_LEVEL", &cfg.LogLevel)
	str("HOST", &cfg.Host)
	str("PORT", &cfg.Port)
	str("STORAGE_BACKEND", &cfg.Backend)
	cfg.Backend = strings.ToLower(cfg.Backend)

	str("DATABASE_URL", &cfg.Postgres.URL)
	str("NEO4J_URI", &cfg.Neo4j.URI)
	str("NEO4J_USERNAME", &cfg.Neo4j.Username)
	str("NEO4J_PASSWORD", &cfg.Neo4j.Password)

	str("ADZUNA_APP_ID", &cfg.Adzuna.AppID)
	str("ADZUNA_APP_KEY", &cfg.Adzuna.AppKey)
	cfg.Adzuna.Country = "us"
	str("ADZUNA_COUNTRY", &cfg.Adzuna.Country)

	str("GOOGLE_SHEETS_CREDENTIALS_PATH", &cfg.Sheets.CredentialsPath)
	str("APPLICATION_TRANSITION_POLICY", &cfg.TransitionPolicy)
	dur("GOVERNOR_COOLDOWN", &cfg.GovernorCooldown)
	dur("SEARCH_DEBOUNCE", &cfg.SearchDebounce)
	num("APPLIED_HYDRATE_LIMIT", &cfg.AppliedHydrateLimit)
	num("LIST_RATE_PER_MINUTE", &cfg.ListRatePerMinute)
	str("MEMBERSHIP_DB_PATH", &cfg.MembershipDBPath)
	dur("HTTP_CLIENT_TIMEOUT", &cfg.HTTPClientTimeout)
	dur("SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout)

	if len(invalid) > 0 {
		return cfg, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	var missingVars []string
	switch cfg.Backend {
	case BackendMemory:
	case BackendPostgres:
		if cfg.Postgres.URL == "" {
			missingVars = append(missingVars, "DATABASE_URL")
		}
	case BackendNeo4j:
		if cfg.Neo4j.URI == "" {
			missingVars = append(missingVars, "NEO4J_URI")
		}
		if cfg.Neo4j.Username == "" {
			missingVars = append(missingVars, "NEO4J_USERNAME")
		}
		if cfg.Neo4j.Password == "" {
			missingVars = append(missingVars, "NEO4J_PASSWORD")
		}
	default:
		return cfg, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.Backend)
	}

	if len(missingVars) > 0 {
		return cfg, fmt.Errorf("missing required environment variables: %s", strings.Join(missingVars, ", "))
	}

	return cfg, nil
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config contains runtime settings for the job-finder server
type Config struct {
	LogLevel string
	Host     string // default 0.0.0.0
	Port     string // default PORT env or 8080
	// SecureCookies marks the session cookie Secure; set behind TLS
	SecureCookies bool
	Adzuna        struct {
		AppID   string
		AppKey  string
		BaseURL string // empty selects the public API
	}
	Session struct {
		TTL      time.Duration
		RedisURL string // empty keeps sessions in memory
	}
	Neo4j struct {
		URI      string
		Username string
		Password string
	} // optional listing recorder
	Sheets struct {
		CredentialsPath string
		SpreadsheetID   string
		Tab             string
	} // optional export
}

// Neo4jEnabled reports whether the listing recorder is configured
func (c Config) Neo4jEnabled() bool {
	return c.Neo4j.URI != ""
}

// SheetsEnabled reports whether export is configured
func (c Config) SheetsEnabled() bool {
	return c.Sheets.SpreadsheetID != ""
}

// HasAdzunaCredentials reports whether both credentials are present
func (c Config) HasAdzunaCredentials() bool {
	return c.Adzuna.AppID != "" && c.Adzuna.AppKey != ""
}

// Load populates config from environment variables, reading a .env file
// in the working directory first when one exists.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("read .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		LogLevel: "info",
		Host:     "0.0.0.0",
		Port:     "8080",
	}
	cfg.Session.TTL = 30 * time.Minute
	cfg.Sheets.Tab = "Sheet1"

	if v := getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv("HOST"); v != "" {
		cfg.Host = v
	}
	if v := getenv("PORT"); v != "" {
		cfg.Port = v
	}

	if v := getenv("COOKIE_SECURE"); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid COOKIE_SECURE %q: %w", v, err)
		}
		cfg.SecureCookies = secure
	}

	cfg.Adzuna.AppID = getenv("ADZUNA_APP_ID")
	cfg.Adzuna.AppKey = getenv("ADZUNA_APP_KEY")
	cfg.Adzuna.BaseURL = getenv("ADZUNA_BASE_URL")

	if v := getenv("SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl <= 0 {
			return cfg, fmt.Errorf("invalid SESSION_TTL %q: must be a positive duration", v)
		}
		cfg.Session.TTL = ttl
	}
	cfg.Session.RedisURL = getenv("REDIS_URL")

	cfg.Neo4j.URI = getenv("NEO4J_URI")
	cfg.Neo4j.Username = getenv("NEO4J_USERNAME")
	cfg.Neo4j.Password = getenv("NEO4J_PASSWORD")

	cfg.Sheets.CredentialsPath = getenv("GOOGLE_SHEETS_CREDENTIALS_PATH")
	cfg.Sheets.SpreadsheetID = getenv("SHEETS_SPREADSHEET_ID")
	if v := getenv("SHEETS_TAB"); v != "" {
		cfg.Sheets.Tab = v
	}

	var missingVars []string
	missingVars = append(missingVars, partialGroup(map[string]string{
		"NEO4J_URI":      cfg.Neo4j.URI,
		"NEO4J_USERNAME": cfg.Neo4j.Username,
		"NEO4J_PASSWORD": cfg.Neo4j.Password,
	}, []string{"NEO4J_URI", "NEO4J_USERNAME", "NEO4J_PASSWORD"})...)
	missingVars = append(missingVars, partialGroup(map[string]string{
		"GOOGLE_SHEETS_CREDENTIALS_PATH": cfg.Sheets.CredentialsPath,
		"SHEETS_SPREADSHEET_ID":          cfg.Sheets.SpreadsheetID,
	}, []string{"GOOGLE_SHEETS_CREDENTIALS_PATH", "SHEETS_SPREADSHEET_ID"})...)

	if len(missingVars) > 0 {
		return cfg, fmt.Errorf("missing required environment variables: %s", strings.Join(missingVars, ", "))
	}

	return cfg, nil
}

// partialGroup returns the unset names of a group that is only partly set
func partialGroup(values map[string]string, order []string) []string {
	var missing []string
	for _, name := range order {
		if values[name] == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == len(order) {
		return nil
	}
	return missing
}

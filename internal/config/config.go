// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	GitHubToken       string
	GitHubOwner       string
	GitHubRepo        string
	PollInterval      time.Duration
	RollupMinInterval time.Duration
	ListenAddr        string
	DBPath            string
}

// HasTracker returns true when a repository to poll is configured. Used by the
// composition root to decide whether to start the ingest loop; without it the
// process still serves whatever history the database already holds.
func (c *Config) HasTracker() bool {
	return c.GitHubOwner != "" && c.GitHubRepo != ""
}

// Load reads configuration from environment variables and returns a validated
// Config. GHVELOCITY_GITHUB_REPO takes an "owner/name" pair and is optional;
// if absent, ingestion is inactive. GHVELOCITY_GITHUB_TOKEN is optional
// (unauthenticated requests work for public repositories within rate limits).
// Optional variables with defaults: GHVELOCITY_POLL_INTERVAL (1h),
// GHVELOCITY_ROLLUP_MIN_INTERVAL (24h), GHVELOCITY_LISTEN_ADDR
// (127.0.0.1:8080), GHVELOCITY_DB_PATH (ghvelocity.db).
func Load() (*Config, error) {
	token := os.Getenv("GHVELOCITY_GITHUB_TOKEN")

	var owner, repo string
	if v := os.Getenv("GHVELOCITY_GITHUB_REPO"); v != "" {
		parts := strings.SplitN(v, "/", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("GHVELOCITY_GITHUB_REPO has invalid value %q, expected owner/name", v)
		}
		owner, repo = parts[0], parts[1]
	}

	pollInterval := time.Hour
	if v, ok := os.LookupEnv("GHVELOCITY_POLL_INTERVAL"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("GHVELOCITY_POLL_INTERVAL has invalid duration %q: %w", v, err)
		}
		pollInterval = parsed
	}

	rollupMinInterval := 24 * time.Hour
	if v, ok := os.LookupEnv("GHVELOCITY_ROLLUP_MIN_INTERVAL"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("GHVELOCITY_ROLLUP_MIN_INTERVAL has invalid duration %q: %w", v, err)
		}
		rollupMinInterval = parsed
	}

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("GHVELOCITY_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "ghvelocity.db"
	if v, ok := os.LookupEnv("GHVELOCITY_DB_PATH"); ok {
		dbPath = v
	}

	return &Config{
		GitHubToken:       token,
		GitHubOwner:       owner,
		GitHubRepo:        repo,
		PollInterval:      pollInterval,
		RollupMinInterval: rollupMinInterval,
		ListenAddr:        listenAddr,
		DBPath:            dbPath,
	}, nil
}

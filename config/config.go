package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every runtime parameter of the service.
type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int

	// RosterServiceURL points at the external roster service used to
	// validate lineup eligibility.
	RosterServiceURL string

	// TiebreakIncludeOverrides controls whether admin-resolved game scores
	// count toward the point differential tiebreaker.
	TiebreakIncludeOverrides bool

	// Cloudflare R2 credentials for schedule snapshot archiving. All five
	// must be set to enable it; otherwise archiving is disabled.
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// R2Enabled reports whether snapshot archiving is fully configured.
func (c *Config) R2Enabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicBaseURL != ""
}

// Load reads configuration from environment variables. A .env file is
// loaded first if present, for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	rosterURL := os.Getenv("ROSTER_SERVICE_URL")
	if rosterURL == "" {
		return nil, fmt.Errorf("ROSTER_SERVICE_URL environment variable is not set")
	}

	includeOverrides := true
	if raw := os.Getenv("TIEBREAK_INCLUDE_OVERRIDES"); raw != "" {
		includeOverrides, err = strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid TIEBREAK_INCLUDE_OVERRIDES environment variable: %w", err)
		}
	}

	cfg := &Config{
		DatabaseURL:              dbURL,
		JWTSecretKey:             jwtKey,
		ServerPort:               port,
		RosterServiceURL:         rosterURL,
		TiebreakIncludeOverrides: includeOverrides,
		R2AccountID:              os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:            os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey:        os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:             os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:          os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	return cfg, nil
}

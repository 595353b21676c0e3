package cmd

import (
	"os"
	"strconv"
	"time"
)

// Config contains the process-wide settings read once at start. Env var
// names match the nginx deployment snippets: USER, PASSWORD,
// SESSION_DURATION_HOURS and AUTH_HASH.
type Config struct {
	Username        string
	Password        string
	HashToken       string
	SessionDuration time.Duration
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		Username:        os.Getenv("USER"),
		Password:        os.Getenv("PASSWORD"),
		HashToken:       os.Getenv("AUTH_HASH"),
		SessionDuration: time.Duration(envInt("SESSION_DURATION_HOURS", 720)) * time.Hour,
	}
}

// envInt reads a positive int env var with a default.
func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

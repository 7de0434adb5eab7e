package config

import (
	"os"
	"time"
)

// Config holds the runtime settings, read from the environment.
type Config struct {
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
	APIPort       string
	SweepInterval time.Duration
}

// Load reads the configuration from environment variables, falling back to
// development defaults.
func Load() Config {
	cfg := Config{
		Neo4jURI:      getenv("NEO4J_URI", "neo4j://localhost:7687"),
		Neo4jUser:     getenv("NEO4J_USER", "neo4j"),
		Neo4jPassword: getenv("NEO4J_PASSWORD", "password"),
		APIPort:       getenv("API_PORT", "8080"),
		SweepInterval: 24 * time.Hour,
	}

	if raw := os.Getenv("SWEEP_INTERVAL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			cfg.SweepInterval = d
		}
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

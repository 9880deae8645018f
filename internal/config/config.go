package config

import (
	"os"
	"strings"
)

type Config struct {
	PostgresURI    string
	RedisURI       string
	JWTSecret      string // Required. Startup fails when empty.
	Port           string
	ClientOrigin   string
	AllowedOrigins []string // CORS: from ALLOWED_ORIGINS or CLIENT_ORIGIN
	Environment    string   // ENV: production, development, etc.
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))
	clientOrigin := strings.TrimSpace(getEnv("CLIENT_ORIGIN", "http://localhost:5173"))

	// CORS: ALLOWED_ORIGINS takes priority, otherwise fall back to CLIENT_ORIGIN
	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 && clientOrigin != "" {
		allowedOrigins = append(allowedOrigins, clientOrigin)
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:5173"}
	}

	return &Config{
		PostgresURI:    getEnv("POSTGRES_URI", "postgres://localhost:5432/mindscribe?sslmode=disable"),
		RedisURI:       getEnv("REDIS_URI", ""),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		Port:           getEnv("PORT", "8080"),
		ClientOrigin:   clientOrigin,
		AllowedOrigins: allowedOrigins,
		Environment:    env,
	}
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

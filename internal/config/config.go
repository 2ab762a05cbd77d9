package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Agent roster and assignment policy for finalized conversations.
	Agents         []string
	AssignStrategy string

	// Flow variant switches. The default graph is the union flow; turning
	// these off reproduces the narrower legacy variants.
	AskPaymentFrequency bool
	AskRetirementAge    bool
	AskRetirementGoal   bool

	// Optional deep link offered as a quick-reply option on the closing turn.
	WhatsAppLink string

	AuthJWTSecret string
	AuthTokenTTL  time.Duration

	// Seed passwords for the director and agent accounts. Accounts are only
	// seeded when a password is provided; there is no built-in default.
	SeedDirectorPassword string
	SeedAgentPassword    string

	TranscriptMaxMessages int64
	TranscriptTTL         time.Duration

	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:                  getEnv("PORT", "8080"),
		Env:                   getEnv("ENV", "development"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		RedisAddr:             getEnv("REDIS_ADDR", ""),
		RedisPassword:         getEnv("REDIS_PASSWORD", ""),
		RedisTLS:              getEnvAsBool("REDIS_TLS", false),
		Agents:                getEnvAsSlice("AGENTS", []string{"agent1", "agent2", "agent3"}),
		AssignStrategy:        strings.ToLower(strings.TrimSpace(getEnv("ASSIGN_STRATEGY", "round_robin"))),
		AskPaymentFrequency:   getEnvAsBool("FLOW_ASK_PAYMENT_FREQUENCY", true),
		AskRetirementAge:      getEnvAsBool("FLOW_ASK_RETIREMENT_AGE", false),
		AskRetirementGoal:     getEnvAsBool("FLOW_ASK_RETIREMENT_GOAL", true),
		WhatsAppLink:          getEnv("WHATSAPP_LINK", ""),
		AuthJWTSecret:         getEnv("AUTH_JWT_SECRET", ""),
		AuthTokenTTL:          getEnvAsDuration("AUTH_TOKEN_TTL", 12*time.Hour),
		SeedDirectorPassword:  getEnv("SEED_DIRECTOR_PASSWORD", ""),
		SeedAgentPassword:     getEnv("SEED_AGENT_PASSWORD", ""),
		TranscriptMaxMessages: int64(getEnvAsInt("TRANSCRIPT_MAX_MESSAGES", 250)),
		TranscriptTTL:         getEnvAsDuration("TRANSCRIPT_TTL", 30*24*time.Hour),
		CORSAllowedOrigins:    getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsBool(key string, fallback bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsSlice(key string, fallback []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

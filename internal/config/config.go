package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int

	// Google service account, either as one JSON blob or as individual fields
	GoogleServiceAccountKey string
	GoogleClientEmail       string
	GooglePrivateKey        string
	GoogleProjectID         string

	// Calendar collaborator
	GoogleCalendarID  string
	BusinessUTCOffset string
	BusinessTimezone  string

	// Inventory collaborator
	GoogleSheetsID string
	InventoryRange string

	// Assistant collaborator
	AssistantProvider        string
	OpenAIAPIKey             string
	OpenAIAssistantID        string
	OpenAIBaseURL            string
	GeminiAPIKey             string
	GeminiModelID            string
	AssistantPollInterval    time.Duration
	AssistantMaxPollInterval time.Duration
	AssistantTimeout         time.Duration

	// Session storage
	SessionStore  string
	SessionTTL    time.Duration
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// SendGrid Email Configuration
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "3000"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		RateLimitRPS:       getEnvAsFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),

		GoogleServiceAccountKey: getEnv("GOOGLE_SERVICE_ACCOUNT_KEY", ""),
		GoogleClientEmail:       getEnv("GOOGLE_CLIENT_EMAIL", ""),
		GooglePrivateKey:        getEnv("GOOGLE_PRIVATE_KEY", ""),
		GoogleProjectID:         getEnv("GOOGLE_PROJECT_ID", ""),

		GoogleCalendarID:  getEnv("GOOGLE_CALENDAR_ID", ""),
		BusinessUTCOffset: getEnv("BUSINESS_UTC_OFFSET", "-05:00"),
		BusinessTimezone:  getEnv("BUSINESS_TIMEZONE", "America/Lima"),

		GoogleSheetsID: getEnv("GOOGLE_SHEETS_ID", ""),
		InventoryRange: getEnv("INVENTORY_RANGE", "Inventario!A:C"),

		AssistantProvider:        strings.ToLower(strings.TrimSpace(getEnv("ASSISTANT_PROVIDER", "openai"))),
		OpenAIAPIKey:             getEnv("OPENAI_API_KEY", ""),
		OpenAIAssistantID:        getEnv("OPENAI_ASSISTANT_ID", ""),
		OpenAIBaseURL:            getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		GeminiAPIKey:             getEnv("GEMINI_API_KEY", ""),
		GeminiModelID:            getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),
		AssistantPollInterval:    getEnvAsDuration("ASSISTANT_POLL_INTERVAL", time.Second),
		AssistantMaxPollInterval: getEnvAsDuration("ASSISTANT_MAX_POLL_INTERVAL", 4*time.Second),
		AssistantTimeout:         getEnvAsDuration("ASSISTANT_TIMEOUT", 60*time.Second),

		SessionStore:  strings.ToLower(strings.TrimSpace(getEnv("SESSION_STORE", "memory"))),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "BOTica"),
	}
}

// AssistantConfigured reports whether the selected assistant provider has a credential.
func (c *Config) AssistantConfigured() bool {
	switch c.AssistantProvider {
	case "gemini":
		return strings.TrimSpace(c.GeminiAPIKey) != ""
	default:
		return strings.TrimSpace(c.OpenAIAPIKey) != "" && strings.TrimSpace(c.OpenAIAssistantID) != ""
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping empty entries.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// Package config loads service configuration from environment variables
// (a .env file is honored when present).
//
// # Variables
//
// ## Typesense
//   - TYPESENSE_HOST: Typesense server host (default: localhost)
//   - TYPESENSE_PORT: server port (default: 8108)
//   - TYPESENSE_API_KEY: API key
//   - TYPESENSE_PROTOCOL: http/https (default: http)
//   - FEEDBACK_COLLECTION: comment collection name (default: page_feedback)
//
// ## Feedback API
//   - FEEDBACK_API_URL: problem-report endpoint
//   - FEEDBACK_API_TOKEN_URL: token-issuing endpoint
//   - FEEDBACK_API_CLIENT_ID / FEEDBACK_API_CLIENT_SECRET: credentials
//   - INGEST_SCHEDULE: cron expression for ingestion runs (default: 0 4 * * *)
//   - INGEST_WINDOW_DAYS: how many days each run re-fetches (default: 1)
//
// ## Relevance engine
//   - CACHE_COMMENTS_TTL_HOURS: comments namespace TTL (default: 12)
//   - CACHE_MOST_RELEVANT_TTL_HOURS: mostRelevant namespace TTL (default: 24)
//   - CACHE_MAX_ENTRIES: in-memory cache size cap (default: 500)
//   - COMMENTS_SCORE_THRESHOLD: display threshold for comments (default: 0.01)
//   - WORD_SCORE_THRESHOLD: display threshold for words (default: 0.005)
//   - NORMALIZATION_STRENGTH: default length-normalization strength (default: 3)
//
// ## Observability
//   - LOG_LEVEL: debug/info/warn/error (default: info)
//   - LOG_JSON: emit JSON logs (default: false)
//   - TRACING_ENABLED: enable OTLP tracing (default: false)
//   - TRACING_ENDPOINT: OTLP gRPC endpoint (default: localhost:4317)
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	TypesenseHost      string
	TypesensePort      string
	TypesenseAPIKey    string
	TypesenseProtocol  string
	FeedbackCollection string

	FeedbackAPIURL       string
	FeedbackTokenURL     string
	FeedbackClientID     string
	FeedbackClientSecret string

	IngestSchedule   string
	IngestWindowDays int

	CommentsTTLHours     int
	MostRelevantTTLHours int
	CacheMaxEntries      int

	CommentScoreThreshold float64
	WordScoreThreshold    float64
	NormalizationStrength float64

	LogLevel string
	LogJSON  bool

	TracingEnabled  bool
	TracingEndpoint string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		TypesenseHost:      getEnv("TYPESENSE_HOST", "localhost"),
		TypesensePort:      getEnv("TYPESENSE_PORT", "8108"),
		TypesenseAPIKey:    getEnv("TYPESENSE_API_KEY", ""),
		TypesenseProtocol:  getEnv("TYPESENSE_PROTOCOL", "http"),
		FeedbackCollection: getEnv("FEEDBACK_COLLECTION", "page_feedback"),

		FeedbackAPIURL:       getEnv("FEEDBACK_API_URL", ""),
		FeedbackTokenURL:     getEnv("FEEDBACK_API_TOKEN_URL", ""),
		FeedbackClientID:     getEnv("FEEDBACK_API_CLIENT_ID", ""),
		FeedbackClientSecret: getEnv("FEEDBACK_API_CLIENT_SECRET", ""),

		IngestSchedule:   getEnv("INGEST_SCHEDULE", "0 4 * * *"),
		IngestWindowDays: getEnvInt("INGEST_WINDOW_DAYS", 1),

		CommentsTTLHours:     getEnvInt("CACHE_COMMENTS_TTL_HOURS", 12),
		MostRelevantTTLHours: getEnvInt("CACHE_MOST_RELEVANT_TTL_HOURS", 24),
		CacheMaxEntries:      getEnvInt("CACHE_MAX_ENTRIES", 500),

		CommentScoreThreshold: getEnvFloat("COMMENTS_SCORE_THRESHOLD", 0.01),
		WordScoreThreshold:    getEnvFloat("WORD_SCORE_THRESHOLD", 0.005),
		NormalizationStrength: getEnvFloat("NORMALIZATION_STRENGTH", 3),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogJSON:  getEnv("LOG_JSON", "false") == "true",

		TracingEnabled:  getEnv("TRACING_ENABLED", "false") == "true",
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4317"),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

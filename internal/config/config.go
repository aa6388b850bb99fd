package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Auth     AuthConfig
	Ai       AIConfig
	Chat     ChatConfig
	Reminder ReminderConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	NotificationLog    string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	UploadDir          string
	ServiceName        string
	OtelEnabled        bool
	OtelEndpoint       string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type AuthConfig struct {
	JwtSecret string
	JwtIssuer string // optional; when set, tokens must carry this "iss"
}

type AIConfig struct {
	LLMProvider string // "openai" (any chat/completions compatible endpoint) or "ollama"
	LLMModel    string
	LLMBaseURL  string
	LLMAPIKey   string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// ChatConfig tunes the short-term memory pipeline.
type ChatConfig struct {
	StmMaxTurns     int
	StmHydrateLimit int
	ContextWindow   int
	SummaryLimit    int
	PersistTimeout  time.Duration
	SerializeTurns  bool
}

type ReminderConfig struct {
	PollInterval time.Duration
	BatchSize    int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "5000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:5000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			NotificationLog:    getEnv("NOTIFICATION_LOG_FILE_PATH", "logs/notification.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			UploadDir:          getEnv("UPLOAD_DIR", "./uploads"),
			ServiceName:        getEnv("OTEL_SERVICE_NAME", "health-portal-backend"),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
			OtelEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Health Portal"),
		},
		Auth: AuthConfig{
			JwtSecret: getEnv("JWT_SECRET", ""),
			JwtIssuer: getEnv("JWT_ISSUER", ""),
		},
		Ai: AIConfig{
			LLMProvider: getEnv("LLM_PROVIDER", "openai"),
			LLMModel:    getEnv("LLM_MODEL", "shivaay"),
			LLMBaseURL:  getEnv("LLM_BASE_URL", "https://api.futurixai.com/api/lara/v1"),
			LLMAPIKey:   getEnv("LLM_API_KEY", ""),
			Temperature: getEnvAsFloat("LLM_TEMPERATURE", 0.3),
			MaxTokens:   getEnvAsInt("LLM_MAX_TOKENS", 800),
			Timeout:     getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
		},
		Chat: ChatConfig{
			StmMaxTurns:     getEnvAsInt("STM_MAX_TURNS", 10),
			StmHydrateLimit: getEnvAsInt("STM_HYDRATE_LIMIT", 10),
			ContextWindow:   getEnvAsInt("CHAT_CONTEXT_WINDOW", 6),
			SummaryLimit:    getEnvAsInt("CHAT_SUMMARY_LIMIT", 3),
			PersistTimeout:  getEnvAsDuration("STM_PERSIST_TIMEOUT", 10*time.Second),
			SerializeTurns:  getEnvAsBool("CHAT_SERIALIZE_TURNS", true),
		},
		Reminder: ReminderConfig{
			PollInterval: getEnvAsDuration("REMINDER_POLL_INTERVAL", 30*time.Second),
			BatchSize:    getEnvAsInt("REMINDER_BATCH_SIZE", 50),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go duration strings ("30s", "2m").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	SMTP      SMTPConfig
	Tenancy   TenancyConfig
	ChatRoom  ChatRoomConfig
	Identity  IdentityConfig
	Directory DirectoryConfig
	Scheduler SchedulerConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	OtelEnabled        bool
	OtelEndpoint       string
	EnquiryTopicName   string
	FeedbackTypeIds    []int
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Email    string
	Password string
}

type TenancyConfig struct {
	Enabled    bool
	BaseDomain string
}

type ChatRoomConfig struct {
	BaseURL    string
	AdminId    string
	AdminToken string
}

type IdentityConfig struct {
	BaseURL      string
	TokenURL     string
	ClientId     string
	ClientSecret string
}

type DirectoryConfig struct {
	AgencyServiceURL string
	TenantServiceURL string
}

type SchedulerConfig struct {
	IntervalMinutes int
	RetentionDays   int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", ""),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
			OtelEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			EnquiryTopicName:   getEnv("ENQUIRY_TOPIC_NAME", "NEW_ENQUIRY"),
			FeedbackTypeIds:    getEnvAsIntSlice("FEEDBACK_CONSULTING_TYPE_IDS", nil),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			Email:    getEnv("SMTP_EMAIL", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
		},
		Tenancy: TenancyConfig{
			Enabled:    getEnvAsBool("MULTITENANCY_ENABLED", false),
			BaseDomain: getEnv("TENANT_BASE_DOMAIN", ""),
		},
		ChatRoom: ChatRoomConfig{
			BaseURL:    getEnv("CHATROOM_BASE_URL", "http://localhost:8080"),
			AdminId:    getEnv("CHATROOM_ADMIN_ID", ""),
			AdminToken: getEnv("CHATROOM_ADMIN_TOKEN", ""),
		},
		Identity: IdentityConfig{
			BaseURL:      getEnv("IDENTITY_BASE_URL", "http://localhost:8081"),
			TokenURL:     getEnv("IDENTITY_TOKEN_URL", "http://localhost:8081/token"),
			ClientId:     getEnv("IDENTITY_CLIENT_ID", ""),
			ClientSecret: getEnv("IDENTITY_CLIENT_SECRET", ""),
		},
		Directory: DirectoryConfig{
			AgencyServiceURL: getEnv("AGENCY_SERVICE_URL", "http://localhost:8082"),
			TenantServiceURL: getEnv("TENANT_SERVICE_URL", "http://localhost:8083"),
		},
		Scheduler: SchedulerConfig{
			IntervalMinutes: getEnvAsInt("SCHEDULER_INTERVAL_MINUTES", 60),
			RetentionDays:   getEnvAsInt("SESSION_RETENTION_DAYS", 30),
		},
	}
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsIntSlice(key string, fallback []int) []int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	parts := strings.Split(strValue, ",")
	values := make([]int, 0, len(parts))
	for _, p := range parts {
		if v, err := strconv.Atoi(strings.TrimSpace(p)); err == nil {
			values = append(values, v)
		}
	}
	return values
}

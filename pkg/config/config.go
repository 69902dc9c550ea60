package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Gemini   GeminiConfig
	Sync     SyncConfig
	Export   ExportConfig
	Digest   DigestConfig
	Auth     AuthConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	URL string
}

type GeminiConfig struct {
	APIKey        string
	Model         string
	SearchTimeout time.Duration
	MaxResults    int
}

type SyncConfig struct {
	Policy     string // rollback | legacy
	ResyncCron string // empty disables the periodic resync
}

type ExportConfig struct {
	Bucket    string // empty disables archiving
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

type DigestConfig struct {
	Cron         string
	To           string
	ResendAPIKey string
}

type AuthConfig struct {
	JWTSecret     string // empty disables auth
	AccessKeyHash string // bcrypt hash of the dashboard access key
	TokenTTL      time.Duration
}

type LogConfig struct {
	Level  string
	Format string // text | json
}

func Load() (*Config, error) {
	godotenv.Load() // .env is optional

	searchTimeout, err := time.ParseDuration(getEnv("SEARCH_TIMEOUT", "60s"))
	if err != nil {
		return nil, fmt.Errorf("SEARCH_TIMEOUT: %w", err)
	}
	tokenTTL, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("TOKEN_TTL: %w", err)
	}
	var maxResults int
	if _, err := fmt.Sscanf(getEnv("SEARCH_MAX_RESULTS", "20"), "%d", &maxResults); err != nil {
		return nil, fmt.Errorf("SEARCH_MAX_RESULTS: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Gemini: GeminiConfig{
			APIKey:        getEnv("GEMINI_API_KEY", os.Getenv("API_KEY")),
			Model:         os.Getenv("GEMINI_MODEL"),
			SearchTimeout: searchTimeout,
			MaxResults:    maxResults,
		},
		Sync: SyncConfig{
			Policy:     getEnv("SYNC_POLICY", "rollback"),
			ResyncCron: os.Getenv("RESYNC_CRON"),
		},
		Export: ExportConfig{
			Bucket:    os.Getenv("EXPORT_BUCKET"),
			Region:    getEnv("AWS_REGION", "sa-east-1"),
			Endpoint:  os.Getenv("EXPORT_ENDPOINT"),
			AccessKey: os.Getenv("EXPORT_ACCESS_KEY"),
			SecretKey: os.Getenv("EXPORT_SECRET_KEY"),
		},
		Digest: DigestConfig{
			Cron:         getEnv("DIGEST_CRON", "0 8 * * *"),
			To:           os.Getenv("DIGEST_TO"),
			ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		},
		Auth: AuthConfig{
			JWTSecret:     os.Getenv("JWT_SECRET"),
			AccessKeyHash: os.Getenv("ACCESS_KEY_HASH"),
			TokenTTL:      tokenTTL,
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	if cfg.Gemini.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	if cfg.Auth.JWTSecret != "" && cfg.Auth.AccessKeyHash == "" {
		return nil, fmt.Errorf("ACCESS_KEY_HASH is required when JWT_SECRET is set")
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

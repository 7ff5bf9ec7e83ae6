// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// SchedulerConfig provides settings for the asynq scan queue.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// AIConfig provides settings for the deep intelligence model tiers.
type AIConfig interface {
	GetAIProvider() string
	GetGeminiAPIKey() string
	GetMoonshotAPIKey() string
	GetPremiumModel() string
	GetStandardModel() string
	GetPremiumEnergyThreshold() int
	GetAgentVersion() string
}

// ScanConfig provides settings for the ingestion pipeline itself.
type ScanConfig interface {
	GetDefaultPhoneRegion() string
	GetParserAliasPath() string
	GetSourceExcerptLimit() int
}

// StorageConfig provides settings for the MinIO raw-capture archive.
type StorageConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinioBucketCaptures() string
	IsMinIOEnabled() bool
}

// Config holds all application configuration loaded from the environment.
type Config struct {
	Env      string
	HTTPAddr string

	DatabaseURL string

	CORSAllowAll   bool
	CORSOrigins    []string
	CORSAllowCreds bool

	RedisURL         string
	RedisTLSInsecure bool
	AsynqQueueName   string
	AsynqConcurrency int

	AIProvider             string
	GeminiAPIKey           string
	MoonshotAPIKey         string
	PremiumModel           string
	StandardModel          string
	PremiumEnergyThreshold int
	AgentVersion           string

	DefaultPhoneRegion string
	ParserAliasPath    string
	SourceExcerptLimit int

	MinIOEndpoint       string
	MinIOAccessKey      string
	MinIOSecretKey      string
	MinIOUseSSL         bool
	MinioBucketCaptures string
}

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

// AIConfig implementation
func (c *Config) GetAIProvider() string          { return c.AIProvider }
func (c *Config) GetGeminiAPIKey() string        { return c.GeminiAPIKey }
func (c *Config) GetMoonshotAPIKey() string      { return c.MoonshotAPIKey }
func (c *Config) GetPremiumModel() string        { return c.PremiumModel }
func (c *Config) GetStandardModel() string       { return c.StandardModel }
func (c *Config) GetPremiumEnergyThreshold() int { return c.PremiumEnergyThreshold }
func (c *Config) GetAgentVersion() string        { return c.AgentVersion }

// ScanConfig implementation
func (c *Config) GetDefaultPhoneRegion() string { return c.DefaultPhoneRegion }
func (c *Config) GetParserAliasPath() string    { return c.ParserAliasPath }
func (c *Config) GetSourceExcerptLimit() int    { return c.SourceExcerptLimit }

// StorageConfig implementation
func (c *Config) GetMinIOEndpoint() string       { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string      { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string      { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool           { return c.MinIOUseSSL }
func (c *Config) GetMinioBucketCaptures() string { return c.MinioBucketCaptures }
func (c *Config) IsMinIOEnabled() bool           { return c.MinIOEndpoint != "" }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:      getEnv("APP_ENV", "development"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		CORSAllowAll:   corsAllowAll,
		CORSOrigins:    corsOrigins,
		CORSAllowCreds: strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),

		RedisURL:         getEnv("REDIS_URL", ""),
		RedisTLSInsecure: strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:   getEnv("ASYNQ_QUEUE", "scans"),
		AsynqConcurrency: mustInt(getEnv("ASYNQ_CONCURRENCY", "4")),

		AIProvider:             getEnv("AI_PROVIDER", "gemini"),
		GeminiAPIKey:           getEnv("GEMINI_API_KEY", ""),
		MoonshotAPIKey:         getEnv("MOONSHOT_API_KEY", ""),
		PremiumModel:           getEnv("AI_PREMIUM_MODEL", "gemini-2.5-pro"),
		StandardModel:          getEnv("AI_STANDARD_MODEL", "gemini-2.5-flash"),
		PremiumEnergyThreshold: mustInt(getEnv("AI_PREMIUM_ENERGY_THRESHOLD", "10")),
		AgentVersion:           getEnv("AI_AGENT_VERSION", "deep-intel-v1"),

		DefaultPhoneRegion: getEnv("SCAN_DEFAULT_PHONE_REGION", "PH"),
		ParserAliasPath:    getEnv("SCAN_PARSER_ALIAS_PATH", ""),
		SourceExcerptLimit: mustInt(getEnv("SCAN_SOURCE_EXCERPT_LIMIT", "2000")),

		MinIOEndpoint:       getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:      getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:      getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:         strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinioBucketCaptures: getEnv("MINIO_BUCKET_CAPTURES", "scan-captures"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if cfg.SourceExcerptLimit <= 0 {
		cfg.SourceExcerptLimit = 2000
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"cropgenius-api/internal/oracle"
)

type CropGeniusConfig struct {
	Port           string
	PostgresCfg    PostgresConfig
	RedisCfg       RedisConfig
	MinioCfg       MinioConfig
	RabbitMQCfg    RabbitMQConfig
	GeminiAPICfg   GeminiAPIConfig
	WeatherAPICfg  WeatherAPIConfig
	DiagnosisCache DiagnosisCacheConfig
}

type PostgresConfig struct {
	DBname   string
	Username string
	Password string
	Host     string
	Port     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type MinioConfig struct {
	MinioURL         string
	MinioAccessKey   string
	MinioSecretKey   string
	MinioLocation    string
	MinioSecure      string
	MinioResourceURL string
	ScanBucket       string
}

type RabbitMQConfig struct {
	Host     string
	Username string
	Password string
	Port     string
}

type GeminiAPIConfig struct {
	APIKeys   []string
	FlashName string
	ProName   string
	Timeout   time.Duration
}

type WeatherAPIConfig struct {
	APIKey   string
	CacheTTL time.Duration
}

type DiagnosisCacheConfig struct {
	MaxEntries int
	TTL        time.Duration
}

func New() *CropGeniusConfig {
	return &CropGeniusConfig{
		Port: getEnvOrDefault("PORT", "8086"),
		PostgresCfg: PostgresConfig{
			DBname:   getEnvOrDefault("POSTGRES_DB", "cropgenius"),
			Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password: getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
		},
		RedisCfg: RedisConfig{
			Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       0,
		},
		MinioCfg: MinioConfig{
			MinioURL:         getEnvOrDefault("MINIO_ENDPOINT", "http://localhost:9407"),
			MinioAccessKey:   getEnvOrDefault("MINIO_ACCESS_KEY", "minio"),
			MinioSecretKey:   getEnvOrDefault("MINIO_SECRET_KEY", "minio123"),
			MinioLocation:    getEnvOrDefault("MINIO_LOCATION", "us-east-1"),
			MinioSecure:      getEnvOrDefault("MINIO_SECURE", "false"),
			MinioResourceURL: getEnvOrDefault("MINIO_RESOURCE_URL", "http://localhost:9407/"),
			ScanBucket:       getEnvOrDefault("MINIO_SCAN_BUCKET", "crop-scans"),
		},
		RabbitMQCfg: RabbitMQConfig{
			Host:     getEnvOrDefault("RABBITMQ_HOST", "localhost"),
			Username: getEnvOrDefault("RABBITMQ_USER", "admin"),
			Password: getEnvOrDefault("RABBITMQ_PWD", "admin"),
			Port:     getEnvOrDefault("RABBITMQ_PORT", "5672"),
		},
		GeminiAPICfg: GeminiAPIConfig{
			APIKeys:   splitKeys(getEnvOrDefault("GEMINI_KEYS", os.Getenv("GEMINI_KEY"))),
			FlashName: getEnvOrDefault("GEMINI_FLASH_MODEL", "gemini-2.5-flash"),
			ProName:   getEnvOrDefault("GEMINI_PRO_MODEL", "gemini-2.5-pro"),
			Timeout:   getEnvDuration("GEMINI_TIMEOUT_SECONDS", 30*time.Second),
		},
		WeatherAPICfg: WeatherAPIConfig{
			APIKey:   getEnvOrDefault("OPENWEATHER_API_KEY", ""),
			CacheTTL: getEnvDuration("WEATHER_CACHE_TTL_SECONDS", 10*time.Minute),
		},
		DiagnosisCache: DiagnosisCacheConfig{
			MaxEntries: getEnvInt("DIAGNOSIS_CACHE_MAX_ENTRIES", 512),
			TTL:        getEnvDuration("DIAGNOSIS_CACHE_TTL_SECONDS", 24*time.Hour),
		},
	}
}

// Validate checks the configuration that must be present before the service
// can take traffic. A missing Gemini key is fatal at startup, not a per-call
// surprise.
func (c *CropGeniusConfig) Validate() error {
	if len(c.GeminiAPICfg.APIKeys) == 0 {
		return &oracle.ConfigurationError{Setting: "GEMINI_KEYS", Reason: "is required (or set GEMINI_KEY)"}
	}
	return nil
}

func splitKeys(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			keys = append(keys, trimmed)
		}
	}
	return keys
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return defaultValue
}

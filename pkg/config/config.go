package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Auth      AuthConfig
	Anthropic AnthropicConfig
	Assembly  AssemblyConfig
	Tracker   TrackerConfig
	Storage   StorageConfig
	Quality   QualityConfig
	Paths     PathsConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// AuthConfig holds the single-operator API key auth
type AuthConfig struct {
	APIKey     string
	OperatorID string
}

// AnthropicConfig holds language model configuration
type AnthropicConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// AssemblyConfig holds speech engine configuration
type AssemblyConfig struct {
	APIKey      string
	SpeechModel string // "best" or "nano"
}

// TrackerConfig holds the outbound podcast tracker API
type TrackerConfig struct {
	Endpoint string
	APIKey   string
}

// StorageConfig holds optional MinIO transcript archive configuration
type StorageConfig struct {
	Enabled         bool
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
}

// QualityConfig holds transcript quality gate configuration
type QualityConfig struct {
	Threshold float64
}

// PathsConfig holds filesystem locations
type PathsConfig struct {
	TempDir     string
	SessionsDir string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  []string{getEnv("ALLOWED_ORIGINS", "http://localhost:3000")},
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Auth: AuthConfig{
			APIKey:     getEnv("API_KEY", ""),
			OperatorID: getEnv("OPERATOR_ID", "operator"),
		},
		Anthropic: AnthropicConfig{
			APIKey:  getEnv("ANTHROPIC_API_KEY", ""),
			BaseURL: getEnv("ANTHROPIC_API_URL", "https://api.anthropic.com"),
			Model:   getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),
		},
		Assembly: AssemblyConfig{
			APIKey:      getEnv("ASSEMBLYAI_API_KEY", ""),
			SpeechModel: getEnv("ASSEMBLYAI_SPEECH_MODEL", "best"),
		},
		Tracker: TrackerConfig{
			Endpoint: getEnv("TRACKER_ENDPOINT", ""),
			APIKey:   getEnv("TRACKER_API_KEY", ""),
		},
		Storage: StorageConfig{
			Enabled:         getEnvAsBool("STORAGE_ENABLED", false),
			Endpoint:        getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			BucketName:      getEnv("STORAGE_BUCKET", "podscribe"),
			UseSSL:          getEnvAsBool("STORAGE_USE_SSL", false),
		},
		Quality: QualityConfig{
			Threshold: getEnvAsFloat("QUALITY_THRESHOLD", 0.7),
		},
		Paths: PathsConfig{
			TempDir:     getEnv("TEMP_DIR", "temp"),
			SessionsDir: getEnv("SESSIONS_DIR", "sessions"),
		},
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Auth.APIKey == "" {
		return fmt.Errorf("API_KEY is required")
	}
	if c.Anthropic.APIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	if c.Assembly.APIKey == "" {
		return fmt.Errorf("ASSEMBLYAI_API_KEY is required")
	}
	if c.Quality.Threshold <= 0 || c.Quality.Threshold > 1 {
		return fmt.Errorf("QUALITY_THRESHOLD must be in (0,1], got %v", c.Quality.Threshold)
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
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

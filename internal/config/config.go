// Package config loads runtime configuration from the environment and an
// optional YAML file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LLM provider identifiers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
	ProviderBedrock   = "bedrock"
)

// Store driver identifiers.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config holds all configuration values.
type Config struct {
	// HTTP API
	ServerPort string `yaml:"server_port"`

	// Job store
	StoreDriver string `yaml:"store_driver"` // memory | sqlite
	StorePath   string `yaml:"store_path"`   // sqlite file path

	// LLM provider
	LLMProvider     string `yaml:"llm_provider"` // openai | anthropic | ollama | bedrock
	LLMModel        string `yaml:"llm_model"`
	OpenAIAPIKey    string `yaml:"openai_api_key"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	OllamaHost      string `yaml:"ollama_host"`
	AWSRegion       string `yaml:"aws_region"`

	// Object storage
	S3Bucket string `yaml:"s3_bucket"`

	// Pipeline tuning
	SummarizeWorkers int    `yaml:"summarize_workers"` // concurrent LLM calls per job
	JobWorkers       int    `yaml:"job_workers"`       // concurrently running jobs
	MaxFileBytes     int64  `yaml:"max_file_bytes"`    // oversized files are skipped
	SummarizeRetries uint64 `yaml:"summarize_retries"` // per-file retry budget

	// Logging
	LogFile  string     `yaml:"log_file"`
	LogLevel slog.Level `yaml:"-"`
}

// Load reads configuration from an optional YAML file (AUTOREADME_CONFIG)
// overlaid with environment variables. Env vars win.
func Load() Config {
	cfg := Config{
		ServerPort:       "8080",
		StoreDriver:      StoreMemory,
		StorePath:        "autoreadme.db",
		LLMProvider:      ProviderOpenAI,
		LLMModel:         "gpt-4o-mini",
		OllamaHost:       "http://localhost:11434",
		AWSRegion:        "us-east-1",
		SummarizeWorkers: 10,
		JobWorkers:       4,
		MaxFileBytes:     256 * 1024,
		SummarizeRetries: 3,
		LogFile:          "/tmp/autoreadme.log",
	}

	if path := os.Getenv("AUTOREADME_CONFIG"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			slog.Warn("failed to load config file, using defaults", "path", path, "error", err)
		}
	}

	cfg.ServerPort = getEnv("AUTOREADME_PORT", cfg.ServerPort)
	cfg.StoreDriver = getEnv("AUTOREADME_STORE", cfg.StoreDriver)
	cfg.StorePath = getEnv("AUTOREADME_STORE_PATH", cfg.StorePath)
	cfg.LLMProvider = getEnv("AUTOREADME_LLM_PROVIDER", cfg.LLMProvider)
	cfg.LLMModel = getEnv("AUTOREADME_LLM_MODEL", cfg.LLMModel)
	cfg.OpenAIAPIKey = getEnv("OPENAI_API_KEY", cfg.OpenAIAPIKey)
	cfg.AnthropicAPIKey = getEnv("ANTHROPIC_API_KEY", cfg.AnthropicAPIKey)
	cfg.OllamaHost = getEnv("OLLAMA_HOST", cfg.OllamaHost)
	cfg.AWSRegion = getEnv("AWS_REGION", cfg.AWSRegion)
	cfg.S3Bucket = getEnv("S3_BUCKET", cfg.S3Bucket)
	cfg.SummarizeWorkers = getEnvInt("AUTOREADME_SUMMARIZE_WORKERS", cfg.SummarizeWorkers)
	cfg.JobWorkers = getEnvInt("AUTOREADME_JOB_WORKERS", cfg.JobWorkers)
	cfg.MaxFileBytes = getEnvInt64("AUTOREADME_MAX_FILE_BYTES", cfg.MaxFileBytes)
	cfg.LogFile = getEnv("AUTOREADME_LOG_FILE", cfg.LogFile)
	cfg.LogLevel = parseLogLevel(getEnv("AUTOREADME_LOG_LEVEL", "INFO"))

	return cfg
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			return n
		}
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

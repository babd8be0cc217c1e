// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like OLLAMA_HOST
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig() // ignore error if not found

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideFromEnv(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideFromEnv(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	for _, path := range []string{".env", "../.env", "../../.env"} {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func overrideFromEnv(cfg *Config) {
	if val := os.Getenv("OLLAMA_HOST"); val != "" {
		cfg.Ollama.Host = val
	}
	if val := os.Getenv("OLLAMA_MODEL"); val != "" {
		cfg.Ollama.Model = val
	}
	if val := os.Getenv("DATASET_PATH"); val != "" {
		cfg.Dataset.Path = val
	}
	if val := os.Getenv("REDIS_ADDRESS"); val != "" {
		cfg.Dataset.Redis.Address = val
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		cfg.Dataset.Redis.Password = val
	}
}

// applyDefaults sets default values for optional configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "heatmap-chat"
	}
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = ":8080"
	}

	if cfg.Ollama.Host == "" {
		cfg.Ollama.Host = "http://localhost:11434"
	}
	if cfg.Ollama.Model == "" {
		cfg.Ollama.Model = "qwen2.5:7b"
	}
	if cfg.Ollama.Timeout == 0 {
		cfg.Ollama.Timeout = 60000
	}
	if cfg.Ollama.ResponseFormat == "" {
		cfg.Ollama.ResponseFormat = "chat"
	}

	if cfg.Dataset.Source == "" {
		cfg.Dataset.Source = "csv"
	}
	if cfg.Dataset.Redis.KeyPrefix == "" {
		cfg.Dataset.Redis.KeyPrefix = "heatmap:rows:"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig validates critical configuration fields.
func validateConfig(cfg *Config) error {
	if cfg.Ollama.Host == "" {
		return fmt.Errorf("ollama.host is required")
	}
	if cfg.Ollama.Model == "" {
		return fmt.Errorf("ollama.model is required")
	}

	switch cfg.Ollama.ResponseFormat {
	case "chat", "legacy":
	default:
		return fmt.Errorf("ollama.response_format must be chat or legacy, got %q", cfg.Ollama.ResponseFormat)
	}

	switch cfg.Dataset.Source {
	case "csv":
		if cfg.Dataset.Path == "" {
			return fmt.Errorf("dataset.path is required when dataset.source is csv")
		}
	case "redis":
		if cfg.Dataset.Redis.Address == "" {
			return fmt.Errorf("dataset.redis.address is required when dataset.source is redis")
		}
	default:
		return fmt.Errorf("dataset.source must be csv or redis, got %q", cfg.Dataset.Source)
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

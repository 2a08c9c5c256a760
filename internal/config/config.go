package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var (
	ErrMissingAPIKey   = errors.New("LLM_API_KEY is required")
	ErrUnknownProvider = errors.New("unknown LLM provider")
)

type Config struct {
	Server    ServerConfig
	LLM       LLMConfig
	Gateway   GatewayConfig
	Log       LogConfig
	Telemetry TelemetryConfig
}

type ServerConfig struct {
	Port            string        `envconfig:"SERVER_PORT" default:"8000"`
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"90s"`
	RequestTimeout  time.Duration `envconfig:"SERVER_REQUEST_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	StaticDir       string        `envconfig:"SERVER_STATIC_DIR"`
}

// Addr returns the host:port the HTTP server listens on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type LLMConfig struct {
	Provider   string `envconfig:"LLM_PROVIDER" default:"openai"`
	APIKey     string `envconfig:"LLM_API_KEY"`
	Endpoint   string `envconfig:"LLM_ENDPOINT" default:"https://api.openai.com/v1"`
	Model      string `envconfig:"LLM_MODEL" default:"gpt-4o-mini"`
	APIVersion string `envconfig:"LLM_API_VERSION" default:"2024-06-01"`
	MaxTokens  int64  `envconfig:"LLM_MAX_TOKENS" default:"2000"`
}

type GatewayConfig struct {
	// StrictSchema rejects parsed JSON that is missing required fields.
	StrictSchema bool `envconfig:"GATEWAY_STRICT_SCHEMA" default:"false"`
}

type LogConfig struct {
	Debug  bool `envconfig:"LOG_DEBUG" default:"false"`
	Pretty bool `envconfig:"LOG_PRETTY" default:"false"`
}

type TelemetryConfig struct {
	TraceStdout bool   `envconfig:"TELEMETRY_TRACE_STDOUT" default:"false"`
	ServiceName string `envconfig:"TELEMETRY_SERVICE_NAME" default:"insight-mole"`
}

// Validate checks the settings envconfig cannot express with tags.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return ErrMissingAPIKey
	}
	switch c.LLM.Provider {
	case "openai", "azure":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.LLM.Provider)
	}
	return nil
}

// LoadConfig reads configuration from the environment. When envFile is set
// it is exported into the environment first; otherwise ./.env is used if it
// exists.
func LoadConfig(envFile string) (*Config, error) {
	if envFile = strings.TrimSpace(envFile); envFile != "" {
		if err := exportEnvironment(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	} else if err := exportEnvironmentIfExists(".env"); err != nil {
		return nil, fmt.Errorf("failed to load default env file: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Info().Str("provider", cfg.LLM.Provider).Str("model", cfg.LLM.Model).Msg("configuration loaded successfully")
	return &cfg, nil
}

func exportEnvironmentIfExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	return exportEnvironment(path)
}

// exportEnvironment copies every key of a dotenv file into the process
// environment. Variables already set win over the file.
func exportEnvironment(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	for k, val := range v.AllSettings() {
		key := strings.ToUpper(k)
		if _, ok := os.LookupEnv(key); ok {
			continue
		}
		if err := os.Setenv(key, fmt.Sprint(val)); err != nil {
			return err
		}
	}
	return nil
}

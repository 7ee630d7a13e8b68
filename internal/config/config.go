// Package config loads scriptran settings from defaults, an optional config
// file, a .env file, SCRIPTRAN_* environment variables and CLI flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "SCRIPTRAN"

type AzureConfig struct {
	Key                string `mapstructure:"key"`
	Region             string `mapstructure:"region"`
	TranslatorEndpoint string `mapstructure:"translator_endpoint"`
	VisionEndpoint     string `mapstructure:"vision_endpoint"`
}

type GoogleConfig struct {
	Credentials string `mapstructure:"credentials"`
	ProjectID   string `mapstructure:"project_id"`
}

type PollConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	Delay       time.Duration `mapstructure:"delay"`
}

type Config struct {
	Azure  AzureConfig  `mapstructure:"azure"`
	Google GoogleConfig `mapstructure:"google"`
	Poll   PollConfig   `mapstructure:"poll"`

	HTTPTimeout      time.Duration `mapstructure:"http_timeout"`
	OperationTimeout time.Duration `mapstructure:"operation_timeout"`
	Provider         string        `mapstructure:"provider"`
	StorePath        string        `mapstructure:"store_path"`
	LogLevel         string        `mapstructure:"log_level"`
	ValidateOutput   bool          `mapstructure:"validate_output"`
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("azure.region", "eastus")
	v.SetDefault("azure.translator_endpoint", "https://api.cognitive.microsofttranslator.com")
	v.SetDefault("azure.vision_endpoint", "")
	v.SetDefault("azure.key", "")
	v.SetDefault("google.credentials", "")
	v.SetDefault("google.project_id", "")
	v.SetDefault("poll.max_attempts", 10)
	v.SetDefault("poll.delay", time.Second)
	v.SetDefault("http_timeout", 30*time.Second)
	v.SetDefault("operation_timeout", 2*time.Minute)
	v.SetDefault("provider", "azure")
	v.SetDefault("store_path", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("validate_output", false)
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadDotEnv loads variables from a .env file into the process environment
// without overriding existing ones. A missing default file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ReadFile reads an explicit config file, or searches the default locations
// when path is empty.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("scriptran")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home + "/.config/scriptran")
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	return &cfg, nil
}

// ValidateTranslation checks the settings needed by the translate command.
func (c *Config) ValidateTranslation() error {
	var errs []error
	switch c.Provider {
	case "azure":
		if c.Azure.Key == "" {
			errs = append(errs, fmt.Errorf("azure.key is required (set %s_AZURE_KEY)", EnvPrefix))
		}
		if c.Azure.TranslatorEndpoint == "" {
			errs = append(errs, fmt.Errorf("azure.translator_endpoint is required"))
		}
	case "google":
	default:
		errs = append(errs, fmt.Errorf("unknown provider %q (use azure or google)", c.Provider))
	}
	errs = append(errs, c.validateTimeouts()...)
	return errors.Join(errs...)
}

// ValidateRecognition checks the settings needed by the recognize command.
func (c *Config) ValidateRecognition() error {
	var errs []error
	if c.Azure.Key == "" {
		errs = append(errs, fmt.Errorf("azure.key is required (set %s_AZURE_KEY)", EnvPrefix))
	}
	if c.Azure.VisionEndpoint == "" {
		errs = append(errs, fmt.Errorf("azure.vision_endpoint is required (set %s_AZURE_VISION_ENDPOINT)", EnvPrefix))
	}
	if c.Poll.MaxAttempts <= 0 {
		errs = append(errs, fmt.Errorf("poll.max_attempts must be positive, got %d", c.Poll.MaxAttempts))
	}
	if c.Poll.Delay < 0 {
		errs = append(errs, fmt.Errorf("poll.delay must not be negative, got %s", c.Poll.Delay))
	}
	errs = append(errs, c.validateTimeouts()...)
	return errors.Join(errs...)
}

func (c *Config) validateTimeouts() []error {
	var errs []error
	if c.HTTPTimeout <= 0 {
		errs = append(errs, fmt.Errorf("http_timeout must be positive, got %s", c.HTTPTimeout))
	}
	if c.OperationTimeout < 0 {
		errs = append(errs, fmt.Errorf("operation_timeout must not be negative, got %s", c.OperationTimeout))
	}
	return errs
}

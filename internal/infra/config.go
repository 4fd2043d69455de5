package infra

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"exchange_chat/internal/domain"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultUserAgent is a browser-like user agent string to avoid bot detection
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// DefaultRateURL is the PrivatBank archive endpoint (without query).
	DefaultRateURL = "https://api.privatbank.ua/p24api/exchange_rates"
)

// ServerConfig configures the WebSocket listener.
type ServerConfig struct {
	Host            string `yaml:"host" env:"HOST"`
	Port            int    `yaml:"port" env:"PORT"`
	WriteTimeoutMS  int    `yaml:"write_timeout_ms" env:"WRITE_TIMEOUT_MS"`
	MaxMessageBytes int64  `yaml:"max_message_bytes" env:"MAX_MESSAGE_BYTES"`
}

// ExchangeConfig configures the rate source.
type ExchangeConfig struct {
	BaseURL           string   `yaml:"base_url" env:"BASE_URL"`
	TimeoutSec        int      `yaml:"timeout_sec" env:"TIMEOUT_SEC"`
	MaxRetries        int      `yaml:"max_retries" env:"MAX_RETRIES"`
	ConcurrentFetch   bool     `yaml:"concurrent_fetch" env:"CONCURRENT_FETCH"`
	DefaultCurrencies []string `yaml:"default_currencies" env:"DEFAULT_CURRENCIES" envSeparator:","`
}

// AuditConfig selects where executed commands are recorded.
type AuditConfig struct {
	Driver string `yaml:"driver" env:"DRIVER"` // "file" or "sqlite"
	Path   string `yaml:"path" env:"PATH"`
}

// LoggingConfig configures slog output.
type LoggingConfig struct {
	Level string `yaml:"level" env:"LEVEL"`
	Dir   string `yaml:"dir" env:"DIR"`
}

// Config holds every setting of the chat server.
// Values from the YAML file are overridden by EXCHANGE_CHAT_* environment variables.
type Config struct {
	App struct {
		Name    string `yaml:"name" env:"NAME"`
		Version string `yaml:"version" env:"VERSION"`
	} `yaml:"app" envPrefix:"APP_"`

	Server   ServerConfig   `yaml:"server" envPrefix:"SERVER_"`
	Exchange ExchangeConfig `yaml:"exchange" envPrefix:"EXCHANGE_"`
	Audit    AuditConfig    `yaml:"audit" envPrefix:"AUDIT_"`
	Logging  LoggingConfig  `yaml:"logging" envPrefix:"LOGGING_"`
}

// DefaultConfig returns a configuration usable without any file.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.App.Name = "exchange-chat"
	cfg.App.Version = "dev"
	cfg.Server = ServerConfig{
		Host:            "localhost",
		Port:            8080,
		WriteTimeoutMS:  2000,
		MaxMessageBytes: 4096,
	}
	cfg.Exchange = ExchangeConfig{
		BaseURL:           DefaultRateURL,
		TimeoutSec:        10,
		MaxRetries:        2,
		DefaultCurrencies: append([]string(nil), domain.DefaultCurrencies...),
	}
	cfg.Audit = AuditConfig{
		Driver: "file",
		Path:   "exchange_log_file.txt",
	}
	cfg.Logging = LoggingConfig{
		Level: "info",
		Dir:   "logs",
	}
	return cfg
}

// LoadConfig reads the YAML file at path on top of the defaults.
// A missing file is reported as domain.ErrConfigNotFound; an empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", domain.ErrConfigNotFound, path)
			}
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
		}
	}

	if err := overrideWithEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if c.Server.Host == "" {
		return &domain.ConfigError{Field: "server.host", Err: errors.New("cannot be empty")}
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return &domain.ConfigError{Field: "server.port", Err: fmt.Errorf("invalid port number: %d", c.Server.Port)}
	}
	if c.Server.WriteTimeoutMS <= 0 {
		return &domain.ConfigError{Field: "server.write_timeout_ms", Err: errors.New("must be positive")}
	}

	if !strings.HasPrefix(c.Exchange.BaseURL, "http://") && !strings.HasPrefix(c.Exchange.BaseURL, "https://") {
		return &domain.ConfigError{Field: "exchange.base_url", Err: fmt.Errorf("invalid URL: %s", c.Exchange.BaseURL)}
	}
	if c.Exchange.TimeoutSec <= 0 {
		return &domain.ConfigError{Field: "exchange.timeout_sec", Err: errors.New("must be positive")}
	}
	if c.Exchange.MaxRetries < 0 {
		return &domain.ConfigError{Field: "exchange.max_retries", Err: errors.New("cannot be negative")}
	}
	for i, code := range c.Exchange.DefaultCurrencies {
		c.Exchange.DefaultCurrencies[i] = strings.ToUpper(strings.TrimSpace(code))
		if c.Exchange.DefaultCurrencies[i] == "" {
			return &domain.ConfigError{Field: "exchange.default_currencies", Err: fmt.Errorf("entry %d is empty", i)}
		}
	}

	switch c.Audit.Driver {
	case "file", "sqlite":
	default:
		return &domain.ConfigError{Field: "audit.driver", Err: fmt.Errorf("unsupported driver %q", c.Audit.Driver)}
	}
	if c.Audit.Path == "" {
		return &domain.ConfigError{Field: "audit.path", Err: errors.New("cannot be empty")}
	}

	return nil
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// overrideWithEnv overwrites config values with EXCHANGE_CHAT_* environment variables when set.
func overrideWithEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "EXCHANGE_CHAT_"}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"stealthcompany.com/claimsdesk/internal/apiclient"
)

// Config is the runtime configuration of the desk
type Config struct {
	AppEnv     string        `mapstructure:"APP_ENV"`
	APIURL     string        `mapstructure:"API_URL"`
	APIURLProd string        `mapstructure:"API_URL_PROD"`
	APIURLDev  string        `mapstructure:"API_URL_DEV"`
	APITimeout time.Duration `mapstructure:"API_TIMEOUT"`

	ConsoleAddr      string `mapstructure:"CONSOLE_ADDR"`
	ConsoleJWTSecret string `mapstructure:"CONSOLE_JWT_SECRET"`
	MetricsAddr      string `mapstructure:"METRICS_ADDR"`

	ElasticsearchURL string `mapstructure:"ELASTICSEARCH_URL"`
	LogIndex         string `mapstructure:"LOG_INDEX"`
	LogLevel         string `mapstructure:"LOG_LEVEL"`

	EnableBusinessMetrics bool          `mapstructure:"ENABLE_BUSINESS_METRICS"`
	EnableSystemMetrics   bool          `mapstructure:"ENABLE_SYSTEM_METRICS"`
	SystemMetricsInterval time.Duration `mapstructure:"SYSTEM_METRICS_INTERVAL"`
}

var keys = []string{
	"APP_ENV", "API_URL", "API_URL_PROD", "API_URL_DEV", "API_TIMEOUT",
	"CONSOLE_ADDR", "CONSOLE_JWT_SECRET", "METRICS_ADDR",
	"ELASTICSEARCH_URL", "LOG_INDEX", "LOG_LEVEL",
	"ENABLE_BUSINESS_METRICS", "ENABLE_SYSTEM_METRICS", "SYSTEM_METRICS_INTERVAL",
}

// LoadDotEnv exports .env files into the process environment. The parent
// directory is tried first, then the working directory. Existing variables win.
func LoadDotEnv() {
	if err := godotenv.Load("../.env"); err != nil {
		_ = godotenv.Load(".env")
	}
}

// Load reads configuration from the environment and an optional file.
// An explicit configFile must exist; the implicit .env may be missing.
func Load(configFile string) (*Config, error) {
	LoadDotEnv()

	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigFile(".env")
		v.SetConfigType("env")
	}
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("API_TIMEOUT", "0s")
	v.SetDefault("CONSOLE_ADDR", ":8080")
	v.SetDefault("LOG_INDEX", "claimsdesk-logs")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ENABLE_BUSINESS_METRICS", false)
	v.SetDefault("ENABLE_SYSTEM_METRICS", false)
	v.SetDefault("SYSTEM_METRICS_INTERVAL", "15s")

	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	if err := v.ReadInConfig(); err != nil && configFile != "" {
		return nil, fmt.Errorf("read config %s: %w", configFile, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.APITimeout < 0 {
		return nil, fmt.Errorf("API_TIMEOUT must not be negative")
	}
	if cfg.SystemMetricsInterval <= 0 {
		return nil, fmt.Errorf("SYSTEM_METRICS_INTERVAL must be positive")
	}

	return cfg, nil
}

// IsProduction reports whether APP_ENV selects production URLs
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// BaseURL picks the backend URL for the configured environment
func (c *Config) BaseURL() string {
	return apiclient.ResolveBaseURL(apiclient.Env{
		AppEnv:  c.AppEnv,
		URL:     c.APIURL,
		ProdURL: c.APIURLProd,
		DevURL:  c.APIURLDev,
	})
}

// AuthEnabled reports whether console API routes require a bearer token
func (c *Config) AuthEnabled() bool {
	return c.ConsoleJWTSecret != ""
}

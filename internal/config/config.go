package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the main structure mapping the entire application configuration.
// This struct uses mapstructure tags to map YAML keys and environment variables to Go fields.
type Config struct {
	// Server configuration section containing HTTP server settings
	Server struct {
		Port        int      `mapstructure:"port"`         // HTTP server port (default: 8080)
		CORSOrigins []string `mapstructure:"cors_origins"` // Allowed CORS origins ("*" for any)
	} `mapstructure:"server"`

	// Database configuration section: which store backs the feed and how to reach it
	Database struct {
		Driver string `mapstructure:"driver"` // sqlite, postgres or redis
		URL    string `mapstructure:"url"`    // file path for sqlite, connection URL otherwise
	} `mapstructure:"database"`

	// Feed configuration
	Feed struct {
		Limit int `mapstructure:"limit"` // Maximum number of thoughts returned by GET /thoughts
	} `mapstructure:"feed"`

	// Monitor configuration for store health checking
	Monitor struct {
		IntervalSeconds int `mapstructure:"interval_seconds"`
	} `mapstructure:"monitor"`

	// API behaviour
	API struct {
		// PreciseStatusCodes answers 404 for unknown thoughts and 500 for store failures
		// instead of the historical 400 for every failure.
		PreciseStatusCodes bool `mapstructure:"precise_status_codes"`
	} `mapstructure:"api"`
}

// Options controls where LoadConfig looks for files.
type Options struct {
	ConfigPath string // directory holding config.yaml
	EnvFile    string // dotenv file loaded before reading the environment
}

// DefaultOptions mirrors the layout of a deployed service.
func DefaultOptions() Options {
	return Options{ConfigPath: "./configs", EnvFile: ".env"}
}

// LoadConfig loads the application configuration using Viper with the default options.
func LoadConfig() (*Config, error) {
	return LoadConfigWithOptions(DefaultOptions())
}

// LoadConfigWithOptions loads the configuration from the dotenv file, the YAML file and the
// environment, in increasing order of precedence over the defaults.
func LoadConfigWithOptions(opts Options) (*Config, error) {
	// Values already present in the environment win over the dotenv file.
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil {
			log.Printf("No %s file loaded, using environment variables", opts.EnvFile)
		}
	}

	v := viper.New()

	// "server.port" becomes "SERVER_PORT"
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Variable names the service has always been deployed with.
	if err := v.BindEnv("server.port", "SERVER_PORT", "PORT"); err != nil {
		return nil, fmt.Errorf("error binding env: %w", err)
	}
	if err := v.BindEnv("database.url", "DATABASE_URL", "MONGO_URL"); err != nil {
		return nil, fmt.Errorf("error binding env: %w", err)
	}

	v.AddConfigPath(opts.ConfigPath)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.url", "happy_thoughts.db")
	v.SetDefault("feed.limit", 20)
	v.SetDefault("monitor.interval_seconds", 30)
	v.SetDefault("api.precise_status_codes", false)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Println("Config file not found, using default values")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Printf("Configuration loaded: Server Port=%d, DB Driver=%s, Feed Limit=%d, Monitor Interval=%ds",
		cfg.Server.Port, cfg.Database.Driver, cfg.Feed.Limit, cfg.Monitor.IntervalSeconds)

	return &cfg, nil
}

// Validate checks the loaded values before anything is started with them.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres", "redis":
	default:
		return fmt.Errorf("database.driver must be one of sqlite, postgres, redis (got %q)", c.Database.Driver)
	}
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535 (got %d)", c.Server.Port)
	}
	if c.Feed.Limit <= 0 {
		return fmt.Errorf("feed.limit must be positive (got %d)", c.Feed.Limit)
	}
	if c.Monitor.IntervalSeconds <= 0 {
		return fmt.Errorf("monitor.interval_seconds must be positive (got %d)", c.Monitor.IntervalSeconds)
	}
	return nil
}

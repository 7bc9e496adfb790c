package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// Supported storage drivers.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

const envProduction = "production"

// Config holds every setting the service reads at startup.
// It is built once by Load and passed by reference afterwards.
type Config struct {
	Port        string
	Env         string
	APIKey      string
	DBDriver    string
	MongoURI    string
	DBName      string
	DatabaseDSN string
	RabbitMQURL string
	LogLevel    string
}

// Load reads configuration from the environment, falling back to an optional
// .env file in the working directory and then to defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("PORT", "3000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_DRIVER", DriverMongo)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("DB_NAME", "products_api")
	v.SetDefault("DATABASE_DSN", "file:products.db?cache=shared")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("API_KEY", "")

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// SetConfigFile reports a missing file as a plain fs error.
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read .env file: %w", err)
		}
	}
	v.AutomaticEnv()

	cfg := &Config{
		Port:        v.GetString("PORT"),
		Env:         v.GetString("APP_ENV"),
		APIKey:      v.GetString("API_KEY"),
		DBDriver:    strings.ToLower(v.GetString("DB_DRIVER")),
		MongoURI:    v.GetString("MONGO_URI"),
		DBName:      v.GetString("DB_NAME"),
		DatabaseDSN: v.GetString("DATABASE_DSN"),
		RabbitMQURL: v.GetString("RABBITMQ_URL"),
		LogLevel:    v.GetString("LOG_LEVEL"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings the service cannot start without.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("API_KEY must be set")
	}
	switch c.DBDriver {
	case DriverMongo, DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	return nil
}

// IsProduction reports whether internal error details must be hidden.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, envProduction)
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

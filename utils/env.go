package utils

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoadEnv reads .env from the working directory into the process
// environment. A missing file is not an error.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		color.New(color.Faint).Println("ℹ️  No .env file found, continuing...")
	}
}

// Config is the resolved process configuration.
type Config struct {
	Dialect     string
	PostgresURL string
	Database    string // database name, or the file path for sqlite
	Port        string
	Debug       bool
}

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// LoadConfig resolves the configuration from flags bound into viper and the
// environment. It fails when a required variable is missing.
func LoadConfig() (Config, error) {
	viper.SetDefault("dialect", DialectPostgres)
	viper.SetDefault("port", "8000")
	_ = viper.BindEnv("postgres.url", "POSTGRES_URL")
	_ = viper.BindEnv("postgres.database", "POSTGRES_DATABASE")
	_ = viper.BindEnv("dialect", "DATABASE_DIALECT")
	_ = viper.BindEnv("port", "PORT")
	_ = viper.BindEnv("debug", "DEBUG")

	cfg := Config{
		Dialect:     strings.ToLower(viper.GetString("dialect")),
		PostgresURL: viper.GetString("postgres.url"),
		Database:    viper.GetString("postgres.database"),
		Port:        viper.GetString("port"),
		Debug:       viper.GetBool("debug"),
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Dialect {
	case DialectPostgres:
		if c.PostgresURL == "" {
			return fmt.Errorf("POSTGRES_URL not set (in .env or environment)")
		}
		if c.Database == "" {
			return fmt.Errorf("POSTGRES_DATABASE not set (in .env or environment)")
		}
	case DialectSQLite:
		if c.Database == "" {
			return fmt.Errorf("POSTGRES_DATABASE not set: it names the sqlite file")
		}
	default:
		return fmt.Errorf("unsupported dialect %q (want %s or %s)", c.Dialect, DialectPostgres, DialectSQLite)
	}
	return nil
}

// DSN returns the data source name handed to the driver.
func (c Config) DSN() string {
	if c.Dialect == DialectSQLite {
		return c.Database
	}
	return strings.TrimRight(c.PostgresURL, "/") + "/" + c.Database
}

/**
 * @description
 * Configuration loader for the log observer backend.
 * Reads a TOML file as the primary source, with environment-variable
 * overrides layered on top for secrets that should not live in a
 * committed file (database DSN, remote price-book URL credentials).
 *
 * @dependencies
 * - github.com/spf13/viper: TOML file loading + env-var merge
 * - github.com/pelletier/go-toml/v2: TOML codec used by viper
 * - github.com/joho/godotenv: .env overlay for local secrets
 *
 * @notes
 * - Fails fast if critical values (database DSN) are missing.
 */

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Parser    ParserConfig
	Inventory InventoryConfig
	PriceDB   PriceDBConfig
	Logger    LoggerConfig
}

// ServerConfig holds HTTP/WebSocket server settings.
type ServerConfig struct {
	Host string
	Port string
	Env  string
}

// DatabaseConfig holds PostgreSQL settings.
type DatabaseConfig struct {
	DSN string
}

// RedisConfig holds the optional event-stream broker settings. When URL
// is empty the event stream runs against an embedded in-memory broker.
type RedisConfig struct {
	URL string
}

// ParserConfig holds log-tailing and parser-registry settings.
type ParserConfig struct {
	LogPath string
	Log     bool // enable rotating parser-event log
}

// InventoryConfig holds InventoryService tuning.
type InventoryConfig struct {
	UpdateIntervalSeconds int
}

// PriceDBConfig holds Price Book settings.
type PriceDBConfig struct {
	RemoteURL     string
	LocalJSONPath string
}

// LoggerConfig holds global and per-component log levels.
type LoggerConfig struct {
	Level      string
	Components map[string]string
}

// Load reads config.toml (if present), merges environment overrides, and
// validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("parser.log_path", "game.log")
	v.SetDefault("parser.log", false)
	v.SetDefault("inventory.update_interval", 5)
	v.SetDefault("price_db.local_path", "price_table.json")
	v.SetDefault("logger.level", "info")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config.toml: %w", err)
		}
	}

	v.SetEnvPrefix("OBSERVER")
	v.AutomaticEnv()

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		v.Set("database.dsn", dsn)
	}
	if url := os.Getenv("PRICE_DB_URL"); url != "" {
		v.Set("price_db.remote_url", url)
	}
	if url := os.Getenv("REDIS_URL"); url != "" {
		v.Set("redis.url", url)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("server.host"),
			Port: v.GetString("server.port"),
			Env:  v.GetString("server.env"),
		},
		Database: DatabaseConfig{
			DSN: v.GetString("database.dsn"),
		},
		Redis: RedisConfig{
			URL: v.GetString("redis.url"),
		},
		Parser: ParserConfig{
			LogPath: v.GetString("parser.log_path"),
			Log:     v.GetBool("parser.log"),
		},
		Inventory: InventoryConfig{
			UpdateIntervalSeconds: v.GetInt("inventory.update_interval"),
		},
		PriceDB: PriceDBConfig{
			RemoteURL:     v.GetString("price_db.remote_url"),
			LocalJSONPath: v.GetString("price_db.local_path"),
		},
		Logger: LoggerConfig{
			Level:      v.GetString("logger.level"),
			Components: componentLevels(v),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// componentLevels extracts per-component overrides of the form
// logger.<Name> = "level" from the logger section.
func componentLevels(v *viper.Viper) map[string]string {
	out := map[string]string{}
	sub := v.GetStringMap("logger")
	for key, val := range sub {
		if strings.EqualFold(key, "level") {
			continue
		}
		if s, ok := val.(string); ok {
			out[key] = s
		}
	}
	return out
}

func validate(cfg *Config) error {
	if cfg.Database.DSN == "" {
		return fmt.Errorf("database DSN is required (set database.dsn in config.toml or DATABASE_URL)")
	}
	if cfg.Inventory.UpdateIntervalSeconds <= 0 {
		return fmt.Errorf("inventory.update_interval must be positive")
	}
	return nil
}

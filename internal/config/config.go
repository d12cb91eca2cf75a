package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config stores all configuration for the application.
type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`
	LogPretty  bool   `mapstructure:"LOG_PRETTY"`

	GeminiAPIKey    string `mapstructure:"GEMINI_API_KEY"`
	TextModel       string `mapstructure:"TEXT_MODEL"`
	ImageModel      string `mapstructure:"IMAGE_MODEL"`
	ContentLanguage string `mapstructure:"CONTENT_LANGUAGE"`

	SettingsBackend string `mapstructure:"SETTINGS_BACKEND"`
	SQLiteDBPath    string `mapstructure:"SQLITE_DB_PATH"`
	RedisAddr       string `mapstructure:"REDIS_ADDR"`
	RedisPassword   string `mapstructure:"REDIS_PASSWORD"`
	RedisDB         int    `mapstructure:"REDIS_DB"`

	// Simulated latencies, in milliseconds
	CategoryDelayMin int `mapstructure:"SIM_CATEGORY_DELAY_MIN_MS"`
	CategoryDelayMax int `mapstructure:"SIM_CATEGORY_DELAY_MAX_MS"`
	PublishDelayMin  int `mapstructure:"SIM_PUBLISH_DELAY_MIN_MS"`
	PublishDelayMax  int `mapstructure:"SIM_PUBLISH_DELAY_MAX_MS"`

	EmptyUsers   []string `mapstructure:"SIM_EMPTY_USERS"`
	FailingUsers []string `mapstructure:"SIM_FAILING_USERS"`
}

// Load reads configuration from the given env file (if present) and the environment.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.AutomaticEnv()

	// The file is optional; environment variables alone are enough.
	// A file that exists but cannot be read or parsed is still an error.
	if err := v.ReadInConfig(); err != nil && !isMissingFile(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", envFile, err)
	}

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("TEXT_MODEL", "gemini-2.5-flash")
	v.SetDefault("IMAGE_MODEL", "imagen-3.0-generate-002")
	v.SetDefault("CONTENT_LANGUAGE", "Italian")
	v.SetDefault("SETTINGS_BACKEND", BackendSQLite)
	v.SetDefault("SQLITE_DB_PATH", "./data/wpgen.db")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SIM_CATEGORY_DELAY_MIN_MS", 1000)
	v.SetDefault("SIM_CATEGORY_DELAY_MAX_MS", 1500)
	v.SetDefault("SIM_PUBLISH_DELAY_MIN_MS", 1500)
	v.SetDefault("SIM_PUBLISH_DELAY_MAX_MS", 2500)
	v.SetDefault("SIM_EMPTY_USERS", []string{"user_senza_categorie"})
	v.SetDefault("SIM_FAILING_USERS", []string{"utente_con_errore_categorie"})

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func isMissingFile(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound)
}

func (c *Config) CategoryDelay() (time.Duration, time.Duration) {
	return millis(c.CategoryDelayMin), millis(c.CategoryDelayMax)
}

func (c *Config) PublishDelay() (time.Duration, time.Duration) {
	return millis(c.PublishDelayMin), millis(c.PublishDelayMax)
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

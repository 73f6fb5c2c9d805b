package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds all configuration for the application
type Config struct {
	App    AppConfig    `mapstructure:"app"`
	Feed   FeedConfig   `mapstructure:"feed"`
	Store  StoreConfig  `mapstructure:"store"`
	Mirror MirrorConfig `mapstructure:"mirror"`
}

type AppConfig struct {
	Port       string `mapstructure:"port"`
	Env        string `mapstructure:"env"` // e.g., "local", "prod"
	CORSOrigin string `mapstructure:"cors_origin"`
}

type FeedConfig struct {
	TickInterval  time.Duration `mapstructure:"tick_interval"`
	ChurnInterval time.Duration `mapstructure:"churn_interval"`
}

type StoreConfig struct {
	SeedSymbols []string `mapstructure:"seed_symbols"`
	HistoryDays int      `mapstructure:"history_days"`
}

type MirrorConfig struct {
	Redis RedisMirrorConfig `mapstructure:"redis"`
	Kafka KafkaMirrorConfig `mapstructure:"kafka"`
}

type RedisMirrorConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type KafkaMirrorConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// LoadConfig reads configuration from .env file, environment variables, and defaults.
func LoadConfig() (*Config, error) {
	v := viper.New()

	// 1. Load .env file into System Environment (if it exists)
	if err := godotenv.Load(); err != nil {
		log.Println("Note: No .env file found, relying on System Env Vars")
	}

	// 2. Set Defaults (12-Factor App: Dev/Prod Parity)
	v.SetDefault("app.port", ":5000")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.cors_origin", "*")

	v.SetDefault("feed.tick_interval", 5*time.Second)
	v.SetDefault("feed.churn_interval", 20*time.Second)

	v.SetDefault("store.seed_symbols", []string{"AAPL", "GOOGL", "MSFT"})
	v.SetDefault("store.history_days", 365)

	v.SetDefault("mirror.redis.enabled", false)
	v.SetDefault("mirror.redis.addr", "localhost:6379")
	v.SetDefault("mirror.redis.password", "")
	v.SetDefault("mirror.redis.db", 0)
	v.SetDefault("mirror.redis.ttl", 1*time.Hour)

	v.SetDefault("mirror.kafka.enabled", false)
	v.SetDefault("mirror.kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("mirror.kafka.topic", "market_ticks")

	// 3. Configure Viper to read Environment Variables
	// This maps dot-notation to underscores (e.g., "app.port" -> "APP_PORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Explicitly Bind Env Vars to Keys
	// This is crucial for Viper to map flat Env Vars (APP_PORT) to nested structs (App.Port)
	bindEnv(v, "app.port", "app.env", "app.cors_origin")
	bindEnv(v, "feed.tick_interval", "feed.churn_interval")
	bindEnv(v, "store.seed_symbols", "store.history_days")
	bindEnv(v, "mirror.redis.enabled", "mirror.redis.addr", "mirror.redis.password", "mirror.redis.db", "mirror.redis.ttl")
	bindEnv(v, "mirror.kafka.enabled", "mirror.kafka.brokers", "mirror.kafka.topic")

	// 5. Unmarshal into Struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %v", err)
	}

	// 6. Basic Validation
	if cfg.Store.HistoryDays <= 1 {
		return nil, fmt.Errorf("store.history_days must be at least 2")
	}
	if cfg.Feed.TickInterval <= 0 || cfg.Feed.ChurnInterval <= 0 {
		return nil, fmt.Errorf("feed intervals must be positive")
	}
	if cfg.Mirror.Kafka.Enabled && len(cfg.Mirror.Kafka.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers cannot be empty when the kafka mirror is enabled")
	}

	return &cfg, nil
}

// NewLogger builds the process logger for the configured environment.
func NewLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// bindEnv is a helper to bind multiple keys at once
func bindEnv(v *viper.Viper, keys ...string) {
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			log.Printf("Could not bind env var for key %s: %v", key, err)
		}
	}
}

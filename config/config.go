// Package config loads pplme's configuration from the environment (and an
// optional .env file): viper with typed sub-structs and defaults set in
// code.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration for the pplme daemon.
type Config struct {
	Engine   EngineConfig
	Server   ServerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Source   SourceConfig
}

// EngineConfig holds the matching engine's build-time tunables.
type EngineConfig struct {
	Resolution         int `mapstructure:"ENGINE_RESOLUTION"`
	MaxAgeDifference   int `mapstructure:"ENGINE_MAX_AGE_DIFFERENCE"`
	ResultCap          int `mapstructure:"ENGINE_RESULT_CAP"`
	PerFindConcurrency int `mapstructure:"ENGINE_PER_FIND_CONCURRENCY"`
}

// ServerConfig holds transport listen addresses.
type ServerConfig struct {
	TCPAddr  string `mapstructure:"SERVER_TCP_ADDR"`
	HTTPAddr string `mapstructure:"SERVER_HTTP_ADDR"`
}

// PostgresConfig holds PostgreSQL connection settings, used only when
// Source.Kind is "postgres".
type PostgresConfig struct {
	Host     string `mapstructure:"POSTGRES_HOST"`
	Port     int    `mapstructure:"POSTGRES_PORT"`
	User     string `mapstructure:"POSTGRES_USER"`
	Password string `mapstructure:"POSTGRES_PASSWORD"`
	DBName   string `mapstructure:"POSTGRES_DB"`
	SSLMode  string `mapstructure:"POSTGRES_SSLMODE"`
	MaxConns int32  `mapstructure:"POSTGRES_MAX_CONNS"`
	MinConns int32  `mapstructure:"POSTGRES_MIN_CONNS"`
}

// RedisConfig holds Redis connection settings, used by the FindMatching
// result cache.
type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     int    `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
	PoolSize int    `mapstructure:"REDIS_POOL_SIZE"`
}

// SourceConfig selects and configures the bulk-load data source.
type SourceConfig struct {
	// Kind is "csv" or "postgres".
	Kind    string `mapstructure:"SOURCE_KIND"`
	CSVPath string `mapstructure:"SOURCE_CSV_PATH"`
}

// DSN returns the PostgreSQL connection string.
func (p *PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DBName, p.SSLMode,
	)
}

// Addr returns the Redis address in host:port format.
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Load reads configuration from environment variables and .env file.
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// ── Defaults ────────────────────────────────────────
	viper.SetDefault("ENGINE_RESOLUTION", 4)
	viper.SetDefault("ENGINE_MAX_AGE_DIFFERENCE", 2)
	viper.SetDefault("ENGINE_RESULT_CAP", 20)
	viper.SetDefault("ENGINE_PER_FIND_CONCURRENCY", 0)

	viper.SetDefault("SERVER_TCP_ADDR", "0.0.0.0:7890")
	viper.SetDefault("SERVER_HTTP_ADDR", "0.0.0.0:8080")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "pplme")
	viper.SetDefault("POSTGRES_PASSWORD", "pplme_secret")
	viper.SetDefault("POSTGRES_DB", "pplme_db")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")
	viper.SetDefault("POSTGRES_MAX_CONNS", 20)
	viper.SetDefault("POSTGRES_MIN_CONNS", 2)

	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", 6379)
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_POOL_SIZE", 50)

	viper.SetDefault("SOURCE_KIND", "csv")
	viper.SetDefault("SOURCE_CSV_PATH", "people.csv")

	// Try to read .env file. If it doesn't exist (e.g., inside a
	// container), env vars injected by the orchestrator are used instead.
	_ = viper.ReadInConfig()

	cfg := &Config{}

	cfg.Engine = EngineConfig{
		Resolution:         viper.GetInt("ENGINE_RESOLUTION"),
		MaxAgeDifference:   viper.GetInt("ENGINE_MAX_AGE_DIFFERENCE"),
		ResultCap:          viper.GetInt("ENGINE_RESULT_CAP"),
		PerFindConcurrency: viper.GetInt("ENGINE_PER_FIND_CONCURRENCY"),
	}

	cfg.Server = ServerConfig{
		TCPAddr:  viper.GetString("SERVER_TCP_ADDR"),
		HTTPAddr: viper.GetString("SERVER_HTTP_ADDR"),
	}

	cfg.Postgres = PostgresConfig{
		Host:     viper.GetString("POSTGRES_HOST"),
		Port:     viper.GetInt("POSTGRES_PORT"),
		User:     viper.GetString("POSTGRES_USER"),
		Password: viper.GetString("POSTGRES_PASSWORD"),
		DBName:   viper.GetString("POSTGRES_DB"),
		SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		MaxConns: viper.GetInt32("POSTGRES_MAX_CONNS"),
		MinConns: viper.GetInt32("POSTGRES_MIN_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     viper.GetString("REDIS_HOST"),
		Port:     viper.GetInt("REDIS_PORT"),
		Password: viper.GetString("REDIS_PASSWORD"),
		DB:       viper.GetInt("REDIS_DB"),
		PoolSize: viper.GetInt("REDIS_POOL_SIZE"),
	}

	cfg.Source = SourceConfig{
		Kind:    viper.GetString("SOURCE_KIND"),
		CSVPath: viper.GetString("SOURCE_CSV_PATH"),
	}

	return cfg, nil
}

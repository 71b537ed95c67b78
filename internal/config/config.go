package config

import (
	"errors"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	Shortener ShortenerConfig
}

type AppConfig struct {
	Port        string
	Environment string
	LogLevel    string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host         string
	Port         string
	PoolSize     int
	MinIdleConns int
}

type ShortenerConfig struct {
	// DomainPrefix is prepended to identifiers when building short URLs.
	DomainPrefix string
	IDLength     int
	MaxAttempts  int
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// A missing .env is fine; the environment still applies.
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "production")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DOMAIN_PREFIX", "https://urlkit.io/")
	viper.SetDefault("REDIS_POOL_SIZE", 100)
	viper.SetDefault("REDIS_MIN_IDLE_CONNS", 10)
	viper.SetDefault("SHORT_ID_LENGTH", 7)
	viper.SetDefault("CREATE_MAX_ATTEMPTS", 3)

	var cfg Config
	cfg.App.Port = viper.GetString("APP_PORT")
	cfg.App.Environment = viper.GetString("ENVIRONMENT")
	cfg.App.LogLevel = viper.GetString("LOG_LEVEL")
	cfg.DB.Host = viper.GetString("DB_HOST")
	cfg.DB.Port = viper.GetString("DB_PORT")
	cfg.DB.User = viper.GetString("DB_USER")
	cfg.DB.Password = viper.GetString("DB_PASSWORD")
	cfg.DB.Name = viper.GetString("DB_NAME")
	cfg.Redis.Host = viper.GetString("REDIS_HOST")
	cfg.Redis.Port = viper.GetString("REDIS_PORT")
	cfg.Redis.PoolSize = viper.GetInt("REDIS_POOL_SIZE")
	cfg.Redis.MinIdleConns = viper.GetInt("REDIS_MIN_IDLE_CONNS")
	cfg.Shortener.DomainPrefix = viper.GetString("DOMAIN_PREFIX")
	cfg.Shortener.IDLength = viper.GetInt("SHORT_ID_LENGTH")
	cfg.Shortener.MaxAttempts = viper.GetInt("CREATE_MAX_ATTEMPTS")

	return &cfg, nil
}

// IsDevelopment reports whether raw internal error text may be exposed
// to callers. Anything other than an explicit development environment
// suppresses detail.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

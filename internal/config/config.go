// Package config loads runtime settings from defaults, an optional YAML
// file, a .env file and STOREFRONT_* environment variables, in that order
// of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTP      HTTPConfig      `mapstructure:"http"`
	GRPC      GRPCConfig      `mapstructure:"grpc"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Realtime  RealtimeConfig  `mapstructure:"realtime"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Log       LogConfig       `mapstructure:"log"`
}

type HTTPConfig struct {
	Port int `mapstructure:"port"`
}

type GRPCConfig struct {
	Port int `mapstructure:"port"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	Group   string   `mapstructure:"group"`
}

type RealtimeConfig struct {
	Channel string `mapstructure:"channel"`
}

type CacheConfig struct {
	ProductTTL time.Duration `mapstructure:"product_ttl"`
}

type AuthConfig struct {
	JWTSecret  string        `mapstructure:"jwt_secret"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	RefreshTTL time.Duration `mapstructure:"refresh_ttl"`
	// AdminUsername and AdminPassword create the first admin at start-up
	// when no user with that name exists.
	AdminUsername string `mapstructure:"admin_username"`
	AdminPassword string `mapstructure:"admin_password"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type CatalogConfig struct {
	Seed bool `mapstructure:"seed"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.port", 8080)
	v.SetDefault("grpc.port", 9090)
	v.SetDefault("database.url", "")
	v.SetDefault("redis.url", "")
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "storefront.products")
	v.SetDefault("kafka.group", "storefront")
	v.SetDefault("realtime.channel", "storefront:products")
	v.SetDefault("cache.product_ttl", 5*time.Minute)
	v.SetDefault("auth.jwt_secret", "dev-only-secret")
	v.SetDefault("auth.token_ttl", 15*time.Minute)
	v.SetDefault("auth.refresh_ttl", 30*24*time.Hour)
	v.SetDefault("auth.admin_username", "")
	v.SetDefault("auth.admin_password", "")
	v.SetDefault("ratelimit.rps", 10.0)
	v.SetDefault("ratelimit.burst", 20)
	v.SetDefault("catalog.seed", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Load reads configuration. path may be empty, in which case only defaults,
// .env and the environment are consulted.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Unprefixed names used by docker-compose setups.
	_ = v.BindEnv("database.url", "STOREFRONT_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("redis.url", "STOREFRONT_REDIS_URL", "REDIS_URL")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.HTTP.Port <= 0 {
		return fmt.Errorf("http.port must be positive, got %d", c.HTTP.Port)
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return errors.New("ratelimit.rps and ratelimit.burst must be positive")
	}
	if c.Auth.RefreshTTL <= 0 {
		return errors.New("auth.refresh_ttl must be positive")
	}
	if (c.Auth.AdminUsername == "") != (c.Auth.AdminPassword == "") {
		return errors.New("auth.admin_username and auth.admin_password must be set together")
	}
	if c.Auth.AdminPassword != "" && len(c.Auth.AdminPassword) < 6 {
		return errors.New("auth.admin_password must be at least 6 characters")
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return errors.New("kafka.topic is required when kafka.brokers is set")
	}
	return nil
}

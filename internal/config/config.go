package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port              string            `mapstructure:"port" validate:"required,numeric"`
	OpenWeatherAPIKey string            `mapstructure:"openweather_api_key"`
	OpenWeatherURL    string            `mapstructure:"openweather_base_url" validate:"required,url"`
	DefaultCity       string            `mapstructure:"default_city" validate:"required"`
	LogLevel          string            `mapstructure:"log_level" validate:"oneof=debug info warn warning error"`
	LogFormat         string            `mapstructure:"log_format" validate:"oneof=text json"`
	RedisAddr         string            `mapstructure:"redis_addr" validate:"omitempty,hostname_port"`
	RedisPassword     string            `mapstructure:"redis_password"`
	SessionTTL        time.Duration     `mapstructure:"session_ttl" validate:"gt=0"`
	OTLPEndpoint      string            `mapstructure:"otel_exporter_otlp_endpoint" validate:"omitempty,url"`
	CityCorrections   map[string]string `mapstructure:"city_corrections"`
}

// Load reads .env (if present), then an optional YAML file named by
// CONFIG_FILE, then the environment, which wins.
func Load() (*Config, error) {
	_ = godotenv.Load()

	// City aliases such as "st. louis" contain dots, so keys must not be
	// split on viper's default delimiter.
	v := viper.NewWithOptions(viper.KeyDelimiter("::"))
	v.SetDefault("port", "8096")
	v.SetDefault("openweather_api_key", "")
	v.SetDefault("openweather_base_url", "https://api.openweathermap.org")
	v.SetDefault("default_city", "London")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("session_ttl", "24h")
	v.SetDefault("otel_exporter_otlp_endpoint", "")
	v.AutomaticEnv()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// WEATHER_APP_PORT applies only when PORT is unset.
	if os.Getenv("PORT") == "" {
		if p := os.Getenv("WEATHER_APP_PORT"); p != "" {
			cfg.Port = p
		}
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	cfg.DefaultCity = strings.TrimSpace(cfg.DefaultCity)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// SlogLevel maps LogLevel onto slog levels.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "WEATHER_APP_PORT", "OPENWEATHER_API_KEY", "OPENWEATHER_BASE_URL", "DEFAULT_CITY",
		"LOG_LEVEL", "LOG_FORMAT", "REDIS_ADDR", "REDIS_PASSWORD", "SESSION_TTL",
		"OTEL_EXPORTER_OTLP_ENDPOINT", "CONFIG_FILE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8096" || cfg.DefaultCity != "London" || cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.OpenWeatherAPIKey != "" || cfg.OpenWeatherURL != "https://api.openweathermap.org" {
		t.Fatalf("unexpected upstream config %+v", cfg)
	}
	if cfg.SlogLevel() != slog.LevelInfo {
		t.Fatalf("expected info level")
	}
}

func TestLoadDoesNotLog(t *testing.T) {
	clearEnv(t)
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	if _, err := Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("Load logged before logging is configured: %s", buf.String())
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("OPENWEATHER_API_KEY", "k")
	t.Setenv("DEFAULT_CITY", " Paris ")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9000" || cfg.OpenWeatherAPIKey != "k" || cfg.DefaultCity != "Paris" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.SessionTTL != 30*time.Minute || cfg.RedisAddr != "localhost:6379" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Fatalf("expected debug level")
	}
}

func TestServicePortFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("WEATHER_APP_PORT", "8123")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8123" {
		t.Fatalf("expected WEATHER_APP_PORT to apply, got %q", cfg.Port)
	}
}

func TestLoadConfigFileCorrections(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "weather.yaml")
	data := "default_city: Budapest\ncity_corrections:\n  bombay: Mumbai\n  nyc: New York\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DefaultCity != "Budapest" {
		t.Fatalf("expected file value, got %q", cfg.DefaultCity)
	}
	if cfg.CityCorrections["bombay"] != "Mumbai" || cfg.CityCorrections["nyc"] != "New York" {
		t.Fatalf("unexpected corrections %v", cfg.CityCorrections)
	}
}

func TestLoadConfigFileDottedAliases(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "weather.yaml")
	data := "city_corrections:\n  \"st. louis\": Saint Louis\n  \"washington d.c.\": Washington\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.CityCorrections["st. louis"] != "Saint Louis" || cfg.CityCorrections["washington d.c."] != "Washington" {
		t.Fatalf("unexpected corrections %v", cfg.CityCorrections)
	}
	if len(cfg.CityCorrections) != 2 {
		t.Fatalf("expected 2 corrections, got %v", cfg.CityCorrections)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	clearEnv(t)
	cases := map[string]string{
		"LOG_LEVEL":            "verbose",
		"OPENWEATHER_BASE_URL": "not a url",
		"PORT":                 "http",
		"REDIS_ADDR":           "no-port",
	}
	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv(k, v)
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), "invalid config") {
				t.Fatalf("expected validation error for %s=%q, got %v", k, v, err)
			}
		})
	}
}

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Priyanshut972/Weatherapp/internal/cityname"
	"github.com/Priyanshut972/Weatherapp/internal/config"
	"github.com/Priyanshut972/Weatherapp/internal/httpapi"
	"github.com/Priyanshut972/Weatherapp/internal/observability"
	"github.com/Priyanshut972/Weatherapp/internal/owm"
	"github.com/Priyanshut972/Weatherapp/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config error", "error", err)
		os.Exit(1)
	}
	setupLogging(cfg)
	slog.Info("weather-app config loaded",
		"port", cfg.Port,
		"default_city", cfg.DefaultCity,
		"redis", cfg.RedisAddr != "",
		"demo_mode", cfg.OpenWeatherAPIKey == "",
		"extra_corrections", len(cfg.CityCorrections),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownObs, promHandler, tracer, err := observability.Setup(ctx, cfg.OTLPEndpoint)
	if err != nil {
		slog.Error("observability setup failed", "error", err)
		os.Exit(1)
	}
	defer shutdownObs()

	weather := owm.New(cfg.OpenWeatherAPIKey, owm.WithBaseURL(cfg.OpenWeatherURL))
	if weather.DemoMode() {
		slog.Warn("OPENWEATHER_API_KEY not set, serving sample weather data")
	}
	resolver := cityname.New(cfg.CityCorrections)

	var store session.Store
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		pingCancel()
		if err != nil {
			slog.Error("redis connect failed", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		store = session.NewRedisStore(rdb, cfg.SessionTTL)
		slog.Info("session store", "backend", "redis", "addr", cfg.RedisAddr)
	} else {
		store = session.NewMemoryStore(cfg.SessionTTL)
		slog.Info("session store", "backend", "memory")
	}

	ctrl := session.NewController(resolver, weather, store, cfg.DefaultCity)
	srv := httpapi.NewServer(ctrl, resolver, weather)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(observability.MetricsAndTracingMiddleware(tracer))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promHandler)
	srv.RegisterRoutes(r)

	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("weather-app started", "port", cfg.Port, "default_city", cfg.DefaultCity, "corrections", resolver.Len())
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-stop:
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	slog.Info("shutting down")
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func setupLogging(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

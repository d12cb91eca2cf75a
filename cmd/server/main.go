package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/dfryer1193/wpgen/assistant/application"
	"github.com/dfryer1193/wpgen/assistant/domain"
	"github.com/dfryer1193/wpgen/assistant/persistence"
	"github.com/dfryer1193/wpgen/assistant/simulator"
	"github.com/dfryer1193/wpgen/internal/config"
	"github.com/dfryer1193/wpgen/internal/metrics"
	"github.com/dfryer1193/wpgen/internal/middleware"
	"github.com/dfryer1193/wpgen/internal/rest"
	"github.com/dfryer1193/wpgen/shared/db"
	"github.com/dfryer1193/wpgen/shared/db/sqlite"
	"github.com/dfryer1193/wpgen/shared/gemini"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	setupLogging(cfg)

	ctx := context.Background()

	settingsRepo, closeSettings, err := newSettingsRepository(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.SettingsBackend).Msg("Failed to initialise settings storage")
	}
	defer closeSettings()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	categoryMin, categoryMax := cfg.CategoryDelay()
	publishMin, publishMax := cfg.PublishDelay()

	coordinator := application.NewCoordinator(application.CoordinatorDeps{
		Generator: newGenerator(ctx, cfg),
		Settings:  settingsRepo,
		Categories: simulator.NewCategorySimulator(simulator.CategoryConfig{
			Latency:   simulator.Latency{Min: categoryMin, Max: categoryMax},
			Scenarios: scenarios(cfg),
		}),
		Publisher: simulator.NewPublishSimulator(simulator.PublisherConfig{
			Latency: simulator.Latency{Min: publishMin, Max: publishMax},
		}),
		Alerts:  application.NewAlertQueue(application.RealClock{}),
		Metrics: m,
	})
	defer func() {
		if err := coordinator.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to gracefully close coordinator")
		}
	}()

	coordinator.Startup()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics(m))
	router.Use(gin.CustomRecovery(middleware.HandlePanics()))
	rest.NewApi(router, coordinator, reg)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Info().Msg("Starting server on port :" + cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to shutdown server")
	}

	log.Info().Msg("Server stopped")
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// newGenerator returns a generator without models when no key is configured.
func newGenerator(ctx context.Context, cfg *config.Config) *application.ContentGenerator {
	genCfg := application.GeneratorConfig{Language: cfg.ContentLanguage}

	client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		if !errors.Is(err, domain.ErrCapabilityUnavailable) {
			log.Error().Err(err).Msg("Failed to create Gemini client")
		}
		return application.NewContentGenerator(nil, nil, genCfg)
	}

	return application.NewContentGenerator(
		gemini.NewTextModel(client, cfg.TextModel),
		gemini.NewImageModel(client, cfg.ImageModel),
		genCfg,
	)
}

func newSettingsRepository(ctx context.Context, cfg *config.Config) (domain.SettingsRepository, func(), error) {
	switch cfg.SettingsBackend {
	case config.BackendSQLite:
		var database db.Database = sqlite.NewSQLiteDB(sqlite.NewSQLiteConfig(cfg.SQLiteDBPath))
		if err := database.Connect(); err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := database.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close database")
			}
		}
		return persistence.NewSettingsRepository(database.DB()), closeFn, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		closeFn := func() {
			if err := client.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close redis client")
			}
		}
		return persistence.NewRedisSettingsRepository(client), closeFn, nil

	default:
		return nil, nil, fmt.Errorf("unknown settings backend %q", cfg.SettingsBackend)
	}
}

func scenarios(cfg *config.Config) map[string]simulator.Scenario {
	out := make(map[string]simulator.Scenario, len(cfg.EmptyUsers)+len(cfg.FailingUsers))
	for _, u := range cfg.EmptyUsers {
		if u = strings.TrimSpace(u); u != "" {
			out[u] = simulator.ScenarioEmpty
		}
	}
	for _, u := range cfg.FailingUsers {
		if u = strings.TrimSpace(u); u != "" {
			out[u] = simulator.ScenarioError
		}
	}
	return out
}

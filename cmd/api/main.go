package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"samakicash/internal/adapter/repo"
	"samakicash/internal/advisory"
	"samakicash/internal/auth"
	"samakicash/internal/domain"
	"samakicash/internal/http/handlers"
	httpapi "samakicash/internal/http/httpapi"
	"samakicash/internal/infra"
	"samakicash/internal/infra/credentials"
	"samakicash/internal/infra/geoip"
	"samakicash/internal/providers/market"
	"samakicash/internal/providers/pricing"
	"samakicash/internal/providers/speech"
	"samakicash/internal/providers/vision"
	"samakicash/internal/storage"
	"samakicash/internal/worker"
)

const drainTimeout = 15 * time.Second

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore := openStore(ctx, cfg, &logger)
	defer closeStore()

	audioDir := cfg.AudioDir
	if abs, err := filepath.Abs(audioDir); err == nil {
		audioDir = abs
	}
	audio, err := storage.NewFileStore(audioDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure audio storage")
	}

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	defer resolver.Close()

	providerClient := &http.Client{Timeout: cfg.ProviderTimeout}
	synth := speech.New(speech.Options{
		APIKey:     cfg.Speech.APIKey,
		BaseURL:    cfg.Speech.BaseURL,
		Model:      cfg.Speech.Model,
		Timeout:    cfg.SpeechTimeout,
		HTTPClient: &http.Client{Timeout: cfg.SpeechTimeout},
		Store:      audio,
		Logger:     &logger,
	})

	persister := worker.NewPersister(store, &logger, cfg.PersistQueueSize)
	persister.Start()

	pipeline := advisory.NewPipeline(advisory.Options{
		Pricing: pricing.New(pricing.Options{
			APIKey:     cfg.Pricing.APIKey,
			BaseURL:    cfg.Pricing.BaseURL,
			Model:      cfg.Pricing.Model,
			Timeout:    cfg.ProviderTimeout,
			HTTPClient: providerClient,
			Logger:     &logger,
		}),
		Market: market.New(market.Options{
			APIKey:     cfg.Market.APIKey,
			BaseURL:    cfg.Market.BaseURL,
			Model:      cfg.Market.Model,
			Timeout:    cfg.ProviderTimeout,
			HTTPClient: providerClient,
			Logger:     &logger,
		}),
		Vision: vision.New(vision.Options{
			APIKey:     cfg.Vision.APIKey,
			BaseURL:    cfg.Vision.BaseURL,
			Model:      cfg.Vision.Model,
			Timeout:    cfg.ProviderTimeout,
			HTTPClient: providerClient,
			Logger:     &logger,
		}),
		Speech:    synth,
		Scheduler: persister,
		Logger:    &logger,
	})

	app := &handlers.App{
		Store:      store,
		Pipeline:   pipeline,
		AudioStore: audio,
		Voices:     synth,
		Hasher:     auth.NewHasher(cfg.PasswordPepper),
		Logger:     &logger,
	}
	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:         &logger,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimit:      cfg.RateLimitPerMin,
		DefaultLocale:  cfg.DefaultLocale,
		CountryLookup:  geoip.LookupFunc(resolver),
		Debug:          cfg.DebugEndpoints,
	})

	server := infra.NewHTTPServer(cfg, router)
	go func() {
		logger.Info().Str("addr", server.Addr()).Msg("API listening")
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}

	drainCtx, cancelDrain := context.WithTimeout(context.Background(), drainTimeout)
	defer cancelDrain()
	if err := persister.Close(drainCtx); err != nil {
		logger.Error().Err(err).Msg("pending catch records not persisted")
	}
	logger.Info().Msg("server stopped")
}

// openStore returns the PostgreSQL store when DATABASE_URL is set and the
// in-memory store otherwise. With PostgreSQL, provider keys missing from the
// environment are filled from the credentials table.
func openStore(ctx context.Context, cfg *infra.Config, logger *infra.Logger) (domain.RecordStore, func()) {
	if cfg.DatabaseURL == "" {
		logger.Warn().Msg("DATABASE_URL not set, using in-memory record store")
		return repo.NewMemoryStore(), func() {}
	}
	db, err := infra.NewDB(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	runner := infra.NewSQLRunner(db, *logger)
	pg := repo.NewPostgresStore(runner)
	if err := pg.Migrate(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}
	credentials.NewStore(runner).Fill(ctx, cfg, logger)
	return pg, func() { _ = db.Close() }
}

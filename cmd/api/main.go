package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"donorsite/internal/backend"
	"donorsite/internal/checkout"
	"donorsite/internal/content"
	"donorsite/internal/http/handlers"
	httpapi "donorsite/internal/http/httpapi"
	"donorsite/internal/infra"
	"donorsite/internal/infra/geoip"
	"donorsite/internal/wizard"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	resolver, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	defer resolver.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	duration := backend.NewDurationHistogram()
	reg.MustRegister(duration)

	client, err := backend.NewClient(backend.Options{
		BaseURL:        cfg.BackendBaseURL,
		Logger:         &logger,
		RequestTimeout: cfg.BackendTimeout,
		Duration:       duration,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build backend client")
	}

	store := checkout.NewStore(cfg.SessionTTL, nil)
	svc, err := checkout.NewService(checkout.Options{
		Backend:       client,
		Rules:         wizard.NewRules(cfg.MinAmount, cfg.PresetAmounts, cfg.PhoneDigits, cfg.DefaultCause),
		Store:         store,
		Logger:        &logger,
		Metrics:       checkout.NewMetrics(reg),
		SubmitTimeout: cfg.BackendTimeout,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build checkout service")
	}
	stopSweeper, err := svc.StartSweeper(cfg.SessionSweepSpec)
	if err != nil {
		logger.Fatal().Err(err).Str("spec", cfg.SessionSweepSpec).Msg("invalid SESSION_SWEEP_SPEC")
	}

	catalog, err := content.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load content catalog")
	}

	app := &handlers.App{
		Checkout: svc,
		Catalog:  client,
		Content:  catalog,
		Logger:   &logger,
		Currency: cfg.Currency,
	}
	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:         logger,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimit:      cfg.RateLimitPerMin,
		DefaultLocale:  cfg.DefaultLocale,
		CountryLookup:  resolver.LookupFunc(),
		Metrics:        handlers.MetricsHandler(reg),
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("addr", server.Addr()).Str("backend", cfg.BackendBaseURL).Msg("API listening")
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	stopSweeper(shutdownCtx)
	logger.Info().Msg("server stopped")
}

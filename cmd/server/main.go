package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"PatternSentinel/internal/api"
	"PatternSentinel/internal/collector"
	"PatternSentinel/internal/config"
	"PatternSentinel/internal/logging"
	"PatternSentinel/internal/pattern"
	"PatternSentinel/internal/scanner"
	"PatternSentinel/internal/scheduler"
	"PatternSentinel/internal/storage"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config validation: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(logging.Options{
		Level:      cfg.Logging.Level,
		Console:    true,
		FilePath:   cfg.Logging.FilePath,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	log.Info().Int("stocks", len(cfg.Stocks)).
		Str("trading_hours", cfg.TradingHours.Start+"-"+cfg.TradingHours.End).
		Int("interval_minutes", cfg.Collection.IntervalMinutes).
		Msg("PatternSentinel starting")

	// Init storage
	store, err := storage.NewSQLiteStore(cfg.Database.SQLitePath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init sqlite store")
	}
	defer store.Close()

	// Init collector
	loc, err := time.LoadLocation(cfg.TradingHours.Timezone)
	if err != nil {
		log.Fatal().Err(err).Msg("load trading timezone")
	}
	fetcher := collector.NewYahooFetcher(cfg.Proxy)
	log.Info().Str("source", fetcher.Name()).Msg("data source initialized")
	col := collector.NewCollector(fetcher, store, cfg.Stocks, cfg.Collection.IntervalMinutes,
		collector.TradingHours{
			Start:    cfg.TradingHours.Start,
			End:      cfg.TradingHours.End,
			Location: loc,
		}, log)

	// Init pattern scanner
	sc := scanner.New(store, log)
	sc.Register("cup_and_handle", pattern.NewCupAndHandle(pattern.Params{
		CupDepthMin:     cfg.Patterns.CupAndHandle.CupDepthMin,
		CupDepthMax:     cfg.Patterns.CupAndHandle.CupDepthMax,
		HandleDepthMin:  cfg.Patterns.CupAndHandle.HandleDepthMin,
		HandleDepthMax:  cfg.Patterns.CupAndHandle.HandleDepthMax,
		HandleLengthMax: cfg.Patterns.CupAndHandle.HandleLengthMax,
	}))
	sc.Register("three_white_soldiers", pattern.NewThreeWhiteSoldiers())

	// Init scheduler
	sched := scheduler.NewScheduler(col, store, cfg.Collection.RetentionDays, log)
	if err := sched.RegisterAll(cfg.Collection.IntervalMinutes); err != nil {
		log.Fatal().Err(err).Msg("register cron tasks")
	}
	sched.Start()
	defer sched.Stop()

	// Initial collection when inside the trading window
	go func() {
		if n := col.CollectIfTradingHours(); n > 0 {
			log.Info().Int("symbols", n).Msg("initial collection completed")
		}
	}()

	// Init HTTP API
	handler := api.NewHandler(sc, cfg.Stocks, cfg.Collection.RetentionDays, log)
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
		Handler: handler,
	}
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("API server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("API server failed")
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("API server shutdown")
	}
	log.Info().Msg("PatternSentinel stopped")
}

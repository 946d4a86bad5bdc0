package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/imaglide/eisenhower-triage/adapter/in/batch"
	"github.com/imaglide/eisenhower-triage/config"
	"github.com/imaglide/eisenhower-triage/internal/bootstrap"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load .env file if exists (for local development)
	_ = godotenv.Load()

	mode := flag.String("mode", "api", "Run mode: api, batch")
	emlDir := flag.String("eml-dir", "", "Directory of .eml files (batch mode)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := newLogger(cfg)

	switch *mode {
	case "api":
		runAPI(cfg, log)
	case "batch":
		runBatch(cfg, log, *emlDir)
	default:
		log.Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var log zerolog.Logger
	if cfg.IsDevelopment() {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		log = zerolog.New(os.Stderr)
	}
	return log.Level(level).With().Timestamp().Str("service", "eisenhower-triage").Logger()
}

func runAPI(cfg *config.Config, log zerolog.Logger) {
	app, cleanup, err := bootstrap.NewAPI(context.Background(), cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize API")
	}
	defer cleanup()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Dur("timeout", shutdownTimeout).Msg("shutting down API server")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		done := make(chan error, 1)
		go func() {
			done <- app.Shutdown()
		}()

		select {
		case err := <-done:
			if err != nil {
				log.Error().Err(err).Msg("error shutting down")
			}
		case <-ctx.Done():
			log.Warn().Msg("shutdown timed out, forcing exit")
		}
	}()

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Msg("starting API server")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}

func runBatch(cfg *config.Config, log zerolog.Logger, dir string) {
	if dir == "" {
		log.Fatal().Msg("-eml-dir is required in batch mode")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	deps, err := bootstrap.NewDependencies(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize dependencies")
	}
	defer deps.Close()

	processor := batch.NewProcessor(deps.TriageService, cfg.BatchWorkers, log)
	if err := processor.Run(ctx, dir); err != nil {
		log.Fatal().Err(err).Str("dir", dir).Msg("batch run failed")
	}
}

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/synapsehq/capture/internal/app"
	"github.com/synapsehq/capture/internal/fetch"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		inputPath  string
		outputPath string
		configPath string
		userAgent  string
		timeout    time.Duration
		verbose    bool
	)

	flag.StringVar(&inputPath, "input", app.InputDefault, "Path to the capture payload JSON ('-' for stdin)")
	flag.StringVar(&outputPath, "output", app.OutputDefault, "Path to write the normalized result JSON ('-' for stdout)")
	flag.StringVar(&configPath, "config", os.Getenv("CAPTURE_CONFIG"), "Optional YAML/JSON config file")
	flag.StringVar(&userAgent, "fetch.ua", envOr("CAPTURE_UA", fetch.DefaultUserAgent), "User-Agent for content fetches")
	flag.DurationVar(&timeout, "fetch.timeout", app.TimeoutDefault, "Timeout for the content fetch")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	cfg := app.Config{
		InputPath:  inputPath,
		OutputPath: outputPath,
		UserAgent:  userAgent,
		Timeout:    timeout,
		Verbose:    verbose,
	}
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", configPath).Msg("load config file")
		}
		app.ApplyFileConfig(&cfg, fc)
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("capture failed")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

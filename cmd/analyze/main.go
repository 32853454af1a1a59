package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/nnaakkaaii/forecast2048/internal/config"
	"github.com/nnaakkaaii/forecast2048/internal/domain"
	"github.com/nnaakkaaii/forecast2048/internal/usecase"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	depth := flag.Int("depth", 0, "initial search depth (0 keeps the configured value)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	config.SetupLogging(os.Stderr, *debug)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("loading-config")
	}
	if *depth > 0 {
		cfg.Search.MaxDepth = *depth
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := usecase.NewAnalyzer(domain.NewForecaster(cfg))
	if err := a.Loop(ctx, os.Stdin, os.Stdout); err != nil {
		log.Error().Err(err).Msg("analyzer-stopped")
	}
}

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nnaakkaaii/forecast2048/internal/config"
	"github.com/nnaakkaaii/forecast2048/internal/domain"
	"github.com/nnaakkaaii/forecast2048/internal/usecase"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	depth := flag.Int("depth", 0, "search depth (0 keeps the configured value)")
	delay := flag.Int("delay", 100, "delay between moves (ms)")
	quiet := flag.Bool("quiet", false, "suppress output")
	debug := flag.Bool("debug", false, "enable debug logging")
	seed := flag.Int64("seed", 0, "spawn seed (0 for a random game; batch games use seed+i)")
	games := flag.Int("games", 1, "number of games; more than one runs a batch")
	workers := flag.Int("workers", 0, "concurrent games in a batch (0 for one per CPU)")
	maxMoves := flag.Int("max-moves", 0, "stop after this many moves (0 for no limit)")
	recordPath := flag.String("record", "", "write a YAML move record to this file")
	flag.Parse()

	config.SetupLogging(os.Stderr, *debug)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("loading-config")
	}
	if *depth > 0 {
		cfg.Search.MaxDepth = *depth
	}
	fc := domain.NewForecaster(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *games > 1 {
		_, err := usecase.RunBatch(ctx, os.Stdout, fc, usecase.BatchConfig{
			Games:           *games,
			Workers:         *workers,
			Seed:            *seed,
			MaxMoves:        *maxMoves,
			HistoryCapacity: cfg.HistoryCapacity,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("batch")
		}
		return
	}

	spawner := domain.NewSpawner()
	if *seed != 0 {
		spawner = domain.NewSeededSpawner(*seed)
	}
	game := domain.NewGameWithHistory(spawner, cfg.HistoryCapacity)

	ap := usecase.DefaultAutoPlayConfig()
	ap.Delay = time.Duration(*delay) * time.Millisecond
	ap.Verbose = !*quiet
	ap.MaxMoves = *maxMoves
	if *recordPath != "" {
		f, err := os.Create(*recordPath)
		if err != nil {
			log.Fatal().Err(err).Msg("creating-record")
		}
		defer f.Close()
		ap.Record = f
	}

	if _, err := usecase.AutoPlay(ctx, os.Stdout, game, fc, ap); err != nil {
		log.Error().Err(err).Msg("autoplay-stopped")
	}
}

package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/nnaakkaaii/forecast2048/internal/config"
	"github.com/nnaakkaaii/forecast2048/internal/domain"
	"github.com/nnaakkaaii/forecast2048/internal/usecase"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	depth := flag.Int("depth", 0, "hint search depth (0 keeps the configured value)")
	seed := flag.Int64("seed", 0, "spawn seed (0 for a random game)")
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

	spawner := domain.NewSpawner()
	if *seed != 0 {
		spawner = domain.NewSeededSpawner(*seed)
	}
	game := domain.NewGameWithHistory(spawner, cfg.HistoryCapacity)

	if err := usecase.PlayGame(os.Stdin, os.Stdout, game, domain.NewForecaster(cfg)); err != nil {
		log.Fatal().Err(err).Msg("play")
	}
}

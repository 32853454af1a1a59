package usecase

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sort"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/nnaakkaaii/forecast2048/internal/domain"
)

const (
	histogramBins  = 15
	histogramWidth = 40
)

// BatchConfig は複数ゲームの一括実行の設定
type BatchConfig struct {
	Games int
	// Workers は同時に進めるゲーム数（0ならCPU数）
	Workers int
	// Seed はi番目のゲームで Seed+i として使う
	Seed            int64
	MaxMoves        int
	HistoryCapacity int
}

// BatchSummary は一括実行の集計
type BatchSummary struct {
	Results     []Result
	MeanScore   float64
	StdScore    float64
	MedianScore float64
	MeanMoves   float64
	StdMoves    float64
	WinRate     float64
	// MaxTiles は最大タイルごとのゲーム数
	MaxTiles map[int]int
}

// RunBatch はシード固定のゲームを並列に実行し、集計とスコアのヒストグラムを書き出す
func RunBatch(ctx context.Context, w io.Writer, fc *domain.Forecaster, cfg BatchConfig) (BatchSummary, error) {
	if cfg.Games < 1 {
		return BatchSummary{}, fmt.Errorf("%w: games must be positive, got %d", domain.ErrInvalidConfig, cfg.Games)
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	results := make([]Result, cfg.Games)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < cfg.Games; i++ {
		i := i // per-iteration copy; go directive is 1.21 (pre-1.22 loop semantics)
		g.Go(func() error {
			seed := cfg.Seed + int64(i)
			game := domain.NewGameWithHistory(domain.NewSeededSpawner(seed), cfg.HistoryCapacity)
			r, err := AutoPlay(gctx, io.Discard, game, fc, AutoPlayConfig{MaxMoves: cfg.MaxMoves})
			if err != nil {
				return fmt.Errorf("game %d (seed %d): %w", i, seed, err)
			}
			results[i] = r
			log.Debug().Int("game", i).Int64("seed", seed).Int("score", r.Score).Msg("batch-game-done")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return BatchSummary{}, err
	}

	summary := summarize(results)
	printSummary(w, summary)
	return summary, nil
}

func summarize(results []Result) BatchSummary {
	scores := lo.Map(results, func(r Result, _ int) float64 { return float64(r.Score) })
	moves := lo.Map(results, func(r Result, _ int) float64 { return float64(r.Moves) })

	s := BatchSummary{Results: results}
	s.MeanScore, s.StdScore = stat.MeanStdDev(scores, nil)
	s.MeanMoves, s.StdMoves = stat.MeanStdDev(moves, nil)
	if len(results) < 2 {
		s.StdScore, s.StdMoves = 0, 0
	}

	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)
	s.MedianScore = stat.Quantile(0.5, stat.Empirical, sorted, nil)

	s.WinRate = float64(lo.CountBy(results, func(r Result) bool { return r.Won })) / float64(len(results))
	s.MaxTiles = lo.CountValuesBy(results, func(r Result) int { return r.MaxTile })
	return s
}

func printSummary(w io.Writer, s BatchSummary) {
	fmt.Fprintf(w, "=== Batch: %d games ===\n", len(s.Results))
	fmt.Fprintf(w, "Score: mean %.1f, std %.1f, median %.0f\n", s.MeanScore, s.StdScore, s.MedianScore)
	fmt.Fprintf(w, "Moves: mean %.1f, std %.1f\n", s.MeanMoves, s.StdMoves)
	fmt.Fprintf(w, "Win rate: %.1f%%\n", 100*s.WinRate)

	tiles := lo.Keys(s.MaxTiles)
	sort.Sort(sort.Reverse(sort.IntSlice(tiles)))
	for _, tile := range tiles {
		fmt.Fprintf(w, "  %6d: %d\n", tile, s.MaxTiles[tile])
	}

	scores := lo.Map(s.Results, func(r Result, _ int) float64 { return float64(r.Score) })
	// 全ゲーム同点だとビン幅が0になる
	if lo.Min(scores) == lo.Max(scores) {
		return
	}
	fmt.Fprintln(w, "Score histogram:")
	if err := histogram.Fprint(w, histogram.Hist(histogramBins, scores), histogram.Linear(histogramWidth)); err != nil {
		log.Err(err).Msg("printing-histogram")
	}
}

package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/nnaakkaaii/forecast2048/internal/domain"
)

// AutoPlayConfig は自動プレイの設定
type AutoPlayConfig struct {
	// MaxMoves は手数の上限（0なら無制限）
	MaxMoves int
	Delay    time.Duration
	Verbose  bool
	// Record が nil でなければ1手ごとにYAMLドキュメントを書き出す
	Record io.Writer
}

// DefaultAutoPlayConfig はデフォルトの設定を返す
func DefaultAutoPlayConfig() AutoPlayConfig {
	return AutoPlayConfig{
		Delay:   100 * time.Millisecond,
		Verbose: true,
	}
}

// Result は1ゲームの結果
type Result struct {
	Score   int  `yaml:"score"`
	Moves   int  `yaml:"moves"`
	MaxTile int  `yaml:"max_tile"`
	Won     bool `yaml:"won"`
}

// MoveRecord は棋譜の1手分
type MoveRecord struct {
	Move       int                 `yaml:"move"`
	Direction  string              `yaml:"direction"`
	Fallback   bool                `yaml:"fallback,omitempty"`
	ScoreDelta int                 `yaml:"score_delta"`
	Score      int                 `yaml:"score"`
	Spawn      int                 `yaml:"spawn"`
	State      domain.EncodedState `yaml:"state,flow"`
}

// AutoPlay は先読みエンジンで盤面が詰むまで（またはMaxMovesまで）プレイする
// エンジンが手を返さないのに盤面が詰んでいない場合は、列挙順で最初に動かせる方向を指す
func AutoPlay(ctx context.Context, w io.Writer, game *domain.Game, fc *domain.Forecaster, config AutoPlayConfig) (Result, error) {
	victory := fc.Utility().VictoryTile()

	var enc *yaml.Encoder
	if config.Record != nil {
		enc = yaml.NewEncoder(config.Record)
		defer enc.Close()
	}

	if config.Verbose {
		fmt.Fprintln(w, "=== 2048 AutoPlay ===")
		search := fc.SearchConfig()
		fmt.Fprintf(w, "Depth: %d, Queue: %d, Path threshold: %.2f\n\n",
			search.MaxDepth, search.SizeThreshold, search.PathProbThreshold)
	}

	for !game.IsGameOver() {
		if config.MaxMoves > 0 && game.MoveCount() >= config.MaxMoves {
			break
		}
		if config.Verbose {
			fmt.Fprint(w, game.Board())
			fmt.Fprintf(w, "Score: %d, Moves: %d\n", game.Score(), game.MoveCount())
		}

		dir, ok, err := fc.ChooseMoveContext(ctx, game.Board(), game.MoveCount())
		if err != nil {
			return result(game, victory), err
		}
		fallback := false
		if !ok {
			dirs := domain.ValidDirections(game.Board())
			if len(dirs) == 0 {
				break
			}
			dir, fallback = dirs[0], true
			log.Debug().Stringer("dir", dir).Msg("forecast-empty-using-first-valid")
		}

		if config.Verbose {
			fmt.Fprintf(w, "Move: %s\n\n", dir)
		}

		res, tile := game.Move(dir)
		if enc != nil {
			spawn := -1
			if tile != nil {
				spawn = domain.EncodeTile(*tile)
			}
			rec := MoveRecord{
				Move:       game.MoveCount(),
				Direction:  dir.String(),
				Fallback:   fallback,
				ScoreDelta: res.ScoreDelta,
				Score:      game.Score(),
				Spawn:      spawn,
				State:      domain.Encode(game.Board()),
			}
			if err := enc.Encode(rec); err != nil {
				return result(game, victory), fmt.Errorf("writing record: %w", err)
			}
		}

		if config.Delay > 0 {
			select {
			case <-ctx.Done():
				return result(game, victory), ctx.Err()
			case <-time.After(config.Delay):
			}
		}
	}

	r := result(game, victory)
	// 最終結果は常に表示
	fmt.Fprint(w, game.Board())
	if game.IsGameOver() {
		fmt.Fprintln(w, "=== Game Over ===")
	} else {
		fmt.Fprintf(w, "=== Stopped after %d moves ===\n", r.Moves)
	}
	fmt.Fprintf(w, "Final Score: %d\n", r.Score)
	fmt.Fprintf(w, "Total Moves: %d\n", r.Moves)
	fmt.Fprintf(w, "Max Tile: %d\n", r.MaxTile)

	log.Debug().
		Int("score", r.Score).
		Int("moves", r.Moves).
		Int("max-tile", r.MaxTile).
		Bool("won", r.Won).
		Msg("game-finished")
	return r, nil
}

func result(game *domain.Game, victory int) Result {
	return Result{
		Score:   game.Score(),
		Moves:   game.MoveCount(),
		MaxTile: game.Board().MaxTile(),
		Won:     game.Won(victory),
	}
}

package usecase

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"

	"github.com/nnaakkaaii/forecast2048/internal/domain"
)

const playHelp = "Controls: w=Up, s=Down, a=Left, d=Right, u=Undo, h=Hint, q=Quit"

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

// PlaySession は対話プレイ1回分の状態
// 入力1行ごとに Handle を呼ぶ
type PlaySession struct {
	w       io.Writer
	game    *domain.Game
	fc      *domain.Forecaster
	victory int
	won     bool
}

// NewPlaySession は対話プレイを開始する
func NewPlaySession(w io.Writer, game *domain.Game, fc *domain.Forecaster) *PlaySession {
	return &PlaySession{
		w:       w,
		game:    game,
		fc:      fc,
		victory: fc.Utility().VictoryTile(),
		won:     game.Won(fc.Utility().VictoryTile()),
	}
}

// Render は盤面とスコアを表示する
func (s *PlaySession) Render() {
	fmt.Fprint(s.w, s.game.Board())
	fmt.Fprintf(s.w, "Score: %d, Moves: %d\n", s.game.Score(), s.game.MoveCount())
}

// Handle は1行の入力を処理し、続けるなら true を返す
func (s *PlaySession) Handle(input string) bool {
	input = strings.TrimSpace(strings.ToLower(input))
	switch input {
	case "":
		return true
	case "q", "quit":
		fmt.Fprintln(s.w, "Quit.")
		return false
	case "u", "undo":
		if !s.game.Undo() {
			fmt.Fprintln(s.w, "Nothing to undo.")
			return true
		}
		s.Render()
		return true
	case "h", "hint":
		dir, ok := s.fc.ChooseMove(s.game.Board(), s.game.MoveCount())
		if !ok {
			fmt.Fprintln(s.w, "Hint: no move available.")
			return true
		}
		fmt.Fprintf(s.w, "Hint: %s\n", dir)
		return true
	}

	dir, ok := domain.ParseDirection(input)
	if !ok {
		fmt.Fprintln(s.w, "Invalid input. Use w/a/s/d, u, h or q to quit.")
		return true
	}

	res, tile := s.game.Move(dir)
	if !res.Valid {
		fmt.Fprintln(s.w, "Cannot move in that direction.")
		return true
	}
	log.Debug().
		Stringer("dir", dir).
		Int("delta", res.ScoreDelta).
		Interface("spawn", tile).
		Msg("player-move")

	fmt.Fprintln(s.w)
	s.Render()

	if !s.won && s.game.Won(s.victory) {
		s.won = true
		fmt.Fprintf(s.w, "You reached %d!\n", s.victory)
	}
	if s.game.IsGameOver() {
		fmt.Fprintln(s.w, "Game Over!")
		return false
	}
	return true
}

// PlayGame は端末で2048ゲームを実行する
func PlayGame(in io.ReadCloser, out io.Writer, game *domain.Game, fc *domain.Forecaster) error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "move> ",
		HistoryFile:     "/tmp/forecast2048.readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		Stdin:           in,
		Stdout:          out,

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return fmt.Errorf("starting readline: %w", err)
	}
	defer l.Close()

	w := l.Stdout()
	session := NewPlaySession(w, game, fc)

	fmt.Fprintln(w, "=== 2048 ===")
	fmt.Fprintln(w, playHelp)
	fmt.Fprintln(w)
	session.Render()

	for {
		line, err := l.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				break
			}
			continue
		} else if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return err
		}
		if !session.Handle(line) {
			break
		}
	}
	log.Debug().Int("score", game.Score()).Int("moves", game.MoveCount()).Msg("exiting-play-loop")
	return nil
}

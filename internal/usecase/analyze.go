package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/nnaakkaaii/forecast2048/internal/domain"
)

// 探索深さとして受け付ける範囲
const (
	minAnalyzeDepth = 1
	maxAnalyzeDepth = 10
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadBoard       = errors.New("bad board")
	ErrBadArgument    = errors.New("bad argument")
	// ErrQuit は quit コマンドで返る
	ErrQuit = errors.New("quit")
)

const analyzeHelp = `Commands:
  board <16 numbers>        set the board (row-major, 0 for empty)
  show                      print the board and its heuristic scores
  analyze                   run the forecast and print per-direction scores
  move <dir>                apply a move without spawning (w/a/s/d or up/left/right/down)
  spawn <row> <col> <value> place a 2 or 4 on an empty cell
  encode                    print the compact encoding of the board
  decode <w0> <w1> <w2>     set the board from its compact encoding
  depth <n>                 set the search depth (1-10)
  moves <n>                 set the move counter used by the spawn estimator
  help                      show this message
  quit                      exit`

// Analyzer は盤面を入力して探索結果を調べる対話シェル
type Analyzer struct {
	fc        *domain.Forecaster
	board     domain.Board
	moveCount int
	depth     int
}

// NewAnalyzer は空の盤面から始めるAnalyzerを生成する
func NewAnalyzer(fc *domain.Forecaster) *Analyzer {
	return &Analyzer{
		fc:    fc,
		depth: fc.SearchConfig().MaxDepth,
	}
}

// Board は現在の盤面を返す
func (a *Analyzer) Board() domain.Board {
	return a.board
}

// Exec は1行のコマンドを実行して表示用の文字列を返す
func (a *Analyzer) Exec(ctx context.Context, line string) (string, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadArgument, err)
	}
	if len(fields) == 0 {
		return "", nil
	}

	cmd, args := strings.ToLower(fields[0]), fields[1:]
	switch cmd {
	case "board":
		return a.setBoard(args)
	case "show":
		return a.show(), nil
	case "analyze":
		return a.analyze(ctx)
	case "move":
		return a.move(args)
	case "spawn":
		return a.spawn(args)
	case "encode":
		s := domain.Encode(a.board)
		return fmt.Sprintf("%d %d %d", s[0], s[1], s[2]), nil
	case "decode":
		return a.decode(args)
	case "depth":
		n, err := intArg(args, minAnalyzeDepth, maxAnalyzeDepth)
		if err != nil {
			return "", err
		}
		a.depth = n
		return fmt.Sprintf("Search depth: %d", a.depth), nil
	case "moves":
		n, err := intArg(args, 0, 1<<30)
		if err != nil {
			return "", err
		}
		a.moveCount = n
		return fmt.Sprintf("Move count: %d", a.moveCount), nil
	case "help":
		return analyzeHelp, nil
	case "quit", "exit":
		return "", ErrQuit
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
}

func (a *Analyzer) setBoard(args []string) (string, error) {
	if len(args) != domain.Size*domain.Size {
		return "", fmt.Errorf("%w: need exactly %d numbers, got %d", ErrBadBoard, domain.Size*domain.Size, len(args))
	}
	var cells [domain.Size][domain.Size]int
	for i, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrBadBoard, err)
		}
		if v != 0 && (v < 2 || v&(v-1) != 0) {
			return "", fmt.Errorf("%w: %d is not a power of two", ErrBadBoard, v)
		}
		cells[i/domain.Size][i%domain.Size] = v
	}
	a.board = domain.NewBoardFromCells(cells)
	return a.board.String(), nil
}

func (a *Analyzer) show() string {
	var sb strings.Builder
	sb.WriteString(a.board.String())

	u := a.fc.Utility()
	s := u.Scores(a.board)
	fmt.Fprintf(&sb, "Emptiness:    %.4f\n", s.Emptiness)
	fmt.Fprintf(&sb, "Monotonicity: %.4f\n", s.Monotonicity)
	fmt.Fprintf(&sb, "Mergeability: %.4f\n", s.Mergeability)
	fmt.Fprintf(&sb, "Highest tile: %.4f\n", s.HighestTile)
	fmt.Fprintf(&sb, "Utility:      %.6f\n", u.Evaluate(a.board))
	fmt.Fprintf(&sb, "Moves: %d, Depth: %d", a.moveCount, a.depth)
	if a.board.IsGameOver() {
		sb.WriteString("\nGame Over!")
	}
	return sb.String()
}

func (a *Analyzer) analyze(ctx context.Context) (string, error) {
	res, err := a.fc.WithMaxDepth(a.depth).Analyze(ctx, a.board, a.moveCount)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "P(2) = %.4f, depth %d/%d, nodes %d, leaves %d\n",
		res.P2, res.DepthReached, res.MaxDepth, res.Nodes, res.Leaves)
	if !res.Found {
		sb.WriteString("No valid moves available!")
		return sb.String(), nil
	}

	fmt.Fprintf(&sb, "=== Recommended move: %s ===\n", res.Best)
	sb.WriteString("Move scores:")
	scored := lo.Filter(res.Scores[:], func(ds domain.DirectionScore, _ int) bool { return ds.Leaves > 0 })
	for _, ds := range scored {
		fmt.Fprintf(&sb, "\n  %-5s: %.6f (%d leaves)", ds.Direction, ds.Score, ds.Leaves)
		if ds.Direction == res.Best {
			sb.WriteString(" <- BEST")
		}
	}
	return sb.String(), nil
}

func (a *Analyzer) move(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: move takes one direction", ErrBadArgument)
	}
	dir, ok := domain.ParseDirection(args[0])
	if !ok {
		return "", fmt.Errorf("%w: unknown direction %q", ErrBadArgument, args[0])
	}
	res := domain.ApplyMove(dir, a.board)
	if !res.Valid {
		return "Cannot move in that direction.", nil
	}
	a.board = res.Board
	a.moveCount++

	var sb strings.Builder
	fmt.Fprintf(&sb, "Applied %s (score gained: +%d)\n", dir, res.ScoreDelta)
	sb.WriteString(a.board.String())
	sb.WriteString("Empty cells:")
	for i, cell := range a.board.EmptyCells() {
		fmt.Fprintf(&sb, "\n  %d: (%d,%d)", i, cell[0], cell[1])
	}
	return sb.String(), nil
}

func (a *Analyzer) spawn(args []string) (string, error) {
	if len(args) != 3 {
		return "", fmt.Errorf("%w: format is spawn <row> <col> <value>", ErrBadArgument)
	}
	row, err := intArg(args[0:1], 0, domain.Size-1)
	if err != nil {
		return "", err
	}
	col, err := intArg(args[1:2], 0, domain.Size-1)
	if err != nil {
		return "", err
	}
	val, err := strconv.Atoi(args[2])
	if err != nil || !lo.Contains(domain.SpawnValues[:], val) {
		return "", fmt.Errorf("%w: value must be 2 or 4, got %q", ErrBadArgument, args[2])
	}
	if a.board.Get(row, col) != 0 {
		return "", fmt.Errorf("%w: cell (%d,%d) is not empty", ErrBadArgument, row, col)
	}
	a.board = a.board.Set(row, col, val)
	return a.board.String(), nil
}

func (a *Analyzer) decode(args []string) (string, error) {
	if len(args) != len(domain.EncodedState{}) {
		return "", fmt.Errorf("%w: decode takes %d words", ErrBadArgument, len(domain.EncodedState{}))
	}
	var s domain.EncodedState
	for i, arg := range args {
		w, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrBadArgument, err)
		}
		s[i] = uint32(w)
	}
	a.board = domain.Decode(s)
	return a.board.String(), nil
}

func intArg(args []string, low, high int) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: expected one number", ErrBadArgument)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadArgument, err)
	}
	if n < low || n > high {
		return 0, fmt.Errorf("%w: %d not in [%d, %d]", ErrBadArgument, n, low, high)
	}
	return n, nil
}

// Loop は readline で1行ずつコマンドを実行する
func (a *Analyzer) Loop(ctx context.Context, in io.ReadCloser, out io.Writer) error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "analyze> ",
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
	fmt.Fprintln(w, "=== 2048 Interactive Analyzer ===")
	fmt.Fprintln(w, "Type 'help' for commands.")

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

		msg, err := a.Exec(ctx, line)
		switch {
		case errors.Is(err, ErrQuit):
			return nil
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return err
		case err != nil:
			fmt.Fprintf(w, "Error: %v\n", err)
			log.Debug().Err(err).Str("line", line).Msg("analyzer-command-failed")
		case msg != "":
			fmt.Fprintln(w, msg)
		}
	}
	log.Debug().Msg("exiting-analyzer-loop")
	return nil
}

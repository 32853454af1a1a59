package domain

import (
	"testing"

	"github.com/matryer/is"
)

func TestNewGame(t *testing.T) {
	game := NewGame(NewSeededSpawner(42))

	if game.Score() != 0 {
		t.Errorf("initial score should be 0, got %d", game.Score())
	}
	if game.MoveCount() != 0 {
		t.Errorf("initial move count should be 0, got %d", game.MoveCount())
	}
	if got := Size*Size - game.Board().EmptyCount(); got != 2 {
		t.Errorf("expected 2 initial tiles, got %d", got)
	}
	if game.History().Cap() != DefaultHistoryCapacity {
		t.Errorf("expected history capacity %d, got %d", DefaultHistoryCapacity, game.History().Cap())
	}
}

func TestGameMove(t *testing.T) {
	game := NewGame(NewSeededSpawner(42))

	directions := []Direction{Left, Right, Up, Down}
	for i := 0; i < 10; i++ {
		before := game.Board()
		res, tile := game.Move(directions[i%4])
		if !res.Valid {
			if !game.Board().Equal(before) {
				t.Error("invalid move changed the board")
			}
			continue
		}
		if tile == nil {
			t.Error("expected a spawned tile after a valid move")
		}
	}
}

func TestGameScoreIncreases(t *testing.T) {
	is := is.New(t)

	game := NewGameFromBoard(NewBoardFromCells([4][4]int{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}), 0, 0, NewDeterministicSpawner())

	res, tile := game.Move(Left)
	is.True(res.Valid)
	is.Equal(game.Score(), 4)
	is.Equal(game.MoveCount(), 1)

	// 決定的なスポーンは最初の空きマスに2
	is.Equal(*tile, Tile{Row: 0, Col: 1, Value: 2})
	is.Equal(game.Board().Cells(), [4][4]int{
		{4, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
}

func TestGameInvalidMove(t *testing.T) {
	is := is.New(t)

	board := NewBoardFromCells([4][4]int{
		{2, 4, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	game := NewGameFromBoard(board, 12, 5, NewDeterministicSpawner())

	res, tile := game.Move(Left)
	is.True(!res.Valid)
	is.True(tile == nil)
	is.Equal(game.Score(), 12)
	is.Equal(game.MoveCount(), 5)
	is.Equal(game.History().Len(), 0)
	is.True(game.Board().Equal(board))
}

func TestGameUndo(t *testing.T) {
	is := is.New(t)

	start := NewBoardFromCells([4][4]int{
		{2, 2, 4, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	game := NewGameFromBoard(start, 0, 0, NewDeterministicSpawner())

	game.Move(Left)
	afterFirst := game.Board()
	game.Move(Left)
	is.Equal(game.History().Len(), 2)

	is.True(game.Undo())
	is.True(game.Board().Equal(afterFirst))
	is.Equal(game.Score(), 4)

	is.True(game.Undo())
	is.True(game.Board().Equal(start))
	is.Equal(game.Score(), 0)

	// 履歴が空なら何もしない
	is.True(!game.Undo())
	is.True(game.Board().Equal(start))
}

func TestGameWon(t *testing.T) {
	game := NewGameFromBoard(NewBoardFromCells([4][4]int{
		{1024, 1024, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}), 0, 0, NewDeterministicSpawner())

	if game.Won(2048) {
		t.Error("should not have won yet")
	}
	game.Move(Left)
	if !game.Won(2048) {
		t.Errorf("expected victory:\n%s", game.Board())
	}
}

func TestGameOver(t *testing.T) {
	game := NewGameFromBoard(NewBoardFromCells([4][4]int{
		{32, 64, 8, 32},
		{8, 16, 4, 16},
		{2, 8, 16, 2},
		{8, 4, 8, 4},
	}), 0, 0, NewDeterministicSpawner())

	if !game.IsGameOver() {
		t.Error("expected game over")
	}
}

func TestGamePlaysToEnd(t *testing.T) {
	game := NewGame(NewSeededSpawner(7))
	moves := 0
	for !game.IsGameOver() {
		dirs := ValidDirections(game.Board())
		if len(dirs) == 0 {
			t.Fatal("non-terminal board without valid directions")
		}
		game.Move(dirs[0])
		moves++
	}
	if game.MoveCount() != moves {
		t.Errorf("expected move count %d, got %d", moves, game.MoveCount())
	}
	t.Logf("Final board after %d moves (score %d):\n%s", moves, game.Score(), game.Board())
}

package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nnaakkaaii/forecast2048/internal/domain"
)

func TestAnalyzerBoardAndAnalyze(t *testing.T) {
	ctx := context.Background()
	a := NewAnalyzer(newTestForecaster())

	_, err := a.Exec(ctx, "board 0 8 4 2 0 2 64 128 8 64 4 2 4 2 16 8")
	require.NoError(t, err)
	_, err = a.Exec(ctx, "moves 143")
	require.NoError(t, err)
	_, err = a.Exec(ctx, "depth 1")
	require.NoError(t, err)

	out, err := a.Exec(ctx, "analyze")
	require.NoError(t, err)
	assert.Contains(t, out, "leaves 8")
	assert.Contains(t, out, "<- BEST")
	assert.Contains(t, out, "Up")
	assert.Contains(t, out, "Left")
	assert.NotContains(t, out, "Right")

	out, err = a.Exec(ctx, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Monotonicity:")
	assert.Contains(t, out, "Moves: 143, Depth: 1")
}

func TestAnalyzerMoveSpawn(t *testing.T) {
	ctx := context.Background()
	a := NewAnalyzer(newTestForecaster())

	_, err := a.Exec(ctx, "board 2 2 0 0 0 0 0 0 0 0 0 0 0 0 0 0")
	require.NoError(t, err)

	out, err := a.Exec(ctx, "move left")
	require.NoError(t, err)
	assert.Contains(t, out, "score gained: +4")
	assert.Equal(t, 4, a.Board().Get(0, 0))

	out, err = a.Exec(ctx, "move a")
	require.NoError(t, err)
	assert.Equal(t, "Cannot move in that direction.", out)

	_, err = a.Exec(ctx, "spawn 3 3 4")
	require.NoError(t, err)
	assert.Equal(t, 4, a.Board().Get(3, 3))

	_, err = a.Exec(ctx, "spawn 3 3 2")
	assert.ErrorIs(t, err, ErrBadArgument)
	_, err = a.Exec(ctx, "spawn 0 1 8")
	assert.ErrorIs(t, err, ErrBadArgument)
}

func TestAnalyzerEncodeDecode(t *testing.T) {
	ctx := context.Background()
	a := NewAnalyzer(newTestForecaster())

	_, err := a.Exec(ctx, "board 0 2 4 8 4 4 4 4 8 8 4 4 8 4 2 2")
	require.NoError(t, err)
	board := a.Board()

	out, err := a.Exec(ctx, "encode")
	require.NoError(t, err)
	s := domain.Encode(board)
	assert.Equal(t, fmt.Sprintf("%d %d %d", s[0], s[1], s[2]), out)

	_, err = a.Exec(ctx, "board 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0")
	require.NoError(t, err)
	_, err = a.Exec(ctx, "decode "+out)
	require.NoError(t, err)
	assert.True(t, a.Board().Equal(board))
}

func TestAnalyzerErrors(t *testing.T) {
	ctx := context.Background()
	a := NewAnalyzer(newTestForecaster())

	tests := []struct {
		line string
		err  error
	}{
		{"frobnicate", ErrUnknownCommand},
		{"board 1 2 3", ErrBadBoard},
		{"board 3 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0", ErrBadBoard},
		{"board x 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0", ErrBadBoard},
		{"depth 0", ErrBadArgument},
		{"depth 11", ErrBadArgument},
		{"moves -1", ErrBadArgument},
		{"move sideways", ErrBadArgument},
		{"decode 1 2", ErrBadArgument},
		{`board "unterminated`, ErrBadArgument},
		{"quit", ErrQuit},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, err := a.Exec(ctx, tt.line)
			assert.ErrorIs(t, err, tt.err)
		})
	}

	out, err := a.Exec(ctx, "   ")
	assert.NoError(t, err)
	assert.Empty(t, out)
}

func TestAnalyzerNoMove(t *testing.T) {
	ctx := context.Background()
	a := NewAnalyzer(newTestForecaster())

	_, err := a.Exec(ctx, "board 32 64 8 32 8 16 4 16 2 8 16 2 8 4 8 4")
	require.NoError(t, err)
	out, err := a.Exec(ctx, "analyze")
	require.NoError(t, err)
	assert.Contains(t, out, "No valid moves available!")
}

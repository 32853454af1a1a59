package domain

import (
	"testing"
)

func TestEstimateP2(t *testing.T) {
	prior := DefaultPrior()

	tests := []struct {
		name      string
		board     [4][4]int
		moveCount int
		expected  float64
	}{
		{
			name:      "opening",
			board:     [4][4]int{{2, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
			moveCount: 0,
			expected:  (prior.A + 1) / (prior.A + prior.B + 1),
		},
		{
			name:      "deep game",
			board:     [4][4]int{{128, 4, 2, 4}, {256, 8, 16, 2}, {64, 2, 0, 0}, {8, 0, 0, 0}},
			moveCount: 220,
			expected:  (1 + 442 - 247) / 223.0,
		},
		{
			name: "clamped low",
			// 盤面の合計が手数に比べて大きすぎる
			board:     [4][4]int{{1024, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
			moveCount: 3,
			expected:  prior.Min,
		},
		{
			name:      "clamped high",
			board:     [4][4]int{{2, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
			moveCount: 500,
			expected:  prior.Max,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := EstimateP2(NewBoardFromCells(tt.board), tt.moveCount, prior)
			if !approxEqual(p, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, p)
			}
		})
	}
}

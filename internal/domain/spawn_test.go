package domain

import (
	"testing"

	"github.com/matryer/is"
)

// fixedSource は決められた値を順に返す乱数源
type fixedSource struct {
	values []int
	i      int
}

func (f *fixedSource) Intn(n int) int {
	v := f.values[f.i%len(f.values)] % n
	f.i++
	return v
}

func TestDeterministicSpawner(t *testing.T) {
	is := is.New(t)

	board := NewBoardFromCells([4][4]int{
		{2, 4, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	next, tile := NewDeterministicSpawner().SpawnTile(board)

	is.True(tile != nil)
	is.Equal(*tile, Tile{Row: 0, Col: 2, Value: 2})
	is.Equal(next.Get(0, 2), 2)
	is.Equal(next.EmptyCount(), board.EmptyCount()-1)
}

func TestDeterministicSpawnerLastCell(t *testing.T) {
	is := is.New(t)

	board := NewBoardFromCells([4][4]int{
		{2, 4, 8, 16},
		{32, 64, 128, 256},
		{2, 4, 0, 16},
		{32, 64, 128, 256},
	})
	next, tile := NewDeterministicSpawner().SpawnTile(board)

	is.True(tile != nil)
	is.Equal(*tile, Tile{Row: 2, Col: 2, Value: 2})
	is.True(next.Equal(board.Set(2, 2, 2)))
	is.Equal(next.EmptyCount(), 0)
}

func TestSpawnerWithSource(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		want   Tile
	}{
		// 空きマス: (0,1), (1,0), (1,1) ... 最初の値が位置、次の値が2/4の判定
		{name: "two", values: []int{1, 0}, want: Tile{Row: 1, Col: 0, Value: 2}},
		{name: "still two", values: []int{0, 8}, want: Tile{Row: 0, Col: 1, Value: 2}},
		{name: "four", values: []int{2, 9}, want: Tile{Row: 1, Col: 1, Value: 4}},
	}

	board := NewBoardFromCells([4][4]int{
		{2, 0, 4, 8},
		{0, 0, 16, 32},
		{64, 128, 256, 512},
		{2, 4, 8, 16},
	})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, tile := NewSpawnerWithSource(&fixedSource{values: tt.values}).SpawnTile(board)
			if tile == nil {
				t.Fatal("expected a tile")
			}
			if *tile != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, *tile)
			}
			if next.Get(tt.want.Row, tt.want.Col) != tt.want.Value {
				t.Errorf("tile not placed on board:\n%s", next)
			}
		})
	}
}

func TestSpawnTileOnFullBoard(t *testing.T) {
	board := NewBoardFromCells([4][4]int{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	})
	for _, s := range []*Spawner{NewSpawner(), NewDeterministicSpawner(), NewSeededSpawner(1)} {
		next, tile := s.SpawnTile(board)
		if tile != nil {
			t.Errorf("expected no tile, got %+v", *tile)
		}
		if !next.Equal(board) {
			t.Error("full board should be unchanged")
		}
	}
}

func TestSpawnDistribution(t *testing.T) {
	s := NewSeededSpawner(2048)
	board := NewBoard()

	fours := 0
	const trials = 10000
	for i := 0; i < trials; i++ {
		next, tile := s.SpawnTile(board)
		if tile == nil || next.EmptyCount() != Size*Size-1 {
			t.Fatal("expected exactly one tile on an empty board")
		}
		if tile.Value == 4 {
			fours++
		}
	}

	// 4が出る割合はおよそ10%
	ratio := float64(fours) / trials
	if ratio < 0.08 || ratio > 0.12 {
		t.Errorf("expected about 10%% fours, got %.3f", ratio)
	}
}

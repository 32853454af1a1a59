package domain

import (
	"math/rand"

	"lukechampine.com/frand"
)

// スポーン確率（2が90%、4が10%）
const (
	spawn2Prob     = 0.9
	spawnProbSteps = 10
)

// SpawnValues はスワイプ後に空きマスに出現しうる値
var SpawnValues = [2]int{2, 4}

// RandomSource はスポーン位置と値を決める乱数源
// *rand.Rand はそのまま満たす
type RandomSource interface {
	Intn(n int) int
}

// frandSource は暗号論的乱数（frand）を使う乱数源
type frandSource struct{}

func (frandSource) Intn(n int) int {
	return frand.Intn(n)
}

// Spawner は空きマスにタイルを出現させる
type Spawner struct {
	rng           RandomSource
	deterministic bool
}

// NewSpawner はfrandを乱数源とするSpawnerを生成する
func NewSpawner() *Spawner {
	return &Spawner{rng: frandSource{}}
}

// NewSpawnerWithSource は指定した乱数源でSpawnerを生成する
func NewSpawnerWithSource(rng RandomSource) *Spawner {
	return &Spawner{rng: rng}
}

// NewSeededSpawner はシード固定のSpawnerを生成する（再現可能なプレイ用）
func NewSeededSpawner(seed int64) *Spawner {
	return &Spawner{rng: rand.New(rand.NewSource(seed))}
}

// NewDeterministicSpawner はテスト用のSpawnerを生成する
// 常に行優先で最初の空きマスに2を置く
func NewDeterministicSpawner() *Spawner {
	return &Spawner{deterministic: true}
}

// SpawnTile は空きマスにタイルを1つ配置した盤面と、置いたタイルを返す
// 空きマスがなければ盤面をそのまま返し、タイルはnil
func (s *Spawner) SpawnTile(b Board) (Board, *Tile) {
	empty := b.EmptyCells()
	if len(empty) == 0 {
		return b, nil
	}

	if s.deterministic {
		pos := empty[0]
		return b.Set(pos[0], pos[1], SpawnValues[0]), &Tile{Row: pos[0], Col: pos[1], Value: SpawnValues[0]}
	}

	pos := empty[s.rng.Intn(len(empty))]
	val := SpawnValues[0]
	if s.rng.Intn(spawnProbSteps) >= int(spawn2Prob*spawnProbSteps) {
		val = SpawnValues[1]
	}
	return b.Set(pos[0], pos[1], val), &Tile{Row: pos[0], Col: pos[1], Value: val}
}

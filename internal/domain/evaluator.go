package domain

import (
	"math"
	"math/bits"
)

// monotonicityPairs は隣接ペアの総数（行方向＋列方向）
const monotonicityPairs = (Size - 1) * Size * 2

// Evaluator はBoardを評価してスコアを返すインターフェース
type Evaluator interface {
	Evaluate(b Board) float64
}

// EmptinessEvaluator は空きマスの割合で評価する
// 盤面には常に1枚以上タイルがあるので分母は総マス数-1
type EmptinessEvaluator struct {
	Shaping Shaping
}

func (e *EmptinessEvaluator) Evaluate(b Board) float64 {
	return e.Shaping.Apply(emptiness(b))
}

func emptiness(b Board) float64 {
	return float64(b.EmptyCount()) / float64(Size*Size-1)
}

// MonotonicityEvaluator は単調性で評価する
// 行方向・列方向それぞれで増加ペア数と減少ペア数の多い方を採り、
// 完全に単調なら1、最も揺らいでいる盤面なら0になるよう正規化する
type MonotonicityEvaluator struct {
	Shaping Shaping
}

func (e *MonotonicityEvaluator) Evaluate(b Board) float64 {
	return e.Shaping.Apply(monotonicity(b))
}

func monotonicity(b Board) float64 {
	var incH, decH, incV, decV int
	for i := 0; i < Size; i++ {
		for j := 1; j < Size; j++ {
			// 行方向
			if b.cells[i][j] >= b.cells[i][j-1] {
				incH++
			}
			if b.cells[i][j] <= b.cells[i][j-1] {
				decH++
			}
			// 列方向
			if b.cells[j][i] >= b.cells[j-1][i] {
				incV++
			}
			if b.cells[j][i] <= b.cells[j-1][i] {
				decV++
			}
		}
	}
	consistent := max(incH, decH) + max(incV, decV)
	return (float64(consistent) - monotonicityPairs/2.0) / monotonicityPairs * 2
}

// MergeabilityEvaluator は盤面に現れるランク（log2値）の欠けで評価する
// 最大ランクRの盤面で、1..R-1のうち盤面にないランクrの合計を R(R-1)/2 で割った
// 割合を欠けとし、1 - 0.8*欠け を返す。ランクは個数ではなく値rで重み付けする
// （例: ランク{1,4}なら欠けは(2+3)/6）
type MergeabilityEvaluator struct {
	Shaping Shaping
}

func (e *MergeabilityEvaluator) Evaluate(b Board) float64 {
	return e.Shaping.Apply(mergeability(b))
}

func mergeability(b Board) float64 {
	var present uint64
	maxRank := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			v := b.cells[r][c]
			if v == 0 {
				continue
			}
			rank := bits.TrailingZeros(uint(v))
			present |= 1 << rank
			if rank > maxRank {
				maxRank = rank
			}
		}
	}
	if maxRank <= 1 {
		return 1
	}

	missing := 0
	for rank := 1; rank < maxRank; rank++ {
		if present&(1<<rank) == 0 {
			missing += rank
		}
	}
	fraction := float64(missing) / float64(maxRank*(maxRank-1)/2)
	return 1 - 0.8*fraction
}

// HighestTileEvaluator は最大タイルの勝利タイルに対する進捗で評価する
type HighestTileEvaluator struct {
	VictoryTile int
	Shaping     Shaping
}

func (e *HighestTileEvaluator) Evaluate(b Board) float64 {
	return e.Shaping.Apply(highestTileProgress(b, e.VictoryTile))
}

func highestTileProgress(b Board, victory int) float64 {
	maxVal := b.MaxTile()
	if maxVal == 0 {
		return 0
	}
	return math.Min(math.Log2(float64(maxVal))/math.Log2(float64(victory)), 1)
}

var (
	_ Evaluator = (*EmptinessEvaluator)(nil)
	_ Evaluator = (*MonotonicityEvaluator)(nil)
	_ Evaluator = (*MergeabilityEvaluator)(nil)
	_ Evaluator = (*HighestTileEvaluator)(nil)
	_ Evaluator = (*UtilityEvaluator)(nil)
)

// Axes は4つの評価軸を Emptiness, Monotonicity, Mergeability, HighestTile の順に返す
func (u *UtilityEvaluator) Axes() [4]Evaluator {
	return [4]Evaluator{u.emptiness, u.monotonicity, u.mergeability, u.highestTile}
}

// HeuristicScores は4つの評価軸の値（整形後）
type HeuristicScores struct {
	Emptiness    float64 `json:"emptiness" yaml:"emptiness"`
	Monotonicity float64 `json:"monotonicity" yaml:"monotonicity"`
	Mergeability float64 `json:"mergeability" yaml:"mergeability"`
	HighestTile  float64 `json:"highest_tile" yaml:"highest_tile"`
}

// UtilityEvaluator は4つの評価軸を重み付き幾何平均（Cobb-Douglas型）で合成する
type UtilityEvaluator struct {
	cfg          HeuristicConfig
	emptiness    Evaluator
	monotonicity Evaluator
	mergeability Evaluator
	highestTile  Evaluator
}

// NewUtilityEvaluator は効用関数を生成する
func NewUtilityEvaluator(cfg HeuristicConfig) *UtilityEvaluator {
	return &UtilityEvaluator{
		cfg:          cfg,
		emptiness:    &EmptinessEvaluator{Shaping: cfg.Shaping.Emptiness},
		monotonicity: &MonotonicityEvaluator{Shaping: cfg.Shaping.Monotonicity},
		mergeability: &MergeabilityEvaluator{Shaping: cfg.Shaping.Mergeability},
		highestTile:  &HighestTileEvaluator{VictoryTile: cfg.VictoryTile, Shaping: cfg.Shaping.HighestTile},
	}
}

// VictoryTile は勝利とみなすタイル値を返す
func (u *UtilityEvaluator) VictoryTile() int {
	return u.cfg.VictoryTile
}

// Scores は各評価軸の値を返す
func (u *UtilityEvaluator) Scores(b Board) HeuristicScores {
	return HeuristicScores{
		Emptiness:    u.emptiness.Evaluate(b),
		Monotonicity: u.monotonicity.Evaluate(b),
		Mergeability: u.mergeability.Evaluate(b),
		HighestTile:  u.highestTile.Evaluate(b),
	}
}

// Evaluate は効用値を返す
// 勝利タイルがある盤面は他の軸によらず1
func (u *UtilityEvaluator) Evaluate(b Board) float64 {
	if highestTileProgress(b, u.cfg.VictoryTile) >= 1 {
		return 1
	}
	s := u.Scores(b)
	d := u.cfg.Degree
	alpha, beta, gamma := u.cfg.EmptinessWeight, u.cfg.MonotonicityWeight, u.cfg.MergeabilityWeight
	return math.Pow(s.Emptiness, d*alpha) *
		math.Pow(s.Monotonicity, d*beta) *
		math.Pow(s.Mergeability, d*gamma) *
		math.Pow(s.HighestTile, d*(1-alpha-beta-gamma))
}

package domain

import (
	"context"
	"math"

	"github.com/rs/zerolog/log"
)

// キャンセル確認の間隔（展開ノード数）
const cancelCheckInterval = 1024

// ForecastNodeBytes は探索ノード1つのおおよそのメモリ量
const ForecastNodeBytes = 48

// forecastNode は先読み探索のノード
// 1回の探索の間だけアリーナ（スライス）に値として保持する
type forecastNode struct {
	state  EncodedState
	origin Direction // 経路の最初の手（根はNoDirection）
	prob   float64   // 経路上のスポーン列の確率
	depth  int
	delta  int // 経路上のスコア増分の合計
}

// Leaf は探索の葉を外部向けに展開したもの
type Leaf struct {
	Board       Board
	Origin      Direction
	Probability float64
	Depth       int
	ScoreDelta  int
}

// DirectionScore は方向ごとの集計結果
type DirectionScore struct {
	Direction Direction `yaml:"direction"`
	Leaves    int       `yaml:"leaves"`
	Score     float64   `yaml:"score"`
}

// Analysis は1回の探索の詳細
type Analysis struct {
	Best         Direction
	Found        bool
	P2           float64
	MaxDepth     int // 深さを下げた後の実際の上限
	DepthReached int // 葉の深さ
	Nodes        int // 生成したノード数（再探索分を含む）
	Leaves       int
	Scores       [len(Directions)]DirectionScore
}

// Forecaster は数手先までのスポーンを確率付きで幅優先に展開し、
// 葉の効用の期待値が最大になる方向を選ぶ
type Forecaster struct {
	search  SearchConfig
	prior   Prior
	utility *UtilityEvaluator
}

// NewForecaster は設定からForecasterを生成する
func NewForecaster(cfg Config) *Forecaster {
	return &Forecaster{
		search:  cfg.Search,
		prior:   cfg.Estimator,
		utility: NewUtilityEvaluator(cfg.Heuristic),
	}
}

// Utility は盤面評価に使う効用関数を返す
func (f *Forecaster) Utility() *UtilityEvaluator {
	return f.utility
}

// SearchConfig は探索予算を返す
func (f *Forecaster) SearchConfig() SearchConfig {
	return f.search
}

// WithMaxDepth は探索深さだけを変えたForecasterを返す
func (f *Forecaster) WithMaxDepth(depth int) *Forecaster {
	g := *f
	g.search.MaxDepth = depth
	return &g
}

// ChooseMove は最良の手を返す
// 葉が1つも得られない場合（これ以上動かせない）は false を返す
func (f *Forecaster) ChooseMove(b Board, moveCount int) (Direction, bool) {
	dir, ok, _ := f.ChooseMoveContext(context.Background(), b, moveCount)
	return dir, ok
}

// ChooseMoveContext はキャンセル可能なChooseMove
// キャンセルされた探索は実行しなかったものとして扱い、ctx.Err() を返す
func (f *Forecaster) ChooseMoveContext(ctx context.Context, b Board, moveCount int) (Direction, bool, error) {
	a, err := f.Analyze(ctx, b, moveCount)
	if err != nil {
		return NoDirection, false, err
	}
	return a.Best, a.Found, nil
}

// Analyze は探索を行い、方向ごとの集計を返す
func (f *Forecaster) Analyze(ctx context.Context, b Board, moveCount int) (Analysis, error) {
	p := EstimateP2(b, moveCount, f.prior)
	leaves, maxDepth, nodes, err := f.forecast(ctx, Encode(b), p, f.search.MaxDepth)
	if err != nil {
		return Analysis{Best: NoDirection}, err
	}

	a := Analysis{
		Best:     NoDirection,
		P2:       p,
		MaxDepth: maxDepth,
		Nodes:    nodes,
	}
	var sums [len(Directions)]float64
	for _, leaf := range leaves {
		if leaf.origin == NoDirection {
			continue
		}
		sums[leaf.origin] += leaf.prob * f.utility.Evaluate(Decode(leaf.state))
		a.Scores[leaf.origin].Leaves++
		a.Leaves++
		a.DepthReached = leaf.depth
	}

	bestScore := math.Inf(-1)
	for _, dir := range Directions {
		ds := &a.Scores[dir]
		ds.Direction = dir
		if ds.Leaves == 0 {
			continue
		}
		// 生き残った葉が少ない方向ほど割り引く
		n := float64(ds.Leaves)
		ds.Score = sums[dir] / (n / math.Log(1+n))
		if ds.Score > bestScore {
			bestScore = ds.Score
			a.Best = dir
			a.Found = true
		}
	}

	log.Debug().
		Float64("p2", p).
		Int("max-depth", maxDepth).
		Int("depth", a.DepthReached).
		Int("nodes", nodes).
		Int("leaves", a.Leaves).
		Stringer("best", a.Best).
		Msg("forecast-done")
	return a, nil
}

// Leaves は指定した深さ上限で探索した葉を返す
func (f *Forecaster) Leaves(b Board, moveCount, maxDepth int) []Leaf {
	p := EstimateP2(b, moveCount, f.prior)
	nodes, _, _, _ := f.forecast(context.Background(), Encode(b), p, maxDepth)
	leaves := make([]Leaf, 0, len(nodes))
	for _, n := range nodes {
		leaves = append(leaves, Leaf{
			Board:       Decode(n.state),
			Origin:      n.origin,
			Probability: n.prob,
			Depth:       n.depth,
			ScoreDelta:  n.delta,
		})
	}
	return leaves
}

// forecast は葉が得られるまで深さ上限を1ずつ下げて探索する
// 深さ1でも葉がなければ nil を返す
func (f *Forecaster) forecast(ctx context.Context, root EncodedState, p float64, maxDepth int) ([]forecastNode, int, int, error) {
	total := 0
	for depth := maxDepth; depth >= 1; depth-- {
		leaves, nodes, err := f.expand(ctx, root, p, depth)
		total += nodes
		if err != nil {
			return nil, depth, total, err
		}
		if leaves != nil {
			return leaves, depth, total, nil
		}
		log.Debug().Int("max-depth", depth).Msg("forecast-exhausted-reducing-depth")
	}
	return nil, 0, total, nil
}

// expand は根から幅優先でノードを展開する
// アリーナ自体をキューとして使い、head より後ろが未処理のノード
// 新しい深さの最初の子を積む前に、キュー長か深さが上限を超えていれば
// 現在のノードとキューに残ったノードを葉として返す
// キューが空になった場合は nil を返す
func (f *Forecaster) expand(ctx context.Context, root EncodedState, p float64, maxDepth int) ([]forecastNode, int, error) {
	arena := make([]forecastNode, 1, 1024)
	arena[0] = forecastNode{state: root, origin: NoDirection, prob: 1}
	weights := [2]float64{p, 1 - p}
	lastDepth := 0

	for head := 0; head < len(arena); {
		if head%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, len(arena), err
			}
		}
		cur := arena[head]
		head++

		// 4が偏って出るような起こりにくい経路は展開しない
		if cur.depth > 2 && math.Pow(cur.prob, 1/float64(cur.depth)) < f.search.PathProbThreshold {
			continue
		}

		for _, dir := range Directions {
			next, delta, ok := ApplyMoveEncoded(dir, cur.state)
			if !ok {
				continue
			}
			origin := cur.origin
			if origin == NoDirection {
				origin = dir
			}

			for i := 0; i < Size*Size; i++ {
				if next.tileExp(i) != 0 {
					continue
				}
				for k, weight := range weights {
					child := forecastNode{
						state:  next.withTileExp(i, uint32(k+1)),
						origin: origin,
						prob:   cur.prob * weight,
						depth:  cur.depth + 1,
						delta:  cur.delta + delta,
					}
					if child.depth != lastDepth && (len(arena)-head > f.search.SizeThreshold || child.depth > maxDepth) {
						return arena[head-1:], len(arena), nil
					}
					arena = append(arena, child)
					lastDepth = child.depth
				}
			}
		}
	}
	return nil, len(arena), nil
}

package domain

// EstimateP2 は次に出現するタイルが2である確率を盤面と手数から推定する
//
// 手数nの時点で出現したタイルの合計はおよそ盤面の合計に等しいので、
// 2が出た回数は 2(n+1) - sum/2 と見積もれる。これをベータ分布の
// 擬似カウント A, B と合わせて点推定し、(0,1) に収まるよう範囲で切る。
// 探索経路の重み付けにだけ使い、実際のスポーン確率（0.9）とは独立。
func EstimateP2(b Board, moveCount int, prior Prior) float64 {
	n := float64(moveCount + 1)
	p := (prior.A + 2*n - 0.5*float64(b.Sum())) / (prior.A + prior.B + n)
	if p < prior.Min {
		return prior.Min
	}
	if p > prior.Max {
		return prior.Max
	}
	return p
}

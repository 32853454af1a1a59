package domain

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig は設定値が不正な場合のエラー
var ErrInvalidConfig = errors.New("invalid config")

// AxisShaping は評価軸ごとの整形関数
type AxisShaping struct {
	Emptiness    Shaping
	Monotonicity Shaping
	Mergeability Shaping
	HighestTile  Shaping
}

// HeuristicConfig は盤面評価の係数
type HeuristicConfig struct {
	// EmptinessWeight は空きマスの重み（α）
	EmptinessWeight float64
	// MonotonicityWeight は単調性の重み（β）
	MonotonicityWeight float64
	// MergeabilityWeight はマージしやすさの重み（γ）
	MergeabilityWeight float64
	// Degree は効用関数の同次次数
	Degree float64
	// VictoryTile は勝利とみなすタイル値
	VictoryTile int
	Shaping     AxisShaping
}

// SearchConfig は先読み探索の予算
type SearchConfig struct {
	MaxDepth          int
	SizeThreshold     int
	PathProbThreshold float64
}

// Prior は2が出る確率の推定に使う事前分布の擬似カウントと出力範囲
type Prior struct {
	A   float64
	B   float64
	Min float64
	Max float64
}

// Config は評価・探索・推定・履歴の設定をまとめたもの
type Config struct {
	Heuristic       HeuristicConfig
	Search          SearchConfig
	Estimator       Prior
	HistoryCapacity int
}

// DefaultHeuristicConfig はデフォルトの評価係数を返す
func DefaultHeuristicConfig() HeuristicConfig {
	return HeuristicConfig{
		EmptinessWeight:    0.2,
		MonotonicityWeight: 0.4,
		MergeabilityWeight: 0.15,
		Degree:             8,
		VictoryTile:        2048,
	}
}

// DefaultSearchConfig はデフォルトの探索予算を返す
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		MaxDepth:          6,
		SizeThreshold:     5000,
		PathProbThreshold: 0.5,
	}
}

// DefaultPrior はデフォルトの事前分布を返す
func DefaultPrior() Prior {
	return Prior{A: 1, B: 1, Min: 0.01, Max: 0.99}
}

// DefaultConfig はデフォルトの設定を返す
func DefaultConfig() Config {
	return Config{
		Heuristic:       DefaultHeuristicConfig(),
		Search:          DefaultSearchConfig(),
		Estimator:       DefaultPrior(),
		HistoryCapacity: DefaultHistoryCapacity,
	}
}

// Validate は設定値の範囲を確認する
func (c Config) Validate() error {
	if err := c.Heuristic.Validate(); err != nil {
		return err
	}
	if err := c.Search.Validate(); err != nil {
		return err
	}
	if err := c.Estimator.Validate(); err != nil {
		return err
	}
	if c.HistoryCapacity < 1 {
		return fmt.Errorf("%w: history capacity must be positive, got %d", ErrInvalidConfig, c.HistoryCapacity)
	}
	return nil
}

// Validate は評価係数の範囲を確認する
func (h HeuristicConfig) Validate() error {
	weights := []struct {
		name  string
		value float64
	}{
		{"emptiness", h.EmptinessWeight},
		{"monotonicity", h.MonotonicityWeight},
		{"mergeability", h.MergeabilityWeight},
	}
	for _, w := range weights {
		if w.value < 0 || w.value > 1 || math.IsNaN(w.value) {
			return fmt.Errorf("%w: %s weight must be in [0,1], got %v", ErrInvalidConfig, w.name, w.value)
		}
	}
	if sum := h.EmptinessWeight + h.MonotonicityWeight + h.MergeabilityWeight; sum > 1 {
		return fmt.Errorf("%w: weights sum to %v, must not exceed 1", ErrInvalidConfig, sum)
	}
	if h.Degree <= 0 {
		return fmt.Errorf("%w: degree must be positive, got %v", ErrInvalidConfig, h.Degree)
	}
	if h.VictoryTile < 4 || h.VictoryTile&(h.VictoryTile-1) != 0 {
		return fmt.Errorf("%w: victory tile must be a power of two >= 4, got %d", ErrInvalidConfig, h.VictoryTile)
	}
	for _, s := range []Shaping{h.Shaping.Emptiness, h.Shaping.Monotonicity, h.Shaping.Mergeability, h.Shaping.HighestTile} {
		if err := s.validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate は探索予算の範囲を確認する
func (s SearchConfig) Validate() error {
	if s.MaxDepth < 1 {
		return fmt.Errorf("%w: max depth must be at least 1, got %d", ErrInvalidConfig, s.MaxDepth)
	}
	if s.SizeThreshold < 1 {
		return fmt.Errorf("%w: size threshold must be positive, got %d", ErrInvalidConfig, s.SizeThreshold)
	}
	if s.PathProbThreshold < 0 || s.PathProbThreshold >= 1 {
		return fmt.Errorf("%w: path probability threshold must be in [0,1), got %v", ErrInvalidConfig, s.PathProbThreshold)
	}
	return nil
}

// Validate は事前分布の範囲を確認する
func (p Prior) Validate() error {
	if p.A <= 0 || p.B <= 0 {
		return fmt.Errorf("%w: prior pseudo-counts must be positive, got A=%v B=%v", ErrInvalidConfig, p.A, p.B)
	}
	if !(0 < p.Min && p.Min < p.Max && p.Max < 1) {
		return fmt.Errorf("%w: estimator bounds must satisfy 0 < min < max < 1, got [%v, %v]", ErrInvalidConfig, p.Min, p.Max)
	}
	return nil
}

// Package config は設定ファイルと環境変数から domain.Config を組み立てる
package config

import (
	"fmt"
	"strings"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/nnaakkaaii/forecast2048/internal/domain"
)

// EnvPrefix は環境変数の接頭辞（例: F2048_SEARCH_MAX_DEPTH）
const EnvPrefix = "F2048"

// 探索キューの上限をメモリ量から決めるときの範囲
const (
	DefaultMemoryFraction = 0.05
	MinSizeThreshold      = 1000
	MaxSizeThreshold      = 50000
)

// 設定キー
const (
	keyEmptinessWeight    = "heuristic.emptiness_weight"
	keyMonotonicityWeight = "heuristic.monotonicity_weight"
	keyMergeabilityWeight = "heuristic.mergeability_weight"
	keyDegree             = "heuristic.degree"
	keyVictoryTile        = "heuristic.victory_tile"
	keyMaxDepth           = "search.max_depth"
	keySizeThreshold      = "search.size_threshold"
	keyPathProbThreshold  = "search.path_prob_threshold"
	keyMemoryFraction     = "search.memory_fraction"
	keyPriorA             = "estimator.a"
	keyPriorB             = "estimator.b"
	keyPriorMin           = "estimator.min"
	keyPriorMax           = "estimator.max"
	keyHistoryCapacity    = "history.capacity"
)

// 整形関数を設定できる評価軸
var shapingAxes = []string{"emptiness", "monotonicity", "mergeability", "highest_tile"}

// totalMemory はテストで差し替える
var totalMemory = memory.TotalMemory

// Load はデフォルト値、設定ファイル（pathが空なら読まない）、環境変数の順に重ねて設定を読み込む
func Load(path string) (domain.Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return domain.Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
		log.Debug().Str("path", v.ConfigFileUsed()).Msg("config-loaded")
	}

	cfg, err := decode(v)
	if err != nil {
		return domain.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := domain.DefaultConfig()

	v.SetDefault(keyEmptinessWeight, def.Heuristic.EmptinessWeight)
	v.SetDefault(keyMonotonicityWeight, def.Heuristic.MonotonicityWeight)
	v.SetDefault(keyMergeabilityWeight, def.Heuristic.MergeabilityWeight)
	v.SetDefault(keyDegree, def.Heuristic.Degree)
	v.SetDefault(keyVictoryTile, def.Heuristic.VictoryTile)
	for _, axis := range shapingAxes {
		v.SetDefault(shapingKey(axis, "kind"), domain.ShapeIdentity.String())
		v.SetDefault(shapingKey(axis, "param"), 0.0)
	}

	v.SetDefault(keyMaxDepth, def.Search.MaxDepth)
	v.SetDefault(keySizeThreshold, def.Search.SizeThreshold)
	v.SetDefault(keyPathProbThreshold, def.Search.PathProbThreshold)
	v.SetDefault(keyMemoryFraction, DefaultMemoryFraction)

	v.SetDefault(keyPriorA, def.Estimator.A)
	v.SetDefault(keyPriorB, def.Estimator.B)
	v.SetDefault(keyPriorMin, def.Estimator.Min)
	v.SetDefault(keyPriorMax, def.Estimator.Max)

	v.SetDefault(keyHistoryCapacity, def.HistoryCapacity)
}

func shapingKey(axis, field string) string {
	return "heuristic.shaping." + axis + "." + field
}

func decode(v *viper.Viper) (domain.Config, error) {
	cfg := domain.Config{
		Heuristic: domain.HeuristicConfig{
			EmptinessWeight:    v.GetFloat64(keyEmptinessWeight),
			MonotonicityWeight: v.GetFloat64(keyMonotonicityWeight),
			MergeabilityWeight: v.GetFloat64(keyMergeabilityWeight),
			Degree:             v.GetFloat64(keyDegree),
			VictoryTile:        v.GetInt(keyVictoryTile),
		},
		Search: domain.SearchConfig{
			MaxDepth:          v.GetInt(keyMaxDepth),
			SizeThreshold:     v.GetInt(keySizeThreshold),
			PathProbThreshold: v.GetFloat64(keyPathProbThreshold),
		},
		Estimator: domain.Prior{
			A:   v.GetFloat64(keyPriorA),
			B:   v.GetFloat64(keyPriorB),
			Min: v.GetFloat64(keyPriorMin),
			Max: v.GetFloat64(keyPriorMax),
		},
		HistoryCapacity: v.GetInt(keyHistoryCapacity),
	}

	shapings := make([]domain.Shaping, len(shapingAxes))
	for i, axis := range shapingAxes {
		kind, err := domain.ParseShapingKind(v.GetString(shapingKey(axis, "kind")))
		if err != nil {
			return domain.Config{}, fmt.Errorf("%s shaping: %w", axis, err)
		}
		shapings[i] = domain.Shaping{Kind: kind, Param: v.GetFloat64(shapingKey(axis, "param"))}
	}
	cfg.Heuristic.Shaping = domain.AxisShaping{
		Emptiness:    shapings[0],
		Monotonicity: shapings[1],
		Mergeability: shapings[2],
		HighestTile:  shapings[3],
	}

	if cfg.Search.SizeThreshold == 0 {
		fraction := v.GetFloat64(keyMemoryFraction)
		if fraction <= 0 || fraction > 1 {
			return domain.Config{}, fmt.Errorf("%w: memory fraction must be in (0,1], got %v", domain.ErrInvalidConfig, fraction)
		}
		total := totalMemory()
		cfg.Search.SizeThreshold = SizeThresholdFromMemory(total, fraction)
		log.Debug().
			Uint64("total-memory", total).
			Int("size-threshold", cfg.Search.SizeThreshold).
			Msg("size-threshold-derived")
	}
	return cfg, nil
}

// SizeThresholdFromMemory はメモリ量の一部に収まる探索キューの長さを返す
// 1段の展開でキューは閾値を大きく超えうるので、範囲で切る
func SizeThresholdFromMemory(total uint64, fraction float64) int {
	if total == 0 {
		return MinSizeThreshold
	}
	n := int(float64(total) * fraction / domain.ForecastNodeBytes)
	return min(max(n, MinSizeThreshold), MaxSizeThreshold)
}

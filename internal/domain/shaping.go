package domain

import (
	"fmt"
	"math"
	"strings"
)

// ShapingKind は評価値の整形関数の種類
type ShapingKind int

const (
	ShapeIdentity ShapingKind = iota
	ShapePower
	ShapeNegExp
	ShapeHyperbolic
	ShapeSigmoid
)

func (k ShapingKind) String() string {
	switch k {
	case ShapeIdentity:
		return "identity"
	case ShapePower:
		return "power"
	case ShapeNegExp:
		return "negexp"
	case ShapeHyperbolic:
		return "hyperbolic"
	case ShapeSigmoid:
		return "sigmoid"
	default:
		return fmt.Sprintf("ShapingKind(%d)", int(k))
	}
}

// ParseShapingKind は設定ファイル上の名前から種類を得る
func ParseShapingKind(name string) (ShapingKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "identity":
		return ShapeIdentity, nil
	case "power":
		return ShapePower, nil
	case "negexp", "negative-exponential":
		return ShapeNegExp, nil
	case "hyperbolic", "tanh":
		return ShapeHyperbolic, nil
	case "sigmoid":
		return ShapeSigmoid, nil
	default:
		return ShapeIdentity, fmt.Errorf("%w: unknown shaping %q", ErrInvalidConfig, name)
	}
}

// Shaping は[0,1]の評価値を[0,1]に写す単調関数
// どの種類も f(0)=0, f(1)=1 に正規化されている
type Shaping struct {
	Kind ShapingKind
	// Param は種類ごとの係数（power: 指数, negexp/hyperbolic: 傾き, sigmoid: 傾き）
	Param float64
}

// Apply は整形後の値を返す
func (s Shaping) Apply(x float64) float64 {
	switch s.Kind {
	case ShapePower:
		return math.Pow(x, s.Param)
	case ShapeNegExp:
		return (1 - math.Exp(-s.Param*x)) / (1 - math.Exp(-s.Param))
	case ShapeHyperbolic:
		return math.Tanh(s.Param*x) / math.Tanh(s.Param)
	case ShapeSigmoid:
		lo, hi := sigmoid(-s.Param/2), sigmoid(s.Param/2)
		return (sigmoid(s.Param*(x-0.5)) - lo) / (hi - lo)
	default:
		return x
	}
}

// validate は係数が関数を単調かつ正規化可能にするか確認する
func (s Shaping) validate() error {
	switch s.Kind {
	case ShapeIdentity:
		return nil
	case ShapePower, ShapeNegExp, ShapeHyperbolic, ShapeSigmoid:
		if s.Param <= 0 || math.IsNaN(s.Param) || math.IsInf(s.Param, 0) {
			return fmt.Errorf("%w: %s shaping needs a positive parameter, got %v", ErrInvalidConfig, s.Kind, s.Param)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown shaping kind %d", ErrInvalidConfig, int(s.Kind))
	}
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

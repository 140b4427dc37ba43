package catalog

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gopkg.in/yaml.v3"
)

type RewardKind int

const (
	RewardFixed RewardKind = iota
	RewardRange
)

// Reward is either a fixed amount or an inclusive integer range drawn once per
// completion.
type Reward struct {
	Kind RewardKind
	Min  int64
	Max  int64
}

func Fixed(n int64) Reward {
	return Reward{Kind: RewardFixed, Min: n, Max: n}
}

func Range(lo, hi int64) Reward {
	if hi < lo {
		lo, hi = hi, lo
	}
	return Reward{Kind: RewardRange, Min: lo, Max: hi}
}

// Resolve draws the concrete amount. r may be nil for fixed rewards.
func (w Reward) Resolve(r *rand.Rand) int64 {
	if w.Kind == RewardFixed || w.Max <= w.Min {
		return w.Min
	}
	return w.Min + r.Int64N(w.Max-w.Min+1)
}

// Scale multiplies both bounds, rounding to the nearest integer.
func (w Reward) Scale(m float64) Reward {
	if m == 1 || m <= 0 {
		return w
	}
	w.Min = int64(math.Round(float64(w.Min) * m))
	w.Max = int64(math.Round(float64(w.Max) * m))
	return w
}

func (w Reward) String() string {
	if w.Kind == RewardFixed {
		return fmt.Sprintf("%d", w.Min)
	}
	return fmt.Sprintf("%d-%d", w.Min, w.Max)
}

func (w *Reward) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var n int64
		if err := node.Decode(&n); err != nil {
			return fmt.Errorf("reward: %w", err)
		}
		*w = Fixed(n)
		return nil
	case yaml.MappingNode:
		var doc struct {
			Min int64 `yaml:"min"`
			Max int64 `yaml:"max"`
		}
		if err := node.Decode(&doc); err != nil {
			return fmt.Errorf("reward: %w", err)
		}
		*w = Range(doc.Min, doc.Max)
		return nil
	default:
		return fmt.Errorf("reward: expected number or {min,max}, line %d", node.Line)
	}
}

package engine

import "math"

// Weights holds the relative contribution of each component score to the
// final score. The defaults weight keyword similarity highest.
type Weights struct {
	Keywords float64
	Skills   float64
	Format   float64
}

// DefaultWeights returns the standard 60/20/20 split
func DefaultWeights() Weights {
	return Weights{Keywords: 0.6, Skills: 0.2, Format: 0.2}
}

// Valid reports whether the weights are non-negative and sum to 1
func (w Weights) Valid() bool {
	if w.Keywords < 0 || w.Skills < 0 || w.Format < 0 {
		return false
	}
	return math.Abs(w.Keywords+w.Skills+w.Format-1) < 1e-9
}

// Aggregator combines the three component scores into the final score.
// Pure and deterministic; no side effects.
type Aggregator struct {
	weights Weights
}

// NewAggregator creates an aggregator with the given weights
func NewAggregator(weights Weights) *Aggregator {
	return &Aggregator{weights: weights}
}

// Aggregate returns round(wk*keyword + ws*skills + wf*format) clamped
// to [0,100]
func (a *Aggregator) Aggregate(keywordScore, skillsScore, formatScore int) int {
	combined := a.weights.Keywords*float64(keywordScore) +
		a.weights.Skills*float64(skillsScore) +
		a.weights.Format*float64(formatScore)

	score := int(math.Round(combined))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

package model

// Priority is an outreach priority tier derived from the lead score.
type Priority string

const (
	PriorityHot     Priority = "Hot"
	PriorityActive  Priority = "Active"
	PriorityDormant Priority = "Dormant"
)

// PriorityFor maps a 0-100 lead score to its priority tier.
func PriorityFor(score int) Priority {
	switch {
	case score >= 85:
		return PriorityHot
	case score >= 70:
		return PriorityActive
	default:
		return PriorityDormant
	}
}

// ScoreWeights are the relative weights of the five sub-scores. They sum to 1.
type ScoreWeights struct {
	Revenue   float64 `json:"revenue" yaml:"revenue" mapstructure:"revenue"`
	Size      float64 `json:"size" yaml:"size" mapstructure:"size"`
	Tech      float64 `json:"tech" yaml:"tech" mapstructure:"tech"`
	MarketFit float64 `json:"market_fit" yaml:"market_fit" mapstructure:"market_fit"`
	Growth    float64 `json:"growth" yaml:"growth" mapstructure:"growth"`
}

// Sum returns the total of all weights.
func (w ScoreWeights) Sum() float64 {
	return w.Revenue + w.Size + w.Tech + w.MarketFit + w.Growth
}

// ScoreBreakdown is the composite lead score together with its components.
type ScoreBreakdown struct {
	Revenue   float64      `json:"revenue"`
	Size      float64      `json:"size"`
	Tech      float64      `json:"tech"`
	MarketFit float64      `json:"market_fit"`
	Growth    float64      `json:"growth"`
	Weights   ScoreWeights `json:"weights"`
	Score     int          `json:"score"`
	Priority  Priority     `json:"priority"`
	Degraded  bool         `json:"degraded,omitempty"`
}

// ComponentNames lists the sub-score keys of Components in display order.
var ComponentNames = []string{"revenue", "size", "tech", "market_fit", "growth"}

// Components returns the sub-scores keyed by name.
func (b ScoreBreakdown) Components() map[string]float64 {
	return map[string]float64{
		"revenue":    b.Revenue,
		"size":       b.Size,
		"tech":       b.Tech,
		"market_fit": b.MarketFit,
		"growth":     b.Growth,
	}
}

// Package scorer turns a canonical company profile into a 0-100 lead score.
package scorer

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscore-cli/internal/model"
)

// DefaultWeights returns the standard component weights. They sum to 1.
func DefaultWeights() model.ScoreWeights {
	return model.ScoreWeights{
		Revenue:   0.30,
		Size:      0.20,
		Tech:      0.20,
		MarketFit: 0.15,
		Growth:    0.15,
	}
}

// ValidateConfig checks that weights are non-negative and sum to 1.0
// within 0.01.
func ValidateConfig(w model.ScoreWeights) error {
	var errs []string

	weights := []struct {
		name  string
		value float64
	}{
		{"revenue", w.Revenue},
		{"size", w.Size},
		{"tech", w.Tech},
		{"market_fit", w.MarketFit},
		{"growth", w.Growth},
	}
	for _, cw := range weights {
		if cw.value < 0 {
			errs = append(errs, fmt.Sprintf("%s weight must be >= 0", cw.name))
		}
	}

	if sum := w.Sum(); math.Abs(sum-1) > 0.01 {
		errs = append(errs, fmt.Sprintf("weights should sum to 1.0, got %.3f", sum))
	}

	if len(errs) > 0 {
		return eris.Errorf("scorer: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscore-cli/internal/model"
)

func TestDefaultWeights(t *testing.T) {
	w := DefaultWeights()
	assert.InDelta(t, 1.0, w.Sum(), 1e-9)
	assert.NoError(t, ValidateConfig(w))
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		weights model.ScoreWeights
		wantErr string
	}{
		{
			name:    "within tolerance",
			weights: model.ScoreWeights{Revenue: 0.305, Size: 0.2, Tech: 0.2, MarketFit: 0.15, Growth: 0.15},
		},
		{
			name:    "sum too high",
			weights: model.ScoreWeights{Revenue: 0.5, Size: 0.2, Tech: 0.2, MarketFit: 0.15, Growth: 0.15},
			wantErr: "weights should sum to 1.0, got 1.200",
		},
		{
			name:    "negative weight",
			weights: model.ScoreWeights{Revenue: -0.1, Size: 0.5, Tech: 0.3, MarketFit: 0.15, Growth: 0.15},
			wantErr: "revenue weight must be >= 0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfig(tt.weights)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), "scorer: config validation failed")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

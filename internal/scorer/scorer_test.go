package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscore-cli/internal/model"
)

func scenarioProfile() model.CompanyProfile {
	p := model.NewCompanyProfile()
	p.CompanyName = "Acme Cloud"
	p.RevenueRange = model.RevenueOver100M
	p.CompanySize = model.Size1000Plus
	p.Technologies = []string{"AWS", "Salesforce"}
	p.BusinessType = model.BusinessB2B
	p.CompanyStage = model.StageGrowth
	return p
}

func TestScore_Scenario(t *testing.T) {
	b := Default().Score(scenarioProfile())

	assert.InDelta(t, 100, b.Revenue, 1e-9)
	assert.InDelta(t, 100, b.Size, 1e-9)
	assert.InDelta(t, 44, b.Tech, 1e-9)
	assert.InDelta(t, 100, b.MarketFit, 1e-9)
	assert.InDelta(t, 100, b.Growth, 1e-9)
	assert.Equal(t, 89, b.Score)
	assert.Equal(t, model.PriorityHot, b.Priority)
	assert.False(t, b.Degraded)
}

func TestScore_AllUnknown(t *testing.T) {
	b := Default().Score(model.NewCompanyProfile())

	// 30*.3 + 30*.2 + 30*.2 + 50*.15 + 50*.15
	assert.Equal(t, 36, b.Score)
	assert.Equal(t, model.PriorityDormant, b.Priority)
}

func TestScore_Deterministic(t *testing.T) {
	s := Default()
	p := scenarioProfile()
	first := s.Score(p)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, s.Score(p))
	}
}

func TestScore_RevenueMonotonic(t *testing.T) {
	s := Default()
	prev := -1
	for _, bucket := range model.RevenueBuckets() {
		p := model.NewCompanyProfile()
		p.RevenueRange = bucket
		got := s.Score(p).Score
		assert.Greater(t, got, prev, bucket)
		prev = got
	}

	low := model.NewCompanyProfile()
	low.RevenueRange = model.RevenueUnder1M
	high := model.NewCompanyProfile()
	high.RevenueRange = model.RevenueOver100M
	assert.Greater(t, s.Score(high).Revenue, s.Score(low).Revenue)
}

func TestScore_Bounds(t *testing.T) {
	s := Default()

	top := scenarioProfile()
	top.Technologies = []string{"AWS", "Azure", "GCP", "Tableau", "HubSpot"}
	b := s.Score(top)
	assert.Equal(t, 100, b.Score)

	weights := model.ScoreWeights{Revenue: 1}
	heavy, err := New(weights)
	require.NoError(t, err)
	p := model.NewCompanyProfile()
	p.RevenueRange = model.RevenueUnder1M
	assert.Equal(t, 20, heavy.Score(p).Score)
}

func TestTechScore(t *testing.T) {
	tests := []struct {
		name  string
		techs []string
		want  float64
	}{
		{"empty", nil, 30},
		{"one cloud", []string{"AWS"}, 24},
		{"analytics", []string{"Google Analytics"}, 22},
		{"crm", []string{"HubSpot"}, 20},
		{"other", []string{"React"}, 16},
		{"capped", []string{"AWS", "Azure", "GCP", "Cloudflare", "Salesforce"}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, TechScore(tt.techs), 1e-9)
		})
	}
}

func TestCategory(t *testing.T) {
	assert.Equal(t, "cloud", Category("Microsoft Azure"))
	assert.Equal(t, "analytics", Category("Power BI"))
	assert.Equal(t, "crm", Category("Salesforce"))
	assert.Equal(t, "other", Category("WordPress"))
}

func TestScore_MarketFitAndGrowth(t *testing.T) {
	s := Default()
	tests := []struct {
		business, stage string
		fit, growth     float64
	}{
		{model.BusinessB2B, model.StageStartup, 100, 90},
		{model.BusinessBoth, model.StageGrowth, 80, 100},
		{model.BusinessB2C, model.StageEnterprise, 60, 70},
		{model.Unknown, model.Unknown, 50, 50},
	}
	for _, tt := range tests {
		p := model.NewCompanyProfile()
		p.BusinessType = tt.business
		p.CompanyStage = tt.stage
		b := s.Score(p)
		assert.InDelta(t, tt.fit, b.MarketFit, 1e-9, tt.business)
		assert.InDelta(t, tt.growth, b.Growth, 1e-9, tt.stage)
	}
}

func TestScore_RecoversPanic(t *testing.T) {
	s := Default()
	s.tech = func([]string) float64 { panic("boom") }

	b := s.Score(scenarioProfile())
	assert.Equal(t, NeutralScore, b.Score)
	assert.True(t, b.Degraded)
	assert.Equal(t, model.PriorityDormant, b.Priority)
}

func TestNew_InvalidWeights(t *testing.T) {
	_, err := New(model.ScoreWeights{Revenue: 0.5, Size: 0.5, Tech: 0.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weights should sum to 1.0")
}

func TestScoringError(t *testing.T) {
	inner := assert.AnError
	err := &ScoringError{Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "scorer:")
}

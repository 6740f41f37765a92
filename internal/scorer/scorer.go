package scorer

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscore-cli/internal/model"
)

// NeutralScore is returned when scoring itself fails.
const NeutralScore = 50

// Default sub-scores for values outside the tables.
const (
	defaultRevenueScore   = 30
	defaultSizeScore      = 30
	emptyTechScore        = 30
	defaultMarketFitScore = 50
	defaultGrowthScore    = 50
)

var revenueScores = map[string]float64{
	model.RevenueUnder1M:   20,
	model.Revenue1MTo10M:   40,
	model.Revenue10MTo50M:  60,
	model.Revenue50MTo100M: 80,
	model.RevenueOver100M:  100,
}

var sizeScores = map[string]float64{
	model.Size1To10:     20,
	model.Size11To50:    40,
	model.Size51To200:   60,
	model.Size201To1000: 80,
	model.Size1000Plus:  100,
}

var marketFitScores = map[string]float64{
	model.BusinessB2B:  100,
	model.BusinessBoth: 80,
	model.BusinessB2C:  60,
}

var growthScores = map[string]float64{
	model.StageStartup:    90,
	model.StageGrowth:     100,
	model.StageEnterprise: 70,
}

// techCategory groups technologies by how strongly they signal a buyer.
type techCategory struct {
	name     string
	weight   float64
	keywords []string
}

// techCategories are checked in order; unmatched technologies count as "other".
var techCategories = []techCategory{
	{"cloud", 1.2, []string{"aws", "azure", "gcp", "cloud"}},
	{"analytics", 1.1, []string{"analytics", "tableau", "power bi"}},
	{"crm", 1.0, []string{"salesforce", "hubspot", "crm"}},
}

const (
	otherTechWeight = 0.8
	techPointsEach  = 20
)

// ScoringError wraps a failure inside the scoring computation.
type ScoringError struct {
	Err error
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("scorer: %v", e.Err)
}

func (e *ScoringError) Unwrap() error {
	return e.Err
}

// Scorer computes lead scores with fixed weights.
type Scorer struct {
	weights model.ScoreWeights
	tech    func([]string) float64
}

// New returns a Scorer using w, or an error if w fails ValidateConfig.
func New(w model.ScoreWeights) (*Scorer, error) {
	if err := ValidateConfig(w); err != nil {
		return nil, err
	}
	return &Scorer{weights: w, tech: TechScore}, nil
}

// Default returns a Scorer with DefaultWeights.
func Default() *Scorer {
	return &Scorer{weights: DefaultWeights(), tech: TechScore}
}

// Weights returns the weights in use.
func (s *Scorer) Weights() model.ScoreWeights {
	return s.weights
}

// Score computes the lead score for p. It is deterministic and always
// returns a score in [0, 100]. If the computation fails the neutral
// breakdown is returned with Degraded set.
func (s *Scorer) Score(p model.CompanyProfile) (b model.ScoreBreakdown) {
	defer func() {
		if r := recover(); r != nil {
			err := &ScoringError{Err: eris.Errorf("panic: %v", r)}
			zap.L().Error("scoring failed, using neutral score",
				zap.String("company", p.CompanyName),
				zap.Error(err),
			)
			b = s.neutral()
		}
	}()

	b = model.ScoreBreakdown{
		Revenue:   lookup(revenueScores, p.RevenueRange, defaultRevenueScore),
		Size:      lookup(sizeScores, p.CompanySize, defaultSizeScore),
		Tech:      s.tech(p.Technologies),
		MarketFit: lookup(marketFitScores, p.BusinessType, defaultMarketFitScore),
		Growth:    lookup(growthScores, p.CompanyStage, defaultGrowthScore),
		Weights:   s.weights,
	}

	total := b.Revenue*s.weights.Revenue +
		b.Size*s.weights.Size +
		b.Tech*s.weights.Tech +
		b.MarketFit*s.weights.MarketFit +
		b.Growth*s.weights.Growth

	b.Score = clamp(int(math.Round(total)))
	b.Priority = model.PriorityFor(b.Score)
	return b
}

func (s *Scorer) neutral() model.ScoreBreakdown {
	return model.ScoreBreakdown{
		Weights:  s.weights,
		Score:    NeutralScore,
		Priority: model.PriorityFor(NeutralScore),
		Degraded: true,
	}
}

// TechScore rates a technology list: each technology earns 20 points times
// its category weight, capped at 100. An empty list scores 30.
func TechScore(techs []string) float64 {
	if len(techs) == 0 {
		return emptyTechScore
	}
	var total float64
	for _, t := range techs {
		total += categoryWeight(t) * techPointsEach
	}
	return math.Min(total, 100)
}

// Category returns the category name of a technology, or "other".
func Category(tech string) string {
	lower := strings.ToLower(tech)
	for _, c := range techCategories {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.name
			}
		}
	}
	return "other"
}

func categoryWeight(tech string) float64 {
	name := Category(tech)
	for _, c := range techCategories {
		if c.name == name {
			return c.weight
		}
	}
	return otherTechWeight
}

func lookup(table map[string]float64, key string, def float64) float64 {
	if v, ok := table[key]; ok {
		return v
	}
	return def
}

func clamp(n int) int {
	return max(0, min(100, n))
}

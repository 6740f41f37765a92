// Package pipeline runs the research flow for one company website:
// fetch, extract, analyze, validate, enrich and score.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscore-cli/internal/enrich"
	"github.com/sells-group/leadscore-cli/internal/extract"
	"github.com/sells-group/leadscore-cli/internal/fetcher"
	"github.com/sells-group/leadscore-cli/internal/metrics"
	"github.com/sells-group/leadscore-cli/internal/model"
	"github.com/sells-group/leadscore-cli/internal/scorer"
	"github.com/sells-group/leadscore-cli/internal/store"
	"github.com/sells-group/leadscore-cli/internal/validate"
)

// Phase names recorded on results and metrics.
const (
	PhaseFetch   = "fetch"
	PhaseAbout   = "about"
	PhaseExtract = "extract"
	PhaseAnalyze = "analyze"
	PhaseEnrich  = "enrich"
	PhaseScore   = "score"
)

// DefaultEnrichFields are filled by enrichment when still Unknown after analysis.
var DefaultEnrichFields = []string{
	model.FieldIndustry,
	model.FieldBusinessType,
	model.FieldCompanySize,
	model.FieldCompanyStage,
}

// Options tunes a Researcher.
type Options struct {
	AboutPages      bool
	EnrichFields    []string
	MaxContentChars int
}

// Researcher runs the pipeline. Store and Metrics are optional.
type Researcher struct {
	fetcher   fetcher.Fetcher
	extractor *extract.Extractor
	enricher  *enrich.Enricher
	scorer    *scorer.Scorer
	store     store.Store
	metrics   *metrics.Metrics
	opts      Options
}

// New creates a Researcher.
func New(f fetcher.Fetcher, x *extract.Extractor, e *enrich.Enricher, s *scorer.Scorer, opts Options) *Researcher {
	if len(opts.EnrichFields) == 0 {
		opts.EnrichFields = DefaultEnrichFields
	}
	if opts.MaxContentChars <= 0 {
		opts.MaxContentChars = extract.DefaultMaxTextChars
	}
	return &Researcher{
		fetcher:   f,
		extractor: x,
		enricher:  e,
		scorer:    s,
		opts:      opts,
	}
}

// WithStore records each run in st.
func (r *Researcher) WithStore(st store.Store) *Researcher {
	r.store = st
	return r
}

// WithMetrics reports runs to m.
func (r *Researcher) WithMetrics(m *metrics.Metrics) *Researcher {
	r.metrics = m
	return r
}

// ValidURL reports whether rawURL has an http or https scheme.
func ValidURL(rawURL string) bool {
	u := strings.ToLower(strings.TrimSpace(rawURL))
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}

// Run researches the company at rawURL. Only an invalid URL or a failed
// fetch return an error; later phases degrade to Unknown fields and the
// neutral score instead.
func (r *Researcher) Run(ctx context.Context, rawURL string) (*model.ResearchResult, error) {
	rawURL = strings.TrimSpace(rawURL)
	if !ValidURL(rawURL) {
		return nil, eris.Errorf("pipeline: invalid url %q: must start with http:// or https://", rawURL)
	}

	log := zap.L().With(zap.String("url", rawURL))
	log.Info("pipeline: starting research")

	rt := &runTracker{r: r, log: log, result: &model.ResearchResult{URL: rawURL}}
	rt.create(ctx, rawURL)

	// Fetch
	rt.setStatus(ctx, model.RunStatusFetching)
	var page *model.RawPage
	err := rt.phase(PhaseFetch, func() (*model.PhaseResult, error) {
		var fetchErr error
		page, fetchErr = r.fetcher.Fetch(ctx, rawURL)
		if fetchErr != nil {
			return nil, fetchErr
		}
		return &model.PhaseResult{Metadata: map[string]any{
			"status_code": page.StatusCode,
			"bytes":       len(page.HTML),
			"blocked":     page.Blocked,
		}}, nil
	})
	if err != nil {
		rt.fail(ctx, err)
		return nil, err
	}
	if page.Blocked {
		log.Warn("pipeline: page looks like an anti-bot shell", zap.String("block_type", page.BlockType))
	}

	var about *model.RawPage
	if r.opts.AboutPages {
		_ = rt.phase(PhaseAbout, func() (*model.PhaseResult, error) {
			var aboutErr error
			about, aboutErr = r.fetcher.FetchAbout(ctx, rawURL)
			if aboutErr != nil {
				log.Debug("pipeline: about pages unavailable", zap.Error(aboutErr))
			}
			if about == nil {
				return &model.PhaseResult{Status: model.PhaseStatusSkipped}, nil
			}
			return &model.PhaseResult{Metadata: map[string]any{"url": about.URL}}, nil
		})
	}

	// Extract
	rt.setStatus(ctx, model.RunStatusExtracting)
	var ext *model.Extraction
	_ = rt.phase(PhaseExtract, func() (*model.PhaseResult, error) {
		ext = r.extractor.Extract(page)
		if about != nil {
			aboutExt := r.extractor.Extract(about)
			ext.MainText = mergeText(ext.MainText, aboutExt.MainText, r.opts.MaxContentChars)
		}
		return &model.PhaseResult{Metadata: map[string]any{
			"company_name": ext.CompanyName,
			"technologies": len(ext.Technologies),
			"text_chars":   len([]rune(ext.MainText)),
		}}, nil
	})

	// Analyze and validate
	rt.setStatus(ctx, model.RunStatusEnriching)
	var profile model.CompanyProfile
	_ = rt.phase(PhaseAnalyze, func() (*model.PhaseResult, error) {
		analysis, usage := r.enricher.Analyze(ctx, ext)
		fields := ext.Fields()
		for k, v := range analysis {
			fields[k] = v
		}
		profile = validate.Profile(fields)
		return &model.PhaseResult{TokenUsage: usage}, nil
	})

	// Enrich fields analysis left Unknown
	_ = rt.phase(PhaseEnrich, func() (*model.PhaseResult, error) {
		missing := profile.MissingFields(r.opts.EnrichFields...)
		if profile.IsUnknown(model.FieldCompanyName) || len(missing) == 0 {
			return &model.PhaseResult{Status: model.PhaseStatusSkipped}, nil
		}
		updates, usage := r.enricher.Enrich(ctx, profile, missing)
		applied := enrich.Apply(&profile, updates)
		return &model.PhaseResult{
			TokenUsage: usage,
			Metadata: map[string]any{
				"requested": missing,
				"applied":   applied,
			},
		}, nil
	})

	// Score
	rt.setStatus(ctx, model.RunStatusScoring)
	var breakdown model.ScoreBreakdown
	_ = rt.phase(PhaseScore, func() (*model.PhaseResult, error) {
		breakdown = r.scorer.Score(profile)
		return &model.PhaseResult{Metadata: map[string]any{
			"score":    breakdown.Score,
			"degraded": breakdown.Degraded,
		}}, nil
	})

	res := rt.result
	res.Profile = profile
	res.Score = breakdown
	res.CompletedAt = time.Now().UTC()
	rt.complete(ctx)

	log.Info("pipeline: research complete",
		zap.String("company", profile.CompanyName),
		zap.Int("score", breakdown.Score),
		zap.String("priority", string(breakdown.Priority)),
		zap.Float64("cost_usd", res.TokenUsage.Cost),
	)
	return res, nil
}

// mergeText appends about-page text to the main text, giving each half of
// the limit when both are present.
func mergeText(main, about string, limit int) string {
	about = strings.TrimSpace(about)
	if about == "" {
		return main
	}
	half := limit / 2
	return truncateRunes(main, half) + "\n\n" + truncateRunes(about, limit-half)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

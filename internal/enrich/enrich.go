// Package enrich classifies companies and fills missing profile fields with
// the completion service.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscore-cli/internal/model"
	"github.com/sells-group/leadscore-cli/internal/resilience"
	"github.com/sells-group/leadscore-cli/internal/validate"
	"github.com/sells-group/leadscore-cli/pkg/anthropic"
)

// DefaultConfidenceThreshold is the confidence an enrichment value must
// exceed to be accepted.
const DefaultConfidenceThreshold = 70

// AnalyzeFields are the fields requested by the initial classification.
var AnalyzeFields = []string{
	model.FieldIndustry,
	model.FieldBusinessType,
	model.FieldCompanyStage,
	model.FieldCompanySize,
	model.FieldRevenueRange,
	model.FieldTargetMarket,
	model.FieldUSP,
}

// Options configures an Enricher.
type Options struct {
	Model               string
	MaxTokens           int64
	Temperature         float64
	ConfidenceThreshold float64
	MaxContentChars     int
}

// Enricher asks the completion service about a company.
type Enricher struct {
	client anthropic.Client
	opts   Options
	retry  resilience.RetryConfig
}

// New creates an Enricher. Zero options take defaults.
func New(client anthropic.Client, opts Options) *Enricher {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 1024
	}
	if opts.ConfidenceThreshold <= 0 {
		opts.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	if opts.MaxContentChars <= 0 {
		opts.MaxContentChars = 3000
	}
	retry := resilience.DefaultRetryConfig()
	retry.ShouldRetry = func(err error) bool {
		return resilience.IsTransient(err) || anthropic.IsRetryable(err)
	}
	retry.OnRetry = resilience.RetryLogger("anthropic", "create_message")
	return &Enricher{client: client, opts: opts, retry: retry}
}

// Analyze asks for an initial classification of the extracted page. A
// failed call or unreadable reply yields Unknown for every requested field.
func (e *Enricher) Analyze(ctx context.Context, ext *model.Extraction) (model.Fields, model.TokenUsage) {
	out := unknownFields(AnalyzeFields)
	if ext == nil {
		return out, model.TokenUsage{}
	}

	prompt := fmt.Sprintf(analyzePrompt,
		ext.URL,
		ext.CompanyName,
		orUnknown(ext.Description),
		truncate(ext.MainText, e.opts.MaxContentChars),
	)

	raw, usage, err := e.complete(ctx, "analyze", prompt)
	if err != nil {
		zap.L().Warn("enrich: analyze call failed", zap.String("url", ext.URL), zap.Error(err))
		return out, usage
	}

	doc, err := parseReply(raw, replySchema)
	if err != nil {
		zap.L().Warn("enrich: analyze reply unparseable",
			zap.String("url", ext.URL),
			zap.String("raw", raw),
			zap.Error(err),
		)
		return out, usage
	}

	for _, f := range AnalyzeFields {
		if v, ok := doc[f]; ok && v != nil {
			out[f] = v
		}
	}
	return out, usage
}

// Enrich asks for the missing fields of profile. Each returned value is
// accepted only above the confidence threshold; everything else, including
// fields absent from the reply, comes back Unknown. Fields that were not
// requested are dropped.
func (e *Enricher) Enrich(ctx context.Context, profile model.CompanyProfile, missing []string) (model.Fields, model.TokenUsage) {
	out := unknownFields(missing)
	if len(missing) == 0 {
		return out, model.TokenUsage{}
	}

	known, err := json.MarshalIndent(profile.Known(), "", "  ")
	if err != nil {
		known = []byte("{}")
	}
	prompt := fmt.Sprintf(enrichPrompt,
		profile.CompanyName,
		profile.WebsiteURL,
		string(known),
		strings.Join(missing, ", "),
	)

	log := zap.L().With(zap.String("company", profile.CompanyName))

	raw, usage, err := e.complete(ctx, "enrich", prompt)
	if err != nil {
		log.Warn("enrich: call failed", zap.Error(err))
		return out, usage
	}

	doc, err := parseReply(raw, replySchema)
	if err != nil {
		log.Warn("enrich: reply unparseable", zap.String("raw", raw), zap.Error(err))
		return out, usage
	}

	for _, field := range missing {
		entry, present := doc[field]
		if !present {
			continue
		}
		value, confidence, err := parseEntry(entry)
		if err != nil {
			log.Warn("enrich: malformed entry",
				zap.String("field", field),
				zap.Any("entry", entry),
				zap.Error(err),
			)
			continue
		}
		if confidence <= e.opts.ConfidenceThreshold {
			log.Debug("enrich: low confidence",
				zap.String("field", field),
				zap.Float64("confidence", confidence),
				zap.Any("value", value),
			)
			continue
		}
		out[field] = value
		log.Info("enrich: accepted field",
			zap.String("field", field),
			zap.Any("value", value),
			zap.Float64("confidence", confidence),
			zap.Any("evidence", entry.(map[string]any)["evidence"]),
		)
	}
	return out, usage
}

// Apply writes updates into the profile fields that are still Unknown,
// canonicalizing each value first. It returns the names of the fields it
// changed, sorted.
func Apply(profile *model.CompanyProfile, updates model.Fields) []string {
	var applied []string
	for field, v := range updates {
		if !profile.IsUnknown(field) {
			continue
		}
		canonical, ok := validate.Field(field, v)
		if !ok || canonical == model.Unknown {
			continue
		}
		profile.Set(field, canonical)
		applied = append(applied, field)
	}
	sort.Strings(applied)
	return applied
}

func (e *Enricher) complete(ctx context.Context, phase, prompt string) (string, model.TokenUsage, error) {
	temp := e.opts.Temperature
	req := anthropic.MessageRequest{
		Model:       e.opts.Model,
		MaxTokens:   e.opts.MaxTokens,
		Messages:    []anthropic.Message{{Role: "user", Content: prompt}},
		Temperature: &temp,
	}
	resp, err := resilience.DoVal(ctx, e.retry, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return e.client.CreateMessage(ctx, req)
	})
	if err != nil {
		return "", model.TokenUsage{}, eris.Wrapf(err, "enrich: %s", phase)
	}
	if resp == nil {
		return "", model.TokenUsage{}, eris.Errorf("enrich: %s: empty response", phase)
	}

	resp.Usage.LogCost(e.opts.Model, phase)
	usage := model.TokenUsage{
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
		Cost:         resp.Usage.EstimateCost(e.opts.Model),
	}
	return resp.Text(), usage, nil
}

func unknownFields(fields []string) model.Fields {
	out := make(model.Fields, len(fields))
	for _, f := range fields {
		out[f] = model.Unknown
	}
	return out
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return model.Unknown
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[:n])
}

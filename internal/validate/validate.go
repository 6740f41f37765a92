// Package validate canonicalizes raw company fields into a CompanyProfile.
// Every function is pure; anything that cannot be recognized becomes
// model.Unknown rather than an error.
package validate

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sells-group/leadscore-cli/internal/model"
)

type bucketRule struct {
	pattern *regexp.Regexp
	bucket  string
}

// sizeRules are tried in order; the first match wins.
var sizeRules = []bucketRule{
	{regexp.MustCompile(`(?i)1-10|less than 10|small team`), model.Size1To10},
	{regexp.MustCompile(`(?i)11-50|small|dozen`), model.Size11To50},
	{regexp.MustCompile(`(?i)51-200|medium`), model.Size51To200},
	{regexp.MustCompile(`(?i)201-1000|large`), model.Size201To1000},
	{regexp.MustCompile(`(?i)1000\+|enterprise|very large`), model.Size1000Plus},
}

// revenueRules are tried in order; the first match wins.
var revenueRules = []bucketRule{
	{regexp.MustCompile(`(?i)under.*1M|<.*1M|less than.*1M`), model.RevenueUnder1M},
	{regexp.MustCompile(`(?i)1M.*10M|million.*ten`), model.Revenue1MTo10M},
	{regexp.MustCompile(`(?i)10M.*50M`), model.Revenue10MTo50M},
	{regexp.MustCompile(`(?i)50M.*100M`), model.Revenue50MTo100M},
	{regexp.MustCompile(`(?i)over.*100M|>.*100M|more than.*100M`), model.RevenueOver100M},
}

// Profile canonicalizes a raw field bag. Recognized keys are validated
// individually; unrecognized keys are carried in Extra. Absent fields stay
// Unknown.
func Profile(fields model.Fields) model.CompanyProfile {
	p := model.NewCompanyProfile()
	for key, v := range fields {
		switch key {
		case model.FieldWebsiteURL:
			if s, ok := v.(string); ok {
				p.WebsiteURL = strings.TrimSpace(s)
			}
		case model.FieldTechnologies:
			p.Technologies = Technologies(v)
		case model.FieldProducts:
			p.Products = Products(v)
		case model.FieldContactInfo:
			p.Contact = Contact(v)
		default:
			if canonical, ok := Field(key, v); ok {
				p.Set(key, canonical)
				continue
			}
			if p.Extra == nil {
				p.Extra = make(map[string]any)
			}
			p.Extra[key] = v
		}
	}
	return p
}

// Field canonicalizes the value of a single categorical field. It reports
// false when name is not a categorical profile field.
func Field(name string, v any) (string, bool) {
	switch name {
	case model.FieldBusinessType:
		return BusinessType(v), true
	case model.FieldCompanySize:
		return CompanySize(v), true
	case model.FieldRevenueRange:
		return RevenueRange(v), true
	case model.FieldCompanyStage:
		return CompanyStage(v), true
	case model.FieldCompanyName, model.FieldDescription, model.FieldIndustry,
		model.FieldTargetMarket, model.FieldUSP:
		return Text(v), true
	}
	return "", false
}

// Text keeps a non-empty string and maps everything else, including
// placeholder names, to Unknown.
func Text(v any) string {
	s, ok := v.(string)
	if !ok {
		return model.Unknown
	}
	s = strings.Join(strings.Fields(s), " ")
	switch strings.ToLower(s) {
	case "", "unknown", "unknown company", "n/a", "none", "null":
		return model.Unknown
	}
	return s
}

// BusinessType accepts exactly B2B, B2C or Both.
func BusinessType(v any) string {
	s, _ := v.(string)
	switch s = strings.TrimSpace(s); s {
	case model.BusinessB2B, model.BusinessB2C, model.BusinessBoth:
		return s
	}
	return model.Unknown
}

// CompanyStage accepts Startup, Growth or Enterprise in any case.
func CompanyStage(v any) string {
	s, _ := v.(string)
	for _, stage := range []string{model.StageStartup, model.StageGrowth, model.StageEnterprise} {
		if strings.EqualFold(strings.TrimSpace(s), stage) {
			return stage
		}
	}
	return model.Unknown
}

// CompanySize maps a headcount or a size description to a bucket.
func CompanySize(v any) string {
	if n, ok := number(v); ok {
		return sizeBucket(n)
	}
	s, ok := v.(string)
	if !ok {
		return model.Unknown
	}
	s = strings.TrimSpace(s)
	if bucket, ok := exactBucket(s, model.SizeBuckets()); ok {
		return bucket
	}
	if n, ok := numericString(s); ok {
		return sizeBucket(n)
	}
	return matchRules(s, sizeRules)
}

func sizeBucket(n float64) string {
	switch {
	case n < 0:
		return model.Unknown
	case n < 10:
		return model.Size1To10
	case n < 50:
		return model.Size11To50
	case n < 200:
		return model.Size51To200
	case n < 1000:
		return model.Size201To1000
	default:
		return model.Size1000Plus
	}
}

// RevenueRange maps an annual revenue figure or description to a bucket.
func RevenueRange(v any) string {
	if n, ok := number(v); ok {
		return revenueBucket(n)
	}
	s, ok := v.(string)
	if !ok {
		return model.Unknown
	}
	s = strings.TrimSpace(s)
	if bucket, ok := exactBucket(s, model.RevenueBuckets()); ok {
		return bucket
	}
	if n, ok := numericString(s); ok {
		return revenueBucket(n)
	}
	return matchRules(s, revenueRules)
}

func revenueBucket(n float64) string {
	switch {
	case n < 0:
		return model.Unknown
	case n < 1_000_000:
		return model.RevenueUnder1M
	case n < 10_000_000:
		return model.Revenue1MTo10M
	case n < 50_000_000:
		return model.Revenue10MTo50M
	case n < 100_000_000:
		return model.Revenue50MTo100M
	default:
		return model.RevenueOver100M
	}
}

// exactBucket matches a value that is already canonical. Checked before the
// rules because "201-1000" would otherwise hit the "1-10" pattern.
func exactBucket(s string, buckets []string) (string, bool) {
	for _, b := range buckets {
		if strings.EqualFold(s, b) {
			return b, true
		}
	}
	return "", false
}

func matchRules(s string, rules []bucketRule) string {
	for _, r := range rules {
		if r.pattern.MatchString(s) {
			return r.bucket
		}
	}
	return model.Unknown
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func numericString(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimPrefix(s, "$"), ",", "")
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

// Technologies returns the distinct non-empty strings of a list in first
// occurrence order. Anything that is not a list yields an empty slice.
func Technologies(v any) []string {
	return stringList(v, 0)
}

// Products is Technologies capped at five entries.
func Products(v any) []string {
	return stringList(v, 5)
}

func stringList(v any, limit int) []string {
	var items []string
	switch list := v.(type) {
	case []string:
		items = list
	case []any:
		for _, item := range list {
			if s, ok := item.(string); ok {
				items = append(items, s)
			}
		}
	}

	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, s := range items {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Contact accepts a ContactInfo or a mapping with contact keys. Anything
// else yields empty contact info.
func Contact(v any) model.ContactInfo {
	switch c := v.(type) {
	case model.ContactInfo:
		if c.SocialLinks == nil {
			c.SocialLinks = []string{}
		}
		return c
	case *model.ContactInfo:
		if c != nil {
			return Contact(*c)
		}
	case map[string]any:
		return model.ContactInfo{
			Address:     str(c["address"]),
			Phone:       str(c["phone"]),
			Email:       str(c["email"]),
			SocialLinks: stringList(c["social_links"], 0),
		}
	case map[string]string:
		return model.ContactInfo{
			Address:     c["address"],
			Phone:       c["phone"],
			Email:       c["email"],
			SocialLinks: []string{},
		}
	}
	return model.ContactInfo{SocialLinks: []string{}}
}

func str(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	default:
		return fmt.Sprint(s)
	}
}

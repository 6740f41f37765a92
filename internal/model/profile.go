package model

// Unknown marks a field whose value could not be determined. Profile fields
// are never empty or absent; they hold Unknown instead.
const Unknown = "Unknown"

// Profile field names as they appear in raw field bags and completion-service replies.
const (
	FieldWebsiteURL   = "website_url"
	FieldCompanyName  = "company_name"
	FieldDescription  = "description"
	FieldIndustry     = "industry"
	FieldBusinessType = "business_type"
	FieldCompanyStage = "company_stage"
	FieldCompanySize  = "company_size"
	FieldRevenueRange = "revenue_range"
	FieldTargetMarket = "target_market"
	FieldUSP          = "usp"
	FieldTechnologies = "technologies"
	FieldProducts     = "products"
	FieldContactInfo  = "contact_info"
)

// Business types.
const (
	BusinessB2B  = "B2B"
	BusinessB2C  = "B2C"
	BusinessBoth = "Both"
)

// Company stages.
const (
	StageStartup    = "Startup"
	StageGrowth     = "Growth"
	StageEnterprise = "Enterprise"
)

// Company size buckets, smallest first.
const (
	Size1To10     = "1-10"
	Size11To50    = "11-50"
	Size51To200   = "51-200"
	Size201To1000 = "201-1000"
	Size1000Plus  = "1000+"
)

// Revenue buckets, smallest first.
const (
	RevenueUnder1M   = "Under $1M"
	Revenue1MTo10M   = "$1M-$10M"
	Revenue10MTo50M  = "$10M-$50M"
	Revenue50MTo100M = "$50M-$100M"
	RevenueOver100M  = "Over $100M"
)

// SizeBuckets returns the ordered company size buckets.
func SizeBuckets() []string {
	return []string{Size1To10, Size11To50, Size51To200, Size201To1000, Size1000Plus}
}

// RevenueBuckets returns the ordered revenue buckets.
func RevenueBuckets() []string {
	return []string{RevenueUnder1M, Revenue1MTo10M, Revenue10MTo50M, Revenue50MTo100M, RevenueOver100M}
}

// Fields is an uncanonicalized bag of profile values keyed by field name.
// Values come from HTML extraction or the completion service and may be
// strings, numbers, lists or maps.
type Fields map[string]any

// ContactInfo holds contact details scraped from a company page.
type ContactInfo struct {
	Address     string   `json:"address" yaml:"address"`
	Phone       string   `json:"phone" yaml:"phone"`
	Email       string   `json:"email" yaml:"email"`
	SocialLinks []string `json:"social_links" yaml:"social_links"`
}

// CompanyProfile is the canonical description of a company used for scoring.
type CompanyProfile struct {
	WebsiteURL   string         `json:"website_url" yaml:"website_url"`
	CompanyName  string         `json:"company_name" yaml:"company_name"`
	Description  string         `json:"description" yaml:"description"`
	Industry     string         `json:"industry" yaml:"industry"`
	BusinessType string         `json:"business_type" yaml:"business_type"`
	CompanyStage string         `json:"company_stage" yaml:"company_stage"`
	CompanySize  string         `json:"company_size" yaml:"company_size"`
	RevenueRange string         `json:"revenue_range" yaml:"revenue_range"`
	TargetMarket string         `json:"target_market" yaml:"target_market"`
	USP          string         `json:"usp" yaml:"usp"`
	Technologies []string       `json:"technologies" yaml:"technologies"`
	Products     []string       `json:"products" yaml:"products"`
	Contact      ContactInfo    `json:"contact_info" yaml:"contact_info"`
	Extra        map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// NewCompanyProfile returns a profile with every categorical field set to Unknown.
func NewCompanyProfile() CompanyProfile {
	return CompanyProfile{
		CompanyName:  Unknown,
		Description:  Unknown,
		Industry:     Unknown,
		BusinessType: Unknown,
		CompanyStage: Unknown,
		CompanySize:  Unknown,
		RevenueRange: Unknown,
		TargetMarket: Unknown,
		USP:          Unknown,
		Technologies: []string{},
		Products:     []string{},
	}
}

// Get returns the string value of a named categorical field and whether the
// name is a known string field.
func (p *CompanyProfile) Get(field string) (string, bool) {
	switch field {
	case FieldWebsiteURL:
		return p.WebsiteURL, true
	case FieldCompanyName:
		return p.CompanyName, true
	case FieldDescription:
		return p.Description, true
	case FieldIndustry:
		return p.Industry, true
	case FieldBusinessType:
		return p.BusinessType, true
	case FieldCompanyStage:
		return p.CompanyStage, true
	case FieldCompanySize:
		return p.CompanySize, true
	case FieldRevenueRange:
		return p.RevenueRange, true
	case FieldTargetMarket:
		return p.TargetMarket, true
	case FieldUSP:
		return p.USP, true
	}
	return "", false
}

// Set assigns a named categorical field. It reports false for unknown names.
func (p *CompanyProfile) Set(field, value string) bool {
	switch field {
	case FieldWebsiteURL:
		p.WebsiteURL = value
	case FieldCompanyName:
		p.CompanyName = value
	case FieldDescription:
		p.Description = value
	case FieldIndustry:
		p.Industry = value
	case FieldBusinessType:
		p.BusinessType = value
	case FieldCompanyStage:
		p.CompanyStage = value
	case FieldCompanySize:
		p.CompanySize = value
	case FieldRevenueRange:
		p.RevenueRange = value
	case FieldTargetMarket:
		p.TargetMarket = value
	case FieldUSP:
		p.USP = value
	default:
		return false
	}
	return true
}

// IsUnknown reports whether the named field is unset.
func (p *CompanyProfile) IsUnknown(field string) bool {
	v, ok := p.Get(field)
	return ok && (v == "" || v == Unknown)
}

// MissingFields returns those of the given field names that are still Unknown.
func (p *CompanyProfile) MissingFields(fields ...string) []string {
	var missing []string
	for _, f := range fields {
		if p.IsUnknown(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// Known returns the determined categorical fields as a map, skipping Unknown values.
func (p *CompanyProfile) Known() map[string]string {
	out := make(map[string]string)
	for _, f := range []string{
		FieldCompanyName, FieldDescription, FieldIndustry, FieldBusinessType,
		FieldCompanyStage, FieldCompanySize, FieldRevenueRange, FieldTargetMarket, FieldUSP,
	} {
		if v, _ := p.Get(f); v != "" && v != Unknown {
			out[f] = v
		}
	}
	return out
}

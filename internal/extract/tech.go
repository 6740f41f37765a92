package extract

import (
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// techSignature maps a technology to the substrings that betray it.
type techSignature struct {
	Category string
	Name     string
	Needles  []string
}

// techSignatures are matched case-insensitively.
var techSignatures = []techSignature{
	{"cloud", "AWS", []string{"aws-", "amazon web services", "cloudfront", "s3.amazonaws"}},
	{"cloud", "Azure", []string{"azure", "microsoft cloud", ".azurewebsites."}},
	{"cloud", "GCP", []string{"google cloud", "gcp", "firebase"}},
	{"analytics", "Google Analytics", []string{"gtag", "google-analytics", "ga-", "ua-"}},
	{"analytics", "Mixpanel", []string{"mixpanel"}},
	{"analytics", "Segment", []string{"segment.io", "segment.com"}},
	{"crm", "Salesforce", []string{"salesforce", "force.com"}},
	{"crm", "HubSpot", []string{"hubspot", "hs-script"}},
	{"crm", "Zendesk", []string{"zendesk", "zdassets"}},
	{"marketing", "Marketo", []string{"marketo", "mktoweb"}},
	{"marketing", "Mailchimp", []string{"mailchimp", "mc.js"}},
	{"marketing", "Intercom", []string{"intercom", "intercomcdn"}},
}

// DetectTechnologies reports every signature found in the raw source, the
// visible text or the src/href/content attributes of script, link and meta
// tags. The result is sorted and free of duplicates.
func DetectTechnologies(doc *goquery.Document, rawHTML, visible string) []string {
	var attrs strings.Builder
	doc.Find("script, link, meta").Each(func(_ int, s *goquery.Selection) {
		for _, a := range []string{"src", "href", "content"} {
			if v, ok := s.Attr(a); ok {
				attrs.WriteString(v)
				attrs.WriteByte('\n')
			}
		}
	})

	haystacks := []string{
		strings.ToLower(rawHTML),
		strings.ToLower(visible),
		strings.ToLower(attrs.String()),
	}

	found := make(map[string]bool)
	for _, sig := range techSignatures {
		if found[sig.Name] {
			continue
		}
	search:
		for _, h := range haystacks {
			for _, needle := range sig.Needles {
				if strings.Contains(h, needle) {
					found[sig.Name] = true
					break search
				}
			}
		}
	}

	techs := make([]string, 0, len(found))
	for name := range found {
		techs = append(techs, name)
	}
	sort.Strings(techs)
	return techs
}

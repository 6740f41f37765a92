package extract

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// nameSource derives a company name candidate from a document.
type nameSource func(doc *goquery.Document, pageURL *url.URL) string

// nameSources is tried in order; the first non-empty cleaned value wins.
var nameSources = []nameSource{
	metaContent(`meta[property="og:site_name"]`),
	twitterTitle,
	titleTag,
	logoAlt,
	jsonLDName,
	headerText,
	domainName,
}

// titleSuffix matches a trailing " | Tagline" or " - Tagline".
var titleSuffix = regexp.MustCompile(`\s*(?:\||\s[-–—]\s).*$`)

var logoWord = regexp.MustCompile(`(?i)\blogo\b`)

var genericTitles = map[string]bool{
	"home":     true,
	"homepage": true,
	"welcome":  true,
}

// CompanyName returns the best company name candidate, or "" if the page
// offers none.
func CompanyName(doc *goquery.Document, pageURL *url.URL) string {
	for _, src := range nameSources {
		if name := src(doc, pageURL); name != "" {
			return name
		}
	}
	return ""
}

// cleanName trims separators and taglines from a raw candidate. Generic
// leading words such as "Home" give way to the next segment.
func cleanName(raw string) string {
	raw = collapseSpace(raw)
	if raw == "" {
		return ""
	}
	name := strings.TrimSpace(titleSuffix.ReplaceAllString(raw, ""))
	if genericTitles[strings.ToLower(name)] {
		rest := strings.TrimSpace(strings.TrimPrefix(raw, name))
		rest = strings.TrimLeft(rest, "|-–— ")
		name = strings.TrimSpace(titleSuffix.ReplaceAllString(rest, ""))
	}
	return name
}

// stripLogo drops the word "logo" from an image alt along with any separator
// it was joined by, so "Acme-logo" and "logo | Acme" both give "Acme".
func stripLogo(alt string) string {
	name := logoWord.ReplaceAllString(alt, "")
	return cleanName(strings.Trim(name, " -_|–—"))
}

func metaContent(selector string) nameSource {
	return func(doc *goquery.Document, _ *url.URL) string {
		return cleanName(doc.Find(selector).First().AttrOr("content", ""))
	}
}

func twitterTitle(doc *goquery.Document, _ *url.URL) string {
	sel := doc.Find(`meta[name="twitter:title"], meta[property="twitter:title"]`).First()
	return cleanName(sel.AttrOr("content", ""))
}

func titleTag(doc *goquery.Document, _ *url.URL) string {
	return cleanName(doc.Find("title").First().Text())
}

func logoAlt(doc *goquery.Document, _ *url.URL) string {
	var name string
	doc.Find("img[alt]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		alt := s.AttrOr("alt", "")
		if !logoWord.MatchString(alt) {
			return true
		}
		name = stripLogo(alt)
		return name == ""
	})
	return name
}

func jsonLDName(doc *goquery.Document, _ *url.URL) string {
	var name string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return true
		}
		name = cleanName(ldName(data))
		return name == ""
	})
	return name
}

// ldName finds a "name" in JSON-LD, preferring Organization nodes and
// descending into arrays and @graph.
func ldName(data any) string {
	switch v := data.(type) {
	case map[string]any:
		if graph, ok := v["@graph"]; ok {
			if n := ldName(graph); n != "" {
				return n
			}
		}
		if n, ok := v["name"].(string); ok {
			return n
		}
		if pub, ok := v["publisher"]; ok {
			return ldName(pub)
		}
	case []any:
		for _, item := range v {
			if m, ok := item.(map[string]any); ok && isOrganization(m["@type"]) {
				if n, ok := m["name"].(string); ok && n != "" {
					return n
				}
			}
		}
		for _, item := range v {
			if n := ldName(item); n != "" {
				return n
			}
		}
	}
	return ""
}

func isOrganization(t any) bool {
	s, _ := t.(string)
	return s == "Organization" || s == "Corporation" || s == "LocalBusiness"
}

func headerText(doc *goquery.Document, _ *url.URL) string {
	for _, sel := range []string{"header h1", ".logo", "#logo", ".brand", ".company-name"} {
		el := doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		if name := cleanName(el.Text()); name != "" {
			return name
		}
		// Image-only logos still carry a usable alt.
		if name := cleanName(el.Find("img").AttrOr("alt", "")); name != "" {
			return stripLogo(name)
		}
	}
	return ""
}

// domainName falls back to the registrable domain label of og:url, the
// canonical link or the page URL, title-cased: "www.acme-corp.co.uk" gives
// "Acme-Corp".
func domainName(doc *goquery.Document, pageURL *url.URL) string {
	candidates := []string{
		doc.Find(`meta[property="og:url"]`).AttrOr("content", ""),
		doc.Find(`link[rel="canonical"]`).AttrOr("href", ""),
	}
	if pageURL != nil {
		candidates = append(candidates, pageURL.String())
	}
	for _, raw := range candidates {
		if label := domainLabel(raw); label != "" {
			// Casers carry state, so one per call.
			return cases.Title(language.English).String(label)
		}
	}
	return ""
}

func domainLabel(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Hostname() == "" {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	if etld1, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		host = etld1
	}
	host = strings.TrimPrefix(host, "www.")
	label, _, _ := strings.Cut(host, ".")
	return label
}

package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sells-group/leadscore-cli/internal/model"
)

var (
	phonePattern   = regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	emailPattern   = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,7}\b`)
	addressPattern = regexp.MustCompile(`\b\d{1,5}\s\w+(?:\s\w+){1,3}`)
	streetSuffix   = regexp.MustCompile(`(?i)\b(?:st|street|ave|avenue|rd|road|blvd|boulevard|dr|drive|ln|lane|way|suite|ste|pkwy|parkway|ct|court|pl|place|hwy|highway)\b`)
)

// socialHosts are the registrable domains treated as social profiles.
var socialHosts = map[string]bool{
	"facebook.com":  true,
	"twitter.com":   true,
	"x.com":         true,
	"linkedin.com":  true,
	"instagram.com": true,
	"youtube.com":   true,
}

// Description returns the meta description, falling back to og:description.
func Description(doc *goquery.Document) string {
	for _, sel := range []string{`meta[name="description"]`, `meta[property="og:description"]`} {
		if d := collapseSpace(doc.Find(sel).First().AttrOr("content", "")); d != "" {
			return d
		}
	}
	return ""
}

// Contact pulls the first phone, email and street address out of the
// visible text and collects links to social profiles.
func Contact(doc *goquery.Document, visible string) model.ContactInfo {
	info := model.ContactInfo{SocialLinks: []string{}}

	info.Phone = phonePattern.FindString(visible)

	info.Email = emailPattern.FindString(visible)
	if info.Email == "" {
		doc.Find(`a[href^="mailto:"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			addr := strings.TrimPrefix(s.AttrOr("href", ""), "mailto:")
			addr, _, _ = strings.Cut(addr, "?")
			info.Email = emailPattern.FindString(addr)
			return info.Email == ""
		})
	}

	info.Address = findAddress(visible)

	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if seen[href] || !isSocialLink(href) {
			return
		}
		seen[href] = true
		info.SocialLinks = append(info.SocialLinks, href)
	})

	return info
}

// findAddress prefers a candidate that ends in a street word; otherwise the
// first number-led phrase wins.
func findAddress(text string) string {
	matches := addressPattern.FindAllString(text, -1)
	for _, m := range matches {
		if streetSuffix.MatchString(m) {
			return m
		}
	}
	if len(matches) > 0 {
		return matches[0]
	}
	return ""
}

// isSocialLink reports whether href points at a known social network.
// Scheme-less hrefs like "facebook.com/acme" are read as https.
func isSocialLink(href string) bool {
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	if u.Scheme == "" && u.Host == "" && !strings.HasPrefix(href, "/") {
		if u, err = url.Parse("https://" + href); err != nil {
			return false
		}
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if socialHosts[host] {
		return true
	}
	for h := range socialHosts {
		if strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

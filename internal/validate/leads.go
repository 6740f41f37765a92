package validate

import (
	"regexp"
	"strings"

	"github.com/sells-group/leadscore-cli/internal/model"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Email reports whether s looks like local@domain.tld with a two-letter or
// longer TLD and no empty domain labels.
func Email(s string) bool {
	if !emailPattern.MatchString(s) {
		return false
	}
	_, domain, _ := strings.Cut(s, "@")
	for _, label := range strings.Split(domain, ".") {
		if label == "" || strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return false
		}
	}
	return true
}

// DeduplicateLeads keeps the first lead for each email address. Addresses are
// compared exactly, so "CEO@acme.com" and "ceo@acme.com" are distinct leads.
// Leads without an email are dropped. Applying it twice gives the same result
// as applying it once.
func DeduplicateLeads(leads []model.Lead) []model.Lead {
	out := make([]model.Lead, 0, len(leads))
	seen := make(map[string]bool, len(leads))
	for _, l := range leads {
		key := l.Email
		if strings.TrimSpace(key) == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, l)
	}
	return out
}

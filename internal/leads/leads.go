// Package leads reads lead lists and writes researched leads.
package leads

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscore-cli/internal/model"
	"github.com/sells-group/leadscore-cli/internal/validate"
)

// headerAliases maps accepted column headers to lead fields.
var headerAliases = map[string]string{
	"name":         "name",
	"company":      "name",
	"company_name": "name",
	"email":        "email",
	"e-mail":       "email",
	"website":      "website",
	"url":          "website",
	"domain":       "website",
}

// Read loads leads from a .csv or .xlsx file. The first row is the header;
// it must name a website column.
func Read(path string) ([]model.Lead, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSV(path)
	case ".xlsx":
		rows, err = readXLSX(path)
	default:
		return nil, eris.Errorf("leads: unsupported file type %q (want .csv or .xlsx)", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	return parseRows(path, rows)
}

func parseRows(path string, rows [][]string) ([]model.Lead, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	cols := map[string]int{}
	for i, h := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if field, ok := headerAliases[key]; ok {
			if _, dup := cols[field]; !dup {
				cols[field] = i
			}
		}
	}
	if _, ok := cols["website"]; !ok {
		return nil, eris.Errorf("leads: %s: no website column in header %v", path, rows[0])
	}

	cell := func(row []string, field string) string {
		i, ok := cols[field]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var leads []model.Lead
	for n, row := range rows[1:] {
		lead := model.Lead{
			Name:    cell(row, "name"),
			Email:   cell(row, "email"),
			Website: NormalizeWebsite(cell(row, "website")),
		}
		if lead.Name == "" && lead.Email == "" && lead.Website == "" {
			continue
		}
		if lead.Email != "" && !validate.Email(lead.Email) {
			zap.L().Warn("leads: invalid email, clearing",
				zap.String("file", path),
				zap.Int("row", n+2),
				zap.String("email", lead.Email),
			)
			lead.Email = ""
		}
		leads = append(leads, lead)
	}
	return leads, nil
}

// NormalizeWebsite adds an https scheme to bare domains.
func NormalizeWebsite(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return s
	}
	return "https://" + strings.TrimPrefix(s, "//")
}

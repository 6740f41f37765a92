package leads

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscore-cli/internal/model"
)

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("leads: open csv %s", path))
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "leads: read csv")
	}
	return records, nil
}

// ResultColumns is the fixed header of a results file.
var ResultColumns = []string{
	"name", "email", "website", "company_name", "industry", "business_type",
	"company_stage", "company_size", "revenue_range", "technologies",
	"score", "priority", "error",
}

// Result is one researched lead. Err is set when research failed.
type Result struct {
	Lead model.Lead
	Err  string
}

// WriteCSV writes results with ResultColumns as the header.
func WriteCSV(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ResultColumns); err != nil {
		return eris.Wrap(err, "leads: write header")
	}
	for _, r := range results {
		if err := cw.Write(resultRow(r)); err != nil {
			return eris.Wrap(err, "leads: write row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "leads: flush csv")
}

func resultRow(r Result) []string {
	l := r.Lead
	row := []string{l.Name, l.Email, l.Website}

	if p := l.Profile; p != nil {
		row = append(row,
			p.CompanyName, p.Industry, p.BusinessType, p.CompanyStage,
			p.CompanySize, p.RevenueRange, strings.Join(p.Technologies, "; "),
		)
	} else {
		row = append(row, "", "", "", "", "", "", "")
	}

	if s := l.Score; s != nil {
		row = append(row, strconv.Itoa(s.Score), string(s.Priority))
	} else {
		row = append(row, "", "")
	}
	return append(row, r.Err)
}

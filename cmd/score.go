package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/leadscore-cli/internal/model"
	"github.com/sells-group/leadscore-cli/internal/scorer"
	"github.com/sells-group/leadscore-cli/internal/validate"
)

var (
	scoreInput  string
	scoreFormat string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score company profiles from a JSON or YAML file without fetching",
	Long: `Reads one profile or a list of profiles, canonicalizes every field, and
prints the lead score breakdown. Numbers and free text are bucketed the same
way as during research.`,
	Example: `  leadscore score --input profile.yaml
  leadscore score --input profiles.json --format csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("store"); err != nil {
			return err
		}
		sc, err := scorer.New(cfg.Scorer.Weights())
		if err != nil {
			return eris.Wrap(err, "init scorer")
		}

		data, err := os.ReadFile(scoreInput)
		if err != nil {
			return eris.Wrap(err, "read profile file")
		}
		raw, err := parseProfiles(data)
		if err != nil {
			return err
		}

		scored := scoreProfiles(sc, raw)
		return writeScored(os.Stdout, scored, scoreFormat)
	},
}

func init() {
	scoreCmd.Flags().StringVar(&scoreInput, "input", "", "profile file (.json, .yaml or .yml)")
	scoreCmd.Flags().StringVar(&scoreFormat, "format", "table", "output format: table, json or csv")
	_ = scoreCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(scoreCmd)
}

// scoredProfile pairs a canonical profile with its score.
type scoredProfile struct {
	Profile model.CompanyProfile `json:"profile"`
	Score   model.ScoreBreakdown `json:"score"`
}

// parseProfiles decodes a single mapping or a sequence of mappings. JSON is
// accepted since it is valid YAML.
func parseProfiles(data []byte) ([]model.Fields, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "parse profile file")
	}

	switch v := doc.(type) {
	case map[string]any:
		return []model.Fields{v}, nil
	case []any:
		out := make([]model.Fields, 0, len(v))
		for i, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, eris.Errorf("profile %d is not a mapping", i)
			}
			out = append(out, m)
		}
		return out, nil
	case nil:
		return nil, eris.New("profile file is empty")
	default:
		return nil, eris.Errorf("profile file must hold a mapping or a list, got %T", doc)
	}
}

func scoreProfiles(sc *scorer.Scorer, raw []model.Fields) []scoredProfile {
	out := make([]scoredProfile, 0, len(raw))
	for _, fields := range raw {
		p := validate.Profile(fields)
		out = append(out, scoredProfile{Profile: p, Score: sc.Score(p)})
	}
	return out
}

func writeScored(w io.Writer, scored []scoredProfile, format string) error {
	switch strings.ToLower(format) {
	case "json":
		return writeJSON(w, scored)
	case "csv":
		return writeScoredCSV(w, scored)
	case "table", "":
		formatScoreTable(w, scored)
		return nil
	default:
		return eris.Errorf("unsupported format %q (want table, json or csv)", format)
	}
}

var scoreColumns = append(append([]string{"company"}, model.ComponentNames...), "score", "priority")

// subScores renders b's components in ComponentNames order.
func subScores(b model.ScoreBreakdown) []string {
	comps := b.Components()
	out := make([]string, 0, len(model.ComponentNames))
	for _, name := range model.ComponentNames {
		out = append(out, formatSub(comps[name]))
	}
	return out
}

func writeScoredCSV(w io.Writer, scored []scoredProfile) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(scoreColumns); err != nil {
		return eris.Wrap(err, "write csv header")
	}
	for _, s := range scored {
		b := s.Score
		row := append([]string{s.Profile.CompanyName}, subScores(b)...)
		row = append(row, strconv.Itoa(b.Score), string(b.Priority))
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "write csv row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "flush csv")
}

// formatScoreTable writes a tabular score breakdown to w.
func formatScoreTable(out io.Writer, scored []scoredProfile) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	header := make([]string, len(scoreColumns))
	rule := make([]string, len(scoreColumns))
	for i, col := range scoreColumns {
		header[i] = strings.ToUpper(col)
		rule[i] = strings.Repeat("-", len(col))
	}
	_, _ = fmt.Fprintln(w, strings.Join(header, "\t"))
	_, _ = fmt.Fprintln(w, strings.Join(rule, "\t"))
	for _, s := range scored {
		b := s.Score
		name := s.Profile.CompanyName
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
			name, strings.Join(subScores(b), "\t"), b.Score, b.Priority,
		)
	}
	_ = w.Flush()
}

func formatSub(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

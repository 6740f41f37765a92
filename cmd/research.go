package main

import (
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	researchURL  string
	researchSave string
)

var researchCmd = &cobra.Command{
	Use:   "research",
	Short: "Research and score a single company website",
	Example: `  leadscore research --url https://acme.com
  leadscore research --url https://acme.com --save acme.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx, "research")
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Researcher.Run(ctx, researchURL)
		if err != nil {
			return eris.Wrap(err, "research")
		}

		zap.L().Info("research complete",
			zap.String("url", result.URL),
			zap.String("company", result.Profile.CompanyName),
			zap.Int("score", result.Score.Score),
			zap.String("priority", string(result.Score.Priority)),
		)

		if err := writeJSON(os.Stdout, result); err != nil {
			return err
		}
		if researchSave == "" {
			return nil
		}

		f, err := os.Create(researchSave)
		if err != nil {
			return eris.Wrap(err, "create output file")
		}
		defer f.Close() //nolint:errcheck
		return writeJSON(f, result)
	},
}

func init() {
	researchCmd.Flags().StringVar(&researchURL, "url", "", "company website URL (required)")
	researchCmd.Flags().StringVar(&researchSave, "save", "", "also write the result JSON to this file")
	_ = researchCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(researchCmd)
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(v), "encode json")
}

package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadscore-cli/internal/leads"
	"github.com/sells-group/leadscore-cli/internal/model"
	"github.com/sells-group/leadscore-cli/internal/validate"
)

var (
	batchInput  string
	batchOutput string
	batchLimit  int
	batchDedupe bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Research and score every lead in a CSV or XLSX file",
	Example: `  leadscore batch --input leads.csv --output scored.csv
  leadscore batch --input leads.xlsx --dedupe --limit 50`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx, "research")
		if err != nil {
			return err
		}
		defer env.Close()

		list, err := leads.Read(batchInput)
		if err != nil {
			return eris.Wrap(err, "read leads")
		}
		if batchDedupe {
			before := len(list)
			list = validate.DeduplicateLeads(list)
			zap.L().Info("deduplicated leads", zap.Int("before", before), zap.Int("after", len(list)))
		}

		opts := batchOptions{
			Limit:       batchLimit,
			Concurrency: cfg.Batch.MaxConcurrentCompanies,
			RPS:         cfg.Batch.RequestsPerSecond,
		}
		results := processBatch(ctx, list, opts, env.Researcher.Run)

		var out io.Writer = os.Stdout
		if batchOutput != "" {
			f, err := os.Create(batchOutput)
			if err != nil {
				return eris.Wrap(err, "create output file")
			}
			defer f.Close() //nolint:errcheck
			out = f
		}
		return leads.WriteCSV(out, results)
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchInput, "input", "", "lead file (.csv or .xlsx)")
	batchCmd.Flags().StringVar(&batchOutput, "output", "", "results CSV path (default stdout)")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of leads to process (0 = all)")
	batchCmd.Flags().BoolVar(&batchDedupe, "dedupe", false, "keep only the first lead per email and drop leads without one")
	_ = batchCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(batchCmd)
}

// researchFunc is the callback signature for researching one website.
type researchFunc func(ctx context.Context, url string) (*model.ResearchResult, error)

// batchOptions bounds a batch. RPS <= 0 disables rate limiting.
type batchOptions struct {
	Limit       int
	Concurrency int
	RPS         float64
}

// processBatch applies the limit, then researches leads concurrently. The
// returned results keep input order; a failed lead carries its error instead
// of aborting the batch.
func processBatch(ctx context.Context, list []model.Lead, opts batchOptions, research researchFunc) []leads.Result {
	if opts.Limit > 0 && len(list) > opts.Limit {
		list = list[:opts.Limit]
	}
	results := make([]leads.Result, len(list))
	if len(list) == 0 {
		zap.L().Info("no leads to process")
		return results
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RPS), 1)
	}

	zap.L().Info("processing batch",
		zap.Int("leads", len(list)),
		zap.Int("concurrency", concurrency),
		zap.Float64("rps", opts.RPS),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var succeeded, failed atomic.Int64

	for i, lead := range list {
		i, lead := i, lead
		results[i] = leads.Result{Lead: lead}
		g.Go(func() error {
			log := zap.L().With(zap.String("website", lead.Website))

			if lead.Website == "" {
				failed.Add(1)
				results[i].Err = "missing website"
				return nil
			}
			if err := limiter.Wait(gctx); err != nil {
				failed.Add(1)
				results[i].Err = err.Error()
				return nil
			}

			res, err := research(gctx, lead.Website)
			if err != nil {
				failed.Add(1)
				results[i].Err = err.Error()
				log.Error("research failed", zap.Error(err))
				return nil // don't abort batch on individual failure
			}

			succeeded.Add(1)
			profile, score := res.Profile, res.Score
			results[i].Lead.Profile = &profile
			results[i].Lead.Score = &score
			log.Info("lead scored",
				zap.Int("score", score.Score),
				zap.String("priority", string(score.Priority)),
			)
			return nil
		})
	}

	_ = g.Wait()

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return results
}

package main

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"sandlife/internal/config"
	"sandlife/internal/core"
	pkgcore "sandlife/pkg/core"
)

var (
	flagWorkers int
	flagSeeds   int
	flagTop     int
)

var sweepCmd = &cobra.Command{
	Use:   "sweep <sim>",
	Short: "Run one simulation over many seeds in parallel",
	Long: `sweep builds the resolved configuration once per seed, runs each copy to
convergence on its own worker and prints the longest runs first. Seeds
count up from the configured seed.`,
	Args: cobra.ExactArgs(1),
	RunE: runSweep,
}

func init() {
	sweepCmd.Flags().IntVar(&flagWorkers, "workers", runtime.NumCPU(), "number of worker goroutines")
	sweepCmd.Flags().IntVar(&flagSeeds, "seeds", 16, "number of seeds to run")
	sweepCmd.Flags().IntVar(&flagTop, "top", 10, "results to print (0 = all)")
}

type sweepResult struct {
	seed    int64
	summary core.Summary
}

func runSweep(cmd *cobra.Command, args []string) error {
	entry, ok := core.Lookup(args[0])
	if !ok {
		return errors.Errorf("unknown sim %q (see 'ca list')", args[0])
	}
	base, err := resolveConfig(entry)
	if err != nil {
		return err
	}
	if flagSeeds <= 0 {
		return errors.Wrapf(pkgcore.ErrConfiguration, "--seeds must be positive, got %d", flagSeeds)
	}

	fmt.Printf("Sweeping %s over %d seeds (%d workers, max %d steps)\n", entry.Name, flagSeeds, flagWorkers, base.MaxSteps)
	start := time.Now()
	results, err := sweep(cmd.Context(), entry, base, flagSeeds, flagWorkers)
	if err != nil {
		return err
	}
	log.Info("sweep finished", "elapsed", time.Since(start).Round(time.Millisecond))

	limit := len(results)
	if flagTop > 0 && flagTop < limit {
		limit = flagTop
	}
	fmt.Printf("%-12s %-9s %-8s %-10s %-10s %-7s %s\n", "seed", "settled", "steps", "topples", "dissipated", "period", "population")
	for _, r := range results[:limit] {
		s := r.summary
		fmt.Printf("%-12d %-9t %-8d %-10d %-10d %-7d %d\n", r.seed, s.Converged, s.Steps, s.Topples, s.Dissipated, s.Period, s.Population)
	}
	return nil
}

// sweep runs seeds base.Seed .. base.Seed+n-1 on at most workers goroutines.
// Results are ordered by step count, longest first, then by seed.
func sweep(ctx context.Context, entry core.Entry, base config.Config, n, workers int) ([]sweepResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]sweepResult, n)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cfg := base
			cfg.Seed = base.Seed + int64(i)
			sim, err := entry.New(cfg)
			if err != nil {
				return errors.Wrapf(err, "seed %d", cfg.Seed)
			}
			sum, err := sim.Run(cfg.MaxSteps)
			if err != nil && !errors.Is(err, pkgcore.ErrNonConvergence) {
				return errors.Wrapf(err, "seed %d", cfg.Seed)
			}
			results[i] = sweepResult{seed: cfg.Seed, summary: sum}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].summary.Steps != results[j].summary.Steps {
			return results[i].summary.Steps > results[j].summary.Steps
		}
		return results[i].seed < results[j].seed
	})
	return results, nil
}

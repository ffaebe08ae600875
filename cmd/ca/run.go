package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"sandlife/internal/core"
	pkgcore "sandlife/pkg/core"
)

var (
	flagSteps int
	flagPrint bool
)

var runCmd = &cobra.Command{
	Use:   "run <sim>",
	Short: "Run a simulation until it settles or for a fixed number of steps",
	Long: `Without --steps the simulation runs until it settles: sandpiles until no
cell can topple, Life variants until a generation repeats. max_steps bounds
the run; exhausting it is reported but is not an error.

With --steps N exactly N steps are applied.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVar(&flagSteps, "steps", 0, "apply exactly this many steps instead of running to convergence")
	runCmd.Flags().BoolVar(&flagPrint, "print", false, "print the final grid")
}

func runRun(cmd *cobra.Command, args []string) error {
	sim, cfg, err := buildSim(args[0])
	if err != nil {
		return err
	}
	log.Info("starting", "sim", sim.Name(), "mesh", sim.Topology().String())

	if flagSteps > 0 {
		changed := 0
		for i := 0; i < flagSteps; i++ {
			if sim.Step() {
				changed++
			}
		}
		fmt.Printf("%s: %d steps applied, %d changed the grid\n", sim.Name(), flagSteps, changed)
	} else {
		sum, err := sim.Run(cfg.MaxSteps)
		if err != nil && !errors.Is(err, pkgcore.ErrNonConvergence) {
			return err
		}
		if err != nil {
			log.Warn("budget exhausted", "max_steps", cfg.MaxSteps)
		}
		printSummary(sim.Name(), sum)
	}

	if flagPrint {
		fmt.Println(sim.State().String())
	}
	return nil
}

func printSummary(name string, sum core.Summary) {
	status := "settled"
	if !sum.Converged {
		status = "still running"
	}
	fmt.Printf("%s: %s after %d steps\n", name, status, sum.Steps)
	if sum.Topples > 0 || sum.Dissipated > 0 {
		fmt.Printf("  topples:    %d\n  dissipated: %d\n", sum.Topples, sum.Dissipated)
	}
	if sum.Period > 0 {
		fmt.Printf("  cycle start: %d\n  period:      %d\n", sum.CycleStart, sum.Period)
	}
	if sum.Population > 0 {
		fmt.Printf("  population:  %d\n", sum.Population)
	}
}

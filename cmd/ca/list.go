package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sandlife/internal/core"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available simulations",
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	entries := core.Sims()
	if len(entries) == 0 {
		fmt.Println("No simulations available.")
		return
	}

	maxLen := 4 // "Name"
	for _, e := range entries {
		if len(e.Name) > maxLen {
			maxLen = len(e.Name)
		}
	}

	fmt.Printf("  %-*s  %s\n", maxLen, "Name", "Description")
	fmt.Printf("  %-*s  %s\n", maxLen, "----", "-----------")
	for _, e := range entries {
		fmt.Printf("  %-*s  %s\n", maxLen, e.Name, e.Summary)
	}
}

var describeCmd = &cobra.Command{
	Use:   "describe <sim>",
	Short: "Show the resolved parameters of a simulation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sim, _, err := buildSim(args[0])
		if err != nil {
			return err
		}
		for _, g := range sim.Parameters().Groups {
			fmt.Printf("%s", g.Name)
			if g.Summary != "" {
				fmt.Printf(" (%s)", g.Summary)
			}
			fmt.Println()
			for _, p := range g.Params {
				fmt.Printf("  %-28s %-8s %s\n", p.Label, p.Type, p.Value)
			}
		}
		return nil
	},
}

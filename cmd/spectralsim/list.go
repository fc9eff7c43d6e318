package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"spectralsim/pkg/sensitivity"
	"spectralsim/pkg/simulation"
)

func listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available simulation types and deficiencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := simulation.Default()
			simulation.RegisterBuiltins(registry)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Simulation types:")
			for _, name := range registry.Names() {
				fmt.Fprintf(out, "  %s\n", name)
			}
			fmt.Fprintln(out, "Colour vision deficiencies:")
			for _, d := range sensitivity.Deficiencies() {
				fmt.Fprintf(out, "  %s\n", d)
			}
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scrutiny/internal/pipes"
)

var pipesCmd = &cobra.Command{
	Use:   "pipes",
	Short: "List the available pipeline stages",
	RunE:  runPipes,
}

func runPipes(cmd *cobra.Command, _ []string) error {
	for _, name := range pipes.Builtin().Names() {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}

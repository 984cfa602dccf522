// Command reconcile-inspect is a devtools CLI that replays a recorded
// renderer-bridge command log and prints it in emission order, for
// debugging a reconciliation session after the fact.
//
// Grounded on speier-smith's cobra-based CLI entry point
// (speier-smith/internal/cli/root.go): a root command with
// subcommands, SilenceUsage/SilenceErrors set so cobra doesn't double-print
// errors. No version is set on the root command.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "reconcile-inspect",
		Short:         "Inspect recorded renderer-bridge command logs",
		Long:          "reconcile-inspect replays and summarizes a JSON log of renderer-bridge commands emitted by a reconciliation engine.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.AddCommand(newReplayCmd())
	root.AddCommand(newSummaryCmd())
	return root
}

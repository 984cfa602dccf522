package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary <log.json>",
		Short: "Print per-operation counts for a recorded command log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			calls, err := loadLog(args[0])
			if err != nil {
				return err
			}

			counts := make(map[string]int)
			for _, c := range calls {
				counts[c.Op]++
			}

			ops := make([]string, 0, len(counts))
			for op := range counts {
				ops = append(ops, op)
			}
			sort.Strings(ops)

			fmt.Fprintf(cmd.OutOrStdout(), "%d effects total\n", len(calls))
			for _, op := range ops {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-22s %d\n", op, counts[op])
			}
			return nil
		},
	}
}

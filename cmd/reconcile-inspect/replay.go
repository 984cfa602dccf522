package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// loggedCall is the on-disk shape of one recorded renderer-bridge
// invocation. It has bridgetest.Call's fields, but reads them under
// snake_case JSON keys ("view_id", "parent_id", ...); bridgetest.Call has no
// json tags, so a log made by marshaling it directly does not fill ViewID or
// ParentID here.
type loggedCall struct {
	Op       string           `json:"op"`
	ViewID   int32            `json:"view_id"`
	ParentID int32            `json:"parent_id,omitempty"`
	Index    int              `json:"index,omitempty"`
	Type     string           `json:"type,omitempty"`
	Props    map[string]any   `json:"props,omitempty"`
	Changed  map[string]any   `json:"changed,omitempty"`
	Children []int32          `json:"children,omitempty"`
	Names    []string         `json:"names,omitempty"`
}

func newReplayCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "replay <log.json>",
		Short: "Print a recorded command log in emission order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			calls, err := loadLog(args[0])
			if err != nil {
				return err
			}
			for i, c := range calls {
				printCall(cmd, i, c, verbose)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "include prop/changed payloads")
	return cmd
}

func loadLog(path string) ([]loggedCall, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	var calls []loggedCall
	if err := json.NewDecoder(f).Decode(&calls); err != nil {
		return nil, fmt.Errorf("decode log: %w", err)
	}
	return calls, nil
}

func printCall(cmd *cobra.Command, index int, c loggedCall, verbose bool) {
	switch c.Op {
	case "attach_view", "replace":
		fmt.Fprintf(cmd.OutOrStdout(), "%3d  %-22s view=%d parent=%d index=%d\n", index, c.Op, c.ViewID, c.ParentID, c.Index)
	case "set_children":
		fmt.Fprintf(cmd.OutOrStdout(), "%3d  %-22s view=%d children=%v\n", index, c.Op, c.ViewID, c.Children)
	case "add_event_listeners", "remove_event_listeners":
		fmt.Fprintf(cmd.OutOrStdout(), "%3d  %-22s view=%d names=%v\n", index, c.Op, c.ViewID, c.Names)
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "%3d  %-22s view=%d\n", index, c.Op, c.ViewID)
	}
	if !verbose {
		return
	}
	if len(c.Props) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "       props:   %v\n", c.Props)
	}
	if len(c.Changed) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "       changed: %v\n", c.Changed)
	}
}

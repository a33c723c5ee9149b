package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"modernize/internal/lookup"
)

func newChildrenCommand(ctx *commandContext) *cobra.Command {
	var direct bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "children <path>",
		Short: "List the pages below a repository path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.newClient()
			if err != nil {
				return err
			}
			children, err := client.ListChildren(cmd.Context(), args[0], lookup.ChildFilter{Direct: direct})
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, children)
			}
			out := cmd.OutOrStdout()
			if len(children.Paths) == 0 {
				fmt.Fprintf(out, "No child pages found under %s\n", args[0])
				return nil
			}
			rows := make([][]string, 0, len(children.Paths))
			for i, p := range children.Paths {
				rows = append(rows, []string{strconv.Itoa(i + 1), p})
			}
			fmt.Fprint(out, renderTable([]string{"#", "Path"}, rows, []columnAlignment{alignRight, alignLeft}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&direct, "direct", false, "Only list immediate children")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

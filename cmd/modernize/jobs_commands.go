package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"modernize/internal/journal"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect jobs submitted from this machine",
	}

	jobsCmd.AddCommand(newJobsListCommand(ctx))
	jobsCmd.AddCommand(newJobsShowCommand(ctx))

	return jobsCmd
}

func newJobsListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded submissions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withJournal(func(store *journal.Store) error {
				entries, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, entries)
				}
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No jobs recorded")
					return nil
				}
				table := renderTable(
					[]string{"ID", "Name", "Type", "Status", "Paths", "Rules", "Submitted"},
					buildJournalRows(entries),
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				)
				fmt.Fprint(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries (0 for all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newJobsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recorded submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid job id %q", args[0])
			}
			return ctx.withJournal(func(store *journal.Store) error {
				entry, err := store.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				if entry == nil {
					return fmt.Errorf("job %d not found", id)
				}
				if jsonOut {
					return writeJSON(cmd, entry)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Job #%d %s\n", entry.ID, entry.Name)
				fmt.Fprintf(out, "  Type:      %s\n", entry.Type)
				fmt.Fprintf(out, "  Status:    %s\n", entry.Status)
				if entry.JobRef != "" {
					fmt.Fprintf(out, "  Job node:  %s\n", entry.JobRef)
				}
				fmt.Fprintf(out, "  Paths:     %d\n", entry.PathCount)
				fmt.Fprintf(out, "  Rules:     %d\n", entry.RuleCount)
				fmt.Fprintf(out, "  Buckets:   %d\n", entry.BucketCount)
				fmt.Fprintf(out, "  Submitted: %s\n", formatSubmittedAt(entry.SubmittedAt))
				if entry.Message != "" {
					fmt.Fprintf(out, "  Message:   %s\n", entry.Message)
				}
				fmt.Fprintf(out, "  Request:   %s\n", entry.RequestID)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

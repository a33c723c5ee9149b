package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"modernize/internal/composer"
	"modernize/internal/journal"
	"modernize/internal/pagination"
	"modernize/internal/variant"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printWindow(out io.Writer, policy variant.Policy, window pagination.Window) {
	fmt.Fprint(out, renderWindow(policy, window))
	fmt.Fprintln(out, windowFooter(window))
}

func windowFooter(w pagination.Window) string {
	if w.Placeholder {
		return "0 items"
	}
	first := w.Offset + 1
	last := w.Offset + len(w.Rows)
	footer := fmt.Sprintf("Items %d-%d of %d (page %d/%d)", first, last, w.Total, w.Page(), w.Pages())
	if w.HasPrev() {
		footer += " [prev]"
	}
	if w.HasNext {
		footer += " [next]"
	}
	return footer
}

func printSubmission(out io.Writer, submission composer.Submission) {
	fmt.Fprintf(out, "Scheduled job %s\n", submission.Scheduled.Job)
	fmt.Fprintf(out, "  Type:    %s\n", submission.Payload.Type)
	fmt.Fprintf(out, "  Paths:   %d\n", len(submission.Payload.Paths))
	fmt.Fprintf(out, "  Rules:   %d\n", submission.Payload.RuleCount())
	if submission.Buckets > 1 {
		fmt.Fprintf(out, "  Buckets: %d\n", submission.Buckets)
	}
	if submission.JournalID > 0 {
		fmt.Fprintf(out, "  Journal: #%d\n", submission.JournalID)
	}
}

func buildJournalRows(entries []journal.Entry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			strconv.FormatInt(entry.ID, 10),
			entry.Name,
			entry.Type,
			string(entry.Status),
			strconv.Itoa(entry.PathCount),
			strconv.Itoa(entry.RuleCount),
			formatSubmittedAt(entry.SubmittedAt),
		})
	}
	return rows
}

func formatSubmittedAt(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

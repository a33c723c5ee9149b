package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"modernize/internal/pagination"
	"modernize/internal/variant"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render() + "\n"
}

// renderWindow lays out one page of the working set using the job type's
// columns, prefixed with the absolute row number.
func renderWindow(policy variant.Policy, w pagination.Window) string {
	headers := append([]string{"#"}, policy.Columns()...)
	aligns := make([]columnAlignment, len(headers))
	aligns[0] = alignRight

	if w.Placeholder {
		return renderTable(headers, [][]string{{"", pagination.NoItemsMessage}}, aligns)
	}
	rows := make([][]string, 0, len(w.Rows))
	for i, item := range w.Rows {
		row := append([]string{strconv.Itoa(w.Offset + i + 1)}, policy.Row(item)...)
		rows = append(rows, row)
	}
	return renderTable(headers, rows, aligns)
}

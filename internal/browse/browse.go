// Package browse renders table rows for the terminal.
package browse

import (
	"fmt"
	"io"

	"github.com/Rana718/tablesmith/internal/database/common"
	"github.com/olekukonko/tablewriter"
)

const (
	DefaultLimit  = 20
	summaryWidth  = 15
	detailWidth   = 80
	summaryFields = 3
)

var preferredColumns = []string{"name", "email", "title"}

// SummaryColumns picks id plus the first preferred columns present, filled
// up to three with the remaining columns in order.
func SummaryColumns(columns []string) []string {
	has := make(map[string]bool, len(columns))
	for _, c := range columns {
		has[c] = true
	}

	summary := []string{"id"}
	for _, c := range preferredColumns {
		if len(summary) >= summaryFields {
			break
		}
		if has[c] {
			summary = append(summary, c)
		}
	}

	for _, c := range columns {
		if len(summary) >= summaryFields {
			break
		}
		if !contains(summary, c) {
			summary = append(summary, c)
		}
	}
	return summary
}

// Truncate cuts s to width characters followed by "...".
func Truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width]) + "..."
}

// SummaryValue formats a value for the row list. Missing and NULL values are blank.
func SummaryValue(v interface{}) string {
	if v == nil {
		return ""
	}
	return Truncate(fmt.Sprint(v), summaryWidth)
}

// DetailValue formats a value for the single-row view.
func DetailValue(v interface{}) string {
	if v == nil {
		return "NULL"
	}
	return Truncate(fmt.Sprint(v), detailWidth)
}

// RenderSummary writes one line per row using the summary columns.
func RenderSummary(w io.Writer, result *common.QueryResult) {
	columns := SummaryColumns(result.Columns)

	table := tablewriter.NewWriter(w)
	table.SetHeader(columns)
	table.SetAutoWrapText(false)
	for _, row := range result.Rows {
		values := make([]string, len(columns))
		for i, c := range columns {
			values[i] = SummaryValue(row[c])
		}
		table.Append(values)
	}
	table.Render()
}

// RenderFull writes every column of every row.
func RenderFull(w io.Writer, result *common.QueryResult) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(result.Columns)
	table.SetAutoWrapText(false)
	for _, row := range result.Rows {
		values := make([]string, len(result.Columns))
		for i, c := range result.Columns {
			values[i] = DetailValue(row[c])
		}
		table.Append(values)
	}
	table.Render()
}

// RenderRow writes one row as column/value pairs.
func RenderRow(w io.Writer, columns []string, row map[string]interface{}) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Column", "Value"})
	table.SetAutoWrapText(false)
	for _, c := range columns {
		table.Append([]string{c, DetailValue(row[c])})
	}
	table.Render()
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

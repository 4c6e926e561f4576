package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/leapbridge/internal/cli/output"
	"github.com/leapstack-labs/leapbridge/pkg/core"
)

func renderResultSet(w io.Writer, rows core.ResultSet, mode output.OutputMode) error {
	if mode == output.ModeJSON {
		return renderJSON(w, rows)
	}
	return renderTable(w, rows)
}

func renderJSON(w io.Writer, rows core.ResultSet) error {
	if rows == nil {
		rows = core.ResultSet{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func renderTable(w io.Writer, rows core.ResultSet) error {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	cols := columnsOf(rows)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	// Header
	headerRow := make(table.Row, len(cols))
	for i, col := range cols {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	// Rows
	for _, row := range rows {
		r := make(table.Row, len(cols))
		for i, col := range cols {
			v, ok := row.Get(col)
			if !ok {
				continue
			}
			r[i] = formatValue(v)
		}
		t.AppendRow(r)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(rows))
	return nil
}

// columnsOf returns every column name in first-seen order.
func columnsOf(rows core.ResultSet) []string {
	var cols []string
	seen := make(map[string]bool)
	for _, row := range rows {
		for pair := row.Oldest(); pair != nil; pair = pair.Next() {
			if !seen[pair.Key] {
				seen[pair.Key] = true
				cols = append(cols, pair.Key)
			}
		}
	}
	return cols
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}

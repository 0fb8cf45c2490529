package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/Aleph-Alpha/sqlconn/v1/mysqlconn"
)

// renderResult writes res to w in the given format. Query results print their
// rows; statement results print the affected row count and any generated id.
func renderResult(w io.Writer, res *mysqlconn.Result, format string) error {
	if !res.IsQueryResult() {
		return renderStatus(w, res, format)
	}

	cols := res.Columns()
	switch format {
	case "json":
		return renderJSON(w, rowMaps(res))
	case "yaml":
		return renderYAML(w, rowMaps(res))
	case "csv":
		return renderCSV(w, cols, res.Rows())
	default:
		return renderTable(w, cols, res.Rows())
	}
}

func renderStatus(w io.Writer, res *mysqlconn.Result, format string) error {
	status := map[string]any{
		"affected_rows":   res.AffectedRows(),
		"generated_value": res.GeneratedValue(),
	}

	switch format {
	case "json":
		return renderJSON(w, status)
	case "yaml":
		return renderYAML(w, status)
	case "csv":
		return renderCSV(w, []string{"affected_rows", "generated_value"},
			[][]any{{res.AffectedRows(), res.GeneratedValue()}})
	default:
		_, _ = fmt.Fprintf(w, "Query OK, %d rows affected", res.AffectedRows())
		if id := res.GeneratedValue(); id != 0 {
			_, _ = fmt.Fprintf(w, ", last insert id %d", id)
		}
		_, _ = fmt.Fprintln(w)
		return nil
	}
}

// renderValue writes a single labelled value, used by ping, schema and the
// REPL dot commands.
func renderValue(w io.Writer, label string, v any, format string) error {
	switch format {
	case "json":
		return renderJSON(w, map[string]any{label: v})
	case "yaml":
		return renderYAML(w, map[string]any{label: v})
	case "csv":
		return renderCSV(w, []string{label}, [][]any{{v}})
	default:
		_, _ = fmt.Fprintf(w, "%s: %s\n", label, formatValue(v))
		return nil
	}
}

func rowMaps(res *mysqlconn.Result) []map[string]any {
	cols := res.Columns()
	out := make([]map[string]any, 0, res.RowCount())
	for _, row := range res.Rows() {
		m := make(map[string]any, len(cols))
		for i, col := range cols {
			m[col] = row[i]
		}
		out = append(out, m)
	}
	return out
}

func renderTable(w io.Writer, cols []string, rows [][]any) error {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(cols))
	for i, col := range cols {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, v := range row {
			r[i] = formatValue(v)
		}
		t.AppendRow(r)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(rows))
	return nil
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func renderCSV(w io.Writer, cols []string, rows [][]any) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return err
	}
	record := make([]string, len(cols))
	for _, row := range rows {
		for i, v := range row {
			record[i] = formatValue(v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return fmt.Sprintf("%v", v)
	}
}

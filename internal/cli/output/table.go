package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Tabler is implemented by results with a tabular form.
type Tabler interface {
	Table() *Table
}

// Table is tabular data.
type Table struct {
	Headers []string
	Rows    [][]string
}

// AddRow appends a row.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Render writes the table with rounded borders.
func (t *Table) Render(w io.Writer) error {
	tw := table.NewWriter()

	if len(t.Headers) > 0 {
		header := make(table.Row, len(t.Headers))
		for i, h := range t.Headers {
			header[i] = h
		}
		tw.AppendHeader(header)
	}
	for _, r := range t.Rows {
		row := make(table.Row, len(r))
		for i, c := range r {
			row[i] = c
		}
		tw.AppendRow(row)
	}

	style := table.StyleRounded
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)

	_, err := fmt.Fprintln(w, tw.Render())
	return err
}

// TableFormatter renders results as tables.
type TableFormatter struct{}

// Format renders data. It accepts *Table, Tabler and map[string]string;
// anything else is written as JSON.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case nil:
		return nil
	case *Table:
		return v.Render(w)
	case Tabler:
		return v.Table().Render(w)
	case map[string]string:
		return keyValueTable(v).Render(w)
	default:
		return (&JSONFormatter{}).Format(w, data)
	}
}

func keyValueTable(m map[string]string) *Table {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := &Table{Headers: []string{"KEY", "VALUE"}}
	for _, k := range keys {
		t.AddRow(k, m[k])
	}
	return t
}

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// newTable returns a borderless table writing to w
func newTable(w io.Writer, title string) table.Writer {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Title.Align = text.AlignLeft
	if title != "" {
		tbl.SetTitle(title)
	}
	return tbl
}

// keyValues renders label/value pairs as a two-column table
func keyValues(w io.Writer, title string, rows ...table.Row) {
	tbl := newTable(w, title)
	tbl.AppendRows(rows)
	tbl.Render()
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// output prints v as JSON when requested, otherwise runs render
func (o *options) output(w io.Writer, v interface{}, render func()) error {
	if o.jsonOutput {
		return writeJSON(w, v)
	}
	render()
	return nil
}

func num(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

package output

import (
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Out is where commands print. Tests swap it for a buffer.
var Out io.Writer = os.Stdout

// RenderTable prints a pretty table to Out
func RenderTable(headers []string, rows [][]interface{}) {
	t := table.NewWriter()
	t.SetOutputMirror(Out)
	t.SetStyle(table.StyleLight)

	headerRow := table.Row{}
	for _, h := range headers {
		headerRow = append(headerRow, h)
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		t.AppendRow(table.Row(row))
	}

	t.Render()
}

// RenderJSON prints v as indented JSON to Out.
func RenderJSON(v interface{}) error {
	enc := json.NewEncoder(Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Float formats an optional number for a table cell; nil renders as "-".
func Float(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// Pnl colors a profit green and a loss red.
func Pnl(v *float64) string {
	s := Float(v)
	switch {
	case v == nil:
		return s
	case *v > 0:
		return text.FgGreen.Sprint(s)
	case *v < 0:
		return text.FgRed.Sprint(s)
	}
	return s
}

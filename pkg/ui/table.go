package ui

import (
	"github.com/jedib0t/go-pretty/v6/table"
)

// Table renders rows under header to stdout
func Table(header []string, rows [][]interface{}) {
	mu.Lock()
	defer mu.Unlock()

	t := table.NewWriter()
	t.SetOutputMirror(out)
	if noColor {
		t.SetStyle(table.StyleLight)
	} else {
		t.SetStyle(table.StyleRounded)
	}

	head := make(table.Row, len(header))
	for i, h := range header {
		head[i] = h
	}
	t.AppendHeader(head)
	for _, row := range rows {
		t.AppendRow(table.Row(row))
	}
	t.Render()
}

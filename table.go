package main

import (
	"strings"
	"unicode/utf8"
)

// table prints aligned columns. The last column is truncated so rows fit in
// maxWidth; zero means no limit.
type table struct {
	headers  []string
	rows     [][]string
	padding  int
	maxWidth int
}

func newTable(headers ...string) *table {
	return &table{headers: headers, padding: 2}
}

func (t *table) addRow(row ...string) {
	padded := make([]string, len(t.headers))
	copy(padded, row)
	t.rows = append(t.rows, padded)
}

func (t *table) render() string {
	if len(t.headers) == 0 {
		return ""
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], utf8.RuneCountInString(cell))
		}
	}

	last := len(widths) - 1
	if t.maxWidth > 0 {
		used := 0
		for _, w := range widths[:last] {
			used += w + t.padding
		}
		widths[last] = max(min(widths[last], t.maxWidth-used), utf8.RuneCountInString(t.headers[last]))
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			cell = truncate(cell, widths[i])
			if i == last {
				parts[i] = cell
				continue
			}
			parts[i] = cell + strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell))
		}
		b.WriteString(strings.Join(parts, strings.Repeat(" ", t.padding)))
		b.WriteString("\n")
	}

	writeRow(t.headers)
	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	writeRow(sep)
	for _, row := range t.rows {
		writeRow(row)
	}
	return b.String()
}

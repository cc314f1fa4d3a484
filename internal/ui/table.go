package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// Align is the horizontal alignment of a column's cells.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Column defines a table column. Amount columns use AlignRight so the
// decimal parts line up.
type Column struct {
	Title string
	Width int
	Align Align
}

// Row is a slice of cell values.
type Row []string

// Table is a fixed-width text table with an optional footer row.
type Table struct {
	Columns []Column
	Rows    []Row
	Footer  Row
	// Limit caps the rendered rows; the remainder is reported as "… and N more".
	// Zero renders every row.
	Limit int
}

// NewTable creates a new table.
func NewTable(cols []Column) *Table {
	return &Table{Columns: cols}
}

// AddRow appends a row.
func (t *Table) AddRow(r Row) {
	t.Rows = append(t.Rows, r)
}

// Hidden is the number of rows Limit keeps out of the output.
func (t *Table) Hidden() int {
	if t.Limit <= 0 || len(t.Rows) <= t.Limit {
		return 0
	}
	return len(t.Rows) - t.Limit
}

// Render returns the full table as a string.
// Cells are padded before styling; lipgloss Width+PaddingRight wraps content
// when (content_length + padding) > Width.
func (t *Table) Render() string {
	var sb strings.Builder

	headerStyle := lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(ColorValue)
	footStyle := lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(ColorMeta)

	line := func(r Row, style lipgloss.Style, header bool) {
		cells := make([]string, len(t.Columns))
		for j, col := range t.Columns {
			val := ""
			if j < len(r) {
				val = r[j]
			}
			align := col.Align
			if header {
				align = AlignLeft
			}
			cells[j] = style.Render(fit(val, col.Width, align))
		}
		sb.WriteString(strings.Join(cells, " "))
		sb.WriteString("\n")
	}
	divider := func() {
		parts := make([]string, len(t.Columns))
		for j, col := range t.Columns {
			parts[j] = dimStyle.Render(strings.Repeat("-", col.Width))
		}
		sb.WriteString(strings.Join(parts, " "))
		sb.WriteString("\n")
	}

	headers := make(Row, len(t.Columns))
	for j, col := range t.Columns {
		headers[j] = col.Title
	}
	line(headers, headerStyle, true)
	divider()

	rows := t.Rows[:len(t.Rows)-t.Hidden()]
	for _, r := range rows {
		line(r, cellStyle, false)
	}
	if n := t.Hidden(); n > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("… and %d more", n)))
		sb.WriteString("\n")
	}
	if len(t.Footer) > 0 {
		divider()
		line(t.Footer, footStyle, false)
	}

	return sb.String()
}

// fit pads or truncates s to exactly width runes. Truncated cells end in "…".
func fit(s string, width int, align Align) string {
	n := utf8.RuneCountInString(s)
	if n > width {
		if width <= 1 {
			return string([]rune(s)[:width])
		}
		return string([]rune(s)[:width-1]) + "…"
	}
	gap := strings.Repeat(" ", width-n)
	if align == AlignRight {
		return gap + s
	}
	return s + gap
}

// KeyValueBlock renders a set of key-value pairs in a bordered box.
func KeyValueBlock(title string, pairs [][2]string) string {
	var sb strings.Builder
	if title != "" {
		sb.WriteString(StyleTitle.Render(title))
		sb.WriteString("\n")
	}
	for _, p := range pairs {
		key := StyleMeta.Render(fmt.Sprintf("%-20s", p[0]+":"))
		val := StyleValue.Render(p[1])
		sb.WriteString("  " + key + " " + val + "\n")
	}
	return StyleBorder.Render(sb.String())
}

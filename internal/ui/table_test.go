package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyValueBlockPreservesOrder(t *testing.T) {
	out := KeyValueBlock("Disperse plan", [][2]string{
		{"Network", "Somnia Shannon (chain 50312)"},
		{"Recipients", "3"},
		{"Total", "3.75 SOMI"},
	})
	assert.Contains(t, out, "Disperse plan")
	assert.Contains(t, out, "3.75 SOMI")
	assert.Less(t, strings.Index(out, "Network"), strings.Index(out, "Recipients"))
	assert.Less(t, strings.Index(out, "Recipients"), strings.Index(out, "Total"))
	// lipgloss RoundedBorder corners.
	assert.Contains(t, out, "╭")
	assert.Contains(t, out, "╰")
}

func TestKeyValueBlockWithoutTitleOrPairs(t *testing.T) {
	assert.NotEmpty(t, KeyValueBlock("", nil))
}

func TestFit(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		align Align
		want  string
	}{
		{"pad left aligned", "ab", 5, AlignLeft, "ab   "},
		{"pad right aligned", "1.5", 6, AlignRight, "   1.5"},
		{"exact width", "somnia", 6, AlignLeft, "somnia"},
		{"truncate with ellipsis", "treasury-ops", 6, AlignLeft, "treas…"},
		{"truncate counts runes", "ünïcödé", 4, AlignLeft, "ünï…"},
		{"width one", "abc", 1, AlignRight, "a"},
		{"empty cell", "", 3, AlignRight, "   "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fit(tt.in, tt.width, tt.align))
		})
	}
}

func TestTableRenderHeaderDividerAndRows(t *testing.T) {
	tbl := NewTable([]Column{
		{Title: "Chain", Width: 10},
		{Title: "Status", Width: 10},
	})
	tbl.AddRow(Row{"somnia", "healthy"})
	tbl.AddRow(Row{"base", "down"})

	out := tbl.Render()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Chain")
	assert.Contains(t, lines[1], "----------")
	assert.Contains(t, lines[2], "somnia")
	assert.Contains(t, lines[3], "down")
}

func TestTableRenderMissingCells(t *testing.T) {
	tbl := NewTable([]Column{{Title: "A", Width: 5}, {Title: "B", Width: 5}, {Title: "C", Width: 5}})
	tbl.AddRow(Row{"only1"})
	assert.Contains(t, tbl.Render(), "only1")
}

func TestTableRightAlignsAmounts(t *testing.T) {
	tbl := NewTable([]Column{
		{Title: "ADDRESS", Width: 6},
		{Title: "AMOUNT", Width: 10, Align: AlignRight},
	})
	tbl.AddRow(Row{"0xabc", "1.5"})
	tbl.AddRow(Row{"0xdef", "1250.25"})

	out := tbl.Render()
	assert.Contains(t, out, "       1.5")
	assert.Contains(t, out, "   1250.25")
	// Headers stay left aligned.
	assert.Contains(t, out, "AMOUNT    ")
}

func TestTableLimitHidesRows(t *testing.T) {
	tbl := NewTable([]Column{{Title: "#", Width: 4}})
	for _, n := range []string{"1", "2", "3", "4", "5"} {
		tbl.AddRow(Row{n})
	}
	tbl.Limit = 3

	assert.Equal(t, 2, tbl.Hidden())
	out := tbl.Render()
	assert.Contains(t, out, "3   ")
	assert.NotContains(t, out, "4   ")
	assert.Contains(t, out, "… and 2 more")
}

func TestTableLimitAboveRowCount(t *testing.T) {
	tbl := NewTable([]Column{{Title: "#", Width: 4}})
	tbl.AddRow(Row{"1"})
	tbl.Limit = 10
	assert.Zero(t, tbl.Hidden())
	assert.NotContains(t, tbl.Render(), "more")
}

func TestTableFooterAfterHiddenRows(t *testing.T) {
	tbl := NewTable([]Column{{Title: "ADDRESS", Width: 8}, {Title: "AMOUNT", Width: 8, Align: AlignRight}})
	tbl.AddRow(Row{"0xaaa", "1"})
	tbl.AddRow(Row{"0xbbb", "2"})
	tbl.Limit = 1
	tbl.Footer = Row{"TOTAL", "3"}

	out := tbl.Render()
	assert.Less(t, strings.Index(out, "… and 1 more"), strings.Index(out, "TOTAL"))
	// Two columns per divider, one divider under the header and one above the footer.
	assert.Equal(t, 4, strings.Count(out, "--------"))
}

func TestBannerContainsBranding(t *testing.T) {
	result := Banner()
	assert.Contains(t, result, "many recipients")
	assert.Contains(t, result, Version)
	assert.Contains(t, result, "Somnia")
}

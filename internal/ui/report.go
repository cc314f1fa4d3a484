package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Mohsinsiddi/multisender/internal/recipient"
	"github.com/samber/lo"
)

// RecipientTable renders a recipient list with a total footer. At most limit
// rows are shown (limit <= 0 shows all).
func RecipientTable(list []recipient.Recipient, symbol string, limit int) string {
	hasLabel := lo.SomeBy(list, func(r recipient.Recipient) bool { return r.Label != "" })
	withSymbol := func(v string) string { return strings.TrimSpace(v + " " + symbol) }

	cols := []Column{
		{Title: "#", Width: 5},
		{Title: "ADDRESS", Width: 42},
		{Title: "AMOUNT", Width: 24, Align: AlignRight},
	}
	if hasLabel {
		cols = append(cols, Column{Title: "LABEL", Width: 18})
	}
	tbl := NewTable(cols)
	tbl.Limit = limit

	for i, r := range list {
		row := Row{strconv.Itoa(i + 1), r.Address, withSymbol(r.Amount)}
		if hasLabel {
			row = append(row, r.Label)
		}
		tbl.AddRow(row)
	}
	if len(list) > 1 {
		tbl.Footer = Row{"", fmt.Sprintf("TOTAL (%d)", len(list)), withSymbol(recipient.HumanTotal(list).String())}
	}
	return tbl.Render()
}

// ValidationReport renders every rejected line of a recipient list under a
// count header.
func ValidationReport(verr *recipient.ValidationError) string {
	var sb strings.Builder
	sb.WriteString(Err(fmt.Sprintf("%d invalid line(s), nothing was sent", len(verr.Errors))) + "\n\n")
	for _, le := range verr.Errors {
		loc := "input"
		if le.Line > 0 {
			loc = fmt.Sprintf("line %d", le.Line)
		}
		sb.WriteString("  " + padR(StyleWarning.Render(loc), 10) + " " +
			padR(StyleMeta.Render(string(le.Kind)), 16) + " " + le.Msg + "\n")
	}
	return sb.String()
}

// KindCounts summarises a ValidationError by error kind, e.g.
// "2 invalid-address, 1 invalid-amount".
func KindCounts(verr *recipient.ValidationError) string {
	groups := lo.GroupBy(verr.Errors, func(le recipient.LineError) recipient.Kind { return le.Kind })
	order := []recipient.Kind{recipient.KindMalformedLine, recipient.KindInvalidAddress, recipient.KindInvalidAmount}
	parts := lo.FilterMap(order, func(k recipient.Kind, _ int) (string, bool) {
		g, ok := groups[k]
		return fmt.Sprintf("%d %s", len(g), k), ok
	})
	return strings.Join(parts, ", ")
}

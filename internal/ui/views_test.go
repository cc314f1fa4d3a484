package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Mohsinsiddi/multisender/internal/recipient"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// RecipientTable
// ---------------------------------------------------------------------------

func sampleRecipients(n int) []recipient.Recipient {
	out := make([]recipient.Recipient, n)
	for i := range out {
		out[i] = recipient.Recipient{
			Address: "0x742d35cc6634c0532925a3b8d934c5b41961861" + string(rune('0'+i%10)),
			Amount:  "1.5",
			Line:    i + 1,
		}
	}
	return out
}

func TestRecipientTableShowsRows(t *testing.T) {
	out := RecipientTable(sampleRecipients(2), "SOMI", 0)
	assert.Contains(t, out, "ADDRESS")
	assert.Contains(t, out, "0x742d35cc6634c0532925a3b8d934c5b419618610")
	assert.Contains(t, out, "1.5 SOMI")
	assert.NotContains(t, out, "LABEL")
	assert.NotContains(t, out, "more")
}

func TestRecipientTableLimit(t *testing.T) {
	out := RecipientTable(sampleRecipients(12), "SOMI", 10)
	assert.Contains(t, out, "… and 2 more")
	// The total covers hidden rows too.
	assert.Contains(t, out, "TOTAL (12)")
	assert.Contains(t, out, "18 SOMI")
}

func TestRecipientTableSingleRowHasNoFooter(t *testing.T) {
	assert.NotContains(t, RecipientTable(sampleRecipients(1), "SOMI", 0), "TOTAL")
}

func TestRecipientTableLabels(t *testing.T) {
	list := sampleRecipients(1)
	list[0].Label = "alice"
	out := RecipientTable(list, "", 0)
	assert.Contains(t, out, "LABEL")
	assert.Contains(t, out, "alice")
}

// ---------------------------------------------------------------------------
// ValidationReport
// ---------------------------------------------------------------------------

func sampleValidationError() *recipient.ValidationError {
	return &recipient.ValidationError{Errors: []recipient.LineError{
		{Line: 2, Kind: recipient.KindInvalidAddress, Value: "0x123", Msg: `invalid address "0x123"`},
		{Line: 5, Kind: recipient.KindInvalidAmount, Value: "-1", Msg: `amount "-1" must be greater than zero`},
		{Line: 7, Kind: recipient.KindInvalidAddress, Value: "abc", Msg: `invalid address "abc"`},
	}}
}

func TestValidationReport(t *testing.T) {
	out := ValidationReport(sampleValidationError())
	assert.Contains(t, out, "3 invalid line(s)")
	assert.Contains(t, out, "line 2")
	assert.Contains(t, out, "line 5")
	assert.Contains(t, out, "invalid-amount")
	assert.Less(t, strings.Index(out, "line 2"), strings.Index(out, "line 7"))
}

func TestKindCounts(t *testing.T) {
	assert.Equal(t, "2 invalid-address, 1 invalid-amount", KindCounts(sampleValidationError()))
}

// ---------------------------------------------------------------------------
// ProgressModel
// ---------------------------------------------------------------------------

func TestProgressStepUpdates(t *testing.T) {
	m := NewProgress("Dispersing", []string{"approve", "disperse"})
	require.Len(t, m.Steps, 2)

	next, _ := m.Update(StepMsg{Index: 0, Status: StepDone, Detail: "0xabc"})
	m = next.(ProgressModel)
	next, _ = m.Update(StepMsg{Index: 1, Status: StepRunning})
	m = next.(ProgressModel)

	assert.Equal(t, StepDone, m.Steps[0].Status)
	assert.Equal(t, StepRunning, m.Steps[1].Status)

	view := m.View()
	assert.Contains(t, view, "Dispersing")
	assert.Contains(t, view, "0xabc")
	assert.Contains(t, view, "✓")
}

func TestProgressIgnoresOutOfRangeStep(t *testing.T) {
	m := NewProgress("x", []string{"only"})
	assert.NotPanics(t, func() { m.Update(StepMsg{Index: 3, Status: StepDone}) })
}

func TestProgressDoneQuits(t *testing.T) {
	m := NewProgress("x", []string{"disperse"})
	next, cmd := m.Update(ProgressDoneMsg{Err: errors.New("reverted")})
	fm := next.(ProgressModel)
	assert.True(t, fm.Finished)
	assert.EqualError(t, fm.Err, "reverted")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestProgressCtrlC(t *testing.T) {
	m := NewProgress("x", []string{"disperse"})
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	fm := next.(ProgressModel)
	assert.True(t, fm.Aborted)
	assert.Contains(t, fm.View(), "may still be mined")
}

// ---------------------------------------------------------------------------
// Picker
// ---------------------------------------------------------------------------

func TestPickerStartsOnCurrent(t *testing.T) {
	m := newPickerModel("Wallets", []PickerItem{
		{Label: "a", Value: "a"},
		{Label: "b", Value: "b", Current: true},
	})
	assert.Equal(t, 1, m.cursor)
	assert.Contains(t, m.View(), "(current)")
}

func TestPickerNavigateAndSelect(t *testing.T) {
	m := newPickerModel("Asset", []PickerItem{
		{Label: "SOMI", Value: "native"},
		{Label: "USDC", Value: "0x1111111111111111111111111111111111111111"},
	})
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, _ = next.(pickerModel).Update(tea.KeyMsg{Type: tea.KeyDown}) // clamped
	next, cmd := next.(pickerModel).Update(tea.KeyMsg{Type: tea.KeyEnter})

	pm := next.(pickerModel)
	require.NotNil(t, pm.selected)
	assert.Equal(t, "USDC", pm.selected.Label)
	assert.NotNil(t, cmd)
}

func TestPickerCancel(t *testing.T) {
	m := newPickerModel("Asset", []PickerItem{{Label: "SOMI", Value: "native"}})
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	pm := next.(pickerModel)
	assert.True(t, pm.quitting)
	assert.Empty(t, pm.View())
}

func TestPickerSkipsDisabled(t *testing.T) {
	m := newPickerModel("Send from", []PickerItem{
		{Label: "cold", Value: "cold", Disabled: true, Reason: "watch-only"},
		{Label: "hot", Value: "hot"},
		{Label: "ledger", Value: "ledger", Disabled: true},
	})
	assert.Equal(t, 1, m.cursor, "cursor starts on the first selectable item")
	assert.Contains(t, m.View(), "(watch-only)")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, next.(pickerModel).cursor)
	next, _ = next.(pickerModel).Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, next.(pickerModel).cursor)

	next, cmd := next.(pickerModel).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1")})
	assert.Nil(t, next.(pickerModel).selected, "disabled item cannot be chosen")
	assert.Nil(t, cmd)
}

func TestPickerNumberKeySelects(t *testing.T) {
	m := newPickerModel("Asset", []PickerItem{
		{Label: "SOMI", Value: "native"},
		{Label: "USDC", Value: "token"},
	})
	assert.Contains(t, m.View(), "2. ")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2")})
	pm := next.(pickerModel)
	require.NotNil(t, pm.selected)
	assert.Equal(t, "token", pm.selected.Value)
	assert.NotNil(t, cmd)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("7")})
	assert.Nil(t, next.(pickerModel).selected)
}

func TestPickItemNothingSelectable(t *testing.T) {
	_, err := PickItem("Send from", []PickerItem{{Label: "cold", Disabled: true}})
	assert.ErrorContains(t, err, "nothing selectable")
}

func TestPickItemEmpty(t *testing.T) {
	_, err := PickItem("none", nil)
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// ConfirmFrom
// ---------------------------------------------------------------------------

func TestConfirmFrom(t *testing.T) {
	assert.True(t, ConfirmFrom(strings.NewReader("y\n"), "send?"))
	assert.True(t, ConfirmFrom(strings.NewReader("YES\n"), "send?"))
	assert.False(t, ConfirmFrom(strings.NewReader("\n"), "send?"))
	assert.False(t, ConfirmFrom(strings.NewReader(""), "send?"))
}

func TestConfirmTypedFrom(t *testing.T) {
	assert.True(t, ConfirmTypedFrom(strings.NewReader("12\n"), "send?", "12"))
	assert.True(t, ConfirmTypedFrom(strings.NewReader("  12  \n"), "send?", "12"))
	assert.False(t, ConfirmTypedFrom(strings.NewReader("y\n"), "send?", "12"))
	assert.False(t, ConfirmTypedFrom(strings.NewReader(""), "send?", "12"))
}

// ---------------------------------------------------------------------------
// Spinner
// ---------------------------------------------------------------------------

func TestSpinnerDrawsUpdatedMessage(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinnerTo(&buf, "Broadcasting approve…")
	s.Start()
	s.Update("Waiting for confirmation…")
	time.Sleep(3 * spinnerInterval)
	s.Stop()
	s.Stop()

	out := buf.String()
	assert.Contains(t, out, "Broadcasting approve…")
	assert.Contains(t, out, "Waiting for confirmation…")
	assert.True(t, strings.HasSuffix(out, "\r"), "line is cleared on stop")
}

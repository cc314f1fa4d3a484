package recipient

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validLine(i int) string {
	return fmt.Sprintf("0x%040x,%d.5", i+1, i+1)
}

// ---------------------------------------------------------------------------
// Validate
// ---------------------------------------------------------------------------

func TestValidateAcceptsValidList(t *testing.T) {
	in := []Recipient{
		{Address: addrB, Amount: "1.5", Line: 1},
		{Address: addrC, Amount: "0.000001", Line: 2},
	}
	out, err := Validate(in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestValidateEmptyList(t *testing.T) {
	_, err := Validate(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no recipients")
}

func TestValidateRejectsBadAddresses(t *testing.T) {
	bad := []string{
		"0x742d35Cc6634C0532925a3b8D934C5B41961861",   // 39 hex
		"0x742d35Cc6634C0532925a3b8D934C5B4196186123", // 41 hex
		"742d35Cc6634C0532925a3b8D934C5B419618612",    // no prefix
		"0xZZ2d35Cc6634C0532925a3b8D934C5B419618612",  // non-hex
		"vitalik.eth",
	}
	for _, a := range bad {
		_, err := Validate([]Recipient{{Address: a, Amount: "1", Line: 7}})
		var ve *ValidationError
		require.True(t, errors.As(err, &ve), a)
		require.Len(t, ve.Errors, 1, a)
		assert.Equal(t, KindInvalidAddress, ve.Errors[0].Kind, a)
		assert.Equal(t, 7, ve.Errors[0].Line, a)
	}
}

func TestValidateRejectsBadAmounts(t *testing.T) {
	for _, amt := range []string{"0", "0.0", "-1", "-0.5", "abc", "", "1,5", "NaN", "Inf",
		"1e2000000000", "1e78", "1e-2000000000"} {
		_, err := Validate([]Recipient{{Address: addrB, Amount: amt, Line: 3}})
		var ve *ValidationError
		require.True(t, errors.As(err, &ve), amt)
		assert.Equal(t, KindInvalidAmount, ve.Errors[0].Kind, amt)
	}
}

func TestValidateAcceptsScientificNotation(t *testing.T) {
	_, err := Validate([]Recipient{{Address: addrB, Amount: "1e-3", Line: 1}})
	assert.NoError(t, err)
}

func TestValidateBadAddressRejectedForEverySeparator(t *testing.T) {
	short := "0x1234"
	for _, line := range []string{short + ",1", short + ";1", short + "\t1", short + " 1"} {
		list, err := ParseCSV(strings.NewReader(line))
		require.NoError(t, err, line)
		_, err = Validate(list)
		var ve *ValidationError
		require.True(t, errors.As(err, &ve), line)
		assert.Equal(t, KindInvalidAddress, ve.Errors[0].Kind, line)
	}
}

func TestValidateOneBadLineRejectsWholeBatch(t *testing.T) {
	lines := make([]string, 10)
	for i := range lines {
		lines[i] = validLine(i)
	}
	lines[6] = "0x1234,1" // line 7

	list, err := ParseCSV(strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, err)
	require.Len(t, list, 10)

	out, err := Validate(list)
	assert.Nil(t, out)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	require.Len(t, ve.Errors, 1)
	assert.Equal(t, 7, ve.Errors[0].Line)
	assert.Contains(t, err.Error(), "Line 7:")
}

func TestValidateErrorsSortedByLine(t *testing.T) {
	in := []Recipient{
		{Address: addrB, Amount: "1", Line: 1},
		{Address: "bad", Amount: "1", Line: 2},
		{Address: addrC, Amount: "zero", Line: 3},
	}
	_, err := Validate(in)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []int{2, 3}, ve.Lines())
	assert.Equal(t, KindInvalidAddress, ve.Errors[0].Kind)
	assert.Equal(t, KindInvalidAmount, ve.Errors[1].Kind)
}

// ---------------------------------------------------------------------------
// LoadText / Collect
// ---------------------------------------------------------------------------

func TestLoadTextValidatesLikeCSV(t *testing.T) {
	_, err := LoadText(addrB + ", 1\n" + addrC + ", 0")
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []int{2}, ve.Lines())
}

func TestCollectMergesChannelsInOrder(t *testing.T) {
	list, err := Collect("", addrB+" 1", []string{addrC + ":2"}, nil)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, addrB, list[0].Address)
	assert.Equal(t, addrC, list[1].Address)
}

func TestCollectReportsParseErrorsFromAllChannels(t *testing.T) {
	_, err := Collect("", addrB, []string{"nope"}, nil)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Len(t, ve.Errors, 2)
}

// ---------------------------------------------------------------------------
// NewBatch / ToBaseUnits
// ---------------------------------------------------------------------------

func TestToBaseUnits(t *testing.T) {
	tests := []struct {
		amount   string
		decimals int32
		want     string
	}{
		{"1", 18, "1000000000000000000"},
		{"1.5", 6, "1500000"},
		{"0.000001", 6, "1"},
		{"42", 0, "42"},
		{"1e2", 2, "10000"},
	}
	for _, tt := range tests {
		got, err := ToBaseUnits(tt.amount, tt.decimals)
		require.NoError(t, err, tt.amount)
		assert.Equal(t, tt.want, got.String(), tt.amount)
	}
}

func TestToBaseUnitsOverflow(t *testing.T) {
	_, err := ToBaseUnits("1e70", 18)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "uint256")

	_, err = ToBaseUnits("1e2000000000", 18)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestCollectReadsStdinAsCSV(t *testing.T) {
	list, err := Collect("-", "", nil, strings.NewReader(addrB+";1\n"+addrC+";2\n"))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 2, list[1].Line)

	_, err = Collect("-", "", nil, nil)
	assert.Error(t, err)
}

func TestToBaseUnitsTooPrecise(t *testing.T) {
	_, err := ToBaseUnits("0.0000001", 6)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "6 decimal places")
}

func TestNewBatchTotals(t *testing.T) {
	b, err := NewBatch([]Recipient{
		{Address: addrB, Amount: "1.5", Line: 1},
		{Address: addrC, Amount: "2", Line: 2},
	}, 6)
	require.NoError(t, err)
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, big.NewInt(3_500_000), b.Total)
	assert.Equal(t, big.NewInt(1_500_000), b.Amounts[0])
	assert.True(t, strings.EqualFold(addrB, b.Addresses[0].Hex()))
}

func TestNewBatchPrecisionErrorNamesLine(t *testing.T) {
	_, err := NewBatch([]Recipient{
		{Address: addrB, Amount: "1", Line: 1},
		{Address: addrC, Amount: "0.123", Line: 2},
	}, 2)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []int{2}, ve.Lines())
	assert.Equal(t, KindInvalidAmount, ve.Errors[0].Kind)
}

func TestNewBatchRejectsNegativeDecimals(t *testing.T) {
	_, err := NewBatch([]Recipient{{Address: addrB, Amount: "1", Line: 1}}, -1)
	assert.Error(t, err)
}

func TestDuplicatesCaseInsensitive(t *testing.T) {
	dups := Duplicates([]Recipient{
		{Address: addrB, Amount: "1"},
		{Address: strings.ToLower(addrB), Amount: "2"},
		{Address: addrA, Amount: "3"},
	})
	require.Len(t, dups, 1)
	assert.True(t, strings.EqualFold(addrB, dups[0]))
}

func TestFormatUnits(t *testing.T) {
	assert.Equal(t, "1.5", FormatUnits(big.NewInt(1_500_000), 6))
	assert.Equal(t, "0", FormatUnits(nil, 18))
}

func TestHumanTotal(t *testing.T) {
	total := HumanTotal([]Recipient{{Amount: "1.25"}, {Amount: "2.75"}})
	assert.Equal(t, "4", total.String())
}

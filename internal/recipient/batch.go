package recipient

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Batch is a validated recipient list converted to smallest token units,
// ready to be packed into a disperse call.
type Batch struct {
	Recipients []Recipient
	Addresses  []common.Address
	Amounts    []*big.Int
	Total      *big.Int
	Decimals   int32
}

// NewBatch scales each amount by 10^decimals. An amount with more fractional
// digits than the token supports is rejected rather than truncated.
func NewBatch(list []Recipient, decimals int32) (*Batch, error) {
	if decimals < 0 || decimals > 77 {
		return nil, fmt.Errorf("unsupported token decimals %d", decimals)
	}
	list, err := Validate(list)
	if err != nil {
		return nil, err
	}

	b := &Batch{
		Recipients: list,
		Addresses:  make([]common.Address, 0, len(list)),
		Amounts:    make([]*big.Int, 0, len(list)),
		Total:      new(big.Int),
		Decimals:   decimals,
	}

	v := &ValidationError{}
	for _, r := range list {
		amt, err := ToBaseUnits(r.Amount, decimals)
		if err != nil {
			v.add(LineError{Line: r.Line, Kind: KindInvalidAmount, Value: r.Amount, Msg: err.Error()})
			continue
		}
		b.Addresses = append(b.Addresses, common.HexToAddress(r.Address))
		b.Amounts = append(b.Amounts, amt)
		b.Total.Add(b.Total, amt)
	}
	if err := v.err(); err != nil {
		return nil, err
	}
	return b, nil
}

// ToBaseUnits converts a human amount to smallest units for a token with the
// given number of decimals.
func ToBaseUnits(amount string, decimals int32) (*big.Int, error) {
	d, err := ParseAmount(amount)
	if err != nil {
		return nil, err
	}
	scaled := d.Shift(decimals)
	if !scaled.Equal(scaled.Truncate(0)) {
		return nil, fmt.Errorf("amount %q has more than %d decimal places", strings.TrimSpace(amount), decimals)
	}
	n := scaled.BigInt()
	if n.BitLen() > 256 {
		return nil, fmt.Errorf("amount %q does not fit in uint256", strings.TrimSpace(amount))
	}
	return n, nil
}

// FormatUnits renders a smallest-unit amount as a human decimal string.
func FormatUnits(raw *big.Int, decimals int32) string {
	if raw == nil {
		return "0"
	}
	return decimal.NewFromBigInt(raw, -decimals).String()
}

// Len returns the number of recipients.
func (b *Batch) Len() int { return len(b.Addresses) }

// Duplicates returns addresses (checksummed) that appear more than once.
// Duplicates are allowed; callers may warn about them.
func (b *Batch) Duplicates() []string {
	return Duplicates(b.Recipients)
}

// Duplicates returns the checksummed addresses listed more than once,
// compared case-insensitively.
func Duplicates(list []Recipient) []string {
	dups := lo.FindDuplicatesBy(list, func(r Recipient) string { return strings.ToLower(r.Address) })
	return lo.Map(dups, func(r Recipient, _ int) string { return common.HexToAddress(r.Address).Hex() })
}

// HumanTotal sums the human amounts of a validated list without scaling.
func HumanTotal(list []Recipient) decimal.Decimal {
	return lo.Reduce(list, func(acc decimal.Decimal, r Recipient, _ int) decimal.Decimal {
		d, err := ParseAmount(r.Amount)
		if err != nil {
			return acc
		}
		return acc.Add(d)
	}, decimal.Zero)
}

package recipient

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// maxAmountDigits bounds both the integer and fractional digits of an
// amount. A uint256 has 78 decimal digits.
const maxAmountDigits = 78

// IsAddress reports whether s is a 0x-prefixed 20-byte hex address.
func IsAddress(s string) bool {
	return addressPattern.MatchString(s)
}

// ParseAmount parses a human-unit amount. It must be a finite decimal
// strictly greater than zero with at most maxAmountDigits digits on either
// side of the point.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount is empty")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount %q is not a number", s)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("amount %q must be greater than zero", s)
	}
	if d.NumDigits()+int(d.Exponent()) > maxAmountDigits {
		return decimal.Zero, fmt.Errorf("amount %q is too large", s)
	}
	if d.Exponent() < -maxAmountDigits {
		return decimal.Zero, fmt.Errorf("amount %q has too many decimal places", s)
	}
	return d, nil
}

// Validate checks every candidate and returns either the full list or a
// *ValidationError naming each offending line. A list is never partially
// accepted. An empty list is an error.
func Validate(list []Recipient) ([]Recipient, error) {
	if len(list) == 0 {
		return nil, &ValidationError{Errors: []LineError{{
			Kind: KindMalformedLine,
			Msg:  "no recipients",
		}}}
	}

	v := &ValidationError{}
	for _, r := range list {
		if le, ok := check(r); !ok {
			v.add(le)
		}
	}
	if err := v.err(); err != nil {
		return nil, err
	}
	return list, nil
}

// check validates one candidate. The address is checked first; a line with
// both a bad address and a bad amount reports the address.
func check(r Recipient) (LineError, bool) {
	if !IsAddress(r.Address) {
		return LineError{
			Line:  r.Line,
			Kind:  KindInvalidAddress,
			Value: r.Address,
			Msg:   fmt.Sprintf("invalid address %q, expected 0x followed by 40 hex characters", r.Address),
		}, false
	}
	if _, err := ParseAmount(r.Amount); err != nil {
		return LineError{
			Line:  r.Line,
			Kind:  KindInvalidAmount,
			Value: r.Amount,
			Msg:   err.Error(),
		}, false
	}
	return LineError{}, true
}

// LoadText parses freeform text and validates the result.
func LoadText(text string) ([]Recipient, error) {
	list, err := ParseText(text)
	if err != nil {
		return nil, err
	}
	return Validate(list)
}

// LoadFile parses a CSV file and validates the result.
func LoadFile(path string) ([]Recipient, error) {
	list, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return Validate(list)
}

// Collect gathers recipients from every input channel in order (file, text,
// flag pairs) and validates them together. A file of "-" is read as CSV from
// stdin. Parse errors from all channels are reported at once.
func Collect(file, text string, pairs []string, stdin io.Reader) ([]Recipient, error) {
	v := &ValidationError{}
	var all []Recipient

	if file != "" {
		var list []Recipient
		var err error
		switch {
		case file == "-" && stdin == nil:
			return nil, fmt.Errorf("no stdin to read recipients from")
		case file == "-":
			list, err = ParseCSV(stdin)
		default:
			list, err = ParseFile(file)
		}
		if _, ok := err.(*ValidationError); err != nil && !ok {
			return nil, err
		}
		v.merge(err)
		all = append(all, list...)
	}
	if text != "" {
		list, err := ParseText(text)
		if _, ok := err.(*ValidationError); err != nil && !ok {
			return nil, err
		}
		v.merge(err)
		all = append(all, list...)
	}
	if len(pairs) > 0 {
		list, err := ParseArgs(pairs)
		v.merge(err)
		all = append(all, list...)
	}

	if err := v.err(); err != nil {
		return nil, err
	}
	return Validate(all)
}

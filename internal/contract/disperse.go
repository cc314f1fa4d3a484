package contract

import (
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/multisender/internal/recipient"
	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Disperse method names.
const (
	MethodDisperseNative      = "disperseNative"
	MethodDisperseToken       = "disperseToken"
	MethodDisperseTokenSimple = "disperseTokenSimple"
)

// Disperser packs calldata for the disperse contract. Array arguments need
// full ABI encoding, so this goes through go-ethereum's accounts/abi.
type Disperser struct {
	abi gethabi.ABI
}

// NewDisperser builds a Disperser from ABI entries; nil uses the built-in ABI.
func NewDisperser(entries []ABIEntry) (*Disperser, error) {
	entries, err := ResolveABI(BuiltinDisperse, entries)
	if err != nil {
		return nil, err
	}
	raw, err := MarshalABI(entries)
	if err != nil {
		return nil, err
	}
	parsed, err := gethabi.JSON(strings.NewReader(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("parsing disperse ABI: %w", err)
	}
	return &Disperser{abi: parsed}, nil
}

// PackNative encodes disperseNative(recipients, values). The transaction
// value must equal b.Total.
func (d *Disperser) PackNative(b *recipient.Batch) ([]byte, error) {
	if err := checkBatch(b); err != nil {
		return nil, err
	}
	return d.abi.Pack(MethodDisperseNative, b.Addresses, b.Amounts)
}

// PackToken encodes disperseToken(token, recipients, values).
func (d *Disperser) PackToken(token common.Address, b *recipient.Batch) ([]byte, error) {
	return d.packToken(MethodDisperseToken, token, b)
}

// PackTokenSimple encodes disperseTokenSimple(token, recipients, values).
func (d *Disperser) PackTokenSimple(token common.Address, b *recipient.Batch) ([]byte, error) {
	if _, ok := d.abi.Methods[MethodDisperseTokenSimple]; !ok {
		return nil, fmt.Errorf("disperse ABI has no %s", MethodDisperseTokenSimple)
	}
	return d.packToken(MethodDisperseTokenSimple, token, b)
}

func (d *Disperser) packToken(method string, token common.Address, b *recipient.Batch) ([]byte, error) {
	if token == (common.Address{}) {
		return nil, fmt.Errorf("token address is zero")
	}
	if err := checkBatch(b); err != nil {
		return nil, err
	}
	return d.abi.Pack(method, token, b.Addresses, b.Amounts)
}

// DecodeRevert turns revert data into a readable reason, recognising the
// contract's custom errors and Error(string).
func (d *Disperser) DecodeRevert(data []byte) string {
	if reason, err := gethabi.UnpackRevert(data); err == nil {
		return reason
	}
	if len(data) >= 4 {
		for name, e := range d.abi.Errors {
			if string(e.ID[:4]) != string(data[:4]) {
				continue
			}
			args, err := e.Unpack(data)
			if err != nil {
				return name
			}
			return fmt.Sprintf("%s%v", name, args)
		}
	}
	return ""
}

func checkBatch(b *recipient.Batch) error {
	if b == nil || b.Len() == 0 {
		return fmt.Errorf("empty recipient batch")
	}
	if len(b.Addresses) != len(b.Amounts) {
		return fmt.Errorf("batch has %d addresses but %d amounts", len(b.Addresses), len(b.Amounts))
	}
	return nil
}

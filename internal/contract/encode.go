package contract

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/sha3"
)

// EncodeCall builds calldata for a function with static arguments
// (address, uintN/intN, bool, bytes32): 4-byte selector + 32-byte words.
// Dynamic arguments (arrays, string, bytes) go through Disperser instead.
func EncodeCall(abi []ABIEntry, funcName string, args ...string) (string, error) {
	fn := FindFunction(abi, funcName)
	if fn == nil {
		return "", fmt.Errorf("function %q not found in ABI", funcName)
	}
	if len(args) != len(fn.Inputs) {
		return "", fmt.Errorf("%s expects %d argument(s), got %d", funcName, len(fn.Inputs), len(args))
	}
	return encodeCall(fn, args)
}

// encodeCall builds calldata: 4-byte selector + encoded args.
func encodeCall(fn *ABIEntry, args []string) (string, error) {
	var encoded strings.Builder
	encoded.WriteString(FunctionSelector(fn))

	for i, param := range fn.Inputs {
		var argStr string
		if i < len(args) {
			argStr = args[i]
		}
		enc, err := encodeParam(param.Type, argStr)
		if err != nil {
			return "", fmt.Errorf("encoding param %s: %w", param.Name, err)
		}
		encoded.WriteString(enc)
	}

	return encoded.String(), nil
}

// Signature returns the canonical signature, e.g. "approve(address,uint256)".
func Signature(fn *ABIEntry) string {
	types := make([]string, len(fn.Inputs))
	for i, p := range fn.Inputs {
		types[i] = p.Type
	}
	return fn.Name + "(" + strings.Join(types, ",") + ")"
}

// FunctionSelector computes the 0x-prefixed 4-byte selector for a function.
func FunctionSelector(fn *ABIEntry) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(Signature(fn)))
	return "0x" + hex.EncodeToString(h.Sum(nil)[:4])
}

// encodeParam encodes a single static ABI parameter as a 32-byte hex word.
func encodeParam(typ, val string) (string, error) {
	switch {
	case typ == "address":
		v := strings.TrimPrefix(strings.TrimPrefix(val, "0x"), "0X")
		if len(v) != 40 {
			return "", fmt.Errorf("invalid address: %s", val)
		}
		if _, err := hex.DecodeString(v); err != nil {
			return "", fmt.Errorf("invalid address: %s", val)
		}
		return fmt.Sprintf("%064s", strings.ToLower(v)), nil

	case strings.HasPrefix(typ, "uint"):
		n := new(big.Int)
		if _, ok := n.SetString(val, 0); !ok || n.Sign() < 0 {
			return "", fmt.Errorf("invalid unsigned integer: %s", val)
		}
		if n.BitLen() > 256 {
			return "", fmt.Errorf("integer overflows 256 bits: %s", val)
		}
		return fmt.Sprintf("%064x", n), nil

	case typ == "bool":
		if val == "true" || val == "1" {
			return fmt.Sprintf("%064d", 1), nil
		}
		return fmt.Sprintf("%064d", 0), nil

	case typ == "bytes32":
		v := strings.TrimPrefix(val, "0x")
		padded := fmt.Sprintf("%-64s", v)
		return strings.ReplaceAll(padded[:64], " ", "0"), nil

	default:
		return "", fmt.Errorf("type %s is not supported for static encoding", typ)
	}
}

// decodeResult decodes the raw hex result into string values.
func decodeResult(fn *ABIEntry, hexData string) ([]string, error) {
	data, err := hex.DecodeString(strings.TrimPrefix(hexData, "0x"))
	if err != nil {
		return nil, fmt.Errorf("decoding hex result: %w", err)
	}

	if len(fn.Outputs) == 0 {
		return nil, nil
	}
	if len(data) < 32*len(fn.Outputs) {
		return nil, fmt.Errorf("short result for %s: %d bytes", fn.Name, len(data))
	}

	results := make([]string, 0, len(fn.Outputs))
	for i, out := range fn.Outputs {
		word := data[i*32 : (i+1)*32]
		results = append(results, decodeWord(out.Type, word, data))
	}
	return results, nil
}

func decodeWord(typ string, word []byte, fullData []byte) string {
	switch {
	case typ == "address":
		return "0x" + hex.EncodeToString(word[12:])

	case strings.HasPrefix(typ, "uint") || strings.HasPrefix(typ, "int"):
		return new(big.Int).SetBytes(word).String()

	case typ == "bool":
		if word[31] == 1 {
			return "true"
		}
		return "false"

	case typ == "string":
		// offset word → length word → bytes
		offset := new(big.Int).SetBytes(word).Uint64()
		if offset+32 > uint64(len(fullData)) {
			return ""
		}
		length := new(big.Int).SetBytes(fullData[offset : offset+32]).Uint64()
		start := offset + 32
		if start+length > uint64(len(fullData)) {
			return ""
		}
		return string(fullData[start : start+length])

	default:
		return "0x" + hex.EncodeToString(word)
	}
}

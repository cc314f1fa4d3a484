package contract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// ABIEntry is a single function, event or error in a contract ABI.
type ABIEntry struct {
	Name            string     `json:"name"`
	Type            string     `json:"type"`
	Inputs          []ABIParam `json:"inputs"`
	Outputs         []ABIParam `json:"outputs"`
	StateMutability string     `json:"stateMutability"`
}

// ABIParam is a parameter in an ABI entry.
type ABIParam struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	InternalType string `json:"internalType,omitempty"`
}

// IsReadFunction returns true if the function is read-only (view/pure).
func (e ABIEntry) IsReadFunction() bool {
	return e.Type == "function" &&
		(e.StateMutability == "view" || e.StateMutability == "pure")
}

// IsWriteFunction returns true if the function modifies state.
func (e ABIEntry) IsWriteFunction() bool {
	return e.Type == "function" &&
		(e.StateMutability == "nonpayable" || e.StateMutability == "payable")
}

// IsPayable reports whether the function accepts a native value.
func (e ABIEntry) IsPayable() bool {
	return e.Type == "function" && e.StateMutability == "payable"
}

// FindFunction returns the function entry named name, or nil.
func FindFunction(abi []ABIEntry, name string) *ABIEntry {
	for i := range abi {
		if abi[i].Type == "function" && abi[i].Name == name {
			return &abi[i]
		}
	}
	return nil
}

// ParseABI decodes a JSON ABI array. Hardhat/Foundry artifacts with an "abi"
// key are accepted too.
func ParseABI(data []byte) ([]ABIEntry, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var artifact struct {
			ABI []ABIEntry `json:"abi"`
		}
		if err := json.Unmarshal(data, &artifact); err != nil || artifact.ABI == nil {
			return nil, fmt.Errorf("JSON object has no \"abi\" key")
		}
		return artifact.ABI, nil
	}
	var abi []ABIEntry
	if err := json.Unmarshal(data, &abi); err != nil {
		return nil, fmt.Errorf("invalid ABI JSON: expected an array of function/event definitions: %w", err)
	}
	return abi, nil
}

// LoadABIFile reads and parses an ABI file.
func LoadABIFile(path string) ([]ABIEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ABI file: %w", err)
	}
	return ParseABI(data)
}

// RequireFunctions returns an error naming the first function missing from abi.
func RequireFunctions(abi []ABIEntry, names ...string) error {
	for _, n := range names {
		if FindFunction(abi, n) == nil {
			return fmt.Errorf("ABI has no %q function", n)
		}
	}
	return nil
}

package contract

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// BuiltinKind is a contract interface whose ABI ships in the binary. A
// user-supplied ABI may replace it as long as it still has every function
// in Requires.
type BuiltinKind struct {
	ID          string // "disperse", "erc20"
	Name        string
	Description string // shown by `multisender abi list`
	Requires    []string
	ABI         []ABIEntry
}

var builtinRegistry = map[string]BuiltinKind{}

// RegisterBuiltin adds a built-in ABI. It panics if the ABI lacks one of its
// own required functions, so a broken bundle fails at start-up.
func RegisterBuiltin(b BuiltinKind) {
	if err := RequireFunctions(b.ABI, b.Requires...); err != nil {
		panic(fmt.Sprintf("contract: built-in %s: %v", b.ID, err))
	}
	builtinRegistry[b.ID] = b
}

// GetBuiltin returns a built-in by ID.
func GetBuiltin(id string) (BuiltinKind, bool) {
	b, ok := builtinRegistry[id]
	return b, ok
}

// GetBuiltinABI returns the ABI of a built-in, or nil if id is unknown.
func GetBuiltinABI(id string) []ABIEntry {
	return builtinRegistry[id].ABI
}

// AllBuiltins returns all registered built-ins sorted by ID.
func AllBuiltins() []BuiltinKind {
	out := lo.Values(builtinRegistry)
	slices.SortFunc(out, func(a, b BuiltinKind) int { return strings.Compare(a.ID, b.ID) })
	return out
}

// ResolveABI returns override when it is set and carries every function the
// built-in id requires, otherwise the built-in ABI itself.
func ResolveABI(id string, override []ABIEntry) ([]ABIEntry, error) {
	b, ok := builtinRegistry[id]
	if !ok {
		return nil, fmt.Errorf("unknown built-in ABI %q", id)
	}
	if len(override) == 0 {
		return b.ABI, nil
	}
	if err := RequireFunctions(override, b.Requires...); err != nil {
		return nil, fmt.Errorf("%s ABI: %w", id, err)
	}
	return override, nil
}

// MarshalABI renders entries back to JSON, as accepted by go-ethereum's abi.JSON.
func MarshalABI(entries []ABIEntry) ([]byte, error) {
	return json.Marshal(entries)
}

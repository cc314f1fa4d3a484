package contract

import (
	"fmt"
	"math/big"
	"strconv"
)

// CallClient executes eth_call. *chain.EVMClient satisfies it.
type CallClient interface {
	CallContract(toAddr, calldata string) (string, error)
}

// Caller calls read-only (view/pure) contract functions.
type Caller struct {
	client CallClient
	abi    []ABIEntry
}

// NewCaller creates a Caller for the given ABI.
func NewCaller(client CallClient, abi []ABIEntry) *Caller {
	return &Caller{client: client, abi: abi}
}

// Call calls a read function on a contract and returns decoded results as strings.
func (c *Caller) Call(contractAddr, funcName string, args ...string) ([]string, error) {
	fn := FindFunction(c.abi, funcName)
	if fn == nil {
		return nil, fmt.Errorf("function %q not found in ABI", funcName)
	}
	if !fn.IsReadFunction() {
		return nil, fmt.Errorf("function %q is not a read function (stateMutability: %s)", funcName, fn.StateMutability)
	}

	calldata, err := encodeCall(fn, args)
	if err != nil {
		return nil, fmt.Errorf("encoding call: %w", err)
	}

	result, err := c.client.CallContract(contractAddr, calldata)
	if err != nil {
		return nil, fmt.Errorf("contract call %s failed: %w", funcName, err)
	}

	decoded, err := decodeResult(fn, result)
	if err != nil {
		return nil, fmt.Errorf("decoding %s result: %w", funcName, err)
	}
	return decoded, nil
}

// --- ERC-20 helpers ---

// Token wraps a Caller bound to one ERC-20 contract.
type Token struct {
	Address string
	caller  *Caller
}

// NewToken binds an ERC-20 ABI caller to a token address.
func NewToken(client CallClient, abi []ABIEntry, address string) *Token {
	if abi == nil {
		abi = GetBuiltinABI(BuiltinERC20)
	}
	return &Token{Address: address, caller: NewCaller(client, abi)}
}

// Decimals reads decimals().
func (t *Token) Decimals() (int32, error) {
	out, err := t.caller.Call(t.Address, "decimals")
	if err != nil {
		return 0, err
	}
	d, err := strconv.ParseInt(out[0], 10, 32)
	if err != nil || d < 0 || d > 77 {
		return 0, fmt.Errorf("token %s returned invalid decimals %q", t.Address, out[0])
	}
	return int32(d), nil
}

// Symbol reads symbol(). Tokens returning bytes32 or nothing yield "".
func (t *Token) Symbol() string {
	out, err := t.caller.Call(t.Address, "symbol")
	if err != nil || len(out) == 0 {
		return ""
	}
	return out[0]
}

// BalanceOf reads balanceOf(owner).
func (t *Token) BalanceOf(owner string) (*big.Int, error) {
	return t.uint256("balanceOf", owner)
}

// Allowance reads allowance(owner, spender).
func (t *Token) Allowance(owner, spender string) (*big.Int, error) {
	return t.uint256("allowance", owner, spender)
}

func (t *Token) uint256(fn string, args ...string) (*big.Int, error) {
	out, err := t.caller.Call(t.Address, fn, args...)
	if err != nil {
		return nil, err
	}
	n, ok := new(big.Int).SetString(out[0], 10)
	if !ok {
		return nil, fmt.Errorf("%s: could not parse %q", fn, out[0])
	}
	return n, nil
}

// ApproveCalldata encodes approve(spender, amount) with the token ABI.
func (t *Token) ApproveCalldata(spender string, amount *big.Int) (string, error) {
	return EncodeCall(t.caller.abi, "approve", spender, amount.String())
}

package contract

// ERC-20 function selectors used on the disperse path:
//
//	symbol()            → 0x95d89b41
//	decimals()          → 0x313ce567
//	balanceOf(address)  → 0x70a08231
//	allowance(a,a)      → 0xdd62ed3e
//	approve(a,u256)     → 0x095ea7b3
func init() {
	RegisterBuiltin(BuiltinKind{
		ID:          BuiltinERC20,
		Name:        "ERC-20 Standard Token",
		Description: "Token read calls (decimals, balanceOf, allowance) and approve before disperseToken.",
		Requires:    []string{"decimals", "balanceOf", "allowance", "approve"},
		ABI:         erc20ABI,
	})
}

// BuiltinERC20 is the registry ID of the ERC-20 ABI.
const BuiltinERC20 = "erc20"

var erc20ABI = []ABIEntry{
	{
		Name: "name", Type: "function",
		Outputs:         []ABIParam{{Type: "string"}},
		StateMutability: "view",
	},
	{
		Name: "symbol", Type: "function",
		Outputs:         []ABIParam{{Type: "string"}},
		StateMutability: "view",
	},
	{
		Name: "decimals", Type: "function",
		Outputs:         []ABIParam{{Type: "uint8"}},
		StateMutability: "view",
	},
	{
		Name: "balanceOf", Type: "function",
		Inputs:          []ABIParam{{Name: "account", Type: "address"}},
		Outputs:         []ABIParam{{Type: "uint256"}},
		StateMutability: "view",
	},
	{
		Name: "allowance", Type: "function",
		Inputs:          []ABIParam{{Name: "owner", Type: "address"}, {Name: "spender", Type: "address"}},
		Outputs:         []ABIParam{{Type: "uint256"}},
		StateMutability: "view",
	},
	{
		Name: "approve", Type: "function",
		Inputs:          []ABIParam{{Name: "spender", Type: "address"}, {Name: "value", Type: "uint256"}},
		Outputs:         []ABIParam{{Type: "bool"}},
		StateMutability: "nonpayable",
	},
	{
		Name: "transfer", Type: "function",
		Inputs:          []ABIParam{{Name: "to", Type: "address"}, {Name: "value", Type: "uint256"}},
		Outputs:         []ABIParam{{Type: "bool"}},
		StateMutability: "nonpayable",
	},
	{
		Name:   "Approval",
		Type:   "event",
		Inputs: []ABIParam{{Name: "owner", Type: "address"}, {Name: "spender", Type: "address"}, {Name: "value", Type: "uint256"}},
	},
}

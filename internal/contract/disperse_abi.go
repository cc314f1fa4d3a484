package contract

// BuiltinDisperse is the registry ID of the disperse contract ABI.
const BuiltinDisperse = "disperse"

// disperseABIJSON is the interface of the deployed disperse contract.
//
//	disperseNative(address[],uint256[])               payable, msg.value = sum(values)
//	disperseToken(address,address[],uint256[])        pulls sum(values) via transferFrom, then fans out
//	disperseTokenSimple(address,address[],uint256[])  transferFrom per recipient
const disperseABIJSON = `[
  {"type":"error","name":"SafeERC20FailedOperation","inputs":[{"internalType":"address","name":"token","type":"address"}]},
  {"type":"function","name":"disperseNative","stateMutability":"payable","outputs":[],
   "inputs":[{"internalType":"address[]","name":"recipients","type":"address[]"},
             {"internalType":"uint256[]","name":"values","type":"uint256[]"}]},
  {"type":"function","name":"disperseToken","stateMutability":"nonpayable","outputs":[],
   "inputs":[{"internalType":"contract IERC20","name":"token","type":"address"},
             {"internalType":"address[]","name":"recipients","type":"address[]"},
             {"internalType":"uint256[]","name":"values","type":"uint256[]"}]},
  {"type":"function","name":"disperseTokenSimple","stateMutability":"nonpayable","outputs":[],
   "inputs":[{"internalType":"contract IERC20","name":"token","type":"address"},
             {"internalType":"address[]","name":"recipients","type":"address[]"},
             {"internalType":"uint256[]","name":"values","type":"uint256[]"}]}
]`

func init() {
	abi, err := ParseABI([]byte(disperseABIJSON))
	if err != nil {
		panic("contract: invalid built-in disperse ABI: " + err.Error())
	}
	RegisterBuiltin(BuiltinKind{
		ID:          BuiltinDisperse,
		Name:        "Disperse (native + ERC-20 multisend)",
		Description: "disperseNative / disperseToken / disperseTokenSimple fan-out in one transaction.",
		Requires:    []string{MethodDisperseNative, MethodDisperseToken},
		ABI:         abi,
	})
}

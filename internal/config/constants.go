package config

import "time"

// Gas limits used as EstimateGas fallbacks when the node cannot simulate the tx.
// These are conservative upper bounds; actual gas used will be lower.
const (
	GasLimitApprove         = uint64(80_000)     // ERC-20 approve
	GasLimitDisperseBase    = uint64(60_000)     // disperse call overhead, incl. transferFrom into the contract
	GasLimitPerRecipient    = uint64(40_000)     // one token transfer inside a disperse call
	GasLimitNativeRecipient = uint64(35_000)     // one native send inside disperseNative
	GasLimitMax             = uint64(30_000_000) // cap for very large batches
)

// Timeout constants used across cmd and the disperse workflow.
const (
	RPCSelectTimeout = 10 * time.Second // RPC probing / selection
	TxConfirmTimeout = 3 * time.Minute  // standard transaction confirmation wait
)

// DisperseGasFallback is the gas limit used when estimation fails for a batch of n.
func DisperseGasFallback(n int, native bool) uint64 {
	per := GasLimitPerRecipient
	if native {
		per = GasLimitNativeRecipient
	}
	gas := GasLimitDisperseBase + uint64(n)*per
	if gas > GasLimitMax {
		return GasLimitMax
	}
	return gas
}

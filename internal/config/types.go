package config

// Config holds all multisender configuration.
type Config struct {
	DefaultNetwork string              `json:"default_network"`
	DefaultWallet  string              `json:"default_wallet"`
	NetworkMode    string              `json:"network_mode"`  // "mainnet" | "testnet"
	RPCAlgorithm   string              `json:"rpc_algorithm"` // "fastest" | "failover"
	CustomRPCs     map[string][]string `json:"custom_rpcs"`
	// Contracts maps a network key (see contractKey) to the disperse contract address.
	Contracts       map[string]string `json:"contracts"`
	DisperseABIFile string            `json:"disperse_abi_file,omitempty"`

	// Environment overrides, never written to disk.
	envContract string
	envERC20ABI string

	// internal: config dir path used for Save()
	configDir string
}

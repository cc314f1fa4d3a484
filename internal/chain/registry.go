package chain

import (
	"errors"
	"strings"
)

// ErrChainNotFound is returned when a chain is not in the registry.
var ErrChainNotFound = errors.New("chain not found")

// Chain holds all metadata for a single EVM chain.
type Chain struct {
	Name            string   `json:"name"`
	DisplayName     string   `json:"display_name"`
	ChainID         int64    `json:"chain_id"`
	TestnetChainID  int64    `json:"testnet_chain_id"`
	NativeCurrency  string   `json:"native_currency"`
	NativeDecimals  int32    `json:"native_decimals"`
	MainnetRPCs     []string `json:"mainnet_rpcs"`
	TestnetRPCs     []string `json:"testnet_rpcs"`
	MainnetExplorer string   `json:"mainnet_explorer"`
	TestnetExplorer string   `json:"testnet_explorer"`
	TestnetName     string   `json:"testnet_name"`
}

// Registry is the chain registry.
type Registry struct {
	chains []Chain
	byName map[string]*Chain
	byID   map[int64]*Chain
}

// NewRegistry creates the registry of supported chains.
func NewRegistry() *Registry {
	chains := allChains()
	r := &Registry{
		chains: chains,
		byName: make(map[string]*Chain, len(chains)),
		byID:   make(map[int64]*Chain, 2*len(chains)),
	}
	for i := range r.chains {
		c := &r.chains[i]
		r.byName[c.Name] = c
		r.byID[c.ChainID] = c
		if c.TestnetChainID != 0 {
			r.byID[c.TestnetChainID] = c
		}
	}
	return r
}

// All returns every chain in the registry.
func (r *Registry) All() []Chain {
	return r.chains
}

// GetByName finds a chain by its slug name (e.g. "somnia", "base").
func (r *Registry) GetByName(name string) (*Chain, error) {
	c, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, ErrChainNotFound
	}
	return c, nil
}

// GetByChainID finds a chain by mainnet or testnet chain ID.
func (r *Registry) GetByChainID(id int64) (*Chain, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, ErrChainNotFound
	}
	return c, nil
}

// ID returns the chain ID for the given mode ("mainnet"/"testnet").
func (c *Chain) ID(mode string) int64 {
	if mode == "testnet" && c.TestnetChainID != 0 {
		return c.TestnetChainID
	}
	return c.ChainID
}

// RPCs returns the RPC list for a chain in the given mode.
func (c *Chain) RPCs(mode string) []string {
	if mode == "testnet" {
		return c.TestnetRPCs
	}
	return c.MainnetRPCs
}

// Explorer returns the explorer URL for a chain in the given mode.
func (c *Chain) Explorer(mode string) string {
	if mode == "testnet" {
		return c.TestnetExplorer
	}
	return c.MainnetExplorer
}

// TxURL links a transaction hash on the mode's explorer.
func (c *Chain) TxURL(mode, hash string) string {
	base := strings.TrimRight(c.Explorer(mode), "/")
	if base == "" {
		return ""
	}
	return base + "/tx/" + hash
}

// NetworkLabel is the display name qualified by mode, e.g. "Somnia Shannon".
func (c *Chain) NetworkLabel(mode string) string {
	if mode == "testnet" && c.TestnetName != "" {
		return c.DisplayName + " " + c.TestnetName
	}
	return c.DisplayName
}

// --- chain data ---

func allChains() []Chain {
	return []Chain{
		{
			Name: "somnia", DisplayName: "Somnia", ChainID: 5031, TestnetChainID: 50312,
			NativeCurrency: "SOMI", NativeDecimals: 18,
			MainnetRPCs:     []string{"https://api.infra.mainnet.somnia.network/"},
			TestnetRPCs:     []string{"https://dream-rpc.somnia.network"},
			MainnetExplorer: "https://explorer.somnia.network",
			TestnetExplorer: "https://shannon-explorer.somnia.network",
			TestnetName:     "Shannon",
		},
		{
			Name: "ethereum", DisplayName: "Ethereum", ChainID: 1, TestnetChainID: 11155111,
			NativeCurrency: "ETH", NativeDecimals: 18,
			MainnetRPCs:     []string{"https://eth.llamarpc.com", "https://ethereum-rpc.publicnode.com"},
			TestnetRPCs:     []string{"https://ethereum-sepolia-rpc.publicnode.com", "https://sepolia.gateway.tenderly.co"},
			MainnetExplorer: "https://etherscan.io",
			TestnetExplorer: "https://sepolia.etherscan.io",
			TestnetName:     "Sepolia",
		},
		{
			Name: "base", DisplayName: "Base", ChainID: 8453, TestnetChainID: 84532,
			NativeCurrency: "ETH", NativeDecimals: 18,
			MainnetRPCs:     []string{"https://mainnet.base.org", "https://base.llamarpc.com"},
			TestnetRPCs:     []string{"https://sepolia.base.org"},
			MainnetExplorer: "https://basescan.org",
			TestnetExplorer: "https://sepolia.basescan.org",
			TestnetName:     "Base Sepolia",
		},
	}
}

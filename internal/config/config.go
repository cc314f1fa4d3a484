package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

const (
	defaultNetwork   = "somnia"
	defaultMode      = "mainnet"
	defaultAlgorithm = "fastest"

	configFile = "config.json"
	configDir  = ".multisender"
)

// Environment variables read on Load.
const (
	EnvConfigDir       = "MULTISENDER_CONFIG_DIR"
	EnvContractAddress = "MULTISENDER_CONTRACT_ADDRESS"
	EnvERC20ABI        = "MULTISENDER_ERC20_ABI"
	EnvNetwork         = "MULTISENDER_NETWORK"
	EnvMode            = "MULTISENDER_MODE"
)

var (
	// ErrContractNotConfigured is returned when no disperse contract is set for a network.
	ErrContractNotConfigured = errors.New("disperse contract address not configured")
	// ErrInvalidAddress is returned for a malformed contract address.
	ErrInvalidAddress = errors.New("invalid contract address")
)

// Load reads config from dir (or creates defaults). An empty dir uses
// $MULTISENDER_CONFIG_DIR, then ~/.multisender. Environment overrides are
// applied after the file is read.
func Load(dir string) (*Config, error) {
	if dir == "" {
		dir = os.Getenv(EnvConfigDir)
	}
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, configDir)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	data, err := os.ReadFile(filepath.Join(dir, configFile))
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg.configDir = dir
	if cfg.CustomRPCs == nil {
		cfg.CustomRPCs = make(map[string][]string)
	}
	if cfg.Contracts == nil {
		cfg.Contracts = make(map[string]string)
	}
	cfg.applyEnv()
	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// AddRPC adds a custom RPC URL for a chain.
func (c *Config) AddRPC(chain, url string) error {
	if c.CustomRPCs == nil {
		c.CustomRPCs = make(map[string][]string)
	}
	if slices.Contains(c.CustomRPCs[chain], url) {
		return fmt.Errorf("RPC %s already exists for chain %s", url, chain)
	}
	c.CustomRPCs[chain] = append(c.CustomRPCs[chain], url)
	return nil
}

// RemoveRPC removes a custom RPC URL for a chain.
func (c *Config) RemoveRPC(chain, url string) error {
	rpcs := c.CustomRPCs[chain]
	idx := slices.Index(rpcs, url)
	if idx == -1 {
		return fmt.Errorf("RPC %s not found for chain %s", url, chain)
	}
	c.CustomRPCs[chain] = slices.Delete(rpcs, idx, idx+1)
	return nil
}

// GetRPCs returns custom RPCs for a chain.
func (c *Config) GetRPCs(chain string) []string {
	return c.CustomRPCs[chain]
}

// SetContract stores the disperse contract for chain in the current network mode.
func (c *Config) SetContract(chain, address string) error {
	if !common.IsHexAddress(address) {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	if c.Contracts == nil {
		c.Contracts = make(map[string]string)
	}
	c.Contracts[contractKey(chain, c.NetworkMode)] = common.HexToAddress(address).Hex()
	return nil
}

// ContractFor returns the disperse contract for chain in the current network
// mode. MULTISENDER_CONTRACT_ADDRESS wins over the stored value.
func (c *Config) ContractFor(chain string) (common.Address, error) {
	addr := c.envContract
	if addr == "" {
		addr = c.Contracts[contractKey(chain, c.NetworkMode)]
	}
	if addr == "" {
		return common.Address{}, fmt.Errorf("%w for %s (%s): run `multisender config set-contract <address>` or set %s",
			ErrContractNotConfigured, chain, c.NetworkMode, EnvContractAddress)
	}
	if !common.IsHexAddress(addr) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
	}
	return common.HexToAddress(addr), nil
}

// ERC20ABIOverride returns the ERC-20 ABI JSON from the environment, or "".
func (c *Config) ERC20ABIOverride() string {
	return c.envERC20ABI
}

// ContractFromEnv reports whether the contract address comes from the environment.
func (c *Config) ContractFromEnv() bool {
	return c.envContract != ""
}

// --- helpers ---

func defaults(dir string) *Config {
	return &Config{
		DefaultNetwork: defaultNetwork,
		NetworkMode:    defaultMode,
		RPCAlgorithm:   defaultAlgorithm,
		CustomRPCs:     make(map[string][]string),
		Contracts:      make(map[string]string),
		configDir:      dir,
	}
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvNetwork)); v != "" {
		c.DefaultNetwork = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvMode)); v == "mainnet" || v == "testnet" {
		c.NetworkMode = v
	}
	c.envContract = strings.TrimSpace(os.Getenv(EnvContractAddress))
	c.envERC20ABI = strings.TrimSpace(os.Getenv(EnvERC20ABI))
}

// contractKey is "<chain>" on mainnet and "<chain>:testnet" on testnet.
func contractKey(chain, mode string) string {
	chain = strings.ToLower(chain)
	if mode == "testnet" {
		return chain + ":testnet"
	}
	return chain
}

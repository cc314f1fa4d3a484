package cmd

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Mohsinsiddi/multisender/internal/chain"
	"github.com/Mohsinsiddi/multisender/internal/config"
	"github.com/Mohsinsiddi/multisender/internal/contract"
	"github.com/Mohsinsiddi/multisender/internal/rpc"
	"github.com/Mohsinsiddi/multisender/internal/ui"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:     "show",
	Aliases: []string{"list"},
	Short:   "Show current configuration",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(ui.KeyValueBlock("Current Configuration", configRows(cfg)))
		fmt.Println(ui.Meta("Config directory: " + cfg.Dir()))
		return nil
	},
}

func configRows(c *config.Config) [][2]string {
	wallet := c.DefaultWallet
	if wallet == "" {
		wallet = ui.Meta("(not set)")
	}
	rows := [][2]string{
		{"Network", c.DefaultNetwork},
		{"Mode", c.NetworkMode},
		{"Wallet", wallet},
		{"RPC algorithm", c.RPCAlgorithm},
	}

	contractAddr := ui.Meta("(not set)")
	if addr, err := c.ContractFor(c.DefaultNetwork); err == nil {
		contractAddr = ui.Addr(addr.Hex())
		if c.ContractFromEnv() {
			contractAddr += ui.Meta("  (from " + config.EnvContractAddress + ")")
		}
	}
	rows = append(rows, [2]string{"Disperse contract", contractAddr})

	if c.DisperseABIFile != "" {
		rows = append(rows, [2]string{"Disperse ABI", c.DisperseABIFile})
	}
	if c.ERC20ABIOverride() != "" {
		rows = append(rows, [2]string{"ERC-20 ABI", ui.Meta("from " + config.EnvERC20ABI)})
	}

	chains := make([]string, 0, len(c.CustomRPCs))
	for name, urls := range c.CustomRPCs {
		if len(urls) > 0 {
			chains = append(chains, name)
		}
	}
	sort.Strings(chains)
	for _, name := range chains {
		rows = append(rows, [2]string{"RPC " + name, strings.Join(c.CustomRPCs[name], ", ")})
	}
	return rows
}

var configSetContractCmd = &cobra.Command{
	Use:   "set-contract <address>",
	Short: "Set the disperse contract for the current network and mode",
	Long: `Store the disperse contract address used by disperse, allowance and approve.

Addresses are kept per network and mode, so mainnet and testnet can point
at different deployments. $MULTISENDER_CONTRACT_ADDRESS overrides it.

Examples:
  multisender config set-contract 0xD152f549545093347A162Dce210e7293f1452150
  multisender config set-contract 0xABC... --testnet`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.SetContract(cfg.DefaultNetwork, args[0]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		addr, _ := cfg.ContractFor(cfg.DefaultNetwork)
		fmt.Println(ui.Success(fmt.Sprintf("Disperse contract for %s (%s) set to %s",
			ui.ChainName(cfg.DefaultNetwork), cfg.NetworkMode, ui.Addr(addr.Hex()))))
		if cfg.ContractFromEnv() {
			fmt.Println(ui.Warn(config.EnvContractAddress + " is set and takes precedence."))
		}
		return nil
	},
}

var configSetRPCCmd = &cobra.Command{
	Use:   "set-rpc <chain> <url>",
	Short: "Add a custom RPC for a chain (tried before the built-in ones)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		chainName, url := strings.ToLower(args[0]), args[1]
		if _, err := chain.NewRegistry().GetByName(chainName); err != nil {
			return fmt.Errorf("%w: %q", err, chainName)
		}
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			return fmt.Errorf("RPC URL must start with http:// or https://")
		}
		if err := cfg.AddRPC(chainName, url); err != nil {
			// Already exists, not fatal.
			fmt.Println(ui.Warn(err.Error()))
			return nil
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("RPC for %s added: %s", chainName, url)))
		return nil
	},
}

var configRemoveRPCCmd = &cobra.Command{
	Use:   "remove-rpc <chain> <url>",
	Short: "Remove a custom RPC",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		chainName := strings.ToLower(args[0])
		if err := cfg.RemoveRPC(chainName, args[1]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("RPC removed from %s", chainName)))
		return nil
	},
}

var configSetModeCmd = &cobra.Command{
	Use:       "set-mode <mainnet|testnet>",
	Short:     "Persist the network mode",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"mainnet", "testnet"},
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := strings.ToLower(args[0])
		if mode != "mainnet" && mode != "testnet" {
			return fmt.Errorf("mode must be mainnet or testnet, got %q", args[0])
		}
		cfg.NetworkMode = mode
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success("Network mode set to " + mode))
		return nil
	},
}

var configSetAlgorithmCmd = &cobra.Command{
	Use:       "set-algorithm <fastest|failover>",
	Short:     "Choose how an RPC endpoint is selected",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(rpc.AlgorithmFastest), string(rpc.AlgorithmFailover)},
	RunE: func(cmd *cobra.Command, args []string) error {
		algo := strings.ToLower(args[0])
		if algo != string(rpc.AlgorithmFastest) && algo != string(rpc.AlgorithmFailover) {
			return fmt.Errorf("algorithm must be fastest or failover, got %q", args[0])
		}
		cfg.RPCAlgorithm = algo
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success("RPC algorithm set to " + algo))
		return nil
	},
}

var configSetABICmd = &cobra.Command{
	Use:   "set-abi <file|builtin>",
	Short: "Use a custom disperse contract ABI",
	Long: `Point multisender at a JSON ABI for a disperse-compatible contract.
The file must define disperseNative and disperseToken; disperseTokenSimple
is optional.
Pass "builtin" to go back to the bundled ABI.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if args[0] == "builtin" {
			cfg.DisperseABIFile = ""
		} else {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			entries, err := contract.LoadABIFile(path)
			if err != nil {
				return err
			}
			if _, err := contract.NewDisperser(entries); err != nil {
				return err
			}
			cfg.DisperseABIFile = path
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		if cfg.DisperseABIFile == "" {
			fmt.Println(ui.Success("Using the built-in disperse ABI"))
		} else {
			fmt.Println(ui.Success("Disperse ABI set to " + cfg.DisperseABIFile))
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(
		configShowCmd,
		configSetContractCmd,
		configSetRPCCmd,
		configRemoveRPCCmd,
		configSetModeCmd,
		configSetAlgorithmCmd,
		configSetABICmd,
	)
}

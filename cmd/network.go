package cmd

import (
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/multisender/internal/chain"
	"github.com/Mohsinsiddi/multisender/internal/ui"
	"github.com/spf13/cobra"
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Manage networks",
}

var networkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List supported chains",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(networkTable(chain.NewRegistry().All(), cfg.DefaultNetwork))
		fmt.Println(ui.Meta(fmt.Sprintf("current: %s (%s)", cfg.DefaultNetwork, cfg.NetworkMode)))
		return nil
	},
}

func networkTable(chains []chain.Chain, current string) string {
	t := ui.NewTable([]ui.Column{
		{Title: "Name", Width: 12},
		{Title: "Display", Width: 12},
		{Title: "Mainnet ID", Width: 11},
		{Title: "Testnet", Width: 14},
		{Title: "Testnet ID", Width: 11},
		{Title: "Currency", Width: 9},
	})
	for _, c := range chains {
		name := ui.ChainName(c.Name)
		if c.Name == current {
			name += ui.Meta(" *")
		}
		t.AddRow(ui.Row{
			name,
			c.DisplayName,
			fmt.Sprintf("%d", c.ChainID),
			c.TestnetName,
			fmt.Sprintf("%d", c.TestnetChainID),
			c.NativeCurrency,
		})
	}
	return t.Render()
}

var networkUseCmd = &cobra.Command{
	Use:   "use <chain>",
	Short: "Set the default network",
	Long: `Set the default chain and persist it to config.

When combined with --testnet or --mainnet the network mode is also persisted.

Examples:
  multisender network use somnia              # keep current mode
  multisender network use somnia --testnet    # Somnia Shannon testnet`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chainName := strings.ToLower(args[0])
		if _, err := chain.NewRegistry().GetByName(chainName); err != nil {
			return fmt.Errorf("%w: %q; run `multisender network list` to see all chains", err, chainName)
		}

		cfg.DefaultNetwork = chainName
		if err := cfg.Save(); err != nil {
			return err
		}

		fmt.Println(ui.Success(fmt.Sprintf("Default network set to %s (%s)", ui.ChainName(chainName), cfg.NetworkMode)))
		if _, err := cfg.ContractFor(chainName); err != nil {
			fmt.Println(ui.Hint("No disperse contract set for this network yet: multisender config set-contract <address>"))
		}
		return nil
	},
}

func init() {
	networkCmd.AddCommand(networkListCmd, networkUseCmd)
}

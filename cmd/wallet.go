package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/multisender/internal/ui"
	"github.com/Mohsinsiddi/multisender/internal/wallet"
	"github.com/spf13/cobra"
)

var (
	walletKeyFlag string
	walletYes     bool
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage sender wallets",
}

var walletAddCmd = &cobra.Command{
	Use:   "add <name> [address]",
	Short: "Add a signing or watch-only wallet",
	Long: `Add a wallet that can send disperse transactions.

Without an address the private key is read from --key or prompted for
(input hidden) and stored in the OS keychain. With an address the wallet
is watch-only: usable for balance checks and --dry-run previews.

Examples:
  multisender wallet add treasury                 # prompts for the key
  multisender wallet add cold 0xABC...            # watch-only`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		mgr := newWalletManager()

		if len(args) == 2 {
			if walletKeyFlag != "" {
				return fmt.Errorf("pass either an address (watch-only) or --key, not both")
			}
			if err := mgr.AddWatchOnly(name, args[1]); err != nil {
				return err
			}
			w, err := mgr.Get(name)
			if err != nil {
				return err
			}
			fmt.Println(ui.Success(fmt.Sprintf("Watch-only wallet %q added: %s", name, ui.Addr(w.Address))))
			fmt.Println(ui.Hint(fmt.Sprintf("Set as default with: multisender wallet use %s", name)))
			return nil
		}

		key := walletKeyFlag
		if key == "" {
			var err error
			if key, err = wallet.InputSecret("Private key (hex, input hidden)"); err != nil {
				return err
			}
		}
		w, err := mgr.AddWithKey(name, key)
		if err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Signing wallet %q added: %s", name, ui.Addr(w.Address))))
		fmt.Println(ui.Hint(fmt.Sprintf("Set as default with: multisender wallet use %s", name)))
		return nil
	},
}

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all wallets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		wallets, err := newWalletManager().List()
		if err != nil {
			return err
		}

		if len(wallets) == 0 {
			fmt.Println(ui.Info("No wallets configured yet."))
			fmt.Println(ui.Hint("Add one with: multisender wallet add <name>"))
			return nil
		}

		fmt.Println(walletTable(wallets, cfg.DefaultWallet))
		fmt.Println(ui.Meta(fmt.Sprintf("%d wallet(s) configured", len(wallets))))
		return nil
	},
}

func walletTable(wallets []*wallet.Wallet, defaultName string) string {
	t := ui.NewTable([]ui.Column{
		{Title: "Name", Width: 16},
		{Title: "Address", Width: 44},
		{Title: "Type", Width: 12},
		{Title: "Default", Width: 8},
	})
	for _, w := range wallets {
		def := ""
		if w.IsDefault || w.Name == defaultName {
			def = ui.StyleSuccess.Render("✓")
		}
		t.AddRow(ui.Row{
			ui.Val(w.Name),
			ui.Addr(w.Address),
			ui.Meta(walletTypeLabel(w.Type)),
			def,
		})
	}
	return t.Render()
}

var walletRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a wallet and its stored key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		mgr := newWalletManager()
		if _, err := mgr.Get(name); err != nil {
			return err
		}
		if !walletYes && !ui.ConfirmDanger(fmt.Sprintf("Remove wallet %q and delete its key?", name)) {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}
		if err := mgr.Remove(name); err != nil {
			return err
		}
		if cfg.DefaultWallet == name {
			cfg.DefaultWallet = ""
			if err := cfg.Save(); err != nil {
				return err
			}
		}
		fmt.Println(ui.Success(fmt.Sprintf("Wallet %q removed.", name)))
		return nil
	},
}

var walletUseCmd = &cobra.Command{
	Use:   "use [name]",
	Short: "Set the default sender wallet",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newWalletManager()

		var name string
		if len(args) == 1 {
			name = args[0]
		} else {
			wallets, err := mgr.List()
			if err != nil {
				return err
			}
			if len(wallets) == 0 {
				return fmt.Errorf("no wallets configured; add one with `multisender wallet add <name>`")
			}
			items := make([]ui.PickerItem, len(wallets))
			for i, w := range wallets {
				items[i] = ui.PickerItem{
					Label:    w.Name,
					SubLabel: ui.TruncateAddr(w.Address) + "  " + walletTypeLabel(w.Type),
					Value:    w.Name,
					Current:  w.IsDefault || w.Name == cfg.DefaultWallet,
				}
			}
			if name, err = ui.PickItem("Default wallet", items); err != nil {
				return err
			}
			if name == "" {
				fmt.Println(ui.Meta("Cancelled."))
				return nil
			}
		}

		if err := mgr.SetDefault(name); err != nil {
			return err
		}
		cfg.DefaultWallet = name
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Default wallet set to %q.", name)))
		fmt.Println(ui.Hint("This wallet will be used when --wallet is not specified."))
		return nil
	},
}

// walletTypeLabel converts an internal wallet type to a user-friendly label.
func walletTypeLabel(t string) string {
	switch t {
	case wallet.TypeSigning:
		return "signing"
	default:
		return t // "watch-only" is already user-friendly
	}
}

func init() {
	walletAddCmd.Flags().StringVar(&walletKeyFlag, "key", "", "private key for a signing wallet (prompted when omitted)")
	walletRemoveCmd.Flags().BoolVarP(&walletYes, "yes", "y", false, "skip the confirmation prompt")
	walletCmd.AddCommand(walletAddCmd, walletListCmd, walletRemoveCmd, walletUseCmd)
}

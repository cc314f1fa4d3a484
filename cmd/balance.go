package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/multisender/internal/contract"
	"github.com/Mohsinsiddi/multisender/internal/recipient"
	"github.com/Mohsinsiddi/multisender/internal/ui"
	"github.com/spf13/cobra"
)

var (
	balanceWallet string
	balanceToken  string
)

var balanceCmd = &cobra.Command{
	Use:   "balance [wallet-name-or-address]",
	Short: "Check the native or ERC-20 balance of a sender",
	Long: `Check how much a wallet can disperse.

Uses the configured network mode (mainnet/testnet) by default.
Override per-call with --testnet or --mainnet.

Examples:
  multisender balance                        # default wallet, SOMI
  multisender balance treasury --testnet     # named wallet on Somnia testnet
  multisender balance 0xABC... --token 0xUSDC...`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Allow positional arg as shorthand for --wallet.
		if len(args) == 1 && balanceWallet == "" {
			balanceWallet = args[0]
		}
		if balanceToken != "" && !recipient.IsAddress(balanceToken) {
			return fmt.Errorf("invalid token address %q", balanceToken)
		}

		address, err := resolveAddress(newWalletManager(), balanceWallet)
		if err != nil {
			return err
		}

		sess, err := openSession()
		if err != nil {
			return err
		}

		spin := newSpinner(fmt.Sprintf("Fetching balance on %s…", ui.ChainName(sess.label())))
		rows, err := balanceRows(sess, address, balanceToken)
		spin.Stop()
		if err != nil {
			return err
		}

		fmt.Println(ui.KeyValueBlock("Balance on "+sess.label(), rows))
		return nil
	},
}

func balanceRows(sess *session, address, token string) ([][2]string, error) {
	rows := [][2]string{
		{"Address", ui.Addr(address)},
		{"Network", fmt.Sprintf("%s (chain %d)", sess.label(), sess.chain.ID(sess.mode))},
	}

	bal, err := sess.client.GetBalance(address)
	if err != nil {
		return nil, err
	}
	rows = append(rows, [2]string{sess.chain.NativeCurrency, recipient.FormatUnits(bal.Wei, sess.chain.NativeDecimals)})

	if token == "" {
		return rows, nil
	}

	tokenABI, err := erc20ABI()
	if err != nil {
		return nil, err
	}
	t := contract.NewToken(sess.client, tokenABI, token)
	decimals, err := t.Decimals()
	if err != nil {
		return nil, fmt.Errorf("reading token decimals: %w", err)
	}
	raw, err := t.BalanceOf(address)
	if err != nil {
		return nil, fmt.Errorf("reading token balance: %w", err)
	}
	symbol := t.Symbol()
	if symbol == "" {
		symbol = ui.TruncateAddr(token)
	}
	rows = append(rows,
		[2]string{"Token", ui.Addr(token)},
		[2]string{symbol, recipient.FormatUnits(raw, decimals)},
	)
	return rows, nil
}

func init() {
	balanceCmd.Flags().StringVarP(&balanceWallet, "wallet", "w", "", "wallet name or address")
	balanceCmd.Flags().StringVar(&balanceToken, "token", "", "ERC-20 token contract address")
}

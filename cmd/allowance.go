package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/multisender/internal/config"
	"github.com/Mohsinsiddi/multisender/internal/contract"
	"github.com/Mohsinsiddi/multisender/internal/recipient"
	"github.com/Mohsinsiddi/multisender/internal/ui"
	"github.com/Mohsinsiddi/multisender/internal/wallet"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/spf13/cobra"
)

var (
	allowanceToken    string
	allowanceOwner    string
	allowanceContract string

	approveToken    string
	approveAmount   string
	approveMax      bool
	approveWallet   string
	approveContract string
	approveYes      bool
)

var allowanceCmd = &cobra.Command{
	Use:   "allowance",
	Short: "Show how much of a token the disperse contract may spend",
	Long: `Query the ERC-20 allowance an owner has granted the disperse contract.

Examples:
  multisender allowance --token 0xUSDC...
  multisender allowance --token 0xUSDC... --owner treasury --testnet`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !recipient.IsAddress(allowanceToken) {
			return fmt.Errorf("--token must be an ERC-20 contract address")
		}
		owner, err := resolveAddress(newWalletManager(), allowanceOwner)
		if err != nil {
			return err
		}
		spender, err := contractAddress(allowanceContract)
		if err != nil {
			return err
		}

		sess, err := openSession()
		if err != nil {
			return err
		}
		tokenABI, err := erc20ABI()
		if err != nil {
			return err
		}

		spin := newSpinner("Querying allowance…")
		t := contract.NewToken(sess.client, tokenABI, allowanceToken)
		decimals, err := t.Decimals()
		if err != nil {
			spin.Stop()
			return fmt.Errorf("reading token decimals: %w", err)
		}
		allowance, err := t.Allowance(owner, spender.Hex())
		spin.Stop()
		if err != nil {
			return fmt.Errorf("querying allowance: %w", err)
		}

		formatted := recipient.FormatUnits(allowance, decimals)
		if allowance.Cmp(math.MaxBig256) == 0 {
			formatted = "unlimited"
		}
		fmt.Println(ui.KeyValueBlock("ERC-20 Allowance", [][2]string{
			{"Token", ui.Addr(allowanceToken)},
			{"Owner", ui.Addr(owner)},
			{"Spender", ui.Addr(spender.Hex()) + ui.Meta("  (disperse contract)")},
			{"Allowance", ui.Val(formatted)},
			{"Raw", allowance.String()},
			{"Network", sess.label()},
		}))
		return nil
	},
}

var approveCmd = &cobra.Command{
	Use:   "approve",
	Short: "Approve the disperse contract to spend an ERC-20 token",
	Long: `Grant the disperse contract an allowance ahead of a token disperse.

disperse approves automatically when needed; use this to pre-approve a
larger amount once and reuse it across batches.

Examples:
  multisender approve --token 0xUSDC... --amount 1000
  multisender approve --token 0xUSDC... --max --wallet treasury`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !recipient.IsAddress(approveToken) {
			return fmt.Errorf("--token must be an ERC-20 contract address")
		}
		if approveAmount == "" && !approveMax {
			return fmt.Errorf("pass --amount <n> or --max")
		}

		mgr := newWalletManager()
		w, err := resolveWallet(mgr, approveWallet)
		if err != nil {
			return err
		}
		if w.Type != wallet.TypeSigning {
			return fmt.Errorf("%w: %q", wallet.ErrWatchOnly, w.Name)
		}
		spender, err := contractAddress(approveContract)
		if err != nil {
			return err
		}

		sess, err := openSession()
		if err != nil {
			return err
		}
		tokenABI, err := erc20ABI()
		if err != nil {
			return err
		}

		t := contract.NewToken(sess.client, tokenABI, approveToken)
		decimals, err := t.Decimals()
		if err != nil {
			return fmt.Errorf("reading token decimals: %w", err)
		}
		amount := math.MaxBig256
		shown := "unlimited"
		if !approveMax {
			if amount, err = recipient.ToBaseUnits(approveAmount, decimals); err != nil {
				return err
			}
			shown = recipient.FormatUnits(amount, decimals)
		}
		if sym := t.Symbol(); sym != "" {
			shown += " " + sym
		}

		calldata, err := t.ApproveCalldata(spender.Hex(), amount)
		if err != nil {
			return err
		}
		data, err := contract.HexToBytes(calldata)
		if err != nil {
			return err
		}

		fmt.Println(ui.KeyValueBlock("Approve Preview · "+sess.label(), [][2]string{
			{"From", ui.Addr(w.Address)},
			{"Token", ui.Addr(approveToken)},
			{"Spender", ui.Addr(spender.Hex())},
			{"Amount", shown},
		}))
		if !approveYes && !ui.Confirm("Broadcast this approve transaction?") {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}

		signer, err := mgr.Signer(w.Name)
		if err != nil {
			return err
		}
		chainID, err := sess.chainID()
		if err != nil {
			return err
		}

		spin := newSpinner("Broadcasting approve…")
		hash, err := contract.NewSender(sess.client, signer, chainID).Send(contract.Call{
			To:          approveToken,
			Data:        data,
			GasFallback: config.GasLimitApprove,
		})
		if err != nil {
			spin.Stop()
			return err
		}

		spin.Update("Waiting for confirmation of " + ui.TruncateAddr(hash) + "…")
		receipt, err := sess.client.WaitForReceipt(cmd.Context(), hash, config.TxConfirmTimeout)
		spin.Stop()
		if err != nil {
			return fmt.Errorf("tx %s: %w", hash, err)
		}

		fmt.Println()
		fmt.Println(ui.KeyValueBlock("Approve Confirmed ✓", [][2]string{
			{"Hash", ui.Addr(hash)},
			{"Block", fmt.Sprintf("%d", receipt.BlockNumber)},
			{"Gas Used", fmt.Sprintf("%d", receipt.GasUsed)},
			{"Explorer", sess.chain.TxURL(sess.mode, hash)},
		}))
		return nil
	},
}

func init() {
	allowanceCmd.Flags().StringVar(&allowanceToken, "token", "", "ERC-20 token address (required)")
	allowanceCmd.Flags().StringVar(&allowanceOwner, "owner", "", "owner address or wallet name (default: default wallet)")
	allowanceCmd.Flags().StringVar(&allowanceContract, "contract", "", "disperse contract address (default: config)")
	_ = allowanceCmd.MarkFlagRequired("token")

	approveCmd.Flags().StringVar(&approveToken, "token", "", "ERC-20 token address (required)")
	approveCmd.Flags().StringVar(&approveAmount, "amount", "", "amount in token units, e.g. 1000 or 2.5")
	approveCmd.Flags().BoolVar(&approveMax, "max", false, "approve an unlimited allowance")
	approveCmd.Flags().StringVarP(&approveWallet, "wallet", "w", "", "wallet name (default: config)")
	approveCmd.Flags().StringVar(&approveContract, "contract", "", "disperse contract address (default: config)")
	approveCmd.Flags().BoolVarP(&approveYes, "yes", "y", false, "skip the confirmation prompt")
	_ = approveCmd.MarkFlagRequired("token")
	approveCmd.MarkFlagsMutuallyExclusive("amount", "max")
}

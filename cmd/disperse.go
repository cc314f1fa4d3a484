package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Mohsinsiddi/multisender/internal/chain"
	"github.com/Mohsinsiddi/multisender/internal/disperse"
	"github.com/Mohsinsiddi/multisender/internal/recipient"
	"github.com/Mohsinsiddi/multisender/internal/ui"
	"github.com/Mohsinsiddi/multisender/internal/wallet"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const previewRows = 20

var errCancelled = errors.New("cancelled")

var (
	disperseFile       string
	disperseText       string
	disperseTo         []string
	disperseToken      string
	disperseNative     bool
	disperseWallet     string
	disperseContract   string
	disperseApproveMax bool
	disperseSimple     bool
	disperseDryRun     bool
	disperseYes        bool
)

var disperseCmd = &cobra.Command{
	Use:   "disperse",
	Short: "Send native SOMI or an ERC-20 token to many recipients",
	Long: `Validate a recipient list and pay everyone in one disperse transaction.

Every line is checked before anything is sent; one bad line rejects the
whole list. ERC-20 runs approve the disperse contract first when the
current allowance does not cover the total.

Examples:
  multisender disperse --file airdrop.csv --native
  multisender disperse --file airdrop.csv --token 0xUSDC... --approve-max
  multisender disperse --to 0xabc...:1.5 --to 0xdef...:2 --native --testnet
  cat list.txt | multisender disperse --file - --native --dry-run`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := collectRecipients(disperseFile, disperseText, disperseTo, os.Stdin)
		if err != nil {
			return err
		}

		asset, token, err := chooseAsset(disperseNative, disperseToken)
		if err != nil {
			return err
		}

		mgr := newWalletManager()
		w, err := resolveWallet(mgr, disperseWallet)
		if errors.Is(err, errNoWallet) && isTerminal() {
			w, err = pickSender(mgr, disperseDryRun)
		}
		if err != nil {
			return err
		}
		if w.Type != wallet.TypeSigning && !disperseDryRun {
			return fmt.Errorf("%w: %q\n  add a signing wallet with: multisender wallet add <name>", wallet.ErrWatchOnly, w.Name)
		}

		contractAddr, err := contractAddress(disperseContract)
		if err != nil {
			return err
		}

		sess, err := openSession()
		if err != nil {
			return err
		}
		d, err := newDisperser()
		if err != nil {
			return err
		}
		tokenABI, err := erc20ABI()
		if err != nil {
			return err
		}

		planner := disperse.NewPlanner(sess.client, d,
			disperse.WithERC20ABI(tokenABI),
			disperse.WithNativeCurrency(sess.chain.NativeCurrency, sess.chain.NativeDecimals),
		)
		req := disperse.Request{
			Asset:      asset,
			Token:      token,
			Contract:   contractAddr,
			From:       w.Address,
			Recipients: list,
			ApproveMax: disperseApproveMax,
			Simple:     disperseSimple,
		}

		spin := newSpinner("Checking balance, allowance and gas…")
		plan, err := planner.Plan(cmd.Context(), req)
		spin.Stop()
		if err != nil {
			return err
		}

		printPlan(sess, w, plan)

		if disperseDryRun {
			fmt.Println(ui.Info("Dry run: nothing was sent."))
			return nil
		}
		if !disperseYes {
			prompt := fmt.Sprintf("Send %s %s to %d recipients on %s?",
				recipient.FormatUnits(plan.Batch.Total, plan.Decimals), plan.Symbol, plan.Batch.Len(), sess.label())
			if !confirmDisperse(sess.mode, prompt, plan.Batch.Len()) {
				fmt.Println(ui.Meta("Cancelled."))
				return nil
			}
		}

		signer, err := mgr.Signer(w.Name)
		if err != nil {
			return err
		}
		chainID, err := sess.chainID()
		if err != nil {
			return err
		}

		exec := disperse.NewExecutor(sess.client, signer, chainID)
		res, err := runExecute(cmd, exec, plan, sess)
		printResult(sess, plan, res)
		return err
	},
}

// chooseAsset turns --native / --token into a request asset. With neither
// flag an interactive picker asks.
func chooseAsset(native bool, token string) (disperse.Asset, string, error) {
	switch {
	case native && token != "":
		return 0, "", fmt.Errorf("--native and --token are mutually exclusive")
	case native:
		return disperse.AssetNative, "", nil
	case token != "":
		if !recipient.IsAddress(token) {
			return 0, "", fmt.Errorf("invalid token address %q", token)
		}
		return disperse.AssetToken, token, nil
	}

	if !isTerminal() {
		return 0, "", fmt.Errorf("choose what to send with --native or --token <address>")
	}
	choice, err := ui.PickItem("What do you want to send?", []ui.PickerItem{
		{Label: "Native coin", SubLabel: "SOMI on Somnia", Value: "native"},
		{Label: "ERC-20 token", SubLabel: "approve + disperseToken", Value: "token"},
	})
	if err != nil {
		return 0, "", err
	}
	switch choice {
	case "native":
		return disperse.AssetNative, "", nil
	case "token":
		addr := promptLine("Token contract address: ")
		if !recipient.IsAddress(addr) {
			return 0, "", fmt.Errorf("invalid token address %q", addr)
		}
		return disperse.AssetToken, addr, nil
	}
	return 0, "", errCancelled
}

func promptLine(prompt string) string {
	fmt.Print(prompt)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(line)
}

// planSummary lists the key facts of a plan for the confirmation block.
func planSummary(c *chain.Chain, mode, from string, plan *disperse.Plan) [][2]string {
	asset := c.NativeCurrency + " (native)"
	if plan.Request.Asset == disperse.AssetToken {
		asset = plan.Symbol + "  " + plan.Request.Token
	}

	rows := [][2]string{
		{"Network", fmt.Sprintf("%s (chain %d)", c.NetworkLabel(mode), c.ID(mode))},
		{"Contract", plan.Request.Contract.Hex()},
		{"From", from},
		{"Asset", asset},
		{"Method", plan.Method},
		{"Recipients", fmt.Sprintf("%d", plan.Batch.Len())},
		{"Total", recipient.FormatUnits(plan.Batch.Total, plan.Decimals) + " " + plan.Symbol},
		{"Balance", recipient.FormatUnits(plan.Balance, plan.Decimals) + " " + plan.Symbol},
	}

	if plan.Request.Asset == disperse.AssetToken {
		allowance := recipient.FormatUnits(plan.Allowance, plan.Decimals) + " " + plan.Symbol
		rows = append(rows, [2]string{"Allowance", allowance + "  (" + plan.Approval.String() + ")"})
		if plan.Approval == disperse.ApprovalRequired {
			amount := recipient.FormatUnits(plan.ApproveAmount, plan.Decimals) + " " + plan.Symbol
			if plan.Request.ApproveMax {
				amount = "unlimited"
			}
			rows = append(rows, [2]string{"Approve", amount})
		}
	}

	gas := fmt.Sprintf("%d", plan.Gas)
	if !plan.GasEstimated {
		gas += " (fallback)"
	}
	rows = append(rows, [2]string{"Gas limit", gas})
	if plan.GasInfo != nil {
		gwei, _ := plan.GasInfo.GasPriceDisplay()
		rows = append(rows, [2]string{"Gas price", ui.FormatGwei(gwei) + " gwei"})
		rows = append(rows, [2]string{"Max fee", recipient.FormatUnits(plan.NetworkFee(), c.NativeDecimals) + " " + c.NativeCurrency})
	}

	sim := "skipped"
	if plan.Simulated {
		sim = "ok"
	} else if plan.Approval == disperse.ApprovalRequired {
		sim = "after approval"
	}
	rows = append(rows, [2]string{"Simulation", sim})
	return rows
}

func printPlan(sess *session, w *wallet.Wallet, plan *disperse.Plan) {
	fmt.Println(ui.RecipientTable(plan.Batch.Recipients, plan.Symbol, previewRows))
	fmt.Println(ui.KeyValueBlock("Disperse", planSummary(sess.chain, sess.mode, w.Name+"  "+w.Address, plan)))

	if len(plan.Duplicates) > 0 {
		fmt.Println(ui.Warn(fmt.Sprintf("%d address(es) appear more than once and will be paid for every line:", len(plan.Duplicates))))
		for _, d := range plan.Duplicates {
			fmt.Println("    " + ui.Addr(d))
		}
	}
	for _, warn := range plan.Warnings {
		fmt.Println(ui.Warn(warn))
	}
	fmt.Println()
}

// stageStep maps an executor event to a progress row.
func stageStep(ev disperse.Event, withApproval bool) ui.StepMsg {
	disperseIdx := 0
	if withApproval {
		disperseIdx = 1
	}
	switch ev.Stage {
	case disperse.StageApproveSent:
		return ui.StepMsg{Index: 0, Status: ui.StepRunning, Detail: ev.Hash}
	case disperse.StageApproveConfirmed:
		return ui.StepMsg{Index: 0, Status: ui.StepDone, Detail: ev.Hash}
	case disperse.StageDisperseSent:
		return ui.StepMsg{Index: disperseIdx, Status: ui.StepRunning, Detail: ev.Hash}
	default:
		return ui.StepMsg{Index: disperseIdx, Status: ui.StepDone, Detail: ev.Hash}
	}
}

// confirmDisperse asks before broadcasting. On mainnet the user types the
// recipient count back instead of answering y/N.
func confirmDisperse(mode, prompt string, n int) bool {
	if mode == "mainnet" {
		return ui.ConfirmTyped(prompt, strconv.Itoa(n))
	}
	return ui.ConfirmDanger(prompt)
}

func runExecute(cmd *cobra.Command, exec *disperse.Executor, plan *disperse.Plan, sess *session) (*disperse.Result, error) {
	withApproval := plan.Approval == disperse.ApprovalRequired
	labels := []string{plan.Method}
	if withApproval {
		labels = []string{"approve " + plan.Symbol, plan.Method}
	}

	if !isTerminal() || verbose {
		return exec.Execute(cmd.Context(), plan, func(ev disperse.Event) {
			fmt.Println(ui.Meta(ev.Stage.String()+": ") + ui.Addr(ev.Hash))
		})
	}

	var res *disperse.Result
	err := ui.RunProgress("Sending on "+sess.label(), labels, func(update func(ui.StepMsg)) error {
		current := 0
		var err error
		res, err = exec.Execute(cmd.Context(), plan, func(ev disperse.Event) {
			step := stageStep(ev, withApproval)
			current = step.Index
			update(step)
		})
		if err != nil {
			update(ui.StepMsg{Index: current, Status: ui.StepFailed, Detail: ui.TrimErr(err.Error())})
		}
		return err
	})
	return res, err
}

func printResult(sess *session, plan *disperse.Plan, res *disperse.Result) {
	if res == nil {
		return
	}
	if res.ApproveHash != "" {
		fmt.Println(ui.Meta("approve:  ") + ui.Addr(res.ApproveHash))
	}
	if res.DisperseHash == "" {
		return
	}
	fmt.Println(ui.Meta("disperse: ") + ui.Addr(res.DisperseHash))
	if url := sess.chain.TxURL(sess.mode, res.DisperseHash); url != "" {
		fmt.Println(ui.Meta("explorer: ") + url)
	}

	if res.Receipt == nil {
		fmt.Println(ui.Warn("not confirmed yet; check the explorer link above"))
		return
	}
	if res.Receipt.Status == 1 {
		fmt.Println(ui.Success(fmt.Sprintf("Dispersed %s %s to %d recipients (block %d, gas used %d)",
			recipient.FormatUnits(plan.Batch.Total, plan.Decimals), plan.Symbol,
			plan.Batch.Len(), res.Receipt.BlockNumber, res.Receipt.GasUsed)))
		log.WithFields(log.Fields{"tx": res.DisperseHash, "block": res.Receipt.BlockNumber}).Debug("disperse confirmed")
	}
}

func init() {
	f := disperseCmd.Flags()
	f.StringVarP(&disperseFile, "file", "f", "", "CSV recipient file (address,amount[,label]); - reads stdin")
	f.StringVar(&disperseText, "text", "", "recipients as text, one \"address amount\" per line")
	f.StringArrayVar(&disperseTo, "to", nil, "recipient as address:amount (repeatable)")
	f.StringVar(&disperseToken, "token", "", "ERC-20 token contract address")
	f.BoolVar(&disperseNative, "native", false, "send the chain's native coin")
	f.StringVarP(&disperseWallet, "wallet", "w", "", "signing wallet name (default: config)")
	f.StringVar(&disperseContract, "contract", "", "disperse contract address (default: config or $MULTISENDER_CONTRACT_ADDRESS)")
	f.BoolVar(&disperseApproveMax, "approve-max", false, "approve an unlimited allowance instead of the batch total")
	f.BoolVar(&disperseSimple, "simple", false, "use disperseTokenSimple (transferFrom per recipient)")
	f.BoolVar(&disperseDryRun, "dry-run", false, "validate, check and simulate without sending")
	f.BoolVarP(&disperseYes, "yes", "y", false, "skip the confirmation prompt")
	disperseCmd.MarkFlagsMutuallyExclusive("native", "token")
}

package cmd

import (
	"fmt"
	"os"

	"github.com/Mohsinsiddi/multisender/internal/recipient"
	"github.com/Mohsinsiddi/multisender/internal/ui"
	"github.com/spf13/cobra"
)

var (
	validateText     string
	validateTo       []string
	validateDecimals int32
	validateSymbol   string
	validateAll      bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a recipient list without touching the chain",
	Long: `Parse and validate recipients offline and print what would be sent.

Every invalid line is reported with its line number. Exits non-zero when
any line is invalid.

Examples:
  multisender validate airdrop.csv
  multisender validate airdrop.csv --decimals 6 --symbol USDC
  multisender validate --text "0xabc...,1.5"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := ""
		if len(args) == 1 {
			file = args[0]
		}
		list, err := collectRecipients(file, validateText, validateTo, os.Stdin)
		if err != nil {
			return err
		}

		// Amount precision is only known once decimals are; check it when given.
		if cmd.Flags().Changed("decimals") {
			if _, err := recipient.NewBatch(list, validateDecimals); err != nil {
				return err
			}
		}

		limit := previewRows
		if validateAll {
			limit = 0
		}
		fmt.Println(ui.RecipientTable(list, validateSymbol, limit))
		fmt.Println(validateSummary(list, validateSymbol))
		for _, d := range recipient.Duplicates(list) {
			fmt.Println(ui.Warn("duplicate address " + ui.Addr(d) + " (paid once per line)"))
		}
		return nil
	},
}

func validateSummary(list []recipient.Recipient, symbol string) string {
	total := recipient.HumanTotal(list).String()
	if symbol != "" {
		total += " " + symbol
	}
	return ui.Success(fmt.Sprintf("%d recipient(s), total %s", len(list), total))
}

func init() {
	f := validateCmd.Flags()
	f.StringVar(&validateText, "text", "", "recipients as text, one \"address amount\" per line")
	f.StringArrayVar(&validateTo, "to", nil, "recipient as address:amount (repeatable)")
	f.Int32Var(&validateDecimals, "decimals", 18, "token decimals used to check amount precision")
	f.StringVar(&validateSymbol, "symbol", "", "symbol shown next to amounts")
	f.BoolVar(&validateAll, "all", false, "print every recipient instead of the first 20")
}

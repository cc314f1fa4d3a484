package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/Mohsinsiddi/multisender/internal/contract"
	"github.com/Mohsinsiddi/multisender/internal/ui"
	"github.com/spf13/cobra"
)

var abiCmd = &cobra.Command{
	Use:   "abi",
	Short: "Inspect the bundled contract ABIs",
}

var abiListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all bundled contract ABIs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		builtins := contract.AllBuiltins()
		if len(builtins) == 0 {
			fmt.Println(ui.Info("No built-ins registered."))
			return nil
		}

		fmt.Printf("%s\n\n", ui.StyleTitle.Render("Built-in Contract ABIs"))
		fmt.Println(builtinTable(builtins))
		fmt.Println(ui.Hint("Print one with: multisender abi show <id>"))
		return nil
	},
}

func builtinTable(builtins []contract.BuiltinKind) string {
	t := ui.NewTable([]ui.Column{
		{Title: "ID", Width: 10},
		{Title: "Name", Width: 38},
		{Title: "Functions", Width: 10},
		{Title: "Description", Width: 54},
	})
	for _, b := range builtins {
		t.AddRow(ui.Row{
			ui.Val(b.ID),
			b.Name,
			fmt.Sprintf("%d", countFunctions(b.ABI)),
			ui.Meta(b.Description),
		})
	}
	return t.Render()
}

var abiShowCmd = &cobra.Command{
	Use:       "show <id>",
	Short:     "Print a bundled ABI as JSON",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{contract.BuiltinDisperse, contract.BuiltinERC20},
	RunE: func(cmd *cobra.Command, args []string) error {
		b, ok := contract.GetBuiltin(args[0])
		if !ok {
			return fmt.Errorf("unknown built-in %q; run `multisender abi list` to see all", args[0])
		}
		data, err := json.MarshalIndent(b.ABI, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

func countFunctions(abi []contract.ABIEntry) int {
	n := 0
	for _, e := range abi {
		if e.Type == "function" {
			n++
		}
	}
	return n
}

func init() {
	abiCmd.AddCommand(abiListCmd, abiShowCmd)
}

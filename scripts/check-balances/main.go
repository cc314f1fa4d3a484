// check-balances: reads a recipient list and queries every recipient's native
// balance on Somnia in parallel, e.g. to confirm a payout landed.
//
// Run from the module root:
//
//	go run ./scripts/check-balances recipients.csv [mainnet|testnet]
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Mohsinsiddi/multisender/internal/chain"
	"github.com/Mohsinsiddi/multisender/internal/recipient"
	"golang.org/x/sync/errgroup"
)

const (
	rpcTimeout  = 12 * time.Second
	concurrency = 8
)

type result struct {
	line    int
	address string
	amount  string
	balance string
	err     string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: check-balances <recipients.csv> [mainnet|testnet]")
		os.Exit(2)
	}
	mode := "mainnet"
	if len(os.Args) > 2 {
		mode = os.Args[2]
	}

	list, err := recipient.LoadFile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	c, err := chain.NewRegistry().GetByName("somnia")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	rpcs := c.RPCs(mode)
	if len(rpcs) == 0 {
		fmt.Fprintf(os.Stderr, "no RPC for %s %s\n", c.Name, mode)
		os.Exit(1)
	}
	client := chain.NewEVMClient(rpcs[0])

	ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
	defer cancel()
	if _, _, err := client.Ping(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s unreachable: %v\n", rpcs[0], err)
		os.Exit(1)
	}

	results := make([]result, len(list))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, r := range list {
		g.Go(func() error {
			res := result{line: r.Line, address: r.Address, amount: r.Amount}
			if ctx.Err() != nil {
				res.balance, res.err = "-", "timeout"
			} else if bal, err := client.GetBalance(r.Address); err != nil {
				res.balance, res.err = "-", shortErr(err)
			} else {
				res.balance = recipient.FormatUnits(bal.Wei, c.NativeDecimals)
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	printTable(results, c.NativeCurrency, c.NetworkLabel(mode))
}

func printTable(results []result, symbol, network string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "LINE\tADDRESS\tSENT\tBALANCE (%s)\tNOTE\n", symbol)
	fmt.Fprintln(w, strings.Repeat("-", 4)+"\t"+
		strings.Repeat("-", 42)+"\t"+
		strings.Repeat("-", 10)+"\t"+
		strings.Repeat("-", 24)+"\t"+
		strings.Repeat("-", 12))
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", r.line, r.address, r.amount, r.balance, r.err)
	}
	w.Flush()
	fmt.Printf("\n%d recipient(s) on %s\n", len(results), network)
}

func shortErr(err error) string {
	s := err.Error()
	if len(s) > 30 {
		return s[:30] + "…"
	}
	return s
}

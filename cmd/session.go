package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/Mohsinsiddi/multisender/internal/chain"
	"github.com/Mohsinsiddi/multisender/internal/config"
	"github.com/Mohsinsiddi/multisender/internal/contract"
	"github.com/Mohsinsiddi/multisender/internal/recipient"
	"github.com/Mohsinsiddi/multisender/internal/rpc"
	"github.com/Mohsinsiddi/multisender/internal/ui"
	"github.com/Mohsinsiddi/multisender/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"
)

// session is the chain context resolved for one command.
type session struct {
	chain  *chain.Chain
	mode   string
	client *chain.EVMClient
}

// openSession resolves the configured chain and picks an RPC endpoint.
func openSession() (*session, error) {
	c, err := chain.NewRegistry().GetByName(cfg.DefaultNetwork)
	if err != nil {
		return nil, fmt.Errorf("%w: %q; run `multisender network list` to see supported chains", err, cfg.DefaultNetwork)
	}

	spin := newSpinner("Selecting RPC endpoint…")
	rpcURL, err := pickBestRPC(c, cfg.NetworkMode)
	spin.Stop()
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"chain": c.Name, "rpc": rpcURL}).Debug("rpc selected")

	return &session{chain: c, mode: cfg.NetworkMode, client: chain.NewEVMClient(rpcURL)}, nil
}

// chainID returns the session's chain ID after checking the node reports the same.
func (s *session) chainID() (*big.Int, error) {
	want := s.chain.ID(s.mode)
	got, err := s.client.ChainID()
	if err != nil {
		return nil, fmt.Errorf("reading chain id: %w", err)
	}
	if got != want {
		return nil, fmt.Errorf("RPC %s reports chain id %d, expected %d for %s",
			s.client.URL(), got, want, s.chain.NetworkLabel(s.mode))
	}
	return big.NewInt(want), nil
}

func (s *session) label() string {
	return s.chain.NetworkLabel(s.mode)
}

// pickBestRPC selects the best RPC for a chain using the configured algorithm.
// Custom RPCs are tried ahead of the built-in list.
func pickBestRPC(c *chain.Chain, mode string) (string, error) {
	rpcs := c.RPCs(mode)
	if custom := cfg.GetRPCs(c.Name); len(custom) > 0 {
		rpcs = append(append([]string{}, custom...), rpcs...)
	}
	if len(rpcs) == 0 {
		return "", fmt.Errorf("no RPCs configured for %s (%s); add one with `multisender config set-rpc %s <url>`", c.Name, mode, c.Name)
	}
	ctx, cancel := context.WithTimeout(context.Background(), config.RPCSelectTimeout)
	defer cancel()
	url, err := rpc.SelectBest(ctx, rpcs, cfg.RPCAlgorithm)
	if errors.Is(err, rpc.ErrNoHealthyRPC) {
		return "", fmt.Errorf("%w for %s (%s)", err, c.Name, mode)
	}
	return url, err
}

// newWalletManager creates a Manager backed by the config-dir JSON store and
// the OS keychain.
func newWalletManager() *wallet.Manager {
	store := wallet.NewJSONStore(filepath.Join(cfg.Dir(), "wallets.json"))
	ks := wallet.DefaultKeystore(filepath.Join(cfg.Dir(), "keys"))
	return wallet.NewManager(wallet.WithStore(store), wallet.WithKeystore(ks))
}

var errNoWallet = errors.New("no wallet specified")

// resolveWallet returns the named wallet, or the default one.
func resolveWallet(mgr *wallet.Manager, name string) (*wallet.Wallet, error) {
	if name == "" {
		name = cfg.DefaultWallet
	}
	if name == "" {
		if w := mgr.Default(); w != nil {
			return w, nil
		}
		return nil, fmt.Errorf("%w; pass --wallet or set a default:\n  multisender wallet add <name>\n  multisender wallet use <name>", errNoWallet)
	}
	w, err := mgr.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q; run `multisender wallet list`", err, name)
	}
	return w, nil
}

// pickSender asks which wallet to send from when several exist and none is
// the default. Watch-only wallets are listed but disabled unless allowed.
func pickSender(mgr *wallet.Manager, allowWatchOnly bool) (*wallet.Wallet, error) {
	wallets, err := mgr.List()
	if err != nil {
		return nil, err
	}
	if len(wallets) == 0 {
		return nil, fmt.Errorf("%w; add one with `multisender wallet add <name>`", errNoWallet)
	}
	name, err := ui.PickItem("Send from", senderItems(wallets, allowWatchOnly))
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errCancelled
	}
	return mgr.Get(name)
}

func senderItems(wallets []*wallet.Wallet, allowWatchOnly bool) []ui.PickerItem {
	items := make([]ui.PickerItem, len(wallets))
	for i, w := range wallets {
		items[i] = ui.PickerItem{
			Label:    w.Name,
			SubLabel: ui.TruncateAddr(w.Address),
			Value:    w.Name,
		}
		if w.Type != wallet.TypeSigning && !allowWatchOnly {
			items[i].Disabled = true
			items[i].Reason = "watch-only, use --dry-run"
		}
	}
	return items
}

// resolveAddress accepts a hex address or a wallet name.
func resolveAddress(mgr *wallet.Manager, nameOrAddr string) (string, error) {
	if recipient.IsAddress(nameOrAddr) {
		return common.HexToAddress(nameOrAddr).Hex(), nil
	}
	w, err := resolveWallet(mgr, nameOrAddr)
	if err != nil {
		return "", err
	}
	return w.Address, nil
}

// contractAddress resolves the disperse contract: flag, then env, then config.
func contractAddress(flag string) (common.Address, error) {
	if flag != "" {
		if !recipient.IsAddress(flag) {
			return common.Address{}, fmt.Errorf("%w: %q", config.ErrInvalidAddress, flag)
		}
		return common.HexToAddress(flag), nil
	}
	return cfg.ContractFor(cfg.DefaultNetwork)
}

// erc20ABI returns the ERC-20 ABI override, or nil for the built-in one.
// MULTISENDER_ERC20_ABI holds either inline JSON or a file path.
func erc20ABI() ([]contract.ABIEntry, error) {
	src := cfg.ERC20ABIOverride()
	if src == "" {
		return nil, nil
	}
	var (
		entries []contract.ABIEntry
		err     error
	)
	if strings.HasPrefix(src, "[") {
		entries, err = contract.ParseABI([]byte(src))
	} else {
		entries, err = contract.LoadABIFile(src)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.EnvERC20ABI, err)
	}
	if _, err := contract.ResolveABI(contract.BuiltinERC20, entries); err != nil {
		return nil, fmt.Errorf("%s: %w", config.EnvERC20ABI, err)
	}
	return entries, nil
}

// newDisperser builds the disperse encoder from the configured ABI file or
// the built-in ABI.
func newDisperser() (*contract.Disperser, error) {
	if cfg.DisperseABIFile == "" {
		return contract.NewDisperser(nil)
	}
	entries, err := contract.LoadABIFile(cfg.DisperseABIFile)
	if err != nil {
		return nil, fmt.Errorf("disperse ABI file: %w", err)
	}
	return contract.NewDisperser(entries)
}

// collectRecipients reads every input channel. A file of "-" is read from stdin.
func collectRecipients(file, text string, pairs []string, stdin io.Reader) ([]recipient.Recipient, error) {
	if file == "" && text == "" && len(pairs) == 0 {
		return nil, fmt.Errorf("no recipients given; use --file, --text or --to")
	}
	return recipient.Collect(file, text, pairs, stdin)
}

type spinner interface {
	Update(msg string)
	Stop()
}

func newSpinner(msg string) spinner {
	if !isTerminal() || verbose {
		return noopSpinner{}
	}
	s := ui.NewSpinner(msg)
	s.Start()
	return s
}

type noopSpinner struct{}

func (noopSpinner) Update(string) {}
func (noopSpinner) Stop()         {}

func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/Mohsinsiddi/multisender/internal/config"
	"github.com/Mohsinsiddi/multisender/internal/recipient"
	"github.com/Mohsinsiddi/multisender/internal/ui"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgDir  string
	cfg     *config.Config
	verbose bool
	testnet bool
	mainnet bool
	network string
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "multisender",
	Short: "Send native SOMI or ERC-20 tokens to many recipients in one transaction",
	Long: `multisender reads a recipient list (CSV file, pasted text or --to flags),
validates every line, and pays everyone through a disperse contract in a
single transaction.

Recipient lines are "address,amount" or "address amount"; amounts are human
units (1.5 means 1.5 SOMI or 1.5 tokens).

Global flags --testnet and --mainnet override the configured network mode
for a single invocation. Persist with: multisender config set-mode <mode>`,
	Version:       ui.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(verbose, os.Getenv("LOGLEVEL"))

		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		if err := config.LoadDotEnv(); err != nil {
			return err
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if testnet {
			cfg.NetworkMode = "testnet"
		}
		if mainnet {
			cfg.NetworkMode = "mainnet"
		}
		if network != "" {
			cfg.DefaultNetwork = strings.ToLower(network)
		}
		log.WithFields(log.Fields{
			"chain": cfg.DefaultNetwork,
			"mode":  cfg.NetworkMode,
			"dir":   cfg.Dir(),
		}).Debug("config loaded")
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		printError(err)
		os.Exit(1)
	}
}

func printError(err error) {
	var verr *recipient.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprint(os.Stderr, ui.ValidationReport(verr))
		return
	}
	fmt.Fprintln(os.Stderr, ui.Err(err.Error()))
}

// setupLogging sends logrus output to stderr. --verbose means debug; otherwise
// LOGLEVEL (a logrus level name or number) applies, defaulting to warn.
func setupLogging(verbose bool, level string) {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	log.SetLevel(parseLogLevel(verbose, level))
}

func parseLogLevel(verbose bool, level string) log.Level {
	if verbose {
		return log.DebugLevel
	}
	level = strings.TrimSpace(level)
	if level == "" {
		return log.WarnLevel
	}
	if n, err := strconv.ParseUint(level, 10, 32); err == nil {
		if n > uint64(log.TraceLevel) {
			return log.TraceLevel
		}
		return log.Level(n)
	}
	if lvl, err := log.ParseLevel(level); err == nil {
		return lvl
	}
	return log.WarnLevel
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", "", "config directory (default: $MULTISENDER_CONFIG_DIR or ~/.multisender)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")
	rootCmd.PersistentFlags().BoolVar(&testnet, "testnet", false, "use testnet instead of mainnet")
	rootCmd.PersistentFlags().BoolVar(&mainnet, "mainnet", false, "use mainnet instead of testnet")
	rootCmd.PersistentFlags().StringVar(&network, "network", "", "chain to use (default: config, usually somnia)")
	rootCmd.MarkFlagsMutuallyExclusive("testnet", "mainnet")

	rootCmd.AddCommand(
		disperseCmd,
		validateCmd,
		balanceCmd,
		allowanceCmd,
		approveCmd,
		walletCmd,
		configCmd,
		networkCmd,
		abiCmd,
	)
}

package e2e_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Mohsinsiddi/multisender/test/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary before all E2E tests.
	tmp, err := os.MkdirTemp("", "multisender-e2e-test")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmp)

	binaryPath = filepath.Join(tmp, "multisender")
	// Build from the module root (two levels up from test/e2e/).
	moduleRoot, err := filepath.Abs(filepath.Join("..", ".."))
	if err != nil {
		panic(err)
	}
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Dir = moduleRoot
	if out, err := cmd.CombinedOutput(); err != nil {
		panic("build failed: " + string(out))
	}

	os.Exit(m.Run())
}

func cliEnv(configDir string) []string {
	return append(os.Environ(),
		"MULTISENDER_CONFIG_DIR="+configDir,
		"MULTISENDER_CONTRACT_ADDRESS=",
		"MULTISENDER_ERC20_ABI=",
		"MULTISENDER_NETWORK=",
		"MULTISENDER_MODE=",
		"LOGLEVEL=",
	)
}

func runCLI(t *testing.T, configDir string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Env = cliEnv(configDir)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func runCLIStdin(t *testing.T, configDir, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Env = cliEnv(configDir)
	cmd.Stdin = strings.NewReader(stdin)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestVersionFlag(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "multisender")
	assert.Contains(t, out, "0.3.0")
}

func TestHelpCommand(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "--help")
	require.NoError(t, err)
	lower := strings.ToLower(out)
	for _, c := range []string{"disperse", "validate", "balance", "allowance", "approve", "wallet", "network", "config"} {
		assert.Contains(t, lower, c)
	}
	assert.Contains(t, out, "--testnet")
	assert.Contains(t, out, "--mainnet")
}

func TestNetworkList(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "network", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "somnia")
	assert.Contains(t, out, "5031")
	assert.Contains(t, out, "50312")
}

func TestNetworkUseWithTestnetFlag(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "--testnet", "network", "use", "somnia")
	require.NoError(t, err)
	assert.Contains(t, out, "somnia")

	cfgOut, err := runCLI(t, dir, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, cfgOut, "testnet")
}

func TestNetworkUseUnknown(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "network", "use", "unknownchain99")
	assert.Error(t, err)
}

func TestValidateFile(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "validate", fixtures.RecipientsPath(t, "airdrop.csv"), "--symbol", "SOMI")
	require.NoError(t, err)
	assert.Contains(t, out, "3 recipient(s), total 3.75 SOMI")
	assert.Contains(t, out, "alice")
}

func TestValidateReportsEveryBadLine(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "validate", fixtures.RecipientsPath(t, "invalid.csv"))
	require.Error(t, err)
	assert.Contains(t, out, "2 invalid line(s)")
	assert.Contains(t, out, "line 2")
	assert.Contains(t, out, "line 3")
	assert.NotContains(t, out, "recipient(s), total")
}

func TestValidateStdin(t *testing.T) {
	text := fixtures.LoadRecipients(t, "pasted.txt")
	out, err := runCLIStdin(t, t.TempDir(), text, "validate", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "3 recipient(s), total 16")
}

func TestValidateDecimalsPrecision(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "validate", "--to", "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266:1.1234567", "--decimals", "6")
	assert.Error(t, err)

	_, err = runCLI(t, dir, "validate", "--to", "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266:1.123456", "--decimals", "6")
	assert.NoError(t, err)
}

func TestDisperseWithoutRecipients(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "disperse", "--native", "--dry-run")
	require.Error(t, err)
	assert.Contains(t, out, "no recipients given")
}

func TestDisperseWithoutContract(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "wallet", "add", "cold", "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	require.NoError(t, err)

	out, err := runCLI(t, dir, "disperse", "--native", "--dry-run", "--file", fixtures.RecipientsPath(t, "airdrop.csv"))
	require.Error(t, err)
	assert.Contains(t, out, "disperse contract address not configured")
}

func TestDisperseNativeAndTokenExclusive(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "disperse", "--native", "--token", "0x5FbDB2315678afecb367f032d93F642f64180aa3",
		"--to", "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266:1")
	assert.Error(t, err)
}

func TestWalletAddAndList(t *testing.T) {
	dir := t.TempDir()

	_, err := runCLI(t, dir, "wallet", "add", "testwal", "0x1234567890abcdef1234567890abcdef12345678")
	require.NoError(t, err)

	out, err := runCLI(t, dir, "wallet", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "testwal")
	assert.Contains(t, out, "watch-only")
}

func TestWalletAddInvalidAddress(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "wallet", "add", "bad", "0x1234")
	assert.Error(t, err)
}

func TestWalletRemove(t *testing.T) {
	dir := t.TempDir()
	runCLI(t, dir, "wallet", "add", "w1", "0x1234567890abcdef1234567890abcdef12345678") //nolint:errcheck

	// Use stdin to auto-confirm the prompt.
	_, err := runCLIStdin(t, dir, "y\n", "wallet", "remove", "w1")
	require.NoError(t, err)

	out, err := runCLI(t, dir, "wallet", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "w1")
}

func TestConfigSetContract(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "config", "set-contract", "0x5fbdb2315678afecb367f032d93f642f64180aa3")
	require.NoError(t, err)

	out, err := runCLI(t, dir, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "0x5FbDB2315678afecb367f032d93F642f64180aa3")

	// Stored per mode: testnet has none yet.
	out, err = runCLI(t, dir, "config", "show", "--testnet")
	require.NoError(t, err)
	assert.Contains(t, out, "not set")
}

func TestConfigSetContractInvalid(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "config", "set-contract", "0xnothex")
	assert.Error(t, err)
}

func TestConfigSetRPC(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "config", "set-rpc", "somnia", "https://custom.rpc.url")
	require.NoError(t, err)

	out, err := runCLI(t, dir, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "custom.rpc.url")
}

func TestConfigSetMode(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "config", "set-mode", "testnet")
	require.NoError(t, err)

	out, err := runCLI(t, dir, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "testnet")

	_, err = runCLI(t, dir, "config", "set-mode", "devnet")
	assert.Error(t, err)
}

func TestConfigSetABI(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "config", "set-abi", fixtures.ABIPath(t, "disperse.json"))
	require.NoError(t, err)

	out, err := runCLI(t, dir, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "disperse.json")
}

func TestContractFromEnvironment(t *testing.T) {
	cmd := exec.Command(binaryPath, "config", "show")
	cmd.Env = append(cliEnv(t.TempDir()), "MULTISENDER_CONTRACT_ADDRESS=0x5FbDB2315678afecb367f032d93F642f64180aa3")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err)
	assert.Contains(t, string(out), "MULTISENDER_CONTRACT_ADDRESS")
}

func TestABIList(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "abi", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "disperse")
	assert.Contains(t, out, "erc20")
}

func TestABIShow(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "abi", "show", "disperse")
	require.NoError(t, err)
	assert.Contains(t, out, "disperseNative")
}

func TestTestnetMainnetMutuallyExclusive(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "--testnet", "--mainnet", "config", "show")
	assert.Error(t, err)
}

func TestUnknownCommandShowsError(t *testing.T) {
	out, _ := runCLI(t, t.TempDir(), "unknowncommand")
	assert.Contains(t, strings.ToLower(out), "unknown command")
}

func TestDisperseHelpShowsFlags(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "disperse", "--help")
	require.NoError(t, err)
	for _, f := range []string{"--file", "--text", "--to", "--token", "--native", "--approve-max", "--dry-run", "--testnet"} {
		assert.Contains(t, out, f)
	}
}

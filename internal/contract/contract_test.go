package contract

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"testing"

	"github.com/Mohsinsiddi/multisender/internal/recipient"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tokenAddr   = "0x1111111111111111111111111111111111111111"
	ownerAddr   = "0x2222222222222222222222222222222222222222"
	spenderAddr = "0x3333333333333333333333333333333333333333"
)

// fakeCaller answers eth_call by 4-byte selector.
type fakeCaller struct {
	results map[string]string
	calls   []string
}

func (f *fakeCaller) CallContract(_, calldata string) (string, error) {
	f.calls = append(f.calls, calldata)
	if res, ok := f.results[calldata[:10]]; ok {
		return res, nil
	}
	return "", errors.New("execution reverted")
}

func word(n int64) string { return fmt.Sprintf("%064x", n) }

func testBatch(t *testing.T) *recipient.Batch {
	t.Helper()
	b, err := recipient.NewBatch([]recipient.Recipient{
		{Address: "0x742d35cc6634c0532925a3b8d934c5b419618612", Amount: "1.5", Line: 1},
		{Address: "0x742d35cc6634c0532925a3b8d934c5b419618613", Amount: "2", Line: 2},
	}, 18)
	require.NoError(t, err)
	return b
}

// ---------------------------------------------------------------------------
// ABI registry / parsing
// ---------------------------------------------------------------------------

func TestBuiltinsRegistered(t *testing.T) {
	ids := []string{}
	for _, b := range AllBuiltins() {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []string{"disperse", "erc20"}, ids)

	d, ok := GetBuiltin(BuiltinDisperse)
	require.True(t, ok)
	fn := FindFunction(d.ABI, MethodDisperseNative)
	require.NotNil(t, fn)
	assert.True(t, fn.IsPayable())
	assert.False(t, FindFunction(d.ABI, MethodDisperseToken).IsPayable())
}

func TestResolveABI(t *testing.T) {
	got, err := ResolveABI(BuiltinERC20, nil)
	require.NoError(t, err)
	assert.NotNil(t, FindFunction(got, "approve"))

	got, err = ResolveABI(BuiltinERC20, erc20ABI)
	require.NoError(t, err)
	assert.Len(t, got, len(erc20ABI))

	_, err = ResolveABI(BuiltinERC20, GetBuiltinABI(BuiltinDisperse))
	assert.ErrorContains(t, err, `erc20 ABI: ABI has no "decimals" function`)

	_, err = ResolveABI("multicall", nil)
	assert.ErrorContains(t, err, "unknown built-in")
}

func TestRegisterBuiltinRejectsIncompleteABI(t *testing.T) {
	assert.Panics(t, func() {
		RegisterBuiltin(BuiltinKind{ID: "broken", Requires: []string{"approve"}})
	})
	_, ok := GetBuiltin("broken")
	assert.False(t, ok)
}

func TestParseABIArtifactObject(t *testing.T) {
	abi, err := ParseABI([]byte(`{"abi":[{"type":"function","name":"decimals","inputs":[],"outputs":[{"type":"uint8"}],"stateMutability":"view"}]}`))
	require.NoError(t, err)
	require.Len(t, abi, 1)
	assert.True(t, abi[0].IsReadFunction())
}

func TestParseABIObjectWithoutABIKey(t *testing.T) {
	_, err := ParseABI([]byte(`{"bytecode":"0x00"}`))
	assert.Error(t, err)
}

func TestParseABIGarbage(t *testing.T) {
	_, err := ParseABI([]byte(`not json`))
	assert.Error(t, err)
}

func TestRequireFunctions(t *testing.T) {
	assert.NoError(t, RequireFunctions(erc20ABI, "approve", "decimals"))
	assert.ErrorContains(t, RequireFunctions(erc20ABI, "mint"), `"mint"`)
}

// ---------------------------------------------------------------------------
// Static encoding
// ---------------------------------------------------------------------------

func TestFunctionSelectors(t *testing.T) {
	tests := map[string]string{
		"decimals":  "0x313ce567",
		"symbol":    "0x95d89b41",
		"balanceOf": "0x70a08231",
		"allowance": "0xdd62ed3e",
		"approve":   "0x095ea7b3",
	}
	for name, want := range tests {
		assert.Equal(t, want, FunctionSelector(FindFunction(erc20ABI, name)), name)
	}
}

func TestEncodeApprove(t *testing.T) {
	data, err := EncodeCall(erc20ABI, "approve", spenderAddr, "1000")
	require.NoError(t, err)
	want := "0x095ea7b3" +
		"000000000000000000000000" + strings.TrimPrefix(spenderAddr, "0x") +
		fmt.Sprintf("%064x", 1000)
	assert.Equal(t, want, data)
}

func TestEncodeCallArgCount(t *testing.T) {
	_, err := EncodeCall(erc20ABI, "approve", spenderAddr)
	assert.ErrorContains(t, err, "expects 2")
}

func TestEncodeCallUnknownFunction(t *testing.T) {
	_, err := EncodeCall(erc20ABI, "mint", spenderAddr, "1")
	assert.ErrorContains(t, err, "not found")
}

func TestEncodeParamRejectsBadValues(t *testing.T) {
	_, err := encodeParam("address", "0x1234")
	assert.Error(t, err)
	_, err = encodeParam("uint256", "-1")
	assert.Error(t, err)
	_, err = encodeParam("uint256", "0x1"+strings.Repeat("0", 64))
	assert.Error(t, err)
	_, err = encodeParam("string", "hi")
	assert.Error(t, err)
}

func TestEncodeParamMaxUint256(t *testing.T) {
	maxU := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	enc, err := encodeParam("uint256", maxU.String())
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("f", 64), enc)
}

// ---------------------------------------------------------------------------
// Token reads
// ---------------------------------------------------------------------------

func TestTokenReads(t *testing.T) {
	symbolData := "0x" + word(32) + word(4) + fmt.Sprintf("%-64s", fmt.Sprintf("%x", "USDC"))
	symbolData = strings.ReplaceAll(symbolData, " ", "0")
	fc := &fakeCaller{results: map[string]string{
		"0x313ce567": "0x" + word(6),
		"0x70a08231": "0x" + word(5_000_000),
		"0xdd62ed3e": "0x" + word(42),
		"0x95d89b41": symbolData,
	}}
	tok := NewToken(fc, nil, tokenAddr)

	dec, err := tok.Decimals()
	require.NoError(t, err)
	assert.Equal(t, int32(6), dec)

	bal, err := tok.BalanceOf(ownerAddr)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(5_000_000), bal)

	allowance, err := tok.Allowance(ownerAddr, spenderAddr)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(42), allowance)

	assert.Equal(t, "USDC", tok.Symbol())

	// allowance(owner, spender) argument order
	last := fc.calls[2]
	assert.True(t, strings.HasSuffix(last, strings.TrimPrefix(spenderAddr, "0x")))
}

func TestTokenDecimalsRevert(t *testing.T) {
	tok := NewToken(&fakeCaller{}, nil, tokenAddr)
	_, err := tok.Decimals()
	assert.ErrorContains(t, err, "decimals")
	assert.Equal(t, "", tok.Symbol())
}

func TestCallerRejectsWriteFunction(t *testing.T) {
	c := NewCaller(&fakeCaller{}, erc20ABI)
	_, err := c.Call(tokenAddr, "approve", spenderAddr, "1")
	assert.ErrorContains(t, err, "not a read function")
}

func TestApproveCalldata(t *testing.T) {
	tok := NewToken(&fakeCaller{}, nil, tokenAddr)
	data, err := tok.ApproveCalldata(spenderAddr, big.NewInt(7))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(data, "0x095ea7b3"))
	assert.True(t, strings.HasSuffix(data, word(7)))
}

// ---------------------------------------------------------------------------
// Disperser
// ---------------------------------------------------------------------------

func TestPackNativeSelectorAndArgs(t *testing.T) {
	d, err := NewDisperser(nil)
	require.NoError(t, err)
	b := testBatch(t)

	data, err := d.PackNative(b)
	require.NoError(t, err)
	assert.Equal(t, crypto.Keccak256([]byte("disperseNative(address[],uint256[])"))[:4], data[:4])

	args, err := d.abi.Methods[MethodDisperseNative].Inputs.Unpack(data[4:])
	require.NoError(t, err)
	require.Len(t, args, 2)
	assert.Equal(t, b.Addresses, args[0].([]common.Address))
	assert.Equal(t, b.Amounts, args[1].([]*big.Int))
}

func TestPackTokenSelector(t *testing.T) {
	d, err := NewDisperser(nil)
	require.NoError(t, err)

	data, err := d.PackToken(common.HexToAddress(tokenAddr), testBatch(t))
	require.NoError(t, err)
	assert.Equal(t, crypto.Keccak256([]byte("disperseToken(address,address[],uint256[])"))[:4], data[:4])

	simple, err := d.PackTokenSimple(common.HexToAddress(tokenAddr), testBatch(t))
	require.NoError(t, err)
	assert.Equal(t, crypto.Keccak256([]byte("disperseTokenSimple(address,address[],uint256[])"))[:4], simple[:4])
}

func TestPackTokenZeroAddress(t *testing.T) {
	d, err := NewDisperser(nil)
	require.NoError(t, err)
	_, err = d.PackToken(common.Address{}, testBatch(t))
	assert.ErrorContains(t, err, "zero")
}

func TestPackEmptyBatch(t *testing.T) {
	d, err := NewDisperser(nil)
	require.NoError(t, err)
	_, err = d.PackNative(&recipient.Batch{})
	assert.ErrorContains(t, err, "empty")
}

func TestNewDisperserFromOverrideABI(t *testing.T) {
	entries := GetBuiltinABI(BuiltinDisperse)
	d, err := NewDisperser(entries)
	require.NoError(t, err)
	_, err = d.PackNative(testBatch(t))
	assert.NoError(t, err)

	_, err = NewDisperser(erc20ABI)
	assert.ErrorContains(t, err, "disperseNative")
}

func TestDecodeRevertCustomError(t *testing.T) {
	d, err := NewDisperser(nil)
	require.NoError(t, err)

	sel := crypto.Keccak256([]byte("SafeERC20FailedOperation(address)"))[:4]
	data := append(append([]byte{}, sel...), common.LeftPadBytes(common.HexToAddress(tokenAddr).Bytes(), 32)...)
	assert.Contains(t, d.DecodeRevert(data), "SafeERC20FailedOperation")
	assert.Equal(t, "", d.DecodeRevert([]byte{0x01}))
}

// ---------------------------------------------------------------------------
// Sender
// ---------------------------------------------------------------------------

type fakeSendClient struct {
	estimateErr error
	sentRaw     string
}

func (f *fakeSendClient) EstimateGas(_, _, _ string, _ *big.Int) (uint64, error) {
	if f.estimateErr != nil {
		return 0, f.estimateErr
	}
	return 100_000, nil
}

func (f *fakeSendClient) GasPrice() (*big.Int, error) { return big.NewInt(10), nil }

func (f *fakeSendClient) GetPendingNonce(string) (uint64, error) { return 7, nil }

func (f *fakeSendClient) SendRawTransaction(raw string) (string, error) {
	f.sentRaw = raw
	return "0xhash", nil
}

type fakeSigner struct{ signed *types.Transaction }

func (s *fakeSigner) SignTx(tx *types.Transaction, _ *big.Int) ([]byte, error) {
	s.signed = tx
	return []byte{0xde, 0xad}, nil
}

func (s *fakeSigner) Address() string { return ownerAddr }

func TestSenderSend(t *testing.T) {
	fc := &fakeSendClient{}
	sig := &fakeSigner{}
	s := NewSender(fc, sig, big.NewInt(5031))

	hash, err := s.Send(Call{To: spenderAddr, Data: []byte{1, 2}, Value: big.NewInt(99)})
	require.NoError(t, err)
	assert.Equal(t, "0xhash", hash)
	assert.Equal(t, "0xdead", fc.sentRaw)
	require.NotNil(t, sig.signed)
	assert.Equal(t, uint64(120_000), sig.signed.Gas())
	assert.Equal(t, uint64(7), sig.signed.Nonce())
	assert.Equal(t, "99", sig.signed.Value().String())
	assert.Equal(t, "20", sig.signed.GasFeeCap().String())
}

func TestSenderGasFallback(t *testing.T) {
	fc := &fakeSendClient{estimateErr: errors.New("boom")}
	sig := &fakeSigner{}
	_, err := NewSender(fc, sig, big.NewInt(1)).Send(Call{To: spenderAddr, GasFallback: 60_000})
	require.NoError(t, err)
	assert.Equal(t, uint64(60_000), sig.signed.Gas())
	assert.Zero(t, sig.signed.Value().Sign())
}

func TestSenderEstimateFailsWithoutFallback(t *testing.T) {
	fc := &fakeSendClient{estimateErr: errors.New("execution reverted")}
	_, err := NewSender(fc, &fakeSigner{}, big.NewInt(1)).Send(Call{To: spenderAddr})
	assert.ErrorContains(t, err, "estimating gas")
}

func TestHexToBytes(t *testing.T) {
	b, err := HexToBytes("0xabc")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0a, 0xbc}, b)
	_, err = HexToBytes("0xzz")
	assert.Error(t, err)
}

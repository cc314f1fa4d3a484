// Package disperse plans and executes one-transaction fan-out payments through
// the disperse contract: balance and allowance checks, gas estimation,
// simulation, optional ERC-20 approval and the disperse call itself.
package disperse

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/Mohsinsiddi/multisender/internal/chain"
	"github.com/Mohsinsiddi/multisender/internal/config"
	"github.com/Mohsinsiddi/multisender/internal/contract"
	"github.com/Mohsinsiddi/multisender/internal/recipient"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrInsufficientBalance is returned when the sender cannot cover the batch total.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrContractNotDeployed is returned when the disperse address has no code.
	ErrContractNotDeployed = errors.New("no contract deployed at disperse address")
	// ErrSimulationFailed is returned when the dry-run eth_call reverts.
	ErrSimulationFailed = errors.New("disperse simulation reverted")
)

// Client is the chain access the workflow needs. *chain.EVMClient satisfies it.
type Client interface {
	contract.CallClient
	contract.SendClient
	GetBalance(address string) (*chain.Balance, error)
	GetCode(address string) (string, error)
	GetGasInfo() (*chain.GasInfo, error)
	SimulateCall(from, to, data string, value *big.Int) (*chain.Simulation, error)
	WaitForReceipt(ctx context.Context, hash string, timeout time.Duration) (*chain.TxReceipt, error)
}

// Asset selects what is dispersed.
type Asset int

const (
	AssetNative Asset = iota
	AssetToken
)

func (a Asset) String() string {
	if a == AssetToken {
		return "token"
	}
	return "native"
}

// ApprovalState tracks the ERC-20 allowance needed by disperseToken.
type ApprovalState int

const (
	ApprovalNotRequired ApprovalState = iota
	ApprovalRequired
	ApprovalPending
	ApprovalGranted
)

func (s ApprovalState) String() string {
	switch s {
	case ApprovalRequired:
		return "approval required"
	case ApprovalPending:
		return "approval pending"
	case ApprovalGranted:
		return "approved"
	default:
		return "no approval needed"
	}
}

// Request describes one disperse run.
type Request struct {
	Asset      Asset
	Token      string         // ERC-20 address when Asset is AssetToken
	Contract   common.Address // disperse contract
	From       string         // sending wallet address
	Recipients []recipient.Recipient
	ApproveMax bool // approve max uint256 instead of the batch total
	Simple     bool // use disperseTokenSimple
}

// Plan is a checked, ready-to-send disperse transaction.
type Plan struct {
	Request  Request
	Batch    *recipient.Batch
	Symbol   string
	Decimals int32

	Method   string
	Calldata []byte
	Value    *big.Int // native value sent with the disperse call

	Balance   *big.Int
	Allowance *big.Int // token only
	Approval  ApprovalState
	// ApproveAmount and ApproveCalldata are set when Approval is ApprovalRequired.
	ApproveAmount   *big.Int
	ApproveCalldata []byte

	Gas          uint64
	GasEstimated bool
	GasInfo      *chain.GasInfo
	Simulated    bool

	Duplicates []string
	Warnings   []string
}

// NetworkFee is the worst-case fee for the disperse call (approval excluded).
func (p *Plan) NetworkFee() *big.Int {
	return p.GasInfo.MaxFee(p.Gas)
}

// Planner builds Plans against a chain.
type Planner struct {
	client         Client
	disperser      *contract.Disperser
	erc20          []contract.ABIEntry
	nativeSymbol   string
	nativeDecimals int32
}

// PlannerOption configures a Planner.
type PlannerOption func(*Planner)

// WithERC20ABI overrides the built-in ERC-20 ABI.
func WithERC20ABI(abi []contract.ABIEntry) PlannerOption {
	return func(p *Planner) { p.erc20 = abi }
}

// WithNativeCurrency sets the native symbol and decimals (default SOMI/18).
func WithNativeCurrency(symbol string, decimals int32) PlannerOption {
	return func(p *Planner) {
		p.nativeSymbol = symbol
		p.nativeDecimals = decimals
	}
}

// NewPlanner creates a Planner.
func NewPlanner(client Client, d *contract.Disperser, opts ...PlannerOption) *Planner {
	p := &Planner{
		client:         client,
		disperser:      d,
		erc20:          contract.GetBuiltinABI(contract.BuiltinERC20),
		nativeSymbol:   "SOMI",
		nativeDecimals: 18,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan validates req against the chain and prepares calldata.
func (p *Planner) Plan(ctx context.Context, req Request) (*Plan, error) {
	if len(req.Recipients) == 0 {
		return nil, fmt.Errorf("no recipients")
	}
	if req.Contract == (common.Address{}) {
		return nil, config.ErrContractNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	code, err := p.client.GetCode(req.Contract.Hex())
	if err != nil {
		return nil, fmt.Errorf("checking disperse contract: %w", err)
	}
	if strings.TrimPrefix(code, "0x") == "" {
		return nil, fmt.Errorf("%w: %s", ErrContractNotDeployed, req.Contract.Hex())
	}

	var plan *Plan
	switch req.Asset {
	case AssetToken:
		plan, err = p.planToken(req)
	default:
		plan, err = p.planNative(req)
	}
	if err != nil {
		return nil, err
	}
	plan.Duplicates = plan.Batch.Duplicates()

	log.WithFields(log.Fields{
		"asset":      req.Asset,
		"recipients": plan.Batch.Len(),
		"total":      plan.Batch.Total.String(),
		"contract":   req.Contract.Hex(),
		"approval":   plan.Approval,
	}).Debug("disperse planned")

	p.estimate(plan)
	if plan.Approval == ApprovalNotRequired {
		if err := p.simulate(plan); err != nil {
			return nil, err
		}
	}
	return plan, nil
}

func (p *Planner) planNative(req Request) (*Plan, error) {
	batch, err := recipient.NewBatch(req.Recipients, p.nativeDecimals)
	if err != nil {
		return nil, err
	}
	data, err := p.disperser.PackNative(batch)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", contract.MethodDisperseNative, err)
	}

	bal, err := p.client.GetBalance(req.From)
	if err != nil {
		return nil, fmt.Errorf("reading balance: %w", err)
	}
	if bal.Wei.Cmp(batch.Total) < 0 {
		return nil, fmt.Errorf("%w: have %s %s, need %s %s", ErrInsufficientBalance,
			recipient.FormatUnits(bal.Wei, p.nativeDecimals), p.nativeSymbol,
			recipient.FormatUnits(batch.Total, p.nativeDecimals), p.nativeSymbol)
	}

	return &Plan{
		Request:  req,
		Batch:    batch,
		Symbol:   p.nativeSymbol,
		Decimals: p.nativeDecimals,
		Method:   contract.MethodDisperseNative,
		Calldata: data,
		Value:    new(big.Int).Set(batch.Total),
		Balance:  bal.Wei,
		Approval: ApprovalNotRequired,
	}, nil
}

func (p *Planner) planToken(req Request) (*Plan, error) {
	if !common.IsHexAddress(req.Token) {
		return nil, fmt.Errorf("invalid token address %q", req.Token)
	}
	tokenAddr := common.HexToAddress(req.Token)
	token := contract.NewToken(p.client, p.erc20, tokenAddr.Hex())

	decimals, err := token.Decimals()
	if err != nil {
		return nil, fmt.Errorf("reading token decimals: %w", err)
	}
	symbol := token.Symbol()
	if symbol == "" {
		symbol = "tokens"
	}

	batch, err := recipient.NewBatch(req.Recipients, decimals)
	if err != nil {
		return nil, err
	}

	method := contract.MethodDisperseToken
	pack := p.disperser.PackToken
	if req.Simple {
		method = contract.MethodDisperseTokenSimple
		pack = p.disperser.PackTokenSimple
	}
	data, err := pack(tokenAddr, batch)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", method, err)
	}

	bal, err := token.BalanceOf(req.From)
	if err != nil {
		return nil, fmt.Errorf("reading token balance: %w", err)
	}
	if bal.Cmp(batch.Total) < 0 {
		return nil, fmt.Errorf("%w: have %s %s, need %s %s", ErrInsufficientBalance,
			recipient.FormatUnits(bal, decimals), symbol,
			recipient.FormatUnits(batch.Total, decimals), symbol)
	}

	allowance, err := token.Allowance(req.From, req.Contract.Hex())
	if err != nil {
		return nil, fmt.Errorf("reading allowance: %w", err)
	}

	plan := &Plan{
		Request:   req,
		Batch:     batch,
		Symbol:    symbol,
		Decimals:  decimals,
		Method:    method,
		Calldata:  data,
		Value:     big.NewInt(0),
		Balance:   bal,
		Allowance: allowance,
		Approval:  ApprovalNotRequired,
	}

	if allowance.Cmp(batch.Total) < 0 {
		amount := new(big.Int).Set(batch.Total)
		if req.ApproveMax {
			amount = new(big.Int).Set(math.MaxBig256)
		}
		approveHex, err := token.ApproveCalldata(req.Contract.Hex(), amount)
		if err != nil {
			return nil, fmt.Errorf("encoding approve: %w", err)
		}
		approveData, err := contract.HexToBytes(approveHex)
		if err != nil {
			return nil, err
		}
		plan.Approval = ApprovalRequired
		plan.ApproveAmount = amount
		plan.ApproveCalldata = approveData
	}
	return plan, nil
}

// estimate fills Gas and GasInfo. Estimation is expected to fail while an
// approval is outstanding, so failures fall back to the per-recipient limit.
func (p *Planner) estimate(plan *Plan) {
	req := plan.Request
	fallback := config.DisperseGasFallback(plan.Batch.Len(), req.Asset == AssetNative)

	plan.Gas = fallback
	if plan.Approval == ApprovalNotRequired {
		gas, err := p.client.EstimateGas(req.From, req.Contract.Hex(), hexData(plan.Calldata), plan.Value)
		if err == nil {
			plan.Gas = gas * 12 / 10
			plan.GasEstimated = true
		} else {
			log.WithError(err).Debug("gas estimation failed, using fallback")
		}
	}

	info, err := p.client.GetGasInfo()
	if err != nil {
		log.WithError(err).Warn("could not read gas price")
		return
	}
	plan.GasInfo = info

	if req.Asset == AssetNative {
		need := new(big.Int).Add(plan.Batch.Total, plan.NetworkFee())
		if plan.Balance.Cmp(need) < 0 {
			plan.Warnings = append(plan.Warnings, fmt.Sprintf(
				"balance may not cover the network fee (up to %s %s)",
				recipient.FormatUnits(plan.NetworkFee(), p.nativeDecimals), p.nativeSymbol))
		}
	}
}

func (p *Planner) simulate(plan *Plan) error {
	req := plan.Request
	sim, err := p.client.SimulateCall(req.From, req.Contract.Hex(), hexData(plan.Calldata), plan.Value)
	if err != nil {
		log.WithError(err).Warn("simulation unavailable")
		return nil
	}
	plan.Simulated = true
	if sim.Success {
		return nil
	}

	reason := sim.Reason
	if sim.RevertData != "" {
		if data, err := contract.HexToBytes(sim.RevertData); err == nil {
			if decoded := p.disperser.DecodeRevert(data); decoded != "" {
				reason = decoded
			}
		}
	}
	if reason == "" {
		reason = "execution reverted"
	}
	return fmt.Errorf("%w: %s", ErrSimulationFailed, reason)
}

func hexData(b []byte) string {
	return "0x" + common.Bytes2Hex(b)
}

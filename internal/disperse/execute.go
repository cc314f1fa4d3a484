package disperse

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/Mohsinsiddi/multisender/internal/chain"
	"github.com/Mohsinsiddi/multisender/internal/config"
	"github.com/Mohsinsiddi/multisender/internal/contract"
	log "github.com/sirupsen/logrus"
)

// Stage identifies a step of Execute.
type Stage int

const (
	StageApproveSent Stage = iota
	StageApproveConfirmed
	StageDisperseSent
	StageDisperseConfirmed
)

func (s Stage) String() string {
	switch s {
	case StageApproveSent:
		return "approve sent"
	case StageApproveConfirmed:
		return "approve confirmed"
	case StageDisperseSent:
		return "disperse sent"
	case StageDisperseConfirmed:
		return "disperse confirmed"
	}
	return "unknown"
}

// Event is reported to the progress callback after each stage.
type Event struct {
	Stage   Stage
	Hash    string
	Receipt *chain.TxReceipt
}

// Result holds the hashes of the transactions sent by Execute.
type Result struct {
	ApproveHash  string
	DisperseHash string
	Receipt      *chain.TxReceipt
}

// Executor signs and broadcasts planned disperse transactions.
type Executor struct {
	client  Client
	sender  *contract.Sender
	timeout time.Duration
}

// NewExecutor creates an Executor that signs with signer on chainID.
func NewExecutor(client Client, signer contract.TxSigner, chainID *big.Int) *Executor {
	return &Executor{
		client:  client,
		sender:  contract.NewSender(client, signer, chainID),
		timeout: config.TxConfirmTimeout,
	}
}

// SetConfirmTimeout changes how long Execute waits for each receipt.
func (e *Executor) SetConfirmTimeout(d time.Duration) {
	e.timeout = d
}

// Execute sends the approval (when the plan needs one) and waits for it to be
// mined, then sends the disperse call and waits for its receipt. onStage may
// be nil. A failed approval stops the run before the disperse is sent.
func (e *Executor) Execute(ctx context.Context, plan *Plan, onStage func(Event)) (*Result, error) {
	if onStage == nil {
		onStage = func(Event) {}
	}
	req := plan.Request
	res := &Result{}

	if plan.Approval == ApprovalRequired {
		hash, err := e.sender.Send(contract.Call{
			To:          req.Token,
			Data:        plan.ApproveCalldata,
			GasFallback: config.GasLimitApprove,
		})
		if err != nil {
			return res, fmt.Errorf("sending approve: %w", err)
		}
		res.ApproveHash = hash
		plan.Approval = ApprovalPending
		log.WithFields(log.Fields{"tx": hash, "token": req.Token}).Info("approve sent")
		onStage(Event{Stage: StageApproveSent, Hash: hash})

		receipt, err := e.client.WaitForReceipt(ctx, hash, e.timeout)
		if err != nil {
			return res, fmt.Errorf("approve: %w", err)
		}
		plan.Approval = ApprovalGranted
		onStage(Event{Stage: StageApproveConfirmed, Hash: hash, Receipt: receipt})
	}

	hash, err := e.sender.Send(contract.Call{
		To:          req.Contract.Hex(),
		Data:        plan.Calldata,
		Value:       plan.Value,
		GasFallback: plan.Gas,
	})
	if err != nil {
		return res, fmt.Errorf("sending %s: %w", plan.Method, err)
	}
	res.DisperseHash = hash
	log.WithFields(log.Fields{
		"tx":         hash,
		"method":     plan.Method,
		"recipients": plan.Batch.Len(),
	}).Info("disperse sent")
	onStage(Event{Stage: StageDisperseSent, Hash: hash})

	receipt, err := e.client.WaitForReceipt(ctx, hash, e.timeout)
	res.Receipt = receipt
	if err != nil {
		return res, fmt.Errorf("%s: %w", plan.Method, err)
	}
	onStage(Event{Stage: StageDisperseConfirmed, Hash: hash, Receipt: receipt})
	return res, nil
}

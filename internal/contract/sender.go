package contract

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/multisender/internal/chain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// SendClient is the JSON-RPC surface needed to build and broadcast a write.
// *chain.EVMClient satisfies it.
type SendClient interface {
	EstimateGas(from, to, data string, value *big.Int) (uint64, error)
	GasPrice() (*big.Int, error)
	GetPendingNonce(address string) (uint64, error)
	SendRawTransaction(rawTx string) (string, error)
}

// TxSigner signs transactions for one account. *wallet.Signer satisfies it.
type TxSigner interface {
	SignTx(tx *types.Transaction, chainID *big.Int) ([]byte, error)
	Address() string
}

// Sender signs and broadcasts contract writes as EIP-1559 transactions.
type Sender struct {
	client  SendClient
	signer  TxSigner
	chainID *big.Int
}

// NewSender creates a Sender.
func NewSender(client SendClient, signer TxSigner, chainID *big.Int) *Sender {
	return &Sender{client: client, signer: signer, chainID: chainID}
}

// Call is one contract write: calldata plus optional native value.
type Call struct {
	To          string
	Data        []byte
	Value       *big.Int
	GasFallback uint64 // used when eth_estimateGas fails
}

// Send estimates gas, signs and broadcasts call. Returns the transaction hash.
func (s *Sender) Send(call Call) (string, error) {
	from := s.signer.Address()
	value := call.Value
	if value == nil {
		value = big.NewInt(0)
	}
	dataHex := "0x" + hex.EncodeToString(call.Data)

	gas, err := s.client.EstimateGas(from, call.To, dataHex, value)
	if err != nil {
		if call.GasFallback == 0 {
			return "", fmt.Errorf("estimating gas: %w", err)
		}
		gas = call.GasFallback
	} else {
		gas = gas * 12 / 10 // 20% headroom
	}

	gasPrice, err := s.client.GasPrice()
	if err != nil {
		return "", fmt.Errorf("getting gas price: %w", err)
	}

	nonce, err := s.client.GetPendingNonce(from)
	if err != nil {
		return "", fmt.Errorf("getting nonce: %w", err)
	}

	to := common.HexToAddress(call.To)
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   s.chainID,
		Nonce:     nonce,
		GasTipCap: gasPrice,
		GasFeeCap: chain.FeeCap(gasPrice),
		Gas:       gas,
		To:        &to,
		Value:     value,
		Data:      call.Data,
	})

	raw, err := s.signer.SignTx(tx, s.chainID)
	if err != nil {
		return "", fmt.Errorf("signing transaction: %w", err)
	}

	hash, err := s.client.SendRawTransaction("0x" + hex.EncodeToString(raw))
	if err != nil {
		return "", fmt.Errorf("broadcasting transaction: %w", err)
	}
	return hash, nil
}

// HexToBytes decodes a 0x-prefixed hex string; an odd length gets a leading zero.
func HexToBytes(s string) ([]byte, error) {
	s = trimHexPrefix(s)
	if len(s)%2 != 0 {
		s = "0" + s
	}
	return hex.DecodeString(s)
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X") {
		return s[2:]
	}
	return s
}

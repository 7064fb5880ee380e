package domain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
)

// TxHandle follows one submitted transaction. Every orchestrated call owns its
// own handle; handles are never shared between calls.
type TxHandle struct {
	CallID      uuid.UUID   `json:"call_id" yaml:"call_id"`
	Op          string      `json:"op" yaml:"op"`
	Hash        common.Hash `json:"hash" yaml:"hash"`
	SubmitTime  time.Time   `json:"submit_time" yaml:"submit_time"`
	ConfirmTime *time.Time  `json:"confirm_time" yaml:"confirm_time"`
	receipt     *types.Receipt
}

func NewTxHandle(op string, tx *types.Transaction) *TxHandle {
	h := &TxHandle{
		CallID:     uuid.New(),
		Op:         op,
		SubmitTime: time.Now(),
	}
	if tx != nil {
		h.Hash = tx.Hash()
	}
	return h
}

// Confirm attaches the mined receipt.
func (h *TxHandle) Confirm(receipt *types.Receipt, at time.Time) {
	h.receipt = receipt
	h.ConfirmTime = &at
}

func (h *TxHandle) Receipt() *types.Receipt {
	return h.receipt
}

func (h *TxHandle) Confirmed() bool {
	return h.receipt != nil
}

func (h *TxHandle) Succeeded() bool {
	return h.receipt != nil && h.receipt.Status == types.ReceiptStatusSuccessful
}

func (h *TxHandle) BlockNumber() uint64 {
	if h.receipt == nil || h.receipt.BlockNumber == nil {
		return 0
	}
	return h.receipt.BlockNumber.Uint64()
}

func (h *TxHandle) GasUsed() uint64 {
	if h.receipt == nil {
		return 0
	}
	return h.receipt.GasUsed
}

// Latency is the time between submission and confirmation.
func (h *TxHandle) Latency() time.Duration {
	if h.ConfirmTime == nil {
		return 0
	}
	return h.ConfirmTime.Sub(h.SubmitTime)
}

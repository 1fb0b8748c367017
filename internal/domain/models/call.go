package models

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-dao/pkg/multisend"
)

// Operation is the Safe operation type of a call
type Operation uint8

const (
	OperationCall         Operation = 0
	OperationDelegateCall Operation = 1
)

func (o Operation) String() string {
	if o == OperationDelegateCall {
		return "DELEGATECALL"
	}
	return "CALL"
}

// EncodedCall is a single contract call ready to be sent or batched
type EncodedCall struct {
	Target    common.Address `json:"target"`
	Value     *big.Int       `json:"value"`
	Data      []byte         `json:"data"`
	Operation Operation      `json:"operation"`

	// Display only
	Contract string `json:"contract,omitempty"`
	Method   string `json:"method,omitempty"`
}

// Label renders Contract.method for tables and logs
func (c *EncodedCall) Label() string {
	if c.Contract == "" {
		return c.Method
	}
	return c.Contract + "." + c.Method
}

// ErrBatchFrozen is returned when appending to an already packed batch
var ErrBatchFrozen = errors.New("batch already packed")

// TransactionBatch is an ordered list of calls executed atomically by the
// multisend contract. Once packed it cannot be changed.
type TransactionBatch struct {
	calls  []*EncodedCall
	packed []byte
}

// NewTransactionBatch creates a batch from calls in execution order
func NewTransactionBatch(calls ...*EncodedCall) *TransactionBatch {
	return &TransactionBatch{calls: append([]*EncodedCall(nil), calls...)}
}

// Append adds calls to the end of the batch
func (b *TransactionBatch) Append(calls ...*EncodedCall) error {
	if b.packed != nil {
		return ErrBatchFrozen
	}
	b.calls = append(b.calls, calls...)
	return nil
}

// Calls returns a copy of the calls in order
func (b *TransactionBatch) Calls() []*EncodedCall {
	return append([]*EncodedCall(nil), b.calls...)
}

// Len returns the number of calls
func (b *TransactionBatch) Len() int { return len(b.calls) }

// Pack freezes the batch and returns its multisend encoding. Repeated calls
// return the same bytes. A batch that fails to pack stays unfrozen.
func (b *TransactionBatch) Pack() ([]byte, error) {
	if b.packed == nil {
		packed, err := multisend.Pack(lo.Map(b.calls, func(c *EncodedCall, _ int) multisend.Call {
			return multisend.Call{
				Operation: uint8(c.Operation),
				To:        c.Target,
				Value:     c.Value,
				Data:      c.Data,
			}
		}))
		if err != nil {
			return nil, err
		}
		b.packed = packed
	}
	return common.CopyBytes(b.packed), nil
}

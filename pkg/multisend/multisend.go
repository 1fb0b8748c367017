// Package multisend packs ordered calls into the byte layout consumed by the
// Safe MultiSend and MultiSendCallOnly contracts.
//
// Each call is encoded as
//
//	operation (1 byte) ++ to (20 bytes) ++ value (32 bytes) ++ dataLength (32 bytes) ++ data
//
// and calls are concatenated in order with no padding between them.
package multisend

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
)

// headerSize is the fixed prefix of every packed call.
const headerSize = 1 + common.AddressLength + 32 + 32

// ErrMalformedBatch is returned by Unpack when the input does not follow the
// packed layout.
var ErrMalformedBatch = errors.New("malformed multisend batch")

// ErrValueOutOfRange is returned by Pack when a call value does not fit in
// an unsigned 256-bit word.
var ErrValueOutOfRange = errors.New("call value out of uint256 range")

// Call is one entry in a batch.
type Call struct {
	Operation uint8
	To        common.Address
	Value     *big.Int
	Data      []byte
}

// Pack concatenates calls in order. A nil Value packs as zero. Values that
// are negative or wider than 256 bits are rejected.
func Pack(calls []Call) ([]byte, error) {
	out := make([]byte, 0, PackedLength(calls))
	for i, c := range calls {
		value := c.Value
		if value == nil {
			value = new(big.Int)
		}
		if value.Sign() < 0 || value.BitLen() > 256 {
			return nil, fmt.Errorf("%w: call %d has value %s", ErrValueOutOfRange, i, value)
		}

		out = append(out, c.Operation)
		out = append(out, c.To.Bytes()...)
		out = append(out, math.U256Bytes(new(big.Int).Set(value))...)
		out = append(out, math.U256Bytes(big.NewInt(int64(len(c.Data))))...)
		out = append(out, c.Data...)
	}
	return out, nil
}

// PackedLength is the byte length Pack produces for calls.
func PackedLength(calls []Call) int {
	n := 0
	for _, c := range calls {
		n += headerSize + len(c.Data)
	}
	return n
}

// Unpack reverses Pack.
func Unpack(packed []byte) ([]Call, error) {
	var calls []Call
	for offset := 0; offset < len(packed); {
		if len(packed)-offset < headerSize {
			return nil, fmt.Errorf("%w: truncated header at offset %d", ErrMalformedBatch, offset)
		}

		op := packed[offset]
		if op > 1 {
			return nil, fmt.Errorf("%w: unknown operation %d at offset %d", ErrMalformedBatch, op, offset)
		}
		to := common.BytesToAddress(packed[offset+1 : offset+21])
		value := new(big.Int).SetBytes(packed[offset+21 : offset+53])
		length := new(big.Int).SetBytes(packed[offset+53 : offset+85])
		offset += headerSize

		if !length.IsInt64() || length.Int64() > int64(len(packed)-offset) {
			return nil, fmt.Errorf("%w: data length %s overruns input at offset %d", ErrMalformedBatch, length, offset)
		}
		end := offset + int(length.Int64())

		calls = append(calls, Call{
			Operation: op,
			To:        to,
			Value:     value,
			Data:      common.CopyBytes(packed[offset:end]),
		})
		offset = end
	}
	return calls, nil
}

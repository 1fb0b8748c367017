package models

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-dao/pkg/multisend"
)

func TestTransactionBatchPack(t *testing.T) {
	call := &EncodedCall{Target: common.HexToAddress("0x01"), Value: big.NewInt(0), Data: []byte{0x01}}

	t.Run("freezes after packing", func(t *testing.T) {
		batch := NewTransactionBatch(call)
		first, err := batch.Pack()
		require.NoError(t, err)
		second, err := batch.Pack()
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.ErrorIs(t, batch.Append(call), ErrBatchFrozen)
	})

	t.Run("rejects negative value", func(t *testing.T) {
		bad := &EncodedCall{Target: common.HexToAddress("0x02"), Value: big.NewInt(-1)}
		batch := NewTransactionBatch(call, bad)
		_, err := batch.Pack()
		assert.ErrorIs(t, err, multisend.ErrValueOutOfRange)
		assert.NoError(t, batch.Append(call))
	})
}

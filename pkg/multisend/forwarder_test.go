package multisend_test

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-dao/internal/adapters/abi"
	"github.com/trebuchet-org/treb-dao/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
	"github.com/trebuchet-org/treb-dao/internal/testutil"
	"github.com/trebuchet-org/treb-dao/pkg/multisend"
)

var (
	forwarder = common.HexToAddress("0x40A2aCCbd92BCA938b02010E17A5b8929b49130D")
	recorder  = common.HexToAddress("0x00000000000000000000000000000000000c0de1")
)

func newForwarderChain(t *testing.T) *testutil.SimChain {
	t.Helper()
	return testutil.NewSimChain(t, types.GenesisAlloc{
		forwarder: {Code: testutil.CallOnlyForwarderCode(), Balance: big.NewInt(0)},
		recorder:  {Code: testutil.RecorderCode(), Balance: big.NewInt(0)},
	})
}

func sendBatch(t *testing.T, chain *testutil.SimChain, calls []multisend.Call) *types.Receipt {
	t.Helper()
	packed, err := multisend.Pack(calls)
	require.NoError(t, err)
	enc := abi.NewEncoder(bindings.ForNetwork(config.NetworkKindLocal))
	data, err := enc.Pack(bindings.MultiSend, "multiSend", packed)
	require.NoError(t, err)
	return chain.Send(t, forwarder, data, 1_000_000)
}

func recordCall(v uint64) multisend.Call {
	return multisend.Call{To: recorder, Value: big.NewInt(0), Data: testutil.RecorderWord(v)}
}

func TestForwarderExecutesInOrder(t *testing.T) {
	chain := newForwarderChain(t)

	receipt := sendBatch(t, chain, []multisend.Call{recordCall(11), recordCall(22), recordCall(33)})
	require.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)

	assert.Equal(t, int64(3), chain.Storage(t, recorder, 0).Int64())
	for i, want := range []int64{11, 22, 33} {
		assert.Equal(t, want, chain.Storage(t, recorder, uint64(i+1)).Int64(), "slot %d", i+1)
	}
}

func TestForwarderIsAtomic(t *testing.T) {
	const size = 4

	for position := 1; position <= size; position++ {
		t.Run(fmt.Sprintf("reverting call at %d", position), func(t *testing.T) {
			chain := newForwarderChain(t)

			calls := make([]multisend.Call, 0, size)
			for i := 1; i <= size; i++ {
				if i == position {
					calls = append(calls, recordCall(0))
					continue
				}
				calls = append(calls, recordCall(uint64(i*10)))
			}

			receipt := sendBatch(t, chain, calls)
			assert.Equal(t, types.ReceiptStatusFailed, receipt.Status)
			for slot := uint64(0); slot <= size; slot++ {
				assert.Zero(t, chain.Storage(t, recorder, slot).Sign(), "slot %d", slot)
			}
		})
	}

	t.Run("delegatecall entry", func(t *testing.T) {
		chain := newForwarderChain(t)
		delegate := recordCall(7)
		delegate.Operation = 1

		receipt := sendBatch(t, chain, []multisend.Call{recordCall(5), delegate})
		assert.Equal(t, types.ReceiptStatusFailed, receipt.Status)
		assert.Zero(t, chain.Storage(t, recorder, 0).Sign())
	})
}

package txbuilder

import (
	"testing"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-dao/internal/adapters/abi"
	"github.com/trebuchet-org/treb-dao/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
)

func TestThreshold(t *testing.T) {
	tests := []struct {
		keypers int
		ratio   float64
		want    uint64
	}{
		{keypers: 1, ratio: 1, want: 1},
		{keypers: 3, ratio: 0.5, want: 2},
		{keypers: 4, ratio: 0.5, want: 2},
		{keypers: 5, ratio: 0.66, want: 4},
		{keypers: 10, ratio: 0.1, want: 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Threshold(tt.keypers, tt.ratio), "%d keypers at %v", tt.keypers, tt.ratio)
	}
}

func TestKeyperSetBuilder(t *testing.T) {
	enc := abi.NewEncoder(bindings.ForNetwork(config.NetworkKindLocal))
	safe := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	cfg := &config.KeyperSetConfig{
		Keypers: []common.Address{
			common.HexToAddress("0x0000000000000000000000000000000000000b01"),
			common.HexToAddress("0x0000000000000000000000000000000000000b02"),
			common.HexToAddress("0x0000000000000000000000000000000000000b03"),
		},
		Collator:        common.HexToAddress("0x0000000000000000000000000000000000000c01"),
		ThresholdRatio:  0.5,
		ActivationBlock: 1234,
	}
	contracts := KeyperSetContracts{
		Keypers:             common.HexToAddress("0x0000000000000000000000000000000000000d01"),
		KeypersConfigsList:  common.HexToAddress("0x0000000000000000000000000000000000000d02"),
		Collator:            common.HexToAddress("0x0000000000000000000000000000000000000d03"),
		CollatorConfigsList: common.HexToAddress("0x0000000000000000000000000000000000000d04"),
	}
	b := NewKeyperSetBuilder(enc, cfg, contracts, safe)

	calls, err := b.BuildAll()
	require.NoError(t, err)
	require.Len(t, calls, 10)

	labels := make([]string, len(calls))
	targets := make([]common.Address, len(calls))
	for i, c := range calls {
		labels[i] = c.Label()
		targets[i] = c.Target
	}
	assert.Equal(t, []string{
		"AddrsSeq.add", "AddrsSeq.append", "AddrsSeq.transferOwnership",
		"KeypersConfigsList.addNewCfg", "KeypersConfigsList.transferOwnership",
		"AddrsSeq.add", "AddrsSeq.append", "AddrsSeq.transferOwnership",
		"CollatorConfigsList.addNewCfg", "CollatorConfigsList.transferOwnership",
	}, labels)
	assert.Equal(t, []common.Address{
		contracts.Keypers, contracts.Keypers, contracts.Keypers,
		contracts.KeypersConfigsList, contracts.KeypersConfigsList,
		contracts.Collator, contracts.Collator, contracts.Collator,
		contracts.CollatorConfigsList, contracts.CollatorConfigsList,
	}, targets)

	t.Run("keypers added", func(t *testing.T) {
		args := decodeArgs(t, bindings.AddrsSeq, calls[0].Data)
		assert.Equal(t, cfg.Keypers, args[0])
	})

	t.Run("keyper config", func(t *testing.T) {
		args := decodeArgs(t, bindings.KeypersConfigsList, calls[3].Data)
		cfgArg := gethabi.ConvertType(args[0], new(bindings.KeypersConfig)).(*bindings.KeypersConfig)
		assert.Equal(t, uint64(1234), cfgArg.ActivationBlockNumber)
		assert.Equal(t, uint64(1), cfgArg.SetIndex)
		assert.Equal(t, uint64(2), cfgArg.Threshold)
	})

	t.Run("collator added", func(t *testing.T) {
		args := decodeArgs(t, bindings.AddrsSeq, calls[5].Data)
		assert.Equal(t, []common.Address{cfg.Collator}, args[0])
	})

	t.Run("ownership goes to the safe", func(t *testing.T) {
		for _, i := range []int{2, 4, 7, 9} {
			args := decodeArgs(t, calls[i].Contract, calls[i].Data)
			assert.Equal(t, safe, args[0], "call %d", i)
		}
	})
}

func TestBuildTokenInitializeTx(t *testing.T) {
	enc := abi.NewEncoder(bindings.ForNetwork(config.NetworkKindLocal))
	token := common.HexToAddress("0x0000000000000000000000000000000000000e01")
	safe := common.HexToAddress("0x0000000000000000000000000000000000000e02")
	airdrop := common.HexToAddress("0x0000000000000000000000000000000000000e03")
	spt := common.HexToAddress("0x0000000000000000000000000000000000000e04")

	t.Run("without conversion contract", func(t *testing.T) {
		call, err := BuildTokenInitializeTx(enc, token, safe, nil, airdrop)
		require.NoError(t, err)
		assert.Equal(t, token, call.Target)
		args := decodeArgs(t, bindings.ShutterToken, call.Data)
		assert.Equal(t, []any{safe, safe, airdrop}, args)
	})

	t.Run("with conversion contract", func(t *testing.T) {
		call, err := BuildTokenInitializeTx(enc, token, safe, &spt, airdrop)
		require.NoError(t, err)
		args := decodeArgs(t, bindings.ShutterToken, call.Data)
		assert.Equal(t, []any{safe, spt, airdrop}, args)
	})
}

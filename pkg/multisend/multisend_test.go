package multisend

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackLayout(t *testing.T) {
	to := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	packed, err := Pack([]Call{{Operation: 1, To: to, Value: big.NewInt(5), Data: []byte{0xde, 0xad}}})
	require.NoError(t, err)

	require.Len(t, packed, 85+2)
	assert.Equal(t, byte(1), packed[0])
	assert.Equal(t, to.Bytes(), packed[1:21])
	assert.Equal(t, common.LeftPadBytes([]byte{5}, 32), packed[21:53])
	assert.Equal(t, common.LeftPadBytes([]byte{2}, 32), packed[53:85])
	assert.Equal(t, []byte{0xde, 0xad}, packed[85:])
}

func TestPackThreeCalls(t *testing.T) {
	calls := []Call{
		{Operation: 0, To: common.HexToAddress("0x01"), Value: big.NewInt(0), Data: make([]byte, 4)},
		{Operation: 0, To: common.HexToAddress("0x02"), Value: big.NewInt(0), Data: make([]byte, 36)},
		{Operation: 0, To: common.HexToAddress("0x03"), Value: big.NewInt(0), Data: make([]byte, 68)},
	}

	packed, err := Pack(calls)
	require.NoError(t, err)
	assert.Len(t, packed, 3*85+4+36+68)
	assert.Equal(t, PackedLength(calls), len(packed))

	t.Run("call boundaries", func(t *testing.T) {
		assert.Equal(t, common.HexToAddress("0x01").Bytes(), packed[1:21])
		second := 85 + 4
		assert.Equal(t, common.HexToAddress("0x02").Bytes(), packed[second+1:second+21])
		third := second + 85 + 36
		assert.Equal(t, common.HexToAddress("0x03").Bytes(), packed[third+1:third+21])
	})

	t.Run("unpack preserves order", func(t *testing.T) {
		got, err := Unpack(packed)
		require.NoError(t, err)
		require.Len(t, got, 3)
		for i, c := range got {
			assert.Equal(t, calls[i].To, c.To)
			assert.Equal(t, len(calls[i].Data), len(c.Data))
			assert.Equal(t, uint8(0), c.Operation)
		}
	})
}

func TestPackNilValue(t *testing.T) {
	packed, err := Pack([]Call{{To: common.HexToAddress("0x01")}})
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 32), packed[21:53])
	assert.Equal(t, make([]byte, 32), packed[53:85])
}

func TestPackEmpty(t *testing.T) {
	packed, err := Pack(nil)
	require.NoError(t, err)
	assert.Empty(t, packed)
	calls, err := Unpack(nil)
	require.NoError(t, err)
	assert.Empty(t, calls)
}

func TestUnpackMalformed(t *testing.T) {
	valid, err := Pack([]Call{{To: common.HexToAddress("0x01"), Data: []byte{1, 2, 3}}})
	require.NoError(t, err)

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "truncated header", input: valid[:40]},
		{name: "truncated data", input: valid[:len(valid)-1]},
		{name: "unknown operation", input: append([]byte{7}, valid[1:]...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unpack(tt.input)
			assert.ErrorIs(t, err, ErrMalformedBatch)
		})
	}
}

func TestPackValueRange(t *testing.T) {
	maxUint256 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

	tests := []struct {
		name    string
		value   *big.Int
		wantErr bool
	}{
		{name: "zero", value: big.NewInt(0)},
		{name: "max uint256", value: maxUint256},
		{name: "2^256", value: new(big.Int).Lsh(big.NewInt(1), 256), wantErr: true},
		{name: "2^300", value: new(big.Int).Lsh(big.NewInt(1), 300), wantErr: true},
		{name: "negative", value: big.NewInt(-5), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := []Call{
				{To: common.HexToAddress("0x01"), Value: big.NewInt(1)},
				{To: common.HexToAddress("0x02"), Value: tt.value, Data: []byte{0xaa}},
			}
			packed, err := Pack(calls)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValueOutOfRange)
				assert.Contains(t, err.Error(), "call 1")
				assert.Nil(t, packed)
				return
			}
			require.NoError(t, err)
			require.Len(t, packed, PackedLength(calls))

			got, err := Unpack(packed)
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, 0, tt.value.Cmp(got[1].Value))
		})
	}
}

package create2

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-dao/internal/testutil"
)

func TestPredictAddress(t *testing.T) {
	tests := []struct {
		name     string
		factory  string
		salt     string
		initCode string
		want     string
	}{
		{
			name:     "zero factory and salt",
			factory:  "0x0000000000000000000000000000000000000000",
			salt:     "0x0000000000000000000000000000000000000000000000000000000000000000",
			initCode: "0x00",
			want:     "0x4D1A2e2bB4F88F0250f26Ffff098B0b30B26BF38",
		},
		{
			name:     "deadbeef factory with cafebabe salt",
			factory:  "0x00000000000000000000000000000000deadbeef",
			salt:     "0x00000000000000000000000000000000000000000000000000000000cafebabe",
			initCode: "0xdeadbeef",
			want:     "0x60f3f640a8508fC6a86d45DF051962668E1e8AC7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PredictAddress(
				common.HexToAddress(tt.factory),
				common.HexToHash(tt.salt),
				crypto.Keccak256Hash(common.FromHex(tt.initCode)),
			)
			assert.Equal(t, common.HexToAddress(tt.want), got)
		})
	}
}

func TestPredictAddressMatchesManualLayout(t *testing.T) {
	factory := common.HexToAddress("0xf48588f9d5f2f2d5d2c02a8d50b0b1f2a2e3c9f1")
	salt := common.HexToHash("0x01")
	initHash := crypto.Keccak256Hash([]byte("init"))

	buf := []byte{0xff}
	buf = append(buf, factory.Bytes()...)
	buf = append(buf, salt.Bytes()...)
	buf = append(buf, initHash.Bytes()...)
	want := common.BytesToAddress(crypto.Keccak256(buf)[12:])

	assert.Equal(t, want, PredictAddress(factory, salt, initHash))
	// repeated calls agree
	assert.Equal(t, PredictAddress(factory, salt, initHash), PredictAddress(factory, salt, initHash))
}

func TestSalt(t *testing.T) {
	setup := common.FromHex("0xa4f9edbf000000000000000000000000000000000000000000000000000000000000002a")
	nonceA := NonceFromBig(big.NewInt(1))
	nonceB := NonceFromBig(big.NewInt(2))

	t.Run("matches keccak of setup hash and nonce", func(t *testing.T) {
		want := crypto.Keccak256(append(crypto.Keccak256(setup), nonceA[:]...))
		got := Salt(setup, nonceA)
		assert.Equal(t, want, got[:])
	})

	t.Run("different nonces give different salts", func(t *testing.T) {
		assert.NotEqual(t, Salt(setup, nonceA), Salt(setup, nonceB))
	})

	t.Run("different setup gives different salt", func(t *testing.T) {
		other := append(append([]byte{}, setup...), 0x01)
		assert.NotEqual(t, Salt(setup, nonceA), Salt(other, nonceA))
	})
}

func TestMinimalProxyInitCode(t *testing.T) {
	master := common.HexToAddress("0x1111111111111111111111111111111111111111")
	code := MinimalProxyInitCode(master)

	want := common.FromHex("0x602d8060093d393df3363d3d373d3d3d363d73" +
		"1111111111111111111111111111111111111111" +
		"5af43d82803e903d91602b57fd5bf3")
	assert.Equal(t, want, code)
	assert.Len(t, code, 54)
	assert.Equal(t, crypto.Keccak256Hash(want), MinimalProxyInitCodeHash(master))
}

func TestSafeProxyInitCodeHash(t *testing.T) {
	creation := common.FromHex("0x608060405234801561001057600080fd5b50")
	singleton := common.HexToAddress("0xd9Db270c1B5E3Bd161E8c8503c55cEABeE709552")

	want := crypto.Keccak256Hash(append(append([]byte{}, creation...), common.LeftPadBytes(singleton.Bytes(), 32)...))
	assert.Equal(t, want, SafeProxyInitCodeHash(creation, singleton))
}

func TestRandomNonce(t *testing.T) {
	a, err := RandomNonce()
	require.NoError(t, err)
	b, err := RandomNonce()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, [32]byte{}, a)
}

func TestParseNonce(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *big.Int
		wantErr bool
	}{
		{name: "hex", input: "0x2a", want: big.NewInt(42)},
		{name: "odd length hex", input: "0xabc", want: big.NewInt(0xabc)},
		{name: "decimal", input: "42", want: big.NewInt(42)},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "nonce", wantErr: true},
		{name: "too long", input: "0x01" + strings.Repeat("00", 32), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNonce(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 0, tt.want.Cmp(NonceToBig(got)))
		})
	}
}

func TestPredictionMatchesChain(t *testing.T) {
	chain := testutil.NewSimChain(t, nil)
	factory := testutil.DeterministicDeployer

	t.Run("module proxy", func(t *testing.T) {
		master := common.HexToAddress("0x2222222222222222222222222222222222222222")
		nonce, err := RandomNonce()
		require.NoError(t, err)
		salt := Salt([]byte("setUp"), nonce)

		predicted := PredictAddress(factory, salt, MinimalProxyInitCodeHash(master))
		require.Empty(t, chain.Code(t, predicted))

		chain.DeployCreate2(t, salt, MinimalProxyInitCode(master))

		runtime := common.FromHex("0x363d3d373d3d3d363d73" +
			"2222222222222222222222222222222222222222" +
			"5af43d82803e903d91602b57fd5bf3")
		assert.Equal(t, runtime, chain.Code(t, predicted))
	})

	t.Run("safe style init code with appended singleton", func(t *testing.T) {
		creation := MinimalProxyInitCode(common.HexToAddress("0x3333333333333333333333333333333333333333"))
		singleton := common.HexToAddress("0xd9Db270c1B5E3Bd161E8c8503c55cEABeE709552")
		salt := Salt([]byte("setup"), NonceFromBig(big.NewInt(7)))

		predicted := PredictAddress(factory, salt, SafeProxyInitCodeHash(creation, singleton))

		initCode := append(append([]byte{}, creation...), common.LeftPadBytes(singleton.Bytes(), 32)...)
		chain.DeployCreate2(t, salt, initCode)

		assert.NotEmpty(t, chain.Code(t, predicted))
	})
}

package vesting

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVesting() Vesting {
	return Vesting{
		Owner:         common.HexToAddress("0x1111111111111111111111111111111111111111"),
		CurveType:     CurveLinear,
		DurationWeeks: 208,
		StartDate:     1_650_000_000,
		Amount:        new(big.Int).Mul(big.NewInt(1000), big.NewInt(1e18)),
		InitialUnlock: big.NewInt(0),
		RequiresSPT:   true,
	}
}

func TestDomainSeparator(t *testing.T) {
	// keccak(typehash ++ offset(name) ++ offset(version) ++ len ++ name ++ len ++ version)
	word := func(n int64) []byte { return math.U256Bytes(big.NewInt(n)) }
	padded := func(s string) []byte { return common.RightPadBytes([]byte(s), 32) }

	var encoded []byte
	encoded = append(encoded, domainTypeHash[:]...)
	encoded = append(encoded, word(0x60)...)
	encoded = append(encoded, word(0xa0)...)
	encoded = append(encoded, word(int64(len(DomainName)))...)
	encoded = append(encoded, padded(DomainName)...)
	encoded = append(encoded, word(int64(len(DomainVersion)))...)
	encoded = append(encoded, padded(DomainVersion)...)

	assert.Equal(t, crypto.Keccak256Hash(encoded), DomainSeparator())
}

func TestVestingHash(t *testing.T) {
	base := testVesting()
	baseHash, err := base.Hash()
	require.NoError(t, err)

	same := testVesting()
	again, err := same.Hash()
	require.NoError(t, err)
	assert.Equal(t, baseHash, again)

	mutations := []struct {
		name   string
		mutate func(v *Vesting)
	}{
		{"owner", func(v *Vesting) { v.Owner = common.HexToAddress("0x2222222222222222222222222222222222222222") }},
		{"curve", func(v *Vesting) { v.CurveType = CurveExponential }},
		{"managed", func(v *Vesting) { v.Managed = true }},
		{"duration", func(v *Vesting) { v.DurationWeeks = 104 }},
		{"start", func(v *Vesting) { v.StartDate++ }},
		{"amount", func(v *Vesting) { v.Amount = big.NewInt(1) }},
		{"unlock", func(v *Vesting) { v.InitialUnlock = big.NewInt(1) }},
		{"spt", func(v *Vesting) { v.RequiresSPT = false }},
	}
	for _, tt := range mutations {
		t.Run(tt.name, func(t *testing.T) {
			v := testVesting()
			tt.mutate(&v)
			h, err := v.Hash()
			require.NoError(t, err)
			assert.NotEqual(t, baseHash, h)
		})
	}
}

func TestVestingHash_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(v *Vesting)
		errMsg string
	}{
		{"missing amount", func(v *Vesting) { v.Amount = nil }, "amount is required"},
		{"negative amount", func(v *Vesting) { v.Amount = big.NewInt(-1) }, "uint128"},
		{"amount overflow", func(v *Vesting) { v.Amount = new(big.Int).Lsh(big.NewInt(1), 128) }, "uint128"},
		{"unlock above amount", func(v *Vesting) { v.InitialUnlock = new(big.Int).Add(v.Amount, big.NewInt(1)) }, "exceeds amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := testVesting()
			tt.mutate(&v)
			_, err := v.Hash()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	v := testVesting()
	v.InitialUnlock = nil
	_, err := v.Hash()
	assert.NoError(t, err, "nil initial unlock means zero")
}

func leaves(n int) []common.Hash {
	out := make([]common.Hash, n)
	for i := range out {
		out[i] = crypto.Keccak256Hash([]byte{byte(i)})
	}
	return out
}

func TestTree(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := NewTree(nil)
		assert.ErrorIs(t, err, ErrEmptyTree)
	})

	t.Run("single leaf is the root", func(t *testing.T) {
		l := leaves(1)
		tree, err := NewTree(l)
		require.NoError(t, err)
		assert.Equal(t, l[0], tree.Root())
		proof, err := tree.Proof(0)
		require.NoError(t, err)
		assert.Empty(t, proof)
	})

	t.Run("pair order does not matter", func(t *testing.T) {
		l := leaves(2)
		a, err := NewTree(l)
		require.NoError(t, err)
		b, err := NewTree([]common.Hash{l[1], l[0]})
		require.NoError(t, err)
		assert.Equal(t, a.Root(), b.Root())
	})

	for n := 1; n <= 9; n++ {
		l := leaves(n)
		tree, err := NewTree(l)
		require.NoError(t, err)
		for i, leaf := range l {
			proof, err := tree.Proof(i)
			require.NoError(t, err)
			assert.True(t, Verify(tree.Root(), leaf, proof), "n=%d leaf=%d", n, i)
			assert.False(t, Verify(tree.Root(), crypto.Keccak256Hash(leaf[:]), proof), "n=%d leaf=%d", n, i)
		}
		_, err = tree.Proof(n)
		assert.Error(t, err)
	}
}

func TestRoot(t *testing.T) {
	a := testVesting()
	b := testVesting()
	b.Owner = common.HexToAddress("0x3333333333333333333333333333333333333333")

	root, hashes, err := Root([]Vesting{a, b})
	require.NoError(t, err)
	require.Len(t, hashes, 2)

	ha, _ := a.Hash()
	hb, _ := b.Hash()
	assert.Equal(t, []common.Hash{ha, hb}, hashes)
	assert.Equal(t, hashPair(ha, hb), root)

	b.Amount = nil
	_, _, err = Root([]Vesting{a, b})
	assert.Error(t, err)
}

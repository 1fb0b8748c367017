// Package testutil provides an in-process chain for tests that need real
// EVM semantics (CREATE2, code checks, receipts).
package testutil

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/require"
)

// DeterministicDeployer is the address of the keyless CREATE2 deployment
// proxy present on most EVM chains. Calldata is salt ++ initCode, the
// return value is the 20-byte address of the created contract.
var DeterministicDeployer = common.HexToAddress("0x4e59b44847b379578588920cA78FbF26c0B4956C")

var deterministicDeployerCode = common.FromHex("0x7fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffe03601600081602082378035828234f58015156039578182fd5b8082525050506014600cf3")

// SimChain wraps a simulated backend with a funded account.
type SimChain struct {
	Backend *simulated.Backend
	Client  simulated.Client
	Key     *ecdsa.PrivateKey
	From    common.Address
	ChainID *big.Int
}

// NewSimChain starts a simulated chain with the deterministic deployer
// pre-installed plus any extra genesis accounts.
func NewSimChain(t *testing.T, extra types.GenesisAlloc) *SimChain {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	from := crypto.PubkeyToAddress(key.PublicKey)

	balance := new(big.Int).Mul(big.NewInt(1000), big.NewInt(params.Ether))
	alloc := types.GenesisAlloc{
		from:                  {Balance: balance},
		DeterministicDeployer: {Code: deterministicDeployerCode, Balance: big.NewInt(0)},
	}
	for addr, account := range extra {
		alloc[addr] = account
	}

	backend := simulated.NewBackend(alloc)
	t.Cleanup(func() { _ = backend.Close() })

	client := backend.Client()
	chainID, err := client.ChainID(context.Background())
	require.NoError(t, err)

	return &SimChain{
		Backend: backend,
		Client:  client,
		Key:     key,
		From:    from,
		ChainID: chainID,
	}
}

// Send signs and submits a transaction from the funded account, mines a
// block and returns the receipt.
func (c *SimChain) Send(t *testing.T, to common.Address, data []byte, gas uint64) *types.Receipt {
	t.Helper()
	ctx := context.Background()

	nonce, err := c.Client.PendingNonceAt(ctx, c.From)
	require.NoError(t, err)

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   c.ChainID,
		Nonce:     nonce,
		GasTipCap: big.NewInt(params.GWei),
		GasFeeCap: big.NewInt(10 * params.GWei),
		Gas:       gas,
		To:        &to,
		Value:     big.NewInt(0),
		Data:      data,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(c.ChainID), c.Key)
	require.NoError(t, err)
	require.NoError(t, c.Client.SendTransaction(ctx, signed))

	c.Backend.Commit()

	receipt, err := c.Client.TransactionReceipt(ctx, signed.Hash())
	require.NoError(t, err)
	return receipt
}

// DeployCreate2 deploys initCode through the deterministic deployer.
func (c *SimChain) DeployCreate2(t *testing.T, salt [32]byte, initCode []byte) *types.Receipt {
	t.Helper()
	data := append(append([]byte{}, salt[:]...), initCode...)
	receipt := c.Send(t, DeterministicDeployer, data, 1_000_000)
	require.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
	return receipt
}

// Code returns the runtime code at addr on the latest block.
func (c *SimChain) Code(t *testing.T, addr common.Address) []byte {
	t.Helper()
	code, err := c.Client.CodeAt(context.Background(), addr, nil)
	require.NoError(t, err)
	return code
}

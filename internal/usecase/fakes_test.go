package usecase_test

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/mock"
	"github.com/trebuchet-org/treb-dao/internal/domain"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

const testChainID = 31337

var (
	testDeployer     = common.HexToAddress("0xd00d00d00d00d00d00d00d00d00d00d00d00d00d")
	testToken        = common.HexToAddress("0x7070707070707070707070707070707070707070")
	testCreationCode = common.FromHex("0x608060405234801561001057600080fd5b506040516101e63803806101e6833981")
)

func testContracts() config.Contracts {
	return config.Contracts{
		SafeSingleton:      common.HexToAddress("0x00000000000000000000000000000000000000a1"),
		SafeProxyFactory:   common.HexToAddress("0x00000000000000000000000000000000000000a2"),
		MultiSend:          common.HexToAddress("0x00000000000000000000000000000000000000a3"),
		ModuleProxyFactory: common.HexToAddress("0x00000000000000000000000000000000000000a4"),
		Azorius:            common.HexToAddress("0x00000000000000000000000000000000000000a5"),
		LinearERC20Voting:  common.HexToAddress("0x00000000000000000000000000000000000000a6"),
		FractalRegistry:    common.HexToAddress("0x00000000000000000000000000000000000000a7"),
		KeyValuePairs:      common.HexToAddress("0x00000000000000000000000000000000000000a8"),
	}
}

func testRuntimeConfig() *config.RuntimeConfig {
	token := testToken
	contracts := testContracts()
	contracts.Token = &token

	network := &config.Network{
		Name:      "anvil",
		Kind:      config.NetworkKindLocal,
		ChainID:   testChainID,
		RPCURL:    "http://localhost:8545",
		GasLimit:  config.DefaultGasLimit,
		Contracts: contracts,
	}
	return &config.RuntimeConfig{
		NetworkName: network.Name,
		Network:     network,
		Networks:    map[string]*config.Network{network.Name: network},
		AssumeYes:   true,
		DeployerKey: "0x01",
		DAO: &config.DAOConfig{
			Name:                         "Shutter DAO 0x36",
			SnapshotURL:                  "https://snapshot.org/#/shutterdao0x36.eth",
			VotingPeriodBlocks:           21600,
			TimelockPeriodBlocks:         7200,
			ExecutionPeriodBlocks:        14400,
			QuorumBasisNumerator:         big.NewInt(30000),
			VotingBasisNumerator:         big.NewInt(500000),
			ProposalRequiredWeightTokens: big.NewInt(1),
		},
	}
}

// counterNonces returns deterministic, distinct nonces
func counterNonces() func() ([32]byte, error) {
	var n byte
	return func() ([32]byte, error) {
		n++
		var out [32]byte
		out[31] = n
		return out, nil
	}
}

// fakeChain is an in-memory Chain. Submit hands the request to onSubmit,
// which returns the receipt Wait will deliver.
type fakeChain struct {
	mu        sync.Mutex
	chainID   *big.Int
	code      map[common.Address][]byte
	submitted []usecase.TxRequest
	calls     []ethereum.CallMsg

	onSubmit func(c *fakeChain, req usecase.TxRequest) (*types.Receipt, error)
	callFn   func(msg ethereum.CallMsg) ([]byte, error)
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		chainID: big.NewInt(testChainID),
		code:    make(map[common.Address][]byte),
	}
}

func (c *fakeChain) ChainID(context.Context) (*big.Int, error) { return c.chainID, nil }

func (c *fakeChain) CodeAt(_ context.Context, account common.Address, _ *big.Int) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.code[account], nil
}

func (c *fakeChain) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	c.mu.Lock()
	c.calls = append(c.calls, msg)
	c.mu.Unlock()
	if c.callFn == nil {
		return nil, errors.New("no call handler")
	}
	return c.callFn(msg)
}

func (c *fakeChain) From() common.Address { return testDeployer }

func (c *fakeChain) Submit(_ context.Context, req usecase.TxRequest) (usecase.PendingTx, error) {
	c.mu.Lock()
	c.submitted = append(c.submitted, req)
	index := len(c.submitted)
	c.mu.Unlock()

	hash := common.BigToHash(big.NewInt(int64(index)))
	if c.onSubmit == nil {
		return &fakePending{hash: hash, receipt: successReceipt(hash, nil)}, nil
	}
	receipt, err := c.onSubmit(c, req)
	if err != nil {
		return nil, err
	}
	receipt.TxHash = hash
	return &fakePending{hash: hash, receipt: receipt}, nil
}

func (c *fakeChain) setCode(addr common.Address) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.code[addr] = []byte{0x60, 0x80}
}

type fakePending struct {
	hash    common.Hash
	receipt *types.Receipt
}

func (p *fakePending) Hash() common.Hash { return p.hash }
func (p *fakePending) Wait(context.Context) (*types.Receipt, error) {
	return p.receipt, nil
}

func successReceipt(hash common.Hash, logs []*types.Log) *types.Receipt {
	return &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      hash,
		BlockNumber: big.NewInt(100),
		GasUsed:     1_234_567,
		Logs:        logs,
	}
}

type fakeConnector struct {
	chain usecase.Chain
	err   error
	keys  []string
}

func (f *fakeConnector) Connect(_ context.Context, _ *config.Network, key string) (usecase.Chain, error) {
	f.keys = append(f.keys, key)
	if f.err != nil {
		return nil, f.err
	}
	return f.chain, nil
}

type fakeResolver struct {
	preflightErr error
	preflights   int
}

func (f *fakeResolver) ProxyCreationCode(context.Context, usecase.ChainReader, common.Address) ([]byte, error) {
	return testCreationCode, nil
}

func (f *fakeResolver) Preflight(context.Context, usecase.ChainReader, config.Contracts) error {
	f.preflights++
	return f.preflightErr
}

// MockDeploymentRepository is a mock implementation of DeploymentRepository
type MockDeploymentRepository struct {
	mock.Mock
}

func (m *MockDeploymentRepository) GetDeployment(ctx context.Context, chainID uint64, name string) (*models.Deployment, error) {
	args := m.Called(ctx, chainID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deployment), args.Error(1)
}

func (m *MockDeploymentRepository) ListDeployments(ctx context.Context, chainID uint64) ([]*models.Deployment, error) {
	args := m.Called(ctx, chainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Deployment), args.Error(1)
}

func (m *MockDeploymentRepository) SaveDeployments(ctx context.Context, deployments ...*models.Deployment) error {
	args := m.Called(ctx, deployments)
	return args.Error(0)
}

// memRepository is a map backed DeploymentRepository
type memRepository map[string]*models.Deployment

func (r memRepository) GetDeployment(_ context.Context, _ uint64, name string) (*models.Deployment, error) {
	if dep, ok := r[name]; ok {
		return dep, nil
	}
	return nil, domain.ErrNotFound
}

func (r memRepository) ListDeployments(context.Context, uint64) ([]*models.Deployment, error) {
	out := make([]*models.Deployment, 0, len(r))
	for _, dep := range r {
		out = append(out, dep)
	}
	return out, nil
}

func (r memRepository) SaveDeployments(_ context.Context, deployments ...*models.Deployment) error {
	for _, dep := range deployments {
		r[dep.Name] = dep
	}
	return nil
}

func (r memRepository) add(name string, addr common.Address) {
	r[name] = &models.Deployment{ChainID: testChainID, Name: name, Address: addr, Source: models.DeploymentSourceManual}
}

type fakeConfirmer struct {
	answer bool
	asked  []string
}

func (f *fakeConfirmer) Confirm(_ context.Context, prompt string) (bool, error) {
	f.asked = append(f.asked, prompt)
	return f.answer, nil
}

// MockProgressSink records progress events
type MockProgressSink struct {
	events []usecase.ProgressEvent
}

func (m *MockProgressSink) OnProgress(_ context.Context, event usecase.ProgressEvent) {
	m.events = append(m.events, event)
}
func (m *MockProgressSink) Info(string)  {}
func (m *MockProgressSink) Error(string) {}

func (m *MockProgressSink) stages() []string {
	out := make([]string, len(m.events))
	for i, e := range m.events {
		out[i] = e.Stage
	}
	return out
}

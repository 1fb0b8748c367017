package anvil

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/params"
	"github.com/trebuchet-org/treb-dao/internal/adapters/blockchain"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
	"github.com/trebuchet-org/treb-dao/pkg/anvil"
)

// forkBalance is credited to the deployer on every fork
var forkBalance = new(big.Int).Mul(big.NewInt(100), big.NewInt(params.Ether))

// Manager starts anvil forks of configured networks for rehearsals
type Manager struct {
	log *slog.Logger
	// start is replaced in tests
	start func(ctx context.Context, inst *anvil.Instance) (*anvil.Node, error)
}

// NewManager creates a new anvil manager adapter
func NewManager(log *slog.Logger) *Manager {
	return &Manager{log: log, start: anvil.Start}
}

// Fork starts a fork of network, funds the deployer and connects to it
func (m *Manager) Fork(ctx context.Context, network *config.Network, deployerKey string) (usecase.ForkSession, error) {
	key, err := blockchain.ParseKey(deployerKey)
	if err != nil {
		return nil, err
	}
	if key == nil {
		return nil, fmt.Errorf("a deployer key is required to rehearse")
	}

	inst, err := anvil.NewForkInstance(network.RPCURL, network.ChainID)
	if err != nil {
		return nil, err
	}
	node, err := m.start(ctx, inst)
	if err != nil {
		return nil, err
	}
	m.log.Debug("fork started", "network", network.Name, "rpc", inst.RPCURL(), "log", inst.LogFile)

	client, err := blockchain.NewClient(ctx, ethclient.NewClient(node.RPC), key, m.log.With("fork", network.Name))
	if err != nil {
		_ = node.Stop()
		return nil, err
	}
	if err := node.SetBalance(ctx, client.From(), forkBalance); err != nil {
		_ = node.Stop()
		return nil, fmt.Errorf("failed to fund deployer on fork: %w", err)
	}

	return &forkSession{Client: client, node: node}, nil
}

type forkSession struct {
	*blockchain.Client
	node *anvil.Node
}

func (s *forkSession) RPCURL() string { return s.node.Instance.RPCURL() }

func (s *forkSession) Close() error { return s.node.Stop() }

var _ usecase.ForkRunner = (*Manager)(nil)

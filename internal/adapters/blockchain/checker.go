package blockchain

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-dao/internal/adapters/abi"
	"github.com/trebuchet-org/treb-dao/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
	"golang.org/x/sync/errgroup"
)

// preflightConcurrency bounds parallel eth_getCode requests
const preflightConcurrency = 4

// CheckerAdapter checks the factories and master copies a plan depends on
type CheckerAdapter struct {
	kind config.NetworkKind
	log  *slog.Logger
}

// NewCheckerAdapter creates a checker for the selected network
func NewCheckerAdapter(cfg *config.RuntimeConfig, log *slog.Logger) *CheckerAdapter {
	kind := config.NetworkKindLocal
	if cfg.Network != nil {
		kind = cfg.Network.Kind
	}
	return &CheckerAdapter{kind: kind, log: log}
}

// ProxyCreationCode asks the Safe proxy factory for the creation code it deploys
func (c *CheckerAdapter) ProxyCreationCode(ctx context.Context, reader usecase.ChainReader, factory common.Address) ([]byte, error) {
	enc := abi.NewEncoder(bindings.ForNetwork(c.kind))
	values, err := enc.CallView(ctx, reader, bindings.GnosisSafeProxyFactory, factory, "proxyCreationCode")
	if err != nil {
		return nil, err
	}
	code, ok := values[0].([]byte)
	if !ok || len(code) == 0 {
		return nil, fmt.Errorf("factory %s returned no creation code", factory.Hex())
	}
	return code, nil
}

// Preflight verifies code exists at every configured contract
func (c *CheckerAdapter) Preflight(ctx context.Context, reader usecase.ChainReader, contracts config.Contracts) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(preflightConcurrency)

	for _, entry := range contracts.Named() {
		name, addr := entry[0], common.HexToAddress(entry[1])
		g.Go(func() error {
			code, err := reader.CodeAt(ctx, addr, nil)
			if err != nil {
				return fmt.Errorf("failed to check code of %s at %s: %w", name, addr.Hex(), err)
			}
			if len(code) == 0 {
				return fmt.Errorf("no contract code for %s at %s", name, addr.Hex())
			}
			c.log.Debug("preflight ok", "contract", name, "address", addr.Hex(), "size", len(code))
			return nil
		})
	}
	return g.Wait()
}

var _ usecase.ContractResolver = (*CheckerAdapter)(nil)

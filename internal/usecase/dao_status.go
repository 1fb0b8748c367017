package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-dao/internal/adapters/abi"
	"github.com/trebuchet-org/treb-dao/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
)

// DAOStatus is the on-chain state of a deployed DAO
type DAOStatus struct {
	Network  string
	Safe     common.Address
	Strategy common.Address
	Azorius  common.Address

	Owners          []common.Address
	Threshold       *big.Int
	ModuleEnabled   bool
	StrategyEnabled bool

	StrategyAzorius common.Address
	VotingPeriod    uint32
	QuorumNumerator *big.Int
	BasisNumerator  *big.Int
	TimelockPeriod  uint32
	ExecutionPeriod uint32

	// Service is nil when the chain has no Safe Transaction Service
	Service      *models.SafeInfo
	ServiceError error
}

// Healthy reports whether the owner swap completed: Azorius is the only owner
// and an enabled module, and the strategy points back at it
func (s *DAOStatus) Healthy() bool {
	return len(s.Owners) == 1 && s.Owners[0] == s.Azorius &&
		s.ModuleEnabled && s.StrategyEnabled && s.StrategyAzorius == s.Azorius
}

// InspectDAO reads the DAO recorded in the registry back from chain
type InspectDAO struct {
	config    *config.RuntimeConfig
	connector ChainConnector
	repo      DeploymentRepository
	safeAPI   SafeInfoClient
	log       *slog.Logger
}

// NewInspectDAO creates a new InspectDAO use case
func NewInspectDAO(cfg *config.RuntimeConfig, connector ChainConnector, repo DeploymentRepository, safeAPI SafeInfoClient, log *slog.Logger) *InspectDAO {
	return &InspectDAO{
		config:    cfg,
		connector: connector,
		repo:      repo,
		safeAPI:   safeAPI,
		log:       log,
	}
}

// Run executes the use case
func (uc *InspectDAO) Run(ctx context.Context) (*DAOStatus, error) {
	network, err := requireNetwork(uc.config)
	if err != nil {
		return nil, err
	}

	status := &DAOStatus{Network: network.Name}
	for _, entry := range []struct {
		name string
		dst  *common.Address
	}{
		{models.SlotSafe, &status.Safe},
		{models.SlotStrategy, &status.Strategy},
		{models.SlotAzorius, &status.Azorius},
	} {
		if *entry.dst, err = requireDeployment(ctx, uc.repo, network, entry.name); err != nil {
			return nil, err
		}
	}

	chain, err := uc.connector.Connect(ctx, network, "")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", network.Name, err)
	}
	if err := checkChainID(ctx, chain, network); err != nil {
		return nil, err
	}

	enc := abi.NewEncoder(bindings.ForNetwork(network.Kind))
	reads := []struct {
		contract string
		to       common.Address
		method   string
		args     []any
		assign   func(v any)
	}{
		{bindings.GnosisSafe, status.Safe, "getOwners", nil, func(v any) { status.Owners, _ = v.([]common.Address) }},
		{bindings.GnosisSafe, status.Safe, "getThreshold", nil, func(v any) { status.Threshold, _ = v.(*big.Int) }},
		{bindings.GnosisSafe, status.Safe, "isModuleEnabled", []any{status.Azorius}, func(v any) { status.ModuleEnabled, _ = v.(bool) }},
		{bindings.Azorius, status.Azorius, "isStrategyEnabled", []any{status.Strategy}, func(v any) { status.StrategyEnabled, _ = v.(bool) }},
		{bindings.Azorius, status.Azorius, "timelockPeriod", nil, func(v any) { status.TimelockPeriod, _ = v.(uint32) }},
		{bindings.Azorius, status.Azorius, "executionPeriod", nil, func(v any) { status.ExecutionPeriod, _ = v.(uint32) }},
		{bindings.LinearERC20Voting, status.Strategy, "azoriusModule", nil, func(v any) { status.StrategyAzorius, _ = v.(common.Address) }},
		{bindings.LinearERC20Voting, status.Strategy, "votingPeriod", nil, func(v any) { status.VotingPeriod, _ = v.(uint32) }},
		{bindings.LinearERC20Voting, status.Strategy, "quorumNumerator", nil, func(v any) { status.QuorumNumerator, _ = v.(*big.Int) }},
		{bindings.LinearERC20Voting, status.Strategy, "basisNumerator", nil, func(v any) { status.BasisNumerator, _ = v.(*big.Int) }},
	}
	for _, r := range reads {
		values, err := enc.CallView(ctx, chain, r.contract, r.to, r.method, r.args...)
		if err != nil {
			return nil, err
		}
		r.assign(values[0])
	}

	status.Service, status.ServiceError = uc.safeAPI.GetSafeInfo(ctx, network.ChainID, status.Safe)
	if status.ServiceError != nil {
		uc.log.Debug("safe transaction service unavailable", "error", status.ServiceError)
	}
	return status, nil
}

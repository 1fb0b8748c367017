package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/trebuchet-org/treb-dao/internal/adapters/abi"
	"github.com/trebuchet-org/treb-dao/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/treb-dao/internal/domain"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
	"github.com/trebuchet-org/treb-dao/internal/txbuilder"
)

// BuildPlanParams contains parameters for building a deployment plan
type BuildPlanParams struct {
	// SafeNonce overrides the network's safe_salt
	SafeNonce *[32]byte
	// Nonces replaces the random nonce source
	Nonces txbuilder.NonceSource
	// SkipPreflight skips the code checks on factories and master copies
	SkipPreflight bool
}

// BuildPlan computes every predicted address and call of a deployment run.
// Nothing is submitted.
type BuildPlan struct {
	config    *config.RuntimeConfig
	connector ChainConnector
	resolver  ContractResolver
	repo      DeploymentRepository
	progress  ProgressSink
	log       *slog.Logger
}

// NewBuildPlan creates a new BuildPlan use case
func NewBuildPlan(
	cfg *config.RuntimeConfig,
	connector ChainConnector,
	resolver ContractResolver,
	repo DeploymentRepository,
	progress ProgressSink,
	log *slog.Logger,
) *BuildPlan {
	return &BuildPlan{
		config:    cfg,
		connector: connector,
		resolver:  resolver,
		repo:      repo,
		progress:  progress,
		log:       log,
	}
}

// Run builds the plan for the selected network
func (uc *BuildPlan) Run(ctx context.Context, params BuildPlanParams) (*models.DeploymentPlan, error) {
	network, err := requireNetwork(uc.config)
	if err != nil {
		return nil, err
	}

	chain, err := uc.connector.Connect(ctx, network, "")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", network.Name, err)
	}
	return uc.build(ctx, chain, network, params)
}

func (uc *BuildPlan) build(ctx context.Context, reader ChainReader, network *config.Network, params BuildPlanParams) (*models.DeploymentPlan, error) {
	if err := checkChainID(ctx, reader, network); err != nil {
		return nil, err
	}

	token, err := uc.resolveToken(ctx, network)
	if err != nil {
		return nil, err
	}

	if !params.SkipPreflight {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: StagePreflight, Message: "Checking factories and master copies", Spinner: true})
		if err := uc.resolver.Preflight(ctx, reader, network.Contracts); err != nil {
			return nil, err
		}
	}

	creationCode, err := uc.resolver.ProxyCreationCode(ctx, reader, network.Contracts.SafeProxyFactory)
	if err != nil {
		return nil, fmt.Errorf("failed to read Safe proxy creation code: %w", err)
	}

	var opts []txbuilder.Option
	switch {
	case params.SafeNonce != nil:
		opts = append(opts, txbuilder.WithSafeNonce(*params.SafeNonce))
	case network.SafeSalt != nil:
		opts = append(opts, txbuilder.WithSafeNonce(*network.SafeSalt))
	}
	if params.Nonces != nil {
		opts = append(opts, txbuilder.WithNonceSource(params.Nonces))
	}

	enc := abi.NewEncoder(bindings.ForNetwork(network.Kind))
	builder := txbuilder.NewAzoriusBuilder(enc, uc.config.DAO, network.Contracts, token, creationCode, opts...)

	plan, err := builder.BuildPlan()
	if err != nil {
		return nil, err
	}

	plan.RunID = uuid.NewString()
	plan.Network = network.Name
	plan.ChainID = network.ChainID
	plan.CreatedAt = time.Now().UTC()
	plan.GasLimit = network.GasLimit

	for _, slot := range plan.Slots() {
		uc.log.Debug("predicted slot",
			"run", plan.RunID,
			"slot", slot.Name(),
			"address", slot.Address().Hex(),
			"nonce", slot.NonceHex(),
		)
	}
	return plan, nil
}

// resolveToken prefers the network's token override over the registry
func (uc *BuildPlan) resolveToken(ctx context.Context, network *config.Network) (common.Address, error) {
	if network.Contracts.Token != nil {
		return *network.Contracts.Token, nil
	}
	dep, err := uc.repo.GetDeployment(ctx, network.ChainID, models.ContractShutterToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return common.Address{}, domain.NewMissingConfigError(network.Name, "contracts.token")
		}
		return common.Address{}, fmt.Errorf("failed to read token deployment: %w", err)
	}
	return dep.Address, nil
}

func requireNetwork(cfg *config.RuntimeConfig) (*config.Network, error) {
	if cfg.Network == nil {
		return nil, &domain.ConfigurationError{Field: "network", Reason: "must be selected with --network"}
	}
	if cfg.DAO == nil {
		return nil, &domain.ConfigurationError{Field: "dao", Reason: "section is missing"}
	}
	return cfg.Network, nil
}

func checkChainID(ctx context.Context, reader ChainReader, network *config.Network) error {
	chainID, err := reader.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to get chain ID: %w", err)
	}
	if chainID.Uint64() != network.ChainID {
		return &domain.ConfigurationError{
			Network: network.Name,
			Field:   "chain_id",
			Reason:  fmt.Sprintf("is %d but the RPC reports %s", network.ChainID, chainID),
		}
	}
	return nil
}

package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-dao/internal/adapters/abi"
	"github.com/trebuchet-org/treb-dao/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/treb-dao/internal/domain"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
	"github.com/trebuchet-org/treb-dao/internal/txbuilder"
)

// InitializeTokenParams contains parameters for token initialisation
type InitializeTokenParams struct {
	DryRun bool
}

// InitializeTokenResult describes the initialize call
type InitializeTokenResult struct {
	Token         common.Address
	Safe          common.Address
	SptConversion common.Address
	Airdrop       common.Address
	Call          *models.EncodedCall
	TxHash        *common.Hash
}

// InitializeToken mints the token supply to the predicted DAO Safe, the SPT
// conversion contract and the airdrop
type InitializeToken struct {
	config    *config.RuntimeConfig
	connector ChainConnector
	resolver  ContractResolver
	repo      DeploymentRepository
	confirmer Confirmer
	progress  ProgressSink
}

// NewInitializeToken creates a new InitializeToken use case
func NewInitializeToken(
	cfg *config.RuntimeConfig,
	connector ChainConnector,
	resolver ContractResolver,
	repo DeploymentRepository,
	confirmer Confirmer,
	progress ProgressSink,
) *InitializeToken {
	return &InitializeToken{
		config:    cfg,
		connector: connector,
		resolver:  resolver,
		repo:      repo,
		confirmer: confirmer,
		progress:  progress,
	}
}

// Run executes the use case
func (uc *InitializeToken) Run(ctx context.Context, params InitializeTokenParams) (*InitializeTokenResult, error) {
	network, err := requireNetwork(uc.config)
	if err != nil {
		return nil, err
	}
	if !params.DryRun && uc.config.DeployerKey == "" {
		return nil, domain.NewMissingConfigError(network.Name, "DEPLOYER_PRIVATE_KEY")
	}

	result := &InitializeTokenResult{}
	if network.Contracts.Token != nil {
		result.Token = *network.Contracts.Token
	} else if result.Token, err = requireDeployment(ctx, uc.repo, network, models.ContractShutterToken); err != nil {
		return nil, err
	}
	if result.Airdrop, err = requireDeployment(ctx, uc.repo, network, models.ContractAirdrop); err != nil {
		return nil, err
	}

	var spt *common.Address
	if addr, err := requireDeployment(ctx, uc.repo, network, models.ContractSptConversion); err == nil {
		spt = &addr
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	chain, err := uc.connector.Connect(ctx, network, uc.config.DeployerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", network.Name, err)
	}
	if err := checkChainID(ctx, chain, network); err != nil {
		return nil, err
	}

	safe, err := predictDAOSafe(ctx, chain, uc.resolver, uc.config, network)
	if err != nil {
		return nil, err
	}
	result.Safe = safe.Address()
	result.SptConversion = result.Safe
	if spt != nil {
		result.SptConversion = *spt
	}

	enc := abi.NewEncoder(bindings.ForNetwork(network.Kind))
	result.Call, err = txbuilder.BuildTokenInitializeTx(enc, result.Token, result.Safe, spt, result.Airdrop)
	if err != nil {
		return nil, err
	}
	if params.DryRun {
		return result, nil
	}

	if !uc.config.AssumeYes {
		ok, err := uc.confirmer.Confirm(ctx, fmt.Sprintf("Initialize token %s with owner %s?", result.Token.Hex(), result.Safe.Hex()))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrDeploymentCancelled
		}
	}

	hashes, err := sendSequential(ctx, chain, uc.progress, []*models.EncodedCall{result.Call})
	if err != nil {
		return result, err
	}
	result.TxHash = &hashes[0]
	return result, nil
}

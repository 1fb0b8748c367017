package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-dao/internal/adapters/abi"
	"github.com/trebuchet-org/treb-dao/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/treb-dao/internal/domain"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
	"github.com/trebuchet-org/treb-dao/internal/txbuilder"
)

// ConfigureKeyperSetParams contains parameters for keyper set configuration
type ConfigureKeyperSetParams struct {
	// DryRun builds the calls without sending them
	DryRun bool
}

// ConfigureKeyperSetResult contains the calls and their transaction hashes
type ConfigureKeyperSetResult struct {
	Safe      common.Address
	Threshold uint64
	Calls     []*models.EncodedCall
	TxHashes  []common.Hash
}

// ConfigureKeyperSet registers the initial keyper and collator sets and
// transfers the four contracts to the predicted DAO Safe
type ConfigureKeyperSet struct {
	config    *config.RuntimeConfig
	connector ChainConnector
	resolver  ContractResolver
	repo      DeploymentRepository
	confirmer Confirmer
	progress  ProgressSink
	log       *slog.Logger
}

// NewConfigureKeyperSet creates a new ConfigureKeyperSet use case
func NewConfigureKeyperSet(
	cfg *config.RuntimeConfig,
	connector ChainConnector,
	resolver ContractResolver,
	repo DeploymentRepository,
	confirmer Confirmer,
	progress ProgressSink,
	log *slog.Logger,
) *ConfigureKeyperSet {
	return &ConfigureKeyperSet{
		config:    cfg,
		connector: connector,
		resolver:  resolver,
		repo:      repo,
		confirmer: confirmer,
		progress:  progress,
		log:       log,
	}
}

// Run executes the use case
func (uc *ConfigureKeyperSet) Run(ctx context.Context, params ConfigureKeyperSetParams) (*ConfigureKeyperSetResult, error) {
	network, err := requireNetwork(uc.config)
	if err != nil {
		return nil, err
	}
	if network.KeyperSet == nil {
		return nil, domain.NewMissingConfigError(network.Name, "keyper_set")
	}
	if !params.DryRun && uc.config.DeployerKey == "" {
		return nil, domain.NewMissingConfigError(network.Name, "DEPLOYER_PRIVATE_KEY")
	}

	contracts, err := uc.keyperContracts(ctx, network)
	if err != nil {
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

	enc := abi.NewEncoder(bindings.ForNetwork(network.Kind))
	calls, err := txbuilder.NewKeyperSetBuilder(enc, network.KeyperSet, contracts, safe.Address()).BuildAll()
	if err != nil {
		return nil, err
	}

	result := &ConfigureKeyperSetResult{
		Safe:      safe.Address(),
		Threshold: txbuilder.Threshold(len(network.KeyperSet.Keypers), network.KeyperSet.ThresholdRatio),
		Calls:     calls,
	}
	if params.DryRun {
		return result, nil
	}

	if !uc.config.AssumeYes {
		ok, err := uc.confirmer.Confirm(ctx, fmt.Sprintf("Send %d keyper set transactions and hand ownership to %s?", len(calls), safe.Address().Hex()))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrDeploymentCancelled
		}
	}

	result.TxHashes, err = sendSequential(ctx, chain, uc.progress, calls)
	if err != nil {
		return result, err
	}
	uc.log.Info("keyper set configured", "safe", safe.Address().Hex(), "threshold", result.Threshold)
	return result, nil
}

func (uc *ConfigureKeyperSet) keyperContracts(ctx context.Context, network *config.Network) (txbuilder.KeyperSetContracts, error) {
	var contracts txbuilder.KeyperSetContracts
	for _, entry := range []struct {
		name string
		dst  *common.Address
	}{
		{models.ContractKeyperAddrsSeq, &contracts.Keypers},
		{models.ContractKeypersConfigsList, &contracts.KeypersConfigsList},
		{models.ContractCollatorAddrsSeq, &contracts.Collator},
		{models.ContractCollatorConfigsList, &contracts.CollatorConfigsList},
	} {
		addr, err := requireDeployment(ctx, uc.repo, network, entry.name)
		if err != nil {
			return contracts, err
		}
		*entry.dst = addr
	}
	return contracts, nil
}

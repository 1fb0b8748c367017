package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/treb-dao/internal/adapters/abi"
	"github.com/trebuchet-org/treb-dao/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/treb-dao/internal/domain"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
	"github.com/trebuchet-org/treb-dao/internal/txbuilder"
)

// predictDAOSafe predicts the Safe a plan with the network's fixed
// safe_salt will create. Stages that run before the DAO exists (token
// initialisation, keyper set handover) point at this address.
func predictDAOSafe(ctx context.Context, reader ChainReader, resolver ContractResolver, cfg *config.RuntimeConfig, network *config.Network) (*models.DeploymentSlot, error) {
	if network.SafeSalt == nil {
		return nil, domain.NewMissingConfigError(network.Name, "safe_salt")
	}

	creationCode, err := resolver.ProxyCreationCode(ctx, reader, network.Contracts.SafeProxyFactory)
	if err != nil {
		return nil, fmt.Errorf("failed to read Safe proxy creation code: %w", err)
	}

	enc := abi.NewEncoder(bindings.ForNetwork(network.Kind))
	builder := txbuilder.NewAzoriusBuilder(enc, cfg.DAO, network.Contracts, common.Address{}, creationCode,
		txbuilder.WithSafeNonce(*network.SafeSalt))
	return builder.PredictSafe()
}

// requireDeployment reads a registry entry that an earlier stage must have written
func requireDeployment(ctx context.Context, repo DeploymentRepository, network *config.Network, name string) (common.Address, error) {
	dep, err := repo.GetDeployment(ctx, network.ChainID, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return common.Address{}, fmt.Errorf("%s is not registered on %s (use 'treb-dao registry set'): %w", name, network.Name, err)
		}
		return common.Address{}, err
	}
	return dep.Address, nil
}

// sendSequential submits calls one by one, waiting for each receipt
func sendSequential(ctx context.Context, chain Chain, progress ProgressSink, calls []*models.EncodedCall) ([]common.Hash, error) {
	hashes := make([]common.Hash, 0, len(calls))
	for i, call := range calls {
		progress.OnProgress(ctx, ProgressEvent{
			Stage:   StageSubmitting,
			Message: fmt.Sprintf("[%d/%d] %s", i+1, len(calls), call.Label()),
			Spinner: true,
		})
		pending, err := chain.Submit(ctx, TxRequest{To: call.Target, Data: call.Data, Value: call.Value})
		if err != nil {
			return hashes, &domain.SubmissionError{Err: fmt.Errorf("%s: %w", call.Label(), err)}
		}
		receipt, err := pending.Wait(ctx)
		if err != nil {
			return hashes, &domain.SubmissionError{TxHash: pending.Hash(), Err: fmt.Errorf("%s: %w", call.Label(), err)}
		}
		if receipt.Status != types.ReceiptStatusSuccessful {
			return hashes, &domain.SubmissionError{TxHash: pending.Hash(), Err: fmt.Errorf("%s reverted", call.Label())}
		}
		hashes = append(hashes, pending.Hash())
	}
	return hashes, nil
}

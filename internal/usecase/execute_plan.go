package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-dao/internal/adapters/abi"
	"github.com/trebuchet-org/treb-dao/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/treb-dao/internal/domain"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
)

// ErrDeploymentCancelled is returned when the operator declines submission
var ErrDeploymentCancelled = errors.New("deployment cancelled")

// ExecutePlanParams contains parameters for executing a plan
type ExecutePlanParams struct {
	Plan *models.DeploymentPlan
	// Rehearse runs the identical plan on a local fork first
	Rehearse bool
}

// ExecutePlanResult contains the result of a deployment run
type ExecutePlanResult struct {
	TxHash      common.Hash
	BlockNumber uint64
	GasUsed     uint64
	Creations   []abi.ProxyCreated
	Deployments []*models.Deployment
	Rehearsal   *RehearsalResult
}

// RehearsalResult describes the fork run that preceded the real one
type RehearsalResult struct {
	RPCURL  string
	TxHash  common.Hash
	GasUsed uint64
}

// ExecutePlan submits a plan as a single transaction to the forwarder.
// A plan is submitted at most once: a failed or reverted run is reported
// and must be rebuilt with fresh nonces.
type ExecutePlan struct {
	config    *config.RuntimeConfig
	connector ChainConnector
	forks     ForkRunner
	repo      DeploymentRepository
	confirmer Confirmer
	progress  ProgressSink
	log       *slog.Logger
}

// NewExecutePlan creates a new ExecutePlan use case
func NewExecutePlan(
	cfg *config.RuntimeConfig,
	connector ChainConnector,
	forks ForkRunner,
	repo DeploymentRepository,
	confirmer Confirmer,
	progress ProgressSink,
	log *slog.Logger,
) *ExecutePlan {
	return &ExecutePlan{
		config:    cfg,
		connector: connector,
		forks:     forks,
		repo:      repo,
		confirmer: confirmer,
		progress:  progress,
		log:       log,
	}
}

// Run guards, optionally rehearses, confirms, submits, verifies and records
func (uc *ExecutePlan) Run(ctx context.Context, params ExecutePlanParams) (*ExecutePlanResult, error) {
	plan := params.Plan
	if plan == nil {
		return nil, fmt.Errorf("no deployment plan")
	}
	network, err := requireNetwork(uc.config)
	if err != nil {
		return nil, err
	}
	if plan.ChainID != network.ChainID {
		return nil, fmt.Errorf("plan targets chain %d but network %s is chain %d", plan.ChainID, network.Name, network.ChainID)
	}
	if uc.config.DeployerKey == "" {
		return nil, domain.NewMissingConfigError(network.Name, "DEPLOYER_PRIVATE_KEY")
	}

	chain, err := uc.connector.Connect(ctx, network, uc.config.DeployerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", network.Name, err)
	}
	if err := checkChainID(ctx, chain, network); err != nil {
		return nil, err
	}

	if err := guardNotDeployed(ctx, chain, plan); err != nil {
		return nil, err
	}

	result := &ExecutePlanResult{}
	if params.Rehearse {
		rehearsal, err := uc.rehearse(ctx, network, plan)
		if err != nil {
			return nil, fmt.Errorf("rehearsal failed: %w", err)
		}
		result.Rehearsal = rehearsal
	}

	if !uc.config.AssumeYes {
		ok, err := uc.confirmer.Confirm(ctx, fmt.Sprintf("Deploy %s to %s (chain %d)?", uc.config.DAO.Name, network.Name, network.ChainID))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrDeploymentCancelled
		}
	}

	receipt, creations, err := uc.submitAndVerify(ctx, chain, plan)
	if err != nil {
		return nil, err
	}
	result.TxHash = receipt.TxHash
	result.BlockNumber = receipt.BlockNumber.Uint64()
	result.GasUsed = receipt.GasUsed
	result.Creations = creations

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageRecording, Message: "Recording deployments"})
	result.Deployments = lo.Map(plan.Slots(), func(slot *models.DeploymentSlot, _ int) *models.Deployment {
		return models.DeploymentFromSlot(plan.ChainID, slot, plan.RunID, receipt.TxHash, result.BlockNumber)
	})
	if err := uc.repo.SaveDeployments(ctx, result.Deployments...); err != nil {
		// the chain state is final, so report the hash alongside the failure
		return result, fmt.Errorf("deployed in %s but failed to record deployments: %w", receipt.TxHash.Hex(), err)
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted, Message: "Deployment complete"})
	return result, nil
}

func (uc *ExecutePlan) rehearse(ctx context.Context, network *config.Network, plan *models.DeploymentPlan) (*RehearsalResult, error) {
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageRehearsing, Message: "Starting local fork", Spinner: true})

	fork, err := uc.forks.Fork(ctx, network, uc.config.DeployerKey)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := fork.Close(); err != nil {
			uc.log.Warn("failed to stop fork", "error", err)
		}
	}()

	if err := guardNotDeployed(ctx, fork, plan); err != nil {
		return nil, err
	}
	receipt, _, err := uc.submitAndVerify(ctx, fork, plan)
	if err != nil {
		return nil, err
	}
	return &RehearsalResult{RPCURL: fork.RPCURL(), TxHash: receipt.TxHash, GasUsed: receipt.GasUsed}, nil
}

// submitAndVerify sends the outer transaction exactly once
func (uc *ExecutePlan) submitAndVerify(ctx context.Context, chain Chain, plan *models.DeploymentPlan) (*types.Receipt, []abi.ProxyCreated, error) {
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageSubmitting, Message: "Submitting deployment transaction"})

	pending, err := chain.Submit(ctx, TxRequest{
		To:       plan.Forwarder,
		Data:     plan.Calldata,
		Value:    big.NewInt(0),
		GasLimit: plan.GasLimit,
	})
	if err != nil {
		return nil, nil, &domain.SubmissionError{Err: err}
	}
	uc.log.Info("submitted deployment", "run", plan.RunID, "tx", pending.Hash().Hex())

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageWaiting,
		Message: fmt.Sprintf("Waiting for %s", pending.Hash().Hex()),
		Spinner: true,
	})
	receipt, err := pending.Wait(ctx)
	if err != nil {
		return nil, nil, &domain.SubmissionError{TxHash: pending.Hash(), Err: err}
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, nil, &domain.SubmissionError{
			TxHash:       receipt.TxHash,
			RevertReason: uc.revertReason(ctx, chain, plan, receipt),
		}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageVerifying, Message: "Verifying deployed addresses"})
	decoder := abi.NewEventDecoder(bindings.ForNetwork(uc.config.Network.Kind))
	creations, err := verifyDeployment(ctx, chain, decoder, plan, receipt)
	if err != nil {
		return nil, nil, &domain.SubmissionError{TxHash: receipt.TxHash, Err: err}
	}
	return receipt, creations, nil
}

// revertReason replays the call against the state the transaction ran on
func (uc *ExecutePlan) revertReason(ctx context.Context, chain Chain, plan *models.DeploymentPlan, receipt *types.Receipt) string {
	var block *big.Int
	if receipt.BlockNumber != nil && receipt.BlockNumber.Sign() > 0 {
		block = new(big.Int).Sub(receipt.BlockNumber, big.NewInt(1))
	}
	_, err := chain.CallContract(ctx, ethereum.CallMsg{
		From: chain.From(),
		To:   &plan.Forwarder,
		Gas:  plan.GasLimit,
		Data: plan.Calldata,
	}, block)
	if err == nil {
		return ""
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if hex, ok := dataErr.ErrorData().(string); ok {
			if reason := abi.DecodeRevert(common.FromHex(hex)); reason != "" {
				return reason
			}
		}
	}
	uc.log.Debug("revert replay", "error", err)
	return err.Error()
}

// guardNotDeployed refuses to run a plan whose addresses are already taken
func guardNotDeployed(ctx context.Context, reader ChainReader, plan *models.DeploymentPlan) error {
	for _, slot := range plan.Slots() {
		code, err := reader.CodeAt(ctx, slot.Address(), nil)
		if err != nil {
			return fmt.Errorf("failed to check code at %s: %w", slot, err)
		}
		if len(code) > 0 {
			return &domain.AlreadyDeployedError{Slot: slot.Name(), Address: slot.Address()}
		}
	}
	return nil
}

// verifyDeployment matches every slot against the creation events in the
// receipt and checks code exists at each predicted address
func verifyDeployment(ctx context.Context, reader ChainReader, decoder *abi.EventDecoder, plan *models.DeploymentPlan, receipt *types.Receipt) ([]abi.ProxyCreated, error) {
	creations, err := decoder.DecodeCreations(receipt.Logs)
	if err != nil {
		return nil, err
	}

	for _, slot := range plan.Slots() {
		created, ok := lo.Find(creations, func(c abi.ProxyCreated) bool {
			return c.Factory == slot.Factory() && c.MasterCopy == slot.MasterCopy()
		})
		if !ok {
			return nil, fmt.Errorf("no creation event for %s", slot.Name())
		}
		if err := slot.VerifyObserved(created.Proxy); err != nil {
			return nil, err
		}

		code, err := reader.CodeAt(ctx, slot.Address(), receipt.BlockNumber)
		if err != nil {
			return nil, fmt.Errorf("failed to read code of %s: %w", slot, err)
		}
		if len(code) == 0 {
			return nil, fmt.Errorf("no code at predicted %s", slot)
		}
	}
	return creations, nil
}

package usecase

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
)

// ChainReader is the read side of the RPC layer. *ethclient.Client and the
// simulated backend client both satisfy it.
type ChainReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// TxRequest is an unsigned transaction from the deployer
type TxRequest struct {
	To       common.Address
	Data     []byte
	Value    *big.Int
	GasLimit uint64 // 0 means estimate
}

// PendingTx is a submitted transaction awaiting inclusion
type PendingTx interface {
	Hash() common.Hash
	Wait(ctx context.Context) (*types.Receipt, error)
}

// TxSubmitter signs and broadcasts transactions from the deployer key
type TxSubmitter interface {
	From() common.Address
	Submit(ctx context.Context, req TxRequest) (PendingTx, error)
}

// Chain bundles the read and write side of one network connection
type Chain interface {
	ChainReader
	TxSubmitter
}

// ChainConnector opens a connection to a configured network
type ChainConnector interface {
	Connect(ctx context.Context, network *config.Network, deployerKey string) (Chain, error)
}

// ContractResolver checks the externally deployed contracts a plan depends on
type ContractResolver interface {
	// ProxyCreationCode returns the creation code the Safe proxy factory deploys
	ProxyCreationCode(ctx context.Context, reader ChainReader, factory common.Address) ([]byte, error)
	// Preflight verifies code exists at every factory and master copy
	Preflight(ctx context.Context, reader ChainReader, contracts config.Contracts) error
}

// DeploymentRepository persists deployment records per chain
type DeploymentRepository interface {
	GetDeployment(ctx context.Context, chainID uint64, name string) (*models.Deployment, error)
	ListDeployments(ctx context.Context, chainID uint64) ([]*models.Deployment, error)
	SaveDeployments(ctx context.Context, deployments ...*models.Deployment) error
}

// SafeInfoClient queries the Safe Transaction Service
type SafeInfoClient interface {
	GetSafeInfo(ctx context.Context, chainID uint64, safe common.Address) (*models.SafeInfo, error)
}

// Confirmer asks the operator before an irreversible action
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ForkSession is a disposable local fork of a network
type ForkSession interface {
	Chain
	RPCURL() string
	Close() error
}

// ForkRunner starts local forks for rehearsals
type ForkRunner interface {
	Fork(ctx context.Context, network *config.Network, deployerKey string) (ForkSession, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   string
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

// Execution stages reported to the ProgressSink
const (
	StagePreflight  = "Preflight"
	StageRehearsing = "Rehearsing"
	StageSubmitting = "Submitting"
	StageWaiting    = "Waiting"
	StageVerifying  = "Verifying"
	StageRecording  = "Recording"
	StageCompleted  = "Completed"
)

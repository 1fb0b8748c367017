package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-dao/internal/domain"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
)

// ListDeploymentsParams contains parameters for listing deployments
type ListDeploymentsParams struct {
	// AllChains ignores the selected network
	AllChains bool
}

// ListDeployments lists registry entries
type ListDeployments struct {
	config *config.RuntimeConfig
	repo   DeploymentRepository
}

// NewListDeployments creates a new ListDeployments use case
func NewListDeployments(cfg *config.RuntimeConfig, repo DeploymentRepository) *ListDeployments {
	return &ListDeployments{config: cfg, repo: repo}
}

// Run returns deployments sorted by chain and name
func (uc *ListDeployments) Run(ctx context.Context, params ListDeploymentsParams) ([]*models.Deployment, error) {
	var chainID uint64
	if !params.AllChains {
		if uc.config.Network == nil {
			return nil, &domain.ConfigurationError{Field: "network", Reason: "must be selected with --network (or use --all)"}
		}
		chainID = uc.config.Network.ChainID
	}

	deployments, err := uc.repo.ListDeployments(ctx, chainID)
	if err != nil {
		return nil, err
	}
	sort.Slice(deployments, func(i, j int) bool {
		if deployments[i].ChainID != deployments[j].ChainID {
			return deployments[i].ChainID < deployments[j].ChainID
		}
		return deployments[i].Name < deployments[j].Name
	})
	return deployments, nil
}

// RegisterDeploymentParams contains parameters for registering a contract
// deployed outside a plan run
type RegisterDeploymentParams struct {
	Name    string
	Address string
	TxHash  string
	// SkipCodeCheck registers without checking code at the address
	SkipCodeCheck bool
}

// RegisterDeployment records a manually deployed contract, such as the token
// or the keyper set contracts, for later stages
type RegisterDeployment struct {
	config    *config.RuntimeConfig
	repo      DeploymentRepository
	connector ChainConnector
}

// NewRegisterDeployment creates a new RegisterDeployment use case
func NewRegisterDeployment(cfg *config.RuntimeConfig, repo DeploymentRepository, connector ChainConnector) *RegisterDeployment {
	return &RegisterDeployment{config: cfg, repo: repo, connector: connector}
}

// Run validates and saves the record
func (uc *RegisterDeployment) Run(ctx context.Context, params RegisterDeploymentParams) (*models.Deployment, error) {
	network := uc.config.Network
	if network == nil {
		return nil, &domain.ConfigurationError{Field: "network", Reason: "must be selected with --network"}
	}
	if params.Name == "" {
		return nil, fmt.Errorf("contract name is required")
	}
	if !common.IsHexAddress(params.Address) {
		return nil, fmt.Errorf("invalid address: %q", params.Address)
	}

	dep := &models.Deployment{
		ChainID:   network.ChainID,
		Name:      params.Name,
		Address:   common.HexToAddress(params.Address),
		Source:    models.DeploymentSourceManual,
		CreatedAt: time.Now().UTC(),
	}
	if params.TxHash != "" {
		if len(common.FromHex(params.TxHash)) != common.HashLength {
			return nil, fmt.Errorf("invalid transaction hash: %q", params.TxHash)
		}
		hash := common.HexToHash(params.TxHash)
		dep.TxHash = &hash
	}

	if !params.SkipCodeCheck {
		chain, err := uc.connector.Connect(ctx, network, "")
		if err != nil {
			return nil, fmt.Errorf("failed to connect to %s: %w", network.Name, err)
		}
		code, err := chain.CodeAt(ctx, dep.Address, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to check code at %s: %w", dep.Address.Hex(), err)
		}
		if len(code) == 0 {
			return nil, fmt.Errorf("no contract code at %s on %s", dep.Address.Hex(), network.Name)
		}
	}

	if err := uc.repo.SaveDeployments(ctx, dep); err != nil {
		return nil, err
	}
	return dep, nil
}

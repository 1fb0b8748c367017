package usecase

import (
	"context"
	"sort"

	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
)

// ListNetworksParams contains parameters for listing networks
type ListNetworksParams struct {
	// Probe connects to each network and compares its chain ID
	Probe bool
}

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
	Current  string
}

// NetworkStatus represents the status of a network
type NetworkStatus struct {
	Name    string
	Kind    config.NetworkKind
	ChainID uint64
	RPCURL  string
	Error   error
}

// ListNetworks is a use case for listing configured networks
type ListNetworks struct {
	config    *config.RuntimeConfig
	connector ChainConnector
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(cfg *config.RuntimeConfig, connector ChainConnector) *ListNetworks {
	return &ListNetworks{
		config:    cfg,
		connector: connector,
	}
}

// Run executes the use case
func (uc *ListNetworks) Run(ctx context.Context, params ListNetworksParams) (*ListNetworksResult, error) {
	names := lo.Keys(uc.config.Networks)
	sort.Strings(names)

	networks := make([]NetworkStatus, 0, len(names))
	for _, name := range names {
		network := uc.config.Networks[name]
		status := NetworkStatus{
			Name:    name,
			Kind:    network.Kind,
			ChainID: network.ChainID,
			RPCURL:  network.RPCURL,
		}

		if params.Probe {
			if chain, err := uc.connector.Connect(ctx, network, ""); err != nil {
				status.Error = err
			} else {
				status.Error = checkChainID(ctx, chain, network)
			}
		}

		networks = append(networks, status)
	}

	result := &ListNetworksResult{Networks: networks}
	if uc.config.Network != nil {
		result.Current = uc.config.Network.Name
	}
	return result, nil
}

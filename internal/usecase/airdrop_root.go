package usecase

import (
	"context"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
	"github.com/trebuchet-org/treb-dao/pkg/vesting"
	"gopkg.in/yaml.v3"
)

// AirdropRootParams contains parameters for computing an airdrop root
type AirdropRootParams struct {
	// File is a YAML or JSON list of vestings, optionally under a "vestings" key
	File string
}

// AirdropRootResult contains the computed root
type AirdropRootResult struct {
	Root   common.Hash
	Leaves []common.Hash
	Count  int

	// Configured is the root of the selected network, if it has an airdrop section
	Configured *common.Hash
}

// Matches reports whether the computed root equals the configured one
func (r *AirdropRootResult) Matches() bool {
	return r.Configured != nil && *r.Configured == r.Root
}

// ComputeAirdropRoot hashes a vesting list and builds its merkle root
type ComputeAirdropRoot struct {
	config *config.RuntimeConfig
}

// NewComputeAirdropRoot creates a new ComputeAirdropRoot use case
func NewComputeAirdropRoot(cfg *config.RuntimeConfig) *ComputeAirdropRoot {
	return &ComputeAirdropRoot{config: cfg}
}

// Run executes the use case
func (uc *ComputeAirdropRoot) Run(_ context.Context, params AirdropRootParams) (*AirdropRootResult, error) {
	data, err := os.ReadFile(params.File)
	if err != nil {
		return nil, fmt.Errorf("failed to read vestings: %w", err)
	}
	vestings, err := parseVestings(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", params.File, err)
	}

	root, leaves, err := vesting.Root(vestings)
	if err != nil {
		return nil, err
	}

	result := &AirdropRootResult{Root: root, Leaves: leaves, Count: len(vestings)}
	if network := uc.config.Network; network != nil && network.Airdrop != nil {
		configured := network.Airdrop.MerkleRoot
		result.Configured = &configured
	}
	return result, nil
}

func parseVestings(data []byte) ([]vesting.Vesting, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("empty vestings file")
	}

	node := doc.Content[0]
	var list []vesting.Vesting
	switch node.Kind {
	case yaml.SequenceNode:
		if err := node.Decode(&list); err != nil {
			return nil, err
		}
	case yaml.MappingNode:
		var wrapped struct {
			Vestings []vesting.Vesting `yaml:"vestings"`
		}
		if err := node.Decode(&wrapped); err != nil {
			return nil, err
		}
		list = wrapped.Vestings
	default:
		return nil, fmt.Errorf("expected a list of vestings or a vestings key, got %s", node.Tag)
	}
	return list, nil
}

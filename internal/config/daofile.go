package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// Default config file names, searched in order
var DefaultConfigFiles = []string{"dao.toml", "dao.yaml", "dao.yml"}

// SupportedSchema is the range of config schema versions this build reads
const SupportedSchema = ">= 2.0.0, < 3.0.0"

// DAOFile is the raw on-disk configuration
type DAOFile struct {
	Version  string                    `toml:"version" yaml:"version"`
	DAO      DAOSection                `toml:"dao" yaml:"dao"`
	Networks map[string]NetworkSection `toml:"networks" yaml:"networks"`
}

// DAOSection is the [dao] table
type DAOSection struct {
	Name                         string `toml:"name" yaml:"name"`
	SnapshotURL                  string `toml:"snapshot_url" yaml:"snapshot_url"`
	VotingPeriodBlocks           uint32 `toml:"voting_period_blocks" yaml:"voting_period_blocks"`
	TimelockPeriodBlocks         uint32 `toml:"timelock_period_blocks" yaml:"timelock_period_blocks"`
	ExecutionPeriodBlocks        uint32 `toml:"execution_period_blocks" yaml:"execution_period_blocks"`
	QuorumBasisNumerator         uint64 `toml:"quorum_basis_numerator" yaml:"quorum_basis_numerator"`
	VotingBasisNumerator         uint64 `toml:"voting_basis_numerator" yaml:"voting_basis_numerator"`
	ProposalRequiredWeightTokens string `toml:"proposal_required_weight_tokens" yaml:"proposal_required_weight_tokens"`
}

// NetworkSection is a [networks.<name>] table
type NetworkSection struct {
	Kind          string            `toml:"kind" yaml:"kind"`
	ChainID       uint64            `toml:"chain_id" yaml:"chain_id"`
	RPCURL        string            `toml:"rpc_url" yaml:"rpc_url"`
	ExplorerURL   string            `toml:"explorer_url" yaml:"explorer_url"`
	SafeSalt      string            `toml:"safe_salt" yaml:"safe_salt"`
	GasLimit      *uint64           `toml:"gas_limit" yaml:"gas_limit"`
	Contracts     map[string]string `toml:"contracts" yaml:"contracts"`
	Airdrop       *AirdropSection   `toml:"airdrop" yaml:"airdrop"`
	SptConversion *SptSection       `toml:"spt_conversion" yaml:"spt_conversion"`
	KeyperSet     *KeyperSetSection `toml:"keyper_set" yaml:"keyper_set"`
}

type AirdropSection struct {
	TokenBalance   string `toml:"token_balance" yaml:"token_balance"`
	MerkleRoot     string `toml:"merkle_root" yaml:"merkle_root"`
	RedeemDeadline uint64 `toml:"redeem_deadline" yaml:"redeem_deadline"`
}

type SptSection struct {
	MerkleRoot string `toml:"merkle_root" yaml:"merkle_root"`
	Deadline   uint64 `toml:"deadline" yaml:"deadline"`
	SptToken   string `toml:"spt_token" yaml:"spt_token"`
}

type KeyperSetSection struct {
	Keypers         []string `toml:"keypers" yaml:"keypers"`
	Collator        string   `toml:"collator" yaml:"collator"`
	ThresholdRatio  float64  `toml:"threshold_ratio" yaml:"threshold_ratio"`
	ActivationBlock uint64   `toml:"activation_block" yaml:"activation_block"`
}

// FindConfigFile returns the first default config file present in dir
func FindConfigFile(dir string) (string, error) {
	for _, name := range DefaultConfigFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no DAO config found in %s (looked for %s)", dir, strings.Join(DefaultConfigFiles, ", "))
}

// LoadDAOFile decodes a TOML or YAML config file and checks its schema version.
// Environment variables in string values are expanded.
func LoadDAOFile(path string) (*DAOFile, error) {
	var file DAOFile

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.DecodeFile(path, &file); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}

	if err := checkSchemaVersion(file.Version); err != nil {
		return nil, err
	}

	file.expandEnv()
	return &file, nil
}

func checkSchemaVersion(raw string) error {
	if raw == "" {
		return fmt.Errorf("config is missing a version field (expected %s)", SupportedSchema)
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return fmt.Errorf("invalid config version %q: %w", raw, err)
	}
	constraint, err := semver.NewConstraint(SupportedSchema)
	if err != nil {
		return err
	}
	if !constraint.Check(v) {
		return fmt.Errorf("config version %s is not supported (expected %s)", v, SupportedSchema)
	}
	return nil
}

func (f *DAOFile) expandEnv() {
	f.DAO.SnapshotURL = os.ExpandEnv(f.DAO.SnapshotURL)
	for name, n := range f.Networks {
		n.RPCURL = os.ExpandEnv(n.RPCURL)
		n.ExplorerURL = os.ExpandEnv(n.ExplorerURL)
		n.SafeSalt = os.ExpandEnv(n.SafeSalt)
		for k, v := range n.Contracts {
			n.Contracts[k] = os.ExpandEnv(v)
		}
		f.Networks[name] = n
	}
}

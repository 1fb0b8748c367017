package config

import (
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
)

// BasisDenominator is the denominator shared by quorum and voting basis numerators
const BasisDenominator = 1_000_000

// DefaultGasLimit is used for the outer deployment transaction unless a
// network overrides it
const DefaultGasLimit uint64 = 5_000_000

// NetworkKind discriminates how strictly a network section is validated
type NetworkKind string

const (
	NetworkKindMainnet NetworkKind = "mainnet"
	NetworkKindTestnet NetworkKind = "testnet"
	NetworkKindLocal   NetworkKind = "local"
)

// DAOConfig holds the governance parameters of the DAO. It is immutable
// after loading.
type DAOConfig struct {
	Name                         string   `json:"name"`
	SnapshotURL                  string   `json:"snapshotUrl"`
	VotingPeriodBlocks           uint32   `json:"votingPeriodBlocks"`
	TimelockPeriodBlocks         uint32   `json:"timelockPeriodBlocks"`
	ExecutionPeriodBlocks        uint32   `json:"executionPeriodBlocks"`
	QuorumBasisNumerator         *big.Int `json:"quorumBasisNumerator"`
	VotingBasisNumerator         *big.Int `json:"votingBasisNumerator"`
	ProposalRequiredWeightTokens *big.Int `json:"proposalRequiredWeightTokens"`
}

// Network is a validated network section
type Network struct {
	Name        string      `json:"name"`
	Kind        NetworkKind `json:"kind"`
	ChainID     uint64      `json:"chainId"`
	RPCURL      string      `json:"rpcUrl"`
	ExplorerURL string      `json:"explorerUrl,omitempty"`

	// SafeSalt fixes the Safe nonce so earlier stages can predict the Safe address
	SafeSalt *[32]byte `json:"safeSalt,omitempty"`
	GasLimit uint64    `json:"gasLimit"`

	Contracts     Contracts            `json:"contracts"`
	Airdrop       *AirdropConfig       `json:"airdrop,omitempty"`
	SptConversion *SptConversionConfig `json:"sptConversion,omitempty"`
	KeyperSet     *KeyperSetConfig     `json:"keyperSet,omitempty"`
}

// Contracts are the master copies and factories the plan depends on
type Contracts struct {
	SafeSingleton      common.Address `json:"safeSingleton"`
	SafeProxyFactory   common.Address `json:"safeProxyFactory"`
	MultiSend          common.Address `json:"multiSend"`
	ModuleProxyFactory common.Address `json:"moduleProxyFactory"`
	Azorius            common.Address `json:"azorius"`
	LinearERC20Voting  common.Address `json:"linearErc20Voting"`
	FractalRegistry    common.Address `json:"fractalRegistry"`
	KeyValuePairs      common.Address `json:"keyValuePairs"`

	// Token overrides the registry entry for the governance token
	Token *common.Address `json:"token,omitempty"`
}

// Named returns the contracts keyed by display name, sorted by name
func (c Contracts) Named() [][2]string {
	named := map[string]common.Address{
		"safe_singleton":       c.SafeSingleton,
		"safe_proxy_factory":   c.SafeProxyFactory,
		"multisend":            c.MultiSend,
		"module_proxy_factory": c.ModuleProxyFactory,
		"azorius":              c.Azorius,
		"linear_erc20_voting":  c.LinearERC20Voting,
		"fractal_registry":     c.FractalRegistry,
		"key_value_pairs":      c.KeyValuePairs,
	}
	out := make([][2]string, 0, len(named))
	for k, v := range named {
		out = append(out, [2]string{k, v.Hex()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

// AirdropConfig parameterises the airdrop contract
type AirdropConfig struct {
	TokenBalance   *big.Int    `json:"tokenBalance"`
	MerkleRoot     common.Hash `json:"merkleRoot"`
	RedeemDeadline uint64      `json:"redeemDeadline"`
}

// SptConversionConfig parameterises the SPT conversion contract
type SptConversionConfig struct {
	MerkleRoot common.Hash    `json:"merkleRoot"`
	Deadline   uint64         `json:"deadline"`
	SptToken   common.Address `json:"sptToken"`
}

// KeyperSetConfig is the initial keyper and collator set
type KeyperSetConfig struct {
	Keypers         []common.Address `json:"keypers"`
	Collator        common.Address   `json:"collator"`
	ThresholdRatio  float64          `json:"thresholdRatio"`
	ActivationBlock uint64           `json:"activationBlock"`
}

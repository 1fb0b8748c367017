package config

import (
	"fmt"
	"math"
	"math/big"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-dao/internal/domain"
	domainconfig "github.com/trebuchet-org/treb-dao/internal/domain/config"
	"github.com/trebuchet-org/treb-dao/pkg/create2"
)

// Safe 1.3.0 canonical deployments, used when a network does not override them
var (
	DefaultSafeSingleton    = common.HexToAddress("0xd9Db270c1B5E3Bd161E8c8503c55cEABeE709552")
	DefaultSafeProxyFactory = common.HexToAddress("0xa6B71E26C5e0845f74c812102Ca7114b6a896AB2")
	DefaultMultiSend        = common.HexToAddress("0x40A2aCCbd92BCA938b02010E17A5b8929b49130D")
)

const (
	defaultLocalChainID = 31337
	defaultLocalRPCURL  = "http://127.0.0.1:8545"
)

var requiredContracts = []string{
	"module_proxy_factory",
	"azorius",
	"linear_erc20_voting",
	"fractal_registry",
	"key_value_pairs",
}

var optionalContracts = []string{
	"safe_singleton",
	"safe_proxy_factory",
	"multisend",
	"token",
}

// BuildDAOConfig validates the [dao] section
func BuildDAOConfig(s DAOSection) (*domainconfig.DAOConfig, error) {
	if strings.TrimSpace(s.Name) == "" {
		return nil, &domain.ConfigurationError{Field: "dao.name", Reason: "must not be empty"}
	}
	if strings.TrimSpace(s.SnapshotURL) == "" {
		return nil, &domain.ConfigurationError{Field: "dao.snapshot_url", Reason: "must not be empty"}
	}
	if s.VotingPeriodBlocks == 0 {
		return nil, &domain.ConfigurationError{Field: "dao.voting_period_blocks", Reason: "must be greater than zero"}
	}
	if s.QuorumBasisNumerator > domainconfig.BasisDenominator {
		return nil, &domain.ConfigurationError{
			Field:  "dao.quorum_basis_numerator",
			Reason: fmt.Sprintf("must not exceed %d", domainconfig.BasisDenominator),
		}
	}
	if s.VotingBasisNumerator < domainconfig.BasisDenominator/2 || s.VotingBasisNumerator > domainconfig.BasisDenominator {
		return nil, &domain.ConfigurationError{
			Field:  "dao.voting_basis_numerator",
			Reason: fmt.Sprintf("must be between %d and %d", domainconfig.BasisDenominator/2, domainconfig.BasisDenominator),
		}
	}

	weight := new(big.Int)
	if raw := strings.TrimSpace(s.ProposalRequiredWeightTokens); raw != "" {
		if _, ok := weight.SetString(raw, 10); !ok || weight.Sign() < 0 {
			return nil, &domain.ConfigurationError{
				Field:  "dao.proposal_required_weight_tokens",
				Reason: fmt.Sprintf("is not a non-negative integer: %q", raw),
			}
		}
	}

	return &domainconfig.DAOConfig{
		Name:                         s.Name,
		SnapshotURL:                  s.SnapshotURL,
		VotingPeriodBlocks:           s.VotingPeriodBlocks,
		TimelockPeriodBlocks:         s.TimelockPeriodBlocks,
		ExecutionPeriodBlocks:        s.ExecutionPeriodBlocks,
		QuorumBasisNumerator:         new(big.Int).SetUint64(s.QuorumBasisNumerator),
		VotingBasisNumerator:         new(big.Int).SetUint64(s.VotingBasisNumerator),
		ProposalRequiredWeightTokens: weight,
	}, nil
}

// BuildNetworks validates every network section eagerly
func BuildNetworks(sections map[string]NetworkSection) (map[string]*domainconfig.Network, error) {
	names := lo.Keys(sections)
	sort.Strings(names)

	networks := make(map[string]*domainconfig.Network, len(sections))
	for _, name := range names {
		n, err := BuildNetwork(name, sections[name])
		if err != nil {
			return nil, err
		}
		networks[name] = n
	}
	return networks, nil
}

// BuildNetwork validates one network section according to its kind
func BuildNetwork(name string, s NetworkSection) (*domainconfig.Network, error) {
	missing := func(field string) error { return domain.NewMissingConfigError(name, field) }
	invalid := func(field, reason string) error {
		return &domain.ConfigurationError{Network: name, Field: field, Reason: reason}
	}

	kind := domainconfig.NetworkKind(strings.ToLower(strings.TrimSpace(s.Kind)))
	switch kind {
	case domainconfig.NetworkKindMainnet, domainconfig.NetworkKindTestnet, domainconfig.NetworkKindLocal:
	case "":
		return nil, missing("kind")
	default:
		return nil, invalid("kind", fmt.Sprintf("must be one of mainnet, testnet, local (got %q)", s.Kind))
	}

	n := &domainconfig.Network{
		Name:        name,
		Kind:        kind,
		ChainID:     s.ChainID,
		RPCURL:      s.RPCURL,
		ExplorerURL: s.ExplorerURL,
		GasLimit:    domainconfig.DefaultGasLimit,
	}
	if s.GasLimit != nil {
		n.GasLimit = *s.GasLimit
	}

	switch kind {
	case domainconfig.NetworkKindMainnet:
		if n.ChainID == 0 {
			return nil, missing("chain_id")
		}
		if n.RPCURL == "" {
			return nil, missing("rpc_url")
		}
		if s.Airdrop == nil {
			return nil, missing("airdrop")
		}
	case domainconfig.NetworkKindTestnet:
		if n.ChainID == 0 {
			return nil, missing("chain_id")
		}
		if n.RPCURL == "" {
			return nil, missing("rpc_url")
		}
	case domainconfig.NetworkKindLocal:
		if n.ChainID == 0 {
			n.ChainID = defaultLocalChainID
		}
		if n.RPCURL == "" {
			n.RPCURL = defaultLocalRPCURL
		}
	}

	if s.SafeSalt != "" {
		salt, err := create2.ParseNonce(s.SafeSalt)
		if err != nil {
			return nil, invalid("safe_salt", err.Error())
		}
		n.SafeSalt = &salt
	}

	contracts, err := buildContracts(name, s.Contracts)
	if err != nil {
		return nil, err
	}
	n.Contracts = *contracts

	if s.Airdrop != nil {
		airdrop, err := buildAirdrop(name, s.Airdrop)
		if err != nil {
			return nil, err
		}
		n.Airdrop = airdrop
	}
	if s.SptConversion != nil {
		spt, err := buildSptConversion(name, s.SptConversion)
		if err != nil {
			return nil, err
		}
		n.SptConversion = spt
	}
	if s.KeyperSet != nil {
		keypers, err := buildKeyperSet(name, s.KeyperSet)
		if err != nil {
			return nil, err
		}
		n.KeyperSet = keypers
	}

	return n, nil
}

func buildContracts(network string, raw map[string]string) (*domainconfig.Contracts, error) {
	known := append(append([]string{}, requiredContracts...), optionalContracts...)
	for key := range raw {
		if !lo.Contains(known, key) {
			return nil, &domain.ConfigurationError{Network: network, Field: "contracts." + key, Reason: "is not a known contract"}
		}
	}
	for _, key := range requiredContracts {
		if strings.TrimSpace(raw[key]) == "" {
			return nil, domain.NewMissingConfigError(network, "contracts."+key)
		}
	}

	addrs := make(map[string]common.Address, len(raw))
	for key, value := range raw {
		if !common.IsHexAddress(value) {
			return nil, &domain.ConfigurationError{
				Network: network,
				Field:   "contracts." + key,
				Reason:  fmt.Sprintf("is not a valid address: %q", value),
			}
		}
		addrs[key] = common.HexToAddress(value)
	}

	withDefault := func(key string, def common.Address) common.Address {
		if a, ok := addrs[key]; ok {
			return a
		}
		return def
	}

	c := &domainconfig.Contracts{
		SafeSingleton:      withDefault("safe_singleton", DefaultSafeSingleton),
		SafeProxyFactory:   withDefault("safe_proxy_factory", DefaultSafeProxyFactory),
		MultiSend:          withDefault("multisend", DefaultMultiSend),
		ModuleProxyFactory: addrs["module_proxy_factory"],
		Azorius:            addrs["azorius"],
		LinearERC20Voting:  addrs["linear_erc20_voting"],
		FractalRegistry:    addrs["fractal_registry"],
		KeyValuePairs:      addrs["key_value_pairs"],
	}
	if token, ok := addrs["token"]; ok {
		c.Token = &token
	}
	return c, nil
}

func buildAirdrop(network string, s *AirdropSection) (*domainconfig.AirdropConfig, error) {
	root, err := parseRoot(network, "airdrop.merkle_root", s.MerkleRoot)
	if err != nil {
		return nil, err
	}
	if s.RedeemDeadline == 0 {
		return nil, domain.NewMissingConfigError(network, "airdrop.redeem_deadline")
	}
	balance := new(big.Int)
	if s.TokenBalance != "" {
		if _, ok := balance.SetString(s.TokenBalance, 10); !ok || balance.Sign() < 0 {
			return nil, &domain.ConfigurationError{Network: network, Field: "airdrop.token_balance", Reason: "is not a non-negative integer"}
		}
	}
	return &domainconfig.AirdropConfig{TokenBalance: balance, MerkleRoot: root, RedeemDeadline: s.RedeemDeadline}, nil
}

func buildSptConversion(network string, s *SptSection) (*domainconfig.SptConversionConfig, error) {
	root, err := parseRoot(network, "spt_conversion.merkle_root", s.MerkleRoot)
	if err != nil {
		return nil, err
	}
	if s.Deadline == 0 {
		return nil, domain.NewMissingConfigError(network, "spt_conversion.deadline")
	}
	if !common.IsHexAddress(s.SptToken) {
		return nil, domain.NewMissingConfigError(network, "spt_conversion.spt_token")
	}
	return &domainconfig.SptConversionConfig{MerkleRoot: root, Deadline: s.Deadline, SptToken: common.HexToAddress(s.SptToken)}, nil
}

func buildKeyperSet(network string, s *KeyperSetSection) (*domainconfig.KeyperSetConfig, error) {
	if len(s.Keypers) == 0 {
		return nil, domain.NewMissingConfigError(network, "keyper_set.keypers")
	}
	if s.ThresholdRatio <= 0 || s.ThresholdRatio > 1 || math.IsNaN(s.ThresholdRatio) {
		return nil, &domain.ConfigurationError{Network: network, Field: "keyper_set.threshold_ratio", Reason: "must be in (0, 1]"}
	}
	if !common.IsHexAddress(s.Collator) {
		return nil, domain.NewMissingConfigError(network, "keyper_set.collator")
	}
	keypers := make([]common.Address, 0, len(s.Keypers))
	for _, k := range s.Keypers {
		if !common.IsHexAddress(k) {
			return nil, &domain.ConfigurationError{Network: network, Field: "keyper_set.keypers", Reason: fmt.Sprintf("contains invalid address %q", k)}
		}
		keypers = append(keypers, common.HexToAddress(k))
	}
	return &domainconfig.KeyperSetConfig{
		Keypers:         keypers,
		Collator:        common.HexToAddress(s.Collator),
		ThresholdRatio:  s.ThresholdRatio,
		ActivationBlock: s.ActivationBlock,
	}, nil
}

func parseRoot(network, field, raw string) (common.Hash, error) {
	if raw == "" {
		return common.Hash{}, domain.NewMissingConfigError(network, field)
	}
	b := common.FromHex(raw)
	if len(b) != common.HashLength {
		return common.Hash{}, &domain.ConfigurationError{Network: network, Field: field, Reason: "must be a 32-byte hex value"}
	}
	return common.BytesToHash(b), nil
}

package txbuilder

import (
	"fmt"
	"math"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-dao/internal/adapters/abi"
	"github.com/trebuchet-org/treb-dao/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
)

// initialSetIndex is the index of the first keyper and collator set
const initialSetIndex = 1

// KeyperSetContracts are the deployed sequence and config-list contracts
type KeyperSetContracts struct {
	Keypers             common.Address
	KeypersConfigsList  common.Address
	Collator            common.Address
	CollatorConfigsList common.Address
}

// KeyperSetBuilder builds the calls that register the initial keyper and
// collator sets and hand the four contracts over to the DAO Safe. The calls
// are sent one by one by the deployer, which owns the contracts until the
// final transferOwnership.
type KeyperSetBuilder struct {
	enc       *abi.Encoder
	cfg       *config.KeyperSetConfig
	contracts KeyperSetContracts
	safe      common.Address
}

// NewKeyperSetBuilder creates a builder that transfers ownership to safe
func NewKeyperSetBuilder(enc *abi.Encoder, cfg *config.KeyperSetConfig, contracts KeyperSetContracts, safe common.Address) *KeyperSetBuilder {
	return &KeyperSetBuilder{enc: enc, cfg: cfg, contracts: contracts, safe: safe}
}

// Threshold is ceil(len(keypers) * ratio)
func Threshold(keypers int, ratio float64) uint64 {
	return uint64(math.Ceil(float64(keypers) * ratio))
}

// BuildKeyperCalls returns add, append, transferOwnership on the keyper
// sequence followed by addNewCfg and transferOwnership on its config list.
func (b *KeyperSetBuilder) BuildKeyperCalls() ([]*models.EncodedCall, error) {
	calls, err := b.sequenceCalls(b.contracts.Keypers, b.cfg.Keypers)
	if err != nil {
		return nil, fmt.Errorf("keypers: %w", err)
	}

	cfg := bindings.KeypersConfig{
		ActivationBlockNumber: b.cfg.ActivationBlock,
		SetIndex:              initialSetIndex,
		Threshold:             Threshold(len(b.cfg.Keypers), b.cfg.ThresholdRatio),
	}
	list, err := b.configListCalls(bindings.KeypersConfigsList, b.contracts.KeypersConfigsList, cfg)
	if err != nil {
		return nil, fmt.Errorf("keypers config: %w", err)
	}
	return append(calls, list...), nil
}

// BuildCollatorCalls is BuildKeyperCalls for the single collator
func (b *KeyperSetBuilder) BuildCollatorCalls() ([]*models.EncodedCall, error) {
	calls, err := b.sequenceCalls(b.contracts.Collator, []common.Address{b.cfg.Collator})
	if err != nil {
		return nil, fmt.Errorf("collator: %w", err)
	}

	cfg := bindings.CollatorConfig{
		ActivationBlockNumber: b.cfg.ActivationBlock,
		SetIndex:              initialSetIndex,
	}
	list, err := b.configListCalls(bindings.CollatorConfigsList, b.contracts.CollatorConfigsList, cfg)
	if err != nil {
		return nil, fmt.Errorf("collator config: %w", err)
	}
	return append(calls, list...), nil
}

// BuildAll returns the keyper calls followed by the collator calls
func (b *KeyperSetBuilder) BuildAll() ([]*models.EncodedCall, error) {
	keypers, err := b.BuildKeyperCalls()
	if err != nil {
		return nil, err
	}
	collator, err := b.BuildCollatorCalls()
	if err != nil {
		return nil, err
	}
	return append(keypers, collator...), nil
}

func (b *KeyperSetBuilder) sequenceCalls(seq common.Address, addrs []common.Address) ([]*models.EncodedCall, error) {
	add, err := b.enc.EncodeCall(bindings.AddrsSeq, seq, "add", addrs)
	if err != nil {
		return nil, err
	}
	appendCall, err := b.enc.EncodeCall(bindings.AddrsSeq, seq, "append")
	if err != nil {
		return nil, err
	}
	transfer, err := b.enc.EncodeCall(bindings.AddrsSeq, seq, "transferOwnership", b.safe)
	if err != nil {
		return nil, err
	}
	return []*models.EncodedCall{add, appendCall, transfer}, nil
}

func (b *KeyperSetBuilder) configListCalls(contract string, list common.Address, cfg any) ([]*models.EncodedCall, error) {
	addCfg, err := b.enc.EncodeCall(contract, list, "addNewCfg", cfg)
	if err != nil {
		return nil, err
	}
	transfer, err := b.enc.EncodeCall(contract, list, "transferOwnership", b.safe)
	if err != nil {
		return nil, err
	}
	return []*models.EncodedCall{addCfg, transfer}, nil
}

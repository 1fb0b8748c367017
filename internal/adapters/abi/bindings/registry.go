package bindings

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-dao/internal/domain"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
)

// Contract names used as ABI lookup keys
const (
	GnosisSafe             = "GnosisSafe"
	GnosisSafeProxyFactory = "GnosisSafeProxyFactory"
	MultiSend              = "MultiSend"
	ModuleProxyFactory     = "ModuleProxyFactory"
	Azorius                = "Azorius"
	LinearERC20Voting      = "LinearERC20Voting"
	FractalRegistry        = "FractalRegistry"
	KeyValuePairs          = "KeyValuePairs"
	ShutterToken           = "ShutterToken"
	AddrsSeq               = "AddrsSeq"
	KeypersConfigsList     = "KeypersConfigsList"
	CollatorConfigsList    = "CollatorConfigsList"
)

// SafeVersion is the Safe contracts release the ABIs and proxy creation code
// correspond to
const SafeVersion = "1.3.0"

var catalog = map[string]*bind.MetaData{
	GnosisSafe:             &GnosisSafeMetaData,
	GnosisSafeProxyFactory: &GnosisSafeProxyFactoryMetaData,
	MultiSend:              &MultiSendMetaData,
	ModuleProxyFactory:     &ModuleProxyFactoryMetaData,
	Azorius:                &AzoriusMetaData,
	LinearERC20Voting:      &LinearERC20VotingMetaData,
	FractalRegistry:        &FractalRegistryMetaData,
	KeyValuePairs:          &KeyValuePairsMetaData,
	ShutterToken:           &ShutterTokenMetaData,
	AddrsSeq:               &AddrsSeqMetaData,
	KeypersConfigsList:     &KeypersConfigsListMetaData,
	CollatorConfigsList:    &CollatorConfigsListMetaData,
}

// ContractSet resolves contract ABIs for one network
type ContractSet struct {
	Kind        config.NetworkKind
	SafeVersion string

	mu     sync.Mutex
	parsed map[string]*abi.ABI
}

// ForNetwork returns the ABI set for a network kind. Every supported kind
// currently targets the same Safe release.
func ForNetwork(kind config.NetworkKind) *ContractSet {
	return &ContractSet{
		Kind:        kind,
		SafeVersion: SafeVersion,
		parsed:      make(map[string]*abi.ABI),
	}
}

// ABI returns the parsed ABI for a contract name
func (s *ContractSet) ABI(name string) (*abi.ABI, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if parsed, ok := s.parsed[name]; ok {
		return parsed, nil
	}
	meta, ok := catalog[name]
	if !ok {
		return nil, fmt.Errorf("%w: no ABI for contract %s", domain.ErrNotFound, name)
	}
	parsed, err := meta.ParseABI()
	if err != nil {
		return nil, fmt.Errorf("invalid ABI for %s: %w", name, err)
	}
	s.parsed[name] = parsed
	return parsed, nil
}

// MustABI is ABI for names from the catalog; it panics on unknown names.
func (s *ContractSet) MustABI(name string) *abi.ABI {
	parsed, err := s.ABI(name)
	if err != nil {
		panic(err)
	}
	return parsed
}

// Names lists all known contract names, sorted
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EventID returns the topic hash of a contract event
func (s *ContractSet) EventID(contract, event string) (common.Hash, error) {
	parsed, err := s.ABI(contract)
	if err != nil {
		return common.Hash{}, err
	}
	ev, ok := parsed.Events[event]
	if !ok {
		return common.Hash{}, fmt.Errorf("event %s not found on %s", event, contract)
	}
	return ev.ID, nil
}

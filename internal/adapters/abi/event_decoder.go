package abi

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/treb-dao/internal/adapters/abi/bindings"
)

// ProxyCreated is a proxy creation observed in a receipt
type ProxyCreated struct {
	Factory    common.Address
	Proxy      common.Address
	MasterCopy common.Address
	Event      string
}

// EventDecoder decodes factory creation events
type EventDecoder struct {
	contracts *bindings.ContractSet
}

// NewEventDecoder creates a new event decoder
func NewEventDecoder(contracts *bindings.ContractSet) *EventDecoder {
	return &EventDecoder{contracts: contracts}
}

// DecodeCreations extracts Safe ProxyCreation and Zodiac ModuleProxyCreation
// events from logs, in log order. Unrelated logs are skipped.
func (d *EventDecoder) DecodeCreations(logs []*types.Log) ([]ProxyCreated, error) {
	moduleID, err := d.contracts.EventID(bindings.ModuleProxyFactory, "ModuleProxyCreation")
	if err != nil {
		return nil, err
	}
	safeID, err := d.contracts.EventID(bindings.GnosisSafeProxyFactory, "ProxyCreation")
	if err != nil {
		return nil, err
	}
	factoryABI, err := d.contracts.ABI(bindings.GnosisSafeProxyFactory)
	if err != nil {
		return nil, err
	}

	var created []ProxyCreated
	for _, log := range logs {
		if len(log.Topics) == 0 {
			continue
		}

		switch log.Topics[0] {
		case moduleID:
			if len(log.Topics) != 3 {
				return nil, fmt.Errorf("malformed ModuleProxyCreation log at index %d", log.Index)
			}
			created = append(created, ProxyCreated{
				Factory:    log.Address,
				Proxy:      common.BytesToAddress(log.Topics[1].Bytes()),
				MasterCopy: common.BytesToAddress(log.Topics[2].Bytes()),
				Event:      "ModuleProxyCreation",
			})
		case safeID:
			values, err := factoryABI.Unpack("ProxyCreation", log.Data)
			if err != nil || len(values) != 2 {
				return nil, fmt.Errorf("malformed ProxyCreation log at index %d: %v", log.Index, err)
			}
			proxy, _ := values[0].(common.Address)
			singleton, _ := values[1].(common.Address)
			created = append(created, ProxyCreated{
				Factory:    log.Address,
				Proxy:      proxy,
				MasterCopy: singleton,
				Event:      "ProxyCreation",
			})
		}
	}
	return created, nil
}

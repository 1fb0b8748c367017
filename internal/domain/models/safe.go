package models

import "github.com/ethereum/go-ethereum/common"

// SafeInfo is the Safe Transaction Service view of a Safe
type SafeInfo struct {
	Address         common.Address   `json:"address"`
	Nonce           uint64           `json:"nonce"`
	Threshold       uint64           `json:"threshold"`
	Owners          []common.Address `json:"owners"`
	Modules         []common.Address `json:"modules"`
	MasterCopy      common.Address   `json:"masterCopy"`
	FallbackHandler common.Address   `json:"fallbackHandler"`
	Version         string           `json:"version"`
}

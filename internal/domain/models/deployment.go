package models

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Registry contract names written by later pipeline stages
const (
	ContractShutterToken        = "ShutterToken"
	ContractAirdrop             = "Airdrop"
	ContractSptConversion       = "SptConversion"
	ContractKeyperAddrsSeq      = "KeyperSetAddrsSeq"
	ContractKeypersConfigsList  = "KeypersConfigsList"
	ContractCollatorAddrsSeq    = "CollatorAddrsSeq"
	ContractCollatorConfigsList = "CollatorConfigsList"
)

// DeploymentSource records how a registry entry was produced
type DeploymentSource string

const (
	DeploymentSourcePlan   DeploymentSource = "PLAN"
	DeploymentSourceManual DeploymentSource = "MANUAL"
)

// Deployment is a persisted record of a contract the pipeline depends on
type Deployment struct {
	ChainID     uint64           `json:"chainId"`
	Name        string           `json:"name"`
	Address     common.Address   `json:"address"`
	Source      DeploymentSource `json:"source"`
	TxHash      *common.Hash     `json:"txHash,omitempty"`
	BlockNumber uint64           `json:"blockNumber,omitempty"`
	RunID       string           `json:"runId,omitempty"`

	// CREATE2 details for planned deployments
	Factory    *common.Address `json:"factory,omitempty"`
	MasterCopy *common.Address `json:"masterCopy,omitempty"`
	Salt       string          `json:"salt,omitempty"`
	Nonce      string          `json:"nonce,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// DeploymentFromSlot builds a registry record for a slot created by a plan run
func DeploymentFromSlot(chainID uint64, slot *DeploymentSlot, runID string, txHash common.Hash, block uint64) *Deployment {
	factory := slot.Factory()
	master := slot.MasterCopy()
	return &Deployment{
		ChainID:     chainID,
		Name:        slot.Name(),
		Address:     slot.Address(),
		Source:      DeploymentSourcePlan,
		TxHash:      &txHash,
		BlockNumber: block,
		RunID:       runID,
		Factory:     &factory,
		MasterCopy:  &master,
		Salt:        common.Hash(slot.Salt()).Hex(),
		Nonce:       slot.NonceHex(),
		CreatedAt:   time.Now().UTC(),
	}
}

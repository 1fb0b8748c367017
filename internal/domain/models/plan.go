package models

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// DeploymentPlan is the full, pre-computed set of calls that bootstraps the
// DAO in a single outer transaction sent to the forwarder.
type DeploymentPlan struct {
	RunID     string
	Network   string
	ChainID   uint64
	CreatedAt time.Time

	// Forwarder is the multisend contract receiving the outer transaction.
	// It is also the placeholder owner of the Safe until the exec call runs.
	Forwarder common.Address

	Safe     *DeploymentSlot
	Strategy *DeploymentSlot
	Azorius  *DeploymentSlot

	SafeCreation      *EncodedCall
	ModuleDeployments []*EncodedCall
	ConfigCalls       []*EncodedCall
	ExecCall          *EncodedCall

	// Outer is Safe creation, module deployments and the exec call, in order.
	Outer *TransactionBatch
	// Packed is the multisend encoding of Outer.
	Packed []byte
	// Calldata is multiSend(Packed), the data of the outer transaction.
	Calldata []byte

	GasLimit uint64
}

// Slots returns the predicted slots in dependency order
func (p *DeploymentPlan) Slots() []*DeploymentSlot {
	return []*DeploymentSlot{p.Safe, p.Strategy, p.Azorius}
}

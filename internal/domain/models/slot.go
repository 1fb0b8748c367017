package models

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-dao/pkg/create2"
)

// Slot names used throughout planning, execution and the registry
const (
	SlotSafe     = "Safe"
	SlotStrategy = "LinearERC20Voting"
	SlotAzorius  = "Azorius"
)

// DeploymentSlot describes one contract to be created through a CREATE2
// proxy factory. The predicted address is a pure function of factory, salt
// and init code hash, so a slot is immutable once constructed.
type DeploymentSlot struct {
	name         string
	factory      common.Address
	masterCopy   common.Address
	initCodeHash common.Hash
	nonce        [32]byte
	setupData    []byte
	salt         [32]byte
	address      common.Address
}

// NewDeploymentSlot derives the salt from setupData and nonce and caches the
// predicted address.
func NewDeploymentSlot(name string, factory, masterCopy common.Address, initCodeHash common.Hash, setupData []byte, nonce [32]byte) *DeploymentSlot {
	salt := create2.Salt(setupData, nonce)
	return &DeploymentSlot{
		name:         name,
		factory:      factory,
		masterCopy:   masterCopy,
		initCodeHash: initCodeHash,
		nonce:        nonce,
		setupData:    common.CopyBytes(setupData),
		salt:         salt,
		address:      create2.PredictAddress(factory, salt, initCodeHash),
	}
}

func (s *DeploymentSlot) Name() string               { return s.name }
func (s *DeploymentSlot) Factory() common.Address    { return s.factory }
func (s *DeploymentSlot) MasterCopy() common.Address { return s.masterCopy }
func (s *DeploymentSlot) InitCodeHash() common.Hash  { return s.initCodeHash }
func (s *DeploymentSlot) Nonce() [32]byte            { return s.nonce }
func (s *DeploymentSlot) Salt() [32]byte             { return s.salt }
func (s *DeploymentSlot) SetupData() []byte          { return common.CopyBytes(s.setupData) }
func (s *DeploymentSlot) Address() common.Address    { return s.address }
func (s *DeploymentSlot) NonceHex() string           { return common.Hash(s.nonce).Hex() }
func (s *DeploymentSlot) String() string             { return fmt.Sprintf("%s@%s", s.name, s.address.Hex()) }

// VerifyObserved compares an address seen on-chain (e.g. in a creation
// event) with the prediction.
func (s *DeploymentSlot) VerifyObserved(observed common.Address) error {
	if observed != s.address {
		return fmt.Errorf("%s deployed at %s but predicted %s", s.name, observed.Hex(), s.address.Hex())
	}
	return nil
}

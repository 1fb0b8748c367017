// Package txbuilder assembles the calls that bootstrap a DAO: the Safe, its
// Azorius module with a LinearERC20Voting strategy, and the configuration
// calls the Safe executes on itself.
package txbuilder

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-dao/internal/adapters/abi"
	"github.com/trebuchet-org/treb-dao/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
)

// SnapshotURLKey is the KeyValuePairs key the DAO's snapshot space is stored under
const SnapshotURLKey = "snapshotURL"

// BaseBuilder holds the calls that only need the Safe address
type BaseBuilder struct {
	enc       *abi.Encoder
	dao       *config.DAOConfig
	contracts config.Contracts
}

// BuildUpdateDAONameTx registers the DAO name for the calling Safe
func (b *BaseBuilder) BuildUpdateDAONameTx() (*models.EncodedCall, error) {
	return b.enc.EncodeCall(bindings.FractalRegistry, b.contracts.FractalRegistry, "updateDAOName", b.dao.Name)
}

// BuildUpdateSnapshotURLTx stores the snapshot space URL for the calling Safe
func (b *BaseBuilder) BuildUpdateSnapshotURLTx() (*models.EncodedCall, error) {
	return b.enc.EncodeCall(bindings.KeyValuePairs, b.contracts.KeyValuePairs, "updateValues",
		[]string{SnapshotURLKey}, []string{b.dao.SnapshotURL})
}

// BuildExecInternalSafeTx wraps calls into a Safe execTransaction that
// delegatecalls multiSend on the forwarder, authorised by the forwarder's
// pre-validated signature.
func (b *BaseBuilder) BuildExecInternalSafeTx(safe common.Address, calls []*models.EncodedCall) (*models.EncodedCall, error) {
	packed, err := models.NewTransactionBatch(calls...).Pack()
	if err != nil {
		return nil, err
	}
	inner, err := b.enc.Pack(bindings.MultiSend, "multiSend", packed)
	if err != nil {
		return nil, err
	}

	return b.enc.EncodeCall(bindings.GnosisSafe, safe, "execTransaction",
		b.contracts.MultiSend,               // to
		big.NewInt(0),                       // value
		inner,                               // data
		uint8(models.OperationDelegateCall), // operation
		big.NewInt(0),                       // safeTxGas
		big.NewInt(0),                       // baseGas
		big.NewInt(0),                       // gasPrice
		common.Address{},                    // gasToken
		common.Address{},                    // refundReceiver
		Signatures(b.contracts.MultiSend),
	)
}

// Signatures is a single pre-validated Safe signature for owner: r = owner,
// s = 0, v = 1. The Safe accepts it when msg.sender is that owner.
func Signatures(owner common.Address) []byte {
	sig := make([]byte, 0, 65)
	sig = append(sig, common.LeftPadBytes(owner.Bytes(), 32)...)
	sig = append(sig, make([]byte, 32)...)
	sig = append(sig, 0x01)
	return sig
}

package txbuilder

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-dao/internal/adapters/abi"
	"github.com/trebuchet-org/treb-dao/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/treb-dao/internal/domain"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
	"github.com/trebuchet-org/treb-dao/pkg/create2"
)

// azoriusPlaceholder is the Azorius address the strategy is initialised with.
// setAzorius replaces it once the module exists.
var azoriusPlaceholder = common.HexToAddress("0x0000000000000000000000000000000000000001")

var (
	strategyInitTypes = []string{"address", "address", "address", "uint32", "uint256", "uint256", "uint256"}
	azoriusInitTypes  = []string{"address", "address", "address", "address[]", "uint32", "uint32"}
)

// NonceSource yields a fresh salt nonce for every slot
type NonceSource func() ([32]byte, error)

// AzoriusBuilder predicts the Safe, strategy and Azorius addresses as a
// strictly ordered pipeline and builds every call of the bootstrap
// transaction from those predictions. Each stage fails with a
// PrerequisiteNotReadyError if the stage it depends on has not run.
type AzoriusBuilder struct {
	BaseBuilder

	token            common.Address
	safeCreationCode []byte
	safeNonce        *[32]byte
	nonces           NonceSource

	safe     *models.DeploymentSlot
	strategy *models.DeploymentSlot
	azorius  *models.DeploymentSlot
}

// Option configures an AzoriusBuilder
type Option func(*AzoriusBuilder)

// WithSafeNonce fixes the Safe salt nonce instead of drawing a random one
func WithSafeNonce(nonce [32]byte) Option {
	return func(b *AzoriusBuilder) { b.safeNonce = &nonce }
}

// WithNonceSource replaces crypto/rand as the nonce source
func WithNonceSource(src NonceSource) Option {
	return func(b *AzoriusBuilder) { b.nonces = src }
}

// NewAzoriusBuilder creates a builder. safeCreationCode is the proxy
// creation code of the Safe proxy factory. No prediction happens here.
func NewAzoriusBuilder(
	enc *abi.Encoder,
	dao *config.DAOConfig,
	contracts config.Contracts,
	token common.Address,
	safeCreationCode []byte,
	opts ...Option,
) *AzoriusBuilder {
	b := &AzoriusBuilder{
		BaseBuilder: BaseBuilder{
			enc:       enc,
			dao:       dao,
			contracts: contracts,
		},
		token:            token,
		safeCreationCode: common.CopyBytes(safeCreationCode),
		nonces:           create2.RandomNonce,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Forwarder is the multisend contract that receives the outer transaction
func (b *AzoriusBuilder) Forwarder() common.Address {
	return b.contracts.MultiSend
}

// Safe returns the predicted Safe slot, or nil before PredictSafe
func (b *AzoriusBuilder) Safe() *models.DeploymentSlot { return b.safe }

// Strategy returns the predicted strategy slot, or nil before PredictStrategy
func (b *AzoriusBuilder) Strategy() *models.DeploymentSlot { return b.strategy }

// Azorius returns the predicted Azorius slot, or nil before PredictAzorius
func (b *AzoriusBuilder) Azorius() *models.DeploymentSlot { return b.azorius }

// PredictSafe computes the Safe setup calldata, with the forwarder as its
// only owner, and the Safe's CREATE2 address.
func (b *AzoriusBuilder) PredictSafe() (*models.DeploymentSlot, error) {
	if b.safe != nil {
		return b.safe, nil
	}

	setup, err := b.enc.Pack(bindings.GnosisSafe, "setup",
		[]common.Address{b.contracts.MultiSend}, // owners
		big.NewInt(1),                           // threshold
		common.Address{},                        // to
		common.Hash{}.Bytes(),                   // data
		common.Address{},                        // fallbackHandler
		common.Address{},                        // paymentToken
		big.NewInt(0),                           // payment
		common.Address{},                        // paymentReceiver
	)
	if err != nil {
		return nil, err
	}

	nonce, err := b.nextNonce(b.safeNonce)
	if err != nil {
		return nil, err
	}

	b.safe = models.NewDeploymentSlot(
		models.SlotSafe,
		b.contracts.SafeProxyFactory,
		b.contracts.SafeSingleton,
		create2.SafeProxyInitCodeHash(b.safeCreationCode, b.contracts.SafeSingleton),
		setup,
		nonce,
	)
	return b.safe, nil
}

// PredictStrategy computes the LinearERC20Voting setUp calldata, which embeds
// the predicted Safe, and the strategy's address.
func (b *AzoriusBuilder) PredictStrategy() (*models.DeploymentSlot, error) {
	if b.strategy != nil {
		return b.strategy, nil
	}
	if b.safe == nil {
		return nil, &domain.PrerequisiteNotReadyError{Slot: models.SlotStrategy, Requires: models.SlotSafe}
	}

	params, err := abi.EncodeArgs(strategyInitTypes,
		b.safe.Address(),
		b.token,
		azoriusPlaceholder,
		b.dao.VotingPeriodBlocks,
		orZero(b.dao.ProposalRequiredWeightTokens),
		orZero(b.dao.QuorumBasisNumerator),
		orZero(b.dao.VotingBasisNumerator),
	)
	if err != nil {
		return nil, err
	}
	setup, err := b.enc.Pack(bindings.LinearERC20Voting, "setUp", params)
	if err != nil {
		return nil, err
	}

	slot, err := b.moduleSlot(models.SlotStrategy, b.contracts.LinearERC20Voting, setup)
	if err != nil {
		return nil, err
	}
	b.strategy = slot
	return b.strategy, nil
}

// PredictAzorius computes the Azorius setUp calldata, which embeds the
// predicted Safe and strategy, and the module's address.
func (b *AzoriusBuilder) PredictAzorius() (*models.DeploymentSlot, error) {
	if b.azorius != nil {
		return b.azorius, nil
	}
	if b.safe == nil {
		return nil, &domain.PrerequisiteNotReadyError{Slot: models.SlotAzorius, Requires: models.SlotSafe}
	}
	if b.strategy == nil {
		return nil, &domain.PrerequisiteNotReadyError{Slot: models.SlotAzorius, Requires: models.SlotStrategy}
	}

	safe := b.safe.Address()
	params, err := abi.EncodeArgs(azoriusInitTypes,
		safe, // owner
		safe, // avatar
		safe, // target
		[]common.Address{b.strategy.Address()},
		b.dao.TimelockPeriodBlocks,
		b.dao.ExecutionPeriodBlocks,
	)
	if err != nil {
		return nil, err
	}
	setup, err := b.enc.Pack(bindings.Azorius, "setUp", params)
	if err != nil {
		return nil, err
	}

	slot, err := b.moduleSlot(models.SlotAzorius, b.contracts.Azorius, setup)
	if err != nil {
		return nil, err
	}
	b.azorius = slot
	return b.azorius, nil
}

// Predict runs all three stages in dependency order
func (b *AzoriusBuilder) Predict() error {
	if _, err := b.PredictSafe(); err != nil {
		return err
	}
	if _, err := b.PredictStrategy(); err != nil {
		return err
	}
	_, err := b.PredictAzorius()
	return err
}

// BuildCreateSafeTx deploys the Safe proxy through the Safe proxy factory
func (b *AzoriusBuilder) BuildCreateSafeTx() (*models.EncodedCall, error) {
	if b.safe == nil {
		return nil, &domain.PrerequisiteNotReadyError{Slot: "createProxyWithNonce", Requires: models.SlotSafe}
	}
	return b.enc.EncodeCall(bindings.GnosisSafeProxyFactory, b.safe.Factory(), "createProxyWithNonce",
		b.safe.MasterCopy(), b.safe.SetupData(), create2.NonceToBig(b.safe.Nonce()))
}

// BuildDeployStrategyTx deploys the strategy through the module proxy factory
func (b *AzoriusBuilder) BuildDeployStrategyTx() (*models.EncodedCall, error) {
	if b.strategy == nil {
		return nil, &domain.PrerequisiteNotReadyError{Slot: "deployModule", Requires: models.SlotStrategy}
	}
	return b.deployModule(b.strategy)
}

// BuildDeployAzoriusTx deploys Azorius through the module proxy factory
func (b *AzoriusBuilder) BuildDeployAzoriusTx() (*models.EncodedCall, error) {
	if b.azorius == nil {
		return nil, &domain.PrerequisiteNotReadyError{Slot: "deployModule", Requires: models.SlotAzorius}
	}
	return b.deployModule(b.azorius)
}

// BuildLinearVotingSetupTx points the strategy at the predicted Azorius module
func (b *AzoriusBuilder) BuildLinearVotingSetupTx() (*models.EncodedCall, error) {
	if err := b.requireModules("setAzorius"); err != nil {
		return nil, err
	}
	return b.enc.EncodeCall(bindings.LinearERC20Voting, b.strategy.Address(), "setAzorius", b.azorius.Address())
}

// BuildEnableAzoriusModuleTx enables Azorius as a module of the Safe
func (b *AzoriusBuilder) BuildEnableAzoriusModuleTx() (*models.EncodedCall, error) {
	if err := b.requireModules("enableModule"); err != nil {
		return nil, err
	}
	return b.enc.EncodeCall(bindings.GnosisSafe, b.safe.Address(), "enableModule", b.azorius.Address())
}

// BuildAddAzoriusContractAsOwnerTx adds Azorius as a Safe owner with threshold 1
func (b *AzoriusBuilder) BuildAddAzoriusContractAsOwnerTx() (*models.EncodedCall, error) {
	if err := b.requireModules("addOwnerWithThreshold"); err != nil {
		return nil, err
	}
	return b.enc.EncodeCall(bindings.GnosisSafe, b.safe.Address(), "addOwnerWithThreshold",
		b.azorius.Address(), big.NewInt(1))
}

// BuildRemoveMultiSendOwnerTx removes the placeholder forwarder owner. Azorius
// precedes it in the Safe's owner list after addOwnerWithThreshold.
func (b *AzoriusBuilder) BuildRemoveMultiSendOwnerTx() (*models.EncodedCall, error) {
	if err := b.requireModules("removeOwner"); err != nil {
		return nil, err
	}
	return b.enc.EncodeCall(bindings.GnosisSafe, b.safe.Address(), "removeOwner",
		b.azorius.Address(), b.contracts.MultiSend, big.NewInt(1))
}

// ConfigCalls returns the calls the Safe executes on itself, in order:
// name, snapshot URL, strategy link, module enablement, owner swap.
func (b *AzoriusBuilder) ConfigCalls() ([]*models.EncodedCall, error) {
	if err := b.requireModules("configuration"); err != nil {
		return nil, err
	}

	builders := []func() (*models.EncodedCall, error){
		b.BuildUpdateDAONameTx,
		b.BuildUpdateSnapshotURLTx,
		b.BuildLinearVotingSetupTx,
		b.BuildEnableAzoriusModuleTx,
		b.BuildAddAzoriusContractAsOwnerTx,
		b.BuildRemoveMultiSendOwnerTx,
	}

	calls := make([]*models.EncodedCall, 0, len(builders))
	for _, build := range builders {
		call, err := build()
		if err != nil {
			return nil, err
		}
		calls = append(calls, call)
	}
	return calls, nil
}

// BuildExecTx wraps calls into the Safe's execTransaction
func (b *AzoriusBuilder) BuildExecTx(calls []*models.EncodedCall) (*models.EncodedCall, error) {
	if b.safe == nil {
		return nil, &domain.PrerequisiteNotReadyError{Slot: "execTransaction", Requires: models.SlotSafe}
	}
	return b.BuildExecInternalSafeTx(b.safe.Address(), calls)
}

func (b *AzoriusBuilder) deployModule(slot *models.DeploymentSlot) (*models.EncodedCall, error) {
	return b.enc.EncodeCall(bindings.ModuleProxyFactory, slot.Factory(), "deployModule",
		slot.MasterCopy(), slot.SetupData(), create2.NonceToBig(slot.Nonce()))
}

func (b *AzoriusBuilder) moduleSlot(name string, master common.Address, setup []byte) (*models.DeploymentSlot, error) {
	nonce, err := b.nextNonce(nil)
	if err != nil {
		return nil, err
	}
	return models.NewDeploymentSlot(
		name,
		b.contracts.ModuleProxyFactory,
		master,
		create2.MinimalProxyInitCodeHash(master),
		setup,
		nonce,
	), nil
}

func (b *AzoriusBuilder) requireModules(call string) error {
	switch {
	case b.safe == nil:
		return &domain.PrerequisiteNotReadyError{Slot: call, Requires: models.SlotSafe}
	case b.strategy == nil:
		return &domain.PrerequisiteNotReadyError{Slot: call, Requires: models.SlotStrategy}
	case b.azorius == nil:
		return &domain.PrerequisiteNotReadyError{Slot: call, Requires: models.SlotAzorius}
	}
	return nil
}

func (b *AzoriusBuilder) nextNonce(fixed *[32]byte) ([32]byte, error) {
	if fixed != nil {
		return *fixed, nil
	}
	return b.nonces()
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}

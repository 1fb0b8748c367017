package txbuilder

import (
	"github.com/trebuchet-org/treb-dao/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
)

// BuildPlan predicts every slot and assembles the outer batch:
// Safe creation, strategy deployment, Azorius deployment and the Safe's
// self-configuration. The result is sent to the forwarder as one
// multiSend transaction.
func (b *AzoriusBuilder) BuildPlan() (*models.DeploymentPlan, error) {
	if err := b.Predict(); err != nil {
		return nil, err
	}

	createSafe, err := b.BuildCreateSafeTx()
	if err != nil {
		return nil, err
	}
	deployStrategy, err := b.BuildDeployStrategyTx()
	if err != nil {
		return nil, err
	}
	deployAzorius, err := b.BuildDeployAzoriusTx()
	if err != nil {
		return nil, err
	}
	configCalls, err := b.ConfigCalls()
	if err != nil {
		return nil, err
	}
	exec, err := b.BuildExecTx(configCalls)
	if err != nil {
		return nil, err
	}

	outer := models.NewTransactionBatch(createSafe, deployStrategy, deployAzorius, exec)
	packed, err := outer.Pack()
	if err != nil {
		return nil, err
	}
	calldata, err := b.enc.Pack(bindings.MultiSend, "multiSend", packed)
	if err != nil {
		return nil, err
	}

	return &models.DeploymentPlan{
		Forwarder:         b.Forwarder(),
		Safe:              b.safe,
		Strategy:          b.strategy,
		Azorius:           b.azorius,
		SafeCreation:      createSafe,
		ModuleDeployments: []*models.EncodedCall{deployStrategy, deployAzorius},
		ConfigCalls:       configCalls,
		ExecCall:          exec,
		Outer:             outer,
		Packed:            packed,
		Calldata:          calldata,
	}, nil
}

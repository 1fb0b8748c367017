package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/treb-dao/internal/adapters/anvil"
	"github.com/trebuchet-org/treb-dao/internal/adapters/blockchain"
	"github.com/trebuchet-org/treb-dao/internal/adapters/interactive"
	"github.com/trebuchet-org/treb-dao/internal/adapters/progress"
	"github.com/trebuchet-org/treb-dao/internal/adapters/repository/deployments"
	"github.com/trebuchet-org/treb-dao/internal/adapters/safe"
	"github.com/trebuchet-org/treb-dao/internal/logging"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

// BlockchainSet provides RPC connections and contract checks
var BlockchainSet = wire.NewSet(
	blockchain.NewConnector,
	wire.Bind(new(usecase.ChainConnector), new(*blockchain.Connector)),
	blockchain.NewCheckerAdapter,
	wire.Bind(new(usecase.ContractResolver), new(*blockchain.CheckerAdapter)),
)

// RepositorySet provides the file-backed deployment registry
var RepositorySet = wire.NewSet(
	deployments.NewFileRepository,
	wire.Bind(new(usecase.DeploymentRepository), new(*deployments.FileRepository)),
)

// SafeSet provides the Safe Transaction Service client
var SafeSet = wire.NewSet(
	safe.NewClientAdapter,
	wire.Bind(new(usecase.SafeInfoClient), new(*safe.ClientAdapter)),
)

// InteractiveSet provides operator prompts
var InteractiveSet = wire.NewSet(
	interactive.NewConfirmAdapter,
	wire.Bind(new(usecase.Confirmer), new(*interactive.ConfirmAdapter)),
)

// AnvilSet provides local forks for rehearsals
var AnvilSet = wire.NewSet(
	anvil.NewManager,
	wire.Bind(new(usecase.ForkRunner), new(*anvil.Manager)),
)

// ProgressSet provides the progress sink and logger
var ProgressSet = wire.NewSet(
	progress.NewProgressSink,
	logging.NewLogger,
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	BlockchainSet,
	RepositorySet,
	SafeSet,
	InteractiveSet,
	AnvilSet,
	ProgressSet,
)

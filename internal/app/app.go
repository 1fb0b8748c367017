package app

import (
	"log/slog"

	"github.com/trebuchet-org/treb-dao/internal/domain/config"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Shared dependencies
	Progress usecase.ProgressSink

	// Use cases
	BuildPlan          *usecase.BuildPlan
	ExecutePlan        *usecase.ExecutePlan
	ListNetworks       *usecase.ListNetworks
	ListDeployments    *usecase.ListDeployments
	RegisterDeployment *usecase.RegisterDeployment
	ConfigureKeyperSet *usecase.ConfigureKeyperSet
	InitializeToken    *usecase.InitializeToken
	InspectDAO         *usecase.InspectDAO
	ComputeAirdropRoot *usecase.ComputeAirdropRoot
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	progress usecase.ProgressSink,
	buildPlan *usecase.BuildPlan,
	executePlan *usecase.ExecutePlan,
	listNetworks *usecase.ListNetworks,
	listDeployments *usecase.ListDeployments,
	registerDeployment *usecase.RegisterDeployment,
	configureKeyperSet *usecase.ConfigureKeyperSet,
	initializeToken *usecase.InitializeToken,
	inspectDAO *usecase.InspectDAO,
	computeAirdropRoot *usecase.ComputeAirdropRoot,
) *App {
	return &App{
		Config:             cfg,
		Log:                log,
		Progress:           progress,
		BuildPlan:          buildPlan,
		ExecutePlan:        executePlan,
		ListNetworks:       listNetworks,
		ListDeployments:    listDeployments,
		RegisterDeployment: registerDeployment,
		ConfigureKeyperSet: configureKeyperSet,
		InitializeToken:    initializeToken,
		InspectDAO:         inspectDAO,
		ComputeAirdropRoot: computeAirdropRoot,
	}
}

//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/treb-dao/internal/adapters"
	"github.com/trebuchet-org/treb-dao/internal/config"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewBuildPlan,
		usecase.NewExecutePlan,
		usecase.NewListNetworks,
		usecase.NewListDeployments,
		usecase.NewRegisterDeployment,
		usecase.NewConfigureKeyperSet,
		usecase.NewInitializeToken,
		usecase.NewInspectDAO,
		usecase.NewComputeAirdropRoot,

		// App
		NewApp,
	)
	return nil, nil
}

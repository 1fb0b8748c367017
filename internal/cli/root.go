package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/treb-dao/internal/app"
	"github.com/trebuchet-org/treb-dao/internal/config"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"

	// standaloneAnnotation marks commands that run without a DAO project
	standaloneAnnotation = "standalone"
)

var standalone = map[string]string{standaloneAnnotation: "true"}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "treb-dao",
		Short: "Deterministic DAO deployment planner and executor",
		Long: `treb-dao predicts, plans and deploys a Safe governed by an Azorius module
and a linear ERC20 voting strategy in a single atomic transaction.

Every address is computed with CREATE2 before anything is sent, so later
stages (token initialisation, keyper set handover) can point at the DAO
before it exists.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help and standalone commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Annotations[standaloneAnnotation] == "true" {
				return nil
			}

			// An explicit --config outside a project makes its directory the root
			var configFile string
			if f := cmd.Flag("config"); f != nil && f.Changed {
				abs, err := filepath.Abs(f.Value.String())
				if err != nil {
					return err
				}
				configFile = abs
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				if configFile == "" {
					return err
				}
				projectRoot = filepath.Dir(configFile)
			}

			v := config.SetupViper(projectRoot)
			bindGlobalFlags(v, cmd)
			if configFile != "" {
				v.Set("config", configFile)
			}

			appInstance, err := app.InitApp(v)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cmd.PostRun = func(cmd *cobra.Command, args []string) {
					cancel()
				}
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "DAO config file (defaults to dao.toml or dao.yaml in the project root)")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (e.g., mainnet, sepolia)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Abort after this duration (e.g. 10m)")
	rootCmd.PersistentFlags().BoolP("yes", "y", false, "Skip confirmation prompts")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Deployment Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "stages",
		Title: "Pipeline Stages:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "tools",
		Title: "Tools:",
	})

	addToGroup(rootCmd, "main", NewPredictCmd(), NewPlanCmd(), NewDeployCmd(), NewStatusCmd())
	addToGroup(rootCmd, "stages", NewKeypersCmd(), NewTokenCmd(), NewAirdropCmd())
	addToGroup(rootCmd, "management", NewNetworksCmd(), NewRegistryCmd())
	addToGroup(rootCmd, "tools", NewRandomBytesCmd(), NewDecodeCmd())

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

func addToGroup(root *cobra.Command, group string, cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		cmd.GroupID = group
		root.AddCommand(cmd)
	}
}

// bindGlobalFlags binds command flags to viper
func bindGlobalFlags(v *viper.Viper, cmd *cobra.Command) {
	// Only bind flags that exist and have been changed
	for flag, key := range map[string]string{
		"config":          "config",
		"network":         "network",
		"debug":           "debug",
		"non-interactive": "non_interactive",
		"json":            "json",
		"timeout":         "timeout",
		"yes":             "yes",
	} {
		if f := cmd.Flag(flag); f != nil && f.Changed {
			v.Set(key, f.Value.String())
		}
	}
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	a, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return a, nil
}

// stopProgress halts a running spinner before errors are printed
func stopProgress(a *app.App) {
	if s, ok := a.Progress.(interface{ Stop() }); ok {
		s.Stop()
	}
}

// cancelled reports whether the operator declined a confirmation
func cancelled(cmd *cobra.Command, err error) bool {
	if errors.Is(err, usecase.ErrDeploymentCancelled) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled.")
		return true
	}
	return false
}

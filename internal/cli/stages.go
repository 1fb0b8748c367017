package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-dao/internal/cli/render"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

// NewKeypersCmd creates the keypers command group
func NewKeypersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keypers",
		Short: "Keyper set stage",
	}

	var dryRun bool
	configure := &cobra.Command{
		Use:   "configure",
		Short: "Register the initial keyper and collator sets",
		Long: `Add the configured keypers and collator to their address sequences,
register the first configuration of each set, and transfer all four
contracts to the predicted DAO Safe.

The contracts must be registered first with 'registry set'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			defer stopProgress(app)

			result, err := app.ConfigureKeyperSet.Run(cmd.Context(), usecase.ConfigureKeyperSetParams{DryRun: dryRun})
			stopProgress(app)
			if cancelled(cmd, err) {
				return nil
			}
			if err != nil {
				return err
			}

			return render.NewKeyperSetRenderer(cmd.OutOrStdout(), app.Config.JSON).Render(result)
		},
	}
	configure.Flags().BoolVar(&dryRun, "dry-run", false, "Show the calls without sending them")

	cmd.AddCommand(configure)
	return cmd
}

// NewTokenCmd creates the token command group
func NewTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Governance token stage",
	}

	var dryRun bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the token with the DAO Safe as owner",
		Long: `Call initialize on the registered token. The predicted DAO Safe becomes the
owner, and the supply is distributed to the SPT conversion and airdrop
contracts. Without an SPT conversion contract its share goes to the Safe.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			defer stopProgress(app)

			result, err := app.InitializeToken.Run(cmd.Context(), usecase.InitializeTokenParams{DryRun: dryRun})
			stopProgress(app)
			if cancelled(cmd, err) {
				return nil
			}
			if err != nil {
				return err
			}

			return render.NewTokenRenderer(cmd.OutOrStdout(), app.Config.JSON).Render(result)
		},
	}
	initCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the call without sending it")

	cmd.AddCommand(initCmd)
	return cmd
}

// NewAirdropCmd creates the airdrop command group
func NewAirdropCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "airdrop",
		Short: "Airdrop vesting tools",
	}

	root := &cobra.Command{
		Use:   "root <file>",
		Short: "Compute the merkle root of a vesting list",
		Long: `Hash every vesting in a YAML or JSON file with the VestingLibrary EIP-712
domain and build the merkle root the airdrop contract is deployed with.

If the selected network has an airdrop section the root is compared with
the configured merkle_root.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ComputeAirdropRoot.Run(cmd.Context(), usecase.AirdropRootParams{File: args[0]})
			if err != nil {
				return err
			}

			return render.NewAirdropRootRenderer(cmd.OutOrStdout(), app.Config.JSON).Render(result)
		},
	}

	cmd.AddCommand(root)
	return cmd
}

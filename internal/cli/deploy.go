package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-dao/internal/cli/render"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	opts := &planOptions{}
	var rehearse bool

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the DAO in a single transaction",
		Long: `Build a fresh plan and send it to the multisend forwarder as one transaction.

The transaction creates the Safe, deploys the strategy and Azorius, and
configures the Safe so Azorius becomes its only owner. It either fully
succeeds or fully reverts. Addresses emitted by the factories are checked
against the predictions before anything is recorded.

With --rehearse the identical plan first runs on a local anvil fork.`,
		Example: `  treb-dao deploy --network sepolia
  treb-dao deploy --network mainnet --rehearse`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			defer stopProgress(app)

			params, err := opts.params()
			if err != nil {
				return err
			}
			plan, err := app.BuildPlan.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if !app.Config.JSON {
				if err := render.NewPlanRenderer(cmd.OutOrStdout(), app.Config.Network, false).RenderPredictions(plan); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout())
			}

			result, err := app.ExecutePlan.Run(cmd.Context(), usecase.ExecutePlanParams{
				Plan:     plan,
				Rehearse: rehearse,
			})
			stopProgress(app)
			if cancelled(cmd, err) {
				return nil
			}
			if err != nil {
				if result != nil {
					// deployed but not recorded
					_ = render.NewDeployRenderer(cmd.OutOrStdout(), app.Config.JSON).Render(result)
				}
				return err
			}

			return render.NewDeployRenderer(cmd.OutOrStdout(), app.Config.JSON).Render(result)
		},
	}

	opts.addFlags(cmd.Flags())
	cmd.Flags().BoolVar(&rehearse, "rehearse", false, "Run the plan on a local anvil fork first")
	return cmd
}

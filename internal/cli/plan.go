package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/trebuchet-org/treb-dao/internal/cli/render"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
	"github.com/trebuchet-org/treb-dao/pkg/create2"
)

type planOptions struct {
	safeNonce     string
	skipPreflight bool
}

func (o *planOptions) params() (usecase.BuildPlanParams, error) {
	params := usecase.BuildPlanParams{SkipPreflight: o.skipPreflight}
	if o.safeNonce != "" {
		nonce, err := create2.ParseNonce(o.safeNonce)
		if err != nil {
			return params, err
		}
		params.SafeNonce = &nonce
	}
	return params, nil
}

func (o *planOptions) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.safeNonce, "safe-nonce", "", "Safe salt nonce (overrides the network's safe_salt)")
	fs.BoolVar(&o.skipPreflight, "skip-preflight", false, "Skip code checks on factories and master copies")
}

// NewPredictCmd creates the predict command
func NewPredictCmd() *cobra.Command {
	opts := &planOptions{}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the Safe, strategy and Azorius addresses",
		Long: `Compute the CREATE2 addresses of the DAO Safe, the voting strategy and the
Azorius module without sending anything.

The Safe address only depends on the network's safe_salt; the module
addresses use fresh random nonces and change on every run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params, err := opts.params()
			if err != nil {
				return err
			}
			plan, err := app.BuildPlan.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			renderer := render.NewPlanRenderer(cmd.OutOrStdout(), app.Config.Network, app.Config.JSON)
			return renderer.RenderPredictions(plan)
		},
	}
	opts.addFlags(cmd.Flags())
	return cmd
}

// NewPlanCmd creates the plan command
func NewPlanCmd() *cobra.Command {
	opts := &planOptions{}
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Build and show the deployment transaction without sending it",
		Long: `Build the full deployment plan for the selected network and show every
call of the outer multisend transaction, decoded.

Use --json to export the plan, including the raw calldata.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params, err := opts.params()
			if err != nil {
				return err
			}
			plan, err := app.BuildPlan.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			return render.NewPlanRenderer(cmd.OutOrStdout(), app.Config.Network, app.Config.JSON).Render(plan)
		},
	}
	opts.addFlags(cmd.Flags())
	return cmd
}

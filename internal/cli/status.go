package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-dao/internal/cli/render"
)

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Inspect the deployed DAO on chain",
		Long: `Read the Safe, Azorius and strategy recorded in the registry back from
chain and check that Azorius is the Safe's only owner.

When the chain has a Safe Transaction Service its view of the Safe is shown
as well.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			status, err := app.InspectDAO.Run(cmd.Context())
			if err != nil {
				return err
			}

			return render.NewStatusRenderer(cmd.OutOrStdout(), app.Config.JSON).Render(status)
		},
	}
}

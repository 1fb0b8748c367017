package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-dao/internal/cli/render"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

// NewRegistryCmd creates the registry command group
func NewRegistryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Manage the deployment registry",
		Long: `The registry (.treb-dao/deployments.json) records the contracts of every
pipeline stage per chain. Deploy runs write to it; contracts deployed by
other tools, such as the token or the keyper set contracts, are added with
'registry set'.`,
	}

	cmd.AddCommand(newRegistryListCmd(), newRegistrySetCmd())
	return cmd
}

func newRegistryListCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List registered deployments",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			deployments, err := app.ListDeployments.Run(cmd.Context(), usecase.ListDeploymentsParams{AllChains: all})
			if err != nil {
				return err
			}

			return render.NewDeploymentsRenderer(cmd.OutOrStdout(), app.Config.JSON).Render(deployments)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "List deployments on every chain")
	return cmd
}

func newRegistrySetCmd() *cobra.Command {
	var (
		txHash        string
		skipCodeCheck bool
	)

	cmd := &cobra.Command{
		Use:   "set <name> <address>",
		Short: "Register a contract deployed outside treb-dao",
		Long: fmt.Sprintf(`Register a contract for the selected network.

Later stages look these names up:
  %s, %s, %s,
  %s, %s,
  %s, %s`,
			models.ContractShutterToken, models.ContractAirdrop, models.ContractSptConversion,
			models.ContractKeyperAddrsSeq, models.ContractKeypersConfigsList,
			models.ContractCollatorAddrsSeq, models.ContractCollatorConfigsList),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			dep, err := app.RegisterDeployment.Run(cmd.Context(), usecase.RegisterDeploymentParams{
				Name:          args[0],
				Address:       args[1],
				TxHash:        txHash,
				SkipCodeCheck: skipCodeCheck,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.NewDeploymentsRenderer(cmd.OutOrStdout(), true).Render([]*models.Deployment{dep})
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf("Registered %s at %s on chain %d", dep.Name, dep.Address.Hex(), dep.ChainID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&txHash, "tx", "", "Hash of the deployment transaction")
	cmd.Flags().BoolVar(&skipCodeCheck, "skip-code-check", false, "Register without checking for code at the address")
	return cmd
}

package render

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

// DeployRenderer renders the outcome of a deployment run
type DeployRenderer struct {
	out  io.Writer
	json bool
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer, json bool) *DeployRenderer {
	return &DeployRenderer{out: out, json: json}
}

var _ Renderer[*usecase.ExecutePlanResult] = (*DeployRenderer)(nil)

type deployView struct {
	TxHash      common.Hash          `json:"txHash"`
	BlockNumber uint64               `json:"blockNumber"`
	GasUsed     uint64               `json:"gasUsed"`
	Deployments []*models.Deployment `json:"deployments"`
	Rehearsal   *rehearsalView       `json:"rehearsal,omitempty"`
}

type rehearsalView struct {
	TxHash  common.Hash `json:"txHash"`
	GasUsed uint64      `json:"gasUsed"`
}

// Render renders the transaction, the verified creations and the registry records
func (r *DeployRenderer) Render(result *usecase.ExecutePlanResult) error {
	if r.json {
		view := deployView{
			TxHash:      result.TxHash,
			BlockNumber: result.BlockNumber,
			GasUsed:     result.GasUsed,
			Deployments: result.Deployments,
		}
		if result.Rehearsal != nil {
			view.Rehearsal = &rehearsalView{TxHash: result.Rehearsal.TxHash, GasUsed: result.Rehearsal.GasUsed}
		}
		return writeJSON(r.out, view)
	}

	if result.Rehearsal != nil {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Rehearsal succeeded on fork (%s, gas used %d)",
			shortHex(result.Rehearsal.TxHash.Hex()), result.Rehearsal.GasUsed)))
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("DAO deployed in block %d", result.BlockNumber)))
	fmt.Fprintf(r.out, "  Transaction: %s\n", result.TxHash.Hex())
	fmt.Fprintf(r.out, "  Gas used:    %d\n\n", result.GasUsed)

	sectionHeaderStyle.Fprintln(r.out, "Created proxies:")
	t := newTable(r.out, "Event", "Proxy", "Master copy")
	for _, c := range result.Creations {
		t.AppendRow([]any{labelStyle.Sprint(c.Event), address(c.Proxy), address(c.MasterCopy)})
	}
	t.Render()

	fmt.Fprintln(r.out)
	sectionHeaderStyle.Fprintln(r.out, "Recorded deployments:")
	RenderDeploymentsTable(r.out, result.Deployments)
	return nil
}

// DeploymentsRenderer renders registry entries
type DeploymentsRenderer struct {
	out  io.Writer
	json bool
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer, json bool) *DeploymentsRenderer {
	return &DeploymentsRenderer{out: out, json: json}
}

var _ Renderer[[]*models.Deployment] = (*DeploymentsRenderer)(nil)

// Render renders deployments grouped by chain
func (r *DeploymentsRenderer) Render(deployments []*models.Deployment) error {
	if r.json {
		return writeJSON(r.out, deployments)
	}
	if len(deployments) == 0 {
		fmt.Fprintln(r.out, "No deployments found")
		return nil
	}

	groups := lo.GroupBy(deployments, func(d *models.Deployment) uint64 { return d.ChainID })
	chains := lo.Uniq(lo.Map(deployments, func(d *models.Deployment, _ int) uint64 { return d.ChainID }))
	for i, chainID := range chains {
		if i > 0 {
			fmt.Fprintln(r.out)
		}
		sectionHeaderStyle.Fprintf(r.out, "Chain %d:\n", chainID)
		RenderDeploymentsTable(r.out, groups[chainID])
	}
	return nil
}

// RenderDeploymentsTable renders deployments as a single table
func RenderDeploymentsTable(out io.Writer, deployments []*models.Deployment) {
	t := newTable(out, "Name", "Address", "Source", "Tx", "Created")
	for _, d := range deployments {
		tx := faintStyle.Sprint("-")
		if d.TxHash != nil {
			tx = shortHex(d.TxHash.Hex())
		}
		t.AppendRow([]any{
			labelStyle.Sprint(d.Name),
			address(d.Address),
			title(string(d.Source)),
			tx,
			faintStyle.Sprint(d.CreatedAt.Format("2006-01-02 15:04:05")),
		})
	}
	t.Render()
}

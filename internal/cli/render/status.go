package render

import (
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

// StatusRenderer renders the on-chain state of a deployed DAO
type StatusRenderer struct {
	out  io.Writer
	json bool
}

// NewStatusRenderer creates a new status renderer
func NewStatusRenderer(out io.Writer, json bool) *StatusRenderer {
	return &StatusRenderer{out: out, json: json}
}

var _ Renderer[*usecase.DAOStatus] = (*StatusRenderer)(nil)

type statusView struct {
	Network         string           `json:"network"`
	Healthy         bool             `json:"healthy"`
	Safe            common.Address   `json:"safe"`
	Strategy        common.Address   `json:"strategy"`
	Azorius         common.Address   `json:"azorius"`
	Owners          []common.Address `json:"owners"`
	Threshold       string           `json:"threshold"`
	ModuleEnabled   bool             `json:"moduleEnabled"`
	StrategyEnabled bool             `json:"strategyEnabled"`
	VotingPeriod    uint32           `json:"votingPeriod"`
	Quorum          string           `json:"quorumNumerator"`
	Basis           string           `json:"basisNumerator"`
	TimelockPeriod  uint32           `json:"timelockPeriod"`
	ExecutionPeriod uint32           `json:"executionPeriod"`
	Service         *models.SafeInfo `json:"service,omitempty"`
	ServiceError    string           `json:"serviceError,omitempty"`
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// percent renders a numerator over the basis denominator
func percent(v *big.Int) string {
	if v == nil {
		return "-"
	}
	f, _ := new(big.Float).Quo(new(big.Float).SetInt(v), big.NewFloat(config.BasisDenominator/100)).Float64()
	return fmt.Sprintf("%s (%.2f%%)", v.String(), f)
}

// Render renders the status summary and the Safe Transaction Service view
func (r *StatusRenderer) Render(s *usecase.DAOStatus) error {
	if r.json {
		view := statusView{
			Network:         s.Network,
			Healthy:         s.Healthy(),
			Safe:            s.Safe,
			Strategy:        s.Strategy,
			Azorius:         s.Azorius,
			Owners:          s.Owners,
			Threshold:       bigString(s.Threshold),
			ModuleEnabled:   s.ModuleEnabled,
			StrategyEnabled: s.StrategyEnabled,
			VotingPeriod:    s.VotingPeriod,
			Quorum:          bigString(s.QuorumNumerator),
			Basis:           bigString(s.BasisNumerator),
			TimelockPeriod:  s.TimelockPeriod,
			ExecutionPeriod: s.ExecutionPeriod,
			Service:         s.Service,
		}
		if s.ServiceError != nil {
			view.ServiceError = s.ServiceError.Error()
		}
		return writeJSON(r.out, view)
	}

	sectionHeaderStyle.Fprintf(r.out, "DAO on %s\n", s.Network)
	t := newTable(r.out)
	t.AppendRows([]table.Row{
		{"Safe", address(s.Safe)},
		{"Azorius", address(s.Azorius)},
		{"Voting strategy", address(s.Strategy)},
		{"Owners", strings.Join(lo.Map(s.Owners, func(a common.Address, _ int) string { return a.Hex() }), "\n")},
		{"Threshold", bigString(s.Threshold)},
		{"Azorius enabled on Safe", check(s.ModuleEnabled)},
		{"Strategy enabled on Azorius", check(s.StrategyEnabled)},
		{"Strategy points at Azorius", check(s.StrategyAzorius == s.Azorius)},
		{"Voting period (blocks)", s.VotingPeriod},
		{"Quorum", percent(s.QuorumNumerator)},
		{"Basis", percent(s.BasisNumerator)},
		{"Timelock period (blocks)", s.TimelockPeriod},
		{"Execution period (blocks)", s.ExecutionPeriod},
	})
	t.Render()
	fmt.Fprintln(r.out)

	if s.Healthy() {
		fmt.Fprintln(r.out, FormatSuccess("Safe is owned by Azorius only"))
	} else {
		fmt.Fprintln(r.out, FormatWarning("DAO setup is incomplete: Azorius must be the only owner and an enabled module"))
	}

	switch {
	case s.Service != nil:
		fmt.Fprintf(r.out, "\nSafe Transaction Service: version %s, nonce %d, %d module(s)\n",
			s.Service.Version, s.Service.Nonce, len(s.Service.Modules))
	case s.ServiceError != nil:
		fmt.Fprintf(r.out, "\n%s\n", faintStyle.Sprintf("Safe Transaction Service unavailable: %v", s.ServiceError))
	}
	return nil
}

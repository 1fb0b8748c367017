package render

import (
	"fmt"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-dao/internal/adapters/abi"
	"github.com/trebuchet-org/treb-dao/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
)

// PlanRenderer renders predicted addresses and the calls of a deployment plan
type PlanRenderer struct {
	out     io.Writer
	network *config.Network
	json    bool
}

// NewPlanRenderer creates a new plan renderer
func NewPlanRenderer(out io.Writer, network *config.Network, json bool) *PlanRenderer {
	return &PlanRenderer{out: out, network: network, json: json}
}

var _ Renderer[*models.DeploymentPlan] = (*PlanRenderer)(nil)

type slotView struct {
	Name       string         `json:"name"`
	Address    common.Address `json:"address"`
	Factory    common.Address `json:"factory"`
	MasterCopy common.Address `json:"masterCopy"`
	Nonce      string         `json:"nonce"`
	Salt       string         `json:"salt"`
}

type callView struct {
	Label     string         `json:"label"`
	Target    common.Address `json:"target"`
	Value     string         `json:"value"`
	Operation string         `json:"operation"`
	Data      hexutil.Bytes  `json:"data"`
}

type planView struct {
	RunID       string         `json:"runId"`
	Network     string         `json:"network"`
	ChainID     uint64         `json:"chainId"`
	Forwarder   common.Address `json:"forwarder"`
	GasLimit    uint64         `json:"gasLimit"`
	Slots       []slotView     `json:"slots"`
	Calls       []callView     `json:"calls"`
	ConfigCalls []callView     `json:"configCalls"`
	Calldata    hexutil.Bytes  `json:"calldata"`
}

func newSlotView(s *models.DeploymentSlot) slotView {
	return slotView{
		Name:       s.Name(),
		Address:    s.Address(),
		Factory:    s.Factory(),
		MasterCopy: s.MasterCopy(),
		Nonce:      s.NonceHex(),
		Salt:       common.Hash(s.Salt()).Hex(),
	}
}

func newCallView(c *models.EncodedCall, _ int) callView {
	value := "0"
	if c.Value != nil {
		value = c.Value.String()
	}
	return callView{
		Label:     c.Label(),
		Target:    c.Target,
		Value:     value,
		Operation: c.Operation.String(),
		Data:      c.Data,
	}
}

// Render renders the full plan: predictions followed by the decoded call tree
func (r *PlanRenderer) Render(plan *models.DeploymentPlan) error {
	if r.json {
		return writeJSON(r.out, planView{
			RunID:       plan.RunID,
			Network:     plan.Network,
			ChainID:     plan.ChainID,
			Forwarder:   plan.Forwarder,
			GasLimit:    plan.GasLimit,
			Slots:       lo.Map(plan.Slots(), func(s *models.DeploymentSlot, _ int) slotView { return newSlotView(s) }),
			Calls:       lo.Map(plan.Outer.Calls(), newCallView),
			ConfigCalls: lo.Map(plan.ConfigCalls, newCallView),
			Calldata:    plan.Calldata,
		})
	}

	if err := r.RenderPredictions(plan); err != nil {
		return err
	}

	fmt.Fprintln(r.out)
	sectionHeaderStyle.Fprintf(r.out, "Outer transaction (%d calls, %d bytes packed, gas limit %d):\n",
		plan.Outer.Len(), len(plan.Packed), plan.GasLimit)

	decoder := abi.NewTransactionDecoder(bindings.ForNetwork(r.network.Kind))
	decoder.RegisterContracts(r.network.Contracts)
	decoder.RegisterPlan(plan, nil)
	root := decoder.DecodeTransaction(plan.Forwarder, plan.Calldata, big.NewInt(0), models.OperationCall)
	renderDecodedTree(r.out, root, "")
	return nil
}

// RenderPredictions renders only the predicted addresses of a plan
func (r *PlanRenderer) RenderPredictions(plan *models.DeploymentPlan) error {
	if r.json {
		return writeJSON(r.out, lo.Map(plan.Slots(), func(s *models.DeploymentSlot, _ int) slotView { return newSlotView(s) }))
	}

	sectionHeaderStyle.Fprintf(r.out, "Predicted addresses on %s (chain %d):\n", plan.Network, plan.ChainID)
	t := newTable(r.out, "Contract", "Address", "Nonce")
	for _, slot := range plan.Slots() {
		t.AppendRow([]any{labelStyle.Sprint(slot.Name()), address(slot.Address()), faintStyle.Sprint(slot.NonceHex())})
	}
	t.Render()
	return nil
}

// renderDecodedTree prints a call and its nested calls with tree connectors
func renderDecodedTree(out io.Writer, dt *abi.DecodedTransaction, prefix string) {
	fmt.Fprintln(out, dt.FormatCompact())
	for i, inner := range dt.Inner {
		last := i == len(dt.Inner)-1
		connector, next := "├─ ", "│  "
		if last {
			connector, next = "└─ ", "   "
		}
		fmt.Fprint(out, faintStyle.Sprint(prefix+connector))
		renderDecodedTree(out, inner, prefix+next)
	}
}

// DecodeRenderer renders arbitrary decoded calldata
type DecodeRenderer struct {
	out  io.Writer
	json bool
}

// NewDecodeRenderer creates a new decode renderer
func NewDecodeRenderer(out io.Writer, json bool) *DecodeRenderer {
	return &DecodeRenderer{out: out, json: json}
}

var _ Renderer[*abi.DecodedTransaction] = (*DecodeRenderer)(nil)

type decodedView struct {
	To        common.Address    `json:"to"`
	Contract  string            `json:"contract,omitempty"`
	Method    string            `json:"method"`
	Operation string            `json:"operation"`
	Inputs    map[string]string `json:"inputs,omitempty"`
	Inner     []decodedView     `json:"inner,omitempty"`
}

func newDecodedView(dt *abi.DecodedTransaction) decodedView {
	view := decodedView{
		To:        dt.To,
		Contract:  dt.Contract,
		Method:    dt.Method,
		Operation: dt.Operation.String(),
		Inner:     lo.Map(dt.Inner, func(in *abi.DecodedTransaction, _ int) decodedView { return newDecodedView(in) }),
	}
	if len(dt.Inputs) > 0 {
		view.Inputs = make(map[string]string, len(dt.Inputs))
		for i, in := range dt.Inputs {
			name := in.Name
			if name == "" {
				name = fmt.Sprintf("arg%d", i)
			}
			view.Inputs[name] = abi.FormatValue(in.Value, in.Type)
		}
	}
	return view
}

// Render renders the decoded call tree and the arguments of every call
func (r *DecodeRenderer) Render(dt *abi.DecodedTransaction) error {
	if r.json {
		return writeJSON(r.out, newDecodedView(dt))
	}
	if dt.Method == "unknown" {
		fmt.Fprintln(r.out, FormatWarning("unknown selector; no known contract ABI matches"))
		return nil
	}

	renderDecodedTree(r.out, dt, "")
	for _, call := range dt.Flatten() {
		if len(call.Inputs) == 0 {
			continue
		}
		fmt.Fprintln(r.out)
		sectionHeaderStyle.Fprintf(r.out, "%s.%s\n", lo.CoalesceOrEmpty(call.Label, call.Contract), call.Method)
		t := newTable(r.out)
		for _, in := range call.Inputs {
			t.AppendRow([]any{labelStyle.Sprint(in.Name), faintStyle.Sprint(in.Type), abi.FormatValue(in.Value, in.Type)})
		}
		t.Render()
	}
	return nil
}

// shortHex abbreviates long hex strings for tables
func shortHex(s string) string {
	if len(s) <= 18 {
		return s
	}
	return s[:10] + "…" + s[len(s)-6:]
}

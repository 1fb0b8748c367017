package render

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

// KeyperSetRenderer renders the keyper set configuration stage
type KeyperSetRenderer struct {
	out  io.Writer
	json bool
}

// NewKeyperSetRenderer creates a new keyper set renderer
func NewKeyperSetRenderer(out io.Writer, json bool) *KeyperSetRenderer {
	return &KeyperSetRenderer{out: out, json: json}
}

var _ Renderer[*usecase.ConfigureKeyperSetResult] = (*KeyperSetRenderer)(nil)

type stageView struct {
	Safe      common.Address `json:"safe"`
	Threshold uint64         `json:"threshold,omitempty"`
	Calls     []callView     `json:"calls"`
	TxHashes  []common.Hash  `json:"txHashes"`
}

// Render renders the calls and, after a live run, their transaction hashes
func (r *KeyperSetRenderer) Render(result *usecase.ConfigureKeyperSetResult) error {
	if r.json {
		return writeJSON(r.out, stageView{
			Safe:      result.Safe,
			Threshold: result.Threshold,
			Calls:     lo.Map(result.Calls, newCallView),
			TxHashes:  lo.Ternary(result.TxHashes == nil, []common.Hash{}, result.TxHashes),
		})
	}

	fmt.Fprintf(r.out, "DAO Safe (predicted): %s\n", address(result.Safe))
	fmt.Fprintf(r.out, "Keyper threshold:     %d\n\n", result.Threshold)
	renderCalls(r.out, result.Calls, result.TxHashes)
	if len(result.TxHashes) == len(result.Calls) {
		fmt.Fprintln(r.out, FormatSuccess("Keyper and collator sets configured and handed over to the DAO Safe"))
	}
	return nil
}

// TokenRenderer renders the token initialisation stage
type TokenRenderer struct {
	out  io.Writer
	json bool
}

// NewTokenRenderer creates a new token renderer
func NewTokenRenderer(out io.Writer, json bool) *TokenRenderer {
	return &TokenRenderer{out: out, json: json}
}

var _ Renderer[*usecase.InitializeTokenResult] = (*TokenRenderer)(nil)

type tokenView struct {
	Token         common.Address `json:"token"`
	Safe          common.Address `json:"safe"`
	SptConversion common.Address `json:"sptConversion"`
	Airdrop       common.Address `json:"airdrop"`
	Call          callView       `json:"call"`
	TxHash        *common.Hash   `json:"txHash,omitempty"`
}

// Render renders the initialize call and its recipients
func (r *TokenRenderer) Render(result *usecase.InitializeTokenResult) error {
	if r.json {
		return writeJSON(r.out, tokenView{
			Token:         result.Token,
			Safe:          result.Safe,
			SptConversion: result.SptConversion,
			Airdrop:       result.Airdrop,
			Call:          newCallView(result.Call, 0),
			TxHash:        result.TxHash,
		})
	}

	t := newTable(r.out)
	t.AppendRows([]table.Row{
		{"Token", address(result.Token)},
		{"DAO Safe (predicted)", address(result.Safe)},
		{"SPT conversion", address(result.SptConversion)},
		{"Airdrop", address(result.Airdrop)},
	})
	t.Render()
	fmt.Fprintln(r.out)

	var hashes []common.Hash
	if result.TxHash != nil {
		hashes = []common.Hash{*result.TxHash}
	}
	renderCalls(r.out, []*models.EncodedCall{result.Call}, hashes)
	if result.TxHash != nil {
		fmt.Fprintln(r.out, FormatSuccess("Token initialized"))
	}
	return nil
}

// renderCalls lists calls with the hash of each sent transaction, or the
// calldata when nothing was sent
func renderCalls(out io.Writer, calls []*models.EncodedCall, hashes []common.Hash) {
	t := newTable(out, "#", "Call", "Target", "Tx")
	for i, call := range calls {
		tx := faintStyle.Sprint(shortHex(hexutil.Encode(call.Data)))
		if i < len(hashes) {
			tx = hashes[i].Hex()
		}
		t.AppendRow([]any{i + 1, labelStyle.Sprint(call.Label()), address(call.Target), tx})
	}
	t.Render()
}

// AirdropRootRenderer renders a computed vesting merkle root
type AirdropRootRenderer struct {
	out  io.Writer
	json bool
}

// NewAirdropRootRenderer creates a new airdrop root renderer
func NewAirdropRootRenderer(out io.Writer, json bool) *AirdropRootRenderer {
	return &AirdropRootRenderer{out: out, json: json}
}

var _ Renderer[*usecase.AirdropRootResult] = (*AirdropRootRenderer)(nil)

type airdropRootView struct {
	Root       common.Hash   `json:"root"`
	Count      int           `json:"count"`
	Leaves     []common.Hash `json:"leaves"`
	Configured *common.Hash  `json:"configured,omitempty"`
	Matches    bool          `json:"matches"`
}

// Render renders the root and compares it with the configured one
func (r *AirdropRootRenderer) Render(result *usecase.AirdropRootResult) error {
	if r.json {
		return writeJSON(r.out, airdropRootView{
			Root:       result.Root,
			Count:      result.Count,
			Leaves:     result.Leaves,
			Configured: result.Configured,
			Matches:    result.Matches(),
		})
	}

	fmt.Fprintf(r.out, "Vestings:    %d\n", result.Count)
	fmt.Fprintf(r.out, "Merkle root: %s\n", labelStyle.Sprint(result.Root.Hex()))
	switch {
	case result.Configured == nil:
	case result.Matches():
		fmt.Fprintln(r.out, FormatSuccess("Matches the configured airdrop merkle root"))
	default:
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("Configured airdrop merkle root is %s", result.Configured.Hex())))
	}
	return nil
}

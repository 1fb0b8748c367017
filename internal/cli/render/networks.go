package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out  io.Writer
	json bool
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer, json bool) *NetworksRenderer {
	return &NetworksRenderer{out: out, json: json}
}

var _ Renderer[*usecase.ListNetworksResult] = (*NetworksRenderer)(nil)

type networkView struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	ChainID uint64 `json:"chainId"`
	RPCURL  string `json:"rpcUrl"`
	Current bool   `json:"current"`
	Error   string `json:"error,omitempty"`
}

// Render renders the configured networks with probe results when present
func (r *NetworksRenderer) Render(result *usecase.ListNetworksResult) error {
	if r.json {
		views := make([]networkView, 0, len(result.Networks))
		for _, n := range result.Networks {
			v := networkView{Name: n.Name, Kind: string(n.Kind), ChainID: n.ChainID, RPCURL: n.RPCURL, Current: n.Name == result.Current}
			if n.Error != nil {
				v.Error = n.Error.Error()
			}
			views = append(views, v)
		}
		return writeJSON(r.out, views)
	}

	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	t := newTable(r.out, "", "Network", "Kind", "Chain ID", "RPC")
	for _, n := range result.Networks {
		marker := " "
		if n.Name == result.Current {
			marker = okStyle.Sprint("*")
		}
		name := labelStyle.Sprint(n.Name)
		if n.Error != nil {
			name = badStyle.Sprintf("%s (%v)", n.Name, n.Error)
		}
		t.AppendRow([]any{marker, name, title(string(n.Kind)), n.ChainID, faintStyle.Sprint(n.RPCURL)})
	}
	t.Render()
	return nil
}

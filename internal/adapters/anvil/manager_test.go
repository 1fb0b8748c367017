package anvil

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
	"github.com/trebuchet-org/treb-dao/internal/logging"
	"github.com/trebuchet-org/treb-dao/pkg/anvil"
)

func TestManager_Fork(t *testing.T) {
	network := &config.Network{Name: "sepolia", ChainID: 11155111, RPCURL: "https://rpc.sepolia.org"}

	t.Run("requires a key", func(t *testing.T) {
		m := NewManager(logging.Discard())
		_, err := m.Fork(context.Background(), network, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "deployer key")
	})

	t.Run("forks the network rpc", func(t *testing.T) {
		m := NewManager(logging.Discard())
		var started *anvil.Instance
		m.start = func(_ context.Context, inst *anvil.Instance) (*anvil.Node, error) {
			started = inst
			return nil, errors.New("not started")
		}

		_, err := m.Fork(context.Background(), network, "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80")
		require.Error(t, err)
		require.NotNil(t, started)
		assert.Equal(t, network.RPCURL, started.ForkURL)
		assert.Equal(t, network.ChainID, started.ChainID)
	})
}

package cli

import (
	"bytes"
	"encoding/json"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-dao/internal/adapters/abi"
	"github.com/trebuchet-org/treb-dao/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/treb-dao/internal/config"
	domainconfig "github.com/trebuchet-org/treb-dao/internal/domain/config"
	"github.com/trebuchet-org/treb-dao/pkg/multisend"
)

func init() {
	color.NoColor = true
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCommandTree(t *testing.T) {
	root := NewRootCmd()
	for _, path := range [][]string{
		{"predict"}, {"plan"}, {"deploy"}, {"status"},
		{"keypers", "configure"}, {"token", "init"}, {"airdrop", "root"},
		{"networks"}, {"registry", "list"}, {"registry", "set"},
		{"random-bytes"}, {"decode"}, {"version"},
	} {
		t.Run(strings.Join(path, " "), func(t *testing.T) {
			cmd, _, err := root.Find(path)
			require.NoError(t, err)
			assert.Equal(t, path[len(path)-1], cmd.Name())
		})
	}

	deploy, _, err := root.Find([]string{"deploy"})
	require.NoError(t, err)
	assert.NotNil(t, deploy.Flags().Lookup("rehearse"))
	assert.NotNil(t, deploy.Flags().Lookup("safe-nonce"))
}

func TestRandomBytes(t *testing.T) {
	out, err := execute(t, "random-bytes", "--count", "3")
	require.NoError(t, err)

	lines := strings.Fields(out)
	require.Len(t, lines, 3)
	for _, line := range lines {
		b, err := hexutil.Decode(line)
		require.NoError(t, err)
		assert.Len(t, b, 32)
	}
	assert.NotEqual(t, lines[0], lines[1])

	_, err = execute(t, "random-bytes", "--count", "0")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	config.SetBuildFlags("1.2.3", "abc123", "2026-01-01")
	t.Cleanup(func() { config.SetBuildFlags("dev", "unknown", "unknown") })

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "treb-dao version 1.2.3 (commit abc123, built 2026-01-01)\n", out)
}

func multiSendCalldata(t *testing.T) []byte {
	t.Helper()
	enc := abi.NewEncoder(bindings.ForNetwork(domainconfig.NetworkKindLocal))
	owner := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	inner, err := enc.Pack(bindings.GnosisSafe, "addOwnerWithThreshold", owner, big.NewInt(1))
	require.NoError(t, err)
	packed, err := multisend.Pack([]multisend.Call{{
		Operation: 0,
		To:        common.HexToAddress("0x00000000000000000000000000000000000000bb"),
		Value:     big.NewInt(0),
		Data:      inner,
	}})
	require.NoError(t, err)
	data, err := enc.Pack(bindings.MultiSend, "multiSend", packed)
	require.NoError(t, err)
	return data
}

func TestDecode(t *testing.T) {
	data := hexutil.Encode(multiSendCalldata(t))

	t.Run("text", func(t *testing.T) {
		out, err := execute(t, "decode", data)
		require.NoError(t, err)
		assert.Contains(t, out, "multiSend")
		assert.Contains(t, out, "addOwnerWithThreshold")
		assert.Contains(t, strings.ToLower(out), "0x00000000000000000000000000000000000000aa")
	})

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, "decode", "--json", data)
		require.NoError(t, err)

		var view struct {
			Method string `json:"method"`
			Inner  []struct {
				Method string            `json:"method"`
				Inputs map[string]string `json:"inputs"`
			} `json:"inner"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &view))
		assert.Equal(t, "multiSend", view.Method)
		require.Len(t, view.Inner, 1)
		assert.Equal(t, "addOwnerWithThreshold", view.Inner[0].Method)
		assert.Equal(t, "1", view.Inner[0].Inputs["_threshold"])
	})

	t.Run("invalid hex", func(t *testing.T) {
		_, err := execute(t, "decode", "0xzz")
		assert.ErrorContains(t, err, "invalid calldata")
	})

	t.Run("unknown selector", func(t *testing.T) {
		out, err := execute(t, "decode", "0xdeadbeef")
		require.NoError(t, err)
		assert.Contains(t, out, "unknown selector")
	})
}

func TestBindGlobalFlags(t *testing.T) {
	root := NewRootCmd()
	cmd, _, err := root.Find([]string{"status"})
	require.NoError(t, err)
	require.NoError(t, root.PersistentFlags().Parse([]string{"--network", "sepolia", "--json", "--timeout", "30s", "-y"}))

	v := config.SetupViper(t.TempDir())
	bindGlobalFlags(v, cmd)

	assert.Equal(t, "sepolia", v.GetString("network"))
	assert.True(t, v.GetBool("json"))
	assert.True(t, v.GetBool("yes"))
	assert.False(t, v.GetBool("debug"))
	assert.Equal(t, 30*time.Second, v.GetDuration("timeout"))
}

func TestGetAppWithoutInit(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(t.Context())
	_, err := getApp(cmd)
	assert.ErrorContains(t, err, "app not initialized")
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-dao/internal/domain"
	domainconfig "github.com/trebuchet-org/treb-dao/internal/domain/config"
)

const sampleTOML = `
version = "2.0.0"

[dao]
name = "Shutter DAO"
snapshot_url = "https://snapshot.org/#/shutterprotodao.eth"
voting_period_blocks = 5
timelock_period_blocks = 0
execution_period_blocks = 86400
quorum_basis_numerator = 4
voting_basis_numerator = 500000
proposal_required_weight_tokens = "0"

[networks.sepolia]
kind = "testnet"
chain_id = 11155111
rpc_url = "${SEPOLIA_RPC_URL}"
safe_salt = "0x2a"

[networks.sepolia.contracts]
module_proxy_factory = "0x000000000000aDdB49795b0f9bA5BC298cDda236"
azorius = "0x0000000000000000000000000000000000000a21"
linear_erc20_voting = "0x0000000000000000000000000000000000000b22"
fractal_registry = "0x0000000000000000000000000000000000000c23"
key_value_pairs = "0x0000000000000000000000000000000000000d24"

[networks.local]
kind = "local"

[networks.local.contracts]
module_proxy_factory = "0x0000000000000000000000000000000000000001"
azorius = "0x0000000000000000000000000000000000000002"
linear_erc20_voting = "0x0000000000000000000000000000000000000003"
fractal_registry = "0x0000000000000000000000000000000000000004"
key_value_pairs = "0x0000000000000000000000000000000000000005"
safe_singleton = "0x0000000000000000000000000000000000000006"
`

const sampleYAML = `
version: "2.1.0"
dao:
  name: Test DAO
  snapshot_url: https://snapshot.org/#/test.eth
  voting_period_blocks: 10
  execution_period_blocks: 100
  quorum_basis_numerator: 40000
  voting_basis_numerator: 600000
networks:
  mainnet:
    kind: mainnet
    chain_id: 1
    rpc_url: https://rpc.example
    gas_limit: 6000000
    contracts:
      module_proxy_factory: "0x0000000000000000000000000000000000000001"
      azorius: "0x0000000000000000000000000000000000000002"
      linear_erc20_voting: "0x0000000000000000000000000000000000000003"
      fractal_registry: "0x0000000000000000000000000000000000000004"
      key_value_pairs: "0x0000000000000000000000000000000000000005"
    airdrop:
      token_balance: "1000"
      merkle_root: "0x1111111111111111111111111111111111111111111111111111111111111111"
      redeem_deadline: 1700000000
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDAOFileTOML(t *testing.T) {
	t.Setenv("SEPOLIA_RPC_URL", "https://sepolia.example")
	path := writeFile(t, t.TempDir(), "dao.toml", sampleTOML)

	file, err := LoadDAOFile(path)
	require.NoError(t, err)

	dao, err := BuildDAOConfig(file.DAO)
	require.NoError(t, err)
	assert.Equal(t, "Shutter DAO", dao.Name)
	assert.Equal(t, uint32(5), dao.VotingPeriodBlocks)
	assert.Equal(t, uint32(86400), dao.ExecutionPeriodBlocks)
	assert.Equal(t, int64(4), dao.QuorumBasisNumerator.Int64())
	assert.Equal(t, int64(500000), dao.VotingBasisNumerator.Int64())
	assert.Equal(t, 0, dao.ProposalRequiredWeightTokens.Sign())

	networks, err := BuildNetworks(file.Networks)
	require.NoError(t, err)
	require.Len(t, networks, 2)

	t.Run("testnet", func(t *testing.T) {
		n := networks["sepolia"]
		assert.Equal(t, domainconfig.NetworkKindTestnet, n.Kind)
		assert.Equal(t, "https://sepolia.example", n.RPCURL)
		assert.Equal(t, domainconfig.DefaultGasLimit, n.GasLimit)
		assert.Equal(t, DefaultSafeSingleton, n.Contracts.SafeSingleton)
		assert.Equal(t, DefaultMultiSend, n.Contracts.MultiSend)
		require.NotNil(t, n.SafeSalt)
		assert.Equal(t, byte(0x2a), n.SafeSalt[31])
	})

	t.Run("local defaults", func(t *testing.T) {
		n := networks["local"]
		assert.Equal(t, uint64(31337), n.ChainID)
		assert.Equal(t, "http://127.0.0.1:8545", n.RPCURL)
		assert.Equal(t, common.HexToAddress("0x06"), n.Contracts.SafeSingleton)
		assert.Nil(t, n.SafeSalt)
	})
}

func TestLoadDAOFileYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "dao.yaml", sampleYAML)

	file, err := LoadDAOFile(path)
	require.NoError(t, err)

	networks, err := BuildNetworks(file.Networks)
	require.NoError(t, err)

	n := networks["mainnet"]
	require.NotNil(t, n.Airdrop)
	assert.Equal(t, uint64(6000000), n.GasLimit)
	assert.Equal(t, int64(1000), n.Airdrop.TokenBalance.Int64())
	assert.Equal(t, uint64(1700000000), n.Airdrop.RedeemDeadline)
}

func TestLoadDAOFileVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		wantErr string
	}{
		{name: "missing", version: "", wantErr: "missing a version"},
		{name: "too old", version: `version = "1.4.0"`, wantErr: "not supported"},
		{name: "too new", version: `version = "3.0.0"`, wantErr: "not supported"},
		{name: "garbage", version: `version = "latest"`, wantErr: "invalid config version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "dao.toml", tt.version+"\n[dao]\nname = \"x\"\n")
			_, err := LoadDAOFile(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("unsupported extension", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "dao.json", "{}")
		_, err := LoadDAOFile(path)
		assert.Error(t, err)
	})
}

func validDAOSection() DAOSection {
	return DAOSection{
		Name:                  "Shutter DAO",
		SnapshotURL:           "https://snapshot.org/#/shutterprotodao.eth",
		VotingPeriodBlocks:    5,
		ExecutionPeriodBlocks: 86400,
		QuorumBasisNumerator:  4,
		VotingBasisNumerator:  500000,
	}
}

func TestBuildDAOConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *DAOSection)
		field  string
	}{
		{name: "empty name", mutate: func(s *DAOSection) { s.Name = " " }, field: "dao.name"},
		{name: "empty snapshot url", mutate: func(s *DAOSection) { s.SnapshotURL = "" }, field: "dao.snapshot_url"},
		{name: "zero voting period", mutate: func(s *DAOSection) { s.VotingPeriodBlocks = 0 }, field: "dao.voting_period_blocks"},
		{name: "quorum above denominator", mutate: func(s *DAOSection) { s.QuorumBasisNumerator = 1_000_001 }, field: "dao.quorum_basis_numerator"},
		{name: "basis below half", mutate: func(s *DAOSection) { s.VotingBasisNumerator = 499_999 }, field: "dao.voting_basis_numerator"},
		{name: "negative weight", mutate: func(s *DAOSection) { s.ProposalRequiredWeightTokens = "-1" }, field: "dao.proposal_required_weight_tokens"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validDAOSection()
			tt.mutate(&s)
			_, err := BuildDAOConfig(s)
			require.ErrorIs(t, err, domain.ErrConfiguration)

			var cfgErr *domain.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func localContracts() map[string]string {
	return map[string]string{
		"module_proxy_factory": "0x0000000000000000000000000000000000000001",
		"azorius":              "0x0000000000000000000000000000000000000002",
		"linear_erc20_voting":  "0x0000000000000000000000000000000000000003",
		"fractal_registry":     "0x0000000000000000000000000000000000000004",
		"key_value_pairs":      "0x0000000000000000000000000000000000000005",
	}
}

func TestBuildNetworkErrors(t *testing.T) {
	tests := []struct {
		name    string
		section NetworkSection
		wantMsg string
	}{
		{
			name:    "missing kind",
			section: NetworkSection{Contracts: localContracts()},
			wantMsg: "kind not found in config for network: n",
		},
		{
			name:    "unknown kind",
			section: NetworkSection{Kind: "devnet", Contracts: localContracts()},
			wantMsg: "must be one of",
		},
		{
			name:    "mainnet without airdrop",
			section: NetworkSection{Kind: "mainnet", ChainID: 1, RPCURL: "https://rpc", Contracts: localContracts()},
			wantMsg: "airdrop not found in config for network: n",
		},
		{
			name:    "testnet without chain id",
			section: NetworkSection{Kind: "testnet", RPCURL: "https://rpc", Contracts: localContracts()},
			wantMsg: "chain_id not found",
		},
		{
			name:    "missing fractal registry",
			section: NetworkSection{Kind: "local", Contracts: map[string]string{"azorius": "0x0000000000000000000000000000000000000002"}},
			wantMsg: "not found in config",
		},
		{
			name: "unknown contract key",
			section: NetworkSection{Kind: "local", Contracts: func() map[string]string {
				c := localContracts()
				c["governor"] = "0x0000000000000000000000000000000000000009"
				return c
			}()},
			wantMsg: "contracts.governor is not a known contract",
		},
		{
			name: "bad address",
			section: NetworkSection{Kind: "local", Contracts: func() map[string]string {
				c := localContracts()
				c["azorius"] = "0x12"
				return c
			}()},
			wantMsg: "is not a valid address",
		},
		{
			name:    "bad safe salt",
			section: NetworkSection{Kind: "local", SafeSalt: "salty", Contracts: localContracts()},
			wantMsg: "safe_salt",
		},
		{
			name: "keyper ratio out of range",
			section: NetworkSection{Kind: "local", Contracts: localContracts(), KeyperSet: &KeyperSetSection{
				Keypers:        []string{"0x0000000000000000000000000000000000000011"},
				Collator:       "0x0000000000000000000000000000000000000012",
				ThresholdRatio: 1.5,
			}},
			wantMsg: "threshold_ratio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildNetwork("n", tt.section)
			require.ErrorIs(t, err, domain.ErrConfiguration)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestResolveNetwork(t *testing.T) {
	networks := map[string]*Network{
		"sepolia": {Name: "sepolia"},
		"mainnet": {Name: "mainnet"},
	}

	n, err := ResolveNetwork(networks, "sepolia")
	require.NoError(t, err)
	assert.Equal(t, "sepolia", n.Name)

	_, err = ResolveNetwork(networks, "sep")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did you mean: sepolia")

	_, err = ResolveNetwork(networks, "zzz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available: mainnet, sepolia")

	_, err = ResolveNetwork(nil, "sepolia")
	assert.Error(t, err)
}

func TestDeployerKey(t *testing.T) {
	t.Setenv("DEPLOYER_PRIVATE_KEY", "0xglobal")
	assert.Equal(t, "0xglobal", DeployerKey("sepolia"))

	t.Setenv("SEPOLIA_DEPLOYER_PRIVATE_KEY", "0xscoped")
	assert.Equal(t, "0xscoped", DeployerKey("sepolia"))
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	_, err := FindConfigFile(dir)
	assert.Error(t, err)

	writeFile(t, dir, "dao.yaml", sampleYAML)
	path, err := FindConfigFile(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "dao.yaml"), path)
}

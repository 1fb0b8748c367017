package deployments

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-dao/internal/domain"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
)

func deployment(chainID uint64, name string, addr string) *models.Deployment {
	hash := common.HexToHash("0xabc")
	return &models.Deployment{
		ChainID:   chainID,
		Name:      name,
		Address:   common.HexToAddress(addr),
		Source:    models.DeploymentSourcePlan,
		TxHash:    &hash,
		CreatedAt: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestFileRepository(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), ".treb-dao")

	repo, err := OpenFileRepository(dir)
	require.NoError(t, err)

	_, err = repo.GetDeployment(ctx, 1, models.SlotSafe)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, repo.SaveDeployments(ctx,
		deployment(1, models.SlotSafe, "0x01"),
		deployment(1, models.SlotAzorius, "0x02"),
		deployment(11155111, models.SlotSafe, "0x03"),
	))
	assert.FileExists(t, filepath.Join(dir, DeploymentsFile))

	t.Run("reload", func(t *testing.T) {
		reloaded, err := OpenFileRepository(dir)
		require.NoError(t, err)

		dep, err := reloaded.GetDeployment(ctx, 1, models.SlotAzorius)
		require.NoError(t, err)
		assert.Equal(t, common.HexToAddress("0x02"), dep.Address)
		require.NotNil(t, dep.TxHash)
		assert.Equal(t, common.HexToHash("0xabc"), *dep.TxHash)
	})

	t.Run("list per chain", func(t *testing.T) {
		deps, err := repo.ListDeployments(ctx, 1)
		require.NoError(t, err)
		require.Len(t, deps, 2)
		assert.Equal(t, models.SlotAzorius, deps[0].Name)
		assert.Equal(t, models.SlotSafe, deps[1].Name)

		all, err := repo.ListDeployments(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("upsert", func(t *testing.T) {
		require.NoError(t, repo.SaveDeployments(ctx, deployment(1, models.SlotSafe, "0x09")))
		dep, err := repo.GetDeployment(ctx, 1, models.SlotSafe)
		require.NoError(t, err)
		assert.Equal(t, common.HexToAddress("0x09"), dep.Address)
	})

	t.Run("invalid record", func(t *testing.T) {
		assert.Error(t, repo.SaveDeployments(ctx, deployment(0, "X", "0x01")))
	})

	t.Run("corrupt file", func(t *testing.T) {
		bad := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(bad, DeploymentsFile), []byte("{"), 0644))
		_, err := OpenFileRepository(bad)
		assert.Error(t, err)
	})
}

package deployments

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/trebuchet-org/treb-dao/internal/domain"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

const DeploymentsFile = "deployments.json"

// FileRepository stores deployments in a json file keyed by chain ID and
// contract name
type FileRepository struct {
	dataDir     string
	mu          sync.RWMutex
	deployments map[uint64]map[string]*models.Deployment
}

// NewFileRepository loads the registry from the data directory
func NewFileRepository(cfg *config.RuntimeConfig) (*FileRepository, error) {
	return OpenFileRepository(cfg.DataDir)
}

// OpenFileRepository loads the registry from dataDir, creating it if missing
func OpenFileRepository(dataDir string) (*FileRepository, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dataDir, err)
	}

	m := &FileRepository{
		dataDir:     dataDir,
		deployments: make(map[uint64]map[string]*models.Deployment),
	}
	if err := m.load(); err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	return m, nil
}

func (m *FileRepository) path() string {
	return filepath.Join(m.dataDir, DeploymentsFile)
}

func (m *FileRepository) load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, &m.deployments)
}

// save writes the registry atomically; callers hold the write lock
func (m *FileRepository) save() error {
	data, err := json.MarshalIndent(m.deployments, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal deployments: %w", err)
	}

	tmp := m.path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write deployments: %w", err)
	}
	return os.Rename(tmp, m.path())
}

// GetDeployment returns the record for name on chainID
func (m *FileRepository) GetDeployment(_ context.Context, chainID uint64, name string) (*models.Deployment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	dep, ok := m.deployments[chainID][name]
	if !ok {
		return nil, fmt.Errorf("deployment %s on chain %d: %w", name, chainID, domain.ErrNotFound)
	}
	return dep, nil
}

// ListDeployments returns the records of one chain, or of all chains when
// chainID is 0, sorted by name
func (m *FileRepository) ListDeployments(_ context.Context, chainID uint64) ([]*models.Deployment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*models.Deployment
	for id, byName := range m.deployments {
		if chainID != 0 && id != chainID {
			continue
		}
		for _, name := range slices.Sorted(maps.Keys(byName)) {
			out = append(out, byName[name])
		}
	}
	return out, nil
}

// SaveDeployments upserts records and persists the registry
func (m *FileRepository) SaveDeployments(_ context.Context, deployments ...*models.Deployment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, dep := range deployments {
		if dep.ChainID == 0 || dep.Name == "" {
			return fmt.Errorf("deployment record needs a chain ID and a name")
		}
		if m.deployments[dep.ChainID] == nil {
			m.deployments[dep.ChainID] = make(map[string]*models.Deployment)
		}
		m.deployments[dep.ChainID][dep.Name] = dep
	}
	return m.save()
}

var _ usecase.DeploymentRepository = (*FileRepository)(nil)

package safe

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-dao/internal/domain"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
	"github.com/trebuchet-org/treb-dao/pkg/safe"
)

// ClientAdapter wraps pkg/safe to implement SafeInfoClient
type ClientAdapter struct {
	// newClient is replaced in tests
	newClient func(chainID uint64) (*safe.Client, error)
}

// NewClientAdapter creates a new adapter over the hosted transaction services
func NewClientAdapter() *ClientAdapter {
	return &ClientAdapter{newClient: safe.NewClient}
}

// GetSafeInfo fetches the service's view of the Safe. Chains without a
// hosted service and Safes the service has not indexed yet are ErrNotFound.
func (c *ClientAdapter) GetSafeInfo(ctx context.Context, chainID uint64, address common.Address) (*models.SafeInfo, error) {
	client, err := c.newClient(chainID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	}

	info, err := client.GetSafeInfo(ctx, address)
	if err != nil {
		if errors.Is(err, safe.ErrSafeNotFound) {
			return nil, fmt.Errorf("%w: %v", domain.ErrNotFound, err)
		}
		return nil, fmt.Errorf("failed to query Safe Transaction Service: %w", err)
	}

	toAddr := func(s string, _ int) common.Address { return common.HexToAddress(s) }
	return &models.SafeInfo{
		Address:         common.HexToAddress(info.Address),
		Nonce:           info.Nonce,
		Threshold:       info.Threshold,
		Owners:          lo.Map(info.Owners, toAddr),
		Modules:         lo.Map(info.Modules, toAddr),
		MasterCopy:      common.HexToAddress(info.MasterCopy),
		FallbackHandler: common.HexToAddress(info.FallbackHandler),
		Version:         info.Version,
	}, nil
}

var _ usecase.SafeInfoClient = (*ClientAdapter)(nil)

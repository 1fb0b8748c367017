package safe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-dao/internal/domain"
	"github.com/trebuchet-org/treb-dao/pkg/safe"
)

func TestClientAdapter_GetSafeInfo(t *testing.T) {
	safeAddr := common.HexToAddress("0x00000000000000000000000000000000000000f1")
	azorius := common.HexToAddress("0x00000000000000000000000000000000000000f3")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/safes/"+safeAddr.Hex()+"/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"address":"` + safeAddr.Hex() + `","nonce":2,"threshold":1,
			"owners":["` + azorius.Hex() + `"],"modules":["` + azorius.Hex() + `"],"version":"1.3.0"}`))
	}))
	defer server.Close()

	adapter := &ClientAdapter{newClient: func(chainID uint64) (*safe.Client, error) {
		if chainID != 1 {
			return safe.NewClient(chainID)
		}
		return safe.NewClientWithURL(server.URL), nil
	}}

	info, err := adapter.GetSafeInfo(context.Background(), 1, safeAddr)
	require.NoError(t, err)
	assert.Equal(t, safeAddr, info.Address)
	assert.Equal(t, []common.Address{azorius}, info.Owners)
	assert.Equal(t, []common.Address{azorius}, info.Modules)
	assert.Equal(t, uint64(2), info.Nonce)

	_, err = adapter.GetSafeInfo(context.Background(), 1, azorius)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = adapter.GetSafeInfo(context.Background(), 31337, safeAddr)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

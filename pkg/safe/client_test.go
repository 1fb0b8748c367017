package safe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetSafeInfo(t *testing.T) {
	safeAddr := common.HexToAddress("0x00000000000000000000000000000000000000f1")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/safes/" + safeAddr.Hex() + "/":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"address":"` + safeAddr.Hex() + `","nonce":1,"threshold":1,
				"owners":["0x00000000000000000000000000000000000000f3"],
				"modules":["0x00000000000000000000000000000000000000f3"],"version":"1.3.0"}`))
		case "/api/v1/safes/" + safeAddr.Hex() + "/multisig-transactions/":
			assert.Equal(t, "false", r.URL.Query().Get("executed"))
			_, _ = w.Write([]byte(`{"results":[{"safeTxHash":"0xaa","nonce":1}]}`))
		case "/api/v1/safes/0x0000000000000000000000000000000000000000/":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("boom"))
		}
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL + "/")
	ctx := context.Background()

	info, err := client.GetSafeInfo(ctx, safeAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), info.Nonce)
	assert.Equal(t, "1.3.0", info.Version)
	assert.Len(t, info.Modules, 1)

	pending, err := client.GetPendingTransactions(ctx, safeAddr)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "0xaa", pending[0].SafeTxHash)

	_, err = client.GetSafeInfo(ctx, common.Address{})
	assert.ErrorIs(t, err, ErrSafeNotFound)

	_, err = client.GetPendingTransactions(ctx, common.Address{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 500")
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(31337)
	assert.Error(t, err)

	client, err := NewClient(11155111)
	require.NoError(t, err)
	assert.Equal(t, TransactionServiceURLs[11155111], client.serviceURL)
}

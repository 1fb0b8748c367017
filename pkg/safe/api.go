package safe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ErrSafeNotFound is returned when the service does not index the Safe
var ErrSafeNotFound = errors.New("safe not indexed by the transaction service")

// TransactionServiceURLs contains the Safe Transaction Service URLs for different networks
var TransactionServiceURLs = map[uint64]string{
	1:        "https://safe-transaction-mainnet.safe.global",
	10:       "https://safe-transaction-optimism.safe.global",
	100:      "https://safe-transaction-gnosis-chain.safe.global",
	137:      "https://safe-transaction-polygon.safe.global",
	42161:    "https://safe-transaction-arbitrum.safe.global",
	11155111: "https://safe-transaction-sepolia.safe.global",
	8453:     "https://safe-transaction-base.safe.global",
}

// SafeInfo is the service's view of a Safe
type SafeInfo struct {
	Address         string   `json:"address"`
	Nonce           uint64   `json:"nonce"`
	Threshold       uint64   `json:"threshold"`
	Owners          []string `json:"owners"`
	MasterCopy      string   `json:"masterCopy"`
	Modules         []string `json:"modules"`
	FallbackHandler string   `json:"fallbackHandler"`
	Guard           string   `json:"guard"`
	Version         string   `json:"version"`
}

// MultisigTransaction represents a Safe multisig transaction
type MultisigTransaction struct {
	Safe                  string         `json:"safe"`
	To                    string         `json:"to"`
	Value                 string         `json:"value"`
	Data                  string         `json:"data"`
	Operation             int            `json:"operation"`
	Nonce                 int            `json:"nonce"`
	SubmissionDate        time.Time      `json:"submissionDate"`
	TransactionHash       *string        `json:"transactionHash"`
	SafeTxHash            string         `json:"safeTxHash"`
	IsExecuted            bool           `json:"isExecuted"`
	ConfirmationsRequired int            `json:"confirmationsRequired"`
	Confirmations         []Confirmation `json:"confirmations"`
}

// Confirmation represents a confirmation on a Safe transaction
type Confirmation struct {
	Owner          string    `json:"owner"`
	SubmissionDate time.Time `json:"submissionDate"`
	Signature      string    `json:"signature"`
	SignatureType  string    `json:"signatureType"`
}

// GetSafeInfo retrieves the owners, modules and nonce of a Safe
func (c *Client) GetSafeInfo(ctx context.Context, safeAddress common.Address) (*SafeInfo, error) {
	var info SafeInfo
	if err := c.get(ctx, fmt.Sprintf("/api/v1/safes/%s/", safeAddress.Hex()), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetPendingTransactions retrieves pending transactions for a Safe
func (c *Client) GetPendingTransactions(ctx context.Context, safeAddress common.Address) ([]*MultisigTransaction, error) {
	var result struct {
		Results []*MultisigTransaction `json:"results"`
	}
	path := fmt.Sprintf("/api/v1/safes/%s/multisig-transactions/?executed=false&ordering=-nonce", safeAddress.Hex())
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.serviceURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return ErrSafeNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Package safe is a minimal client for the Safe Transaction Service.
package safe

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client queries one Safe Transaction Service instance
type Client struct {
	serviceURL string
	httpClient *http.Client
}

// NewClient returns a client for the service of chainID
func NewClient(chainID uint64) (*Client, error) {
	serviceURL, ok := TransactionServiceURLs[chainID]
	if !ok {
		return nil, fmt.Errorf("unsupported chain ID: %d", chainID)
	}
	return NewClientWithURL(serviceURL), nil
}

// NewClientWithURL returns a client for a self-hosted service
func NewClientWithURL(serviceURL string) *Client {
	return &Client{
		serviceURL: strings.TrimSuffix(serviceURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

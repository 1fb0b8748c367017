package blockchain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

// receiptPollInterval is how often Wait polls for a receipt
const receiptPollInterval = 2 * time.Second

// Backend is the RPC surface a Client needs. *ethclient.Client and the
// simulated backend client satisfy it.
type Backend interface {
	ethereum.ChainReader
	ethereum.ChainStateReader
	ethereum.ChainIDReader
	ethereum.ContractCaller
	ethereum.GasEstimator
	ethereum.GasPricer
	ethereum.GasPricer1559
	ethereum.PendingStateReader
	ethereum.TransactionSender
	ethereum.TransactionReader
}

// Client signs EIP-1559 transactions from the deployer key and sends them
type Client struct {
	Backend
	key    *ecdsa.PrivateKey
	from   common.Address
	signer types.Signer
	log    *slog.Logger
}

// NewClient wraps a backend. A nil key gives a read-only client whose Submit fails.
func NewClient(ctx context.Context, backend Backend, key *ecdsa.PrivateKey, log *slog.Logger) (*Client, error) {
	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	c := &Client{
		Backend: backend,
		key:     key,
		signer:  types.LatestSignerForChainID(chainID),
		log:     log,
	}
	if key != nil {
		c.from = crypto.PubkeyToAddress(key.PublicKey)
	}
	return c, nil
}

// From returns the deployer address
func (c *Client) From() common.Address { return c.from }

// Submit signs and broadcasts a transaction. A zero gas limit is estimated.
func (c *Client) Submit(ctx context.Context, req usecase.TxRequest) (usecase.PendingTx, error) {
	if c.key == nil {
		return nil, errors.New("no deployer key configured")
	}

	value := req.Value
	if value == nil {
		value = new(big.Int)
	}

	nonce, err := c.PendingNonceAt(ctx, c.from)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	gas := req.GasLimit
	if gas == 0 {
		gas, err = c.EstimateGas(ctx, ethereum.CallMsg{From: c.from, To: &req.To, Value: value, Data: req.Data})
		if err != nil {
			return nil, fmt.Errorf("failed to estimate gas: %w", err)
		}
	}

	tip, err := c.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas tip: %w", err)
	}
	head, err := c.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest header: %w", err)
	}
	baseFee := head.BaseFee
	if baseFee == nil {
		if baseFee, err = c.SuggestGasPrice(ctx); err != nil {
			return nil, fmt.Errorf("failed to get gas price: %w", err)
		}
	}
	feeCap := new(big.Int).Add(tip, new(big.Int).Mul(baseFee, big.NewInt(2)))

	tx, err := types.SignNewTx(c.key, c.signer, &types.DynamicFeeTx{
		ChainID:   c.signer.ChainID(),
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gas,
		To:        &req.To,
		Value:     value,
		Data:      req.Data,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	if err := c.SendTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}
	c.log.Debug("sent transaction", "hash", tx.Hash().Hex(), "nonce", nonce, "gas", gas)
	return &pendingTx{client: c, hash: tx.Hash()}, nil
}

type pendingTx struct {
	client *Client
	hash   common.Hash
}

func (p *pendingTx) Hash() common.Hash { return p.hash }

// Wait polls for the receipt until the context ends
func (p *pendingTx) Wait(ctx context.Context) (*types.Receipt, error) {
	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := p.client.TransactionReceipt(ctx, p.hash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			p.client.log.Debug("receipt poll failed", "hash", p.hash.Hex(), "error", err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for %s: %w", p.hash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

// Connector dials networks with ethclient
type Connector struct {
	cfg *config.RuntimeConfig
	log *slog.Logger
}

// NewConnector creates a new Connector
func NewConnector(cfg *config.RuntimeConfig, log *slog.Logger) *Connector {
	return &Connector{cfg: cfg, log: log}
}

// Connect dials the network RPC. An empty key gives a read-only connection.
func (c *Connector) Connect(ctx context.Context, network *config.Network, deployerKey string) (usecase.Chain, error) {
	key, err := ParseKey(deployerKey)
	if err != nil {
		return nil, err
	}
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	backend, err := ethclient.DialContext(ctx, network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	client, err := NewClient(ctx, backend, key, c.log.With("network", network.Name))
	if err != nil {
		backend.Close()
		return nil, err
	}
	return client, nil
}

// ParseKey parses a hex private key with or without 0x prefix. An empty
// string returns nil.
func ParseKey(hexKey string) (*ecdsa.PrivateKey, error) {
	hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	if hexKey == "" {
		return nil, nil
	}
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid deployer private key: %w", err)
	}
	return key, nil
}

var (
	_ usecase.ChainConnector = (*Connector)(nil)
	_ usecase.Chain          = (*Client)(nil)
)

package abi

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// ContractCaller is the eth_call subset of an RPC client
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// CallView performs an eth_call against the latest block and unpacks the
// method outputs
func (e *Encoder) CallView(ctx context.Context, caller ContractCaller, contract string, to common.Address, method string, args ...any) ([]any, error) {
	data, err := e.Pack(contract, method, args...)
	if err != nil {
		return nil, err
	}

	out, err := caller.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s.%s at %s: %w", contract, method, to.Hex(), err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s.%s at %s: empty result (no contract code?)", contract, method, to.Hex())
	}

	parsed, err := e.contracts.ABI(contract)
	if err != nil {
		return nil, err
	}
	values, err := parsed.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s.%s: %w", contract, method, err)
	}
	return values, nil
}

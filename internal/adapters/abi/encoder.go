package abi

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-dao/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/treb-dao/internal/domain"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
)

// Encoder turns (contract, method, args) into calldata using the ABI set of
// the target network
type Encoder struct {
	contracts *bindings.ContractSet
}

// NewEncoder creates an encoder over a contract set
func NewEncoder(contracts *bindings.ContractSet) *Encoder {
	return &Encoder{contracts: contracts}
}

// Contracts exposes the underlying ABI set
func (e *Encoder) Contracts() *bindings.ContractSet {
	return e.contracts
}

// Pack ABI-encodes a method call including its selector
func (e *Encoder) Pack(contract, method string, args ...any) ([]byte, error) {
	parsed, err := e.contracts.ABI(contract)
	if err != nil {
		return nil, &domain.EncodingError{Contract: contract, Method: method, Err: err}
	}
	if _, ok := parsed.Methods[method]; !ok {
		return nil, &domain.EncodingError{Contract: contract, Method: method, Err: fmt.Errorf("method not found in ABI")}
	}
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, &domain.EncodingError{Contract: contract, Method: method, Err: err}
	}
	return data, nil
}

// EncodeCall builds a CALL to target with zero value
func (e *Encoder) EncodeCall(contract string, target common.Address, method string, args ...any) (*models.EncodedCall, error) {
	return e.encode(models.OperationCall, contract, target, method, args...)
}

// EncodeDelegateCall builds a DELEGATECALL to target with zero value
func (e *Encoder) EncodeDelegateCall(contract string, target common.Address, method string, args ...any) (*models.EncodedCall, error) {
	return e.encode(models.OperationDelegateCall, contract, target, method, args...)
}

func (e *Encoder) encode(op models.Operation, contract string, target common.Address, method string, args ...any) (*models.EncodedCall, error) {
	data, err := e.Pack(contract, method, args...)
	if err != nil {
		return nil, err
	}
	return &models.EncodedCall{
		Target:    target,
		Value:     big.NewInt(0),
		Data:      data,
		Operation: op,
		Contract:  contract,
		Method:    method,
	}, nil
}

// EncodeArgs is abi.encode(args...) for the given solidity types, used for
// module setUp parameters
func EncodeArgs(solidityTypes []string, args ...any) ([]byte, error) {
	if len(solidityTypes) != len(args) {
		return nil, &domain.EncodingError{
			Contract: "abi",
			Method:   "encode",
			Err:      fmt.Errorf("got %d values for %d types", len(args), len(solidityTypes)),
		}
	}

	arguments := make(abi.Arguments, 0, len(solidityTypes))
	for _, t := range solidityTypes {
		typ, err := abi.NewType(t, "", nil)
		if err != nil {
			return nil, &domain.EncodingError{Contract: "abi", Method: "encode", Err: err}
		}
		arguments = append(arguments, abi.Argument{Type: typ})
	}

	data, err := arguments.Pack(args...)
	if err != nil {
		return nil, &domain.EncodingError{Contract: "abi", Method: "encode", Err: err}
	}
	return data, nil
}

// Package vesting computes the EIP-712 hashes of vesting entries and the
// merkle tree the airdrop contract is configured with.
package vesting

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	DomainName    = "VestingLibrary"
	DomainVersion = "1.0"
)

var (
	domainTypeHash  = crypto.Keccak256Hash([]byte("EIP712Domain(string name,string version)"))
	vestingTypeHash = crypto.Keccak256Hash([]byte("Vesting(address owner,uint8 curveType,bool managed,uint16 durationWeeks,uint64 startDate,uint128 amount,uint128 initialUnlock,bool requiresSPT)"))

	domainArgs  = arguments("bytes32", "string", "string")
	vestingArgs = arguments("bytes32", "address", "uint8", "bool", "uint16", "uint64", "uint128", "uint128", "bool")
)

// CurveType selects the release curve of a vesting
type CurveType uint8

const (
	CurveLinear      CurveType = 0
	CurveExponential CurveType = 1
)

// Vesting is one vesting entry as stored by the VestingLibrary contract
type Vesting struct {
	Owner         common.Address `json:"owner" yaml:"owner"`
	CurveType     CurveType      `json:"curveType" yaml:"curveType"`
	Managed       bool           `json:"managed" yaml:"managed"`
	DurationWeeks uint16         `json:"durationWeeks" yaml:"durationWeeks"`
	StartDate     uint64         `json:"startDate" yaml:"startDate"`
	Amount        *big.Int       `json:"amount" yaml:"amount"`
	InitialUnlock *big.Int       `json:"initialUnlock" yaml:"initialUnlock"`
	RequiresSPT   bool           `json:"requiresSPT" yaml:"requiresSPT"`
}

// DomainSeparator returns the EIP-712 domain separator of the library.
// The library encodes name and version as dynamic strings, not as hashes.
func DomainSeparator() common.Hash {
	packed, err := domainArgs.Pack(domainTypeHash, DomainName, DomainVersion)
	if err != nil {
		panic(err)
	}
	return crypto.Keccak256Hash(packed)
}

// Hash returns the EIP-712 digest of a vesting entry
func (v *Vesting) Hash() (common.Hash, error) {
	if v.Amount == nil {
		return common.Hash{}, fmt.Errorf("vesting for %s: amount is required", v.Owner.Hex())
	}
	unlock := v.InitialUnlock
	if unlock == nil {
		unlock = new(big.Int)
	}
	if v.Amount.Sign() < 0 || v.Amount.BitLen() > 128 || unlock.Sign() < 0 || unlock.BitLen() > 128 {
		return common.Hash{}, fmt.Errorf("vesting for %s: amounts must fit in uint128", v.Owner.Hex())
	}
	if unlock.Cmp(v.Amount) > 0 {
		return common.Hash{}, fmt.Errorf("vesting for %s: initial unlock exceeds amount", v.Owner.Hex())
	}

	packed, err := vestingArgs.Pack(
		vestingTypeHash, v.Owner, uint8(v.CurveType), v.Managed, v.DurationWeeks,
		v.StartDate, v.Amount, unlock, v.RequiresSPT,
	)
	if err != nil {
		return common.Hash{}, fmt.Errorf("vesting for %s: %w", v.Owner.Hex(), err)
	}
	separator := DomainSeparator()
	return crypto.Keccak256Hash([]byte{0x19, 0x01}, separator[:], crypto.Keccak256(packed)), nil
}

func arguments(types ...string) abi.Arguments {
	args := make(abi.Arguments, len(types))
	for i, typ := range types {
		t, err := abi.NewType(typ, "", nil)
		if err != nil {
			panic(err)
		}
		args[i] = abi.Argument{Type: t}
	}
	return args
}

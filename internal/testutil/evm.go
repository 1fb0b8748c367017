package testutil

import (
	"context"
	"encoding/binary"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/stretchr/testify/require"
)

// program is a minimal EVM assembler with forward-referenced jump labels.
type program struct {
	code   []byte
	labels map[string]int
	fixups map[int]string
}

func newProgram() *program {
	return &program{labels: map[string]int{}, fixups: map[int]string{}}
}

func (p *program) op(ops ...vm.OpCode) *program {
	for _, o := range ops {
		p.code = append(p.code, byte(o))
	}
	return p
}

// push emits the shortest PUSHn for v.
func (p *program) push(v uint64) *program {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	i := 0
	for i < 7 && buf[i] == 0 {
		i++
	}
	p.code = append(p.code, byte(vm.PUSH1)+byte(7-i))
	p.code = append(p.code, buf[i:]...)
	return p
}

func (p *program) pushLabel(name string) *program {
	p.code = append(p.code, byte(vm.PUSH2))
	p.fixups[len(p.code)] = name
	p.code = append(p.code, 0, 0)
	return p
}

func (p *program) label(name string) *program {
	p.labels[name] = len(p.code)
	return p.op(vm.JUMPDEST)
}

func (p *program) bytes() []byte {
	out := common.CopyBytes(p.code)
	for at, name := range p.fixups {
		dest, ok := p.labels[name]
		if !ok {
			panic(fmt.Sprintf("undefined label %q", name))
		}
		binary.BigEndian.PutUint16(out[at:at+2], uint16(dest))
	}
	return out
}

// Memory slots used by the forwarder.
const (
	cursorSlot = 0x00
	endSlot    = 0x20
	calldataAt = 0x100
)

// CallOnlyForwarderCode is runtime code for a multiSend(bytes) forwarder
// with MultiSendCallOnly semantics: every packed entry is executed with CALL
// in order, a DELEGATECALL entry or any failing call reverts the whole
// transaction.
func CallOnlyForwarderCode() []byte {
	p := newProgram()

	// copy calldata to memory
	p.op(vm.CALLDATASIZE).push(0).push(calldataAt).op(vm.CALLDATACOPY)

	// lengthPtr = calldataAt + 4 + offset
	p.push(calldataAt + 4).op(vm.MLOAD).push(calldataAt + 4).op(vm.ADD)
	// cursor = lengthPtr + 32, end = cursor + length
	p.op(vm.DUP1, vm.MLOAD, vm.SWAP1).push(0x20).op(vm.ADD)
	p.op(vm.DUP1).push(cursorSlot).op(vm.MSTORE)
	p.op(vm.ADD).push(endSlot).op(vm.MSTORE)

	p.label("loop")
	p.push(endSlot).op(vm.MLOAD).push(cursorSlot).op(vm.MLOAD).op(vm.LT, vm.ISZERO)
	p.pushLabel("done").op(vm.JUMPI)

	// operation must be CALL
	p.push(cursorSlot).op(vm.MLOAD, vm.MLOAD).push(0xf8).op(vm.SHR)
	p.pushLabel("fail").op(vm.JUMPI)

	// call(gas, to, value, data, dataLength, 0, 0)
	p.push(0).push(0)
	p.push(cursorSlot).op(vm.MLOAD).push(0x35).op(vm.ADD, vm.MLOAD)
	p.push(cursorSlot).op(vm.MLOAD).push(0x55).op(vm.ADD)
	p.push(cursorSlot).op(vm.MLOAD).push(0x15).op(vm.ADD, vm.MLOAD)
	p.push(cursorSlot).op(vm.MLOAD).push(0x01).op(vm.ADD, vm.MLOAD).push(0x60).op(vm.SHR)
	p.op(vm.GAS, vm.CALL, vm.ISZERO)
	p.pushLabel("fail").op(vm.JUMPI)

	// cursor += 0x55 + dataLength
	p.push(cursorSlot).op(vm.MLOAD).push(0x35).op(vm.ADD, vm.MLOAD).push(0x55).op(vm.ADD)
	p.push(cursorSlot).op(vm.MLOAD, vm.ADD).push(cursorSlot).op(vm.MSTORE)
	p.pushLabel("loop").op(vm.JUMP)

	p.label("done").op(vm.STOP)
	p.label("fail").push(0).push(0).op(vm.REVERT)
	return p.bytes()
}

// RecorderCode is runtime code that appends the first calldata word to its
// storage: slot 0 holds the count, slots 1..n the words in arrival order.
// A zero word reverts.
func RecorderCode() []byte {
	p := newProgram()
	p.push(0).op(vm.CALLDATALOAD)
	p.op(vm.DUP1, vm.ISZERO).pushLabel("fail").op(vm.JUMPI)
	p.push(0).op(vm.SLOAD).push(1).op(vm.ADD)
	p.op(vm.DUP1).push(0).op(vm.SSTORE)
	p.op(vm.SSTORE, vm.STOP)
	p.label("fail").push(0).push(0).op(vm.REVERT)
	return p.bytes()
}

// RecorderWord is the calldata that makes the recorder store v.
func RecorderWord(v uint64) []byte {
	return common.LeftPadBytes(new(big.Int).SetUint64(v).Bytes(), 32)
}

// Storage reads a storage slot of addr on the latest block.
func (c *SimChain) Storage(t *testing.T, addr common.Address, slot uint64) *big.Int {
	t.Helper()
	key := common.BigToHash(new(big.Int).SetUint64(slot))
	value, err := c.Client.StorageAt(context.Background(), addr, key, nil)
	require.NoError(t, err)
	return new(big.Int).SetBytes(value)
}

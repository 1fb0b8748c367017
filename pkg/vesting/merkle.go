package vesting

import (
	"bytes"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrEmptyTree is returned when a tree is built from no leaves
var ErrEmptyTree = errors.New("merkle tree has no leaves")

// Tree is a keccak256 merkle tree over sorted pairs, as verified by
// OpenZeppelin's MerkleProof. An odd node at the end of a level is promoted
// unchanged.
type Tree struct {
	levels [][]common.Hash
}

// NewTree builds a tree over leaves in the given order
func NewTree(leaves []common.Hash) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, ErrEmptyTree
	}
	level := append([]common.Hash(nil), leaves...)
	levels := [][]common.Hash{level}
	for len(level) > 1 {
		next := make([]common.Hash, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 == len(level) {
				next = append(next, level[i])
				continue
			}
			next = append(next, hashPair(level[i], level[i+1]))
		}
		levels = append(levels, next)
		level = next
	}
	return &Tree{levels: levels}, nil
}

// Root returns the merkle root
func (t *Tree) Root() common.Hash {
	return t.levels[len(t.levels)-1][0]
}

// Proof returns the sibling path for the leaf at index
func (t *Tree) Proof(index int) ([]common.Hash, error) {
	if index < 0 || index >= len(t.levels[0]) {
		return nil, errors.New("leaf index out of range")
	}
	var proof []common.Hash
	for _, level := range t.levels[:len(t.levels)-1] {
		sibling := index ^ 1
		if sibling < len(level) {
			proof = append(proof, level[sibling])
		}
		index /= 2
	}
	return proof, nil
}

// Verify checks a proof against a root
func Verify(root, leaf common.Hash, proof []common.Hash) bool {
	computed := leaf
	for _, sibling := range proof {
		computed = hashPair(computed, sibling)
	}
	return computed == root
}

// Root hashes the vestings and returns the root of their tree
func Root(vestings []Vesting) (common.Hash, []common.Hash, error) {
	leaves := make([]common.Hash, len(vestings))
	for i := range vestings {
		h, err := vestings[i].Hash()
		if err != nil {
			return common.Hash{}, nil, err
		}
		leaves[i] = h
	}
	tree, err := NewTree(leaves)
	if err != nil {
		return common.Hash{}, nil, err
	}
	return tree.Root(), leaves, nil
}

func hashPair(a, b common.Hash) common.Hash {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}
	return crypto.Keccak256Hash(a[:], b[:])
}

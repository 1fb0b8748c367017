// Package create2 computes deterministic contract addresses for proxies
// deployed through CREATE2 factories (Safe proxy factory, Zodiac module
// proxy factory). Nothing in this package performs I/O.
package create2

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
)

// Minimal proxy template used by the Zodiac ModuleProxyFactory. The master
// copy address is spliced between the prefix and the suffix.
var (
	minimalProxyPrefix = common.FromHex("0x602d8060093d393df3363d3d373d3d3d363d73")
	minimalProxySuffix = common.FromHex("0x5af43d82803e903d91602b57fd5bf3")
)

// NonceSize is the width of a salt nonce in bytes (a uint256).
const NonceSize = 32

// PredictAddress returns last20(keccak256(0xff ++ factory ++ salt ++ initCodeHash)).
func PredictAddress(factory common.Address, salt [32]byte, initCodeHash common.Hash) common.Address {
	return crypto.CreateAddress2(factory, salt, initCodeHash.Bytes())
}

// Salt binds a proxy's setup calldata to a nonce:
// keccak256(keccak256(setupCalldata) ++ uint256(nonce)).
func Salt(setupCalldata []byte, nonce [32]byte) [32]byte {
	return crypto.Keccak256Hash(crypto.Keccak256(setupCalldata), nonce[:])
}

// MinimalProxyInitCode returns the creation code the module proxy factory
// deploys for the given master copy.
func MinimalProxyInitCode(master common.Address) []byte {
	code := make([]byte, 0, len(minimalProxyPrefix)+common.AddressLength+len(minimalProxySuffix))
	code = append(code, minimalProxyPrefix...)
	code = append(code, master.Bytes()...)
	code = append(code, minimalProxySuffix...)
	return code
}

// MinimalProxyInitCodeHash is keccak256(MinimalProxyInitCode(master)).
func MinimalProxyInitCodeHash(master common.Address) common.Hash {
	return crypto.Keccak256Hash(MinimalProxyInitCode(master))
}

// SafeProxyInitCodeHash hashes the Safe proxy creation code followed by the
// singleton address left-padded to 32 bytes, the deployment data used by
// GnosisSafeProxyFactory.createProxyWithNonce.
func SafeProxyInitCodeHash(proxyCreationCode []byte, singleton common.Address) common.Hash {
	return crypto.Keccak256Hash(proxyCreationCode, common.LeftPadBytes(singleton.Bytes(), 32))
}

// RandomNonce draws a fresh 32-byte nonce from the system CSPRNG.
func RandomNonce() ([32]byte, error) {
	var nonce [32]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nonce, fmt.Errorf("failed to read random nonce: %w", err)
	}
	return nonce, nil
}

// ParseNonce accepts a 0x-prefixed hex string of at most 32 bytes or a
// decimal integer and returns it as a left-padded uint256 nonce.
func ParseNonce(s string) ([32]byte, error) {
	var nonce [32]byte
	s = strings.TrimSpace(s)
	if s == "" {
		return nonce, fmt.Errorf("empty nonce")
	}

	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		raw, err := hexutil.Decode(evenHex(s))
		if err != nil {
			return nonce, fmt.Errorf("invalid hex nonce %q: %w", s, err)
		}
		if len(raw) > NonceSize {
			return nonce, fmt.Errorf("nonce %q exceeds %d bytes", s, NonceSize)
		}
		copy(nonce[NonceSize-len(raw):], raw)
		return nonce, nil
	}

	n, ok := math.ParseBig256(s)
	if !ok {
		return nonce, fmt.Errorf("invalid nonce %q", s)
	}
	return NonceFromBig(n), nil
}

// NonceFromBig encodes n as a 32-byte big-endian nonce.
func NonceFromBig(n *big.Int) [32]byte {
	var nonce [32]byte
	n.FillBytes(nonce[:])
	return nonce
}

// NonceToBig decodes a nonce for ABI arguments typed uint256.
func NonceToBig(nonce [32]byte) *big.Int {
	return new(big.Int).SetBytes(nonce[:])
}

func evenHex(s string) string {
	digits := s[2:]
	if len(digits)%2 == 1 {
		return "0x0" + digits
	}
	return "0x" + digits
}

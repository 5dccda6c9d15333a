// Package signer wraps go-ethereum's secp256k1 sign/recover behind a small
// Signer interface, the same primitives the teacher uses directly in
// internal/clob/eip712.go (crypto.Keccak256, crypto.Sign, crypto.PubkeyToAddress).
package signer

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/raiden-go/core/internal/primitives"
)

// Signer produces a 65-byte recoverable signature over arbitrary data.
// Messages never sign over a hash pre-image chosen by the caller beyond
// this: Keccak256 is applied internally, matching sha3() in the Python
// source and crypto.Sign's expectation of a 32-byte digest.
type Signer interface {
	Sign(data []byte) (primitives.Signature, error)
	Address() primitives.Address
}

// LocalSigner signs with an in-memory ECDSA private key.
type LocalSigner struct {
	key  *ecdsa.PrivateKey
	addr primitives.Address
}

// NewLocalSigner wraps an already-parsed private key.
func NewLocalSigner(key *ecdsa.PrivateKey) *LocalSigner {
	addr := crypto.PubkeyToAddress(key.PublicKey)
	return &LocalSigner{key: key, addr: primitives.Address(addr)}
}

// ParsePrivateKey parses a hex private key string (with or without 0x prefix).
func ParsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	hexKey = strings.TrimPrefix(hexKey, "0x")
	return crypto.HexToECDSA(hexKey)
}

func (s *LocalSigner) Address() primitives.Address { return s.addr }

// Sign keccak256-hashes data and produces a 65-byte [R||S||V] signature with
// V normalized to 27/28, the same convention BuildAndSignOrder uses in
// eip712.go (go-ethereum's crypto.Sign returns V as 0/1).
func (s *LocalSigner) Sign(data []byte) (primitives.Signature, error) {
	digest := Keccak256(data)
	sig, err := crypto.Sign(digest, s.key)
	if err != nil {
		return primitives.Signature{}, fmt.Errorf("signer: sign: %w", err)
	}
	sig[64] += 27
	return primitives.SignatureFromSlice(sig)
}

// Keccak256 hashes data with Keccak-256 (C3).
func Keccak256(data ...[]byte) []byte {
	return crypto.Keccak256(data...)
}

// Keccak256Hash hashes data and returns it as a primitives.Hash32.
func Keccak256Hash(data ...[]byte) primitives.Hash32 {
	h := crypto.Keccak256(data...)
	var out primitives.Hash32
	copy(out[:], h)
	return out
}

// Recover recovers the signing address from data and a 65-byte signature.
// Returns (zero address, false) if signature is empty or recovery fails —
// callers surface this as "sender is undefined", never as an error the
// state machine must propagate.
func Recover(data []byte, sig primitives.Signature) (primitives.Address, bool) {
	return RecoverHash(Keccak256Hash(data), sig)
}

// RecoverHash is Recover for callers that already hold the keccak256 digest
// of the signed payload — signercache keys its memoization table on the
// digest rather than the variable-length pre-image, so it needs to recover
// without hashing a second time.
func RecoverHash(digest primitives.Hash32, sig primitives.Signature) (primitives.Address, bool) {
	if sig.IsEmpty() {
		return primitives.Address{}, false
	}

	// crypto.Ecrecover/SigToPub expect V as 0/1; our signatures store 27/28.
	normalized := sig
	if normalized[64] >= 27 {
		normalized[64] -= 27
	}

	pub, err := crypto.SigToPub(digest.Bytes(), normalized[:])
	if err != nil {
		return primitives.Address{}, false
	}
	return primitives.Address(crypto.PubkeyToAddress(*pub)), true
}

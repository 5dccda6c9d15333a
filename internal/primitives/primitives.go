// Package primitives defines the fixed-width semantic types shared by the
// wire, packing, messages, and transfer packages, and the range checks
// every one of them is built on.
//
// Go reference: internal/clob/eip712.go (the teacher's ABI-encoding
// helpers operate on the same address/uint256/signature shapes; this
// package gives those shapes names instead of inlining *big.Int everywhere).
package primitives

import (
	"fmt"
	"math/big"
)

const (
	AddressLength   = 20
	HashLength      = 32
	SignatureLength = 65

	UINT64Max = uint64(1<<64 - 1)
)

// UINT256Max is 2^256 - 1, used to range-check TokenAmount-shaped fields.
var UINT256Max = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// Nonce is strictly positive, unsigned 64-bit.
type Nonce uint64

// TokenAmount, PaymentAmount, PaymentWithFeeAmount, FeeAmount are uint256
// quantities. *big.Int is the natural Go representation; these are type
// aliases so call sites read like Raiden's own vocabulary.
type (
	TokenAmount          = *big.Int
	PaymentAmount        = *big.Int
	PaymentWithFeeAmount = *big.Int
	FeeAmount            = *big.Int
	ChainID              = *big.Int
	ChannelID            = *big.Int
)

// Address is exactly 20 bytes.
type Address [AddressLength]byte

func (a Address) Bytes() []byte { return a[:] }

func (a Address) IsZero() bool { return a == Address{} }

func AddressFromSlice(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressLength {
		return a, fmt.Errorf("primitives: address must have length %d, got %d", AddressLength, len(b))
	}
	copy(a[:], b)
	return a, nil
}

// Hash32 backs Locksroot, SecretHash, BalanceHash, AdditionalHash,
// MessageHash, and Secret — all plain 32-byte digests.
type Hash32 [HashLength]byte

func (h Hash32) Bytes() []byte { return h[:] }

func (h Hash32) IsZero() bool { return h == Hash32{} }

func Hash32FromSlice(b []byte) (Hash32, error) {
	var h Hash32
	if len(b) != HashLength {
		return h, fmt.Errorf("primitives: hash must have length %d, got %d", HashLength, len(b))
	}
	copy(h[:], b)
	return h, nil
}

type (
	Locksroot      = Hash32
	SecretHash     = Hash32
	BalanceHash    = Hash32
	AdditionalHash = Hash32
	MessageHash    = Hash32
	Secret         = Hash32
)

// EmptyBalanceHash is the zero 32-byte digest.
var EmptyBalanceHash = Hash32{}

// Signature is exactly 65 bytes: r(32) || s(32) || v(1).
type Signature [SignatureLength]byte

// EmptySignature is 65 zero bytes — the placeholder used before Sign.
var EmptySignature = Signature{}

func (s Signature) IsEmpty() bool { return s == EmptySignature }

func (s Signature) Bytes() []byte { return s[:] }

func SignatureFromSlice(b []byte) (Signature, error) {
	var s Signature
	if len(b) != SignatureLength {
		return s, fmt.Errorf("primitives: signature must have length %d, got %d", SignatureLength, len(b))
	}
	copy(s[:], b)
	return s, nil
}

// MessageID, PaymentID are non-negative 64-bit identifiers.
type (
	MessageID = uint64
	PaymentID = uint64
)

// RaidenProtocolVersion is an 8-bit protocol tag.
type RaidenProtocolVersion = uint8

// CheckUint256 validates n is within [0, 2^256-1] and non-nil.
func CheckUint256(name string, n *big.Int) error {
	if n == nil {
		return fmt.Errorf("primitives: %s must not be nil", name)
	}
	if n.Sign() < 0 {
		return fmt.Errorf("primitives: %s cannot be negative", name)
	}
	if n.Cmp(UINT256Max) > 0 {
		return fmt.Errorf("primitives: %s is too large", name)
	}
	return nil
}

// CheckNonce validates nonce is in (0, 2^64-1].
func CheckNonce(nonce uint64) error {
	if nonce == 0 {
		return fmt.Errorf("primitives: nonce cannot be zero or negative")
	}
	// nonce is already a uint64, it cannot exceed UINT64Max.
	return nil
}

// CheckUint64ID validates a message/payment identifier is within uint64 range.
// Present for symmetry with the Python source's explicit bounds check; the Go
// type system already enforces it, so this never fails — kept because other
// packages call it uniformly alongside CheckUint256 checks.
func CheckUint64ID(name string, id uint64) error {
	if id > UINT64Max {
		return fmt.Errorf("primitives: %s is too large", name)
	}
	return nil
}

// Package packing implements the on-chain-compatible hash-input packings
// used when hashing and signing balance proofs. These are bit-exact: field
// order, widths, and the msg-type discriminators are part of the wire
// contract verified by the on-chain dispute resolution contracts, and must
// never be "cleaned up".
//
// Go reference: internal/clob/eip712.go's buildDomainSeparator /
// buildOrderStructHash — the same append-fixed-width-fields-then-hash
// discipline, generalized from EIP-712 struct hashing to Raiden's
// balance-proof packings.
package packing

import (
	"math/big"

	"github.com/raiden-go/core/internal/identifiers"
	"github.com/raiden-go/core/internal/primitives"
	"github.com/raiden-go/core/internal/signer"
)

// Message type discriminants used inside pack_balance_proof /
// pack_balance_proof_update to disambiguate the signed payload by purpose.
const (
	msgTypeBalanceProof       = 1
	msgTypeBalanceProofUpdate = 2
)

// HashBalanceData returns EmptyBalanceHash when transferred == locked == 0
// and locksroot is the zero digest; otherwise keccak256(transferred(32) ||
// locked(32) || locksroot(32)).
func HashBalanceData(transferred, locked primitives.TokenAmount, locksroot primitives.Locksroot) primitives.BalanceHash {
	zero := big.NewInt(0)
	if transferred != nil && locked != nil &&
		transferred.Sign() == 0 && locked.Sign() == 0 && locksroot.IsZero() {
		return primitives.EmptyBalanceHash
	}
	if transferred == nil {
		transferred = zero
	}
	if locked == nil {
		locked = zero
	}
	return signer.Keccak256Hash(uint256Bytes(transferred), uint256Bytes(locked), locksroot.Bytes())
}

// PackBalanceProof builds token_network_address(20) || chain_id(32) ||
// msg_type(32)=1 || channel_identifier(32) || balance_hash(32) || nonce(32)
// || additional_hash(32).
func PackBalanceProof(
	nonce primitives.Nonce,
	balanceHash primitives.BalanceHash,
	additionalHash primitives.AdditionalHash,
	canonicalIdentifier identifiers.CanonicalIdentifier,
) []byte {
	out := make([]byte, 0, 20+32*6)
	out = append(out, canonicalIdentifier.TokenNetworkAddress.Bytes()...)
	out = append(out, uint256Bytes(canonicalIdentifier.ChainID)...)
	out = append(out, uint256Bytes(big.NewInt(msgTypeBalanceProof))...)
	out = append(out, uint256Bytes(canonicalIdentifier.ChannelIdentifier)...)
	out = append(out, balanceHash.Bytes()...)
	out = append(out, uint256Bytes(new(big.Int).SetUint64(uint64(nonce)))...)
	out = append(out, additionalHash.Bytes()...)
	return out
}

// PackBalanceProofUpdate is PackBalanceProof with msg_type=2 and the
// partner's 65-byte signature appended.
func PackBalanceProofUpdate(
	nonce primitives.Nonce,
	balanceHash primitives.BalanceHash,
	additionalHash primitives.AdditionalHash,
	canonicalIdentifier identifiers.CanonicalIdentifier,
	partnerSignature primitives.Signature,
) []byte {
	out := make([]byte, 0, 20+32*6+65)
	out = append(out, canonicalIdentifier.TokenNetworkAddress.Bytes()...)
	out = append(out, uint256Bytes(canonicalIdentifier.ChainID)...)
	out = append(out, uint256Bytes(big.NewInt(msgTypeBalanceProofUpdate))...)
	out = append(out, uint256Bytes(canonicalIdentifier.ChannelIdentifier)...)
	out = append(out, balanceHash.Bytes()...)
	out = append(out, uint256Bytes(new(big.Int).SetUint64(uint64(nonce)))...)
	out = append(out, additionalHash.Bytes()...)
	out = append(out, partnerSignature.Bytes()...)
	return out
}

// PackRewardProof builds channel_identifier(32) || reward_amount(32) ||
// token_network_address(20) || chain_id(32) || nonce(32).
func PackRewardProof(
	canonicalIdentifier identifiers.CanonicalIdentifier,
	rewardAmount primitives.TokenAmount,
	nonce primitives.Nonce,
) []byte {
	out := make([]byte, 0, 32*4+20)
	out = append(out, uint256Bytes(canonicalIdentifier.ChannelIdentifier)...)
	out = append(out, uint256Bytes(rewardAmount)...)
	out = append(out, canonicalIdentifier.TokenNetworkAddress.Bytes()...)
	out = append(out, uint256Bytes(canonicalIdentifier.ChainID)...)
	out = append(out, uint256Bytes(new(big.Int).SetUint64(uint64(nonce)))...)
	return out
}

// uint256Bytes left-pads n into a 32-byte big-endian slice. A nil n is
// treated as zero, matching padUint256's nil-guard in eip712.go.
func uint256Bytes(n *big.Int) []byte {
	out := make([]byte, 32)
	if n == nil {
		return out
	}
	b := n.Bytes()
	if len(b) > 32 {
		panic("packing: value overflows 32 bytes")
	}
	copy(out[32-len(b):], b)
	return out
}

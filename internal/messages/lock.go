// Package messages implements the peer-to-peer wire message taxonomy:
// CMDID-tagged fixed-layout messages, the envelope/balance-proof
// signing discipline, the monitoring-service and pathfinding-service
// messages, decoder dispatch, and the adaptors that turn outgoing events
// into messages and inbound envelope messages into channel state.
//
// Go reference: original_source/raiden/messages.py, generalized from Python
// dataclasses plus a hand-rolled reflection-driven fields_spec engine into
// plain Go structs with direct byte-offset encode/decode methods, the same
// style internal/clob/eip712.go uses for EIP-712 struct hashing.
package messages

import (
	"fmt"

	"github.com/raiden-go/core/internal/primitives"
	"github.com/raiden-go/core/internal/signer"
	"github.com/raiden-go/core/internal/wire"
)

const lockSize = 32 + 32 + 32

// Lock describes a locked amount: how much, until which block it can be
// claimed, and the hash of the secret that claims it. It is not a message
// in its own right; it is embedded verbatim into LockedTransfer,
// RefundTransfer, and lockedTransferBase's wire layout.
type Lock struct {
	Amount     primitives.PaymentWithFeeAmount
	Expiration primitives.TokenAmount
	SecretHash primitives.SecretHash
}

// Validate checks that amount and expiration are within uint256 range.
// SecretHash is not checked here: its 32-byte length is fixed by its type.
func (l Lock) Validate() error {
	if err := primitives.CheckUint256("lock amount", l.Amount); err != nil {
		return err
	}
	if err := primitives.CheckUint256("lock expiration", l.Expiration); err != nil {
		return err
	}
	return nil
}

// AsBytes is the canonical 96-byte encoding: amount(32) || expiration(32)
// || secrethash(32).
func (l Lock) AsBytes() []byte {
	buf := wire.BufferFor(lockSize)
	wire.PutUint256BE(buf, 0, l.Amount)
	wire.PutUint256BE(buf, 32, l.Expiration)
	wire.PutHash32(buf, 64, l.SecretHash)
	return buf
}

// LockHash is keccak256(AsBytes()).
func (l Lock) LockHash() primitives.Hash32 {
	return signer.Keccak256Hash(l.AsBytes())
}

// secretHash is sha3(secret), shared by RevealSecret and Unlock's
// memoized secrethash property in the Python source.
func secretHash(secret primitives.Secret) primitives.SecretHash {
	return signer.Keccak256Hash(secret.Bytes())
}

// LockFromBytes decodes a 96-byte serialized lock.
func LockFromBytes(data []byte) (Lock, error) {
	if len(data) != lockSize {
		return Lock{}, fmt.Errorf("messages: lock must be %d bytes, got %d", lockSize, len(data))
	}
	return Lock{
		Amount:     wire.Uint256BE(data, 0),
		Expiration: wire.Uint256BE(data, 32),
		SecretHash: wire.Hash32(data, 64),
	}, nil
}

package messages

import (
	"fmt"

	"github.com/raiden-go/core/internal/primitives"
	"github.com/raiden-go/core/internal/signer"
	"github.com/raiden-go/core/internal/signercache"
)

// CMDID values. One byte, first byte of every peer-protocol message.
// RequestMonitoring and UpdatePFS are deliberately absent: they are
// carried out-of-band (to the monitoring/pathfinding services, not
// peer-to-peer) and must never reach the CMDID decoder.
const (
	CmdIDDelivered      uint8 = 0
	CmdIDPing           uint8 = 1
	CmdIDPong           uint8 = 2
	CmdIDSecretRequest  uint8 = 3
	CmdIDUnlock         uint8 = 4
	CmdIDLockedTransfer uint8 = 7
	CmdIDRefundTransfer uint8 = 8
	CmdIDRevealSecret   uint8 = 11
	CmdIDLockExpired    uint8 = 13
	CmdIDProcessed      uint8 = 0xfe
	CmdIDToDevice       uint8 = 0xfd
)

// Message is implemented by every wire message: it knows its own CMDID and
// how to serialize itself. Go reference: Message in the Python source,
// minus the reflection-based packed()/buffer_for() machinery — each
// concrete type below owns its layout directly.
type Message interface {
	CmdID() uint8
	Encode() []byte
}

// Signed is implemented by every message that carries a signature. The
// data actually signed is not always the raw wire bytes: EnvelopeMessage
// subtypes sign a canonical packing instead, so DataToSign is
// a method each type defines for itself rather than something Encode can
// derive generically.
type Signed interface {
	Message
	GetSignature() primitives.Signature
	DataToSign() []byte
}

// Retrieable is implemented by messages that participate in the retry
// queue: the transport resends them until a matching Processed/Delivered
// acknowledges message_identifier. Processed itself deliberately does not
// implement this interface — see the comment on the Processed type for why.
type Retrieable interface {
	Signed
	GetMessageIdentifier() primitives.MessageID
}

// Sender recovers the address that signed msg, memoized through cache. A
// false second result means the signature is empty or does not recover to
// a valid public key; callers treat that as "no
// sender", never as an error propagated through the state machine.
func Sender(cache *signercache.RecoveryCache, msg Signed) (primitives.Address, bool) {
	sig := msg.GetSignature()
	if sig.IsEmpty() {
		return primitives.Address{}, false
	}
	digest := signer.Keccak256Hash(msg.DataToSign())
	return cache.Recover(digest, sig)
}

// Hash is sha3(Encode()) — an identity digest over the full wire
// encoding, signature included. Used for equality/logging, never as a
// signing input. Go reference: Message.hash in the Python source.
func Hash(m Message) primitives.Hash32 {
	return signer.Keccak256Hash(m.Encode())
}

// Equal reports whether a and b are the same concrete message type with
// the same Hash(). Go reference: Message.__eq__, which compares class
// identity and .hash.
func Equal(a, b Message) bool {
	if fmt.Sprintf("%T", a) != fmt.Sprintf("%T", b) {
		return false
	}
	return Hash(a) == Hash(b)
}

// HashKey derives a comparable map key from Hash(): Go maps need a
// comparable key type, so this takes the high-order 8 bytes of the
// 32-byte hash as a uint64, mirroring __hash__'s
// big_endian_to_int(self.hash) truncated to machine word size. It is a
// bucketing aid only, never an identity or security property — two
// different messages may collide here and must still be disambiguated
// with Equal.
func HashKey(m Message) uint64 {
	h := Hash(m)
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(h[i])
	}
	return v
}

// Decode dispatches on the first byte of data (the CMDID) to the matching
// message type's decoder. Go reference: decode() / CMDID_TO_CLASS.
func Decode(data []byte) (Message, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty message", ErrInvalidProtocolMessage)
	}
	switch data[0] {
	case CmdIDDelivered:
		return decodeDelivered(data)
	case CmdIDPing:
		return decodePing(data)
	case CmdIDPong:
		return decodePong(data)
	case CmdIDProcessed:
		return decodeProcessed(data)
	case CmdIDToDevice:
		return decodeToDevice(data)
	case CmdIDSecretRequest:
		return decodeSecretRequest(data)
	case CmdIDRevealSecret:
		return decodeRevealSecret(data)
	case CmdIDUnlock:
		return decodeUnlock(data)
	case CmdIDLockedTransfer:
		return decodeLockedTransfer(data)
	case CmdIDRefundTransfer:
		return decodeRefundTransfer(data)
	case CmdIDLockExpired:
		return decodeLockExpired(data)
	default:
		return nil, fmt.Errorf("%w: CMDID = 0x%02x", ErrInvalidProtocolMessage, data[0])
	}
}

// ErrInvalidProtocolMessage is returned for an unknown CMDID on decode, or
// (via DecodeDict) an unknown/missing "type" tag in structured form.
var ErrInvalidProtocolMessage = fmt.Errorf("messages: invalid protocol message")

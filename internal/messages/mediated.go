package messages

import (
	"fmt"

	"github.com/raiden-go/core/internal/primitives"
	"github.com/raiden-go/core/internal/wire"
)

// SecretRequest asks for the secret that unlocks secrethash: cmdid(1) |
// message_identifier(8) | payment_identifier(8) | secrethash(32) |
// amount(32) | expiration(32) | signature(65).
type SecretRequest struct {
	MessageIdentifier primitives.MessageID
	PaymentIdentifier primitives.PaymentID
	SecretHash        primitives.SecretHash
	Amount            primitives.PaymentAmount
	Expiration        primitives.TokenAmount
	Signature         primitives.Signature
}

const secretRequestSize = 1 + 8 + 8 + 32 + 32 + 32 + primitives.SignatureLength

func (s SecretRequest) CmdID() uint8                          { return CmdIDSecretRequest }
func (s SecretRequest) GetSignature() primitives.Signature     { return s.Signature }
func (s SecretRequest) GetMessageIdentifier() primitives.MessageID { return s.MessageIdentifier }
func (s SecretRequest) DataToSign() []byte                     { return wire.SigningPayload(s.Encode()) }

func (s SecretRequest) Encode() []byte {
	buf := wire.BufferFor(secretRequestSize)
	buf[0] = CmdIDSecretRequest
	wire.PutUint64BE(buf, 1, s.MessageIdentifier)
	wire.PutUint64BE(buf, 9, s.PaymentIdentifier)
	wire.PutHash32(buf, 17, s.SecretHash)
	wire.PutUint256BE(buf, 49, s.Amount)
	wire.PutUint256BE(buf, 81, s.Expiration)
	wire.PutSignature(buf, 113, s.Signature)
	return buf
}

func decodeSecretRequest(data []byte) (SecretRequest, error) {
	if len(data) != secretRequestSize {
		return SecretRequest{}, fmt.Errorf("%w: SecretRequest must be %d bytes, got %d", ErrInvalidProtocolMessage, secretRequestSize, len(data))
	}
	return SecretRequest{
		MessageIdentifier: wire.Uint64BE(data, 1),
		PaymentIdentifier: wire.Uint64BE(data, 9),
		SecretHash:        wire.Hash32(data, 17),
		Amount:            wire.Uint256BE(data, 49),
		Expiration:        wire.Uint256BE(data, 81),
		Signature:         wire.Signature(data, 113),
	}, nil
}

// SecretRequestFromEvent builds an unsigned SecretRequest from a
// SendSecretRequest event.
func SecretRequestFromEvent(messageIdentifier primitives.MessageID, paymentIdentifier primitives.PaymentID, secretHash primitives.SecretHash, amount primitives.PaymentAmount, expiration primitives.TokenAmount) SecretRequest {
	return SecretRequest{
		MessageIdentifier: messageIdentifier,
		PaymentIdentifier: paymentIdentifier,
		SecretHash:        secretHash,
		Amount:            amount,
		Expiration:        expiration,
		Signature:         primitives.EmptySignature,
	}
}

// RevealSecret reveals a secret to a party known to have interest in it:
// cmdid(1) | message_identifier(8) | secret(32) | signature(65). Revealing
// a secret this way never updates channel state on its own; only an
// Unlock with a valid balance proof does that.
type RevealSecret struct {
	MessageIdentifier primitives.MessageID
	Secret            primitives.Secret
	Signature         primitives.Signature
}

const revealSecretSize = 1 + 8 + 32 + primitives.SignatureLength

func (r RevealSecret) CmdID() uint8                          { return CmdIDRevealSecret }
func (r RevealSecret) GetSignature() primitives.Signature     { return r.Signature }
func (r RevealSecret) GetMessageIdentifier() primitives.MessageID { return r.MessageIdentifier }
func (r RevealSecret) DataToSign() []byte                     { return wire.SigningPayload(r.Encode()) }

// SecretHash is sha3(secret), the same memoized property the Python source
// exposes on both Unlock and RevealSecret.
func (r RevealSecret) SecretHash() primitives.SecretHash {
	return secretHash(r.Secret)
}

func (r RevealSecret) Encode() []byte {
	buf := wire.BufferFor(revealSecretSize)
	buf[0] = CmdIDRevealSecret
	wire.PutUint64BE(buf, 1, r.MessageIdentifier)
	wire.PutHash32(buf, 9, r.Secret)
	wire.PutSignature(buf, 41, r.Signature)
	return buf
}

func decodeRevealSecret(data []byte) (RevealSecret, error) {
	if len(data) != revealSecretSize {
		return RevealSecret{}, fmt.Errorf("%w: RevealSecret must be %d bytes, got %d", ErrInvalidProtocolMessage, revealSecretSize, len(data))
	}
	return RevealSecret{
		MessageIdentifier: wire.Uint64BE(data, 1),
		Secret:            wire.Hash32(data, 9),
		Signature:         wire.Signature(data, 41),
	}, nil
}

// RevealSecretFromEvent builds an unsigned RevealSecret from a
// SendSecretReveal event.
func RevealSecretFromEvent(messageIdentifier primitives.MessageID, secret primitives.Secret) RevealSecret {
	return RevealSecret{MessageIdentifier: messageIdentifier, Secret: secret, Signature: primitives.EmptySignature}
}

package messages

import (
	"fmt"
	"math/big"

	"github.com/raiden-go/core/internal/identifiers"
	"github.com/raiden-go/core/internal/primitives"
	"github.com/raiden-go/core/internal/transfer"
)

// FromSendEvent turns an outgoing transfer.Event into the unsigned wire
// message that carries it. Go reference: message_from_sendevent.
// The caller signs the returned message before handing it to the
// transport; FromSendEvent never signs, matching from_event's convention
// of stamping EmptySignature.
//
// An event type this switch doesn't recognize is a programmer error, not a
// runtime condition to recover from — every Send* event the state machine
// can produce is listed here, so FromSendEvent panics rather than threading
// an error through every caller, matching the ValueError the Python source
// raises unconditionally in the same spot.
func FromSendEvent(event transfer.Event) Message {
	switch e := event.(type) {
	case transfer.SendLockedTransfer:
		return lockedTransferFromEvent(e)
	case transfer.SendRefundTransfer:
		return refundTransferFromEvent(e)
	case transfer.SendSecretReveal:
		return RevealSecretFromEvent(e.MessageIdentifier, e.Secret)
	case transfer.SendBalanceProof:
		return unlockFromEvent(e)
	case transfer.SendSecretRequest:
		return SecretRequestFromEvent(e.MessageIdentifier, e.PaymentIdentifier, e.SecretHash, e.Amount, e.Expiration)
	case transfer.SendLockExpired:
		return lockExpiredFromEvent(e)
	case transfer.SendProcessed:
		return ProcessedFromEvent(e.MessageIdentifier)
	default:
		panic(fmt.Sprintf("messages: unknown event type %T", event))
	}
}

func envelopeFromUnsigned(messageIdentifier primitives.MessageID, bp transfer.BalanceProofUnsignedState) envelope {
	return envelope{
		ChainID:             bp.ChainID(),
		MessageIdentifier:   messageIdentifier,
		Nonce:               bp.Nonce,
		TransferredAmount:   bp.TransferredAmount,
		LockedAmount:        bp.LockedAmount,
		Locksroot:           bp.Locksroot,
		ChannelIdentifier:   bp.ChannelIdentifier(),
		TokenNetworkAddress: bp.TokenNetworkAddress(),
		Signature:           primitives.EmptySignature,
	}
}

func lockFromState(l transfer.HashTimeLockState) Lock {
	return Lock{Amount: l.Amount, Expiration: l.Expiration, SecretHash: l.SecretHash}
}

func lockedTransferFromEvent(e transfer.SendLockedTransfer) LockedTransfer {
	t := e.Transfer
	return LockedTransfer{
		lockedTransferBase: lockedTransferBase{
			envelope:          envelopeFromUnsigned(e.MessageIdentifier, t.BalanceProof),
			PaymentIdentifier: t.PaymentIdentifier,
			Token:             t.Token,
			Recipient:         e.Recipient,
			Lock:              lockFromState(t.Lock),
		},
		Target:    t.Target,
		Initiator: t.Initiator,
		Fee:       big.NewInt(0),
	}
}

func refundTransferFromEvent(e transfer.SendRefundTransfer) RefundTransfer {
	t := e.Transfer
	return RefundTransfer{LockedTransfer: LockedTransfer{
		lockedTransferBase: lockedTransferBase{
			envelope:          envelopeFromUnsigned(e.MessageIdentifier, t.BalanceProof),
			PaymentIdentifier: t.PaymentIdentifier,
			Token:             t.Token,
			Recipient:         e.Recipient,
			Lock:              lockFromState(t.Lock),
		},
		Target:    t.Target,
		Initiator: t.Initiator,
		Fee:       big.NewInt(0),
	}}
}

func unlockFromEvent(e transfer.SendBalanceProof) Unlock {
	return Unlock{
		envelope:          envelopeFromUnsigned(e.MessageIdentifier, e.BalanceProof),
		PaymentIdentifier: e.PaymentIdentifier,
		Secret:            e.Secret,
	}
}

func lockExpiredFromEvent(e transfer.SendLockExpired) LockExpired {
	return LockExpired{
		envelope:   envelopeFromUnsigned(e.MessageIdentifier, e.BalanceProof),
		Recipient:  e.Recipient,
		SecretHash: e.SecretHash,
	}
}

// LockedTransferSignedStateFromMessage lifts a decoded, verified
// LockedTransfer into channel state. Go reference:
// lockedtransfersigned_from_message. The message's sender becomes the
// balance proof's sender; callers must have already verified the
// signature (via Sender) before calling this, since an unrecoverable
// signature has no sender to attribute the state to.
func LockedTransferSignedStateFromMessage(msg LockedTransfer, sender primitives.Address) (transfer.LockedTransferSignedState, error) {
	bp, err := transfer.NewBalanceProofSignedState(
		msg.Nonce,
		msg.TransferredAmount,
		msg.LockedAmount,
		msg.Locksroot,
		messageHash(msg.Encode()),
		msg.Signature,
		sender,
		identifierFromEnvelope(msg.envelope),
	)
	if err != nil {
		return transfer.LockedTransferSignedState{}, err
	}

	return transfer.LockedTransferSignedState{
		MessageIdentifier: msg.MessageIdentifier,
		PaymentIdentifier: msg.PaymentIdentifier,
		Token:             msg.Token,
		BalanceProof:      bp,
		Lock: transfer.HashTimeLockState{
			Amount:     msg.Lock.Amount,
			Expiration: msg.Lock.Expiration,
			SecretHash: msg.Lock.SecretHash,
		},
		Initiator: msg.Initiator,
		Target:    msg.Target,
	}, nil
}

func identifierFromEnvelope(e envelope) identifiers.CanonicalIdentifier {
	return identifiers.CanonicalIdentifier{ChainID: e.ChainID, TokenNetworkAddress: e.TokenNetworkAddress, ChannelIdentifier: e.ChannelIdentifier}
}

package transfer

import (
	"github.com/raiden-go/core/internal/primitives"
)

// UnsignedTransferState carries the fields a LockedTransfer/RefundTransfer
// message needs before it has a signature, i.e. what SendLockedTransfer and
// SendRefundTransfer wrap. Go reference:
// original_source/raiden/transfer/mediated_transfer/state.py's
// LockedTransferUnsignedState (fields only; this module treats mediation
// fee computation as out of scope).
type UnsignedTransferState struct {
	PaymentIdentifier primitives.PaymentID
	Token             primitives.Address
	BalanceProof      BalanceProofUnsignedState
	Lock              HashTimeLockState
	Initiator         primitives.Address
	Target            primitives.Address
}

// sendMessageEventBase is embedded by every Send* event: the transport
// routing triple (recipient, channel, message id) every outgoing protocol
// message carries. Go reference: SendMessageEvent in architecture.py.
type sendMessageEventBase struct {
	Recipient         primitives.Address
	ChannelIdentifier primitives.ChannelID
	MessageIdentifier primitives.MessageID
}

// SendLockedTransfer requests the adaptor (C11) build a LockedTransfer message.
type SendLockedTransfer struct {
	sendMessageEventBase
	Transfer UnsignedTransferState
}

func (SendLockedTransfer) isEvent() {}

// SendRefundTransfer requests a RefundTransfer message — same payload
// shape as SendLockedTransfer, different wire CMDID.
type SendRefundTransfer struct {
	sendMessageEventBase
	Transfer UnsignedTransferState
}

func (SendRefundTransfer) isEvent() {}

// SendSecretReveal requests a RevealSecret message.
type SendSecretReveal struct {
	sendMessageEventBase
	Secret primitives.Secret
}

func (SendSecretReveal) isEvent() {}

// SendBalanceProof requests an Unlock message carrying the given balance
// proof and the secret that unlocks it.
type SendBalanceProof struct {
	sendMessageEventBase
	PaymentIdentifier primitives.PaymentID
	Secret            primitives.Secret
	BalanceProof      BalanceProofUnsignedState
}

func (SendBalanceProof) isEvent() {}

// SendSecretRequest requests a SecretRequest message.
type SendSecretRequest struct {
	sendMessageEventBase
	PaymentIdentifier primitives.PaymentID
	SecretHash        primitives.SecretHash
	Amount            primitives.PaymentAmount
	Expiration        primitives.TokenAmount
}

func (SendSecretRequest) isEvent() {}

// SendLockExpired requests a LockExpired message.
type SendLockExpired struct {
	sendMessageEventBase
	BalanceProof BalanceProofUnsignedState
	SecretHash   primitives.SecretHash
}

func (SendLockExpired) isEvent() {}

// SendProcessed requests a Processed message acknowledging message receipt.
type SendProcessed struct {
	sendMessageEventBase
}

func (SendProcessed) isEvent() {}

// NewSendMessageEvent is the one constructor every Send* event uses to
// populate its routing triple; it exists so call sites don't reach into the
// unexported embedded struct directly.
func NewSendMessageEvent(recipient primitives.Address, channelIdentifier primitives.ChannelID, messageIdentifier primitives.MessageID) sendMessageEventBase {
	return sendMessageEventBase{
		Recipient:         recipient,
		ChannelIdentifier: channelIdentifier,
		MessageIdentifier: messageIdentifier,
	}
}

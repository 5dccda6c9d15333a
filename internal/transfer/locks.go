package transfer

import "github.com/raiden-go/core/internal/primitives"

// HashTimeLockState is the channel-state representation of a pending lock:
// the same (amount, expiration, secrethash) triple as messages.Lock, kept
// as a distinct type because it lives in channel state rather than on the
// wire (original_source keeps raiden.transfer.state.HashTimeLockState
// separate from raiden.messages.Lock for the same reason).
type HashTimeLockState struct {
	Amount      primitives.PaymentWithFeeAmount
	Expiration  primitives.TokenAmount // block number, but uint256-ranged on the wire
	SecretHash  primitives.SecretHash
}

func (HashTimeLockState) isState() {}

// LockedTransferSignedState lifts an inbound signed LockedTransfer message
// into channel state. Go reference:
// original_source/raiden/messages.py lockedtransfersigned_from_message.
type LockedTransferSignedState struct {
	MessageIdentifier primitives.MessageID
	PaymentIdentifier primitives.PaymentID
	Token             primitives.Address
	BalanceProof      BalanceProofSignedState
	Lock              HashTimeLockState
	Initiator         primitives.Address
	Target            primitives.Address
}

func (LockedTransferSignedState) isState() {}

// Block is the state change produced by the chain observer each time a new
// block is mined. It is the state machine's only notion of time: lock
// expiry and other block-driven behaviour flows entirely from here.
type Block struct {
	BlockNumber uint64
	BlockHash   primitives.Hash32
}

func (Block) isStateChange() {}

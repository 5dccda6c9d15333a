package transfer

import (
	"fmt"

	"github.com/raiden-go/core/internal/identifiers"
	"github.com/raiden-go/core/internal/packing"
	"github.com/raiden-go/core/internal/primitives"
)

// BalanceProofUnsignedState is a balance proof from the local node, not yet
// signed. Go reference: original_source/raiden/transfer/architecture.py
// BalanceProofUnsignedState.
type BalanceProofUnsignedState struct {
	Nonce               primitives.Nonce
	TransferredAmount   primitives.TokenAmount
	LockedAmount        primitives.TokenAmount
	Locksroot           primitives.Locksroot
	CanonicalIdentifier identifiers.CanonicalIdentifier
}

func (BalanceProofUnsignedState) isState() {}

// NewBalanceProofUnsignedState validates and constructs a
// BalanceProofUnsignedState, matching __post_init__ in the Python source.
func NewBalanceProofUnsignedState(
	nonce primitives.Nonce,
	transferredAmount, lockedAmount primitives.TokenAmount,
	locksroot primitives.Locksroot,
	canonicalIdentifier identifiers.CanonicalIdentifier,
) (BalanceProofUnsignedState, error) {
	bp := BalanceProofUnsignedState{
		Nonce:               nonce,
		TransferredAmount:   transferredAmount,
		LockedAmount:        lockedAmount,
		Locksroot:           locksroot,
		CanonicalIdentifier: canonicalIdentifier,
	}
	if err := validateBalanceProofFields(nonce, transferredAmount, lockedAmount, canonicalIdentifier); err != nil {
		return BalanceProofUnsignedState{}, err
	}
	return bp, nil
}

// BalanceHash is the derived hash_balance_data(transferred, locked, locksroot).
func (bp BalanceProofUnsignedState) BalanceHash() primitives.BalanceHash {
	return packing.HashBalanceData(bp.TransferredAmount, bp.LockedAmount, bp.Locksroot)
}

func (bp BalanceProofUnsignedState) ChainID() primitives.ChainID { return bp.CanonicalIdentifier.ChainID }
func (bp BalanceProofUnsignedState) TokenNetworkAddress() primitives.Address {
	return bp.CanonicalIdentifier.TokenNetworkAddress
}
func (bp BalanceProofUnsignedState) ChannelIdentifier() primitives.ChannelID {
	return bp.CanonicalIdentifier.ChannelIdentifier
}

// BalanceProofSignedState is a balance proof usable on-chain to resolve
// disputes: an unsigned balance proof plus the signature and recovered
// sender. Go reference: same file, BalanceProofSignedState.
type BalanceProofSignedState struct {
	Nonce               primitives.Nonce
	TransferredAmount   primitives.TokenAmount
	LockedAmount        primitives.TokenAmount
	Locksroot           primitives.Locksroot
	MessageHash         primitives.AdditionalHash
	Signature           primitives.Signature
	Sender              primitives.Address
	CanonicalIdentifier identifiers.CanonicalIdentifier
}

func (BalanceProofSignedState) isState() {}

// NewBalanceProofSignedState validates and constructs a
// BalanceProofSignedState.
func NewBalanceProofSignedState(
	nonce primitives.Nonce,
	transferredAmount, lockedAmount primitives.TokenAmount,
	locksroot primitives.Locksroot,
	messageHash primitives.AdditionalHash,
	signature primitives.Signature,
	sender primitives.Address,
	canonicalIdentifier identifiers.CanonicalIdentifier,
) (BalanceProofSignedState, error) {
	if err := validateBalanceProofFields(nonce, transferredAmount, lockedAmount, canonicalIdentifier); err != nil {
		return BalanceProofSignedState{}, err
	}
	if sender.IsZero() {
		return BalanceProofSignedState{}, fmt.Errorf("transfer: sender must be a valid address")
	}
	return BalanceProofSignedState{
		Nonce:               nonce,
		TransferredAmount:   transferredAmount,
		LockedAmount:        lockedAmount,
		Locksroot:           locksroot,
		MessageHash:         messageHash,
		Signature:           signature,
		Sender:              sender,
		CanonicalIdentifier: canonicalIdentifier,
	}, nil
}

func (bp BalanceProofSignedState) BalanceHash() primitives.BalanceHash {
	return packing.HashBalanceData(bp.TransferredAmount, bp.LockedAmount, bp.Locksroot)
}

func (bp BalanceProofSignedState) ChainID() primitives.ChainID { return bp.CanonicalIdentifier.ChainID }
func (bp BalanceProofSignedState) TokenNetworkAddress() primitives.Address {
	return bp.CanonicalIdentifier.TokenNetworkAddress
}
func (bp BalanceProofSignedState) ChannelIdentifier() primitives.ChannelID {
	return bp.CanonicalIdentifier.ChannelIdentifier
}

func validateBalanceProofFields(
	nonce primitives.Nonce,
	transferredAmount, lockedAmount primitives.TokenAmount,
	canonicalIdentifier identifiers.CanonicalIdentifier,
) error {
	if err := primitives.CheckNonce(uint64(nonce)); err != nil {
		return err
	}
	if err := primitives.CheckUint256("transferred_amount", transferredAmount); err != nil {
		return err
	}
	if err := primitives.CheckUint256("locked_amount", lockedAmount); err != nil {
		return err
	}
	return canonicalIdentifier.Validate()
}

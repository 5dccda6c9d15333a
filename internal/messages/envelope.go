package messages

import (
	"fmt"

	"github.com/raiden-go/core/internal/identifiers"
	"github.com/raiden-go/core/internal/packing"
	"github.com/raiden-go/core/internal/primitives"
	"github.com/raiden-go/core/internal/signer"
	"github.com/raiden-go/core/internal/wire"
)

// envelope holds the fields every balance-proof-carrying message shares.
// It is embedded by Unlock, LockedTransfer/RefundTransfer, and LockExpired
// rather than used as a standalone message, mirroring EnvelopeMessage in
// the Python source.
type envelope struct {
	ChainID             primitives.ChainID
	MessageIdentifier   primitives.MessageID
	Nonce               primitives.Nonce
	TransferredAmount   primitives.TokenAmount
	LockedAmount        primitives.TokenAmount
	Locksroot           primitives.Locksroot
	ChannelIdentifier   primitives.ChannelID
	TokenNetworkAddress primitives.Address
	Signature           primitives.Signature
}

func assertEnvelopeValues(e envelope) error {
	if err := primitives.CheckNonce(uint64(e.Nonce)); err != nil {
		return err
	}
	if err := primitives.CheckUint256("channel_identifier", e.ChannelIdentifier); err != nil {
		return err
	}
	if err := primitives.CheckUint256("transferred_amount", e.TransferredAmount); err != nil {
		return err
	}
	if err := primitives.CheckUint256("locked_amount", e.LockedAmount); err != nil {
		return err
	}
	return nil
}

func assertTransferValues(paymentIdentifier primitives.PaymentID, token, recipient primitives.Address) error {
	if err := primitives.CheckUint64ID("payment_identifier", paymentIdentifier); err != nil {
		return err
	}
	if token.IsZero() {
		return fmt.Errorf("messages: token is an invalid address")
	}
	if recipient.IsZero() {
		return fmt.Errorf("messages: recipient is an invalid address")
	}
	return nil
}

// messageHash is sha3 of the wire encoding with its trailing signature
// stripped — the `message_hash` property on EnvelopeMessage. wireBytes is
// the full Encode() output of the concrete message, signature field
// included (its content does not matter, only its length, since it is
// sliced away).
func messageHash(wireBytes []byte) primitives.MessageHash {
	return signer.Keccak256Hash(wire.SigningPayload(wireBytes))
}

// envelopeDataToSign computes the canonical pack_balance_proof payload
// that every EnvelopeMessage subtype signs instead of its raw wire bytes:
// the signed payload binds chain id, channel, balance hash, nonce and the
// wire-message digest, not the wire layout itself.
func envelopeDataToSign(e envelope, wireBytes []byte) []byte {
	balanceHash := packing.HashBalanceData(e.TransferredAmount, e.LockedAmount, e.Locksroot)
	additionalHash := messageHash(wireBytes)
	ci := identifiers.CanonicalIdentifier{
		ChainID:             e.ChainID,
		TokenNetworkAddress: e.TokenNetworkAddress,
		ChannelIdentifier:   e.ChannelIdentifier,
	}
	return packing.PackBalanceProof(e.Nonce, balanceHash, additionalHash, ci)
}

const envelopeFieldsSize = 32 /*chain_id*/ + 8 /*message_identifier*/ + 8 /*nonce*/ +
	32 /*transferred*/ + 32 /*locked*/ + 32 /*locksroot*/ + 32 /*channel_id*/ + primitives.AddressLength /*token_network*/

func putEnvelopeFields(buf []byte, offset int, e envelope) int {
	wire.PutUint256BE(buf, offset, e.ChainID)
	offset += 32
	wire.PutUint64BE(buf, offset, e.MessageIdentifier)
	offset += 8
	wire.PutUint64BE(buf, offset, uint64(e.Nonce))
	offset += 8
	wire.PutUint256BE(buf, offset, e.TransferredAmount)
	offset += 32
	wire.PutUint256BE(buf, offset, e.LockedAmount)
	offset += 32
	wire.PutHash32(buf, offset, e.Locksroot)
	offset += 32
	wire.PutUint256BE(buf, offset, e.ChannelIdentifier)
	offset += 32
	wire.PutAddress(buf, offset, e.TokenNetworkAddress)
	offset += primitives.AddressLength
	return offset
}

func readEnvelopeFields(buf []byte, offset int) (envelope, int) {
	var e envelope
	e.ChainID = wire.Uint256BE(buf, offset)
	offset += 32
	e.MessageIdentifier = wire.Uint64BE(buf, offset)
	offset += 8
	e.Nonce = primitives.Nonce(wire.Uint64BE(buf, offset))
	offset += 8
	e.TransferredAmount = wire.Uint256BE(buf, offset)
	offset += 32
	e.LockedAmount = wire.Uint256BE(buf, offset)
	offset += 32
	e.Locksroot = wire.Hash32(buf, offset)
	offset += 32
	e.ChannelIdentifier = wire.Uint256BE(buf, offset)
	offset += 32
	e.TokenNetworkAddress = wire.Address(buf, offset)
	offset += primitives.AddressLength
	return e, offset
}

// Unlock claims a lock by revealing the secret and a balance proof
// reflecting the new transferred amount. Only the side unlocking sends it.
//
// cmdid(1) | envelope | payment_identifier(8) | secret(32) | signature(65).
type Unlock struct {
	envelope
	PaymentIdentifier primitives.PaymentID
	Secret            primitives.Secret
}

const unlockSize = 1 + envelopeFieldsSize + 8 + 32 + primitives.SignatureLength

func (u Unlock) CmdID() uint8                              { return CmdIDUnlock }
func (u Unlock) GetSignature() primitives.Signature         { return u.Signature }
func (u Unlock) GetMessageIdentifier() primitives.MessageID { return u.MessageIdentifier }
func (u Unlock) SecretHash() primitives.SecretHash          { return secretHash(u.Secret) }
func (u Unlock) DataToSign() []byte                         { return envelopeDataToSign(u.envelope, u.Encode()) }

func (u Unlock) validate() error {
	if err := assertEnvelopeValues(u.envelope); err != nil {
		return err
	}
	if err := primitives.CheckUint64ID("payment_identifier", u.PaymentIdentifier); err != nil {
		return err
	}
	return nil
}

func (u Unlock) Encode() []byte {
	buf := wire.BufferFor(unlockSize)
	buf[0] = CmdIDUnlock
	offset := putEnvelopeFields(buf, 1, u.envelope)
	wire.PutUint64BE(buf, offset, u.PaymentIdentifier)
	offset += 8
	wire.PutHash32(buf, offset, u.Secret)
	offset += 32
	wire.PutSignature(buf, offset, u.Signature)
	return buf
}

func decodeUnlock(data []byte) (Unlock, error) {
	if len(data) != unlockSize {
		return Unlock{}, fmt.Errorf("%w: Unlock must be %d bytes, got %d", ErrInvalidProtocolMessage, unlockSize, len(data))
	}
	e, offset := readEnvelopeFields(data, 1)
	u := Unlock{
		envelope:          e,
		PaymentIdentifier: wire.Uint64BE(data, offset),
		Secret:            wire.Hash32(data, offset+8),
	}
	u.Signature = wire.Signature(data, offset+8+32)
	if err := u.validate(); err != nil {
		return Unlock{}, err
	}
	return u, nil
}

// lockedTransferBase carries the fields shared by LockedTransfer and
// RefundTransfer: the token, recipient, and the lock itself, on top of the
// envelope fields every balance-proof message carries.
type lockedTransferBase struct {
	envelope
	PaymentIdentifier primitives.PaymentID
	Token             primitives.Address
	Recipient         primitives.Address
	Lock              Lock
}

const lockedTransferBaseSize = 1 + envelopeFieldsSize + 8 + primitives.AddressLength*2 + lockSize

func (l lockedTransferBase) validate() error {
	if err := assertEnvelopeValues(l.envelope); err != nil {
		return err
	}
	if err := assertTransferValues(l.PaymentIdentifier, l.Token, l.Recipient); err != nil {
		return err
	}
	return l.Lock.Validate()
}

func putLockedTransferBase(buf []byte, l lockedTransferBase) int {
	offset := putEnvelopeFields(buf, 1, l.envelope)
	wire.PutUint64BE(buf, offset, l.PaymentIdentifier)
	offset += 8
	wire.PutAddress(buf, offset, l.Token)
	offset += primitives.AddressLength
	wire.PutAddress(buf, offset, l.Recipient)
	offset += primitives.AddressLength
	lockBytes := l.Lock.AsBytes()
	copy(buf[offset:offset+lockSize], lockBytes)
	offset += lockSize
	return offset
}

func readLockedTransferBase(data []byte) (lockedTransferBase, int) {
	e, offset := readEnvelopeFields(data, 1)
	l := lockedTransferBase{
		envelope:          e,
		PaymentIdentifier: wire.Uint64BE(data, offset),
	}
	offset += 8
	l.Token = wire.Address(data, offset)
	offset += primitives.AddressLength
	l.Recipient = wire.Address(data, offset)
	offset += primitives.AddressLength
	lock, _ := LockFromBytes(data[offset : offset+lockSize])
	l.Lock = lock
	offset += lockSize
	return l, offset
}

// LockedTransfer establishes a mediated-transfer hop: the lock plus the
// target/initiator for the end-to-end chain and the remaining fee.
//
// cmdid(1) | envelope | payment_identifier(8) | token(20) | recipient(20) |
// lock(96) | target(20) | initiator(20) | fee(32) | signature(65).
type LockedTransfer struct {
	lockedTransferBase
	Target    primitives.Address
	Initiator primitives.Address
	Fee       primitives.FeeAmount
}

const lockedTransferSize = lockedTransferBaseSize + primitives.AddressLength*2 + 32 + primitives.SignatureLength

func (l LockedTransfer) CmdID() uint8                              { return CmdIDLockedTransfer }
func (l LockedTransfer) GetSignature() primitives.Signature         { return l.Signature }
func (l LockedTransfer) GetMessageIdentifier() primitives.MessageID { return l.MessageIdentifier }
func (l LockedTransfer) DataToSign() []byte                         { return envelopeDataToSign(l.envelope, l.Encode()) }

func (l LockedTransfer) validate() error {
	if err := l.lockedTransferBase.validate(); err != nil {
		return err
	}
	if l.Target.IsZero() {
		return fmt.Errorf("messages: target is an invalid address")
	}
	if l.Initiator.IsZero() {
		return fmt.Errorf("messages: initiator is an invalid address")
	}
	return primitives.CheckUint256("fee", l.Fee)
}

func (l LockedTransfer) Encode() []byte {
	buf := wire.BufferFor(lockedTransferSize)
	buf[0] = CmdIDLockedTransfer
	offset := putLockedTransferBase(buf, l.lockedTransferBase)
	wire.PutAddress(buf, offset, l.Target)
	offset += primitives.AddressLength
	wire.PutAddress(buf, offset, l.Initiator)
	offset += primitives.AddressLength
	wire.PutUint256BE(buf, offset, l.Fee)
	offset += 32
	wire.PutSignature(buf, offset, l.Signature)
	return buf
}

func decodeLockedTransfer(data []byte) (LockedTransfer, error) {
	if len(data) != lockedTransferSize {
		return LockedTransfer{}, fmt.Errorf("%w: LockedTransfer must be %d bytes, got %d", ErrInvalidProtocolMessage, lockedTransferSize, len(data))
	}
	base, offset := readLockedTransferBase(data)
	lt := LockedTransfer{
		lockedTransferBase: base,
		Target:             wire.Address(data, offset),
		Initiator:          wire.Address(data, offset+primitives.AddressLength),
		Fee:                wire.Uint256BE(data, offset+primitives.AddressLength*2),
	}
	lt.Signature = wire.Signature(data, offset+primitives.AddressLength*2+32)
	if err := lt.validate(); err != nil {
		return LockedTransfer{}, err
	}
	return lt, nil
}

// RefundTransfer is a LockedTransfer sent back from payee to payer when no
// route is available: identical payload, distinct CMDID.
type RefundTransfer struct {
	LockedTransfer
}

func (r RefundTransfer) CmdID() uint8 { return CmdIDRefundTransfer }

func (r RefundTransfer) DataToSign() []byte { return envelopeDataToSign(r.envelope, r.Encode()) }

func (r RefundTransfer) Encode() []byte {
	buf := r.LockedTransfer.Encode()
	buf[0] = CmdIDRefundTransfer
	return buf
}

func decodeRefundTransfer(data []byte) (RefundTransfer, error) {
	if len(data) != lockedTransferSize {
		return RefundTransfer{}, fmt.Errorf("%w: RefundTransfer must be %d bytes, got %d", ErrInvalidProtocolMessage, lockedTransferSize, len(data))
	}
	base, offset := readLockedTransferBase(data)
	lt := LockedTransfer{
		lockedTransferBase: base,
		Target:             wire.Address(data, offset),
		Initiator:          wire.Address(data, offset+primitives.AddressLength),
		Fee:                wire.Uint256BE(data, offset+primitives.AddressLength*2),
	}
	lt.Signature = wire.Signature(data, offset+primitives.AddressLength*2+32)
	if err := lt.validate(); err != nil {
		return RefundTransfer{}, err
	}
	return RefundTransfer{LockedTransfer: lt}, nil
}

// LockExpired notifies the channel partner that a lock has expired and its
// locked amount is returning to the sender's unlocked balance: cmdid(1) |
// envelope | recipient(20) | secrethash(32) | signature(65).
type LockExpired struct {
	envelope
	Recipient  primitives.Address
	SecretHash primitives.SecretHash
}

const lockExpiredSize = 1 + envelopeFieldsSize + primitives.AddressLength + 32 + primitives.SignatureLength

func (l LockExpired) CmdID() uint8                              { return CmdIDLockExpired }
func (l LockExpired) GetSignature() primitives.Signature         { return l.Signature }
func (l LockExpired) GetMessageIdentifier() primitives.MessageID { return l.MessageIdentifier }
func (l LockExpired) DataToSign() []byte                         { return envelopeDataToSign(l.envelope, l.Encode()) }

func (l LockExpired) Encode() []byte {
	buf := wire.BufferFor(lockExpiredSize)
	buf[0] = CmdIDLockExpired
	offset := putEnvelopeFields(buf, 1, l.envelope)
	wire.PutAddress(buf, offset, l.Recipient)
	offset += primitives.AddressLength
	wire.PutHash32(buf, offset, l.SecretHash)
	offset += 32
	wire.PutSignature(buf, offset, l.Signature)
	return buf
}

func decodeLockExpired(data []byte) (LockExpired, error) {
	if len(data) != lockExpiredSize {
		return LockExpired{}, fmt.Errorf("%w: LockExpired must be %d bytes, got %d", ErrInvalidProtocolMessage, lockExpiredSize, len(data))
	}
	e, offset := readEnvelopeFields(data, 1)
	l := LockExpired{
		envelope:   e,
		Recipient:  wire.Address(data, offset),
		SecretHash: wire.Hash32(data, offset+primitives.AddressLength),
	}
	l.Signature = wire.Signature(data, offset+primitives.AddressLength+32)
	if err := assertEnvelopeValues(l.envelope); err != nil {
		return LockExpired{}, err
	}
	return l, nil
}

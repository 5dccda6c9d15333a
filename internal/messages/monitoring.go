package messages

import (
	"fmt"

	"github.com/raiden-go/core/internal/identifiers"
	"github.com/raiden-go/core/internal/packing"
	"github.com/raiden-go/core/internal/primitives"
	"github.com/raiden-go/core/internal/signer"
	"github.com/raiden-go/core/internal/transfer"
	"github.com/raiden-go/core/internal/wire"
)

// SignedBlindedBalanceProof is the partner's balance proof as carried
// inside a RequestMonitoring: the partner's signature is present, but the
// fields are "blinded" down to balance_hash rather than the full
// (transferred, locked, locksroot) triple, since the monitoring service
// never needs more than that to dispute on-chain.
//
// Go reference: SignedBlindedBalanceProof in the Python source.
type SignedBlindedBalanceProof struct {
	ChannelIdentifier   primitives.ChannelID
	TokenNetworkAddress primitives.Address
	Nonce               primitives.Nonce
	AdditionalHash      primitives.AdditionalHash
	ChainID             primitives.ChainID
	BalanceHash         primitives.BalanceHash
	Signature           primitives.Signature
	NonClosingSignature primitives.Signature
}

// NewSignedBlindedBalanceProof validates that signature is present, matching
// __post_init__'s "balance proof is not signed" check.
func NewSignedBlindedBalanceProof(
	channelIdentifier primitives.ChannelID,
	tokenNetworkAddress primitives.Address,
	nonce primitives.Nonce,
	additionalHash primitives.AdditionalHash,
	chainID primitives.ChainID,
	balanceHash primitives.BalanceHash,
	signature primitives.Signature,
) (SignedBlindedBalanceProof, error) {
	if signature.IsEmpty() {
		return SignedBlindedBalanceProof{}, fmt.Errorf("messages: balance proof is not signed")
	}
	return SignedBlindedBalanceProof{
		ChannelIdentifier:   channelIdentifier,
		TokenNetworkAddress: tokenNetworkAddress,
		Nonce:               nonce,
		AdditionalHash:      additionalHash,
		ChainID:             chainID,
		BalanceHash:         balanceHash,
		Signature:           signature,
		NonClosingSignature: primitives.EmptySignature,
	}, nil
}

// SignedBlindedBalanceProofFromState blinds a BalanceProofSignedState down
// to the fields a monitoring service needs.
func SignedBlindedBalanceProofFromState(bp transfer.BalanceProofSignedState) (SignedBlindedBalanceProof, error) {
	return NewSignedBlindedBalanceProof(
		bp.ChannelIdentifier(),
		bp.TokenNetworkAddress(),
		bp.Nonce,
		bp.MessageHash,
		bp.ChainID(),
		bp.BalanceHash(),
		bp.Signature,
	)
}

func (b SignedBlindedBalanceProof) canonicalIdentifier() identifiers.CanonicalIdentifier {
	return identifiers.CanonicalIdentifier{
		ChainID:             b.ChainID,
		TokenNetworkAddress: b.TokenNetworkAddress,
		ChannelIdentifier:   b.ChannelIdentifier,
	}
}

// dataToSign is pack_balance_proof_update over the blinded fields, the
// payload the non-closing signature covers.
func (b SignedBlindedBalanceProof) dataToSign() []byte {
	return packing.PackBalanceProofUpdate(b.Nonce, b.BalanceHash, b.AdditionalHash, b.canonicalIdentifier(), b.Signature)
}

// sign produces the non-closing signature. It deliberately does not store
// into b.Signature — that field is the *partner's* signature, already set;
// only RequestMonitoring.Sign assigns the result to NonClosingSignature.
func (b SignedBlindedBalanceProof) sign(s signer.Signer) (primitives.Signature, error) {
	return s.Sign(b.dataToSign())
}

// RequestMonitoring asks a monitoring service to watch a channel and
// dispute on-chain on the node's behalf if the partner closes with a
// stale balance proof, in exchange for reward_amount. It is carried to the
// monitoring service directly, never peer-to-peer, so it has no CMDID.
//
// Go reference: RequestMonitoring in the Python source.
type RequestMonitoring struct {
	BalanceProof        SignedBlindedBalanceProof
	RewardAmount        primitives.TokenAmount
	NonClosingSignature primitives.Signature
	Signature           primitives.Signature
}

// NewRequestMonitoringFromBalanceProof builds an unsigned RequestMonitoring
// from a signed balance proof and the reward offered to whoever monitors
// it. Go reference: RequestMonitoring.from_balance_proof_signed_state.
//
// The Python source has a second, unreachable `return` statement after the
// first in this constructor — dead code that additionally uses a keyword
// argument (`onchain_balance_proof=`) the dataclass does not accept, so it
// would raise if it were ever reached. This port has the one return its
// control flow actually takes.
func NewRequestMonitoringFromBalanceProof(bp transfer.BalanceProofSignedState, rewardAmount primitives.TokenAmount) (RequestMonitoring, error) {
	blinded, err := SignedBlindedBalanceProofFromState(bp)
	if err != nil {
		return RequestMonitoring{}, err
	}
	return RequestMonitoring{
		BalanceProof: blinded,
		RewardAmount: rewardAmount,
		Signature:    primitives.EmptySignature,
	}, nil
}

func (r RequestMonitoring) dataToSign() []byte {
	ci := r.BalanceProof.canonicalIdentifier()
	return packing.PackRewardProof(ci, r.RewardAmount, r.BalanceProof.Nonce)
}

// Sign signs twice, matching RequestMonitoring.sign: once producing the
// non-closing signature over the balance-proof update, once producing the
// reward-proof signature over the monitoring request itself. Neither may
// be absent once this returns.
func (r *RequestMonitoring) Sign(s signer.Signer) error {
	nonClosing, err := r.BalanceProof.sign(s)
	if err != nil {
		return fmt.Errorf("messages: signing non-closing signature: %w", err)
	}
	r.NonClosingSignature = nonClosing

	sig, err := s.Sign(r.dataToSign())
	if err != nil {
		return fmt.Errorf("messages: signing reward proof: %w", err)
	}
	r.Signature = sig
	return nil
}

// Verify checks that the monitoring request is internally consistent: the
// embedded balance proof was signed by partnerAddress, and both the
// balance-proof-update and reward-proof signatures were produced by
// requestingAddress (the node that asked for monitoring).
func (r RequestMonitoring) Verify(partnerAddress, requestingAddress primitives.Address) bool {
	if r.NonClosingSignature.IsEmpty() {
		return false
	}
	ci := r.BalanceProof.canonicalIdentifier()

	balanceProofData := packing.PackBalanceProof(r.BalanceProof.Nonce, r.BalanceProof.BalanceHash, r.BalanceProof.AdditionalHash, ci)
	blindedData := packing.PackBalanceProofUpdate(r.BalanceProof.Nonce, r.BalanceProof.BalanceHash, r.BalanceProof.AdditionalHash, ci, r.BalanceProof.Signature)
	rewardProofData := packing.PackRewardProof(ci, r.RewardAmount, r.BalanceProof.Nonce)

	partnerOK, ok1 := signer.Recover(balanceProofData, r.BalanceProof.Signature)
	requestingOK1, ok2 := signer.Recover(blindedData, r.NonClosingSignature)
	requestingOK2, ok3 := signer.Recover(rewardProofData, r.Signature)

	return ok1 && ok2 && ok3 &&
		partnerOK == partnerAddress &&
		requestingOK1 == requestingAddress &&
		requestingOK2 == requestingAddress
}

// UpdatePFS informs a pathfinding service about a capacity change on one
// side of a channel. Like RequestMonitoring it is delivered directly to
// the service, never peer-to-peer, so it carries no CMDID.
//
// Go reference: UpdatePFS in the Python source. Its Python unpack has a
// copy-paste bug: `updating_capacity=packed.other_capacity` reads the
// wrong wire field, so both capacities end up holding the "other"
// participant's value. This port reads each field from its own wire slot.
type UpdatePFS struct {
	CanonicalIdentifier identifiers.CanonicalIdentifier
	UpdatingParticipant primitives.Address
	OtherParticipant    primitives.Address
	UpdatingNonce       primitives.Nonce
	OtherNonce          primitives.Nonce
	UpdatingCapacity    primitives.TokenAmount
	OtherCapacity       primitives.TokenAmount
	RevealTimeout       uint64
	MediationFee        primitives.FeeAmount
	Signature           primitives.Signature
}

const updatePFSSize = 32 + 32 + primitives.AddressLength*3 + 8 + 8 + 32 + 32 + 8 + 32 + primitives.SignatureLength

// Encode lays the message out: chain_id(32) | token_network_address(20) |
// channel_identifier(32) | updating_participant(20) | other_participant(20)
// | updating_nonce(8) | other_nonce(8) | updating_capacity(32) |
// other_capacity(32) | reveal_timeout(8) | mediation_fee(32) |
// signature(65). There is no CMDID byte: this is not a peer message.
func (u UpdatePFS) Encode() []byte {
	buf := wire.BufferFor(updatePFSSize)
	offset := 0

	wire.PutUint256BE(buf, offset, u.CanonicalIdentifier.ChainID)
	offset += 32
	wire.PutAddress(buf, offset, u.CanonicalIdentifier.TokenNetworkAddress)
	offset += primitives.AddressLength
	wire.PutUint256BE(buf, offset, u.CanonicalIdentifier.ChannelIdentifier)
	offset += 32
	wire.PutAddress(buf, offset, u.UpdatingParticipant)
	offset += primitives.AddressLength
	wire.PutAddress(buf, offset, u.OtherParticipant)
	offset += primitives.AddressLength
	wire.PutUint64BE(buf, offset, uint64(u.UpdatingNonce))
	offset += 8
	wire.PutUint64BE(buf, offset, uint64(u.OtherNonce))
	offset += 8
	wire.PutUint256BE(buf, offset, u.UpdatingCapacity)
	offset += 32
	wire.PutUint256BE(buf, offset, u.OtherCapacity)
	offset += 32
	wire.PutUint64BE(buf, offset, u.RevealTimeout)
	offset += 8
	wire.PutUint256BE(buf, offset, u.MediationFee)
	offset += 32
	wire.PutSignature(buf, offset, u.Signature)

	return buf
}

func decodeUpdatePFS(data []byte) (UpdatePFS, error) {
	if len(data) != updatePFSSize {
		return UpdatePFS{}, fmt.Errorf("messages: UpdatePFS must be %d bytes, got %d", updatePFSSize, len(data))
	}
	offset := 0
	u := UpdatePFS{}
	u.CanonicalIdentifier.ChainID = wire.Uint256BE(data, offset)
	offset += 32
	u.CanonicalIdentifier.TokenNetworkAddress = wire.Address(data, offset)
	offset += primitives.AddressLength
	u.CanonicalIdentifier.ChannelIdentifier = wire.Uint256BE(data, offset)
	offset += 32
	u.UpdatingParticipant = wire.Address(data, offset)
	offset += primitives.AddressLength
	u.OtherParticipant = wire.Address(data, offset)
	offset += primitives.AddressLength
	u.UpdatingNonce = primitives.Nonce(wire.Uint64BE(data, offset))
	offset += 8
	u.OtherNonce = primitives.Nonce(wire.Uint64BE(data, offset))
	offset += 8
	u.UpdatingCapacity = wire.Uint256BE(data, offset)
	offset += 32
	u.OtherCapacity = wire.Uint256BE(data, offset)
	offset += 32
	u.RevealTimeout = wire.Uint64BE(data, offset)
	offset += 8
	u.MediationFee = wire.Uint256BE(data, offset)
	offset += 32
	u.Signature = wire.Signature(data, offset)
	return u, nil
}

func (u UpdatePFS) DataToSign() []byte {
	buf := u.Encode()
	return buf[:len(buf)-primitives.SignatureLength]
}

func (u UpdatePFS) GetSignature() primitives.Signature { return u.Signature }

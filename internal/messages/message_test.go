package messages

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/raiden-go/core/internal/identifiers"
	"github.com/raiden-go/core/internal/packing"
	"github.com/raiden-go/core/internal/primitives"
	"github.com/raiden-go/core/internal/signer"
	"github.com/raiden-go/core/internal/signercache"
	"github.com/raiden-go/core/internal/transfer"
)

func newTestSigner(t *testing.T) *signer.LocalSigner {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return signer.NewLocalSigner(key)
}

func TestPingPongRoundTrip(t *testing.T) {
	s := newTestSigner(t)

	ping := Ping{Nonce: 1, CurrentProtocolVersion: 1}
	sig, err := s.Sign(ping.DataToSign())
	if err != nil {
		t.Fatalf("sign ping: %v", err)
	}
	ping.Signature = sig

	decoded, err := Decode(ping.Encode())
	if err != nil {
		t.Fatalf("decode ping: %v", err)
	}
	decodedPing, ok := decoded.(Ping)
	if !ok {
		t.Fatalf("decoded unexpected type %T", decoded)
	}
	if decodedPing.Nonce != ping.Nonce || decodedPing.CurrentProtocolVersion != ping.CurrentProtocolVersion {
		t.Fatalf("decoded ping mismatch: %+v", decodedPing)
	}

	pong := Pong{Nonce: decodedPing.Nonce}
	sig, err = s.Sign(pong.DataToSign())
	if err != nil {
		t.Fatalf("sign pong: %v", err)
	}
	pong.Signature = sig

	decoded, err = Decode(pong.Encode())
	if err != nil {
		t.Fatalf("decode pong: %v", err)
	}
	decodedPong, ok := decoded.(Pong)
	if !ok {
		t.Fatalf("decoded unexpected type %T", decoded)
	}
	if decodedPong.Nonce != pong.Nonce {
		t.Fatalf("decoded pong mismatch: %+v", decodedPong)
	}

	cache := signercache.New(signercache.DefaultCapacity)
	sender, ok := Sender(cache, decodedPong)
	if !ok || sender != s.Address() {
		t.Fatalf("sender recovery mismatch: ok=%v sender=%x", ok, sender.Bytes())
	}
}

func TestProcessedRoundTripAndNotRetrieable(t *testing.T) {
	s := newTestSigner(t)

	p := ProcessedFromEvent(7)
	sig, err := s.Sign(p.DataToSign())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	p.Signature = sig

	decoded, err := Decode(p.Encode())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	decodedProcessed, ok := decoded.(Processed)
	if !ok {
		t.Fatalf("decoded unexpected type %T", decoded)
	}
	if decodedProcessed.MessageIdentifier != 7 {
		t.Fatalf("MessageIdentifier = %d, want 7", decodedProcessed.MessageIdentifier)
	}

	var signed Signed = decodedProcessed
	if _, ok := signed.(Retrieable); ok {
		t.Fatal("Processed must not satisfy Retrieable")
	}
}

// TestUnlockEnvelopeSigningAndVerification exercises the fixed scenario:
// chain_id=1, nonce=1, transferred=0, locked=0, locksroot=0^32,
// channel_identifier=0, token_network=0^20, payment_identifier=1,
// secret=0x01 repeated 32 times.
func TestUnlockEnvelopeSigningAndVerification(t *testing.T) {
	s := newTestSigner(t)

	var secret primitives.Secret
	for i := range secret {
		secret[i] = 0x01
	}

	u := Unlock{
		envelope: envelope{
			ChainID:             big.NewInt(1),
			MessageIdentifier:   1,
			Nonce:               1,
			TransferredAmount:   big.NewInt(0),
			LockedAmount:        big.NewInt(0),
			Locksroot:           primitives.Locksroot{},
			ChannelIdentifier:   big.NewInt(0),
			TokenNetworkAddress: primitives.Address{},
			Signature:           primitives.EmptySignature,
		},
		PaymentIdentifier: 1,
		Secret:            secret,
	}

	if got := u.SecretHash(); got != signer.Keccak256Hash(secret.Bytes()) {
		t.Errorf("SecretHash() = %x, want sha3(secret) = %x", got.Bytes(), signer.Keccak256Hash(secret.Bytes()).Bytes())
	}

	ci := identifiers.CanonicalIdentifier{
		ChainID:             u.ChainID,
		TokenNetworkAddress: u.TokenNetworkAddress,
		ChannelIdentifier:   u.ChannelIdentifier,
	}
	balanceHash := packing.HashBalanceData(u.TransferredAmount, u.LockedAmount, u.Locksroot)
	wantAdditionalHash := messageHash(u.Encode())
	wantDataToSign := packing.PackBalanceProof(u.Nonce, balanceHash, wantAdditionalHash, ci)

	if got := u.DataToSign(); !bytes.Equal(got, wantDataToSign) {
		t.Fatalf("DataToSign() does not match pack_balance_proof expansion:\ngot  %x\nwant %x", got, wantDataToSign)
	}

	sig, err := s.Sign(u.DataToSign())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	u.Signature = sig

	decoded, err := Decode(u.Encode())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	decodedUnlock, ok := decoded.(Unlock)
	if !ok {
		t.Fatalf("decoded unexpected type %T", decoded)
	}

	cache := signercache.New(signercache.DefaultCapacity)
	sender, ok := Sender(cache, decodedUnlock)
	if !ok || sender != s.Address() {
		t.Fatalf("sender recovery mismatch: ok=%v sender=%x want=%x", ok, sender.Bytes(), s.Address().Bytes())
	}
}

func TestDecodeDictRejectsAddressOfWrongLength(t *testing.T) {
	dict := map[string]any{
		"type":                  "LockedTransfer",
		"chain_id":              "1",
		"message_identifier":    uint64(1),
		"nonce":                 uint64(1),
		"transferred_amount":    "0",
		"locked_amount":         "0",
		"locksroot":             "0x" + hexZeros(32),
		"channel_identifier":    "1",
		"token_network_address": "0x" + hexZeros(20),
		"signature":             "0x" + hexZeros(65),
		"payment_identifier":    uint64(1),
		"token":                 "0x" + hexZeros(19), // one byte short of a valid address
		"recipient":             "0x" + hexZeros(20),
		"lock": map[string]any{
			"amount":     "1",
			"expiration": "1",
			"secrethash": "0x" + hexZeros(32),
		},
		"target":    "0x" + hexZeros(20),
		"initiator": "0x" + hexZeros(20),
		"fee":       "0",
	}

	if _, err := DecodeDict(dict); err == nil {
		t.Fatal("expected an error for a token address one byte short of 20 bytes")
	}
}

func hexZeros(n int) string {
	b := make([]byte, n*2)
	for i := range b {
		b[i] = '0'
	}
	return string(b)
}

func TestFromSendEventPanicsOnUnknownEvent(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for an event type FromSendEvent does not recognize")
		}
	}()
	FromSendEvent(unknownEvent{})
}

type unknownEvent struct{}

func (unknownEvent) isEvent() {}

func TestRequestMonitoringVerify(t *testing.T) {
	partner := newTestSigner(t)
	requester := newTestSigner(t)

	ci := identifiers.CanonicalIdentifier{
		ChainID:             big.NewInt(1),
		TokenNetworkAddress: primitives.Address{0x01},
		ChannelIdentifier:   big.NewInt(5),
	}
	nonce := primitives.Nonce(3)
	balanceHash := packing.HashBalanceData(big.NewInt(10), big.NewInt(0), primitives.Locksroot{})
	additionalHash := primitives.AdditionalHash{0x09}

	partnerSig, err := partner.Sign(packing.PackBalanceProof(nonce, balanceHash, additionalHash, ci))
	if err != nil {
		t.Fatalf("partner sign: %v", err)
	}

	bp, err := transfer.NewBalanceProofSignedState(
		nonce, big.NewInt(10), big.NewInt(0), primitives.Locksroot{},
		additionalHash, partnerSig, partner.Address(), ci,
	)
	if err != nil {
		t.Fatalf("build balance proof: %v", err)
	}

	rm, err := NewRequestMonitoringFromBalanceProof(bp, big.NewInt(100))
	if err != nil {
		t.Fatalf("build request monitoring: %v", err)
	}
	if err := rm.Sign(requester); err != nil {
		t.Fatalf("sign request monitoring: %v", err)
	}

	if !rm.Verify(partner.Address(), requester.Address()) {
		t.Fatal("expected Verify to succeed for the correct partner/requester pair")
	}
	if rm.Verify(requester.Address(), requester.Address()) {
		t.Fatal("Verify must fail when the wrong address is claimed as the partner")
	}
	if rm.Verify(partner.Address(), partner.Address()) {
		t.Fatal("Verify must fail when the wrong address is claimed as the requester")
	}

	flipByte := func(sig primitives.Signature) primitives.Signature {
		flipped := sig
		flipped[0] ^= 0xff
		return flipped
	}

	withFlippedNonClosing := rm
	withFlippedNonClosing.NonClosingSignature = flipByte(rm.NonClosingSignature)
	if withFlippedNonClosing.Verify(partner.Address(), requester.Address()) {
		t.Fatal("Verify must fail when a byte of NonClosingSignature is flipped")
	}

	withFlippedSignature := rm
	withFlippedSignature.Signature = flipByte(rm.Signature)
	if withFlippedSignature.Verify(partner.Address(), requester.Address()) {
		t.Fatal("Verify must fail when a byte of Signature is flipped")
	}

	withFlippedBalanceProof := rm
	withFlippedBalanceProof.BalanceProof.Signature = flipByte(rm.BalanceProof.Signature)
	if withFlippedBalanceProof.Verify(partner.Address(), requester.Address()) {
		t.Fatal("Verify must fail when a byte of the embedded balance proof's signature is flipped")
	}
}

func TestUpdatePFSCapacitiesAreIndependent(t *testing.T) {
	u := UpdatePFS{
		CanonicalIdentifier: identifiers.CanonicalIdentifier{
			ChainID:             big.NewInt(1),
			TokenNetworkAddress: primitives.Address{0x01},
			ChannelIdentifier:   big.NewInt(1),
		},
		UpdatingParticipant: primitives.Address{0x02},
		OtherParticipant:    primitives.Address{0x03},
		UpdatingNonce:       1,
		OtherNonce:          2,
		UpdatingCapacity:    big.NewInt(1000),
		OtherCapacity:       big.NewInt(2000),
		RevealTimeout:       40,
		MediationFee:        big.NewInt(0),
		Signature:           primitives.Signature{0x01},
	}

	decoded, err := decodeUpdatePFS(u.Encode())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.UpdatingCapacity.Cmp(u.UpdatingCapacity) != 0 {
		t.Errorf("UpdatingCapacity = %s, want %s", decoded.UpdatingCapacity, u.UpdatingCapacity)
	}
	if decoded.OtherCapacity.Cmp(u.OtherCapacity) != 0 {
		t.Errorf("OtherCapacity = %s, want %s", decoded.OtherCapacity, u.OtherCapacity)
	}
	if decoded.UpdatingCapacity.Cmp(decoded.OtherCapacity) == 0 {
		t.Fatal("updating and other capacity must decode to distinct values, not both the 'other' field")
	}
}

func TestHashKeyIsStableForEqualMessages(t *testing.T) {
	s := newTestSigner(t)
	p := ProcessedFromEvent(1)
	sig, err := s.Sign(p.DataToSign())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	p.Signature = sig

	p2 := p
	if !Equal(p, p2) {
		t.Fatal("identical messages should compare Equal")
	}
	if HashKey(p) != HashKey(p2) {
		t.Fatal("identical messages should share a HashKey")
	}

	other := ProcessedFromEvent(2)
	otherSig, err := s.Sign(other.DataToSign())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	other.Signature = otherSig
	if Equal(p, other) {
		t.Fatal("messages with different payloads must not compare Equal")
	}
}

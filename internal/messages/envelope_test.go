package messages

import (
	"math/big"
	"testing"

	"github.com/raiden-go/core/internal/primitives"
	"github.com/raiden-go/core/internal/signercache"
)

func testLockedTransfer() LockedTransfer {
	return LockedTransfer{
		lockedTransferBase: lockedTransferBase{
			envelope: envelope{
				ChainID:             big.NewInt(1),
				MessageIdentifier:   1,
				Nonce:               1,
				TransferredAmount:   big.NewInt(0),
				LockedAmount:        big.NewInt(1000),
				Locksroot:           primitives.Locksroot{0x01},
				ChannelIdentifier:   big.NewInt(1),
				TokenNetworkAddress: primitives.Address{0xaa},
				Signature:           primitives.EmptySignature,
			},
			PaymentIdentifier: 1,
			Token:             primitives.Address{0xbb},
			Recipient:         primitives.Address{0x02},
			Lock: Lock{
				Amount:     big.NewInt(1000),
				Expiration: big.NewInt(100),
				SecretHash: primitives.SecretHash{0x09},
			},
		},
		Target:    primitives.Address{0x03},
		Initiator: primitives.Address{0x04},
		Fee:       big.NewInt(0),
	}
}

func TestLockedTransferRoundTrip(t *testing.T) {
	s := newTestSigner(t)
	lt := testLockedTransfer()

	sig, err := s.Sign(lt.DataToSign())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	lt.Signature = sig

	decoded, err := Decode(lt.Encode())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	decodedLT, ok := decoded.(LockedTransfer)
	if !ok {
		t.Fatalf("decoded unexpected type %T", decoded)
	}

	if decodedLT.PaymentIdentifier != lt.PaymentIdentifier {
		t.Errorf("PaymentIdentifier = %d, want %d", decodedLT.PaymentIdentifier, lt.PaymentIdentifier)
	}
	if decodedLT.Token != lt.Token {
		t.Errorf("Token = %x, want %x", decodedLT.Token.Bytes(), lt.Token.Bytes())
	}
	if decodedLT.Recipient != lt.Recipient {
		t.Errorf("Recipient = %x, want %x", decodedLT.Recipient.Bytes(), lt.Recipient.Bytes())
	}
	if decodedLT.Target != lt.Target {
		t.Errorf("Target = %x, want %x", decodedLT.Target.Bytes(), lt.Target.Bytes())
	}
	if decodedLT.Initiator != lt.Initiator {
		t.Errorf("Initiator = %x, want %x", decodedLT.Initiator.Bytes(), lt.Initiator.Bytes())
	}
	if decodedLT.Lock.Amount.Cmp(lt.Lock.Amount) != 0 {
		t.Errorf("Lock.Amount = %s, want %s", decodedLT.Lock.Amount, lt.Lock.Amount)
	}
	if decodedLT.Lock.Expiration.Cmp(lt.Lock.Expiration) != 0 {
		t.Errorf("Lock.Expiration = %s, want %s", decodedLT.Lock.Expiration, lt.Lock.Expiration)
	}
	if decodedLT.Lock.SecretHash != lt.Lock.SecretHash {
		t.Errorf("Lock.SecretHash = %x, want %x", decodedLT.Lock.SecretHash.Bytes(), lt.Lock.SecretHash.Bytes())
	}

	cache := signercache.New(signercache.DefaultCapacity)
	sender, ok := Sender(cache, decodedLT)
	if !ok || sender != s.Address() {
		t.Fatalf("sender recovery mismatch: ok=%v sender=%x want=%x", ok, sender.Bytes(), s.Address().Bytes())
	}
}

func TestRefundTransferRoundTrip(t *testing.T) {
	s := newTestSigner(t)
	rt := RefundTransfer{LockedTransfer: testLockedTransfer()}

	sig, err := s.Sign(rt.DataToSign())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	rt.Signature = sig

	decoded, err := Decode(rt.Encode())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	decodedRT, ok := decoded.(RefundTransfer)
	if !ok {
		t.Fatalf("decoded unexpected type %T", decoded)
	}
	if decodedRT.CmdID() != CmdIDRefundTransfer {
		t.Errorf("CmdID() = %d, want %d", decodedRT.CmdID(), CmdIDRefundTransfer)
	}
	if decodedRT.Lock.SecretHash != rt.Lock.SecretHash {
		t.Errorf("Lock.SecretHash = %x, want %x", decodedRT.Lock.SecretHash.Bytes(), rt.Lock.SecretHash.Bytes())
	}

	cache := signercache.New(signercache.DefaultCapacity)
	sender, ok := Sender(cache, decodedRT)
	if !ok || sender != s.Address() {
		t.Fatalf("sender recovery mismatch: ok=%v sender=%x want=%x", ok, sender.Bytes(), s.Address().Bytes())
	}
}

func TestLockExpiredRoundTrip(t *testing.T) {
	s := newTestSigner(t)
	le := LockExpired{
		envelope: envelope{
			ChainID:             big.NewInt(1),
			MessageIdentifier:   2,
			Nonce:               2,
			TransferredAmount:   big.NewInt(0),
			LockedAmount:        big.NewInt(0),
			Locksroot:           primitives.Locksroot{},
			ChannelIdentifier:   big.NewInt(1),
			TokenNetworkAddress: primitives.Address{0xaa},
			Signature:           primitives.EmptySignature,
		},
		Recipient:  primitives.Address{0x05},
		SecretHash: primitives.SecretHash{0x0a},
	}

	sig, err := s.Sign(le.DataToSign())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	le.Signature = sig

	decoded, err := Decode(le.Encode())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	decodedLE, ok := decoded.(LockExpired)
	if !ok {
		t.Fatalf("decoded unexpected type %T", decoded)
	}
	if decodedLE.Recipient != le.Recipient {
		t.Errorf("Recipient = %x, want %x", decodedLE.Recipient.Bytes(), le.Recipient.Bytes())
	}
	if decodedLE.SecretHash != le.SecretHash {
		t.Errorf("SecretHash = %x, want %x", decodedLE.SecretHash.Bytes(), le.SecretHash.Bytes())
	}

	cache := signercache.New(signercache.DefaultCapacity)
	sender, ok := Sender(cache, decodedLE)
	if !ok || sender != s.Address() {
		t.Fatalf("sender recovery mismatch: ok=%v sender=%x want=%x", ok, sender.Bytes(), s.Address().Bytes())
	}
}

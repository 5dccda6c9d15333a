package packing

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/raiden-go/core/internal/identifiers"
	"github.com/raiden-go/core/internal/primitives"
)

func TestHashBalanceDataEmptyIsCanonical(t *testing.T) {
	h := HashBalanceData(big.NewInt(0), big.NewInt(0), primitives.Locksroot{})
	if h != primitives.EmptyBalanceHash {
		t.Errorf("zero transferred/locked/locksroot should hash to EmptyBalanceHash, got %x", h)
	}
}

func TestHashBalanceDataNonZeroDiffers(t *testing.T) {
	h := HashBalanceData(big.NewInt(1), big.NewInt(0), primitives.Locksroot{})
	if h == primitives.EmptyBalanceHash {
		t.Error("non-zero transferred amount must not hash to EmptyBalanceHash")
	}
}

func TestHashBalanceDataDeterministic(t *testing.T) {
	locksroot := primitives.Locksroot{0x01}
	a := HashBalanceData(big.NewInt(5), big.NewInt(7), locksroot)
	b := HashBalanceData(big.NewInt(5), big.NewInt(7), locksroot)
	if a != b {
		t.Error("HashBalanceData must be deterministic for identical inputs")
	}
}

func testCanonicalIdentifier() identifiers.CanonicalIdentifier {
	var tn primitives.Address
	for i := range tn {
		tn[i] = byte(i + 1)
	}
	return identifiers.CanonicalIdentifier{
		ChainID:             big.NewInt(1),
		TokenNetworkAddress: tn,
		ChannelIdentifier:   big.NewInt(42),
	}
}

func TestPackBalanceProofLayout(t *testing.T) {
	ci := testCanonicalIdentifier()
	balanceHash := primitives.BalanceHash{0xaa}
	additionalHash := primitives.AdditionalHash{0xbb}

	out := PackBalanceProof(primitives.Nonce(7), balanceHash, additionalHash, ci)

	wantLen := 20 + 32*6
	if len(out) != wantLen {
		t.Fatalf("got length %d, want %d", len(out), wantLen)
	}
	if !bytes.Equal(out[:20], ci.TokenNetworkAddress.Bytes()) {
		t.Error("token_network_address must be the first 20 bytes")
	}
	// msg_type=1 occupies the third field, after token_network(20) + chain_id(32).
	msgType := out[20+32 : 20+64]
	want := make([]byte, 32)
	want[31] = 1
	if !bytes.Equal(msgType, want) {
		t.Errorf("msg_type field = %x, want %x", msgType, want)
	}
}

func TestPackBalanceProofUpdateDiffersByMsgType(t *testing.T) {
	ci := testCanonicalIdentifier()
	balanceHash := primitives.BalanceHash{0xaa}
	additionalHash := primitives.AdditionalHash{0xbb}
	nonce := primitives.Nonce(7)

	bp := PackBalanceProof(nonce, balanceHash, additionalHash, ci)
	upd := PackBalanceProofUpdate(nonce, balanceHash, additionalHash, ci, primitives.Signature{0x01})

	bpMsgType := bp[20+32 : 20+64]
	updMsgType := upd[20+32 : 20+64]
	if bytes.Equal(bpMsgType, updMsgType) {
		t.Error("PackBalanceProof and PackBalanceProofUpdate must use different msg_type discriminants")
	}
	if len(upd) != len(bp)+primitives.SignatureLength {
		t.Errorf("PackBalanceProofUpdate should append a 65-byte signature, got length delta %d", len(upd)-len(bp))
	}
}

func TestPackRewardProofLayout(t *testing.T) {
	ci := testCanonicalIdentifier()
	out := PackRewardProof(ci, big.NewInt(100), primitives.Nonce(3))
	wantLen := 32*4 + 20
	if len(out) != wantLen {
		t.Fatalf("got length %d, want %d", len(out), wantLen)
	}
	channelField := out[:32]
	wantChannel := make([]byte, 32)
	wantChannel[31] = 42
	if !bytes.Equal(channelField, wantChannel) {
		t.Errorf("channel_identifier field = %x, want %x", channelField, wantChannel)
	}
}

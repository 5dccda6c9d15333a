package signercache

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/raiden-go/core/internal/primitives"
	"github.com/raiden-go/core/internal/signer"
)

func TestRecoverCachesOnHit(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	s := signer.NewLocalSigner(key)
	data := []byte("payload")
	sig, err := s.Sign(data)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	digest := signer.Keccak256Hash(data)

	c := New(DefaultCapacity)
	if c.Len() != 0 {
		t.Fatal("new cache should start empty")
	}

	addr, ok := c.Recover(digest, sig)
	if !ok || addr != s.Address() {
		t.Fatalf("first recovery failed or mismatched: ok=%v addr=%x", ok, addr.Bytes())
	}
	if c.Len() != 1 {
		t.Errorf("expected one cached entry, got %d", c.Len())
	}

	addr2, ok := c.Recover(digest, sig)
	if !ok || addr2 != addr {
		t.Fatal("second recovery of the same (digest, signature) should return the cached address")
	}
	if c.Len() != 1 {
		t.Errorf("cache hit must not grow the cache, got %d entries", c.Len())
	}
}

func TestRecoverFailureIsNotCached(t *testing.T) {
	c := New(DefaultCapacity)
	digest := signer.Keccak256Hash([]byte("x"))
	if _, ok := c.Recover(digest, primitives.EmptySignature); ok {
		t.Fatal("recovering an empty signature should fail")
	}
	if c.Len() != 0 {
		t.Errorf("a failed recovery must not be cached, got %d entries", c.Len())
	}
}

func TestRecoverDistinguishesDigestFromSignature(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	s := signer.NewLocalSigner(key)

	sigA, err := s.Sign([]byte("a"))
	if err != nil {
		t.Fatalf("sign a: %v", err)
	}
	sigB, err := s.Sign([]byte("b"))
	if err != nil {
		t.Fatalf("sign b: %v", err)
	}

	c := New(DefaultCapacity)
	digestA := signer.Keccak256Hash([]byte("a"))
	digestB := signer.Keccak256Hash([]byte("b"))

	if _, ok := c.Recover(digestA, sigA); !ok {
		t.Fatal("expected recovery over (digestA, sigA) to succeed")
	}
	if _, ok := c.Recover(digestB, sigB); !ok {
		t.Fatal("expected recovery over (digestB, sigB) to succeed")
	}
	if c.Len() != 2 {
		t.Errorf("distinct (digest, signature) pairs must occupy distinct cache entries, got %d", c.Len())
	}
}

func TestNewFallsBackToDefaultCapacity(t *testing.T) {
	c := New(0)
	if c == nil {
		t.Fatal("New(0) should not return nil")
	}
	c = New(-5)
	if c == nil {
		t.Fatal("New(-5) should not return nil")
	}
}

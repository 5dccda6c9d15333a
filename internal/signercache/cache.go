// Package signercache memoizes ECDSA sender recovery. Recovering a sender
// from a signature is the hottest path in message decoding — every inbound
// message recovers at least once, balance-proof updates recover twice — and
// it is pure, so it is exactly the kind of computation worth caching.
//
// Go reference: original_source/raiden/messages.py's CACHE_KEY_NOT_NONE /
// sender_cache_lru use of @alru_cache, adapted to fix an ambiguity in that
// design: the Python cache keys on the signature bytes alone, so two
// different digests that happen to produce colliding signature bytes under
// a misuse of the API would return the wrong sender. This package keys on
// the (digest, signature) pair instead.
package signercache

import (
	"github.com/hashicorp/golang-lru/v2"

	"github.com/raiden-go/core/internal/primitives"
	"github.com/raiden-go/core/internal/signer"
)

// DefaultCapacity bounds memory use: one entry is a 20-byte address plus the
// 97-byte key, capacity 128 caps the cache at a few dozen KB even under a
// large connected-peer set.
const DefaultCapacity = 128

type key struct {
	digest    primitives.Hash32
	signature primitives.Signature
}

// RecoveryCache memoizes Recover(digest, signature) -> sender.
type RecoveryCache struct {
	lru *lru.Cache[key, primitives.Address]
}

// New constructs a RecoveryCache with the given capacity. Capacity <= 0
// falls back to DefaultCapacity.
func New(capacity int) *RecoveryCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c, err := lru.New[key, primitives.Address](capacity)
	if err != nil {
		// Only returns an error for capacity <= 0, which is excluded above.
		panic(err)
	}
	return &RecoveryCache{lru: c}
}

// Recover returns the address that produced signature over the payload
// whose keccak256 digest is digest, recomputing via signer.RecoverHash on a
// cache miss and remembering the result. The bool result mirrors
// signer.RecoverHash's: false means the signature did not recover to a
// valid public key, and is not cached (a transient bad recovery should not
// permanently poison the cache for a digest/signature pair that might
// legitimately recur, e.g. a retried decode after fixing an unrelated bug).
func (c *RecoveryCache) Recover(digest primitives.Hash32, signature primitives.Signature) (primitives.Address, bool) {
	k := key{digest: digest, signature: signature}
	if addr, ok := c.lru.Get(k); ok {
		return addr, true
	}
	addr, ok := signer.RecoverHash(digest, signature)
	if !ok {
		return primitives.Address{}, false
	}
	c.lru.Add(k, addr)
	return addr, true
}

// Len reports the number of cached entries, mainly for tests.
func (c *RecoveryCache) Len() int { return c.lru.Len() }

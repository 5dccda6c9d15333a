// Package wire implements the fixed-layout binary framing shared by every
// peer-to-peer message: big-endian integers, 20-byte addresses,
// 32-byte digests, 65-byte signatures at known offsets.
//
// Go reference: internal/clob/eip712.go's padUint256/padAddress/padUint8 —
// same encoding discipline, generalized from fixed 32-byte EIP-712 slots to
// the message-specific field widths this protocol actually uses on the wire.
package wire

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/raiden-go/core/internal/primitives"
)

// PutUint8 writes a single byte at offset.
func PutUint8(buf []byte, offset int, v uint8) {
	buf[offset] = v
}

// Uint8 reads a single byte at offset.
func Uint8(buf []byte, offset int) uint8 {
	return buf[offset]
}

// PutUint64BE writes v as 8 big-endian bytes at offset.
func PutUint64BE(buf []byte, offset int, v uint64) {
	binary.BigEndian.PutUint64(buf[offset:offset+8], v)
}

// Uint64BE reads 8 big-endian bytes at offset.
func Uint64BE(buf []byte, offset int) uint64 {
	return binary.BigEndian.Uint64(buf[offset : offset+8])
}

// PutUint256BE left-pads n into a 32-byte big-endian field at offset.
// A nil n is treated as zero, matching padUint256 in eip712.go.
func PutUint256BE(buf []byte, offset int, n *big.Int) {
	field := buf[offset : offset+32]
	for i := range field {
		field[i] = 0
	}
	if n == nil {
		return
	}
	b := n.Bytes()
	if len(b) > 32 {
		panic("wire: uint256 value overflows 32 bytes")
	}
	copy(field[32-len(b):], b)
}

// Uint256BE reads a 32-byte big-endian field at offset into a *big.Int.
func Uint256BE(buf []byte, offset int) *big.Int {
	return new(big.Int).SetBytes(buf[offset : offset+32])
}

// PutAddress writes a 20-byte address at offset.
func PutAddress(buf []byte, offset int, a primitives.Address) {
	copy(buf[offset:offset+primitives.AddressLength], a[:])
}

// Address reads a 20-byte address at offset.
func Address(buf []byte, offset int) primitives.Address {
	var a primitives.Address
	copy(a[:], buf[offset:offset+primitives.AddressLength])
	return a
}

// PutHash32 writes a 32-byte digest at offset.
func PutHash32(buf []byte, offset int, h primitives.Hash32) {
	copy(buf[offset:offset+primitives.HashLength], h[:])
}

// Hash32 reads a 32-byte digest at offset.
func Hash32(buf []byte, offset int) primitives.Hash32 {
	var h primitives.Hash32
	copy(h[:], buf[offset:offset+primitives.HashLength])
	return h
}

// PutSignature writes a 65-byte signature at offset.
func PutSignature(buf []byte, offset int, s primitives.Signature) {
	copy(buf[offset:offset+primitives.SignatureLength], s[:])
}

// Signature reads a 65-byte signature at offset.
func Signature(buf []byte, offset int) primitives.Signature {
	var s primitives.Signature
	copy(s[:], buf[offset:offset+primitives.SignatureLength])
	return s
}

// BufferFor returns a zeroed buffer of exactly totalSize bytes, the Go
// equivalent of buffer_for(klass) in the Python source.
func BufferFor(totalSize int) []byte {
	return make([]byte, totalSize)
}

// SigningPayload returns the slice of buf preceding its trailing signature
// field — signature is always the final field in every message layout
// this package encodes, so the signed payload is buf[0 : len(buf)-65].
func SigningPayload(buf []byte) []byte {
	if len(buf) < primitives.SignatureLength {
		panic(fmt.Sprintf("wire: buffer of %d bytes too small to hold a trailing signature", len(buf)))
	}
	return buf[:len(buf)-primitives.SignatureLength]
}

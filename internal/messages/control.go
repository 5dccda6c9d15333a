package messages

import (
	"fmt"

	"github.com/raiden-go/core/internal/primitives"
	"github.com/raiden-go/core/internal/wire"
)

// Ping is a healthcheck message: cmdid(1) | nonce(8) | protocol_version(1) |
// signature(65).
type Ping struct {
	Nonce                   primitives.Nonce
	CurrentProtocolVersion  primitives.RaidenProtocolVersion
	Signature               primitives.Signature
}

const pingSize = 1 + 8 + 1 + primitives.SignatureLength

func (p Ping) CmdID() uint8                              { return CmdIDPing }
func (p Ping) GetSignature() primitives.Signature         { return p.Signature }
func (p Ping) DataToSign() []byte                         { return wire.SigningPayload(p.Encode()) }

func (p Ping) Encode() []byte {
	buf := wire.BufferFor(pingSize)
	buf[0] = CmdIDPing
	wire.PutUint64BE(buf, 1, uint64(p.Nonce))
	wire.PutUint8(buf, 9, p.CurrentProtocolVersion)
	wire.PutSignature(buf, 10, p.Signature)
	return buf
}

func decodePing(data []byte) (Ping, error) {
	if len(data) != pingSize {
		return Ping{}, fmt.Errorf("%w: Ping must be %d bytes, got %d", ErrInvalidProtocolMessage, pingSize, len(data))
	}
	return Ping{
		Nonce:                  primitives.Nonce(wire.Uint64BE(data, 1)),
		CurrentProtocolVersion: wire.Uint8(data, 9),
		Signature:              wire.Signature(data, 10),
	}, nil
}

// Pong answers a Ping: cmdid(1) | nonce(8) | signature(65).
type Pong struct {
	Nonce     primitives.Nonce
	Signature primitives.Signature
}

const pongSize = 1 + 8 + primitives.SignatureLength

func (p Pong) CmdID() uint8                      { return CmdIDPong }
func (p Pong) GetSignature() primitives.Signature { return p.Signature }
func (p Pong) DataToSign() []byte                 { return wire.SigningPayload(p.Encode()) }

func (p Pong) Encode() []byte {
	buf := wire.BufferFor(pongSize)
	buf[0] = CmdIDPong
	wire.PutUint64BE(buf, 1, uint64(p.Nonce))
	wire.PutSignature(buf, 9, p.Signature)
	return buf
}

func decodePong(data []byte) (Pong, error) {
	if len(data) != pongSize {
		return Pong{}, fmt.Errorf("%w: Pong must be %d bytes, got %d", ErrInvalidProtocolMessage, pongSize, len(data))
	}
	return Pong{
		Nonce:     primitives.Nonce(wire.Uint64BE(data, 1)),
		Signature: wire.Signature(data, 9),
	}, nil
}

// Processed acknowledges that a message was received and persisted, by
// echoing its message_identifier.
//
// This type deliberately implements Signed but not Retrieable. The Python
// source carries a FIXME on exactly this point ("Processed should _not_ be
// SignedRetrieableMessage, but only SignedMessage"): a Processed message is
// itself the acknowledgement that ends a retry, so treating it as
// retry-queue material would have it trying to acknowledge its own
// acknowledgement.
type Processed struct {
	MessageIdentifier primitives.MessageID
	Signature         primitives.Signature
}

const processedSize = 1 + 8 + primitives.SignatureLength

func (p Processed) CmdID() uint8                      { return CmdIDProcessed }
func (p Processed) GetSignature() primitives.Signature { return p.Signature }
func (p Processed) DataToSign() []byte                 { return wire.SigningPayload(p.Encode()) }

func (p Processed) Encode() []byte {
	buf := wire.BufferFor(processedSize)
	buf[0] = CmdIDProcessed
	wire.PutUint64BE(buf, 1, p.MessageIdentifier)
	wire.PutSignature(buf, 9, p.Signature)
	return buf
}

func decodeProcessed(data []byte) (Processed, error) {
	if len(data) != processedSize {
		return Processed{}, fmt.Errorf("%w: Processed must be %d bytes, got %d", ErrInvalidProtocolMessage, processedSize, len(data))
	}
	return Processed{
		MessageIdentifier: wire.Uint64BE(data, 1),
		Signature:         wire.Signature(data, 9),
	}, nil
}

// ProcessedFromEvent builds an unsigned Processed acknowledging event.
func ProcessedFromEvent(messageIdentifier primitives.MessageID) Processed {
	return Processed{MessageIdentifier: messageIdentifier, Signature: primitives.EmptySignature}
}

// Delivered informs the partner that a message was received *and*
// persisted: cmdid(1) | delivered_message_identifier(8) | signature(65).
type Delivered struct {
	DeliveredMessageIdentifier primitives.MessageID
	Signature                  primitives.Signature
}

const deliveredSize = 1 + 8 + primitives.SignatureLength

func (d Delivered) CmdID() uint8                      { return CmdIDDelivered }
func (d Delivered) GetSignature() primitives.Signature { return d.Signature }
func (d Delivered) DataToSign() []byte                 { return wire.SigningPayload(d.Encode()) }

func (d Delivered) Encode() []byte {
	buf := wire.BufferFor(deliveredSize)
	buf[0] = CmdIDDelivered
	wire.PutUint64BE(buf, 1, d.DeliveredMessageIdentifier)
	wire.PutSignature(buf, 9, d.Signature)
	return buf
}

func decodeDelivered(data []byte) (Delivered, error) {
	if len(data) != deliveredSize {
		return Delivered{}, fmt.Errorf("%w: Delivered must be %d bytes, got %d", ErrInvalidProtocolMessage, deliveredSize, len(data))
	}
	return Delivered{
		DeliveredMessageIdentifier: wire.Uint64BE(data, 1),
		Signature:                  wire.Signature(data, 9),
	}, nil
}

// ToDevice is sent directly to all of a node's known devices, bypassing
// the per-channel room/transport: cmdid(1) | message_identifier(8) |
// signature(65).
type ToDevice struct {
	MessageIdentifier primitives.MessageID
	Signature         primitives.Signature
}

const toDeviceSize = 1 + 8 + primitives.SignatureLength

func (t ToDevice) CmdID() uint8                      { return CmdIDToDevice }
func (t ToDevice) GetSignature() primitives.Signature { return t.Signature }
func (t ToDevice) DataToSign() []byte                 { return wire.SigningPayload(t.Encode()) }

func (t ToDevice) Encode() []byte {
	buf := wire.BufferFor(toDeviceSize)
	buf[0] = CmdIDToDevice
	wire.PutUint64BE(buf, 1, t.MessageIdentifier)
	wire.PutSignature(buf, 9, t.Signature)
	return buf
}

func decodeToDevice(data []byte) (ToDevice, error) {
	if len(data) != toDeviceSize {
		return ToDevice{}, fmt.Errorf("%w: ToDevice must be %d bytes, got %d", ErrInvalidProtocolMessage, toDeviceSize, len(data))
	}
	return ToDevice{
		MessageIdentifier: wire.Uint64BE(data, 1),
		Signature:         wire.Signature(data, 9),
	}, nil
}

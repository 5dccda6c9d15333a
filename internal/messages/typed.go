package messages

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/raiden-go/core/internal/primitives"
)

// classNames maps every decodable "type" tag to a constructor from a
// generic field map. "Secret" is kept as an ingest-only alias for Unlock:
// the field layout is identical, only the historical name differs —
// EncodeDict never emits it, DecodeDict accepts it.
var classNames = map[string]func(map[string]any) (Message, error){
	"Ping":               decodePingDict,
	"Pong":               decodePongDict,
	"Processed":          decodeProcessedDict,
	"Delivered":          decodeDeliveredDict,
	"ToDevice":           decodeToDeviceDict,
	"SecretRequest":      decodeSecretRequestDict,
	"RevealSecret":       decodeRevealSecretDict,
	"Unlock":             decodeUnlockDict,
	"Secret":             decodeUnlockDict,
	"LockedTransfer":     decodeLockedTransferDict,
	"RefundTransfer":     decodeRefundTransferDict,
	"LockExpired":        decodeLockExpiredDict,
}

// DecodeDict is the structured-input counterpart to Decode: it dispatches
// on data["type"] instead of a CMDID byte. Go reference: from_dict.
func DecodeDict(data map[string]any) (Message, error) {
	typeName, ok := data["type"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: missing or non-string \"type\" field", ErrInvalidProtocolMessage)
	}
	ctor, ok := classNames[typeName]
	if !ok {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidProtocolMessage, typeName)
	}
	return ctor(data)
}

// EncodeDict serializes m into the same "type"-tagged map form DecodeDict
// reads, for storage/logging/transport layers that prefer structured data
// to a raw byte string. The canonical name is always used (never the
// "Secret" alias).
func EncodeDict(m Message) (map[string]any, error) {
	switch v := m.(type) {
	case Ping:
		return map[string]any{"type": "Ping", "nonce": v.Nonce, "current_protocol_version": v.CurrentProtocolVersion, "signature": hexEncode(v.Signature.Bytes())}, nil
	case Pong:
		return map[string]any{"type": "Pong", "nonce": v.Nonce, "signature": hexEncode(v.Signature.Bytes())}, nil
	case Processed:
		return map[string]any{"type": "Processed", "message_identifier": v.MessageIdentifier, "signature": hexEncode(v.Signature.Bytes())}, nil
	case Delivered:
		return map[string]any{"type": "Delivered", "delivered_message_identifier": v.DeliveredMessageIdentifier, "signature": hexEncode(v.Signature.Bytes())}, nil
	case ToDevice:
		return map[string]any{"type": "ToDevice", "message_identifier": v.MessageIdentifier, "signature": hexEncode(v.Signature.Bytes())}, nil
	case SecretRequest:
		return map[string]any{
			"type": "SecretRequest", "message_identifier": v.MessageIdentifier, "payment_identifier": v.PaymentIdentifier,
			"secrethash": hexEncode(v.SecretHash.Bytes()), "amount": bigString(v.Amount), "expiration": bigString(v.Expiration),
			"signature": hexEncode(v.Signature.Bytes()),
		}, nil
	case RevealSecret:
		return map[string]any{"type": "RevealSecret", "message_identifier": v.MessageIdentifier, "secret": hexEncode(v.Secret.Bytes()), "signature": hexEncode(v.Signature.Bytes())}, nil
	case Unlock:
		m := envelopeDict(v.envelope)
		m["type"] = "Unlock"
		m["payment_identifier"] = v.PaymentIdentifier
		m["secret"] = hexEncode(v.Secret.Bytes())
		return m, nil
	case LockedTransfer:
		m := envelopeDict(v.envelope)
		m["type"] = "LockedTransfer"
		addLockedTransferBaseDict(m, v.lockedTransferBase)
		m["target"] = hexEncode(v.Target.Bytes())
		m["initiator"] = hexEncode(v.Initiator.Bytes())
		m["fee"] = bigString(v.Fee)
		return m, nil
	case RefundTransfer:
		m, err := EncodeDict(v.LockedTransfer)
		if err != nil {
			return nil, err
		}
		m["type"] = "RefundTransfer"
		return m, nil
	case LockExpired:
		m := envelopeDict(v.envelope)
		m["type"] = "LockExpired"
		m["recipient"] = hexEncode(v.Recipient.Bytes())
		m["secrethash"] = hexEncode(v.SecretHash.Bytes())
		return m, nil
	default:
		return nil, fmt.Errorf("messages: EncodeDict: unsupported type %T", m)
	}
}

func envelopeDict(e envelope) map[string]any {
	return map[string]any{
		"chain_id":              bigString(e.ChainID),
		"message_identifier":    e.MessageIdentifier,
		"nonce":                 e.Nonce,
		"transferred_amount":    bigString(e.TransferredAmount),
		"locked_amount":         bigString(e.LockedAmount),
		"locksroot":             hexEncode(e.Locksroot.Bytes()),
		"channel_identifier":    bigString(e.ChannelIdentifier),
		"token_network_address": hexEncode(e.TokenNetworkAddress.Bytes()),
		"signature":             hexEncode(e.Signature.Bytes()),
	}
}

func addLockedTransferBaseDict(m map[string]any, l lockedTransferBase) {
	m["payment_identifier"] = l.PaymentIdentifier
	m["token"] = hexEncode(l.Token.Bytes())
	m["recipient"] = hexEncode(l.Recipient.Bytes())
	m["lock"] = map[string]any{
		"amount":     bigString(l.Lock.Amount),
		"expiration": bigString(l.Lock.Expiration),
		"secrethash": hexEncode(l.Lock.SecretHash.Bytes()),
	}
}

func hexEncode(b []byte) string { return "0x" + hex.EncodeToString(b) }

func bigString(n *big.Int) string {
	if n == nil {
		return "0"
	}
	return n.String()
}

func hexField(data map[string]any, key string) ([]byte, error) {
	s, ok := data[key].(string)
	if !ok {
		return nil, fmt.Errorf("messages: field %q missing or not a string", key)
	}
	s = trimHexPrefix(s)
	return hex.DecodeString(s)
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

func addressField(data map[string]any, key string) (primitives.Address, error) {
	b, err := hexField(data, key)
	if err != nil {
		return primitives.Address{}, err
	}
	return primitives.AddressFromSlice(b)
}

func hash32Field(data map[string]any, key string) (primitives.Hash32, error) {
	b, err := hexField(data, key)
	if err != nil {
		return primitives.Hash32{}, err
	}
	return primitives.Hash32FromSlice(b)
}

func signatureField(data map[string]any, key string) (primitives.Signature, error) {
	b, err := hexField(data, key)
	if err != nil {
		return primitives.Signature{}, err
	}
	return primitives.SignatureFromSlice(b)
}

func uint64Field(data map[string]any, key string) (uint64, error) {
	switch v := data[key].(type) {
	case uint64:
		return v, nil
	case primitives.Nonce:
		return uint64(v), nil
	case uint8:
		return uint64(v), nil
	case int:
		return uint64(v), nil
	case float64:
		return uint64(v), nil
	default:
		return 0, fmt.Errorf("messages: field %q missing or wrong type", key)
	}
}

func bigField(data map[string]any, key string) (*big.Int, error) {
	s, ok := data[key].(string)
	if !ok {
		return nil, fmt.Errorf("messages: field %q missing or not a string", key)
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("messages: field %q is not a base-10 integer", key)
	}
	return n, nil
}

func decodePingDict(d map[string]any) (Message, error) {
	nonce, err := uint64Field(d, "nonce")
	if err != nil {
		return nil, err
	}
	version, err := uint64Field(d, "current_protocol_version")
	if err != nil {
		return nil, err
	}
	sig, err := signatureField(d, "signature")
	if err != nil {
		return nil, err
	}
	return Ping{Nonce: primitives.Nonce(nonce), CurrentProtocolVersion: uint8(version), Signature: sig}, nil
}

func decodePongDict(d map[string]any) (Message, error) {
	nonce, err := uint64Field(d, "nonce")
	if err != nil {
		return nil, err
	}
	sig, err := signatureField(d, "signature")
	if err != nil {
		return nil, err
	}
	return Pong{Nonce: primitives.Nonce(nonce), Signature: sig}, nil
}

func decodeProcessedDict(d map[string]any) (Message, error) {
	id, err := uint64Field(d, "message_identifier")
	if err != nil {
		return nil, err
	}
	sig, err := signatureField(d, "signature")
	if err != nil {
		return nil, err
	}
	return Processed{MessageIdentifier: id, Signature: sig}, nil
}

func decodeDeliveredDict(d map[string]any) (Message, error) {
	id, err := uint64Field(d, "delivered_message_identifier")
	if err != nil {
		return nil, err
	}
	sig, err := signatureField(d, "signature")
	if err != nil {
		return nil, err
	}
	return Delivered{DeliveredMessageIdentifier: id, Signature: sig}, nil
}

func decodeToDeviceDict(d map[string]any) (Message, error) {
	id, err := uint64Field(d, "message_identifier")
	if err != nil {
		return nil, err
	}
	sig, err := signatureField(d, "signature")
	if err != nil {
		return nil, err
	}
	return ToDevice{MessageIdentifier: id, Signature: sig}, nil
}

func decodeSecretRequestDict(d map[string]any) (Message, error) {
	msgID, err := uint64Field(d, "message_identifier")
	if err != nil {
		return nil, err
	}
	payID, err := uint64Field(d, "payment_identifier")
	if err != nil {
		return nil, err
	}
	secretHash, err := hash32Field(d, "secrethash")
	if err != nil {
		return nil, err
	}
	amount, err := bigField(d, "amount")
	if err != nil {
		return nil, err
	}
	expiration, err := bigField(d, "expiration")
	if err != nil {
		return nil, err
	}
	sig, err := signatureField(d, "signature")
	if err != nil {
		return nil, err
	}
	return SecretRequest{MessageIdentifier: msgID, PaymentIdentifier: payID, SecretHash: secretHash, Amount: amount, Expiration: expiration, Signature: sig}, nil
}

func decodeRevealSecretDict(d map[string]any) (Message, error) {
	msgID, err := uint64Field(d, "message_identifier")
	if err != nil {
		return nil, err
	}
	secret, err := hash32Field(d, "secret")
	if err != nil {
		return nil, err
	}
	sig, err := signatureField(d, "signature")
	if err != nil {
		return nil, err
	}
	return RevealSecret{MessageIdentifier: msgID, Secret: secret, Signature: sig}, nil
}

func decodeEnvelopeDict(d map[string]any) (envelope, error) {
	var e envelope
	chainID, err := bigField(d, "chain_id")
	if err != nil {
		return e, err
	}
	msgID, err := uint64Field(d, "message_identifier")
	if err != nil {
		return e, err
	}
	nonce, err := uint64Field(d, "nonce")
	if err != nil {
		return e, err
	}
	transferred, err := bigField(d, "transferred_amount")
	if err != nil {
		return e, err
	}
	locked, err := bigField(d, "locked_amount")
	if err != nil {
		return e, err
	}
	locksroot, err := hash32Field(d, "locksroot")
	if err != nil {
		return e, err
	}
	channelID, err := bigField(d, "channel_identifier")
	if err != nil {
		return e, err
	}
	tokenNetwork, err := addressField(d, "token_network_address")
	if err != nil {
		return e, err
	}
	sig, err := signatureField(d, "signature")
	if err != nil {
		return e, err
	}
	return envelope{
		ChainID: chainID, MessageIdentifier: msgID, Nonce: primitives.Nonce(nonce),
		TransferredAmount: transferred, LockedAmount: locked, Locksroot: locksroot,
		ChannelIdentifier: channelID, TokenNetworkAddress: tokenNetwork, Signature: sig,
	}, nil
}

func decodeUnlockDict(d map[string]any) (Message, error) {
	e, err := decodeEnvelopeDict(d)
	if err != nil {
		return nil, err
	}
	payID, err := uint64Field(d, "payment_identifier")
	if err != nil {
		return nil, err
	}
	secret, err := hash32Field(d, "secret")
	if err != nil {
		return nil, err
	}
	return Unlock{envelope: e, PaymentIdentifier: payID, Secret: secret}, nil
}

func decodeLockedTransferBaseDict(d map[string]any) (lockedTransferBase, error) {
	e, err := decodeEnvelopeDict(d)
	if err != nil {
		return lockedTransferBase{}, err
	}
	payID, err := uint64Field(d, "payment_identifier")
	if err != nil {
		return lockedTransferBase{}, err
	}
	token, err := addressField(d, "token")
	if err != nil {
		return lockedTransferBase{}, err
	}
	recipient, err := addressField(d, "recipient")
	if err != nil {
		return lockedTransferBase{}, err
	}
	lockData, ok := d["lock"].(map[string]any)
	if !ok {
		return lockedTransferBase{}, fmt.Errorf("messages: field \"lock\" missing or wrong type")
	}
	amount, err := bigField(lockData, "amount")
	if err != nil {
		return lockedTransferBase{}, err
	}
	expiration, err := bigField(lockData, "expiration")
	if err != nil {
		return lockedTransferBase{}, err
	}
	secretHash, err := hash32Field(lockData, "secrethash")
	if err != nil {
		return lockedTransferBase{}, err
	}
	return lockedTransferBase{
		envelope: e, PaymentIdentifier: payID, Token: token, Recipient: recipient,
		Lock: Lock{Amount: amount, Expiration: expiration, SecretHash: secretHash},
	}, nil
}

func decodeLockedTransferDict(d map[string]any) (Message, error) {
	base, err := decodeLockedTransferBaseDict(d)
	if err != nil {
		return nil, err
	}
	target, err := addressField(d, "target")
	if err != nil {
		return nil, err
	}
	initiator, err := addressField(d, "initiator")
	if err != nil {
		return nil, err
	}
	fee, err := bigField(d, "fee")
	if err != nil {
		return nil, err
	}
	return LockedTransfer{lockedTransferBase: base, Target: target, Initiator: initiator, Fee: fee}, nil
}

func decodeRefundTransferDict(d map[string]any) (Message, error) {
	m, err := decodeLockedTransferDict(d)
	if err != nil {
		return nil, err
	}
	return RefundTransfer{LockedTransfer: m.(LockedTransfer)}, nil
}

func decodeLockExpiredDict(d map[string]any) (Message, error) {
	e, err := decodeEnvelopeDict(d)
	if err != nil {
		return nil, err
	}
	recipient, err := addressField(d, "recipient")
	if err != nil {
		return nil, err
	}
	secretHash, err := hash32Field(d, "secrethash")
	if err != nil {
		return nil, err
	}
	return LockExpired{envelope: e, Recipient: recipient, SecretHash: secretHash}, nil
}

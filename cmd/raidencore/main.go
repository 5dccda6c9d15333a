// raidencore demo binary — wires the signer, recovery cache and message
// codec together and shows one round trip: build a LockedTransfer from a
// channel's balance proof, sign it, encode it to wire bytes, decode it
// back, and recover the sender.
//
// Transport, chain observation and persistence are collaborator
// interfaces (internal/collab); this binary holds the panicking stub
// Transport and never calls it, so nothing actually leaves the process.
//
// Go reference: cmd/bot/main.go's skeleton shape — config.Load(), a
// phased startup sequence, graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"encoding/hex"
	"log"
	"math/big"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"

	"github.com/raiden-go/core/internal/collab"
	"github.com/raiden-go/core/internal/config"
	"github.com/raiden-go/core/internal/identifiers"
	"github.com/raiden-go/core/internal/messages"
	"github.com/raiden-go/core/internal/primitives"
	"github.com/raiden-go/core/internal/signer"
	"github.com/raiden-go/core/internal/signercache"
	"github.com/raiden-go/core/internal/transfer"
)

func main() {
	config.Load()
	log.Printf("[raidencore] starting | chain_id=%d dry_run=%v", config.ChainID, config.DryRun)

	if config.PrivateKey == "" {
		log.Println("[raidencore] RAIDEN_PRIVATE_KEY not set — running demo with an ephemeral key")
		config.PrivateKey = ephemeralPrivateKeyHex()
	}

	key, err := signer.ParsePrivateKey(config.PrivateKey)
	if err != nil {
		log.Fatalf("[raidencore] bad private key: %v", err)
	}
	localSigner := signer.NewLocalSigner(key)
	recoveryCache := signercache.New(config.RecoveryCacheSize)

	var transport collab.Transport = collab.NotImplementedTransport{}
	_ = transport // wired once a real Transport is available; the demo below never calls Send

	demoLockedTransferRoundTrip(localSigner, recoveryCache)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	log.Println("[raidencore] demo complete, idling until interrupted")
	<-quit
	log.Println("[raidencore] shutting down")
}

// demoLockedTransferRoundTrip builds one outgoing LockedTransfer event,
// turns it into a signed wire message, decodes it back, and confirms the
// sender recovers to the signer's own address.
func demoLockedTransferRoundTrip(s *signer.LocalSigner, cache *signercache.RecoveryCache) {
	ci := identifiers.CanonicalIdentifier{
		ChainID:             big.NewInt(config.ChainID),
		TokenNetworkAddress: demoAddress(0xaa),
		ChannelIdentifier:   big.NewInt(1),
	}

	bp, err := transfer.NewBalanceProofUnsignedState(
		primitives.Nonce(1),
		big.NewInt(0),
		big.NewInt(0),
		primitives.Locksroot{},
		ci,
	)
	if err != nil {
		log.Fatalf("[raidencore] balance proof: %v", err)
	}

	transferState := transfer.UnsignedTransferState{
		PaymentIdentifier: primitives.PaymentID(demoIdentifier()),
		Token:             demoAddress(0xbb),
		BalanceProof:      bp,
		Lock: transfer.HashTimeLockState{
			Amount:     big.NewInt(1000),
			Expiration: big.NewInt(100),
			SecretHash: primitives.SecretHash{0x01},
		},
		Initiator: demoAddress(0x01),
		Target:    demoAddress(0x02),
	}

	event := transfer.SendLockedTransfer{
		transfer.NewSendMessageEvent(demoAddress(0x02), ci.ChannelIdentifier, primitives.MessageID(demoIdentifier())),
		transferState,
	}

	lockedTransfer, ok := messages.FromSendEvent(event).(messages.LockedTransfer)
	if !ok {
		log.Fatalf("[raidencore] unexpected message type from FromSendEvent")
	}

	sig, err := s.Sign(lockedTransfer.DataToSign())
	if err != nil {
		log.Fatalf("[raidencore] sign: %v", err)
	}
	lockedTransfer.Signature = sig

	wireBytes := lockedTransfer.Encode()
	decoded, err := messages.Decode(wireBytes)
	if err != nil {
		log.Fatalf("[raidencore] decode: %v", err)
	}

	decodedLocked, ok := decoded.(messages.LockedTransfer)
	if !ok {
		log.Fatalf("[raidencore] decoded unexpected type %T", decoded)
	}

	sender, ok := messages.Sender(cache, decodedLocked)
	if !ok || sender != s.Address() {
		log.Fatalf("[raidencore] sender recovery mismatch")
	}

	log.Printf("[raidencore] round trip ok | sender=0x%x payment_id=%d lock_amount=%s",
		sender.Bytes(), decodedLocked.PaymentIdentifier, decodedLocked.Lock.Amount)
}

func demoAddress(fill byte) primitives.Address {
	var a primitives.Address
	for i := range a {
		a[i] = fill
	}
	return a
}

// demoIdentifier produces a pseudo-random uint64 from a fresh UUID, used
// only to give the demo distinct message/payment identifiers across runs.
func demoIdentifier() uint64 {
	id := uuid.New()
	var v uint64
	for _, b := range id[:8] {
		v = v<<8 | uint64(b)
	}
	return v
}

func ephemeralPrivateKeyHex() string {
	key, err := crypto.GenerateKey()
	if err != nil {
		log.Fatalf("[raidencore] generate ephemeral key: %v", err)
	}
	return hex.EncodeToString(crypto.FromECDSA(key))
}

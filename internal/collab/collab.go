// Package collab defines the narrow interfaces this module's state
// machine depends on but does not implement: message transport, chain
// observation, and write-ahead-log persistence. Each is a collaborator a
// real deployment plugs in; this package only pins the contract so
// StateManager.Dispatch (internal/transfer) and the message layer
// (internal/messages) can be exercised against it in tests.
//
// Go reference: the teacher's internal/inventory and internal/onchain/setup.go
// pattern — a small interface plus a stub implementation that panics until
// wired to a real backend.
package collab

import (
	"context"
	"fmt"

	"github.com/raiden-go/core/internal/messages"
	"github.com/raiden-go/core/internal/primitives"
	"github.com/raiden-go/core/internal/transfer"
)

// Transport sends a message to recipient. Delivery is assumed
// at-least-once: the retry queue exists
// because a Transport may redeliver or silently drop and retry.
type Transport interface {
	Send(ctx context.Context, recipient primitives.Address, msg messages.Message) error
}

// ChainObserver watches the chain and emits Block state changes as new
// blocks are mined. It is the state machine's only notion of wall-clock
// time.
type ChainObserver interface {
	Blocks() <-chan transfer.Block
}

// Store is the write-ahead-log / snapshot collaborator the determinism
// contract depends on: persist every dispatched StateChange,
// occasionally snapshot the resulting State, and be able to reconstruct
// "the state as of now" by loading the last snapshot and replaying
// everything after it.
type Store[S transfer.State] interface {
	Append(change transfer.StateChange) error
	Snapshot(state S) error
	LoadLatest() (S, []transfer.StateChange, error)
}

// NotImplementedTransport is a stub satisfying Transport, in the same
// spirit as the teacher's unimplemented collaborators: it panics rather
// than silently pretending to deliver, so wiring a demo binary without a
// real transport fails loudly instead of looking like it worked.
type NotImplementedTransport struct{}

func (NotImplementedTransport) Send(context.Context, primitives.Address, messages.Message) error {
	panic("collab: no Transport wired")
}

// NotImplementedChainObserver is a stub satisfying ChainObserver.
type NotImplementedChainObserver struct{}

func (NotImplementedChainObserver) Blocks() <-chan transfer.Block {
	panic("collab: no ChainObserver wired")
}

// MemoryStore is a minimal in-process Store, useful for tests that need to
// exercise the Append/Snapshot/LoadLatest contract without a real
// database. It keeps only the latest snapshot and the changes appended
// since, matching how a real WAL would be compacted.
type MemoryStore[S transfer.State] struct {
	snapshot S
	hasSnap  bool
	changes  []transfer.StateChange
}

func NewMemoryStore[S transfer.State]() *MemoryStore[S] {
	return &MemoryStore[S]{}
}

func (m *MemoryStore[S]) Append(change transfer.StateChange) error {
	m.changes = append(m.changes, change)
	return nil
}

func (m *MemoryStore[S]) Snapshot(state S) error {
	m.snapshot = state
	m.hasSnap = true
	m.changes = nil
	return nil
}

func (m *MemoryStore[S]) LoadLatest() (S, []transfer.StateChange, error) {
	if !m.hasSnap {
		var zero S
		return zero, nil, fmt.Errorf("collab: no snapshot stored")
	}
	return m.snapshot, m.changes, nil
}

// Package transfer implements the generic, pure state-transition substrate:
// the State/StateChange/Event marker hierarchy, the balance-proof state
// data model, and StateManager itself.
//
// Go reference: original_source/raiden/transfer/architecture.py. The marker
// dataclasses (State, StateChange, Event) become small marker interfaces —
// Go lacks sum types, so exhaustiveness is enforced by the concrete switch
// in each transition function rather than by the compiler, same as any
// closed interface hierarchy in this codebase's teacher pack.
package transfer

// State is implemented by every application state type. It carries no
// behaviour by design: state classes don't have logic, they are pure data
// carriers modified only through StateManager.Dispatch.
type State interface {
	isState()
}

// StateChange is implemented by every incoming state-change type: protocol
// messages ("Receive*"), chain logs ("ContractReceive*"), and other inputs
// ("Action*").
type StateChange interface {
	isStateChange()
}

// Event is implemented by every outgoing event type produced by a
// transition: off-chain messages ("Send*"), on-chain calls
// ("ContractSend*"), and plain notifications.
type Event interface {
	isEvent()
}

// Option holds either a present value of type S or nothing. A sub-task's
// transition function returns None as its new state to tell its parent
// "I am done, drop your reference to me" — the zero value of a concrete
// state type is an ordinary, inhabited state, not an absence signal, so
// presence has to be tracked alongside the value.
type Option[S any] struct {
	value S
	ok    bool
}

// Some wraps a present value.
func Some[S any](value S) Option[S] { return Option[S]{value: value, ok: true} }

// None represents the absence of a value.
func None[S any]() Option[S] { return Option[S]{} }

// Get returns the wrapped value and whether one is present.
func (o Option[S]) Get() (S, bool) { return o.value, o.ok }

// IsNone reports whether the option holds no value.
func (o Option[S]) IsNone() bool { return !o.ok }

// TransitionResult is what a transition function returns: the state after
// applying the change (None to signal a completed sub-task), and the
// events produced, in the order they must be emitted.
type TransitionResult[S any] struct {
	NewState Option[S]
	Events   []Event
}

// TransitionFunc is the pure function τ: (Option<state>, change) ->
// (Option<state>, events) this codebase requires be referentially
// transparent — no wall clock, no randomness, no I/O. StateManager does
// not and cannot enforce this; it is the contract every concrete
// transition function in this codebase commits to, and the one the
// WAL-replay guarantee depends on. current is None before a top-level
// manager has been initialized, or for a sub-task manager that has
// already gone terminal.
type TransitionFunc[S State] func(current Option[S], change StateChange) TransitionResult[S]

// StateManager holds the current application state and advances it one
// StateChange at a time.
//
// Determinism contract: calling Dispatch twice with the same
// (current state, state change) must produce byte-identical results. This
// is what makes write-ahead-log replay sound: load the last snapshot, then
// re-dispatch each persisted StateChange in order.
//
// Immutability discipline: rather than deep-copying the entire state tree
// on every dispatch, S is expected to be used as a persistent value — the
// transition function receives the current state and must return a *new*
// value built by field replacement, never by mutating fields of the value
// it was given. Go's pass-by-value semantics for struct types give "the
// previous state is frozen" for free as long as this discipline is
// honored; StateManager itself performs no copying.
type StateManager[S State] struct {
	transition TransitionFunc[S]
	current    Option[S]
}

// NewStateManager constructs a manager with the given pure transition
// function and initial state.
func NewStateManager[S State](transition TransitionFunc[S], initial S) *StateManager[S] {
	if transition == nil {
		panic("transfer: state_transition must not be nil")
	}
	return &StateManager[S]{transition: transition, current: Some(initial)}
}

// NewUninitializedStateManager constructs a manager whose current state
// starts as None — the top-level shape before any StateChange has run,
// matching a manager that is only initialized by its first dispatch.
func NewUninitializedStateManager[S State](transition TransitionFunc[S]) *StateManager[S] {
	if transition == nil {
		panic("transfer: state_transition must not be nil")
	}
	return &StateManager[S]{transition: transition, current: None[S]()}
}

// Current returns the manager's current state and whether one is present.
// Presence is false before a top-level manager's first dispatch, or after
// a sub-task manager has gone terminal.
func (m *StateManager[S]) Current() (S, bool) {
	return m.current.Get()
}

// Dispatch applies change to the current state and returns the state as it
// was *before* the change (the caller may want it for logging/diffing) and
// the events the transition produced, in order.
//
// Idempotence is the transition function's responsibility, not
// StateManager's: the transport may redeliver a message, so every
// transition must handle a duplicate StateChange by producing the same new
// state and either no events or events the transport has already
// acknowledged.
func (m *StateManager[S]) Dispatch(change StateChange) (previous Option[S], events []Event) {
	previous = m.current

	result := m.transition(m.current, change)

	m.current = result.NewState
	events = result.Events
	if events == nil {
		events = []Event{}
	}

	return previous, events
}

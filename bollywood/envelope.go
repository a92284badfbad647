package bollywood

import "time"

// EnvelopeKind discriminates the three Envelope variants of spec.md §3.
type EnvelopeKind int

const (
	// UserKind wraps an ordinary user payload.
	UserKind EnvelopeKind = iota
	// AskKind wraps a payload expecting a reply within a deadline.
	AskKind
	// SystemKind wraps a runtime control signal (PoisonPill, Terminate).
	SystemKind
)

// SystemSignal enumerates the system-message kinds of spec.md §3.
type SystemSignal int

const (
	// PoisonPill stops the actor cleanly after draining prior messages.
	PoisonPill SystemSignal = iota
	// Terminate stops the actor when it is dequeued, without running the
	// user handler for any message queued behind it. It travels in the
	// same FIFO queue as user messages, so messages queued before it are
	// still processed; the runtime handles it exactly like PoisonPill.
	Terminate
)

// Envelope is the runtime wrapper carried through a Mailbox. Exactly one
// of the Kind-specific fields is meaningful for a given Kind.
type Envelope struct {
	Kind EnvelopeKind

	// UserKind / AskKind
	Payload interface{}
	Sender  *PID

	// AskKind only
	reply    *askHandle
	deadline time.Time

	// SystemKind only
	Signal SystemSignal
}

// NewUserEnvelope builds a fire-and-forget envelope.
func NewUserEnvelope(payload interface{}, sender *PID) Envelope {
	return Envelope{Kind: UserKind, Payload: payload, Sender: sender}
}

// NewSystemEnvelope builds a system control envelope.
func NewSystemEnvelope(signal SystemSignal) Envelope {
	return Envelope{Kind: SystemKind, Signal: signal}
}

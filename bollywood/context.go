package bollywood

// ReceiveResult is the outcome an Actor reports for a processed
// envelope, replacing the source's partial-function dispatch
// (spec.md §9 "Partial-function-based receive").
type ReceiveResult int

const (
	// Handled indicates the message was recognised and processed.
	Handled ReceiveResult = iota
	// Unhandled indicates Receive did not recognise the message; the
	// runtime routes it to the dead-letter queue with reason
	// UnhandledMessage and the actor continues running.
	Unhandled
)

// Actor is the user-defined behaviour driven by the runtime's receive
// loop (C5). Receive is invoked at most once per envelope, never
// concurrently with itself for the same incarnation.
type Actor interface {
	Receive(ctx Context) ReceiveResult
}

// PreStarter is an optional Actor extension run once before the first
// message is processed (and again, as PostRestarter, after a restart).
type PreStarter interface {
	PreStart(ctx Context) error
}

// PostStopper is an optional Actor extension run after the last message
// has been processed and the actor is shutting down. Errors/panics here
// are logged and swallowed; termination proceeds regardless.
type PostStopper interface {
	PostStop(ctx Context)
}

// PreRestarter is an optional Actor extension run on the failing
// incarnation immediately before it is discarded.
type PreRestarter interface {
	PreRestart(ctx Context, reason error)
}

// PostRestarter is an optional Actor extension run on the fresh
// incarnation in place of PreStart after a restart.
type PostRestarter interface {
	PostRestart(ctx Context, reason error) error
}

// Context is the capability handle passed to Receive and the lifecycle
// hooks for one envelope.
type Context interface {
	// System returns the owning ActorSystem.
	System() *ActorSystem
	// Self returns the PID of the actor processing this message.
	Self() PID
	// Sender returns the PID of the actor that sent this message, if
	// the sender identified itself.
	Sender() *PID
	// Message returns the payload being processed.
	Message() interface{}
	// IsAsk reports whether the current envelope expects a reply.
	IsAsk() bool
	// Reply completes the pending ask handle with v. A no-op (beyond
	// the first call, and when the current envelope is not an ask) —
	// first-write-wins semantics, per spec.md §4.6.
	Reply(v interface{})
	// Fail completes the pending ask handle with an error. Same
	// first-write-wins, no-op-beyond-first-call semantics as Reply.
	Fail(err error)
}

// receiveContext is the concrete Context passed into Receive for one envelope.
type receiveContext struct {
	system  *ActorSystem
	self    PID
	sender  *PID
	message interface{}
	reply   *askHandle
}

func (c *receiveContext) System() *ActorSystem  { return c.system }
func (c *receiveContext) Self() PID             { return c.self }
func (c *receiveContext) Sender() *PID          { return c.sender }
func (c *receiveContext) Message() interface{}  { return c.message }
func (c *receiveContext) IsAsk() bool           { return c.reply != nil }

func (c *receiveContext) Reply(v interface{}) {
	if c.reply != nil {
		c.reply.complete(v, nil)
	}
}

func (c *receiveContext) Fail(err error) {
	if c.reply != nil {
		c.reply.complete(nil, err)
	}
}

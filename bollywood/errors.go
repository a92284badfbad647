package bollywood

import "errors"

// Error taxonomy of spec.md §7, item 8 (SystemShuttingDown), plus
// registry/path lookup failures and delivery to a terminated actor, all
// surfaced synchronously to callers by the ActorSystem. ErrMailboxFull
// lives in mailbox.go and ErrAskTimeout in ask.go.
var (
	// ErrSystemShuttingDown is returned by Tell/Ask/ActorOf once
	// ShutdownAwait has begun.
	ErrSystemShuttingDown = errors.New("bollywood: system is shutting down")
	// ErrUnknownProp is returned when no Props is registered for a
	// PropID.
	ErrUnknownProp = errors.New("bollywood: propID not registered")
	// ErrPathConflict is returned by ActorOf when a different propID is
	// already live at the requested path.
	ErrPathConflict = errors.New("bollywood: path already live with a different propID")
	// ErrDeliveryToTerminated is returned by Tell/Ask when the target
	// actor's process has already terminated; the message is also
	// recorded as a dead letter.
	ErrDeliveryToTerminated = errors.New("bollywood: delivery to terminated actor")
)

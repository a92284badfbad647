package bollywood

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"
)

// SystemOption configures an ActorSystem built by NewActorSystem,
// corresponding to the builder table of spec.md §6.
type SystemOption func(*ActorSystem)

// WithLogger sets the Logger lifecycle events are reported to. Default
// is a no-op logger.
func WithLogger(l Logger) SystemOption {
	return func(s *ActorSystem) { s.logger = l }
}

// WithDeadLetterCapacity sets the size of the dead-letter ring.
// Default 10,000.
func WithDeadLetterCapacity(n int) SystemOption {
	return func(s *ActorSystem) { s.deadLetters = NewDeadLetterQueue(n) }
}

// WithDefaultMailbox sets the mailbox factory used by Props built with
// NewProps and no explicit WithMailbox option. Default is unbounded.
func WithDefaultMailbox(factory MailboxFactory) SystemOption {
	return func(s *ActorSystem) { s.defaultMailboxFactory = factory }
}

// WithShutdownTimeout sets the default timeout ShutdownAwait(0) uses.
// Default 30s.
func WithShutdownTimeout(d time.Duration) SystemOption {
	return func(s *ActorSystem) { s.shutdownTimeout = d }
}

// ActorSystem is the top-level container of spec.md §4.8 (C8): it owns
// the Props registry, the live-actor map, the dead-letter ring, and
// shutdown coordination.
type ActorSystem struct {
	mu           sync.RWMutex
	props        *PropsRegistry
	actors       map[string]*process // keyed by pidKey(pid)
	actorsByPath map[string]PID      // keyed by path.String()

	deadLetters           *DeadLetterQueue
	logger                Logger
	defaultMailboxFactory MailboxFactory
	shutdownTimeout       time.Duration

	rootCtx    context.Context
	rootCancel context.CancelFunc
	shutdown   atomic.Bool
}

// NewActorSystem builds a ready-to-use ActorSystem.
func NewActorSystem(opts ...SystemOption) *ActorSystem {
	ctx, cancel := context.WithCancel(context.Background())
	s := &ActorSystem{
		props:                 NewPropsRegistry(),
		actors:                make(map[string]*process),
		actorsByPath:          make(map[string]PID),
		deadLetters:           NewDeadLetterQueue(10_000),
		logger:                noopLogger{},
		defaultMailboxFactory: NewUnboundedMailbox,
		shutdownTimeout:       30 * time.Second,
		rootCtx:               ctx,
		rootCancel:            cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterProp populates the Props registry (C3). Must be called
// before Tell/Ask/ActorOf targeting propID. If props has no explicit
// MailboxFactory (nil, or the unbounded default NewProps fills in), the
// system's configured default is substituted. An explicit
// WithMailbox(NewUnboundedMailbox) cannot be told apart from that
// default and is substituted as well.
func (s *ActorSystem) RegisterProp(propID PropID, props *Props) error {
	if props.MailboxFactory == nil ||
		reflect.ValueOf(props.MailboxFactory).Pointer() == reflect.ValueOf(MailboxFactory(NewUnboundedMailbox)).Pointer() {
		props.MailboxFactory = s.defaultMailboxFactory
	}
	if props.Supervisor == nil {
		props.Supervisor = StopStrategy()
	}
	return s.props.Register(propID, props)
}

// IsShutdown reports whether ShutdownAwait has begun.
func (s *ActorSystem) IsShutdown() bool { return s.shutdown.Load() }

// ActorOf force-creates the actor at path bound to propID, returning
// its existing PID if one with the same propID is already live there,
// and ErrPathConflict if a different propID is live at that path.
func (s *ActorSystem) ActorOf(path Path, propID PropID) (PID, error) {
	if s.IsShutdown() {
		return PID{}, ErrSystemShuttingDown
	}

	s.mu.Lock()
	if existing, ok := s.actorsByPath[path.String()]; ok {
		s.mu.Unlock()
		if existing.PropID != propID {
			return PID{}, fmt.Errorf("%w: %s", ErrPathConflict, path)
		}
		return existing, nil
	}

	props, ok := s.props.Lookup(propID)
	if !ok {
		s.mu.Unlock()
		return PID{}, fmt.Errorf("%w: %s", ErrUnknownProp, propID)
	}

	pid := PID{Path: path, PropID: propID}
	proc := newProcess(s, pid, props)
	s.actors[pidKey(pid)] = proc
	s.actorsByPath[path.String()] = pid
	s.mu.Unlock()

	go proc.run()
	return pid, nil
}

func (s *ActorSystem) lookupProcess(pid PID) (*process, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.actors[pidKey(pid)]
	return p, ok
}

func (s *ActorSystem) removeProcess(pid PID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.actors, pidKey(pid))
	if cur, ok := s.actorsByPath[pid.Path.String()]; ok && cur.Equal(pid) {
		delete(s.actorsByPath, pid.Path.String())
	}
}

// Tell resolves/lazily-creates the actor of propID at path and enqueues
// msg as a fire-and-forget UserMessage.
func (s *ActorSystem) Tell(path Path, propID PropID, msg interface{}) error {
	return s.TellFrom(path, propID, msg, nil)
}

// TellFrom is Tell with an explicit sender identity attached to the
// envelope.
func (s *ActorSystem) TellFrom(path Path, propID PropID, msg interface{}, sender *PID) error {
	if s.IsShutdown() {
		return ErrSystemShuttingDown
	}
	pid, err := s.ActorOf(path, propID)
	if err != nil {
		return err
	}
	return s.TellPID(pid, msg, sender)
}

// TellPID sends to an already-resolved PID without lazily creating it;
// a PID whose process is no longer live is recorded as a dead letter.
func (s *ActorSystem) TellPID(pid PID, msg interface{}, sender *PID) error {
	if s.IsShutdown() {
		return ErrSystemShuttingDown
	}
	proc, ok := s.lookupProcess(pid)
	if !ok {
		s.recordDeadLetter(msg, pid, ReasonDeliveryToTerminated)
		return ErrDeliveryToTerminated
	}

	err := proc.mailbox.Put(proc.ctx, NewUserEnvelope(msg, sender))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrMailboxFull):
		s.recordDeadLetter(msg, pid, ReasonMailboxFull)
		return ErrMailboxFull
	case errors.Is(err, ErrMailboxClosed):
		s.recordDeadLetter(msg, pid, ReasonDeliveryToTerminated)
		return ErrDeliveryToTerminated
	default:
		return err
	}
}

// Ask resolves/lazily-creates the actor of propID at path and sends msg
// as an AskMessage, returning an AsyncResult that completes with the
// receiver's reply, its failure, or ErrAskTimeout.
func (s *ActorSystem) Ask(path Path, propID PropID, msg interface{}, timeout time.Duration) (*AsyncResult, error) {
	if s.IsShutdown() {
		return nil, ErrSystemShuttingDown
	}
	pid, err := s.ActorOf(path, propID)
	if err != nil {
		return nil, err
	}
	return s.AskPID(pid, msg, nil, timeout)
}

// AskPID is Ask against an already-resolved PID.
func (s *ActorSystem) AskPID(pid PID, msg interface{}, sender *PID, timeout time.Duration) (*AsyncResult, error) {
	if s.IsShutdown() {
		return nil, ErrSystemShuttingDown
	}
	proc, ok := s.lookupProcess(pid)
	if !ok {
		s.recordDeadLetter(msg, pid, ReasonDeliveryToTerminated)
		return nil, ErrDeliveryToTerminated
	}

	handle := newAskHandle(timeout)
	result := &AsyncResult{id: newAskCorrelationID(), handle: handle}
	env := Envelope{
		Kind:     AskKind,
		Payload:  msg,
		Sender:   sender,
		reply:    handle,
		deadline: time.Now().Add(timeout),
	}

	err := proc.mailbox.Put(proc.ctx, env)
	switch {
	case err == nil:
		return result, nil
	case errors.Is(err, ErrMailboxFull):
		s.recordDeadLetter(msg, pid, ReasonMailboxFull)
		handle.complete(nil, ErrMailboxFull)
		return result, ErrMailboxFull
	case errors.Is(err, ErrMailboxClosed):
		s.recordDeadLetter(msg, pid, ReasonDeliveryToTerminated)
		handle.complete(nil, ErrDeliveryToTerminated)
		return result, ErrDeliveryToTerminated
	default:
		handle.complete(nil, err)
		return result, err
	}
}

// Stop requests a clean shutdown of a single actor: its mailbox drains
// whatever is already queued, then the process exits, without affecting
// the rest of the system. A PID with no live process is a no-op.
func (s *ActorSystem) Stop(pid PID) error {
	proc, ok := s.lookupProcess(pid)
	if !ok {
		return nil
	}
	proc.mailbox.Offer(NewSystemEnvelope(PoisonPill))
	return nil
}

// ActorSelection resolves a path string to a live ActorRef, with no
// wildcard matching.
func (s *ActorSystem) ActorSelection(pathString string) (PID, bool) {
	path, err := ParsePath(pathString)
	if err != nil {
		return PID{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	pid, ok := s.actorsByPath[path.String()]
	return pid, ok
}

// Children enumerates the live descendant paths under path (strict
// descendants; path itself is excluded).
func (s *ActorSystem) Children(path Path) []PID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []PID
	for _, pid := range s.actorsByPath {
		if pid.Path.Equal(path) {
			continue
		}
		if pid.Path.IsDescendantOf(path) {
			out = append(out, pid)
		}
	}
	return out
}

// DeadLetters returns a snapshot of up to limit of the most recent dead
// letters.
func (s *ActorSystem) DeadLetters(limit int) []DeadLetter {
	return s.deadLetters.Recent(limit)
}

func (s *ActorSystem) recordDeadLetter(msg interface{}, pid PID, reason DeadLetterReason) {
	s.deadLetters.record(DeadLetter{
		Message:   msg,
		Recipient: pid,
		Instant:   time.Now(),
		Reason:    reason,
	})
}

// ShutdownAwait sets the shutdown flag (rejecting new Tell/Ask/ActorOf
// synchronously), enqueues a PoisonPill to every live actor, and waits
// up to timeout for the live-actor map to empty. Stragglers past the
// deadline are force-terminated by cancelling their workers' context.
// Returns whether every actor terminated within timeout.
func (s *ActorSystem) ShutdownAwait(timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = s.shutdownTimeout
	}
	s.shutdown.Store(true)

	for _, proc := range s.snapshotProcesses() {
		proc.mailbox.Offer(NewSystemEnvelope(PoisonPill))
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if s.liveCount() == 0 {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	if s.liveCount() == 0 {
		return true
	}

	for _, proc := range s.snapshotProcesses() {
		proc.forceTerminate()
	}

	forceDeadline := time.Now().Add(time.Second)
	for time.Now().Before(forceDeadline) {
		if s.liveCount() == 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func (s *ActorSystem) snapshotProcesses() []*process {
	s.mu.RLock()
	defer s.mu.RUnlock()
	procs := make([]*process, 0, len(s.actors))
	for _, p := range s.actors {
		procs = append(procs, p)
	}
	return procs
}

func (s *ActorSystem) liveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.actors)
}

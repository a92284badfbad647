package bollywood

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// initRestartCap bounds consecutive instantiation failures (factory,
// PreStart, PostRestart all count) before the incarnation is forced to
// Stop regardless of the configured strategy, preventing an
// infinite restart-on-init storm (spec.md §4.4).
const initRestartCap = 10

type loopReason int

const (
	reasonStopRequested loopReason = iota
	reasonFailed
)

type loopExit struct {
	reason loopReason
	err    error
}

// process is the running instance of one actor path+propID binding: one
// goroutine drives its receive loop across however many incarnations a
// supervisor strategy produces. The mailbox is created once and
// survives every restart, per spec.md §3's ownership invariant.
type process struct {
	system  *ActorSystem
	pid     PID
	props   *Props
	mailbox Mailbox

	actor       Actor
	incarnation int
	started     bool
	initFails   int
	backoff     BackoffState
	lastErr     error

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func newProcess(system *ActorSystem, pid PID, props *Props) *process {
	ctx, cancel := context.WithCancel(system.rootCtx)
	return &process{
		system:  system,
		pid:     pid,
		props:   props,
		mailbox: props.MailboxFactory(),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
}

func (p *process) supervisor() SupervisorStrategy { return p.props.Supervisor }

// run drives the full lifecycle of the process: repeated
// instantiate/receiveLoop cycles until a Stop directive, a clean
// PoisonPill/Terminate, or forced cancellation ends it.
func (p *process) run() {
	defer func() {
		p.system.removeProcess(p.pid)
		close(p.done)
	}()

	for {
		wasStarted := p.started
		if err := p.instantiate(); err != nil {
			p.initFails++
			logActorFailed(p.system.logger, p.pid, err)

			directive := p.supervisor().Decide(err)
			if directive == DirectiveStop || p.initFails > initRestartCap {
				p.drainToDeadLetters(ReasonShutdownInFlight)
				logActorTerminated(p.system.logger, p.pid)
				return
			}
			if directive == DirectiveRestartBackoff {
				if p.sleepBackoff() {
					p.drainToDeadLetters(ReasonShutdownInFlight)
					logActorTerminated(p.system.logger, p.pid)
					return
				}
			}
			continue
		}
		p.initFails = 0
		if !wasStarted {
			logActorStarted(p.system.logger, p.pid)
		} else {
			logActorRestarted(p.system.logger, p.pid, p.lastErr)
		}

		exit := p.receiveLoop()
		if exit.reason == reasonStopRequested {
			p.runPostStop()
			p.drainToDeadLetters(ReasonShutdownInFlight)
			logActorStopped(p.system.logger, p.pid)
			logActorTerminated(p.system.logger, p.pid)
			return
		}

		p.lastErr = exit.err
		logActorFailed(p.system.logger, p.pid, exit.err)
		directive := p.supervisor().Decide(exit.err)
		p.runPreRestart(exit.err)

		switch directive {
		case DirectiveStop:
			p.runPostStop()
			p.drainToDeadLetters(ReasonShutdownInFlight)
			logActorTerminated(p.system.logger, p.pid)
			return
		case DirectiveRestartBackoff:
			if p.sleepBackoff() {
				p.runPostStop()
				p.drainToDeadLetters(ReasonShutdownInFlight)
				logActorTerminated(p.system.logger, p.pid)
				return
			}
		}
		// DirectiveRestart (and a non-exceeded RestartBackoff) loop
		// back to instantiate(), which recreates the actor and keeps
		// the same mailbox.
	}
}

// instantiate builds a fresh actor instance and runs PreStart (the
// first time this process ever reaches Running) or PostRestart (every
// subsequent time). Which hook applies is decided by p.started, not by
// the raw attempt counter p.incarnation: a failing PreStart/PostRestart
// still bumps p.incarnation on its retry, but must not have advanced
// past the PreStart branch, since the actor never actually started.
func (p *process) instantiate() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("bollywood: panic constructing actor: %v", r)
		}
	}()

	actor := p.props.Producer()
	if actor == nil {
		return errors.New("bollywood: producer returned nil actor")
	}
	p.actor = actor
	p.incarnation++
	hookCtx := &receiveContext{system: p.system, self: p.pid}

	if !p.started {
		if ps, ok := actor.(PreStarter); ok {
			if err := ps.PreStart(hookCtx); err != nil {
				return err
			}
		}
		p.started = true
		return nil
	}
	if pr, ok := actor.(PostRestarter); ok {
		return pr.PostRestart(hookCtx, p.lastErr)
	}
	return nil
}

// receiveLoop dequeues and dispatches envelopes until told to stop or
// until Receive fails.
func (p *process) receiveLoop() loopExit {
	for {
		e, err := p.mailbox.Take(p.ctx)
		if err != nil {
			return loopExit{reason: reasonStopRequested}
		}

		switch e.Kind {
		case SystemKind:
			return loopExit{reason: reasonStopRequested}
		case AskKind:
			if time.Now().After(e.deadline) {
				p.system.recordDeadLetter(e.Payload, p.pid, ReasonAskExpired)
				continue
			}
			if failed, ferr := p.invoke(e); failed {
				return loopExit{reason: reasonFailed, err: ferr}
			}
		default:
			if failed, ferr := p.invoke(e); failed {
				return loopExit{reason: reasonFailed, err: ferr}
			}
		}
	}
}

// invoke calls Receive for one envelope with panic recovery. A panic
// is reported as a ReceiveFailure; an Unhandled result is routed to
// the dead-letter queue without failing the actor.
func (p *process) invoke(e Envelope) (failed bool, ferr error) {
	ctx := &receiveContext{
		system:  p.system,
		self:    p.pid,
		sender:  e.Sender,
		message: e.Payload,
		reply:   e.reply,
	}
	defer func() {
		if r := recover(); r != nil {
			failed = true
			ferr = fmt.Errorf("bollywood: panic in Receive(%T): %v", e.Payload, r)
		}
	}()

	result := p.actor.Receive(ctx)
	if result == Unhandled {
		p.system.recordDeadLetter(e.Payload, p.pid, ReasonUnhandledMessage)
	}
	return false, nil
}

func (p *process) runPreRestart(err error) {
	defer func() { recover() }()
	pr, ok := p.actor.(PreRestarter)
	if !ok {
		return
	}
	hookCtx := &receiveContext{system: p.system, self: p.pid}
	pr.PreRestart(hookCtx, err)
}

func (p *process) runPostStop() {
	defer func() { recover() }()
	ps, ok := p.actor.(PostStopper)
	if !ok {
		return
	}
	hookCtx := &receiveContext{system: p.system, self: p.pid}
	ps.PostStop(hookCtx)
}

// sleepBackoff advances the backoff state and sleeps the computed
// delay. It returns true once the configured retry cap is exceeded,
// signalling the caller to escalate to Stop.
func (p *process) sleepBackoff() bool {
	cfg := p.supervisor().backoffConfig()
	if cfg == nil {
		return false
	}
	delay, exceeded := p.backoff.advance(*cfg, time.Now())
	if exceeded {
		return true
	}
	select {
	case <-time.After(delay):
	case <-p.ctx.Done():
	}
	return false
}

// drainToDeadLetters empties the mailbox, recording every remaining
// envelope with reason, then closes the mailbox so further
// Offer/Put fail.
func (p *process) drainToDeadLetters(reason DeadLetterReason) {
	p.mailbox.DrainTo(func(e Envelope) {
		if e.Kind == AskKind && e.reply != nil {
			e.reply.complete(nil, ErrAskTimeout)
		}
		p.system.recordDeadLetter(e.Payload, p.pid, reason)
	})
	p.mailbox.Close()
}

// forceTerminate interrupts a blocked Take, used by
// ActorSystem.ShutdownAwait once its deadline has passed.
func (p *process) forceTerminate() {
	p.cancel()
}

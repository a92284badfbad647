package eventbus

import (
	"context"
	"fmt"

	"github.com/lguibr/pongohive/bollywood"
)

// subscription is the bus-internal bookkeeping for one Subscribe call:
// its own mailbox and worker goroutine, mirroring the per-actor process
// discipline of package bollywood — one envelope dispatched at a time,
// never reentrant.
type subscription struct {
	id         string
	topic      string
	predicate  func(Envelope) bool
	subscriber Subscriber
	mailbox    bollywood.Mailbox

	ctx    context.Context
	cancel context.CancelFunc
}

func (s *subscription) matches(env Envelope) bool {
	if s.topic != AnyTopic && s.topic != env.Topic {
		return false
	}
	if s.predicate != nil && !s.predicate(env) {
		return false
	}
	return true
}

func (s *subscription) run() {
	for {
		e, err := s.mailbox.Take(s.ctx)
		if err != nil {
			return
		}
		env, ok := e.Payload.(Envelope)
		if !ok {
			continue
		}
		s.dispatch(env)
	}
}

func (s *subscription) dispatch(env Envelope) {
	defer func() {
		if r := recover(); r != nil {
			s.reportError(fmt.Errorf("eventbus: panic in OnMessage: %v", r), env)
		}
	}()
	s.subscriber.OnMessage(env)
}

func (s *subscription) reportError(err error, env Envelope) {
	defer func() { recover() }()
	if eh, ok := s.subscriber.(ErrorHandler); ok {
		eh.OnError(err, env)
	}
}

func (s *subscription) stop() {
	s.cancel()
	s.mailbox.Close()
}

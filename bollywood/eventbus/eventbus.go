// Package eventbus implements the topic-keyed publish/subscribe bus of
// spec.md §4.9 (C9). It is an independent component from the actor
// runtime in package bollywood, but reuses bollywood.Mailbox as its
// per-subscriber queue and follows the same cooperative single-worker
// discipline as an actor's receive loop.
package eventbus

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/lguibr/pongohive/bollywood"
)

// AnyTopic subscribes to every published topic.
const AnyTopic = ""

// Envelope is the payload delivered to a subscriber's OnMessage.
type Envelope struct {
	Topic   string
	Payload interface{}
}

// Subscriber is the contract a bus consumer implements (spec.md §4.9).
type Subscriber interface {
	OnMessage(env Envelope)
}

// ErrorHandler is optionally implemented by a Subscriber to observe
// panics raised from its own OnMessage. Panics inside OnError are
// swallowed.
type ErrorHandler interface {
	OnError(err error, env Envelope)
}

// PublishErrorHandler observes a publish that could not be delivered to
// one subscriber because its mailbox was full. The default is a no-op.
type PublishErrorHandler func(err error, env Envelope, subscriptionID string)

// BusOption configures a Bus built by NewBus.
type BusOption func(*Bus)

// WithPublishErrorHandler overrides the default no-op onPublishError
// callback.
func WithPublishErrorHandler(h PublishErrorHandler) BusOption {
	return func(b *Bus) { b.onPublishError = h }
}

// WithSubscriberMailboxCapacity overrides the default bounded mailbox
// capacity (256) each new subscription is given.
func WithSubscriberMailboxCapacity(n int) BusOption {
	return func(b *Bus) { b.mailboxCapacity = n }
}

// Bus is the publish/subscribe event bus (C9).
type Bus struct {
	mu              sync.RWMutex
	subs            map[string]*subscription
	onPublishError  PublishErrorHandler
	mailboxCapacity int
}

// NewBus builds an empty Bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{
		subs:            make(map[string]*subscription),
		onPublishError:  func(error, Envelope, string) {},
		mailboxCapacity: 256,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SubscribeOption configures one Subscribe call.
type SubscribeOption func(*subscription)

// WithTopic restricts delivery to an exact topic match. Default is
// AnyTopic.
func WithTopic(topic string) SubscribeOption {
	return func(s *subscription) { s.topic = topic }
}

// WithPredicate adds a pure payload predicate; only envelopes for which
// it returns true are delivered. Combines with WithTopic via AND.
func WithPredicate(pred func(Envelope) bool) SubscribeOption {
	return func(s *subscription) { s.predicate = pred }
}

// Subscribe registers sub for delivery, starting its own worker and
// mailbox, and returns a handle identifying the subscription.
func (b *Bus) Subscribe(sub Subscriber, opts ...SubscribeOption) *Subscription {
	ctx, cancel := context.WithCancel(context.Background())
	s := &subscription{
		id:         uuid.NewString(),
		topic:      AnyTopic,
		subscriber: sub,
		mailbox:    bollywood.NewBoundedMailbox(b.mailboxCapacity, bollywood.Fail),
		ctx:        ctx,
		cancel:     cancel,
	}
	for _, opt := range opts {
		opt(s)
	}

	b.mu.Lock()
	b.subs[s.id] = s
	b.mu.Unlock()

	go s.run()
	return &Subscription{id: s.id, bus: b}
}

// Unsubscribe stops and removes the subscription, returning false if
// id is unknown (including a repeated call — idempotent).
func (b *Bus) Unsubscribe(id string) bool {
	b.mu.Lock()
	s, ok := b.subs[id]
	if ok {
		delete(b.subs, id)
	}
	b.mu.Unlock()
	if !ok {
		return false
	}
	s.stop()
	return true
}

// Publish enqueues payload into every subscription whose topic filter
// and payload predicate both match. Non-blocking: a subscriber with a
// full mailbox has onPublishError invoked and is skipped, publication
// continues with the rest.
func (b *Bus) Publish(topic string, payload interface{}) {
	env := Envelope{Topic: topic, Payload: payload}

	b.mu.RLock()
	subs := make([]*subscription, 0, len(b.subs))
	for _, s := range b.subs {
		subs = append(subs, s)
	}
	b.mu.RUnlock()

	for _, s := range subs {
		if !s.matches(env) {
			continue
		}
		if !s.mailbox.Offer(bollywood.NewUserEnvelope(env, nil)) {
			b.onPublishError(bollywood.ErrMailboxFull, env, s.id)
		}
	}
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	id  string
	bus *Bus
}

// ID returns the subscription's correlation id.
func (s *Subscription) ID() string { return s.id }

// Close stops the subscriber's worker and unsubscribes it. Idempotent.
func (s *Subscription) Close() bool { return s.bus.Unsubscribe(s.id) }

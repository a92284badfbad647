package eventbus

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSubscriber struct {
	mu       sync.Mutex
	received []Envelope
	errs     []error
}

func (s *recordingSubscriber) OnMessage(env Envelope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.received = append(s.received, env)
}

func (s *recordingSubscriber) OnError(err error, env Envelope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = append(s.errs, err)
}

func (s *recordingSubscriber) snapshot() []Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Envelope, len(s.received))
	copy(out, s.received)
	return out
}

func TestBus_PublishDeliversToAnyTopicSubscriber(t *testing.T) {
	bus := NewBus()
	sub := &recordingSubscriber{}
	bus.Subscribe(sub)

	bus.Publish("room.created", "payload-1")

	require.Eventually(t, func() bool { return len(sub.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	got := sub.snapshot()[0]
	assert.Equal(t, "room.created", got.Topic)
	assert.Equal(t, "payload-1", got.Payload)
}

func TestBus_SubscribeWithTopicFiltersOtherTopics(t *testing.T) {
	bus := NewBus()
	sub := &recordingSubscriber{}
	bus.Subscribe(sub, WithTopic("room.created"))

	bus.Publish("room.destroyed", "ignored")
	bus.Publish("room.created", "kept")

	require.Eventually(t, func() bool { return len(sub.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "kept", sub.snapshot()[0].Payload)
}

func TestBus_SubscribeWithPredicate(t *testing.T) {
	bus := NewBus()
	sub := &recordingSubscriber{}
	bus.Subscribe(sub, WithPredicate(func(env Envelope) bool {
		n, ok := env.Payload.(int)
		return ok && n > 10
	}))

	bus.Publish("numbers", 3)
	bus.Publish("numbers", 42)

	require.Eventually(t, func() bool { return len(sub.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 42, sub.snapshot()[0].Payload)
}

func TestBus_UnsubscribeIsIdempotent(t *testing.T) {
	bus := NewBus()
	sub := &recordingSubscriber{}
	handle := bus.Subscribe(sub)

	assert.True(t, handle.Close())
	assert.False(t, handle.Close(), "a second Close is a no-op")

	bus.Publish(AnyTopic, "after-unsubscribe")
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, sub.snapshot())
}

func TestBus_PublishErrorHandlerInvokedOnFullMailbox(t *testing.T) {
	var mu sync.Mutex
	var failures int

	bus := NewBus(
		WithSubscriberMailboxCapacity(1),
		WithPublishErrorHandler(func(err error, env Envelope, subscriptionID string) {
			mu.Lock()
			failures++
			mu.Unlock()
		}),
	)

	blocking := &blockingSubscriber{release: make(chan struct{})}
	bus.Subscribe(blocking)

	for i := 0; i < 5; i++ {
		bus.Publish("t", i)
	}
	close(blocking.release)

	mu.Lock()
	defer mu.Unlock()
	assert.Greater(t, failures, 0, "at least one publish should have found the mailbox full")
}

// blockingSubscriber holds up its worker until release is closed, so
// the bus's bounded mailbox fills up behind it.
type blockingSubscriber struct {
	release chan struct{}
}

func (b *blockingSubscriber) OnMessage(Envelope) {
	<-b.release
}

func TestBus_PanicInOnMessageReportedToErrorHandler(t *testing.T) {
	sub := &panickingSubscriber{done: make(chan error, 1)}
	bus := NewBus()
	bus.Subscribe(sub)

	bus.Publish(AnyTopic, "trigger")

	select {
	case err := <-sub.done:
		assert.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("OnError was never invoked")
	}
}

type panickingSubscriber struct {
	done chan error
}

func (p *panickingSubscriber) OnMessage(Envelope) {
	panic("boom")
}

func (p *panickingSubscriber) OnError(err error, env Envelope) {
	p.done <- err
}

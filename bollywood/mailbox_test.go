package bollywood

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnboundedMailbox_OfferAndTake(t *testing.T) {
	mb := NewUnboundedMailbox()
	for i := 0; i < 100; i++ {
		assert.True(t, mb.Offer(NewUserEnvelope(i, nil)))
	}
	assert.Equal(t, 100, mb.Len())

	for i := 0; i < 100; i++ {
		e, err := mb.Take(context.Background())
		require.NoError(t, err)
		assert.Equal(t, i, e.Payload)
	}
}

func TestBoundedMailbox_FailPolicy(t *testing.T) {
	mb := NewBoundedMailbox(2, Fail)
	assert.True(t, mb.Offer(NewUserEnvelope(1, nil)))
	assert.True(t, mb.Offer(NewUserEnvelope(2, nil)))
	assert.False(t, mb.Offer(NewUserEnvelope(3, nil)), "third offer exceeds capacity")

	err := mb.Put(context.Background(), NewUserEnvelope(3, nil))
	assert.ErrorIs(t, err, ErrMailboxFull)
}

func TestBoundedMailbox_DropNewestPolicy(t *testing.T) {
	mb := NewBoundedMailbox(1, DropNewest)
	require.NoError(t, mb.Put(context.Background(), NewUserEnvelope("first", nil)))
	require.NoError(t, mb.Put(context.Background(), NewUserEnvelope("second", nil)))

	e, err := mb.Take(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", e.Payload, "DropNewest keeps what is already queued")
}

func TestBoundedMailbox_BlockPolicyUnblocksOnDrain(t *testing.T) {
	mb := NewBoundedMailbox(1, Block)
	require.NoError(t, mb.Put(context.Background(), NewUserEnvelope("a", nil)))

	putDone := make(chan error, 1)
	go func() {
		putDone <- mb.Put(context.Background(), NewUserEnvelope("b", nil))
	}()

	select {
	case <-putDone:
		t.Fatal("Put should block while the mailbox is full")
	case <-time.After(50 * time.Millisecond):
	}

	_, err := mb.Take(context.Background())
	require.NoError(t, err)

	select {
	case err := <-putDone:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Put should unblock once capacity frees up")
	}
}

func TestBoundedMailbox_BlockPolicyCancelledByContext(t *testing.T) {
	mb := NewBoundedMailbox(1, Block)
	require.NoError(t, mb.Put(context.Background(), NewUserEnvelope("a", nil)))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := mb.Put(ctx, NewUserEnvelope("b", nil))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMailbox_CloseRejectsFurtherOfferAndDrainsTake(t *testing.T) {
	mb := NewUnboundedMailbox()
	require.NoError(t, mb.Put(context.Background(), NewUserEnvelope("queued", nil)))
	mb.Close()

	assert.False(t, mb.Offer(NewUserEnvelope("late", nil)))
	assert.ErrorIs(t, mb.Put(context.Background(), NewUserEnvelope("late", nil)), ErrMailboxClosed)

	e, err := mb.Take(context.Background())
	require.NoError(t, err, "a queued envelope is still delivered after Close")
	assert.Equal(t, "queued", e.Payload)

	_, err = mb.Take(context.Background())
	assert.ErrorIs(t, err, ErrMailboxClosed)
}

func TestMailbox_DrainTo(t *testing.T) {
	mb := NewUnboundedMailbox()
	for i := 0; i < 5; i++ {
		require.True(t, mb.Offer(NewUserEnvelope(i, nil)))
	}

	var drained []interface{}
	mb.DrainTo(func(e Envelope) { drained = append(drained, e.Payload) })

	assert.Equal(t, []interface{}{0, 1, 2, 3, 4}, drained)
	assert.Equal(t, 0, mb.Len())
}

func TestMailbox_TakeCancelledByContext(t *testing.T) {
	mb := NewUnboundedMailbox()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := mb.Take(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

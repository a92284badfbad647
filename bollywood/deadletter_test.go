package bollywood

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeadLetterQueue_RecentNewestFirst(t *testing.T) {
	q := NewDeadLetterQueue(10)
	pid := PID{Path: RootPath(), PropID: "x"}

	for i := 0; i < 3; i++ {
		q.record(DeadLetter{Message: i, Recipient: pid, Instant: time.Now(), Reason: ReasonUnhandledMessage})
	}

	recent := q.Recent(0)
	assert.Equal(t, []interface{}{2, 1, 0}, messagesOf(recent))
}

func TestDeadLetterQueue_WrapsAtCapacity(t *testing.T) {
	q := NewDeadLetterQueue(3)
	pid := PID{Path: RootPath(), PropID: "x"}

	for i := 0; i < 5; i++ {
		q.record(DeadLetter{Message: i, Recipient: pid, Instant: time.Now(), Reason: ReasonMailboxFull})
	}

	recent := q.Recent(10)
	assert.Len(t, recent, 3, "ring never exceeds its configured capacity")
	assert.Equal(t, []interface{}{4, 3, 2}, messagesOf(recent))
}

func TestDeadLetterQueue_RecentRespectsLimit(t *testing.T) {
	q := NewDeadLetterQueue(10)
	pid := PID{Path: RootPath(), PropID: "x"}
	for i := 0; i < 5; i++ {
		q.record(DeadLetter{Message: i, Recipient: pid, Instant: time.Now(), Reason: ReasonAskExpired})
	}

	assert.Len(t, q.Recent(2), 2)
}

func TestDeadLetterReason_String(t *testing.T) {
	assert.Equal(t, "UnhandledMessage", ReasonUnhandledMessage.String())
	assert.Equal(t, "AskExpired", ReasonAskExpired.String())
}

func messagesOf(letters []DeadLetter) []interface{} {
	out := make([]interface{}, len(letters))
	for i, l := range letters {
		out[i] = l.Message
	}
	return out
}

package bollywood

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskHandle_CompleteIsFirstWriteWins(t *testing.T) {
	h := newAskHandle(time.Second)
	h.complete("first", nil)
	h.complete("second", errors.New("ignored"))

	result := &AsyncResult{handle: h}
	v, err := result.Wait()
	require.NoError(t, err)
	assert.Equal(t, "first", v)
}

func TestAsyncResult_WaitReturnsErrAskTimeout(t *testing.T) {
	h := newAskHandle(20 * time.Millisecond)
	result := &AsyncResult{handle: h}

	v, err := result.Wait()
	assert.Nil(t, v)
	assert.ErrorIs(t, err, ErrAskTimeout)
}

func TestAsyncResult_AwaitCancelledByContext(t *testing.T) {
	h := newAskHandle(time.Second)
	result := &AsyncResult{handle: h}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	v, err := result.Await(ctx)
	assert.Nil(t, v)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewAskCorrelationID_Unique(t *testing.T) {
	a := newAskCorrelationID()
	b := newAskCorrelationID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

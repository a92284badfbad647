package bollywood

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopActor struct{}

func (noopActor) Receive(Context) ReceiveResult { return Handled }

func producerA() Actor { return noopActor{} }
func producerB() Actor { return noopActor{} }

func TestNewProps_Defaults(t *testing.T) {
	p := NewProps(producerA)
	assert.NotNil(t, p.MailboxFactory)
	assert.Equal(t, StopStrategy(), p.Supervisor)
}

func TestNewProps_NilProducerPanics(t *testing.T) {
	assert.Panics(t, func() { NewProps(nil) })
}

func TestPropsRegistry_RegisterIsIdempotent(t *testing.T) {
	r := NewPropsRegistry()
	p1 := NewProps(producerA)
	p2 := NewProps(producerA)

	require.NoError(t, r.Register("counter", p1))
	require.NoError(t, r.Register("counter", p2), "same producer function re-registered is a no-op")

	got, ok := r.Lookup("counter")
	require.True(t, ok)
	assert.NotNil(t, got)
}

func TestPropsRegistry_RegisterConflict(t *testing.T) {
	r := NewPropsRegistry()
	require.NoError(t, r.Register("counter", NewProps(producerA)))

	err := r.Register("counter", NewProps(producerB))
	assert.ErrorIs(t, err, ErrPropConflict)
}

func TestPropsRegistry_LookupUnknown(t *testing.T) {
	r := NewPropsRegistry()
	_, ok := r.Lookup("missing")
	assert.False(t, ok)
}

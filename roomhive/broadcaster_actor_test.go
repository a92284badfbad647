package roomhive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lguibr/pongohive/bollywood"
)

func TestBroadcasterActor_BroadcastWithNoClientsIsANoop(t *testing.T) {
	sys := newTestSystem(t)
	propID := broadcasterPropID("b1")
	require.NoError(t, sys.RegisterProp(propID, bollywood.NewProps(NewBroadcasterProducer(bollywood.PID{}))))
	pid, err := sys.ActorOf(bollywood.RootPath().Child("b1"), propID)
	require.NoError(t, err)

	err = sys.TellPID(pid, broadcastCommand{Message: InfoMessage{Topic: "t", Kind: "k"}}, nil)
	assert.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
}

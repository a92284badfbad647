package roomhive

import (
	"fmt"
	"runtime/debug"
	"strings"
	"sync"

	"golang.org/x/net/websocket"

	"github.com/lguibr/pongohive/bollywood"
)

// addClient registers a connection with the BroadcasterActor.
type addClient struct{ Conn *websocket.Conn }

// removeClient unregisters a connection.
type removeClient struct{ Conn *websocket.Conn }

// broadcastCommand asks the broadcaster to fan out msg to every
// registered client.
type broadcastCommand struct{ Message InfoMessage }

// BroadcasterActor owns the live websocket connections for one room and
// fans out InfoMessages to them, mirroring
// game/broadcaster_actor.go generalized past a Pong-specific payload.
type BroadcasterActor struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
	selfPID bollywood.PID
	roomPID bollywood.PID
}

// NewBroadcasterProducer builds a Producer for BroadcasterActor. roomPID
// is told ClientDisconnected for each connection whose write fails with
// a closed-connection error; other send errors are only logged, and
// teardown (PostStop) closes connections without telling roomPID.
func NewBroadcasterProducer(roomPID bollywood.PID) bollywood.Producer {
	return func() bollywood.Actor {
		return &BroadcasterActor{
			clients: make(map[*websocket.Conn]bool),
			roomPID: roomPID,
		}
	}
}

func (a *BroadcasterActor) Receive(ctx bollywood.Context) bollywood.ReceiveResult {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("PANIC recovered in BroadcasterActor %s: %v\n%s\n", a.selfPID, r, debug.Stack())
		}
	}()
	a.selfPID = ctx.Self()

	switch msg := ctx.Message().(type) {
	case addClient:
		if msg.Conn != nil {
			a.mu.Lock()
			a.clients[msg.Conn] = true
			a.mu.Unlock()
		}
	case removeClient:
		if msg.Conn != nil {
			a.mu.Lock()
			delete(a.clients, msg.Conn)
			a.mu.Unlock()
		}
	case broadcastCommand:
		a.broadcast(ctx, msg.Message)
	default:
		return bollywood.Unhandled
	}
	return bollywood.Handled
}

func (a *BroadcasterActor) broadcast(ctx bollywood.Context, info InfoMessage) {
	a.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(a.clients))
	for c := range a.clients {
		conns = append(conns, c)
	}
	a.mu.RUnlock()
	if len(conns) == 0 {
		return
	}

	var dead []*websocket.Conn
	for _, ws := range conns {
		if err := websocket.JSON.Send(ws, info); err != nil {
			if isClosedConnErr(err) {
				dead = append(dead, ws)
			} else {
				fmt.Printf("BroadcasterActor %s: send error to %s: %v\n", a.selfPID, ws.RemoteAddr(), err)
			}
		}
	}
	if len(dead) > 0 {
		a.dropAndNotify(ctx, dead)
	}
}

func (a *BroadcasterActor) dropAndNotify(ctx bollywood.Context, dead []*websocket.Conn) {
	a.mu.Lock()
	for _, ws := range dead {
		delete(a.clients, ws)
	}
	a.mu.Unlock()

	for _, ws := range dead {
		_ = ws.Close()
		ctx.System().TellPID(a.roomPID, ClientDisconnected{Conn: ws}, &a.selfPID)
	}
}

func isClosedConnErr(err error) bool {
	s := err.Error()
	return strings.Contains(s, "use of closed network connection") ||
		strings.Contains(s, "broken pipe") ||
		strings.Contains(s, "connection reset by peer") ||
		strings.Contains(s, "EOF")
}

// PostStop closes every remaining connection when the broadcaster is
// torn down (room shutting down or being reaped).
func (a *BroadcasterActor) PostStop(ctx bollywood.Context) {
	a.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(a.clients))
	for c := range a.clients {
		conns = append(conns, c)
	}
	a.clients = make(map[*websocket.Conn]bool)
	a.mu.Unlock()

	for _, ws := range conns {
		_ = ws.Close()
	}
}

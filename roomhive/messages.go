// Package roomhive is a demo consumer of the bollywood actor runtime:
// an actor-per-room presence/chat system, generalized from the
// teacher's per-room game loop without the ball/paddle physics.
package roomhive

import (
	"io"
	"net"
)

// ClientConn is the interface RoomActor needs from a client
// connection, allowing a real *websocket.Conn or a test double
// interchangeably. BroadcasterActor works on *websocket.Conn only;
// RoomActor hands it just the connections of that type.
type ClientConn interface {
	io.ReadWriteCloser
	RemoteAddr() net.Addr
}

// Mount is sent (via Ask) when a client attaches to a room. The room
// replies with an InfoMessage carrying its current roster.
type Mount struct {
	Topic   string
	Session string
	Conn    ClientConn
}

// ClientEvent carries one inbound payload from a mounted client,
// broadcast to the rest of the room as an InfoMessage.
type ClientEvent struct {
	Session string
	Payload interface{}
}

// InfoMessage is the generic outbound envelope a room broadcasts to its
// clients — the stand-in for the teacher's GameUpdatesBatch/
// GameOverMessage family, generalized past any one payload shape.
type InfoMessage struct {
	Topic   string
	Kind    string
	Payload interface{}
}

// ClientDisconnected is sent (by the broadcaster, on a failed write, or
// by the connection's own read loop) once a client's connection is
// gone. Session is set when the sender already knows it; otherwise the
// room resolves it from Conn.
type ClientDisconnected struct {
	Session string
	Conn    ClientConn
}

// FindRoomRequest is sent to the DirectoryActor (via Ask) to resolve or
// lazily create the room for topic.
type FindRoomRequest struct {
	Topic string
}

// FindRoomResponse answers a FindRoomRequest with the resolved room
// path string, suitable for an ActorSystem.ActorSelection lookup.
type FindRoomResponse struct {
	RoomPath string
}

// RoomEmpty is sent by a RoomActor to the DirectoryActor once its last
// session disconnects, so the directory can reap and stop it.
type RoomEmpty struct {
	Topic string
}

// addClient/removeClient/broadcastCommand are internal to the
// RoomActor<->BroadcasterActor pair, defined in broadcaster_actor.go.

// heartbeatTick drives a room's periodic presence broadcast, the
// generalized stand-in for the teacher's GameTick/internalTick.
type heartbeatTick struct{}

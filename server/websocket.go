package server

import (
	"fmt"
	"io"
	"path"
	"runtime/debug"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/lguibr/pongohive/bollywood"
	"github.com/lguibr/pongohive/roomhive"
)

// HandleSubscribe upgrades the connection, resolves/creates the room
// named by the trailing path segment (".../subscribe/<topic>"), mounts
// the connection into it, and runs a read loop forwarding decoded JSON
// payloads as ClientEvents until the connection closes. Grounded on the
// teacher's simpler server/server.go readLoop plus the lifecycle
// bookkeeping of server/connection_handler.go, collapsed into one
// goroutine per connection since roomhive's RoomActor already owns all
// the state a per-connection actor would otherwise need to mirror.
func (s *Server) HandleSubscribe() func(ws *websocket.Conn) {
	return func(ws *websocket.Conn) {
		connAddr := ws.RemoteAddr().String()
		defer func() {
			if r := recover(); r != nil {
				fmt.Printf("PANIC recovered in HandleSubscribe for %s: %v\n%s\n", connAddr, r, debug.Stack())
			}
			_ = ws.Close()
		}()

		topic := topicFromPath(ws.Request().URL.Path)
		session := uuid.NewString()

		roomPID, err := s.resolveRoom(topic)
		if err != nil {
			fmt.Printf("HandleSubscribe: failed to resolve room %q for %s: %v\n", topic, connAddr, err)
			return
		}

		result, err := s.system.AskPID(roomPID, roomhive.Mount{Topic: topic, Session: session, Conn: ws}, nil, s.askTimeout)
		if err != nil {
			fmt.Printf("HandleSubscribe: mount failed for %s: %v\n", connAddr, err)
			return
		}
		if _, err := result.Wait(); err != nil {
			fmt.Printf("HandleSubscribe: mount rejected for %s: %v\n", connAddr, err)
			return
		}

		s.trackConn(ws)
		defer s.untrackConn(ws)
		defer s.system.TellPID(roomPID, roomhive.ClientDisconnected{Session: session, Conn: ws}, nil)

		s.readLoop(ws, roomPID, session)
	}
}

func (s *Server) readLoop(ws *websocket.Conn, roomPID bollywood.PID, session string) {
	for {
		var payload interface{}
		if err := websocket.JSON.Receive(ws, &payload); err != nil {
			if err != io.EOF {
				fmt.Printf("readLoop: receive error from %s: %v\n", ws.RemoteAddr(), err)
			}
			return
		}
		s.system.TellPID(roomPID, roomhive.ClientEvent{Session: session, Payload: payload}, nil)
	}
}

func (s *Server) resolveRoom(topic string) (bollywood.PID, error) {
	result, err := s.system.AskPID(s.directoryPID, roomhive.FindRoomRequest{Topic: topic}, nil, s.askTimeout)
	if err != nil {
		return bollywood.PID{}, err
	}
	v, err := result.Wait()
	if err != nil {
		return bollywood.PID{}, err
	}
	resp := v.(roomhive.FindRoomResponse)
	pid, ok := s.system.ActorSelection(resp.RoomPath)
	if !ok {
		return bollywood.PID{}, fmt.Errorf("server: room %q not found after creation", topic)
	}
	return pid, nil
}

func topicFromPath(p string) string {
	topic := strings.TrimPrefix(path.Base(p), "/")
	if topic == "" || topic == "subscribe" {
		return "lobby"
	}
	return topic
}

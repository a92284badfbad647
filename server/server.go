// Package server wires an HTTP + WebSocket front end around a
// roomhive-backed bollywood.ActorSystem, grounded on the teacher's
// server/server.go + server/connection_handler.go.
package server

import (
	"sync"
	"time"

	"golang.org/x/net/websocket"

	"github.com/lguibr/pongohive/bollywood"
	"github.com/lguibr/pongohive/roomhive"
)

// Server owns the live ActorSystem and the DirectoryActor PID every
// incoming connection is routed through.
type Server struct {
	system       *bollywood.ActorSystem
	directoryPID bollywood.PID
	askTimeout   time.Duration

	mu    sync.RWMutex
	conns map[*websocket.Conn]bool
}

// New builds a Server around an already-running ActorSystem whose
// DirectoryActor has been spawned at directoryPID.
func New(system *bollywood.ActorSystem, directoryPID bollywood.PID, askTimeout time.Duration) *Server {
	if askTimeout <= 0 {
		askTimeout = 2 * time.Second
	}
	return &Server{
		system:       system,
		directoryPID: directoryPID,
		askTimeout:   askTimeout,
		conns:        make(map[*websocket.Conn]bool),
	}
}

func (s *Server) trackConn(ws *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[ws] = true
}

func (s *Server) untrackConn(ws *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, ws)
}

// ConnectionCount reports how many WebSocket connections are currently
// tracked, for the health-check/diagnostics handler.
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conns)
}

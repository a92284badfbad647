package roomhive

import (
	"fmt"
	"runtime/debug"
	"time"

	"golang.org/x/net/websocket"

	"github.com/lguibr/pongohive/bollywood"
)

// roomActorPropIDPrefix namespaces the per-topic PropIDs RoomActor
// instances are registered under. Each room's Producer closes over
// topic-specific state, so (unlike a stateless actor class) it needs a
// PropID of its own rather than one shared constant — reusing one
// PropID across topics would make PropsRegistry.Register's idempotent
// check silently keep the first topic's closure.
const roomActorPropIDPrefix = "roomhive.room:"

// broadcasterPropIDPrefix is the same namespacing for per-room
// BroadcasterActor instances.
const broadcasterPropIDPrefix = "roomhive.broadcaster:"

func roomPropID(topic string) bollywood.PropID {
	return bollywood.PropID(roomActorPropIDPrefix + topic)
}

func broadcasterPropID(topic string) bollywood.PropID {
	return bollywood.PropID(broadcasterPropIDPrefix + topic)
}

type session struct {
	conn ClientConn
}

// RoomActor is one topic's live room: the set of mounted client
// sessions and the heartbeat that keeps presence broadcasts flowing.
// Grounded on game/game_actor.go + game_actor_lifecycle.go, trimmed of
// ball/paddle physics.
type RoomActor struct {
	topic        string
	directoryPID bollywood.PID
	heartbeat    time.Duration

	selfPID        bollywood.PID
	broadcasterPID bollywood.PID

	sessions      map[string]*session
	sessionByConn map[ClientConn]string

	stopHeartbeat chan struct{}
}

// NewRoomActorProducer builds a Producer for RoomActor. heartbeat is
// the period between presence broadcasts once at least one client is
// mounted; zero disables the heartbeat.
func NewRoomActorProducer(topic string, directoryPID bollywood.PID, heartbeat time.Duration) bollywood.Producer {
	return func() bollywood.Actor {
		return &RoomActor{
			topic:         topic,
			directoryPID:  directoryPID,
			heartbeat:     heartbeat,
			sessions:      make(map[string]*session),
			sessionByConn: make(map[ClientConn]string),
		}
	}
}

func (a *RoomActor) PreStart(ctx bollywood.Context) error {
	a.selfPID = ctx.Self()
	propID := broadcasterPropID(a.topic)
	broadcasterProps := bollywood.NewProps(NewBroadcasterProducer(a.selfPID))
	if err := ctx.System().RegisterProp(propID, broadcasterProps); err != nil {
		return fmt.Errorf("roomhive: room %s failed to register broadcaster props: %w", a.topic, err)
	}
	pid, err := ctx.System().ActorOf(a.selfPID.Path.Child("broadcaster"), propID)
	if err != nil {
		return fmt.Errorf("roomhive: room %s failed to spawn broadcaster: %w", a.topic, err)
	}
	a.broadcasterPID = pid
	a.startHeartbeat(ctx)
	return nil
}

func (a *RoomActor) PostRestart(ctx bollywood.Context, reason error) error {
	return a.PreStart(ctx)
}

func (a *RoomActor) PostStop(ctx bollywood.Context) {
	a.stopHeartbeatTicker()
	if !a.broadcasterPID.Equal(bollywood.PID{}) {
		ctx.System().Stop(a.broadcasterPID)
	}
}

func (a *RoomActor) startHeartbeat(ctx bollywood.Context) {
	if a.heartbeat <= 0 {
		return
	}
	a.stopHeartbeatTicker()
	stop := make(chan struct{})
	a.stopHeartbeat = stop

	system := ctx.System()
	self := a.selfPID
	go func() {
		ticker := time.NewTicker(a.heartbeat)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if system.IsShutdown() {
					return
				}
				system.TellPID(self, heartbeatTick{}, nil)
			}
		}
	}()
}

func (a *RoomActor) stopHeartbeatTicker() {
	if a.stopHeartbeat != nil {
		close(a.stopHeartbeat)
		a.stopHeartbeat = nil
	}
}

func (a *RoomActor) Receive(ctx bollywood.Context) bollywood.ReceiveResult {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("PANIC recovered in RoomActor %s: %v\n%s\n", a.selfPID, r, debug.Stack())
			if ctx.IsAsk() {
				ctx.Fail(fmt.Errorf("roomhive: room panicked: %v", r))
			}
			panic(r)
		}
	}()

	switch msg := ctx.Message().(type) {
	case Mount:
		a.handleMount(ctx, msg)
	case ClientEvent:
		a.handleClientEvent(ctx, msg)
	case ClientDisconnected:
		a.handleDisconnect(ctx, msg)
	case heartbeatTick:
		a.handleHeartbeat(ctx)
	default:
		return bollywood.Unhandled
	}
	return bollywood.Handled
}

func (a *RoomActor) handleMount(ctx bollywood.Context, msg Mount) {
	a.sessions[msg.Session] = &session{conn: msg.Conn}
	a.sessionByConn[msg.Conn] = msg.Session
	if ws, ok := msg.Conn.(*websocket.Conn); ok {
		ctx.System().TellPID(a.broadcasterPID, addClient{Conn: ws}, &a.selfPID)
	}

	ctx.Reply(InfoMessage{
		Topic:   a.topic,
		Kind:    "roster",
		Payload: a.roster(),
	})
	a.broadcastPresence(ctx, "joined", msg.Session)
}

func (a *RoomActor) handleClientEvent(ctx bollywood.Context, msg ClientEvent) {
	if _, ok := a.sessions[msg.Session]; !ok {
		return
	}
	ctx.System().TellPID(a.broadcasterPID, broadcastCommand{Message: InfoMessage{
		Topic:   a.topic,
		Kind:    "event",
		Payload: msg,
	}}, &a.selfPID)
}

func (a *RoomActor) handleDisconnect(ctx bollywood.Context, msg ClientDisconnected) {
	session := msg.Session
	if session == "" && msg.Conn != nil {
		session = a.sessionByConn[msg.Conn]
	}
	if session == "" {
		return
	}
	s := a.sessions[session]
	if s == nil {
		return
	}
	delete(a.sessions, session)
	delete(a.sessionByConn, s.conn)
	if ws, ok := s.conn.(*websocket.Conn); ok {
		ctx.System().TellPID(a.broadcasterPID, removeClient{Conn: ws}, &a.selfPID)
	}
	a.broadcastPresence(ctx, "left", session)

	if len(a.sessions) == 0 {
		ctx.System().TellPID(a.directoryPID, RoomEmpty{Topic: a.topic}, &a.selfPID)
	}
}

func (a *RoomActor) handleHeartbeat(ctx bollywood.Context) {
	if len(a.sessions) == 0 {
		return
	}
	ctx.System().TellPID(a.broadcasterPID, broadcastCommand{Message: InfoMessage{
		Topic:   a.topic,
		Kind:    "heartbeat",
		Payload: a.roster(),
	}}, &a.selfPID)
}

func (a *RoomActor) broadcastPresence(ctx bollywood.Context, kind, session string) {
	ctx.System().TellPID(a.broadcasterPID, broadcastCommand{Message: InfoMessage{
		Topic:   a.topic,
		Kind:    kind,
		Payload: session,
	}}, &a.selfPID)
}

func (a *RoomActor) roster() []string {
	out := make([]string, 0, len(a.sessions))
	for id := range a.sessions {
		out = append(out, id)
	}
	return out
}

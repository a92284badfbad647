package roomhive

import (
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/lguibr/pongohive/bollywood"
)

// DirectoryActorPropID is the PropID DirectoryActor is registered under.
const DirectoryActorPropID bollywood.PropID = "roomhive.directory"

// RoomSupervision tunes the backoff strategy every room a DirectoryActor
// spawns is supervised with.
type RoomSupervision struct {
	BackoffMin time.Duration
	BackoffMax time.Duration
	MaxRetries int
	ResetAfter time.Duration
}

// DefaultRoomSupervision mirrors the teacher's own restart tolerance for
// a single malfunctioning room: a handful of quick backed-off retries
// before giving up on it for good.
func DefaultRoomSupervision() RoomSupervision {
	return RoomSupervision{
		BackoffMin: 100 * time.Millisecond,
		BackoffMax: 5 * time.Second,
		MaxRetries: 5,
		ResetAfter: time.Minute,
	}
}

// DirectoryActor supervises the set of live rooms, lazily spawning one
// RoomActor per topic and reaping them once empty. Grounded on
// game/room_manager.go, generalized past a fixed room capacity model.
type DirectoryActor struct {
	heartbeat   time.Duration
	supervision RoomSupervision

	mu      sync.RWMutex
	rooms   map[string]bollywood.PID
	selfPID bollywood.PID
}

// NewDirectoryActorProducer builds a Producer for DirectoryActor.
// heartbeat is passed through to every room it spawns; rooms are
// supervised per DefaultRoomSupervision.
func NewDirectoryActorProducer(heartbeat time.Duration) bollywood.Producer {
	return NewDirectoryActorProducerWithSupervision(heartbeat, DefaultRoomSupervision())
}

// NewDirectoryActorProducerWithSupervision is NewDirectoryActorProducer
// with an explicit RoomSupervision override.
func NewDirectoryActorProducerWithSupervision(heartbeat time.Duration, supervision RoomSupervision) bollywood.Producer {
	return func() bollywood.Actor {
		return &DirectoryActor{
			heartbeat:   heartbeat,
			supervision: supervision,
			rooms:       make(map[string]bollywood.PID),
		}
	}
}

func (a *DirectoryActor) PreStart(ctx bollywood.Context) error {
	a.selfPID = ctx.Self()
	return nil
}

func (a *DirectoryActor) Receive(ctx bollywood.Context) bollywood.ReceiveResult {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("PANIC recovered in DirectoryActor %s: %v\n%s\n", a.selfPID, r, debug.Stack())
			if ctx.IsAsk() {
				ctx.Fail(fmt.Errorf("roomhive: directory panicked: %v", r))
			}
			panic(r)
		}
	}()

	switch msg := ctx.Message().(type) {
	case FindRoomRequest:
		a.handleFindRoom(ctx, msg)
	case RoomEmpty:
		a.handleRoomEmpty(ctx, msg)
	default:
		return bollywood.Unhandled
	}
	return bollywood.Handled
}

func (a *DirectoryActor) handleFindRoom(ctx bollywood.Context, msg FindRoomRequest) {
	pid, err := a.resolveOrSpawnRoom(msg.Topic, ctx)
	if err != nil {
		ctx.Fail(err)
		return
	}
	ctx.Reply(FindRoomResponse{RoomPath: pid.Path.String()})
}

// resolveOrSpawnRoom returns the live PID for topic, lazily registering
// and spawning a RoomActor if none exists yet. a.mu is held only around
// the map/registration bookkeeping, via defer so a panic partway
// through still releases it.
func (a *DirectoryActor) resolveOrSpawnRoom(topic string, ctx bollywood.Context) (bollywood.PID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if pid, ok := a.rooms[topic]; ok {
		return pid, nil
	}

	propID := roomPropID(topic)
	props := bollywood.NewProps(
		NewRoomActorProducer(topic, a.selfPID, a.heartbeat),
		bollywood.WithSupervisor(bollywood.RestartWithBackoff(
			a.supervision.BackoffMin, a.supervision.BackoffMax,
			bollywood.WithMaxRetries(a.supervision.MaxRetries),
			bollywood.WithResetAfter(a.supervision.ResetAfter),
		)),
	)
	if err := ctx.System().RegisterProp(propID, props); err != nil {
		return bollywood.PID{}, fmt.Errorf("roomhive: failed to register room %s: %w", topic, err)
	}

	path := a.selfPID.Path.Child(topic)
	pid, err := ctx.System().ActorOf(path, propID)
	if err != nil {
		return bollywood.PID{}, fmt.Errorf("roomhive: failed to spawn room %s: %w", topic, err)
	}
	a.rooms[topic] = pid
	return pid, nil
}

func (a *DirectoryActor) handleRoomEmpty(ctx bollywood.Context, msg RoomEmpty) {
	a.mu.Lock()
	pid, ok := a.rooms[msg.Topic]
	if ok {
		delete(a.rooms, msg.Topic)
	}
	a.mu.Unlock()
	if ok {
		ctx.System().Stop(pid)
	}
}

package bollywood

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// Producer is a pure zero-arg factory creating a new Actor instance.
// State injection for stateful actors (e.g. a pre-constructed
// collaborator instance) happens by closing over it at registration
// time, exactly as the teacher's NewPaddleActorProducer /
// NewBroadcasterProducer pattern does.
type Producer func() Actor

// MailboxFactory builds the Mailbox a newly spawned actor incarnation
// will own. Mailboxes are configured per PropID at registration time.
type MailboxFactory func() Mailbox

// Props is the configuration bundle the Props registry (C3) maps a
// PropID to: how to build the actor, how to build its mailbox, and how
// to supervise it.
type Props struct {
	Producer       Producer
	MailboxFactory MailboxFactory
	Supervisor     SupervisorStrategy
}

// PropsOption customises a Props value built by NewProps.
type PropsOption func(*Props)

// WithMailbox overrides the default unbounded mailbox factory.
func WithMailbox(factory MailboxFactory) PropsOption {
	return func(p *Props) { p.MailboxFactory = factory }
}

// WithSupervisor overrides the default Stop strategy.
func WithSupervisor(strategy SupervisorStrategy) PropsOption {
	return func(p *Props) { p.Supervisor = strategy }
}

// NewProps builds a Props value from a Producer and options. Missing
// MailboxFactory/Supervisor default to an unbounded mailbox and the
// Stop strategy respectively.
func NewProps(producer Producer, opts ...PropsOption) *Props {
	if producer == nil {
		panic("bollywood: producer cannot be nil")
	}
	p := &Props{
		Producer:       producer,
		MailboxFactory: NewUnboundedMailbox,
		Supervisor:     StopStrategy(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ErrPropConflict is returned by Register when a PropID is already
// registered with a materially different factory signature.
var ErrPropConflict = errors.New("bollywood: propID already registered with a different factory")

// PropsRegistry binds PropIDs to Props. register(propId, factory,
// mailboxFactory) of spec.md §4.3: idempotent on a re-registration with
// an identical signature, failing otherwise.
type PropsRegistry struct {
	mu      sync.RWMutex
	entries map[PropID]registryEntry
}

type registryEntry struct {
	props     *Props
	signature string
}

// NewPropsRegistry returns an empty registry.
func NewPropsRegistry() *PropsRegistry {
	return &PropsRegistry{entries: make(map[PropID]registryEntry)}
}

// propSignature approximates "identical factory signature" by the
// underlying function pointer of the producer plus the supervisor's
// dynamic type; two independently-built but behaviourally identical
// Props for the same call site compare equal, while a genuinely
// different producer does not.
func propSignature(p *Props) string {
	return fmt.Sprintf("%v|%s", reflect.ValueOf(p.Producer).Pointer(), reflect.TypeOf(p.Supervisor))
}

// Register binds id to props. A second call with the same id and an
// identical signature is a no-op; a differing signature returns
// ErrPropConflict.
func (r *PropsRegistry) Register(id PropID, props *Props) error {
	sig := propSignature(props)

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.entries[id]
	if !ok {
		r.entries[id] = registryEntry{props: props, signature: sig}
		return nil
	}
	if existing.signature == sig {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrPropConflict, id)
}

// Lookup returns the Props bound to id, if any.
func (r *PropsRegistry) Lookup(id PropID) (*Props, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return e.props, true
}

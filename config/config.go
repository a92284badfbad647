// Package config holds every tunable parameter for the ActorSystem and
// the roomhive consumer in one flat struct, the way the teacher's
// utils/config.go keeps engine and game-domain tuning together.
package config

import (
	"time"

	"github.com/lguibr/pongohive/bollywood"
)

// Config holds all configurable runtime parameters.
type Config struct {
	// HTTP
	Port string `json:"port"`

	// ActorSystem
	DeadLetterCapacity     int                      `json:"deadLetterCapacity"`
	DefaultMailboxPolicy   bollywood.OverflowPolicy `json:"defaultMailboxPolicy"`
	DefaultMailboxCapacity int                      `json:"defaultMailboxCapacity"` // 0 means unbounded
	ShutdownTimeout        time.Duration            `json:"shutdownTimeout"`

	// Roomhive
	RoomHeartbeatPeriod time.Duration `json:"roomHeartbeatPeriod"`
	AskTimeout          time.Duration `json:"askTimeout"`
	RoomMaxRetries      int           `json:"roomMaxRetries"`
	RoomBackoffMin      time.Duration `json:"roomBackoffMin"`
	RoomBackoffMax      time.Duration `json:"roomBackoffMax"`
}

// DefaultConfig returns production-sized defaults.
func DefaultConfig() Config {
	return Config{
		Port: "8080",

		DeadLetterCapacity:     10_000,
		DefaultMailboxPolicy:   bollywood.Block,
		DefaultMailboxCapacity: 0,
		ShutdownTimeout:        30 * time.Second,

		RoomHeartbeatPeriod: 5 * time.Second,
		AskTimeout:          2 * time.Second,
		RoomMaxRetries:      5,
		RoomBackoffMin:      100 * time.Millisecond,
		RoomBackoffMax:      5 * time.Second,
	}
}

// FastTestConfig returns a configuration tuned for quick test settling
// (short heartbeats and timeouts), mirroring the teacher's pattern of a
// second, faster Config variant for tests.
func FastTestConfig() Config {
	cfg := DefaultConfig()
	cfg.RoomHeartbeatPeriod = 20 * time.Millisecond
	cfg.AskTimeout = 200 * time.Millisecond
	cfg.ShutdownTimeout = time.Second
	return cfg
}

// MailboxFactory builds the default mailbox factory described by this
// Config, for use with bollywood.WithDefaultMailbox.
func (c Config) MailboxFactory() bollywood.MailboxFactory {
	if c.DefaultMailboxCapacity <= 0 {
		return bollywood.NewUnboundedMailbox
	}
	capacity := c.DefaultMailboxCapacity
	policy := c.DefaultMailboxPolicy
	return func() bollywood.Mailbox {
		return bollywood.NewBoundedMailbox(capacity, policy)
	}
}

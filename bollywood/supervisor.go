package bollywood

import "time"

// Directive is the supervisor's decision for a failed actor incarnation.
type Directive int

const (
	// DirectiveStop terminates the actor, draining its mailbox to
	// dead-letters and running PostStop.
	DirectiveStop Directive = iota
	// DirectiveRestart discards the incarnation and recreates it via
	// the Producer, preserving the mailbox.
	DirectiveRestart
	// DirectiveRestartBackoff is DirectiveRestart preceded by a
	// computed sleep, and may itself escalate to DirectiveStop once a
	// retry cap is reached.
	DirectiveRestartBackoff
)

// SupervisorStrategy is the per-actor failure policy of spec.md §4.4.
type SupervisorStrategy interface {
	// Decide returns the directive for the given failure. err is nil
	// for a clean PoisonPill-driven stop (Decide is not consulted in
	// that case — Decide is only ever invoked for genuine failures).
	Decide(err error) Directive
	// backoffConfig returns the backoff tuning for
	// DirectiveRestartBackoff, or nil for the other strategies.
	backoffConfig() *backoffConfig
}

type backoffConfig struct {
	min, max   time.Duration
	maxRetries int // 0 means unlimited
	resetAfter time.Duration
}

// stopStrategy always terminates the actor on failure.
type stopStrategy struct{}

// StopStrategy terminates the actor on any unhandled failure.
func StopStrategy() SupervisorStrategy { return stopStrategy{} }

func (stopStrategy) Decide(error) Directive        { return DirectiveStop }
func (stopStrategy) backoffConfig() *backoffConfig { return nil }

// restartStrategy always restarts the actor on failure, with no delay.
type restartStrategy struct{}

// RestartStrategy recreates the actor via its Producer on any failure,
// preserving the mailbox.
func RestartStrategy() SupervisorStrategy { return restartStrategy{} }

func (restartStrategy) Decide(error) Directive        { return DirectiveRestart }
func (restartStrategy) backoffConfig() *backoffConfig { return nil }

// BackoffOption customises RestartWithBackoff.
type BackoffOption func(*backoffConfig)

// WithMaxRetries caps the number of backed-off restarts before
// escalating to Stop. 0 (the default) means unlimited.
func WithMaxRetries(n int) BackoffOption {
	return func(c *backoffConfig) { c.maxRetries = n }
}

// WithResetAfter sets the idle duration after which BackoffState resets
// to its initial failure count, per spec.md §3.
func WithResetAfter(d time.Duration) BackoffOption {
	return func(c *backoffConfig) { c.resetAfter = d }
}

type restartBackoffStrategy struct {
	cfg backoffConfig
}

// RestartWithBackoff restarts the actor after a sleep that doubles on
// each consecutive failure, capped at max, and reset to min once
// resetAfter has elapsed since the last failure. If maxRetries is set
// (via WithMaxRetries) and reached, the strategy escalates to Stop.
func RestartWithBackoff(min, max time.Duration, opts ...BackoffOption) SupervisorStrategy {
	cfg := backoffConfig{min: min, max: max}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &restartBackoffStrategy{cfg: cfg}
}

func (s *restartBackoffStrategy) Decide(error) Directive { return DirectiveRestartBackoff }
func (s *restartBackoffStrategy) backoffConfig() *backoffConfig {
	return &s.cfg
}

// BackoffState tracks the doubling-restart bookkeeping for one actor
// incarnation lineage, per spec.md §3.
type BackoffState struct {
	FailureCount int
	LastFailure  time.Time
	NextDelay    time.Duration
}

// advance records a new failure and returns the delay to sleep before
// the next restart, plus whether the retry cap (if any) was exceeded.
func (s *BackoffState) advance(cfg backoffConfig, now time.Time) (delay time.Duration, exceeded bool) {
	if !s.LastFailure.IsZero() && cfg.resetAfter > 0 && now.Sub(s.LastFailure) > cfg.resetAfter {
		s.FailureCount = 0
		s.NextDelay = 0
	}

	s.FailureCount++
	s.LastFailure = now

	if s.NextDelay <= 0 {
		s.NextDelay = cfg.min
	} else {
		s.NextDelay *= 2
		if s.NextDelay > cfg.max {
			s.NextDelay = cfg.max
		}
	}

	if cfg.maxRetries > 0 && s.FailureCount > cfg.maxRetries {
		return s.NextDelay, true
	}
	return s.NextDelay, false
}

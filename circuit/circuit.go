// Package circuit implements a per-dependency failure gate with a
// three-state machine (closed/open/half-open) and sliding call counters,
// plus a process-wide registry keyed by dependency name.
package circuit

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State is one of the three circuit breaker states.
type State int

const (
	// StateClosed is the initial state: every call runs.
	StateClosed State = iota
	// StateOpen rejects every call until the recovery timeout elapses.
	StateOpen
	// StateHalfOpen admits a bounded number of probe calls.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// Config configures a Breaker.
type Config struct {
	// FailureThreshold is the number of consecutive CLOSED-state failures
	// that trips the breaker to OPEN. Default 5.
	FailureThreshold int

	// SuccessThreshold is the number of HALF_OPEN probe successes required
	// to close the breaker. Default 1.
	SuccessThreshold int

	// RecoveryTimeout is how long the breaker stays OPEN before admitting
	// a probe call. Default 30s.
	RecoveryTimeout time.Duration

	// CallTimeout bounds each call passed to Execute. Zero disables the
	// per-call deadline; the caller's context still applies.
	CallTimeout time.Duration

	// OnStateChange, if set, is invoked synchronously under the breaker's
	// lock whenever the state transitions. Keep it cheap and non-blocking.
	OnStateChange func(name string, from, to State)

	// IsFailure classifies an error as a breaker failure. Default: any
	// non-nil, non-cancellation error is a failure.
	IsFailure func(err error) bool
}

func (c *Config) setDefaults() {
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = 5
	}
	if c.SuccessThreshold <= 0 {
		c.SuccessThreshold = 1
	}
	if c.RecoveryTimeout <= 0 {
		c.RecoveryTimeout = 30 * time.Second
	}
	if c.IsFailure == nil {
		c.IsFailure = func(err error) bool { return err != nil }
	}
}

// Counters holds the sliding call counters tracked by a Breaker.
type Counters struct {
	TotalCalls      int64
	SuccessfulCalls int64
	FailedCalls     int64
	RejectedCalls   int64
	Timeouts        int64
}

// SuccessRate returns SuccessfulCalls / max(TotalCalls, 1).
func (c Counters) SuccessRate() float64 {
	if c.TotalCalls == 0 {
		return 0
	}
	return float64(c.SuccessfulCalls) / float64(c.TotalCalls)
}

// RejectionRate returns RejectedCalls / max(TotalCalls, 1).
func (c Counters) RejectionRate() float64 {
	if c.TotalCalls == 0 {
		return 0
	}
	return float64(c.RejectedCalls) / float64(c.TotalCalls)
}

// Status is a point-in-time snapshot of a Breaker.
type Status struct {
	Name         string
	State        State
	FailureCount int
	LastFailure  time.Time
	Metrics      Counters
}

// Breaker gates calls to one named dependency.
type Breaker struct {
	name   string
	config Config

	mu                sync.Mutex
	state             State
	failureCount      int
	halfOpenSuccesses int
	halfOpenInFlight  bool
	lastFailureTime   time.Time
	counters          Counters
}

// New creates a Breaker for the given dependency name.
func New(name string, cfg Config) *Breaker {
	cfg.setDefaults()
	return &Breaker{
		name:   name,
		config: cfg,
		state:  StateClosed,
	}
}

// Name returns the dependency name this breaker guards.
func (b *Breaker) Name() string { return b.name }

// Execute runs fn through the breaker. It may reject fn without running it
// if the breaker is open. A context-cancellation error from fn counts as
// neither success nor failure, but still releases the half-open probe slot.
func (b *Breaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	if err := b.beforeCall(); err != nil {
		return err
	}

	callCtx := ctx
	var cancel context.CancelFunc
	if b.config.CallTimeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, b.config.CallTimeout)
		defer cancel()
	}

	err := fn(callCtx)
	timedOut := b.config.CallTimeout > 0 && errors.Is(callCtx.Err(), context.DeadlineExceeded)
	b.afterCall(err, timedOut)
	return err
}

// State returns the current state, resolving an OPEN→HALF_OPEN transition
// if the recovery timeout has elapsed.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentStateLocked()
}

// Status returns a snapshot of the breaker's state and counters.
func (b *Breaker) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Status{
		Name:         b.name,
		State:        b.currentStateLocked(),
		FailureCount: b.failureCount,
		LastFailure:  b.lastFailureTime,
		Metrics:      b.counters,
	}
}

// ForceOpen administratively trips the breaker to OPEN regardless of
// current counters.
func (b *Breaker) ForceOpen() {
	b.mu.Lock()
	defer b.mu.Unlock()
	old := b.state
	b.lastFailureTime = time.Now()
	b.transitionLocked(StateOpen)
	b.notifyLocked(old, b.state)
}

// Reset administratively restores the breaker to CLOSED and clears all
// counters, as if newly created.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	old := b.state
	b.counters = Counters{}
	b.lastFailureTime = time.Time{}
	b.transitionLocked(StateClosed)
	b.notifyLocked(old, b.state)
}

func (b *Breaker) beforeCall() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.currentStateLocked() {
	case StateOpen:
		b.counters.RejectedCalls++
		return ErrCircuitOpen
	case StateHalfOpen:
		if b.halfOpenInFlight {
			b.counters.RejectedCalls++
			return ErrCircuitOpen
		}
		b.halfOpenInFlight = true
	}
	return nil
}

func (b *Breaker) afterCall(err error, timedOut bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cancelled := !timedOut && errors.Is(err, context.Canceled)
	isFailure := !cancelled && (timedOut || b.config.IsFailure(err))
	old := b.state

	switch b.state {
	case StateClosed:
		if cancelled {
			return
		}
		if isFailure {
			b.counters.TotalCalls++
			b.counters.FailedCalls++
			if timedOut {
				b.counters.Timeouts++
			}
			b.failureCount++
			b.lastFailureTime = time.Now()
			if b.failureCount >= b.config.FailureThreshold {
				b.transitionLocked(StateOpen)
			}
		} else {
			b.counters.TotalCalls++
			b.counters.SuccessfulCalls++
			b.failureCount = 0
		}

	case StateHalfOpen:
		b.halfOpenInFlight = false
		if cancelled {
			return
		}
		if isFailure {
			b.counters.TotalCalls++
			b.counters.FailedCalls++
			if timedOut {
				b.counters.Timeouts++
			}
			b.lastFailureTime = time.Now()
			b.transitionLocked(StateOpen)
		} else {
			b.counters.TotalCalls++
			b.counters.SuccessfulCalls++
			b.halfOpenSuccesses++
			if b.halfOpenSuccesses >= b.config.SuccessThreshold {
				b.transitionLocked(StateClosed)
			}
		}
	}

	b.notifyLocked(old, b.state)
}

// currentStateLocked resolves a lazy OPEN→HALF_OPEN transition on read.
func (b *Breaker) currentStateLocked() State {
	if b.state == StateOpen && time.Since(b.lastFailureTime) >= b.config.RecoveryTimeout {
		old := b.state
		b.transitionLocked(StateHalfOpen)
		b.notifyLocked(old, b.state)
	}
	return b.state
}

func (b *Breaker) transitionLocked(to State) {
	b.state = to
	switch to {
	case StateOpen, StateHalfOpen:
		b.halfOpenInFlight = false
		b.halfOpenSuccesses = 0
	case StateClosed:
		b.failureCount = 0
		b.halfOpenSuccesses = 0
		b.halfOpenInFlight = false
	}
}

func (b *Breaker) notifyLocked(old, next State) {
	if old != next && b.config.OnStateChange != nil {
		b.config.OnStateChange(b.name, old, next)
	}
}

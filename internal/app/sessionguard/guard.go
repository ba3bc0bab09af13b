// Package sessionguard turns bursts of 401 responses into a single
// authentication-failure notification per cooldown window.
package sessionguard

import (
	"net/http"
	"sync"
	"time"

	"dashboard_client/internal/app/port"
	"dashboard_client/internal/infrastructure/metrics"
)

// DefaultCooldown is how long further 401s are swallowed after a notification.
const DefaultCooldown = 1000 * time.Millisecond

// State is the guard's position in its two-state machine.
type State int

const (
	Idle State = iota
	Suppressing
)

func (s State) String() string {
	if s == Suppressing {
		return "suppressing"
	}
	return "idle"
}

// AuthFailure is delivered to subscribers once per cooldown window.
type AuthFailure struct {
	At         time.Time
	StatusCode int
}

// Option configures a Guard.
type Option func(*Guard)

// WithCooldown overrides DefaultCooldown. Non-positive values are ignored.
func WithCooldown(d time.Duration) Option {
	return func(g *Guard) {
		if d > 0 {
			g.cooldown = d
		}
	}
}

// WithClock injects a clock.
func WithClock(c Clock) Option {
	return func(g *Guard) { g.clock = c }
}

// WithLogger sets the logger used for state transitions.
func WithLogger(l port.Logger) Option {
	return func(g *Guard) { g.logger = l }
}

type subscriber struct {
	id int
	fn func(AuthFailure)
}

// Guard implements port.ResponseObserver.
type Guard struct {
	mu          sync.Mutex
	state       State
	until       time.Time
	cooldown    time.Duration
	clock       Clock
	logger      port.Logger
	subscribers []subscriber
	nextID      int
}

var _ port.ResponseObserver = (*Guard)(nil)

func New(opts ...Option) *Guard {
	g := &Guard{
		state:    Idle,
		cooldown: DefaultCooldown,
		clock:    RealClock(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Subscribe registers fn for AuthFailure notifications and returns a function
// that removes it again.
func (g *Guard) Subscribe(fn func(AuthFailure)) func() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.nextID++
	id := g.nextID
	g.subscribers = append(g.subscribers, subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			defer g.mu.Unlock()
			for i, s := range g.subscribers {
				if s.id == id {
					g.subscribers = append(g.subscribers[:i:i], g.subscribers[i+1:]...)
					return
				}
			}
		})
	}
}

// Observe feeds one response status into the guard and reports whether a
// notification was emitted.
func (g *Guard) Observe(statusCode int) bool {
	if statusCode != http.StatusUnauthorized {
		return false
	}

	g.mu.Lock()
	if g.state == Suppressing {
		g.mu.Unlock()
		metrics.AuthFailureSuppressed.Inc()
		return false
	}

	now := g.clock.Now()
	g.state = Suppressing
	g.until = now.Add(g.cooldown)
	g.clock.AfterFunc(g.cooldown, g.reset)

	event := AuthFailure{At: now, StatusCode: statusCode}
	subs := make([]func(AuthFailure), len(g.subscribers))
	for i, s := range g.subscribers {
		subs[i] = s.fn
	}
	g.mu.Unlock()

	metrics.AuthFailureNotifications.Inc()
	if g.logger != nil {
		g.logger.Warn("Authentication failure, suppressing further notifications", "cooldown", g.cooldown)
	}
	// Handlers run outside the lock so they may call back into the guard.
	for _, fn := range subs {
		fn(event)
	}
	return true
}

// ObserveStatus implements port.ResponseObserver.
func (g *Guard) ObserveStatus(statusCode int) {
	g.Observe(statusCode)
}

// State returns the current state and, while suppressing, when it ends.
func (g *Guard) State() (State, time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state, g.until
}

func (g *Guard) reset() {
	g.mu.Lock()
	g.state = Idle
	g.until = time.Time{}
	g.mu.Unlock()

	if g.logger != nil {
		g.logger.Debug("Authentication cooldown elapsed")
	}
}

package embed

import (
	"sync"
	"time"

	"github.com/terra-clan/learnpath/internal/models"
)

// DefaultLoadTimeout is how long a frame may stay in loading
const DefaultLoadTimeout = 10 * time.Second

// Failure reasons
const (
	ReasonTimeout   = "timeout"
	ReasonLoadError = "load_error"
)

// Timer is the subset of *time.Timer the monitor needs
type Timer interface {
	Stop() bool
}

// Clock schedules timeouts
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// SystemClock is the wall clock
var SystemClock Clock = realClock{}

// Status is a point-in-time view of a monitor
type Status struct {
	State   models.ViewerState
	Attempt int
	Reason  string
}

// Monitor is the load state machine of one embedded frame.
//
//	loading --Loaded--> loaded
//	loading --Fail/timeout--> failed
//	any --Retry--> loading (attempt+1)
//
// A timer armed for an earlier attempt is ignored when it fires.
type Monitor struct {
	mu       sync.Mutex
	clock    Clock
	timeout  time.Duration
	status   Status
	timer    Timer
	onChange func(Status)
}

// NewMonitor starts attempt 1 in loading and arms the timeout.
// onChange, if set, is called outside the lock after every transition.
func NewMonitor(clock Clock, timeout time.Duration, onChange func(Status)) *Monitor {
	if clock == nil {
		clock = SystemClock
	}
	if timeout <= 0 {
		timeout = DefaultLoadTimeout
	}

	m := &Monitor{clock: clock, timeout: timeout, onChange: onChange}

	m.mu.Lock()
	m.begin()
	st := m.status
	m.mu.Unlock()

	m.notify(st)
	return m
}

// Status returns the current state
func (m *Monitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Loaded records a successful load. It reports false if the attempt had
// already settled.
func (m *Monitor) Loaded() bool {
	return m.settle(models.ViewerLoaded, "", m.current())
}

// Fail records a load error or cross-origin refusal
func (m *Monitor) Fail(reason string) bool {
	if reason == "" {
		reason = ReasonLoadError
	}
	return m.settle(models.ViewerFailed, reason, m.current())
}

// Retry clears the failure, bumps the attempt and re-arms the timeout
func (m *Monitor) Retry() Status {
	m.mu.Lock()
	m.stopTimer()
	m.begin()
	st := m.status
	m.mu.Unlock()

	m.notify(st)
	return st
}

// Stop disarms the pending timeout without changing state
func (m *Monitor) Stop() {
	m.mu.Lock()
	m.stopTimer()
	m.mu.Unlock()
}

func (m *Monitor) current() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status.Attempt
}

// begin must be called with mu held
func (m *Monitor) begin() {
	m.status = Status{State: models.ViewerLoading, Attempt: m.status.Attempt + 1}
	attempt := m.status.Attempt
	m.timer = m.clock.AfterFunc(m.timeout, func() {
		m.settle(models.ViewerFailed, ReasonTimeout, attempt)
	})
}

func (m *Monitor) settle(state models.ViewerState, reason string, attempt int) bool {
	m.mu.Lock()
	if attempt != m.status.Attempt || m.status.State != models.ViewerLoading {
		m.mu.Unlock()
		return false
	}

	m.stopTimer()
	m.status.State = state
	m.status.Reason = reason
	st := m.status
	m.mu.Unlock()

	m.notify(st)
	return true
}

func (m *Monitor) stopTimer() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func (m *Monitor) notify(st Status) {
	if m.onChange != nil {
		m.onChange(st)
	}
}

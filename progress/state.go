package progress

import (
	"sync"
	"time"
)

// Speed and ETA estimates need a measurable interval before they mean
// anything; until this much time has elapsed both are unavailable.
const (
	minSpeedElapsed = 100 * time.Millisecond
	minETAElapsed   = 100 * time.Millisecond
)

type clock interface {
	now() time.Time
}

type realClock struct{}

func (c realClock) now() time.Time {
	return time.Now()
}

// state is the single shared mutable resource of a progress indicator:
// the foreground caller mutates it through Inc/SetPosition/Message while
// the background drawer reads it. Every access goes through the mutex and
// the drawer only ever works on snapshots, so no render can observe a
// torn field value.
type state struct {
	mu sync.Mutex

	pos     uint64
	total   *uint64
	percent *float64
	preInc  bool
	sep     string
	message string

	startTime time.Time
	speed     *float64
	etaAt     *time.Time

	finished bool

	clock clock
}

func newState(total *uint64, preInc bool, sep string, clk clock) *state {
	s := &state{
		total:  total,
		preInc: preInc,
		sep:    sep,
		clock:  clk,
	}
	s.startTime = clk.now()
	if total != nil {
		zero := 0.0
		s.percent = &zero
	}
	return s
}

// inc advances the position by steps.
func (s *state) inc(steps uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return
	}
	s.pos += steps
	s.recalc()
}

// setPosition moves the position to pos. The position is monotonically
// non-decreasing, so values at or below the current one are ignored.
func (s *state) setPosition(pos uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished || pos <= s.pos {
		return
	}
	s.pos = pos
	s.recalc()
}

// setMessage replaces the message shown by MessageFill.
func (s *state) setMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return
	}
	s.message = message
}

// recalc refreshes speed, percent and the ETA estimate after a position
// change. The caller holds mu.
//
// In pre-increment mode reaching position n means work on step n has only
// begun, so estimates count one step less as completed.
func (s *state) recalc() {
	now := s.clock.now()
	elapsed := now.Sub(s.startTime)

	completed := s.pos
	if s.preInc && completed > 0 {
		completed--
	}

	if elapsed >= minSpeedElapsed && completed > 0 {
		speed := float64(completed) / elapsed.Seconds()
		s.speed = &speed
	}

	if s.total == nil {
		return
	}
	total := *s.total

	percent := float64(completed) / float64(total) * 100
	s.percent = &percent

	switch {
	case completed > total:
		// The estimate has no meaning once the position overruns the total.
		s.etaAt = nil
	case elapsed >= minETAElapsed && completed > 0:
		duration := time.Duration(float64(elapsed) * float64(total) / float64(completed))
		at := s.startTime.Add(duration)
		s.etaAt = &at
	}
}

// finishComplete moves the position to the total (or freezes the total at
// the current position when none was set) and marks the state finished.
// It reports whether this call performed the transition; the transition
// is one-way and only the first call takes effect.
func (s *state) finishComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return false
	}
	if s.total != nil {
		s.pos = *s.total
	} else {
		total := s.pos
		s.total = &total
	}
	hundred := 100.0
	s.percent = &hundred
	s.etaAt = nil
	s.finished = true
	return true
}

// markFinished marks the state finished without touching position or
// total. Used by the clearing finish, where nothing is drawn afterwards.
func (s *state) markFinished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return false
	}
	s.finished = true
	return true
}

// freezeTotalAtPos pins the total to the current position, so that the
// subsequent finish renders the bar as complete at that position.
func (s *state) freezeTotalAtPos() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return
	}
	total := s.pos
	s.total = &total
}

// snapshot returns a point-in-time copy of all fields used for a single
// render pass.
func (s *state) snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.now()
	snap := Snapshot{
		pos:      s.pos,
		message:  s.message,
		sep:      s.sep,
		elapsed:  now.Sub(s.startTime),
		finished: s.finished,
	}
	if s.total != nil {
		total := *s.total
		snap.total = &total
	}
	if s.percent != nil {
		percent := *s.percent
		snap.percent = &percent
	}
	if s.speed != nil {
		speed := *s.speed
		snap.speed = &speed
	}
	switch {
	case s.finished:
		var zero time.Duration
		snap.eta = &zero
	case s.etaAt != nil:
		if remaining := s.etaAt.Sub(now); remaining >= 0 {
			snap.eta = &remaining
		}
	}
	return snap
}

// Snapshot is a point-in-time copy of the indicator state. It is handed
// to custom items and is safe to read without synchronization.
type Snapshot struct {
	pos      uint64
	total    *uint64
	percent  *float64
	speed    *float64
	eta      *time.Duration
	elapsed  time.Duration
	message  string
	sep      string
	finished bool
}

// Pos returns the position.
func (s Snapshot) Pos() uint64 {
	return s.pos
}

// Total returns the total, or false if no total is set.
func (s Snapshot) Total() (uint64, bool) {
	if s.total == nil {
		return 0, false
	}
	return *s.total, true
}

// Percent returns the percentual completion, or false if no total is
// set. The value can be over 100 if the position was incremented beyond
// the total.
func (s Snapshot) Percent() (float64, bool) {
	if s.percent == nil {
		return 0, false
	}
	return *s.percent, true
}

// Speed returns the speed in steps per second, or false while no speed
// estimate is available. Speed is the average from indicator creation
// until the latest position change.
func (s Snapshot) Speed() (float64, bool) {
	if s.speed == nil {
		return 0, false
	}
	return *s.speed, true
}

// ETA returns the estimated remaining time, or false while no estimate
// is available. A finished indicator always reports zero.
func (s Snapshot) ETA() (time.Duration, bool) {
	if s.eta == nil {
		return 0, false
	}
	return *s.eta, true
}

// Elapsed returns the time since the indicator was created.
func (s Snapshot) Elapsed() time.Duration {
	return s.elapsed
}

// Message returns the message shown by MessageFill.
func (s Snapshot) Message() string {
	return s.message
}

// ThousandsSeparator returns the configured digit group separator.
func (s Snapshot) ThousandsSeparator() string {
	return s.sep
}

// Finished reports whether the indicator has finished.
func (s Snapshot) Finished() bool {
	return s.finished
}

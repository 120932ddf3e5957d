package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func uint64Ptr(v uint64) *uint64 {
	return &v
}

func TestState(t *testing.T) {
	t.Run("speed and eta are unavailable before a measurable interval", func(t *testing.T) {
		clk := &fakeClock{t: time.Unix(1000, 0)}
		s := newState(uint64Ptr(10), false, " ", clk)

		s.inc(1)

		snap := s.snapshot()
		_, ok := snap.Speed()
		require.False(t, ok, "no speed before 100ms have elapsed")
		_, ok = snap.ETA()
		require.False(t, ok, "no eta before 100ms have elapsed")
	})

	t.Run("speed and eta derive from completed steps over elapsed time", func(t *testing.T) {
		clk := &fakeClock{t: time.Unix(1000, 0)}
		s := newState(uint64Ptr(10), false, " ", clk)

		clk.advance(2 * time.Second)
		s.inc(5)

		snap := s.snapshot()
		speed, ok := snap.Speed()
		require.True(t, ok)
		require.Equal(t, 2.5, speed)

		percent, ok := snap.Percent()
		require.True(t, ok)
		require.Equal(t, 50.0, percent)

		// 5 of 10 steps took 2s, so the whole run takes 4s: 2s remain.
		eta, ok := snap.ETA()
		require.True(t, ok)
		require.Equal(t, 2*time.Second, eta)
	})

	t.Run("eta becomes unavailable when the position overruns the total", func(t *testing.T) {
		clk := &fakeClock{t: time.Unix(1000, 0)}
		s := newState(uint64Ptr(10), false, " ", clk)

		clk.advance(time.Second)
		s.inc(12)

		snap := s.snapshot()
		_, ok := snap.ETA()
		require.False(t, ok)

		percent, ok := snap.Percent()
		require.True(t, ok)
		require.Equal(t, 120.0, percent, "percent is reported unclamped")
	})

	t.Run("pre-increment mode counts one step less as completed", func(t *testing.T) {
		clk := &fakeClock{t: time.Unix(1000, 0)}
		s := newState(uint64Ptr(3), true, " ", clk)

		clk.advance(time.Second)
		s.inc(1)

		snap := s.snapshot()
		_, ok := snap.Speed()
		require.False(t, ok, "first step only began, nothing completed yet")

		s.inc(1)
		snap = s.snapshot()
		speed, ok := snap.Speed()
		require.True(t, ok)
		require.Equal(t, 1.0, speed)
	})

	t.Run("accessors read directly off a snapshot result", func(t *testing.T) {
		clk := &fakeClock{t: time.Unix(1000, 0)}
		s := newState(uint64Ptr(10), false, ",", clk)
		s.setMessage("busy")
		clk.advance(2 * time.Second)
		s.inc(5)

		// Snapshot is a value; its accessors must work on the
		// non-addressable result of snapshot() without a variable.
		require.Equal(t, uint64(5), s.snapshot().Pos())
		require.Equal(t, "busy", s.snapshot().Message())
		require.Equal(t, ",", s.snapshot().ThousandsSeparator())
		require.Equal(t, 2*time.Second, s.snapshot().Elapsed())
		require.False(t, s.snapshot().Finished())

		total, ok := s.snapshot().Total()
		require.True(t, ok)
		require.Equal(t, uint64(10), total)
	})

	t.Run("set position never decreases", func(t *testing.T) {
		clk := &fakeClock{t: time.Unix(1000, 0)}
		s := newState(nil, false, " ", clk)

		s.setPosition(5)
		s.setPosition(3)
		require.Equal(t, uint64(5), s.snapshot().Pos())

		s.setPosition(7)
		require.Equal(t, uint64(7), s.snapshot().Pos())
	})

	t.Run("finish moves the position to the total", func(t *testing.T) {
		clk := &fakeClock{t: time.Unix(1000, 0)}
		s := newState(uint64Ptr(10), false, " ", clk)
		s.inc(6)

		require.True(t, s.finishComplete())

		snap := s.snapshot()
		require.True(t, snap.Finished())
		require.Equal(t, uint64(10), snap.Pos())

		percent, _ := snap.Percent()
		require.Equal(t, 100.0, percent)

		eta, ok := snap.ETA()
		require.True(t, ok)
		require.Zero(t, eta, "a finished indicator reports zero eta")
	})

	t.Run("finish without a total freezes the total at the position", func(t *testing.T) {
		clk := &fakeClock{t: time.Unix(1000, 0)}
		s := newState(nil, false, " ", clk)
		s.inc(6)

		require.True(t, s.finishComplete())

		total, ok := s.snapshot().Total()
		require.True(t, ok)
		require.Equal(t, uint64(6), total)
	})

	t.Run("finish transitions one-way", func(t *testing.T) {
		clk := &fakeClock{t: time.Unix(1000, 0)}
		s := newState(uint64Ptr(10), false, " ", clk)

		require.True(t, s.finishComplete())
		require.False(t, s.finishComplete(), "second finish is a no-op")
		require.False(t, s.markFinished())

		s.inc(5)
		require.Equal(t, uint64(10), s.snapshot().Pos(), "mutation after finish is ignored")
	})

	t.Run("freezing the total pins the bar at the current position", func(t *testing.T) {
		clk := &fakeClock{t: time.Unix(1000, 0)}
		s := newState(uint64Ptr(10), false, " ", clk)
		s.inc(6)

		s.freezeTotalAtPos()
		require.True(t, s.finishComplete())

		snap := s.snapshot()
		total, _ := snap.Total()
		require.Equal(t, uint64(6), total)
		require.Equal(t, uint64(6), snap.Pos())
	})
}

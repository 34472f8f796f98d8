// Package timeutil supplies the tick source that paces playback, with a
// manual clock for tests.
package timeutil

import (
	"sync"
	"time"
)

// Clock tells the time and starts periodic tick streams.
type Clock interface {
	Now() time.Time

	// Every delivers the clock time on the returned channel every d until
	// stop is called. A stream holds at most one pending tick; ticks that
	// arrive while it is full are dropped.
	Every(d time.Duration) (ticks <-chan time.Time, stop func())
}

// RealClock is the wall clock.
type RealClock struct{}

// Now returns time.Now.
func (RealClock) Now() time.Time { return time.Now() }

// Every starts a time.Ticker.
func (RealClock) Every(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// ManualClock only moves when Advance is called.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Time
	nextID  int
	streams map[int]*stream
}

type stream struct {
	ch    chan time.Time
	every time.Duration
	due   time.Time
}

// NewManualClock returns a clock stopped at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start, streams: make(map[int]*stream)}
}

// Now returns the clock's current time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Every registers a stream whose first tick is due d after the current time.
// It panics if d is not positive, like time.NewTicker.
func (c *ManualClock) Every(d time.Duration) (<-chan time.Time, func()) {
	if d <= 0 {
		panic("timeutil: non-positive interval for ManualClock.Every")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	s := &stream{ch: make(chan time.Time, 1), every: d, due: c.now.Add(d)}
	c.streams[id] = s

	var once sync.Once
	stop := func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.streams, id)
			c.mu.Unlock()
		})
	}
	return s.ch, stop
}

// Advance moves the clock forward by d and ticks every stream that falls
// due. A stream ticks at most once per call.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
	for _, s := range c.streams {
		if c.now.Before(s.due) {
			continue
		}
		select {
		case s.ch <- c.now:
		default:
		}
		s.due = c.now.Add(s.every)
	}
}

// Streams returns the number of running tick streams.
func (c *ManualClock) Streams() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.streams)
}

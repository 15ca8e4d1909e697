package arbor

import (
	"sync"
	"time"
)

// Ticker is the host's periodic callback primitive. Start replaces any
// running schedule; Stop is idempotent. A tick already in flight when Stop
// returns may still complete.
type Ticker interface {
	Start(interval time.Duration, tick func())
	Stop()
}

// TimerTicker drives ticks from a time.Ticker on its own goroutine.
type TimerTicker struct {
	mu   sync.Mutex
	stop chan struct{}
}

func (t *TimerTicker) Start(interval time.Duration, tick func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	stop := make(chan struct{})
	t.stop = stop
	go func() {
		tk := time.NewTicker(interval)
		defer tk.Stop()
		for {
			select {
			case <-stop:
				return
			case <-tk.C:
				select {
				case <-stop:
					return
				default:
				}
				tick()
			}
		}
	}()
}

func (t *TimerTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *TimerTicker) stopLocked() {
	if t.stop == nil {
		return
	}
	close(t.stop)
	t.stop = nil
}

// ManualTicker runs ticks only when Advance is called, which makes frame
// loops deterministic in tests and lets hosts with their own loop (such as
// ebitenhost) step the stage explicitly.
type ManualTicker struct {
	mu       sync.Mutex
	tick     func()
	interval time.Duration
	starts   int
}

func (m *ManualTicker) Start(interval time.Duration, tick func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tick = tick
	m.interval = interval
	m.starts++
}

func (m *ManualTicker) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tick = nil
}

// Running reports whether a schedule is active.
func (m *ManualTicker) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tick != nil
}

// Interval returns the interval of the last Start.
func (m *ManualTicker) Interval() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.interval
}

// Starts returns how many times Start has been called.
func (m *ManualTicker) Starts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.starts
}

// Advance fires up to n ticks, stopping early if a tick stops the ticker.
// Returns the number of ticks fired.
func (m *ManualTicker) Advance(n int) int {
	fired := 0
	for i := 0; i < n; i++ {
		m.mu.Lock()
		tick := m.tick
		m.mu.Unlock()
		if tick == nil {
			break
		}
		tick()
		fired++
	}
	return fired
}

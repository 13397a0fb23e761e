package sim

import (
	"time"

	"github.com/sasha-s/go-deadlock"
)

// Ticker is a time.Ticker that can be paused and resumed. Ticks that fall
// due while paused are dropped.
type Ticker struct {
	C <-chan time.Time // The channel on which the ticks are delivered.

	mutex   deadlock.Mutex
	pause   chan bool
	paused  bool
	stop    chan struct{}
	done    chan struct{}
	stopped bool
	ticker  *time.Ticker
}

func NewTicker(d time.Duration) *Ticker {
	c := make(chan time.Time)

	t := &Ticker{
		C:      c,
		pause:  make(chan bool),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
		ticker: time.NewTicker(d),
	}

	go t.run(c)

	return t
}

func (t *Ticker) run(c chan<- time.Time) {
	defer close(t.done)

	paused := false
	for {
		if paused {
			select {
			case paused = <-t.pause:
			case <-t.stop:
				return
			}
			continue
		}

		select {
		case now := <-t.ticker.C:
			select {
			case c <- now:
			case paused = <-t.pause:
			case <-t.stop:
				return
			}
		case paused = <-t.pause:
		case <-t.stop:
			return
		}
	}
}

func (t *Ticker) setPaused(paused bool) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.stopped || t.paused == paused {
		return
	}
	t.pause <- paused
	t.paused = paused
}

func (t *Ticker) Pause() { t.setPaused(true) }

func (t *Ticker) Resume() { t.setPaused(false) }

func (t *Ticker) Paused() bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.paused
}

func (t *Ticker) Stop() {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.stopped {
		return
	}
	close(t.stop)
	<-t.done
	t.ticker.Stop()
	t.stopped = true
}

func (t *Ticker) Stopped() bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.stopped
}

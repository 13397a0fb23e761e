// Package maneuver runs timed reorientations between a start and an end
// rotator.
package maneuver

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/sdtraining/steer/pkg/geom"
)

type State uint8

const (
	StateCruising State = iota
	StateRotating
)

func (s State) String() string {
	if s == StateRotating {
		return "rotating"
	}
	return "cruising"
}

type Maneuver struct {
	Start    time.Duration
	Duration time.Duration
	From     geom.Rotator
	To       geom.Rotator
}

// Elapsed reports how far into the maneuver now is.
func (m Maneuver) Elapsed(now time.Duration) time.Duration {
	return now - m.Start
}

// Step is the orientation for one tick of a maneuver.
type Step struct {
	Orientation geom.Rotator
	Alpha       float64
	Done        bool
}

// Alpha maps elapsed time onto [0, 1]. A non-positive duration is already
// complete.
func Alpha(elapsed, duration time.Duration) float64 {
	if duration <= 0 {
		return 1
	}
	return mgl64.Clamp(float64(elapsed)/float64(duration), 0, 1)
}

// Machine holds at most one maneuver. While it is Rotating the owner is
// expected to stop looking for new obstacles; Begin refuses to replace a
// maneuver in flight.
type Machine struct {
	duration time.Duration
	active   *Maneuver
}

func NewMachine(duration time.Duration) *Machine {
	return &Machine{duration: duration}
}

func (m *Machine) State() State {
	if m.active != nil {
		return StateRotating
	}
	return StateCruising
}

func (m *Machine) Rotating() bool { return m.active != nil }

func (m *Machine) Duration() time.Duration { return m.duration }

// Active returns the maneuver in flight.
func (m *Machine) Active() (Maneuver, bool) {
	if m.active == nil {
		return Maneuver{}, false
	}
	return *m.active, true
}

// Begin starts rotating from one orientation to another at time now.
func (m *Machine) Begin(now time.Duration, from, to geom.Rotator) bool {
	if m.active != nil {
		return false
	}
	m.active = &Maneuver{
		Start:    now,
		Duration: m.duration,
		From:     from,
		To:       to,
	}
	return true
}

// Step interpolates the active maneuver at time now. Once the duration has
// elapsed the orientation is exactly the target and the machine returns to
// Cruising. The second result is false when nothing is in flight.
func (m *Machine) Step(now time.Duration) (Step, bool) {
	if m.active == nil {
		return Step{}, false
	}

	active := *m.active
	elapsed := active.Elapsed(now)
	if elapsed >= active.Duration {
		m.active = nil
		return Step{Orientation: active.To, Alpha: 1, Done: true}, true
	}

	alpha := Alpha(elapsed, active.Duration)
	return Step{
		Orientation: geom.Lerp(active.From, active.To, alpha),
		Alpha:       alpha,
	}, true
}

// Reset drops any maneuver in flight.
func (m *Machine) Reset() {
	m.active = nil
}

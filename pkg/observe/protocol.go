package observe

import (
	"github.com/sdtraining/steer/pkg/sim"
)

type Op string

const (
	// Server to client
	OpStatus Op = "status"
	OpFrame  Op = "frame"

	// Client to server
	OpPause  Op = "pause"
	OpResume Op = "resume"
)

type Message struct {
	Op     Op         `cbor:"op"`
	Paused bool       `cbor:"paused"`
	Frame  *sim.Frame `cbor:"frame,omitempty"`
}

type Command struct {
	Op Op `cbor:"op"`
}

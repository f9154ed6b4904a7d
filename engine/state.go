package engine

import "fmt"

// State is the phase of the engine's cycle.
type State int32

const (
	StateIdle State = iota
	StateReading
	StateProcessing
	StateWriting
	StateAnalyzing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReading:
		return "reading"
	case StateProcessing:
		return "processing"
	case StateWriting:
		return "writing"
	case StateAnalyzing:
		return "analyzing"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

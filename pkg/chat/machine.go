// Package chat drives one submitted message from input to a fully revealed
// assistant reply.
package chat

import (
	"errors"
	"fmt"
	"sync"
)

// State is the phase of the submit/reply flow.
type State int

const (
	Idle State = iota
	Submitted
	AwaitingReply
	StreamingReply
	LocalFallback
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitted:
		return "submitted"
	case AwaitingReply:
		return "awaiting-reply"
	case StreamingReply:
		return "streaming"
	case LocalFallback:
		return "local-fallback"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrInvalidTransition is returned for a transition the flow does not allow.
var ErrInvalidTransition = errors.New("chat: invalid state transition")

var transitions = map[State][]State{
	Idle:           {Submitted},
	Submitted:      {AwaitingReply},
	AwaitingReply:  {StreamingReply, LocalFallback},
	LocalFallback:  {StreamingReply},
	StreamingReply: {Idle},
}

// Machine tracks the flow state. It is safe for concurrent use.
type Machine struct {
	mu    sync.Mutex
	state State
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Busy reports whether input controls should be disabled.
func (m *Machine) Busy() bool {
	return m.State() != Idle
}

// Thinking reports whether the typing indicator should show.
func (m *Machine) Thinking() bool {
	s := m.State()
	return s == AwaitingReply || s == LocalFallback
}

// To moves to next, or returns ErrInvalidTransition.
func (m *Machine) To(next State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, allowed := range transitions[m.state] {
		if allowed == next {
			m.state = next
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.state, next)
}

// Reset returns to Idle from any state. The flow always ends here, even when
// a step failed.
func (m *Machine) Reset() {
	m.mu.Lock()
	m.state = Idle
	m.mu.Unlock()
}

package domain

import "strings"

// State identifies a node of the automaton.
type State string

const (
	StateQ0     State = "q0"
	StateQ1     State = "q1"
	StateQ2     State = "q2"
	StateQ3     State = "q3"
	StateQ4     State = "q4"
	StateQ5     State = "q5"
	StateQ6     State = "q6"
	StateQ7     State = "q7"    // deferred policy only: invalid symbol seen, draining tape
	StateCheck  State = "check" // deferred policy only: end of tape, consult counter
	StateAccept State = "accept"
	StateReject State = "reject"
)

// StartState is the state every freshly loaded automaton begins in.
const StartState = StateQ0

// CountingStates lists q0..q6 in order. Index n holds the state reached after n digits.
var CountingStates = []State{StateQ0, StateQ1, StateQ2, StateQ3, StateQ4, StateQ5, StateQ6}

// IsTerminal reports whether no further transitions can leave s.
func (s State) IsTerminal() bool {
	return s == StateAccept || s == StateReject
}

// Verdict is the user-facing outcome derived from the current state.
type Verdict string

const (
	VerdictPending  Verdict = "pending"
	VerdictAccepted Verdict = "accepted"
	VerdictRejected Verdict = "rejected"
)

// VerdictOf maps a state to its verdict.
func VerdictOf(s State) Verdict {
	switch s {
	case StateAccept:
		return VerdictAccepted
	case StateReject:
		return VerdictRejected
	default:
		return VerdictPending
	}
}

// Snapshot is the read-only view observers use to render the machine.
type Snapshot struct {
	State State `json:"state"`

	// Symbol is the symbol under the cursor. Only meaningful if HasSymbol is true.
	Symbol    Symbol `json:"-"`
	HasSymbol bool   `json:"-"`

	Cursor     int     `json:"cursor"`
	DigitsRead int     `json:"digits_read"`
	Verdict    Verdict `json:"verdict"`

	// Written is the output tape: every consumed symbol, in order. BLANK is never written.
	Written    []Symbol `json:"-"`
	WriteCount int      `json:"write_count"`

	// Loaded is false until a tape has been loaded (and again after Reset).
	Loaded bool   `json:"loaded"`
	Input  string `json:"input,omitempty"`
	Policy string `json:"policy"`
}

// WrittenText renders the output tape, e.g. "12a".
func (s Snapshot) WrittenText() string {
	var sb strings.Builder
	for _, sym := range s.Written {
		sb.WriteString(sym.String())
	}
	return sb.String()
}

// SymbolText renders the symbol under the cursor, or "-" when there is none.
func (s Snapshot) SymbolText() string {
	if !s.HasSymbol {
		return "-"
	}
	return s.Symbol.String()
}

package automata

import (
	"fmt"
	"strings"

	apperr "github.com/tjt7a/anml/pkg/errors"
)

// StartKind determines when a state is enabled without an incoming
// activation.
type StartKind int

const (
	// StartNone marks an ordinary state, enabled only by activation.
	StartNone StartKind = iota
	// StartAllInput enables the state on every input symbol.
	StartAllInput
	// StartOfData enables the state on the first input symbol only.
	StartOfData
)

var startKindNames = [...]string{
	StartNone:     "none",
	StartAllInput: "all-input",
	StartOfData:   "start-of-data",
}

// String returns the ANML attribute literal for k.
func (k StartKind) String() string {
	if k < 0 || int(k) >= len(startKindNames) {
		return fmt.Sprintf("StartKind(%d)", int(k))
	}
	return startKindNames[k]
}

// IsStart reports whether k enables a state without activation.
func (k StartKind) IsStart() bool { return k == StartAllInput || k == StartOfData }

// ParseStartKind parses an ANML start literal. The empty string and "none"
// both yield StartNone.
func ParseStartKind(s string) (StartKind, error) {
	switch strings.TrimSpace(s) {
	case "", "none":
		return StartNone, nil
	case "all-input":
		return StartAllInput, nil
	case "start-of-data":
		return StartOfData, nil
	}
	return StartNone, apperr.New(apperr.ErrCodeInvalidFormat, "unknown start kind %q", s)
}

// AtTarget selects what a counter does when its count reaches the target.
type AtTarget int

const (
	// AtTargetPulse activates successors once, then keeps counting.
	AtTargetPulse AtTarget = iota
	// AtTargetLatch activates successors on every cycle after the target.
	AtTargetLatch
	// AtTargetRoll activates successors and resets the count.
	AtTargetRoll
)

var atTargetNames = [...]string{
	AtTargetPulse: "pulse",
	AtTargetLatch: "latch",
	AtTargetRoll:  "roll",
}

// String returns the ANML attribute literal for a.
func (a AtTarget) String() string {
	if a < 0 || int(a) >= len(atTargetNames) {
		return fmt.Sprintf("AtTarget(%d)", int(a))
	}
	return atTargetNames[a]
}

// ParseAtTarget parses an ANML at-target literal. The empty string yields
// AtTargetPulse.
func ParseAtTarget(s string) (AtTarget, error) {
	switch strings.TrimSpace(s) {
	case "", "pulse":
		return AtTargetPulse, nil
	case "latch":
		return AtTargetLatch, nil
	case "roll":
		return AtTargetRoll, nil
	}
	return AtTargetPulse, apperr.New(apperr.ErrCodeInvalidFormat, "unknown at-target mode %q", s)
}

// SymbolSet is an ordered list of character-class tokens as produced by an
// NFA compiler, before sanitization.
type SymbolSet []string

// String concatenates the tokens.
func (s SymbolSet) String() string { return strings.Join(s, "") }

// Element is implemented by *State and *Counter only.
// Dispatch with a type switch:
//
//	switch e := el.(type) {
//	case *automata.State:
//	case *automata.Counter:
//	}
type Element interface {
	// ElementID returns the element's network-unique identifier.
	ElementID() string
	sealed()
}

// State is a state-transition element.
//
// Reports and ReportCode must agree: a reporting state carries a non-empty
// code, and a non-reporting state carries none.
type State struct {
	ID         string
	Symbols    SymbolSet
	Start      StartKind
	Reports    bool
	ReportCode string
}

// ElementID implements Element.
func (s *State) ElementID() string { return s.ID }

func (*State) sealed() {}

func (s *State) clone() *State {
	c := *s
	c.Symbols = append(SymbolSet(nil), s.Symbols...)
	return &c
}

// Counter counts activations and fires once Target is reached.
type Counter struct {
	ID       string
	Target   int
	AtTarget AtTarget
}

// ElementID implements Element.
func (c *Counter) ElementID() string { return c.ID }

func (*Counter) sealed() {}

func (c *Counter) clone() *Counter {
	cp := *c
	return &cp
}

// Kind returns "state" or "counter" for el, for use in messages and tables.
func Kind(el Element) string {
	switch el.(type) {
	case *State:
		return "state"
	case *Counter:
		return "counter"
	}
	return "unknown"
}

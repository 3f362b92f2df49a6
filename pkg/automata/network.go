package automata

import (
	apperr "github.com/tjt7a/anml/pkg/errors"
)

// DefaultNetworkID is used when a network is created with an empty id.
const DefaultNetworkID = "an1"

var (
	// ErrInvalidIdentifier is returned when an element, network, or report
	// identifier is empty, too long, or contains characters ANML cannot carry
	// verbatim in an attribute.
	ErrInvalidIdentifier = apperr.New(apperr.ErrCodeInvalidIdentifier, "invalid identifier")

	// ErrDuplicateIdentifier is returned by [Network.AddState] and
	// [Network.AddCounter] when an element with the same ID already exists.
	ErrDuplicateIdentifier = apperr.New(apperr.ErrCodeDuplicateIdentifier, "duplicate element identifier")

	// ErrInconsistentReport is returned by [Network.AddState] when Reports is
	// set without a ReportCode, or a ReportCode is given without Reports.
	ErrInconsistentReport = apperr.New(apperr.ErrCodeInconsistentReport, "report flag and report code disagree")

	// ErrInvalidTarget is returned by [Network.AddCounter] for a target that
	// is zero or negative.
	ErrInvalidTarget = apperr.New(apperr.ErrCodeInvalidTarget, "counter target must be positive")

	// ErrTypeMismatch is returned when a [Handle] does not refer to an
	// element of the network it is used with.
	ErrTypeMismatch = apperr.New(apperr.ErrCodeTypeMismatch, "handle does not refer to an element of this network")
)

// Handle refers to one element of one Network. The zero Handle is invalid.
type Handle struct {
	net *Network
	idx int
}

// IsValid reports whether h was issued by a network.
func (h Handle) IsValid() bool { return h.net != nil }

// Stats summarizes a network's composition.
type Stats struct {
	States    int // State elements
	Counters  int // Counter elements
	Edges     int // Activation edges
	Starts    int // States with a start kind other than StartNone
	Reporting int // States that report
}

// Network is an ANML automata network: a named arena of elements plus
// ordered activation edges between them.
//
// The zero value is not usable; create networks with [New] or [NewChecked].
// A Network is not safe for concurrent mutation.
type Network struct {
	id       string
	elements []Element
	edges    [][]int
	index    map[string]int
}

// New creates an empty network. An empty id selects [DefaultNetworkID].
// The id is not validated; use [NewChecked] for untrusted input.
func New(id string) *Network {
	if id == "" {
		id = DefaultNetworkID
	}
	return &Network{
		id:    id,
		index: make(map[string]int),
	}
}

// NewChecked is like New but rejects ids that cannot be rendered as an ANML
// attribute.
func NewChecked(id string) (*Network, error) {
	if id != "" {
		if err := apperr.ValidateIdentifier("network", id); err != nil {
			return nil, err
		}
	}
	return New(id), nil
}

// ID returns the network identifier.
func (n *Network) ID() string { return n.id }

// Len returns the number of elements.
func (n *Network) Len() int { return len(n.elements) }

// EdgeCount returns the number of activation edges.
func (n *Network) EdgeCount() int {
	total := 0
	for _, out := range n.edges {
		total += len(out)
	}
	return total
}

// AddState validates s and adds a copy of it to the network.
//
// Returns an error matching [ErrInvalidIdentifier] for a bad ID or report
// code, [ErrInconsistentReport] when Reports and ReportCode disagree, and
// [ErrDuplicateIdentifier] when the ID is taken.
func (n *Network) AddState(s State) (Handle, error) {
	if err := apperr.ValidateIdentifier("state", s.ID); err != nil {
		return Handle{}, err
	}
	switch {
	case s.Reports && s.ReportCode == "":
		return Handle{}, apperr.New(apperr.ErrCodeInconsistentReport, "state %q reports but has no report code", s.ID)
	case !s.Reports && s.ReportCode != "":
		return Handle{}, apperr.New(apperr.ErrCodeInconsistentReport, "state %q has report code %q but does not report", s.ID, s.ReportCode)
	}
	if s.Reports {
		if err := apperr.ValidateIdentifier("report code", s.ReportCode); err != nil {
			return Handle{}, apperr.Wrap(apperr.ErrCodeInvalidIdentifier, err, "state %q", s.ID)
		}
	}
	if s.Start < StartNone || s.Start > StartOfData {
		return Handle{}, apperr.New(apperr.ErrCodeInvalidInput, "state %q: unknown start kind %d", s.ID, int(s.Start))
	}
	return n.add(s.clone())
}

// AddCounter validates c and adds a copy of it to the network.
//
// Returns an error matching [ErrInvalidIdentifier] for a bad ID,
// [ErrInvalidTarget] for a target below 1, and [ErrDuplicateIdentifier]
// when the ID is taken.
func (n *Network) AddCounter(c Counter) (Handle, error) {
	if err := apperr.ValidateIdentifier("counter", c.ID); err != nil {
		return Handle{}, err
	}
	if c.Target <= 0 {
		return Handle{}, apperr.New(apperr.ErrCodeInvalidTarget, "counter %q: target %d must be positive", c.ID, c.Target)
	}
	if c.AtTarget < AtTargetPulse || c.AtTarget > AtTargetRoll {
		return Handle{}, apperr.New(apperr.ErrCodeInvalidInput, "counter %q: unknown at-target mode %d", c.ID, int(c.AtTarget))
	}
	return n.add(c.clone())
}

func (n *Network) add(el Element) (Handle, error) {
	id := el.ElementID()
	if _, exists := n.index[id]; exists {
		return Handle{}, apperr.New(apperr.ErrCodeDuplicateIdentifier, "element %q already exists in network %q", id, n.id)
	}
	idx := len(n.elements)
	n.elements = append(n.elements, el)
	n.edges = append(n.edges, nil)
	n.index[id] = idx
	return Handle{net: n, idx: idx}, nil
}

// Connect appends an activation edge from one element to another.
// Edges keep insertion order; duplicates and self-loops are allowed.
// Returns an error matching [ErrTypeMismatch] if either handle does not
// belong to n.
func (n *Network) Connect(from, to Handle) error {
	if err := n.check(from, "source"); err != nil {
		return err
	}
	if err := n.check(to, "target"); err != nil {
		return err
	}
	n.edges[from.idx] = append(n.edges[from.idx], to.idx)
	return nil
}

// ConnectAll appends edges from one element to each target in order.
// Either every edge is added or, on error, none are.
func (n *Network) ConnectAll(from Handle, to []Handle) error {
	if err := n.check(from, "source"); err != nil {
		return err
	}
	for _, h := range to {
		if err := n.check(h, "target"); err != nil {
			return err
		}
	}
	for _, h := range to {
		n.edges[from.idx] = append(n.edges[from.idx], h.idx)
	}
	return nil
}

func (n *Network) check(h Handle, role string) error {
	if h.net != n || h.idx < 0 || h.idx >= len(n.elements) {
		return apperr.New(apperr.ErrCodeTypeMismatch, "%s handle does not belong to network %q", role, n.id)
	}
	return nil
}

// Lookup returns the handle of the element with the given ID.
func (n *Network) Lookup(id string) (Handle, bool) {
	idx, ok := n.index[id]
	if !ok {
		return Handle{}, false
	}
	return Handle{net: n, idx: idx}, true
}

// Element returns a copy of the element referred to by h.
func (n *Network) Element(h Handle) (Element, error) {
	if err := n.check(h, "element"); err != nil {
		return nil, err
	}
	return cloneElement(n.elements[h.idx]), nil
}

// Elements returns copies of all elements in insertion order.
func (n *Network) Elements() []Element {
	out := make([]Element, len(n.elements))
	for i, el := range n.elements {
		out[i] = cloneElement(el)
	}
	return out
}

// Handles returns a handle for every element in insertion order.
func (n *Network) Handles() []Handle {
	out := make([]Handle, len(n.elements))
	for i := range n.elements {
		out[i] = Handle{net: n, idx: i}
	}
	return out
}

// Successors returns the activation targets of h in edge order.
// An invalid handle yields nil.
func (n *Network) Successors(h Handle) []Handle {
	if n.check(h, "element") != nil {
		return nil
	}
	out := make([]Handle, len(n.edges[h.idx]))
	for i, idx := range n.edges[h.idx] {
		out[i] = Handle{net: n, idx: idx}
	}
	return out
}

// SuccessorIDs returns the IDs of h's activation targets in edge order.
func (n *Network) SuccessorIDs(h Handle) []string {
	if n.check(h, "element") != nil {
		return nil
	}
	out := make([]string, len(n.edges[h.idx]))
	for i, idx := range n.edges[h.idx] {
		out[i] = n.elements[idx].ElementID()
	}
	return out
}

// Stats counts the network's elements by kind and role.
func (n *Network) Stats() Stats {
	st := Stats{Edges: n.EdgeCount()}
	for _, el := range n.elements {
		switch e := el.(type) {
		case *State:
			st.States++
			if e.Start.IsStart() {
				st.Starts++
			}
			if e.Reports {
				st.Reporting++
			}
		case *Counter:
			st.Counters++
		}
	}
	return st
}

func cloneElement(el Element) Element {
	switch e := el.(type) {
	case *State:
		return e.clone()
	case *Counter:
		return e.clone()
	}
	return el
}

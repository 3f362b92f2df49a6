package dot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tjt7a/anml/pkg/automata"
	apperr "github.com/tjt7a/anml/pkg/errors"
	"github.com/tjt7a/anml/pkg/symbolset"
)

// DefaultSentinel is the id of the reserved start node in NFA dumps.
const DefaultSentinel = "0"

// Payload markers with special meaning.
const (
	markerStart         = "START"
	markerStartDotStar  = "START-DS"
	markerAccept        = "ACCEPT"
	markerAcceptEOD     = "ACCEPT-EOD"
	wildcard            = "*"
	labelFieldSeparator = "\n\n"
	acceptShape         = "doublecircle"
)

var (
	// ErrMalformedLabel is returned when a node label does not split into
	// an index and a payload.
	ErrMalformedLabel = apperr.New(apperr.ErrCodeMalformedLabel, "malformed node label")

	// ErrLabelMismatch is returned when the index embedded in a label does
	// not equal the node id.
	ErrLabelMismatch = apperr.New(apperr.ErrCodeLabelMismatch, "label index does not match node id")

	// ErrDuplicateAccept is returned when a node is marked accepting both by
	// its shape and by an ACCEPT payload.
	ErrDuplicateAccept = apperr.New(apperr.ErrCodeDuplicateAccept, "node marked accepting twice")
)

// Options configures [Import].
type Options struct {
	// NetworkID names the resulting network. Defaults to automata.DefaultNetworkID.
	NetworkID string

	// Sentinel is the id of the reserved start node. Defaults to DefaultSentinel.
	Sentinel string

	// StartKind is assigned to sentinel successors. automata.StartNone
	// selects the default, automata.StartAllInput.
	StartKind automata.StartKind
}

func (o Options) withDefaults() Options {
	if o.Sentinel == "" {
		o.Sentinel = DefaultSentinel
	}
	if o.StartKind == automata.StartNone {
		o.StartKind = automata.StartAllInput
	}
	return o
}

// classified is a node that survived label parsing.
type classified struct {
	id        string
	payload   string
	accepting bool
}

// Import builds a network from an NFA dump.
//
// Every node other than the sentinel becomes a State unless its payload is
// START-DS or ACCEPT-EOD. Sentinel successors start with opts.StartKind.
// Accepting nodes report with their id as report code. Edges keep document
// order; edges touching the sentinel or a dropped node are skipped.
//
// Errors match [ErrMalformedLabel], [ErrLabelMismatch], [ErrDuplicateAccept]
// or one of the automata construction errors, and always name the node.
func Import(doc *Document, opts Options) (*automata.Network, error) {
	opts = opts.withDefaults()

	net, err := automata.NewChecked(opts.NetworkID)
	if err != nil {
		return nil, err
	}

	starts := make(map[string]bool)
	for _, e := range doc.Edges {
		if e.From == opts.Sentinel {
			starts[e.To] = true
		}
	}

	handles := make(map[string]automata.Handle, len(doc.Nodes))
	for _, n := range doc.Nodes {
		if n.ID == opts.Sentinel {
			continue
		}
		c, keep, err := classify(n)
		if err != nil {
			return nil, err
		}
		if !keep {
			continue
		}

		s := automata.State{
			ID:      c.id,
			Symbols: automata.SymbolSet{symbolset.Sanitize(c.payload)},
		}
		if starts[c.id] {
			s.Start = opts.StartKind
		}
		if c.accepting {
			s.Reports = true
			s.ReportCode = c.id
		}
		h, err := net.AddState(s)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
		handles[c.id] = h
	}

	for _, e := range doc.Edges {
		if e.From == opts.Sentinel {
			continue
		}
		from, ok := handles[e.From]
		if !ok {
			continue
		}
		to, ok := handles[e.To]
		if !ok {
			continue
		}
		if err := net.Connect(from, to); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}

	return net, nil
}

// classify parses a node label. keep is false for nodes that are dropped.
func classify(n Node) (c classified, keep bool, err error) {
	label, ok := n.Attrs["label"]
	if !ok {
		return c, false, apperr.New(apperr.ErrCodeMalformedLabel, "node %s: missing label", n.ID)
	}

	fields := strings.Split(label, labelFieldSeparator)
	if len(fields) < 2 {
		return c, false, apperr.New(apperr.ErrCodeMalformedLabel, "node %s: label %q has no payload field", n.ID, label)
	}
	if index := strings.TrimSpace(fields[0]); index != n.ID {
		return c, false, apperr.New(apperr.ErrCodeLabelMismatch, "node %s: label index %q does not match node id", n.ID, index)
	}

	c.id = n.ID
	c.payload = fields[1]
	c.accepting = drawnAccepting(n)

	switch c.payload {
	case markerStartDotStar, markerAcceptEOD:
		return c, false, nil
	case markerStart:
		c.payload = wildcard
	case markerAccept:
		if c.accepting {
			return c, false, apperr.New(apperr.ErrCodeDuplicateAccept, "node %s: labeled %s and drawn as %s", n.ID, markerAccept, acceptShape)
		}
		c.accepting = true
		c.payload = wildcard
	}
	return c, true, nil
}

// drawnAccepting reports whether a node is drawn as an accepting state:
// a doublecircle, or any shape with two or more peripheries.
func drawnAccepting(n Node) bool {
	if n.Attr("shape") == acceptShape {
		return true
	}
	p, err := strconv.Atoi(strings.TrimSpace(n.Attr("peripheries")))
	return err == nil && p >= 2
}

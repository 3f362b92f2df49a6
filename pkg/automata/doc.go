// Package automata provides the element graph behind an ANML automata network.
//
// # Overview
//
// A [Network] owns a flat arena of elements. Two element kinds exist:
//
//   - [State]: a state-transition element (STE) that matches one input symbol
//     against its [SymbolSet], may be a start state, and may report.
//   - [Counter]: counts activations and fires when it reaches its target.
//
// Elements are referred to by [Handle] values returned from [Network.AddState]
// and [Network.AddCounter]. Edges are stored as pairs of arena indices, so
// cycles and self-loops are ordinary data and no element ever owns another.
//
// # Building a Network
//
//	n := automata.New("an1")
//	a, _ := n.AddState(automata.State{ID: "a", Symbols: automata.SymbolSet{"[a]"}, Start: automata.StartAllInput})
//	b, _ := n.AddState(automata.State{ID: "b", Symbols: automata.SymbolSet{"[b]"}, Reports: true, ReportCode: "b"})
//	_ = n.Connect(a, b)
//
// # Validation
//
// Every constructor validates its input and returns a structured error from
// [github.com/tjt7a/anml/pkg/errors]. The package-level sentinels
// ([ErrInvalidIdentifier], [ErrInconsistentReport], ...) match any error of
// the same code under [errors.Is]:
//
//	if errors.Is(err, automata.ErrInvalidTarget) {
//	    // counter target was zero or negative
//	}
//
// # Ownership
//
// Elements cannot be removed and identifiers are immutable once added. Query
// methods return copies; mutating a returned [State] has no effect on the
// network. A Network is not safe for concurrent mutation.
package automata

// Package dot imports NFA graph dumps in Graphviz DOT format.
//
// # Overview
//
// NFA compilers such as Hyperscan dump their automata as DOT. Each node
// carries a label of the form
//
//	<index>\n\n<payload>[\n\n<more fields>]
//
// where index repeats the node id and payload is either a character class
// or one of the markers START, START-DS, ACCEPT and ACCEPT-EOD. Accepting
// nodes may instead be drawn with shape=doublecircle or with two or more
// peripheries. A reserved sentinel node (id "0" by default) is not part of
// the automaton; its successors are the real start states.
//
// Import happens in two steps:
//
//	doc, err := dot.ParseDOT(data)          // generic graph reader
//	net, err := dot.Import(doc, dot.Options{}) // start/accept reconstruction
//
// [ParseDOT] uses [github.com/goccy/go-graphviz] to parse the text into a
// [Document] of nodes and edges. [Import] then applies the label rules and
// builds an [automata.Network].
//
// # Label Rules
//
//   - START-DS and ACCEPT-EOD nodes are dropped, together with their edges.
//   - START becomes a wildcard (*) state; it is only a start state when it
//     is also a sentinel successor.
//   - ACCEPT becomes a wildcard reporting state.
//   - shape=doublecircle or peripheries>=2 marks a reporting state. A node
//     that is both drawn accepting and labeled ACCEPT is rejected as
//     DUPLICATE_ACCEPT.
//
// Reporting states use their node id as report code. Any label error is
// fatal; no partial network is returned.
package dot

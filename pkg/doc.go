// Package pkg provides the core libraries for building ANML automata networks.
//
// # Overview
//
// ANML (Automata Network Markup Language) describes networks of
// state-transition elements and counters for automata processors. The pkg
// directory turns NFA graph dumps into ANML documents and back:
//
//  1. [automata] - The element model and the network arena
//  2. [symbolset] - Escaping of symbol-set text for markup
//  3. [dot] and [anml] - Importers and exporters
//  4. [pipeline] - Orchestration (import → export, with caching)
//
// # Architecture
//
// The typical data flow:
//
//	NFA graph dump (DOT)          ANML document
//	         ↓                          ↓
//	    [dot] package              [anml] package
//	         ↘                        ↙
//	       [automata] package (Network)
//	         ↓                        ↓
//	  [anml] export           [render/nodelink] diagram
//	         ↓                        ↓
//	     .anml file              DOT/SVG/PNG
//
// # Quick Start
//
// Convert a graph dump into ANML:
//
//	doc, _ := dot.ImportDOT("regex.dot")
//	n, _ := dot.Import(doc, dot.Options{StartKind: automata.StartOfData})
//	_ = anml.ExportANML(n, "regex.anml")
//
// Build a network by hand:
//
//	n := automata.New("an1")
//	a, _ := n.AddState(automata.State{ID: "a", Symbols: automata.SymbolSet{"[a-z]"}, Start: automata.StartAllInput})
//	b, _ := n.AddState(automata.State{ID: "b", Symbols: automata.SymbolSet{"!"}, Reports: true, ReportCode: "1"})
//	_ = n.Connect(a, b)
//	fmt.Print(anml.Render(n))
//
// # Main Packages
//
// [automata] - States and counters in an insertion-ordered arena. Elements
// are addressed by [automata.Handle]; activation edges keep insertion order
// and allow duplicates and self-loops.
//
// [symbolset] - The sanitizer applied to symbol-set text before it is
// written into an attribute value.
//
// [dot] - Reads NFA graph dumps with go-graphviz and classifies nodes by
// their label payload (START, ACCEPT, START-DS, ACCEPT-EOD).
//
// [anml] - Writes ANML documents and reads state records back.
//
// [render/nodelink] - Node-link diagrams rendered in-process with Graphviz.
//
// ## Infrastructure
//
// [pipeline] - Import and export shared by every CLI command.
//
// [cache] - Artifact cache keyed by input hash and options. FileCache for
// the CLI, NullCache when caching is off.
//
// [config] - TOML configuration file.
//
// [observability] - Optional hooks for conversions and cache events.
//
// [errors] - Structured error codes shared by all packages.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/symbolset    # Specific package
//	go test -run Example ./... # Examples only
//
// [automata]: https://pkg.go.dev/github.com/tjt7a/anml/pkg/automata
// [symbolset]: https://pkg.go.dev/github.com/tjt7a/anml/pkg/symbolset
// [dot]: https://pkg.go.dev/github.com/tjt7a/anml/pkg/dot
// [anml]: https://pkg.go.dev/github.com/tjt7a/anml/pkg/anml
// [render/nodelink]: https://pkg.go.dev/github.com/tjt7a/anml/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/tjt7a/anml/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/tjt7a/anml/pkg/cache
// [config]: https://pkg.go.dev/github.com/tjt7a/anml/pkg/config
// [observability]: https://pkg.go.dev/github.com/tjt7a/anml/pkg/observability
// [errors]: https://pkg.go.dev/github.com/tjt7a/anml/pkg/errors
package pkg

// Package anml reads and writes ANML, the XML dialect used to configure
// automata-processing hardware.
//
// # Writing
//
// [WriteANML] renders an [automata.Network] using a fixed, tab-indented
// grammar. Attribute order and whitespace never vary, so the same network
// always produces the same bytes:
//
//	<anml version="1.0"  xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
//		<automata-network id="an1">
//			<state-transition-element id="0" symbol-set="\xFF" start="all-input">
//				<activate-on-match element="1"/>
//			</state-transition-element>
//			<state-transition-element id="1" symbol-set="\x01">
//				<report-on-match reportcode="1"/>
//			</state-transition-element>
//		</automata-network>
//	</anml>
//
// Symbol sets are passed through [symbolset.Sanitize]; identifiers are
// emitted verbatim, which is safe because the network validates them on
// insertion.
//
// # Reading
//
// [ReadANML] is a best-effort state inventory: it collects the id,
// symbol-set and start attributes of every state-transition-element in a
// document. Edges, counters and report codes are not reconstructed.
// [Rebuild] and [ReadANMLNetwork] turn that inventory back into a network
// of unconnected states.
//
// [ImportANML] and [ExportANML] are path-based convenience wrappers.
package anml

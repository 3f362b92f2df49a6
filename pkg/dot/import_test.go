package dot

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/tjt7a/anml/pkg/automata"
	apperr "github.com/tjt7a/anml/pkg/errors"
)

func node(id, label string, attrs ...string) Node {
	n := Node{ID: id, Attrs: map[string]string{"label": label}}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attrs[attrs[i]] = attrs[i+1]
	}
	return n
}

func states(t *testing.T, n *automata.Network) map[string]*automata.State {
	t.Helper()
	out := make(map[string]*automata.State)
	for _, el := range n.Elements() {
		s, ok := el.(*automata.State)
		if !ok {
			t.Fatalf("unexpected element %T", el)
		}
		out[s.ID] = s
	}
	return out
}

func TestImportTwoNodeScenario(t *testing.T) {
	doc := &Document{
		Nodes: []Node{
			node("0", "0\n\nSTART\n\n"),
			node("1", "1\n\n\\x01\n\n", "shape", "doublecircle"),
		},
		Edges: []Edge{{From: "0", To: "1"}},
	}

	net, err := Import(doc, Options{})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if net.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", net.Len())
	}

	s := states(t, net)["1"]
	if s == nil {
		t.Fatal("state 1 missing")
	}
	if s.Start != automata.StartAllInput {
		t.Errorf("Start = %v, want all-input", s.Start)
	}
	if s.Symbols.String() != `\x01` {
		t.Errorf("Symbols = %q", s.Symbols.String())
	}
	if !s.Reports || s.ReportCode != "1" {
		t.Errorf("Reports = %v, ReportCode = %q", s.Reports, s.ReportCode)
	}
}

func TestImportStartSetIsSentinelSuccessors(t *testing.T) {
	doc := &Document{
		Nodes: []Node{
			node("0", "0\n\nSTART"),
			node("1", "1\n\n[a]"),
			node("2", "2\n\n[b]"),
			node("3", "3\n\nSTART"), // not a sentinel successor
			node("4", "4\n\n[c]"),
		},
		Edges: []Edge{
			{From: "0", To: "1"},
			{From: "0", To: "2"},
			{From: "3", To: "4"},
		},
	}

	net, err := Import(doc, Options{})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	var got []string
	for id, s := range states(t, net) {
		if s.Start.IsStart() {
			got = append(got, id)
		}
	}
	slices.Sort(got)
	if !slices.Equal(got, []string{"1", "2"}) {
		t.Errorf("start set = %v, want [1 2]", got)
	}
	if sym := states(t, net)["3"].Symbols.String(); sym != "*" {
		t.Errorf("START payload should become wildcard, got %q", sym)
	}
}

func TestImportDropsMarkerNodes(t *testing.T) {
	doc := &Document{
		Nodes: []Node{
			node("0", "0\n\nSTART"),
			node("1", "1\n\nSTART-DS"),
			node("2", "2\n\n[a]"),
			node("3", "3\n\nACCEPT"),
			node("4", "4\n\nACCEPT-EOD"),
		},
		Edges: []Edge{
			{From: "0", To: "2"},
			{From: "1", To: "2"},
			{From: "2", To: "3"},
			{From: "2", To: "4"},
			{From: "2", To: "2"},
		},
	}

	net, err := Import(doc, Options{NetworkID: "nfa"})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if net.ID() != "nfa" {
		t.Errorf("ID() = %q", net.ID())
	}

	ss := states(t, net)
	if len(ss) != 2 {
		t.Fatalf("states = %v, want 2 and 3 only", ss)
	}
	if ss["3"].Symbols.String() != "*" || !ss["3"].Reports || ss["3"].ReportCode != "3" {
		t.Errorf("ACCEPT node = %+v", ss["3"])
	}

	h, _ := net.Lookup("2")
	if got := net.SuccessorIDs(h); !slices.Equal(got, []string{"3", "2"}) {
		t.Errorf("SuccessorIDs(2) = %v, want [3 2]", got)
	}
}

func TestImportSanitizesPayload(t *testing.T) {
	doc := &Document{Nodes: []Node{node("5", "5\n\n[<&>]")}}
	net, err := Import(doc, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got := states(t, net)["5"].Symbols.String(); got != `[\x3C\x26\x3E]` {
		t.Errorf("Symbols = %q", got)
	}
}

func TestImportOptions(t *testing.T) {
	doc := &Document{
		Nodes: []Node{
			node("0", "0\n\n[x]"),
			node("s", "whatever"),
		},
		Edges: []Edge{{From: "s", To: "0"}},
	}

	net, err := Import(doc, Options{Sentinel: "s", StartKind: automata.StartOfData})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if s := states(t, net)["0"]; s == nil || s.Start != automata.StartOfData {
		t.Errorf("state 0 = %+v, want start-of-data", s)
	}
}

func TestImportErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     *Document
		wantErr error
		nodeID  string
	}{
		{
			name:    "no separator",
			doc:     &Document{Nodes: []Node{node("1", "1 [a]")}},
			wantErr: ErrMalformedLabel,
			nodeID:  "1",
		},
		{
			name:    "default label",
			doc:     &Document{Nodes: []Node{node("7", `\N`)}},
			wantErr: ErrMalformedLabel,
			nodeID:  "7",
		},
		{
			name:    "missing label",
			doc:     &Document{Nodes: []Node{{ID: "8", Attrs: map[string]string{}}}},
			wantErr: ErrMalformedLabel,
			nodeID:  "8",
		},
		{
			name:    "index mismatch",
			doc:     &Document{Nodes: []Node{node("2", "3\n\n[a]")}},
			wantErr: ErrLabelMismatch,
			nodeID:  "2",
		},
		{
			name:    "double accept",
			doc:     &Document{Nodes: []Node{node("4", "4\n\nACCEPT", "shape", "doublecircle")}},
			wantErr: ErrDuplicateAccept,
			nodeID:  "4",
		},
		{
			name:    "double accept by peripheries",
			doc:     &Document{Nodes: []Node{node("5", "5\n\nACCEPT", "peripheries", "2")}},
			wantErr: ErrDuplicateAccept,
			nodeID:  "5",
		},
		{
			name:    "unsafe node id",
			doc:     &Document{Nodes: []Node{node(`a"b`, "a\"b\n\n[a]")}},
			wantErr: automata.ErrInvalidIdentifier,
			nodeID:  `a"b`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net, err := Import(tt.doc, Options{})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Import() error = %v, want %v", err, tt.wantErr)
			}
			if net != nil {
				t.Error("Import should not return a partial network")
			}
			if !strings.Contains(err.Error(), tt.nodeID) {
				t.Errorf("error %q should name node %s", err, tt.nodeID)
			}
		})
	}
}

func TestImportPeripheriesAccept(t *testing.T) {
	doc := &Document{
		Nodes: []Node{
			node("0", "0\n\nSTART\n\n"),
			node("1", "1\n\n[a]\n\n", "peripheries", "2"),
			node("2", "2\n\n[b]\n\n", "peripheries", "1"),
			node("3", "3\n\n[c]\n\n", "peripheries", "many"),
		},
		Edges: []Edge{{From: "0", To: "1"}, {From: "1", To: "2"}, {From: "2", To: "3"}},
	}

	net, err := Import(doc, Options{})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	got := states(t, net)
	if !got["1"].Reports || got["1"].ReportCode != "1" {
		t.Errorf("state 1 with two peripheries should report: %+v", got["1"])
	}
	for _, id := range []string{"2", "3"} {
		if got[id].Reports {
			t.Errorf("state %s should not report", id)
		}
	}
}

func TestImportBadNetworkID(t *testing.T) {
	_, err := Import(&Document{}, Options{NetworkID: "<net>"})
	if !apperr.Is(err, apperr.ErrCodeInvalidIdentifier) {
		t.Errorf("Import() error = %v, want INVALID_IDENTIFIER", err)
	}
}

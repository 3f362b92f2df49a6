package dot

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	apperr "github.com/tjt7a/anml/pkg/errors"
)

// Node is a DOT node with the attributes the importer reads.
type Node struct {
	ID    string
	Attrs map[string]string
}

// Attr returns the value of an attribute, or "" if unset.
func (n Node) Attr(key string) string { return n.Attrs[key] }

// Edge is a directed DOT edge between two node ids.
type Edge struct {
	From string
	To   string
}

// Document is a parsed DOT graph. Nodes keep declaration order; edges are
// grouped by source node in declaration order.
type Document struct {
	Nodes []Node
	Edges []Edge
}

// attrKeys lists the node attributes copied into a Document.
var attrKeys = []string{"label", "shape", "peripheries"}

// parseMu serializes access to the embedded Graphviz runtime.
var parseMu sync.Mutex

// ReadDOT parses DOT text from r. ReadDOT does not close r.
func ReadDOT(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return ParseDOT(data)
}

// ImportDOT parses the DOT file at path.
func ImportDOT(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperr.Wrap(apperr.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseDOT(data)
}

// ParseDOT parses DOT text into a Document. Label escape sequences \n, \l
// and \r are decoded to newlines and \\ to a single backslash.
// Parse failures are reported as INVALID_FORMAT.
func ParseDOT(data []byte) (*Document, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, apperr.New(apperr.ErrCodeInvalidFormat, "parse DOT: empty input")
	}

	parseMu.Lock()
	defer parseMu.Unlock()

	g, err := graphviz.ParseBytes(data)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "parse DOT")
	}
	if g == nil {
		return nil, apperr.New(apperr.ErrCodeInvalidFormat, "parse DOT: no graph found")
	}
	defer g.Close()

	doc, err := collect(g)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "read DOT graph")
	}
	return doc, nil
}

func collect(g *cgraph.Graph) (*Document, error) {
	doc := &Document{}

	n, err := g.FirstNode()
	for ; n != nil && err == nil; n, err = g.NextNode(n) {
		node, err := toNode(n)
		if err != nil {
			return nil, err
		}
		doc.Nodes = append(doc.Nodes, node)

		e, err := g.FirstOut(n)
		for ; e != nil && err == nil; e, err = g.NextOut(e) {
			head, err := e.Head()
			if err != nil {
				return nil, fmt.Errorf("edge from %s: %w", node.ID, err)
			}
			to, err := head.Name()
			if err != nil {
				return nil, fmt.Errorf("edge from %s: %w", node.ID, err)
			}
			doc.Edges = append(doc.Edges, Edge{From: node.ID, To: to})
		}
		if err != nil {
			return nil, fmt.Errorf("edges of %s: %w", node.ID, err)
		}
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func toNode(n *cgraph.Node) (Node, error) {
	id, err := n.Name()
	if err != nil {
		return Node{}, fmt.Errorf("node name: %w", err)
	}
	attrs := make(map[string]string, len(attrKeys))
	for _, k := range attrKeys {
		if v := n.GetStr(k); v != "" {
			attrs[k] = v
		}
	}
	if label, ok := attrs["label"]; ok {
		attrs["label"] = decodeEscapes(label)
	}
	return Node{ID: id, Attrs: attrs}, nil
}

// decodeEscapes turns DOT escString line breaks into newlines. Other
// backslash sequences are left untouched so regex escapes such as \x01 or
// \[ in character classes survive.
func decodeEscapes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		switch s[i+1] {
		case 'n', 'l', 'r':
			b.WriteByte('\n')
			i++
		case '\\':
			b.WriteByte('\\')
			i++
		default:
			b.WriteByte('\\')
		}
	}
	return b.String()
}

package anml

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/tjt7a/anml/pkg/automata"
	"github.com/tjt7a/anml/pkg/symbolset"
)

const (
	rootOpen  = `<anml version="1.0"  xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`
	rootClose = `</anml>`
)

// builder emits the fixed ANML grammar one indented line at a time.
type builder struct {
	buf bytes.Buffer
}

func (b *builder) line(depth int, format string, args ...any) {
	for range depth {
		b.buf.WriteByte('\t')
	}
	fmt.Fprintf(&b.buf, format, args...)
	b.buf.WriteByte('\n')
}

func (b *builder) state(n *automata.Network, h automata.Handle, s *automata.State) {
	if s.Start.IsStart() {
		b.line(2, `<state-transition-element id="%s" symbol-set="%s" start="%s">`,
			s.ID, symbolset.Sanitize(s.Symbols.String()), s.Start)
	} else {
		b.line(2, `<state-transition-element id="%s" symbol-set="%s">`,
			s.ID, symbolset.Sanitize(s.Symbols.String()))
	}
	if s.Reports {
		b.line(3, `<report-on-match reportcode="%s"/>`, s.ReportCode)
	}
	for _, id := range n.SuccessorIDs(h) {
		b.line(3, `<activate-on-match element="%s"/>`, id)
	}
	b.line(2, `</state-transition-element>`)
}

func (b *builder) counter(n *automata.Network, h automata.Handle, c *automata.Counter) {
	b.line(2, `<counter at-target="%s" target="%d" id="%s">`, c.AtTarget, c.Target, c.ID)
	for _, id := range n.SuccessorIDs(h) {
		b.line(3, `<activate-on-target element="%s"/>`, id)
	}
	b.line(2, `</counter>`)
}

// Render returns the ANML text for n.
func Render(n *automata.Network) string {
	var b builder
	b.line(0, "%s", rootOpen)
	b.line(1, `<automata-network id="%s">`, n.ID())
	for _, h := range n.Handles() {
		el, err := n.Element(h)
		if err != nil {
			continue
		}
		switch e := el.(type) {
		case *automata.State:
			b.state(n, h, e)
		case *automata.Counter:
			b.counter(n, h, e)
		}
	}
	b.line(1, `</automata-network>`)
	b.line(0, "%s", rootClose)
	return b.buf.String()
}

// WriteANML renders n as ANML and writes it to w in a single write.
func WriteANML(n *automata.Network, w io.Writer) error {
	if _, err := io.WriteString(w, Render(n)); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// ExportANML writes n to an ANML file at path.
// This is a convenience wrapper around [WriteANML] for file-based output.
func ExportANML(n *automata.Network, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteANML(n, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

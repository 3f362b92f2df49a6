package anml

import (
	"fmt"
	"io"
	"os"

	"github.com/beevik/etree"

	"github.com/tjt7a/anml/pkg/automata"
	apperr "github.com/tjt7a/anml/pkg/errors"
)

// StateRecord is the subset of a state-transition-element that [ReadANML]
// recovers.
type StateRecord struct {
	ID        string
	SymbolSet string
	Start     automata.StartKind
}

// ReadANML parses an ANML document from r and returns one record per
// state-transition-element, in document order. Elements are found at any
// depth. A missing start attribute is treated as "none"; an unrecognized
// one is an INVALID_FORMAT error naming the element.
//
// ReadANML does not close r.
func ReadANML(r io.Reader) ([]StateRecord, error) {
	_, records, err := read(r)
	return records, err
}

// ReadANMLNetwork parses an ANML document and rebuilds its states into a
// network named after the document's automata-network element.
func ReadANMLNetwork(r io.Reader) (*automata.Network, error) {
	id, records, err := read(r)
	if err != nil {
		return nil, err
	}
	return Rebuild(id, records)
}

// ImportANML reads the ANML file at path.
func ImportANML(path string) ([]StateRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperr.Wrap(apperr.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadANML(f)
}

// Rebuild creates a network containing one unconnected State per record.
// An empty networkID selects [automata.DefaultNetworkID].
func Rebuild(networkID string, records []StateRecord) (*automata.Network, error) {
	n, err := automata.NewChecked(networkID)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		s := automata.State{ID: rec.ID, Start: rec.Start}
		if rec.SymbolSet != "" {
			s.Symbols = automata.SymbolSet{rec.SymbolSet}
		}
		if _, err := n.AddState(s); err != nil {
			return nil, fmt.Errorf("state %s: %w", rec.ID, err)
		}
	}
	return n, nil
}

func read(r io.Reader) (string, []StateRecord, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return "", nil, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "parse ANML")
	}
	if doc.Root() == nil {
		return "", nil, apperr.New(apperr.ErrCodeInvalidFormat, "parse ANML: document has no root element")
	}

	var networkID string
	if net := doc.FindElement("//automata-network"); net != nil {
		networkID = net.SelectAttrValue("id", "")
	}

	var records []StateRecord
	for _, el := range doc.FindElements("//state-transition-element") {
		id := el.SelectAttrValue("id", "")
		start, err := automata.ParseStartKind(el.SelectAttrValue("start", "none"))
		if err != nil {
			return "", nil, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "state-transition-element %q", id)
		}
		records = append(records, StateRecord{
			ID:        id,
			SymbolSet: el.SelectAttrValue("symbol-set", ""),
			Start:     start,
		})
	}
	return networkID, records, nil
}

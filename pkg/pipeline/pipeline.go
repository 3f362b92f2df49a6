// Package pipeline provides the conversion pipeline shared by the anml
// commands.
//
// The pipeline has two stages:
//
//  1. Import: read an NFA graph dump (DOT) or an ANML document into an
//     [automata.Network]. Import always runs, so malformed input is reported
//     even when every artifact is cached.
//  2. Export: produce the requested artifacts (ANML markup, a visualization
//     DOT, SVG or PNG). Artifacts are cached by input hash and options.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Convert(ctx, pipeline.Options{
//	    Input:   "regex.dot",
//	    Formats: []string{"anml", "svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	markup := result.Artifacts["anml"]
package pipeline

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tjt7a/anml/pkg/automata"
	"github.com/tjt7a/anml/pkg/cache"
	"github.com/tjt7a/anml/pkg/dot"
	apperr "github.com/tjt7a/anml/pkg/errors"
)

// Input formats.
const (
	InputDOT  = "dot"
	InputANML = "anml"
)

// Output formats.
const (
	FormatANML = "anml"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// DefaultFormat is produced when no format is requested.
const DefaultFormat = FormatANML

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatANML: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// ValidInputFormats is the set of supported input formats.
var ValidInputFormats = map[string]bool{
	InputDOT:  true,
	InputANML: true,
}

// Extensions maps output formats to file extensions.
var Extensions = map[string]string{
	FormatANML: ".anml",
	FormatDOT:  ".dot",
	FormatSVG:  ".svg",
	FormatPNG:  ".png",
}

// Options configures a pipeline run.
type Options struct {
	// Input is the path of the file to convert. Ignored when Data is set,
	// except for format detection and messages.
	Input string
	// Data holds the input bytes directly.
	Data []byte
	// InputFormat is "dot" or "anml". Detected from Input or Data when empty.
	InputFormat string

	// NetworkID names the imported network. Empty keeps the importer
	// default (the document's own id for ANML, an1 for DOT).
	NetworkID string
	// Sentinel is the reserved start node of a DOT dump.
	Sentinel string
	// StartKind is assigned to start states of a DOT dump.
	StartKind string

	Formats  []string
	Detailed bool
	Refresh  bool

	Logger *log.Logger

	start     automata.StartKind
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Network is the imported automata network.
	Network *automata.Network

	// InputHash is the SHA-256 of the input bytes.
	InputHash string

	// Artifacts contains the outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	automata.Stats
	Elements   int
	ImportTime time.Duration
	ExportTime time.Duration
}

// CacheInfo tracks cache usage during export.
type CacheInfo struct {
	Hits      []string // Formats served from the cache
	ExportHit bool     // Whether every artifact came from the cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return apperr.New(apperr.ErrCodeInvalidInput, "invalid format: %q (must be one of: anml, dot, svg, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// DetectInputFormat guesses the input format from a file extension, falling
// back to the first non-blank byte of data: ANML documents start with '<'.
func DetectInputFormat(path string, data []byte) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dot", ".gv":
		return InputDOT
	case ".anml", ".xml":
		return InputANML
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '<' {
		return InputANML
	}
	return InputDOT
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Input == "" && o.Data == nil {
		return apperr.New(apperr.ErrCodeInvalidInput, "input path or data is required")
	}
	if o.InputFormat == "" && o.Data != nil {
		o.InputFormat = DetectInputFormat(o.Input, o.Data)
	}
	if o.InputFormat != "" && !ValidInputFormats[o.InputFormat] {
		return apperr.New(apperr.ErrCodeInvalidInput, "invalid input format: %q (must be one of: dot, anml)", o.InputFormat)
	}
	if o.NetworkID != "" {
		if err := apperr.ValidateIdentifier("network", o.NetworkID); err != nil {
			return err
		}
	}

	start, err := automata.ParseStartKind(o.StartKind)
	if err != nil {
		return err
	}
	if start == automata.StartNone && o.StartKind != "" {
		return apperr.New(apperr.ErrCodeInvalidInput, "start kind %q cannot be used for start states", o.StartKind)
	}
	if start == automata.StartNone {
		start = automata.StartAllInput
	}
	o.start = start
	if o.Sentinel == "" {
		o.Sentinel = dot.DefaultSentinel
	}

	o.SetExportDefaults()
	o.Formats = dedupe(o.Formats)
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetExportDefaults sets default values for export.
func (o *Options) SetExportDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

func dedupe(formats []string) []string {
	seen := make(map[string]bool, len(formats))
	out := formats[:0:0]
	for _, f := range formats {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

// ArtifactKeyOpts returns cache key options for one artifact.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:      format,
		InputFormat: o.InputFormat,
		NetworkID:   o.NetworkID,
		Sentinel:    o.Sentinel,
		StartKind:   o.start.String(),
		Detailed:    o.Detailed,
	}
}

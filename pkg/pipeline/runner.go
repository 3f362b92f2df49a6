package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tjt7a/anml/pkg/anml"
	"github.com/tjt7a/anml/pkg/automata"
	"github.com/tjt7a/anml/pkg/cache"
	"github.com/tjt7a/anml/pkg/dot"
	apperr "github.com/tjt7a/anml/pkg/errors"
	"github.com/tjt7a/anml/pkg/observability"
	"github.com/tjt7a/anml/pkg/render/nodelink"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is how long written artifacts stay valid. Zero never expires.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// TTL starts at cache.TTLArtifact.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.TTLArtifact,
	}
}

// Convert imports the input and produces every requested artifact.
func (r *Runner) Convert(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	data, err := r.load(&opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		InputHash: cache.Hash(data),
	}

	importStart := time.Now()
	n, err := r.importData(ctx, data, opts)
	if err != nil {
		return nil, err
	}
	result.Network = n
	result.Stats.Stats = n.Stats()
	result.Stats.Elements = n.Len()
	result.Stats.ImportTime = time.Since(importStart)

	r.Logger.Info("imported network",
		"id", n.ID(),
		"format", opts.InputFormat,
		"states", result.Stats.States,
		"counters", result.Stats.Counters,
		"edges", result.Stats.Edges,
		"duration", result.Stats.ImportTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	exportStart := time.Now()
	artifacts, hits, err := r.export(ctx, n, result.InputHash, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.ExportTime = time.Since(exportStart)
	result.CacheInfo.Hits = hits
	result.CacheInfo.ExportHit = len(hits) == len(opts.Formats)

	r.Logger.Info("exported artifacts",
		"formats", opts.Formats,
		"cached", len(hits),
		"duration", result.Stats.ExportTime)

	return result, nil
}

// Import reads the input into a network without exporting anything.
func (r *Runner) Import(ctx context.Context, opts Options) (*automata.Network, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	data, err := r.load(&opts)
	if err != nil {
		return nil, err
	}
	return r.importData(ctx, data, opts)
}

// Export produces the requested artifacts for an existing network. Nothing
// is cached since there is no input to key on.
func (r *Runner) Export(ctx context.Context, n *automata.Network, opts Options) (map[string][]byte, error) {
	opts.SetExportDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}
	return r.render(ctx, n, opts.Formats, opts)
}

// load returns the input bytes and fills in the detected input format.
func (r *Runner) load(opts *Options) ([]byte, error) {
	data := opts.Data
	if data == nil {
		var err error
		data, err = os.ReadFile(opts.Input)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.Wrap(apperr.ErrCodeFileNotFound, err, "input %s", opts.Input)
		}
		if err != nil {
			return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "read %s", opts.Input)
		}
	}
	if opts.InputFormat == "" {
		opts.InputFormat = DetectInputFormat(opts.Input, data)
	}
	return data, nil
}

func (r *Runner) importData(ctx context.Context, data []byte, opts Options) (n *automata.Network, err error) {
	source := opts.Input
	if source == "" {
		source = "<data>"
	}

	hooks := observability.Conversion()
	hooks.OnImportStart(ctx, opts.InputFormat, source)
	start := time.Now()
	defer func() {
		elements := 0
		if n != nil {
			elements = n.Len()
		}
		hooks.OnImportComplete(ctx, opts.InputFormat, elements, time.Since(start), err)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch opts.InputFormat {
	case InputDOT:
		doc, err := dot.ParseDOT(data)
		if err != nil {
			return nil, err
		}
		r.Logger.Debug("parsed graph dump", "nodes", len(doc.Nodes), "edges", len(doc.Edges))
		return dot.Import(doc, dot.Options{
			NetworkID: opts.NetworkID,
			Sentinel:  opts.Sentinel,
			StartKind: opts.start,
		})
	case InputANML:
		if opts.NetworkID == "" {
			return anml.ReadANMLNetwork(bytes.NewReader(data))
		}
		records, err := anml.ReadANML(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return anml.Rebuild(opts.NetworkID, records)
	}
	return nil, apperr.New(apperr.ErrCodeInvalidInput, "invalid input format: %q", opts.InputFormat)
}

// export serves artifacts from the cache where possible and renders the
// rest. It returns the formats that were cache hits.
func (r *Runner) export(ctx context.Context, n *automata.Network, inputHash string, opts Options) (map[string][]byte, []string, error) {
	cacheHooks := observability.Cache()
	artifacts := make(map[string][]byte, len(opts.Formats))
	var hits, missing []string

	for _, format := range opts.Formats {
		if _, seen := artifacts[format]; seen {
			continue
		}
		key := r.Keyer.ArtifactKey(inputHash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				cacheHooks.OnCacheHit(ctx, format)
				artifacts[format] = data
				hits = append(hits, format)
				continue
			}
		}
		cacheHooks.OnCacheMiss(ctx, format)
		missing = append(missing, format)
	}

	if len(missing) == 0 {
		return artifacts, hits, nil
	}

	rendered, err := r.render(ctx, n, missing, opts)
	if err != nil {
		return nil, nil, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(inputHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
			r.Logger.Debug("cache write failed", "format", format, "error", err)
			continue
		}
		cacheHooks.OnCacheSet(ctx, format, len(data))
	}

	return artifacts, hits, nil
}

func (r *Runner) render(ctx context.Context, n *automata.Network, formats []string, opts Options) (out map[string][]byte, err error) {
	hooks := observability.Conversion()
	hooks.OnExportStart(ctx, formats)
	start := time.Now()
	defer func() { hooks.OnExportComplete(ctx, formats, time.Since(start), err) }()

	out = make(map[string][]byte, len(formats))
	var graph string
	viz := func() string {
		if graph == "" {
			graph = nodelink.ToDOT(n, nodelink.Options{Detailed: opts.Detailed})
		}
		return graph
	}

	for _, format := range formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		switch format {
		case FormatANML:
			out[format] = []byte(anml.Render(n))
		case FormatDOT:
			out[format] = []byte(viz())
		case FormatSVG:
			data, err := nodelink.RenderSVG(viz())
			if err != nil {
				return nil, fmt.Errorf("render svg: %w", err)
			}
			out[format] = data
		case FormatPNG:
			data, err := nodelink.RenderPNG(viz())
			if err != nil {
				return nil, fmt.Errorf("render png: %w", err)
			}
			out[format] = data
		default:
			return nil, ValidateFormat(format)
		}
	}
	return out, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tjt7a/anml/pkg/automata"
	"github.com/tjt7a/anml/pkg/cache"
	apperr "github.com/tjt7a/anml/pkg/errors"
	"github.com/tjt7a/anml/pkg/observability"
)

const nfaDOT = `digraph NFA {
	0 [label="0\n\nSTART\n\n"];
	1 [label="1\n\na\n\n"];
	2 [label="2\n\n[b-c]\n\n", shape=doublecircle];
	0 -> 1;
	1 -> 2;
	2 -> 1;
}`

// memCache is an in-memory cache.Cache for tests.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
	ttl  time.Duration
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	c.ttl = ttl
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func TestConvertDOT(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Convert(context.Background(), Options{Data: []byte(nfaDOT)})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	if res.Network.ID() != automata.DefaultNetworkID {
		t.Errorf("network id = %q", res.Network.ID())
	}
	if res.Stats.States != 2 || res.Stats.Edges != 2 || res.Stats.Starts != 1 || res.Stats.Reporting != 1 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if res.InputHash == "" {
		t.Error("InputHash should be set")
	}

	markup := string(res.Artifacts[FormatANML])
	for _, want := range []string{
		`<automata-network id="an1">`,
		`<state-transition-element id="1" symbol-set="a" start="all-input">`,
		`<report-on-match reportcode="2"/>`,
		`<activate-on-match element="2"/>`,
	} {
		if !strings.Contains(markup, want) {
			t.Errorf("markup missing %q:\n%s", want, markup)
		}
	}
}

func TestConvertOptions(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Convert(context.Background(), Options{
		Data:      []byte(nfaDOT),
		NetworkID: "regex",
		StartKind: "start-of-data",
		Formats:   []string{FormatANML, FormatDOT},
	})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if res.Network.ID() != "regex" {
		t.Errorf("network id = %q", res.Network.ID())
	}
	if !bytes.Contains(res.Artifacts[FormatANML], []byte(`start="start-of-data"`)) {
		t.Errorf("start kind not applied:\n%s", res.Artifacts[FormatANML])
	}
	if !bytes.HasPrefix(res.Artifacts[FormatDOT], []byte("digraph")) {
		t.Errorf("dot artifact = %q", res.Artifacts[FormatDOT])
	}
}

func TestConvertANMLInput(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	first, err := r.Convert(context.Background(), Options{Data: []byte(nfaDOT), NetworkID: "net"})
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "net.anml")
	if err := os.WriteFile(path, first.Artifacts[FormatANML], 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := r.Convert(context.Background(), Options{Input: path})
	if err != nil {
		t.Fatalf("Convert(anml): %v", err)
	}
	if res.Network.ID() != "net" {
		t.Errorf("network id = %q, want net", res.Network.ID())
	}
	if res.Stats.States != 2 || res.Stats.Starts != 1 {
		t.Errorf("Stats = %+v", res.Stats)
	}

	renamed, err := r.Import(context.Background(), Options{Input: path, NetworkID: "other"})
	if err != nil {
		t.Fatal(err)
	}
	if renamed.ID() != "other" {
		t.Errorf("Import id = %q, want other", renamed.ID())
	}
}

func TestConvertErrors(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	tests := []struct {
		name string
		opts Options
		code apperr.Code
	}{
		{"missing file", Options{Input: filepath.Join(t.TempDir(), "nope.dot")}, apperr.ErrCodeFileNotFound},
		{"malformed label", Options{Data: []byte(`digraph { 0 [label="0\n\nSTART\n\n"]; 1 [label="x"]; }`)}, apperr.ErrCodeMalformedLabel},
		{"not a graph", Options{Data: []byte("digraph {"), InputFormat: InputDOT}, apperr.ErrCodeInvalidFormat},
		{"bad markup", Options{Data: []byte("<anml>"), InputFormat: InputANML}, apperr.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Convert(context.Background(), tt.opts)
			if !apperr.Is(err, tt.code) {
				t.Errorf("Convert() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestConvertCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(nil, nil, nil).Convert(ctx, Options{Data: []byte(nfaDOT)})
	if err != context.Canceled {
		t.Errorf("Convert() error = %v, want context.Canceled", err)
	}
}

func TestConvertCache(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	opts := Options{Data: []byte(nfaDOT), Formats: []string{FormatANML, FormatDOT}}

	first, err := r.Convert(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.ExportHit || len(first.CacheInfo.Hits) != 0 {
		t.Errorf("first run CacheInfo = %+v", first.CacheInfo)
	}
	if c.sets != 2 {
		t.Errorf("cache sets = %d, want 2", c.sets)
	}

	second, err := r.Convert(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.ExportHit {
		t.Errorf("second run CacheInfo = %+v", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatANML], second.Artifacts[FormatANML]) {
		t.Error("cached artifact differs")
	}

	opts.Refresh = true
	third, err := r.Convert(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.ExportHit {
		t.Error("Refresh should bypass the cache")
	}
}

func TestConvertCacheSharedWithExplicitDefaults(t *testing.T) {
	r := NewRunner(newMemCache(), nil, nil)
	if _, err := r.Convert(context.Background(), Options{Data: []byte(nfaDOT)}); err != nil {
		t.Fatal(err)
	}
	res, err := r.Convert(context.Background(), Options{Data: []byte(nfaDOT), StartKind: "all-input", Sentinel: "0"})
	if err != nil {
		t.Fatal(err)
	}
	if !res.CacheInfo.ExportHit {
		t.Errorf("explicit defaults should hit the cache, CacheInfo = %+v", res.CacheInfo)
	}
}

func TestConvertCacheTTL(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	if _, err := r.Convert(context.Background(), Options{Data: []byte(nfaDOT)}); err != nil {
		t.Fatal(err)
	}
	if c.ttl != cache.TTLArtifact {
		t.Errorf("default ttl = %v, want %v", c.ttl, cache.TTLArtifact)
	}

	r.TTL = time.Hour
	if _, err := r.Convert(context.Background(), Options{Data: []byte(nfaDOT), Refresh: true}); err != nil {
		t.Fatal(err)
	}
	if c.ttl != time.Hour {
		t.Errorf("ttl = %v, want 1h", c.ttl)
	}
}

func TestConvertCacheExpires(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	r.TTL = 10 * time.Millisecond
	opts := Options{Data: []byte(nfaDOT), Formats: []string{FormatANML}}

	if _, err := r.Convert(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	warm, err := r.Convert(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !warm.CacheInfo.ExportHit {
		t.Fatalf("second run should hit, CacheInfo = %+v", warm.CacheInfo)
	}

	time.Sleep(30 * time.Millisecond)
	cold, err := r.Convert(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if cold.CacheInfo.ExportHit {
		t.Error("expired artifact should not be served")
	}
}

func TestConvertCacheStillValidates(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	bad := []byte(`digraph { 0 [label="0\n\nSTART\n\n"]; 1 [label="2\n\na\n\n"]; 0 -> 1; }`)

	for i := 0; i < 2; i++ {
		if _, err := r.Convert(context.Background(), Options{Data: bad}); !apperr.Is(err, apperr.ErrCodeLabelMismatch) {
			t.Fatalf("run %d: error = %v, want LABEL_MISMATCH", i, err)
		}
	}
	if c.sets != 0 {
		t.Errorf("failed conversions should not be cached, sets = %d", c.sets)
	}
}

func TestConvertRendersImages(t *testing.T) {
	res, err := NewRunner(nil, nil, nil).Convert(context.Background(), Options{
		Data:    []byte(nfaDOT),
		Formats: []string{FormatSVG},
	})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !bytes.Contains(res.Artifacts[FormatSVG], []byte("<svg")) {
		t.Error("svg artifact missing <svg")
	}
}

type recordingHooks struct {
	observability.NoopConversionHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) OnImportStart(_ context.Context, format, _ string) {
	h.record("import:" + format)
}

func (h *recordingHooks) OnImportComplete(_ context.Context, _ string, elements int, _ time.Duration, err error) {
	if err != nil {
		h.record("import-failed")
		return
	}
	h.record("imported")
}

func (h *recordingHooks) OnExportStart(_ context.Context, formats []string) {
	h.record("export:" + strings.Join(formats, ","))
}

func (h *recordingHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func TestConvertHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetConversionHooks(hooks)
	defer observability.Reset()

	if _, err := NewRunner(nil, nil, nil).Convert(context.Background(), Options{Data: []byte(nfaDOT)}); err != nil {
		t.Fatal(err)
	}
	_, _ = NewRunner(nil, nil, nil).Convert(context.Background(), Options{Data: []byte("digraph {"), InputFormat: InputDOT})

	want := []string{"import:dot", "imported", "export:anml", "import:dot", "import-failed"}
	if strings.Join(hooks.events, " ") != strings.Join(want, " ") {
		t.Errorf("events = %v, want %v", hooks.events, want)
	}
}

func TestExport(t *testing.T) {
	n := automata.New("x")
	if _, err := n.AddState(automata.State{ID: "s", Symbols: automata.SymbolSet{"a"}, Start: automata.StartAllInput}); err != nil {
		t.Fatal(err)
	}

	out, err := NewRunner(nil, nil, nil).Export(context.Background(), n, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(out[FormatANML], []byte(`id="s"`)) {
		t.Errorf("Export() = %s", out[FormatANML])
	}

	if _, err := NewRunner(nil, nil, nil).Export(context.Background(), n, Options{Formats: []string{"pdf"}}); err == nil {
		t.Error("Export with bad format should fail")
	}
}

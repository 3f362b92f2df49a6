package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// ArtifactKeyOpts lists every option that changes a conversion artifact.
type ArtifactKeyOpts struct {
	Format      string `json:"format"`
	InputFormat string `json:"input_format"`
	NetworkID   string `json:"network_id"`
	Sentinel    string `json:"sentinel"`
	StartKind   string `json:"start_kind"`
	Detailed    bool   `json:"detailed,omitempty"`
}

// Keyer derives cache keys for pipeline artifacts.
type Keyer interface {
	// ArtifactKey returns the key for one output format of one input.
	ArtifactKey(inputHash string, opts ArtifactKeyOpts) string
}

// Hash returns the hex SHA-256 of an input document.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DefaultKeyer hashes the input hash together with the options. Keys read
// "artifact:<format>:<hex>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	data, _ := json.Marshal(struct {
		Input string `json:"input"`
		ArtifactKeyOpts
	}{inputHash, opts})
	return "artifact:" + opts.Format + ":" + Hash(data)
}

// ScopedKeyer prefixes every key of an inner Keyer. The CLI scopes keys by
// release so that an upgraded exporter never serves stale markup.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or a DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(inputHash, opts)
}

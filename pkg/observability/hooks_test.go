package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Conversion hooks
	c := NoopConversionHooks{}
	c.OnImportStart(ctx, "dot", "nfa.dot")
	c.OnImportComplete(ctx, "dot", 12, time.Second, nil)
	c.OnExportStart(ctx, []string{"anml"})
	c.OnExportComplete(ctx, []string{"anml"}, time.Second, errors.New("boom"))

	// Cache hooks
	h := NoopCacheHooks{}
	h.OnCacheHit(ctx, "anml")
	h.OnCacheMiss(ctx, "svg")
	h.OnCacheSet(ctx, "png", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Conversion().(NoopConversionHooks); !ok {
		t.Error("Conversion() should return NoopConversionHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	// Set custom hooks
	customConversion := &testConversionHooks{}
	SetConversionHooks(customConversion)
	if Conversion() != customConversion {
		t.Error("SetConversionHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Conversion().(NoopConversionHooks); !ok {
		t.Error("Reset() should restore NoopConversionHooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Reset() should restore NoopCacheHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testConversionHooks{}
	SetConversionHooks(custom)

	// Setting nil should be ignored
	SetConversionHooks(nil)
	SetCacheHooks(nil)

	if Conversion() != custom {
		t.Error("SetConversionHooks(nil) should be ignored")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("SetCacheHooks(nil) should be ignored")
	}
}

// Test implementations
type testConversionHooks struct{ NoopConversionHooks }
type testCacheHooks struct{ NoopCacheHooks }

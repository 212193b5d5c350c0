package embcache

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/quantfold/riskdex/internal/db"
)

func TestEmbed_CacheMiss(t *testing.T) {
	inner := &mockEmbedder{vec: []float32{0.1, 0.2, 0.3}}
	ce, ms := newTestCachedEmbedder(t, inner)
	ctx := context.Background()

	// GET → ErrKeyNotFound (cache miss)
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, db.ErrKeyNotFound
	}

	// SET → OK (cache put)
	var setCalled bool
	var setKey string
	ms.setFn = func(_ context.Context, key string, _ []byte) error {
		setCalled = true
		setKey = key
		return nil
	}

	vec, err := ce.Embed(ctx, "test text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 3 || vec[0] != 0.1 {
		t.Fatalf("unexpected vector: %v", vec)
	}
	if !setCalled {
		t.Fatal("expected SET to be called for cache put")
	}
	if !strings.HasPrefix(setKey, "riskdex:emb_cache:") {
		t.Errorf("unexpected cache key %q", setKey)
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 inner call, got %d", inner.calls)
	}
}

func TestEmbed_CacheHit(t *testing.T) {
	inner := &mockEmbedder{vec: []float32{0.1, 0.2, 0.3}}
	ce, ms := newTestCachedEmbedder(t, inner)
	ctx := context.Background()

	cached := vectorToCacheBytes([]float32{0.4, 0.5, 0.6})

	// GET → cached bytes
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return cached, nil
	}

	vec, err := ce.Embed(ctx, "test text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 3 || vec[0] != 0.4 {
		t.Fatalf("expected cached vector, got: %v", vec)
	}
	if inner.calls != 0 {
		t.Errorf("inner embedder called on cache hit: %d calls", inner.calls)
	}
}

func TestEmbed_InnerError(t *testing.T) {
	inner := &mockEmbedder{err: errors.New("provider down")}
	ce, ms := newTestCachedEmbedder(t, inner)
	ctx := context.Background()

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, db.ErrKeyNotFound
	}

	_, err := ce.Embed(ctx, "test text")
	if err == nil {
		t.Fatal("expected error from inner embedder")
	}
}

func TestEmbed_StoreGetFailureFallsThrough(t *testing.T) {
	inner := &mockEmbedder{vec: []float32{1, 2}}
	ce, ms := newTestCachedEmbedder(t, inner)
	ctx := context.Background()

	// A broken cache must not break the query path.
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, errors.New("connection reset")
	}

	vec, err := ce.Embed(ctx, "test text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 2 {
		t.Fatalf("unexpected vector: %v", vec)
	}
}

func TestEmbed_CorruptCacheEntryIgnored(t *testing.T) {
	inner := &mockEmbedder{vec: []float32{1, 2}}
	ce, ms := newTestCachedEmbedder(t, inner)
	ctx := context.Background()

	// 3 bytes is not a valid float32 sequence.
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte{1, 2, 3}, nil
	}

	vec, err := ce.Embed(ctx, "test text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 2 {
		t.Fatalf("expected inner vector, got: %v", vec)
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 inner call, got %d", inner.calls)
	}
}

func TestVectorRoundTrip(t *testing.T) {
	orig := []float32{0.25, -1.5, 3.75, 0}
	got, err := bytesToVector(vectorToCacheBytes(orig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(orig) {
		t.Fatalf("length mismatch: %d vs %d", len(got), len(orig))
	}
	for i := range orig {
		if got[i] != orig[i] {
			t.Errorf("index %d: got %v, want %v", i, got[i], orig[i])
		}
	}
}

// Package vector provides an in-process flat L2 vector index.
package vector

import (
	"fmt"
	"sort"
	"sync"

	"github.com/quantfold/riskdex/internal/domain"
	"github.com/quantfold/riskdex/internal/index"
)

// Index is a brute-force L2 index over fixed-dimension vectors. Safe
// for concurrent use: writes take the exclusive lock, searches observe
// a pre- or post-write snapshot, never a partial one.
//
// Re-ingesting an ID overwrites its existing slot in place, so updates
// never leak stale entries into search results.
type Index struct {
	mu    sync.RWMutex
	dim   int
	ids   []string
	slots [][]float32
	byID  map[string]int
}

// New creates an empty index for vectors of the given dimension.
func New(dim int) *Index {
	return &Index{dim: dim, byID: make(map[string]int)}
}

// Upsert inserts a vector, or overwrites the slot if the ID is already indexed.
func (ix *Index) Upsert(id string, vec []float32) error {
	if len(vec) != ix.dim {
		return fmt.Errorf("got %d dimensions, want %d: %w", len(vec), ix.dim, domain.ErrVectorDimMismatch)
	}

	stored := make([]float32, len(vec))
	copy(stored, vec)

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if slot, ok := ix.byID[id]; ok {
		ix.slots[slot] = stored
		return nil
	}

	ix.byID[id] = len(ix.slots)
	ix.ids = append(ix.ids, id)
	ix.slots = append(ix.slots, stored)
	return nil
}

// Search returns up to k candidates ordered by ascending L2 distance.
// Ties break by insertion order to keep results deterministic.
func (ix *Index) Search(vec []float32, k int) []index.Candidate {
	if k <= 0 {
		return nil
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	candidates := make([]index.Candidate, len(ix.slots))
	for i, stored := range ix.slots {
		candidates[i] = index.Candidate{ID: ix.ids[i], Score: sqL2(vec, stored)}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score < candidates[j].Score
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates
}

// Len returns the number of indexed vectors.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.slots)
}

// Dim returns the index dimensionality.
func (ix *Index) Dim() int { return ix.dim }

// sqL2 computes squared L2 distance over the shared prefix. Squared
// distance preserves ordering, so the sqrt is skipped.
func sqL2(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

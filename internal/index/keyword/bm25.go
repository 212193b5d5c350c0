// Package keyword provides an in-process BM25 index over document content.
// The index is rebuilt from the full corpus on ingest; lookups are served
// from an immutable snapshot so searches never block behind a rebuild.
package keyword

import (
	"math"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/quantfold/riskdex/internal/index"
)

const (
	k1 = 1.5
	b  = 0.75
)

// Doc is a corpus entry handed to Rebuild.
type Doc struct {
	ID      string
	Content string
}

type snapshot struct {
	ids       []string
	termFreqs []map[string]int
	docLens   []int
	avgDocLen float64
	docFreqs  map[string]int
}

// Index ranks documents with BM25 Okapi scoring.
type Index struct {
	mu   sync.RWMutex
	snap *snapshot
}

func New() *Index {
	return &Index{snap: &snapshot{docFreqs: map[string]int{}}}
}

// Rebuild replaces the index contents with the given corpus. Documents keep
// their input order, which fixes the tie break for equally scored results.
func (ix *Index) Rebuild(corpus []Doc) {
	snap := &snapshot{
		ids:       make([]string, 0, len(corpus)),
		termFreqs: make([]map[string]int, 0, len(corpus)),
		docLens:   make([]int, 0, len(corpus)),
		docFreqs:  map[string]int{},
	}

	total := 0
	for _, d := range corpus {
		tokens := Tokenize(d.Content)
		tf := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			tf[tok]++
		}
		for tok := range tf {
			snap.docFreqs[tok]++
		}
		snap.ids = append(snap.ids, d.ID)
		snap.termFreqs = append(snap.termFreqs, tf)
		snap.docLens = append(snap.docLens, len(tokens))
		total += len(tokens)
	}
	if len(corpus) > 0 {
		snap.avgDocLen = float64(total) / float64(len(corpus))
	}

	ix.mu.Lock()
	ix.snap = snap
	ix.mu.Unlock()
}

// Search scores every indexed document against the query tokens and returns
// the top k by descending score. Zero-score documents are dropped.
func (ix *Index) Search(tokens []string, k int) []index.Candidate {
	ix.mu.RLock()
	snap := ix.snap
	ix.mu.RUnlock()

	if len(tokens) == 0 || len(snap.ids) == 0 {
		return nil
	}

	n := float64(len(snap.ids))
	out := make([]index.Candidate, 0, len(snap.ids))
	for i, id := range snap.ids {
		score := 0.0
		for _, tok := range tokens {
			tf := snap.termFreqs[i][tok]
			if tf == 0 {
				continue
			}
			df := float64(snap.docFreqs[tok])
			idf := math.Log((n-df+0.5)/(df+0.5) + 1)
			norm := 1 - b + b*float64(snap.docLens[i])/snap.avgDocLen
			score += idf * float64(tf) * (k1 + 1) / (float64(tf) + k1*norm)
		}
		if score > 0 {
			out = append(out, index.Candidate{ID: id, Score: score})
		}
	}

	sort.SliceStable(out, func(a, c int) bool { return out[a].Score > out[c].Score })
	if len(out) > k {
		out = out[:k]
	}
	return out
}

// Len reports the number of indexed documents.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.snap.ids)
}

// Tokenize lowercases the text and splits it on any non-alphanumeric rune.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

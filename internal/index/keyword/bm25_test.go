package keyword

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	got := Tokenize("Credit-default SWAP, exposure!! 2024")
	want := []string{"credit", "default", "swap", "exposure", "2024"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize: got %v, want %v", got, want)
	}
}

func TestSearch_RanksMatchingDocFirst(t *testing.T) {
	ix := New()
	ix.Rebuild([]Doc{
		{ID: "credit", Content: "credit default exposure counterparty credit default"},
		{ID: "market", Content: "market volatility trading loss"},
		{ID: "memo", Content: "quarterly planning offsite agenda"},
	})

	got := ix.Search(Tokenize("credit default"), 3)
	if len(got) == 0 || got[0].ID != "credit" {
		t.Fatalf("expected credit doc first, got %v", got)
	}
	for _, c := range got {
		if c.ID == "memo" {
			t.Errorf("zero-score doc should be dropped: %v", got)
		}
	}
}

func TestSearch_TruncatesToK(t *testing.T) {
	ix := New()
	ix.Rebuild([]Doc{
		{ID: "a", Content: "liquidity funding"},
		{ID: "b", Content: "liquidity cash"},
		{ID: "c", Content: "liquidity stress"},
	})
	if got := ix.Search([]string{"liquidity"}, 2); len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
}

func TestSearch_EmptyQueryAndEmptyIndex(t *testing.T) {
	ix := New()
	if got := ix.Search([]string{"credit"}, 5); got != nil {
		t.Errorf("empty index: expected nil, got %v", got)
	}
	ix.Rebuild([]Doc{{ID: "a", Content: "credit"}})
	if got := ix.Search(nil, 5); got != nil {
		t.Errorf("empty query: expected nil, got %v", got)
	}
}

func TestRebuild_ReplacesCorpus(t *testing.T) {
	ix := New()
	ix.Rebuild([]Doc{{ID: "old", Content: "fraud process failure"}})
	ix.Rebuild([]Doc{{ID: "new", Content: "fraud controls"}})

	if ix.Len() != 1 {
		t.Fatalf("expected 1 doc after rebuild, got %d", ix.Len())
	}
	got := ix.Search([]string{"fraud"}, 5)
	if len(got) != 1 || got[0].ID != "new" {
		t.Errorf("expected only the new doc, got %v", got)
	}
}

func TestSearch_StableTieBreak(t *testing.T) {
	ix := New()
	ix.Rebuild([]Doc{
		{ID: "first", Content: "funding gap"},
		{ID: "second", Content: "funding gap"},
	})
	got := ix.Search([]string{"funding"}, 2)
	if len(got) != 2 || got[0].ID != "first" || got[1].ID != "second" {
		t.Errorf("expected corpus-order tie break, got %v", got)
	}
}

// Package index holds the shared candidate type produced by the vector
// and keyword indexes.
package index

// Candidate is a single ranked hit from one retrieval source. Score is
// source-specific: L2 distance (ascending) for the vector index, BM25
// relevance (descending) for the keyword index. Fusion discards the raw
// score and uses list position only.
type Candidate struct {
	ID    string
	Score float64
}

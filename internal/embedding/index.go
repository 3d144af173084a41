package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

var (
	// ErrEmptyChunks is returned when Build is called with no chunks.
	ErrEmptyChunks = errors.New("cannot build index from empty chunk list")
	// ErrNotBuilt is returned when Query is called before a successful Build.
	ErrNotBuilt = errors.New("index not built")
)

// Match pairs a chunk with its cosine similarity to a query.
type Match struct {
	Chunk      string
	Similarity float64
}

// Index is a per-request exact nearest-neighbor index over resume chunks.
// Vectors are unit-normalized at build time so cosine similarity reduces to
// an inner product; at one document's scale (at most 128 chunks) exact
// search needs no approximation.
//
// An Index is owned by a single request and is not safe for concurrent use.
type Index struct {
	embedder Embedder
	chunks   []string
	vectors  [][]float64
}

// NewIndex constructs an index around a shared embedder.
func NewIndex(embedder Embedder) *Index {
	return &Index{embedder: embedder}
}

// Build embeds the chunks and stores them for querying, replacing any prior
// build on this instance.
func (ix *Index) Build(ctx context.Context, chunks []string) error {
	if len(chunks) == 0 {
		return ErrEmptyChunks
	}

	vectors, err := ix.embedder.Embed(ctx, chunks)
	if err != nil {
		return err
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}
	for i := range vectors {
		vectors[i] = normalize(vectors[i])
	}

	ix.chunks = append([]string(nil), chunks...)
	ix.vectors = vectors
	return nil
}

// Query returns the min(k, built chunks) most similar chunks, ordered by
// descending similarity with ties broken by original chunk order. A blank
// query yields an empty result.
func (ix *Index) Query(ctx context.Context, text string, k int) ([]Match, error) {
	if ix.vectors == nil {
		return nil, ErrNotBuilt
	}
	if strings.TrimSpace(text) == "" {
		return []Match{}, nil
	}
	if k <= 0 {
		return []Match{}, nil
	}

	queryVecs, err := ix.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(queryVecs) == 0 {
		return nil, fmt.Errorf("embedder returned no vector for query")
	}
	q := normalize(queryVecs[0])

	matches := make([]Match, len(ix.chunks))
	for i, vec := range ix.vectors {
		matches[i] = Match{Chunk: ix.chunks[i], Similarity: dot(q, vec)}
	}
	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Similarity > matches[b].Similarity
	})

	if k > len(matches) {
		k = len(matches)
	}
	return matches[:k], nil
}

func normalize(v []float64) []float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return v
	}
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// Package embedding maps video frames and text queries into a shared vector
// space and scores their similarity. The model lives behind the Engine
// interface so the pipeline can run against a fake in tests and against a
// CLIP inference sidecar in production.
package embedding

import (
	"context"
	"math"
)

// Vector is a fixed-dimension embedding. Vectors produced by one Engine
// instance always share a dimension and comparison space.
type Vector []float32

// Engine produces embeddings for frames and text. Implementations must be
// safe for concurrent use; the single loaded model is shared by all jobs in
// the process and is never mutated per request.
type Engine interface {
	// EmbedFrames maps encoded frame images to vectors, one per frame, in
	// input order. Batching for throughput is the implementation's business.
	EmbedFrames(ctx context.Context, frames [][]byte) ([]Vector, error)
	// EmbedText maps a text query into the same space as frame vectors.
	EmbedText(ctx context.Context, text string) (Vector, error)
}

// Cosine returns the cosine similarity of a and b in [-1, 1]. Mismatched or
// zero-length vectors score 0.
func Cosine(a, b Vector) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Similarity is Cosine with negatives clamped to 0: frames pointing away from
// the query carry no signal for this domain, they are simply non-matches.
func Similarity(a, b Vector) float64 {
	s := Cosine(a, b)
	if s < 0 {
		return 0
	}
	return s
}

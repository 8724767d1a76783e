package embedding

import (
	"math"
	"testing"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b Vector
		want float64
	}{
		{"identical", Vector{1, 0}, Vector{1, 0}, 1},
		{"orthogonal", Vector{1, 0}, Vector{0, 1}, 0},
		{"opposite", Vector{1, 0}, Vector{-1, 0}, -1},
		{"unnormalized inputs", Vector{2, 0}, Vector{5, 0}, 1},
		{"mismatched dims", Vector{1, 0}, Vector{1, 0, 0}, 0},
		{"empty", Vector{}, Vector{}, 0},
		{"zero vector", Vector{0, 0}, Vector{1, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cosine(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("Cosine = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSimilarityClampsNegatives(t *testing.T) {
	if got := Similarity(Vector{1, 0}, Vector{-1, 0}); got != 0 {
		t.Fatalf("Similarity = %v, want 0 for opposing vectors", got)
	}
	if got := Similarity(Vector{1, 0}, Vector{1, 0}); got != 1 {
		t.Fatalf("Similarity = %v, want 1 for identical vectors", got)
	}
}

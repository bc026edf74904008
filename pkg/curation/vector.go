// Package curation implements the serendipity feed engine: vector math over
// card embeddings, reading-context construction, zone scoring and the
// quota-gated feed page assembly.
package curation

import "math"

// DefaultDimension is the embedding vector size produced by the default model
const DefaultDimension = 384

// CosineSimilarity returns dot(a,b)/(|a|*|b|) in [-1,1].
// Returns 0 when either vector has zero norm, never divides by zero.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		av, bv := float64(a[i]), float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// CosineDistance returns 1 - CosineSimilarity, in [0,2]
func CosineDistance(a, b []float32) float64 {
	return 1.0 - CosineSimilarity(a, b)
}

// AverageVector returns the element-wise mean of the given vectors.
// An empty input yields the all-zero vector of the given dimension.
func AverageVector(vectors [][]float32, dimension int) []float32 {
	result := make([]float32, dimension)
	if len(vectors) == 0 {
		return result
	}

	sums := make([]float64, dimension)
	for _, v := range vectors {
		for i := 0; i < dimension && i < len(v); i++ {
			sums[i] += float64(v[i])
		}
	}

	n := float64(len(vectors))
	for i := range sums {
		result[i] = float32(sums[i] / n)
	}
	return result
}

// IsZeroVector reports whether every component is zero. A zero vector means
// "no signal": cosine math is undefined over it and callers must fall back.
func IsZeroVector(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

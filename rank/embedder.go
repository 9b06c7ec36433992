package rank

import (
	"context"
	"math"
)

// Embedder converts text into a dense vector of fixed dimensionality.
// Implementations must be deterministic: identical input text yields an
// identical vector. Implementations may require a preparation pass over the
// corpus before the first Embed call.
type Embedder interface {
	// Embed returns the vector for the given text
	Embed(ctx context.Context, text string) ([]float64, error)

	// Dimension returns the vector dimensionality (0 until known)
	Dimension() int
}

// CorpusPreparer is implemented by embedders that build their vector space
// from the corpus itself (TF-IDF). Callers should invoke Prepare with the
// collection's texts before embedding.
type CorpusPreparer interface {
	Prepare(corpus []string) error
}

// CosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched or zero-length vectors score 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// rescaleCosine maps a cosine similarity from [-1,1] to [0,1].
func rescaleCosine(cos float64) float64 {
	s := (cos + 1) / 2
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

package classify

import (
	"math"
	"sort"

	"github.com/tsawler/lectio/model"
)

// sizeBucketTolerance merges near-identical font sizes caused by rendering
// noise when computing the body-size mode.
const sizeBucketTolerance = 0.5

// minStddev is the epsilon used for degenerate documents (uniform font size
// or fewer than three blocks) so later membership functions never divide by
// zero.
const minStddev = 0.1

// FontProfile holds per-document font statistics. It is derived once per
// document before classification and is a read-only input to the classifier.
type FontProfile struct {
	// BodySize is the most frequent font size (mode with ±0.5pt bucketing)
	BodySize float64

	// MeanSize is the mean font size across all blocks
	MeanSize float64

	// StddevSize is the standard deviation of font sizes, floored at a
	// small epsilon for degenerate documents
	StddevSize float64

	// Percentiles maps percentile rank (25, 50, 75, 90) to font size
	Percentiles map[int]float64

	// BlockCount is the number of blocks the profile was computed from
	BlockCount int
}

// CollectProfile computes the font statistics for one document. It always
// returns a usable profile: degenerate inputs (no blocks, a single font
// size) produce sensible defaults rather than an error.
func CollectProfile(blocks []model.TextBlock) FontProfile {
	profile := FontProfile{
		Percentiles: make(map[int]float64),
	}

	var sizes []float64
	for _, b := range blocks {
		if b.IsEmpty() || b.FontSize <= 0 {
			continue
		}
		sizes = append(sizes, b.FontSize)
	}
	profile.BlockCount = len(sizes)

	if len(sizes) == 0 {
		profile.BodySize = 12.0
		profile.MeanSize = 12.0
		profile.StddevSize = minStddev
		return profile
	}

	// Mode with bucketing: weight each bucket by character count so long
	// body paragraphs dominate short decorative text.
	bucketWeight := make(map[int]int)
	for _, b := range blocks {
		if b.IsEmpty() || b.FontSize <= 0 {
			continue
		}
		bucket := int(b.FontSize / sizeBucketTolerance)
		bucketWeight[bucket] += len(b.Text)
	}

	maxWeight := 0
	modeBucket := 0
	for bucket, weight := range bucketWeight {
		if weight > maxWeight || (weight == maxWeight && bucket < modeBucket) {
			maxWeight = weight
			modeBucket = bucket
		}
	}
	profile.BodySize = float64(modeBucket) * sizeBucketTolerance

	var sum float64
	for _, s := range sizes {
		sum += s
	}
	profile.MeanSize = sum / float64(len(sizes))

	var variance float64
	for _, s := range sizes {
		d := s - profile.MeanSize
		variance += d * d
	}
	variance /= float64(len(sizes))
	profile.StddevSize = math.Sqrt(variance)

	if len(sizes) < 3 || profile.StddevSize < minStddev {
		profile.StddevSize = minStddev
	}

	sorted := make([]float64, len(sizes))
	copy(sorted, sizes)
	sort.Float64s(sorted)
	for _, p := range []int{25, 50, 75, 90} {
		profile.Percentiles[p] = percentile(sorted, p)
	}

	return profile
}

// percentile returns the pth percentile of an ascending-sorted slice using
// nearest-rank interpolation.
func percentile(sorted []float64, p int) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := float64(p) / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

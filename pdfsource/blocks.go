package pdfsource

import (
	"sort"

	"github.com/tsawler/lectio/model"
)

// normalizeGaps fills each block's GapAbove/GapBelow with the vertical gap
// to its page neighbors, normalized by the document's typical line spacing
// so 1.0 means an ordinary line break and larger values mean isolation.
func normalizeGaps(blocks []model.TextBlock) {
	// Raw gaps between vertically adjacent blocks on the same page.
	raw := make([]float64, len(blocks))
	var gaps []float64
	for i := 1; i < len(blocks); i++ {
		if blocks[i].Page != blocks[i-1].Page {
			raw[i] = -1
			continue
		}
		gap := blocks[i-1].BBox.Bottom() - blocks[i].BBox.Top()
		if gap < 0 {
			gap = 0
		}
		raw[i] = gap
		if gap > 0 {
			gaps = append(gaps, gap)
		}
	}

	typical := medianGap(gaps)
	if typical <= 0 {
		typical = 4
	}

	for i := range blocks {
		if i > 0 && raw[i] >= 0 {
			blocks[i].GapAbove = raw[i] / typical
		}
		if i+1 < len(blocks) && raw[i+1] >= 0 {
			blocks[i].GapBelow = raw[i+1] / typical
		}
	}
}

// medianGap returns the median of the positive gaps.
func medianGap(gaps []float64) float64 {
	if len(gaps) == 0 {
		return 0
	}
	sorted := append([]float64(nil), gaps...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

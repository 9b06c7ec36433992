package rank

import (
	"context"
	"math"
	"testing"
)

func TestTFIDFPrepareAndEmbed(t *testing.T) {
	corpus := []string{
		"packing list for the beach trip",
		"local cuisine and wine tasting",
		"history of the old town",
	}
	e := NewTFIDFEmbedder()
	if err := e.Prepare(corpus); err != nil {
		t.Fatalf("prepare failed: %v", err)
	}
	if e.Dimension() == 0 {
		t.Fatal("expected non-zero dimension after prepare")
	}

	vec, err := e.Embed(context.Background(), "beach packing list")
	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}
	if len(vec) != e.Dimension() {
		t.Fatalf("vector length %d != dimension %d", len(vec), e.Dimension())
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if math.Abs(math.Sqrt(norm)-1.0) > 1e-9 {
		t.Errorf("expected L2-normalized vector, norm %f", math.Sqrt(norm))
	}
}

func TestTFIDFDeterministic(t *testing.T) {
	corpus := []string{"alpha beta gamma", "beta gamma delta", "gamma delta epsilon"}

	a := NewTFIDFEmbedder()
	b := NewTFIDFEmbedder()
	if err := a.Prepare(corpus); err != nil {
		t.Fatal(err)
	}
	if err := b.Prepare(corpus); err != nil {
		t.Fatal(err)
	}

	va, _ := a.Embed(context.Background(), "beta gamma")
	vb, _ := b.Embed(context.Background(), "beta gamma")
	for i := range va {
		if va[i] != vb[i] {
			t.Fatalf("identical corpora produced different vectors at %d", i)
		}
	}
}

func TestTFIDFSimilarityOrdering(t *testing.T) {
	corpus := []string{
		"packing list beach sunscreen towels swimwear",
		"medieval history castle ruins archive",
	}
	e := NewTFIDFEmbedder()
	if err := e.Prepare(corpus); err != nil {
		t.Fatal(err)
	}

	query, _ := e.Embed(context.Background(), "what to pack for the beach")
	packing, _ := e.Embed(context.Background(), corpus[0])
	history, _ := e.Embed(context.Background(), corpus[1])

	if CosineSimilarity(query, packing) <= CosineSimilarity(query, history) {
		t.Error("expected packing section more similar to packing query than history")
	}
}

func TestTFIDFErrors(t *testing.T) {
	e := NewTFIDFEmbedder()
	if err := e.Prepare(nil); err == nil {
		t.Error("expected error for empty corpus")
	}
	if _, err := e.Embed(context.Background(), "text"); err == nil {
		t.Error("expected error when embedding before prepare")
	}

	prepared := NewTFIDFEmbedder()
	if err := prepared.Prepare([]string{"some words here"}); err != nil {
		t.Fatal(err)
	}
	vec, err := prepared.Embed(context.Background(), "совершенно unrelated 词汇")
	if err != nil {
		t.Fatalf("out-of-vocabulary text should embed to zero vector, got error %v", err)
	}
	for _, v := range vec {
		if v != 0 {
			t.Fatal("expected zero vector for out-of-vocabulary text")
		}
	}
}

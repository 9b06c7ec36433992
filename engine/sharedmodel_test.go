package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tsawler/lectio/rank"
	"github.com/tsawler/lectio/refine"
)

// recordingEmbedder tracks how many calls run inside Embed at once.
type recordingEmbedder struct {
	active  atomic.Int64
	maxSeen atomic.Int64
	calls   atomic.Int64
}

func (r *recordingEmbedder) Embed(_ context.Context, _ string) ([]float64, error) {
	n := r.active.Add(1)
	defer r.active.Add(-1)

	for {
		seen := r.maxSeen.Load()
		if n <= seen || r.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	r.calls.Add(1)
	time.Sleep(time.Millisecond)
	return []float64{1, 0}, nil
}

func (r *recordingEmbedder) Dimension() int { return 2 }

type noopGenerator struct{}

func (noopGenerator) Generate(_ context.Context, _ string, _ int) (string, error) {
	return "ok", nil
}

func TestSharedModelSerializesAccess(t *testing.T) {
	emb := &recordingEmbedder{}
	sm := NewSharedModel(func() (rank.Embedder, refine.Generator, error) {
		return emb, noopGenerator{}, nil
	}, 1)
	defer sm.Close()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := sm.Embed(context.Background(), "text"); err != nil {
				t.Errorf("embed failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := emb.maxSeen.Load(); got != 1 {
		t.Errorf("expected at most 1 concurrent call through width-1 guard, saw %d", got)
	}
	if got := emb.calls.Load(); got != 16 {
		t.Errorf("expected 16 calls, got %d", got)
	}
}

func TestSharedModelWiderGuard(t *testing.T) {
	emb := &recordingEmbedder{}
	sm := NewSharedModel(func() (rank.Embedder, refine.Generator, error) {
		return emb, noopGenerator{}, nil
	}, 4)
	defer sm.Close()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sm.Embed(context.Background(), "text")
		}()
	}
	wg.Wait()

	if got := emb.maxSeen.Load(); got > 4 {
		t.Errorf("width-4 guard admitted %d concurrent calls", got)
	}
}

func TestSharedModelLazyInit(t *testing.T) {
	var opened atomic.Int64
	sm := NewSharedModel(func() (rank.Embedder, refine.Generator, error) {
		opened.Add(1)
		return &recordingEmbedder{}, noopGenerator{}, nil
	}, 1)
	defer sm.Close()

	if opened.Load() != 0 {
		t.Fatal("factory called before first use")
	}
	if sm.Dimension() != 0 {
		t.Error("expected dimension 0 before first use")
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sm.Embed(context.Background(), "text")
		}()
	}
	wg.Wait()

	if got := opened.Load(); got != 1 {
		t.Errorf("factory called %d times, expected exactly once", got)
	}
	if sm.Dimension() != 2 {
		t.Errorf("expected dimension 2 after init, got %d", sm.Dimension())
	}
}

func TestSharedModelFactoryError(t *testing.T) {
	boom := errors.New("model load failed")
	sm := NewSharedModel(func() (rank.Embedder, refine.Generator, error) {
		return nil, nil, boom
	}, 1)

	if _, err := sm.Embed(context.Background(), "text"); !errors.Is(err, boom) {
		t.Errorf("expected factory error, got %v", err)
	}
}

func TestSharedModelClosed(t *testing.T) {
	sm := NewSharedModel(func() (rank.Embedder, refine.Generator, error) {
		return &recordingEmbedder{}, noopGenerator{}, nil
	}, 1)

	if err := sm.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if err := sm.Close(); err != nil {
		t.Fatalf("second close failed: %v", err)
	}

	if _, err := sm.Embed(context.Background(), "text"); !errors.Is(err, ErrModelClosed) {
		t.Errorf("expected ErrModelClosed, got %v", err)
	}
	if _, err := sm.Generate(context.Background(), "prompt", 10); !errors.Is(err, ErrModelClosed) {
		t.Errorf("expected ErrModelClosed, got %v", err)
	}
}

package engine

import (
	"context"
	"io"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/tsawler/lectio/rank"
	"github.com/tsawler/lectio/refine"
)

// ModelFactory opens the underlying embedding and generation model. It is
// called at most once, on first use of the SharedModel.
type ModelFactory func() (rank.Embedder, refine.Generator, error)

// SharedModel is a process-wide handle on the embedding/generation model.
// The model is opened lazily on first Embed or Generate call, and concurrent
// calls are bounded by a weighted guard: width 1 serializes all access for
// models that are not safe for concurrent use; wider guards admit that many
// calls at once.
//
// SharedModel implements rank.Embedder and refine.Generator, so it can be
// handed directly to a Ranker and a Refiner.
type SharedModel struct {
	factory ModelFactory
	guard   *semaphore.Weighted

	mu        sync.Mutex
	embedder  rank.Embedder
	generator refine.Generator
	opened    bool
	closed    bool
}

// NewSharedModel creates a shared model handle around factory. width is the
// number of concurrent model calls admitted; values below 1 are treated as 1.
func NewSharedModel(factory ModelFactory, width int64) *SharedModel {
	if width < 1 {
		width = 1
	}
	return &SharedModel{
		factory: factory,
		guard:   semaphore.NewWeighted(width),
	}
}

// ensure opens the model if it has not been opened yet.
func (m *SharedModel) ensure() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrModelClosed
	}
	if m.opened {
		return nil
	}

	embedder, generator, err := m.factory()
	if err != nil {
		return err
	}
	m.embedder = embedder
	m.generator = generator
	m.opened = true
	return nil
}

// Prepare feeds the corpus to the underlying embedder when it implements
// rank.CorpusPreparer. Embedders with fixed vector spaces are unaffected.
func (m *SharedModel) Prepare(ctx context.Context, corpus []string) error {
	if err := m.ensure(); err != nil {
		return err
	}
	cp, ok := m.embedder.(rank.CorpusPreparer)
	if !ok {
		return nil
	}
	if err := m.guard.Acquire(ctx, 1); err != nil {
		return err
	}
	defer m.guard.Release(1)
	return cp.Prepare(corpus)
}

// Embed embeds text through the guarded model.
func (m *SharedModel) Embed(ctx context.Context, text string) ([]float64, error) {
	if err := m.ensure(); err != nil {
		return nil, err
	}
	if err := m.guard.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer m.guard.Release(1)
	return m.embedder.Embed(ctx, text)
}

// Dimension returns the embedding dimension, or 0 if the model has not been
// opened yet.
func (m *SharedModel) Dimension() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.opened {
		return 0
	}
	return m.embedder.Dimension()
}

// Generate produces text through the guarded model.
func (m *SharedModel) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if err := m.ensure(); err != nil {
		return "", err
	}
	if err := m.guard.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer m.guard.Release(1)
	return m.generator.Generate(ctx, prompt, maxTokens)
}

// Close releases the underlying model. Further calls return ErrModelClosed.
// Close is idempotent.
func (m *SharedModel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	var err error
	if c, ok := m.embedder.(io.Closer); ok {
		err = c.Close()
	}
	if c, ok := m.generator.(io.Closer); ok {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	m.embedder = nil
	m.generator = nil
	return err
}

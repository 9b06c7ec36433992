// Package lectio provides a fluent API over the document structure and
// relevance pipeline: heading classification, outline building, section
// slicing, persona-driven ranking and refinement.
//
// Basic usage:
//
//	ol, err := lectio.Open("report.pdf").Outline()
//	if err != nil {
//	    // handle error
//	}
//	for _, e := range ol.Entries {
//	    fmt.Println(e.Level, e.Text, e.Page)
//	}
//
// Ranking a collection:
//
//	p := lectio.New()
//	defer p.Close()
//	result, err := p.ProcessCollectionDir(ctx, "Collection 1")
//
// For advanced use cases, the lower-level classify, outline, rank and
// engine packages are also available.
package lectio

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tsawler/lectio/classify"
	"github.com/tsawler/lectio/config"
	"github.com/tsawler/lectio/engine"
	"github.com/tsawler/lectio/htmlsource"
	"github.com/tsawler/lectio/outline"
	"github.com/tsawler/lectio/pdfsource"
	"github.com/tsawler/lectio/rank"
	"github.com/tsawler/lectio/refine"
)

// Pipeline is the root handle. Construct with New or NewWithConfig, then
// call Open for single documents or ProcessCollection for ranked runs.
type Pipeline struct {
	engine *engine.Engine
	model  *engine.SharedModel
}

// New creates a pipeline with the default configuration: the local TF-IDF
// embedder and the extractive generator, so no external service is needed.
func New() *Pipeline {
	p, _ := NewWithConfig(config.Default())
	return p
}

// NewWithConfig creates a pipeline from an application configuration.
func NewWithConfig(cfg *config.AppConfig) (*Pipeline, error) {
	var factory engine.ModelFactory
	switch cfg.Embedder.Type {
	case "openai":
		opts := cfg.OpenAIOptions()
		factory = func() (rank.Embedder, refine.Generator, error) {
			emb, err := rank.NewOpenAIEmbedder(opts)
			if err != nil {
				return nil, nil, err
			}
			return emb, refine.NewExtractiveGenerator(), nil
		}
	case "tfidf", "":
		factory = func() (rank.Embedder, refine.Generator, error) {
			return rank.NewTFIDFEmbedder(), refine.NewExtractiveGenerator(), nil
		}
	default:
		return nil, fmt.Errorf("unknown embedder type %q", cfg.Embedder.Type)
	}

	model := engine.NewSharedModel(factory, int64(cfg.Engine.ModelGuardWidth))
	eng := engine.NewWithConfig(model, cfg.EngineOptions())
	eng.RegisterExtractor(".pdf", pdfsource.New())
	eng.RegisterExtractor(".html", htmlsource.New())
	eng.RegisterExtractor(".htm", htmlsource.New())

	return &Pipeline{engine: eng, model: model}, nil
}

// WithModel replaces the shared model with one built from the given
// embedder and generator. Useful for custom embedding backends and tests.
func (p *Pipeline) WithModel(embedder rank.Embedder, generator refine.Generator, guardWidth int64) *Pipeline {
	p.model = engine.NewSharedModel(func() (rank.Embedder, refine.Generator, error) {
		return embedder, generator, nil
	}, guardWidth)
	p.engine = engine.NewWithConfig(p.model, engine.DefaultConfig())
	p.engine.RegisterExtractor(".pdf", pdfsource.New())
	p.engine.RegisterExtractor(".html", htmlsource.New())
	p.engine.RegisterExtractor(".htm", htmlsource.New())
	return p
}

// WithLogger installs a logger on the engine. The default is silent.
func (p *Pipeline) WithLogger(log *zap.SugaredLogger) *Pipeline {
	p.engine.SetLogger(log)
	return p
}

// ProcessCollection runs the full pipeline over an already-loaded
// collection.
func (p *Pipeline) ProcessCollection(ctx context.Context, col engine.Collection) (*engine.CollectionResult, error) {
	return p.engine.ProcessCollection(ctx, col)
}

// ProcessCollectionDir loads the collection rooted at dir (manifest plus
// document files) and runs the full pipeline over it.
func (p *Pipeline) ProcessCollectionDir(ctx context.Context, dir string) (*engine.CollectionResult, error) {
	col, err := engine.OpenCollection(dir)
	if err != nil {
		return nil, err
	}
	return p.engine.ProcessCollection(ctx, col)
}

// Close releases the shared model.
func (p *Pipeline) Close() error {
	return p.model.Close()
}

// Document is a fluent handle on a single document.
type Document struct {
	path     string
	pipeline *Pipeline
	err      error
}

// Open creates a single-document handle using a default pipeline.
//
// Example:
//
//	sections, err := lectio.Open("report.pdf").Sections()
func Open(path string) *Document {
	return New().OpenDocument(path)
}

// OpenDocument creates a single-document handle on this pipeline.
func (p *Pipeline) OpenDocument(path string) *Document {
	return &Document{path: path, pipeline: p}
}

// Outline extracts the document and builds its heading outline.
func (d *Document) Outline() (*outline.Outline, error) {
	res, err := d.process()
	if err != nil {
		return nil, err
	}
	return res.Outline, nil
}

// Sections extracts the document and slices it into titled sections.
func (d *Document) Sections() ([]outline.Section, error) {
	res, err := d.process()
	if err != nil {
		return nil, err
	}
	return res.Sections, nil
}

// Headings returns the accepted heading candidates with their scores,
// useful for inspecting classification decisions.
func (d *Document) Headings() ([]classify.Candidate, error) {
	res, err := d.process()
	if err != nil {
		return nil, err
	}
	return res.Classification.Accepted(), nil
}

func (d *Document) process() (*engine.DocumentResult, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.pipeline.engine.ProcessDocument(context.Background(), d.path, d.path)
}

// Must panics on a non-nil error, for scripts and tests.
//
// Example:
//
//	ol := lectio.Must(lectio.Open("report.pdf").Outline())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

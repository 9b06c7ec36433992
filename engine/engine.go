package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/tsawler/lectio/classify"
	"github.com/tsawler/lectio/model"
	"github.com/tsawler/lectio/outline"
	"github.com/tsawler/lectio/rank"
	"github.com/tsawler/lectio/refine"
)

// workerCap bounds the worker pool regardless of core count; extraction and
// classification hold whole documents in memory.
const workerCap = 4

// Extractor turns a document file into the common block model. An extractor
// must return an explicit error for unreadable input, never a silent empty
// document.
type Extractor interface {
	Extract(path string) (*model.Document, error)
}

// Config contains configuration options for the engine.
type Config struct {
	// Workers is the maximum number of documents processed concurrently.
	// Zero selects min(NumCPU, 4).
	Workers int

	// TopSections is how many top-ranked sections are refined
	TopSections int

	// Classifier configures the heading classifier
	Classifier classify.Config

	// Ranker configures the relevance ranker
	Ranker rank.Config

	// Refiner configures the section refiner
	Refiner refine.Config
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		Workers:     0,
		TopSections: 5,
		Classifier:  classify.DefaultConfig(),
		Ranker:      rank.DefaultConfig(),
		Refiner:     refine.DefaultConfig(),
	}
}

// Collection identifies one unit of work: a manifest plus the directory its
// document files live in.
type Collection struct {
	// ID names the collection (usually its directory name)
	ID string

	// Dir is the directory containing the document files
	Dir string

	// Manifest is the parsed collection manifest
	Manifest *Manifest
}

// DocumentResult is the structural outcome for one document.
type DocumentResult struct {
	Document       *model.Document
	Classification *classify.Result
	Outline        *outline.Outline
	Sections       []outline.Section
}

// CollectionResult is the full outcome for one collection.
type CollectionResult struct {
	// ID echoes the collection ID
	ID string

	// Query is the normalized relevance query the run used
	Query rank.Query

	// InputDocuments lists successfully processed documents in manifest
	// order
	InputDocuments []string

	// Documents holds the per-document structural results, keyed by
	// document ID
	Documents map[string]*DocumentResult

	// Ranking is the global section ranking
	Ranking *rank.Ranking

	// Refined holds refined text for the top-ranked sections
	Refined []refine.Result

	// Report aggregates counts, exclusions and failures
	Report Report
}

// Engine runs the pipeline. Construct with New or NewWithConfig, register
// extractors per file extension, then call ProcessCollection.
type Engine struct {
	config     Config
	extractors map[string]Extractor
	model      *SharedModel
	classifier *classify.Classifier
	builder    *outline.Builder
	log        *zap.SugaredLogger
}

// New creates an engine with the default configuration.
func New(model *SharedModel) *Engine {
	return NewWithConfig(model, DefaultConfig())
}

// NewWithConfig creates an engine with a custom configuration.
func NewWithConfig(model *SharedModel, config Config) *Engine {
	if config.TopSections <= 0 {
		config.TopSections = 5
	}
	return &Engine{
		config:     config,
		extractors: make(map[string]Extractor),
		model:      model,
		classifier: classify.NewClassifierWithConfig(config.Classifier),
		builder:    outline.NewBuilder(),
		log:        zap.NewNop().Sugar(),
	}
}

// RegisterExtractor maps a file extension (".pdf", ".html") to an
// extractor. Extensions are matched case-insensitively.
func (e *Engine) RegisterExtractor(ext string, x Extractor) {
	e.extractors[strings.ToLower(ext)] = x
}

// SetLogger installs a logger. The default is a no-op logger.
func (e *Engine) SetLogger(log *zap.SugaredLogger) {
	if log != nil {
		e.log = log
	}
}

// ProcessDocument extracts one document and builds its outline and sections.
func (e *Engine) ProcessDocument(ctx context.Context, path, id string) (*DocumentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	extractor, ok := e.extractors[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoExtractor, ext)
	}

	doc, err := extractor.Extract(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrExtraction, id, err)
	}
	doc.ID = id

	profile := classify.CollectProfile(doc.Blocks)
	result := e.classifier.ClassifyDocument(doc, profile)
	ol := e.builder.Build(doc, result)
	sections := outline.SliceSections(doc, ol)

	return &DocumentResult{
		Document:       doc,
		Classification: result,
		Outline:        ol,
		Sections:       sections,
	}, nil
}

// ProcessCollection runs the full pipeline over one collection. Individual
// document failures are isolated and reported; the call fails only when the
// manifest is unusable or no document at all produced content.
func (e *Engine) ProcessCollection(ctx context.Context, col Collection) (*CollectionResult, error) {
	start := time.Now()

	if col.Manifest == nil {
		return nil, fmt.Errorf("collection %s: nil manifest", col.ID)
	}
	if err := col.Manifest.Validate(); err != nil {
		return nil, fmt.Errorf("collection %s: %w", col.ID, err)
	}

	query := rank.NewQuery(col.Manifest.Persona, col.Manifest.Job)
	res := &CollectionResult{
		ID:        col.ID,
		Query:     query,
		Documents: make(map[string]*DocumentResult),
	}

	e.log.Infow("processing collection",
		"collection", col.ID,
		"documents", len(col.Manifest.Documents),
		"query", query.Text)

	// Extract and structure documents concurrently. Results land in a
	// slice indexed by manifest position so ordering never depends on
	// scheduling.
	docResults := make([]*DocumentResult, len(col.Manifest.Documents))
	docErrs := make([]error, len(col.Manifest.Documents))

	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(e.workers(len(col.Manifest.Documents))))

	for i, md := range col.Manifest.Documents {
		i, md := i, md
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				docErrs[i] = err
				return nil
			}
			defer sem.Release(1)

			path := filepath.Join(col.Dir, md.Filename)
			dr, err := e.ProcessDocument(gctx, path, md.Filename)
			if err != nil {
				docErrs[i] = err
				e.log.Warnw("document excluded", "document", md.Filename, "error", err)
				return nil
			}
			docResults[i] = dr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Gather sections in manifest order.
	var sections []outline.Section
	for i, md := range col.Manifest.Documents {
		if docErrs[i] != nil {
			res.Report.DocumentsFailed++
			res.Report.addError(md.Filename, docErrs[i].Error())
			continue
		}
		dr := docResults[i]
		res.Report.DocumentsProcessed++
		res.Report.SectionsExtracted += len(dr.Sections)
		if dr.Outline.Degenerate {
			res.Report.DegenerateDocuments = append(res.Report.DegenerateDocuments, md.Filename)
			e.log.Warnw("heading classification fell back to structural signals",
				"document", md.Filename, "error", ErrDegenerate)
		}
		res.Documents[md.Filename] = dr
		res.InputDocuments = append(res.InputDocuments, md.Filename)
		sections = append(sections, dr.Sections...)
	}

	if res.Report.DocumentsProcessed == 0 {
		res.Report.Duration = time.Since(start)
		return res, fmt.Errorf("collection %s: %w", col.ID, ErrNoDocuments)
	}

	// Corpus-local embedders (TF-IDF) need the collection texts first.
	corpus := make([]string, 0, len(sections)+1)
	corpus = append(corpus, query.Text)
	for _, s := range sections {
		corpus = append(corpus, s.Title+" "+s.Body)
	}
	if err := e.model.Prepare(ctx, corpus); err != nil {
		res.Report.Duration = time.Since(start)
		return res, fmt.Errorf("collection %s: preparing model: %w", col.ID, err)
	}

	// Rank globally against the manifest document order.
	ranker := rank.NewRankerWithConfig(e.model, e.config.Ranker)
	ranking, err := ranker.Rank(ctx, query, sections, col.Manifest.DocumentOrder())
	if err != nil {
		res.Report.Duration = time.Since(start)
		return res, fmt.Errorf("collection %s: ranking: %w", col.ID, err)
	}
	res.Ranking = ranking
	res.Report.SectionsRanked = len(ranking.Sections)
	res.Report.SectionsExcluded = len(ranking.Excluded)
	for _, ex := range ranking.Excluded {
		res.Report.addError(ex.DocumentID+": "+ex.Title, ex.Err.Error())
	}

	// Refine the top sections.
	top := ranking.Sections
	if len(top) > e.config.TopSections {
		top = top[:e.config.TopSections]
	}
	refiner := refine.NewRefinerWithConfig(e.model, e.config.Refiner)
	res.Refined = refiner.RefineAll(ctx, query, top)
	for _, r := range res.Refined {
		if r.Degraded {
			res.Report.RefinementsDegraded++
		}
	}

	res.Report.Duration = time.Since(start)
	e.log.Infow("collection complete",
		"collection", col.ID,
		"documents", res.Report.DocumentsProcessed,
		"sections", res.Report.SectionsRanked,
		"duration", res.Report.Duration)

	return res, nil
}

// workers returns the pool width for a run over pending documents.
func (e *Engine) workers(pending int) int {
	w := e.config.Workers
	if w <= 0 {
		w = runtime.NumCPU()
		if w > workerCap {
			w = workerCap
		}
	}
	if pending < w {
		w = pending
	}
	if w < 1 {
		w = 1
	}
	return w
}

package pdfsource

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/tsawler/lectio/model"
)

// Extractor extracts text blocks from PDF files.
type Extractor struct {
	conf *pdfmodel.Configuration
}

// New creates a PDF extractor with the default pdfcpu configuration
func New() *Extractor {
	return &Extractor{conf: pdfmodel.NewDefaultConfiguration()}
}

// Extract reads the PDF at path and returns its text blocks in reading
// order, page count, and native bookmarks as table-of-contents entries.
// Unreadable or encrypted files return an explicit error.
func (e *Extractor) Extract(path string) (*model.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	ctx, err := api.ReadValidateAndOptimize(f, e.conf)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	doc := model.NewDocument(filepath.Base(path), path)
	doc.PageCount = ctx.PageCount

	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		blocks := e.extractPageBlocks(ctx, pageNr)
		doc.Blocks = append(doc.Blocks, blocks...)
	}

	normalizeGaps(doc.Blocks)
	doc.TOC = e.extractBookmarks(f)

	return doc, nil
}

// extractPageBlocks pulls the content stream for one page and parses it
// into text blocks.
func (e *Extractor) extractPageBlocks(ctx *pdfmodel.Context, pageNr int) []model.TextBlock {
	r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	if err != nil {
		return nil
	}
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return nil
	}
	return parseContentStream(data, pageNr)
}

// extractBookmarks reads native PDF bookmarks. Bookmark extraction is best
// effort: documents without an outline tree simply have no table of
// contents.
func (e *Extractor) extractBookmarks(f *os.File) []model.TOCEntry {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil
	}
	bms, err := api.Bookmarks(f, e.conf)
	if err != nil {
		return nil
	}

	var toc []model.TOCEntry
	var walk func(bms []pdfcpu.Bookmark, level int)
	walk = func(bms []pdfcpu.Bookmark, level int) {
		for _, bm := range bms {
			toc = append(toc, model.TOCEntry{
				Level: level,
				Title: bm.Title,
				Page:  bm.PageFrom,
			})
			if len(bm.Kids) > 0 {
				walk(bm.Kids, level+1)
			}
		}
	}
	walk(bms, 1)
	return toc
}

package engine

import (
	"fmt"
	"os"
	"path/filepath"
)

// manifestNames are the file names probed for a collection manifest, in
// order of preference.
var manifestNames = []string{"input.json", "challenge1b_input.json"}

// documentDirNames are the subdirectory names probed for a collection's
// document files. When none exists the collection directory itself holds
// the documents.
var documentDirNames = []string{"PDFs", "documents"}

// OpenCollection loads the collection rooted at dir: its manifest and the
// directory its document files live in.
func OpenCollection(dir string) (Collection, error) {
	var manifest *Manifest
	var err error
	for _, name := range manifestNames {
		path := filepath.Join(dir, name)
		if _, statErr := os.Stat(path); statErr != nil {
			continue
		}
		manifest, err = LoadManifest(path)
		if err != nil {
			return Collection{}, err
		}
		break
	}
	if manifest == nil {
		return Collection{}, fmt.Errorf("no manifest found in %s", dir)
	}

	docDir := dir
	for _, name := range documentDirNames {
		candidate := filepath.Join(dir, name)
		if info, statErr := os.Stat(candidate); statErr == nil && info.IsDir() {
			docDir = candidate
			break
		}
	}

	return Collection{
		ID:       filepath.Base(dir),
		Dir:      docDir,
		Manifest: manifest,
	}, nil
}

// DiscoverCollections scans baseDir for subdirectories that contain a
// collection manifest and returns them in lexical order. Invalid
// collections are skipped, not fatal.
func DiscoverCollections(baseDir string) ([]Collection, error) {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", baseDir, err)
	}

	var collections []Collection
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		col, err := OpenCollection(filepath.Join(baseDir, entry.Name()))
		if err != nil {
			continue
		}
		collections = append(collections, col)
	}
	return collections, nil
}

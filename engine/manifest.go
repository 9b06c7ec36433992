package engine

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tsawler/lectio/rank"
)

// ManifestDocument names one input document of a collection.
type ManifestDocument struct {
	// Filename is the document file name, relative to the collection's
	// document directory
	Filename string `json:"filename"`

	// Title optionally carries a human-readable title
	Title string `json:"title,omitempty"`
}

// ChallengeInfo carries opaque collection identifiers that are echoed into
// the output unchanged.
type ChallengeInfo struct {
	ChallengeID string `json:"challenge_id,omitempty"`
	TestCase    string `json:"test_case_name,omitempty"`
	Description string `json:"description,omitempty"`
}

// Manifest describes one collection: its documents, the persona reading
// them, and the job to be done. Document order in the manifest is the
// tie-break order for ranking.
type Manifest struct {
	ChallengeInfo ChallengeInfo      `json:"challenge_info"`
	Documents     []ManifestDocument `json:"documents"`
	Persona       rank.Persona       `json:"persona"`
	Job           rank.Job           `json:"job_to_be_done"`
}

// LoadManifest reads and validates a collection manifest from a JSON file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return &m, nil
}

// Validate checks that the manifest names at least one document and carries
// a non-empty persona or job.
func (m *Manifest) Validate() error {
	if len(m.Documents) == 0 {
		return fmt.Errorf("no documents listed")
	}
	for i, d := range m.Documents {
		if d.Filename == "" {
			return fmt.Errorf("document %d has no filename", i)
		}
	}
	if m.Persona.Role == "" && m.Job.Task == "" {
		return fmt.Errorf("persona role and job task are both empty")
	}
	return nil
}

// DocumentOrder returns the manifest's document filenames in order.
func (m *Manifest) DocumentOrder() []string {
	order := make([]string, len(m.Documents))
	for i, d := range m.Documents {
		order[i] = d.Filename
	}
	return order
}

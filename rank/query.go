package rank

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Persona describes the reader the ranking serves.
type Persona struct {
	// Role is the persona's role (e.g., "Travel Planner")
	Role string `json:"role"`

	// Description optionally elaborates on the role
	Description string `json:"description,omitempty"`
}

// Job describes the task the persona needs the documents for.
type Job struct {
	// Task is the job to be done
	Task string `json:"task"`

	// Context optionally adds constraints or background
	Context string `json:"context,omitempty"`
}

// Query is the normalized text string a collection run is ranked against.
// It is constructed once per run and embedded alongside every section.
type Query struct {
	// Text is the normalized query string
	Text string
}

// NewQuery builds the relevance query from a persona and job. The parts are
// joined into one prompt-style string and normalized (NFKC, collapsed
// whitespace) so identical inputs always embed identically.
func NewQuery(persona Persona, job Job) Query {
	var parts []string
	if persona.Role != "" {
		parts = append(parts, "Persona: "+persona.Role)
	}
	if persona.Description != "" {
		parts = append(parts, persona.Description)
	}
	if job.Task != "" {
		parts = append(parts, "Job: "+job.Task)
	}
	if job.Context != "" {
		parts = append(parts, job.Context)
	}

	text := strings.Join(parts, ". ")
	text = norm.NFKC.String(text)
	text = strings.Join(strings.Fields(text), " ")

	return Query{Text: text}
}

// IsEmpty returns true if the query carries no text to rank against
func (q Query) IsEmpty() bool {
	return q.Text == ""
}

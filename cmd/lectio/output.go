package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/tsawler/lectio/engine"
)

// outputMetadata echoes the collection inputs into the output file.
type outputMetadata struct {
	InputDocuments      []string `json:"input_documents"`
	Persona             string   `json:"persona"`
	JobToBeDone         string   `json:"job_to_be_done"`
	ProcessingTimestamp string   `json:"processing_timestamp"`
}

// extractedSection is one ranked section in the output file.
type extractedSection struct {
	Document        string  `json:"document"`
	SectionTitle    string  `json:"section_title"`
	ImportanceRank  int     `json:"importance_rank"`
	PageNumber      int     `json:"page_number"`
	SemanticScore   float64 `json:"semantic_score"`
	StructuralScore float64 `json:"structural_score"`
	CombinedScore   float64 `json:"combined_score"`
}

// subsectionAnalysis is one refined text in the output file.
type subsectionAnalysis struct {
	Document    string `json:"document"`
	RefinedText string `json:"refined_text"`
	PageNumber  int    `json:"page_number"`
	Degraded    bool   `json:"degraded,omitempty"`
}

// collectionOutput is the per-collection output document.
type collectionOutput struct {
	ChallengeInfo      engine.ChallengeInfo `json:"challenge_info,omitempty"`
	Metadata           outputMetadata       `json:"metadata"`
	ExtractedSections  []extractedSection   `json:"extracted_sections"`
	SubsectionAnalysis []subsectionAnalysis `json:"subsection_analysis"`
}

// collectionError records one failed collection in the run summary.
type collectionError struct {
	Collection string `json:"collection"`
	Error      string `json:"error"`
}

// runSummary is the aggregate processing report for one run.
type runSummary struct {
	Total          int               `json:"total_collections"`
	Successful     int               `json:"successful"`
	Failed         int               `json:"failed"`
	TotalDocuments int               `json:"total_documents"`
	TotalSections  int               `json:"total_sections"`
	Errors         []collectionError `json:"errors,omitempty"`
}

// outputFileName names the per-collection output file after the challenge ID
// when the manifest carries one, else the collection directory name.
func outputFileName(col engine.Collection) string {
	id := col.Manifest.ChallengeInfo.ChallengeID
	if id == "" {
		id = col.ID
	}
	return fmt.Sprintf("output_%s.json", id)
}

// writeCollectionOutput assembles and writes the output JSON for one
// processed collection.
func writeCollectionOutput(path string, col engine.Collection, res *engine.CollectionResult) error {
	out := collectionOutput{
		ChallengeInfo: col.Manifest.ChallengeInfo,
		Metadata: outputMetadata{
			InputDocuments:      res.InputDocuments,
			Persona:             col.Manifest.Persona.Role,
			JobToBeDone:         col.Manifest.Job.Task,
			ProcessingTimestamp: time.Now().Format(time.RFC3339),
		},
		ExtractedSections:  []extractedSection{},
		SubsectionAnalysis: []subsectionAnalysis{},
	}

	for _, sec := range res.Ranking.Sections {
		out.ExtractedSections = append(out.ExtractedSections, extractedSection{
			Document:        sec.DocumentID,
			SectionTitle:    sec.Title,
			ImportanceRank:  sec.ImportanceRank,
			PageNumber:      sec.Page,
			SemanticScore:   sec.SemanticScore,
			StructuralScore: sec.StructuralScore,
			CombinedScore:   sec.CombinedScore,
		})
	}

	for _, r := range res.Refined {
		out.SubsectionAnalysis = append(out.SubsectionAnalysis, subsectionAnalysis{
			Document:    r.DocumentID,
			RefinedText: r.Text,
			PageNumber:  r.Page,
			Degraded:    r.Degraded,
		})
	}

	return writeJSON(path, out)
}

// writeSummary writes the aggregate run report.
func writeSummary(path string, summary *runSummary) error {
	return writeJSON(path, summary)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

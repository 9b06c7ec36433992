// Package classify implements fuzzy heading classification for document
// text blocks.
//
// Classification has two stages. First, [CollectProfile] aggregates per-block
// typography metrics across a document into a [FontProfile], the statistical
// baseline (body size, mean, standard deviation) everything else is measured
// against. Second, the [Classifier] combines seven independent membership
// scores into one composite headingness score per block and estimates a
// hierarchy level:
//
//	profile := classify.CollectProfile(doc.Blocks)
//	classifier := classify.NewClassifier()
//	candidates := classifier.ClassifyDocument(doc, profile)
//
// Each [Candidate] retains its per-signal sub-scores so that detection
// decisions stay explainable and individually testable.
//
// # Signals
//
// The seven signals and their fixed weights (summing to 1.0):
//
//   - Font-size ratio (0.25): Gaussian membership over size relative to body
//   - Length (0.20): trapezoidal membership over word count
//   - Structural pattern (0.25): numbered/lettered/Roman/keyword prefixes
//   - Semantic indicator (0.15): closed vocabulary of section archetypes
//   - Typography (0.10): bold/italic/caps/title-case formatting
//   - Position (0.05): block starts a page
//   - Whitespace isolation (0.10): vertical gap relative to typical spacing
//
// Weights and thresholds live in [Config] and can be tuned per document
// corpus without touching the membership functions.
package classify

// Package refine produces short refined texts for top-ranked sections by
// delegating to an external text-generation collaborator.
//
// The package's own responsibility is thin: assemble the prompt context
// (query plus a truncated section body), bound the requested output, and
// validate the returned text. Generation failures, including
// empty-but-successful results, degrade gracefully to a truncated extract
// of the original section body, with the degradation recorded on the result:
//
//	refiner := refine.NewRefiner(generator)
//	results := refiner.RefineAll(ctx, query, ranked)
package refine

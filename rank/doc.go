// Package rank scores extracted sections against a persona/task query and
// orders the best candidates across every document in a collection.
//
// A [Query] is derived from the reader persona and their job to be done.
// The [Ranker] embeds the query and each section's title plus a bounded
// body snippet into a shared vector space, computes a semantic similarity
// score and a structural importance score per section, blends them, and
// assigns a deterministic global importance rank:
//
//	ranker := rank.NewRanker(embedder)
//	ranking, err := ranker.Rank(ctx, query, sections, docOrder)
//
// Sections whose embedding call fails are excluded from the ranking and
// reported on [Ranking.Excluded], never silently scored zero.
//
// The package ships two [Embedder] implementations: a deterministic TF-IDF
// corpus embedder that needs no external service, and a client for
// OpenAI-compatible embedding endpoints.
package rank

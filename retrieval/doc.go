// Package retrieval provides semantic search over the email corpus.
//
// An Index reads email files written by the sink package, embeds
// "subject + body" with the configured ai.Embedder, and stores the vectors in
// a storage.EmailRepository. Files whose content hash is already indexed are
// skipped, so LoadIndex can run at every start-up.
//
// Search embeds the query and returns the topK most similar emails by cosine
// similarity, highest first. GetRecord resolves a hit back to its email.
package retrieval

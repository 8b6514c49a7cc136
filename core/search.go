package core

import "fmt"

// unknownSource is rendered in citation tags for documents without a source.
const unknownSource = "unknown_source"

// Document is one chunk of a domain corpus. Corpora are loaded once and
// treated as read-only snapshots afterwards.
type Document struct {
	Content string `json:"content"`
	Source  string `json:"source"`
	ChunkID int    `json:"chunk_id"`
}

// CitationTag renders the provenance tag "{source}#chunk-{chunkId}".
func (d Document) CitationTag() string {
	source := d.Source
	if source == "" {
		source = unknownSource
	}
	return fmt.Sprintf("%s#chunk-%d", source, d.ChunkID)
}

// ScoredDocument is a Document paired with the score it earned for a single
// query. The score is never written back to the corpus.
type ScoredDocument struct {
	Document
	Score int `json:"score"`
}

// Retriever ranks a fixed corpus against a query.
type Retriever interface {
	Retrieve(query string) []ScoredDocument
}

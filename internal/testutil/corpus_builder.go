package testutil

import (
	"github.com/hupe1980/intentmesh/core"
)

// CorpusBuilder helps construct document corpora with fluent chaining for tests.
// Example:
//
//	docs := NewCorpusBuilder("policy.md").Chunk("vacaciones").Chunk("onboarding").Build()
//
// Chunk ids are numbered from 1 per source, as the markdown loader does.
type CorpusBuilder struct {
	source string
	next   map[string]int
	docs   []core.Document
}

// NewCorpusBuilder creates a builder whose chunks belong to source until
// Source switches it.
func NewCorpusBuilder(source string) *CorpusBuilder {
	return &CorpusBuilder{source: source, next: map[string]int{}}
}

// Source switches the source of subsequent chunks (chainable).
func (b *CorpusBuilder) Source(source string) *CorpusBuilder { b.source = source; return b }

// Chunk appends a document with the next chunk id of the current source (chainable).
func (b *CorpusBuilder) Chunk(content string) *CorpusBuilder {
	b.next[b.source]++
	b.docs = append(b.docs, core.Document{Content: content, Source: b.source, ChunkID: b.next[b.source]})
	return b
}

// Chunks appends several documents to the current source (chainable).
func (b *CorpusBuilder) Chunks(contents ...string) *CorpusBuilder {
	for _, c := range contents {
		b.Chunk(c)
	}
	return b
}

// Build returns a copy of the accumulated corpus.
func (b *CorpusBuilder) Build() []core.Document {
	return append([]core.Document(nil), b.docs...)
}

// Scored pairs each built document with the given scores (missing scores are 0).
func (b *CorpusBuilder) Scored(scores ...int) []core.ScoredDocument {
	out := make([]core.ScoredDocument, len(b.docs))
	for i, d := range b.docs {
		out[i] = core.ScoredDocument{Document: d}
		if i < len(scores) {
			out[i].Score = scores[i]
		}
	}
	return out
}

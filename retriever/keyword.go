// Package retriever ranks a fixed domain corpus against a query using plain
// keyword overlap. Scoring is deliberately simple: no stemming, no
// embeddings, substring containment only.
package retriever

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/hupe1980/intentmesh/core"
)

// DefaultK is the number of documents returned when no k is configured.
const DefaultK = 4

// minTokenRunes is the shortest token kept by Tokenize.
const minTokenRunes = 3

var separators = strings.NewReplacer("/", " ", ",", " ", ".", " ")

// stopwords is the closed set of connective words dropped by Tokenize.
var stopwords = map[string]struct{}{
	"de": {}, "la": {}, "el": {}, "y": {}, "en": {}, "a": {}, "que": {},
	"como": {}, "con": {}, "para": {}, "por": {}, "un": {}, "una": {},
}

// Tokenize lowercases text, turns '/', ',' and '.' into spaces, splits on
// whitespace and drops short tokens and stopwords. Order and duplicates are
// preserved.
func Tokenize(text string) []string {
	fields := strings.Fields(separators.Replace(strings.ToLower(text)))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) < minTokenRunes {
			continue
		}
		if _, stop := stopwords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// Score computes 2*overlap + phraseBonus for already lowercased content.
// overlap counts distinct query tokens found in the content; phraseBonus
// counts every token of the (non-deduplicated) query sequence found in it.
func Score(lowerContent string, queryTokens []string) int {
	seen := make(map[string]struct{}, len(queryTokens))
	overlap, bonus := 0, 0
	for _, tok := range queryTokens {
		if !strings.Contains(lowerContent, tok) {
			continue
		}
		bonus++
		if _, dup := seen[tok]; !dup {
			seen[tok] = struct{}{}
			overlap++
		}
	}
	return 2*overlap + bonus
}

// Options configures a KeywordRetriever.
type Options struct {
	// K is the maximum number of documents returned. Values <= 0 select DefaultK.
	K int
}

// KeywordRetriever ranks an immutable corpus by keyword overlap. It is safe
// for concurrent use.
type KeywordRetriever struct {
	docs  []core.Document
	lower []string // lowercased content, index-aligned with docs
	k     int
}

// NewKeywordRetriever snapshots docs; later changes to the caller's slice do
// not affect the retriever.
func NewKeywordRetriever(docs []core.Document, optFns ...func(o *Options)) *KeywordRetriever {
	opts := Options{K: DefaultK}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.K <= 0 {
		opts.K = DefaultK
	}

	snapshot := slices.Clone(docs)
	lower := make([]string, len(snapshot))
	for i, d := range snapshot {
		lower[i] = strings.ToLower(d.Content)
	}

	return &KeywordRetriever{docs: snapshot, lower: lower, k: opts.K}
}

// K returns the configured result size.
func (r *KeywordRetriever) K() int { return r.k }

// Len returns the corpus size.
func (r *KeywordRetriever) Len() int { return len(r.docs) }

// Retrieve returns the top min(k, len(corpus)) documents by score, highest
// first. Ties keep corpus order. Zero-scoring documents are not filtered, so
// they fill the result when fewer than k documents match.
func (r *KeywordRetriever) Retrieve(query string) []core.ScoredDocument {
	tokens := Tokenize(query)

	scored := make([]core.ScoredDocument, len(r.docs))
	for i, d := range r.docs {
		scored[i] = core.ScoredDocument{Document: d, Score: Score(r.lower[i], tokens)}
	}

	slices.SortStableFunc(scored, func(a, b core.ScoredDocument) int {
		return b.Score - a.Score
	})

	return scored[:min(r.k, len(scored))]
}

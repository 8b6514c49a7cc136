package testutil

import (
	"context"
	"sync"

	"github.com/hupe1980/intentmesh/core"
)

// StaticRetriever returns the same ranked documents for every query.
type StaticRetriever struct {
	Docs []core.ScoredDocument

	mu      sync.Mutex
	queries []string
}

// Retrieve implements core.Retriever.
func (r *StaticRetriever) Retrieve(query string) []core.ScoredDocument {
	r.mu.Lock()
	r.queries = append(r.queries, query)
	r.mu.Unlock()
	return append([]core.ScoredDocument(nil), r.Docs...)
}

// Queries returns the queries received so far.
func (r *StaticRetriever) Queries() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.queries...)
}

// StubClassifier returns a fixed classification (or error) and records requests.
type StubClassifier struct {
	Result core.IntentClassification
	Err    error
	// Block, when set, makes Classify wait for ctx cancellation.
	Block bool

	mu    sync.Mutex
	calls []core.ClassificationRequest
}

// Classify implements core.Classifier.
func (c *StubClassifier) Classify(ctx context.Context, req core.ClassificationRequest) (core.IntentClassification, error) {
	c.mu.Lock()
	c.calls = append(c.calls, core.ClassificationRequest{Query: req.Query, History: append([]string(nil), req.History...)})
	c.mu.Unlock()

	if c.Block {
		<-ctx.Done()
		return core.IntentClassification{}, ctx.Err()
	}
	if c.Err != nil {
		return core.IntentClassification{}, c.Err
	}
	return c.Result, nil
}

// Calls returns the requests received so far.
func (c *StubClassifier) Calls() []core.ClassificationRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]core.ClassificationRequest(nil), c.calls...)
}

// StubGenerator returns a fixed draft (or error) and records requests.
type StubGenerator struct {
	Draft core.RAGAnswer
	Err   error
	// Block, when set, makes Generate wait for ctx cancellation.
	Block bool

	mu    sync.Mutex
	calls []core.GenerationRequest
}

// Generate implements core.Generator.
func (g *StubGenerator) Generate(ctx context.Context, req core.GenerationRequest) (core.RAGAnswer, error) {
	g.mu.Lock()
	g.calls = append(g.calls, req)
	g.mu.Unlock()

	if g.Block {
		<-ctx.Done()
		return core.RAGAnswer{}, ctx.Err()
	}
	if g.Err != nil {
		return core.RAGAnswer{}, g.Err
	}
	return g.Draft.Clone(), nil
}

// Calls returns the requests received so far.
func (g *StubGenerator) Calls() []core.GenerationRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]core.GenerationRequest(nil), g.calls...)
}

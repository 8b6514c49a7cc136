package core

import (
	"context"
	"errors"
)

var (
	// ErrClassification wraps any failure of the intent classification
	// capability. A failed classification is never reported as a fallback.
	ErrClassification = errors.New("intent classification failed")
	// ErrGeneration wraps any failure of a domain agent's answer generation.
	ErrGeneration = errors.New("answer generation failed")
)

// ClassificationRequest is the input of a Classifier: the current query and
// the prior user turns of the conversation (oldest first).
type ClassificationRequest struct {
	Query   string   `json:"query"`
	History []string `json:"history"`
}

// Classifier decides which domain a query belongs to.
//
// Implementations must return a confidence within [0,1] and a non-empty
// rationale. Callers normalize results regardless.
type Classifier interface {
	Classify(ctx context.Context, req ClassificationRequest) (IntentClassification, error)
}

// ClassifierFunc adapts an ordinary function to the Classifier interface.
type ClassifierFunc func(ctx context.Context, req ClassificationRequest) (IntentClassification, error)

// Classify implements Classifier.
func (f ClassifierFunc) Classify(ctx context.Context, req ClassificationRequest) (IntentClassification, error) {
	return f(ctx, req)
}

// GenerationRequest is the input of a Generator. Context holds the rendered
// evidence block and may be empty when retrieval found nothing.
type GenerationRequest struct {
	Domain       string `json:"domain"`
	Query        string `json:"query"`
	Context      string `json:"context"`
	Instructions string `json:"instructions,omitempty"`
}

// Generator drafts a grounded answer for a domain.
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (RAGAnswer, error)
}

// GeneratorFunc adapts an ordinary function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req GenerationRequest) (RAGAnswer, error)

// Generate implements Generator.
func (f GeneratorFunc) Generate(ctx context.Context, req GenerationRequest) (RAGAnswer, error) {
	return f(ctx, req)
}

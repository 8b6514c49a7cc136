package classifier

import (
	"context"
	"strings"

	"github.com/hupe1980/intentmesh/core"
)

// Fixed heuristic outcomes.
const (
	HRConfidence      = 0.75
	TechConfidence    = 0.78
	UnknownConfidence = 0.45

	hrRationale      = "Matched HR keywords"
	techRationale    = "Matched TECH keywords"
	unknownRationale = "Ambiguous or weak evidence"
)

var (
	hrTerms   = []string{"vacaciones", "beneficios", "onboarding", "rrhh", "desempeno", "reclutamiento"}
	techTerms = []string{"kubernetes", "api", "deploy", "ci/cd", "microserv", "seguridad", "debug"}
)

// Heuristic is a pure keyword classifier for local development and tests.
// It ignores history and never fails.
type Heuristic struct{}

// NewHeuristic returns a Heuristic classifier.
func NewHeuristic() *Heuristic { return &Heuristic{} }

// Classify implements core.Classifier.
func (h *Heuristic) Classify(_ context.Context, req core.ClassificationRequest) (core.IntentClassification, error) {
	return ClassifyText(req.Query), nil
}

// ClassifyText counts case-insensitive substring hits of each term list in
// query. A strictly larger non-zero count wins; ties (including 0-0) are
// UNKNOWN.
func ClassifyText(query string) core.IntentClassification {
	text := strings.ToLower(query)
	hr := countHits(text, hrTerms)
	tech := countHits(text, techTerms)

	switch {
	case hr > tech && hr > 0:
		return core.IntentClassification{Intent: core.IntentHR, Confidence: HRConfidence, Rationale: hrRationale}
	case tech > hr && tech > 0:
		return core.IntentClassification{Intent: core.IntentTech, Confidence: TechConfidence, Rationale: techRationale}
	default:
		return core.IntentClassification{Intent: core.IntentUnknown, Confidence: UnknownConfidence, Rationale: unknownRationale}
	}
}

func countHits(text string, terms []string) int {
	n := 0
	for _, term := range terms {
		if strings.Contains(text, term) {
			n++
		}
	}
	return n
}

package core

import (
	"math"
	"strings"
)

// IntentLabel is the routing decision produced by a Classifier.
type IntentLabel string

const (
	// IntentHR marks people-operations queries (policies, onboarding, benefits).
	IntentHR IntentLabel = "HR"
	// IntentTech marks engineering queries (deployments, APIs, infrastructure).
	IntentTech IntentLabel = "TECH"
	// IntentUnknown marks ambiguous or out-of-scope queries.
	IntentUnknown IntentLabel = "UNKNOWN"
)

// ParseIntentLabel maps free text onto a known label. Anything that is not
// HR or TECH (case-insensitive) becomes IntentUnknown.
func ParseIntentLabel(s string) IntentLabel {
	switch IntentLabel(strings.ToUpper(strings.TrimSpace(s))) {
	case IntentHR:
		return IntentHR
	case IntentTech:
		return IntentTech
	default:
		return IntentUnknown
	}
}

// defaultRationale replaces an empty rationale so the field is never blank.
const defaultRationale = "No rationale provided"

// IntentClassification is the structured output of a Classifier.
type IntentClassification struct {
	Intent     IntentLabel `json:"intent"`
	Confidence float64     `json:"confidence"`
	Rationale  string      `json:"rationale"`
}

// Normalize returns a copy with the label mapped onto a known value, the
// confidence clamped into [0,1] and the rationale trimmed (never empty).
func (c IntentClassification) Normalize() IntentClassification {
	c.Intent = ParseIntentLabel(string(c.Intent))
	c.Confidence = ClampConfidence(c.Confidence)
	c.Rationale = strings.TrimSpace(c.Rationale)
	if c.Rationale == "" {
		c.Rationale = defaultRationale
	}
	return c
}

// ClampConfidence forces v into [0,1]. NaN collapses to 0.
func ClampConfidence(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

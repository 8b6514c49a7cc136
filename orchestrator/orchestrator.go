package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/intentmesh/core"
	"github.com/hupe1980/intentmesh/logging"
)

// DefaultConversationID is used when a request carries no conversation id.
const DefaultConversationID = "default"

// DefaultIntentMinConfidence is the default routing threshold.
const DefaultIntentMinConfidence = 0.60

// Fixed fallback answer.
const (
	FallbackAnswerText = "No pude determinar con seguridad si la consulta corresponde a RRHH o Tecnologia. " +
		"Comparte mas contexto (ejemplos, sistema, politica o proceso) para rutearla correctamente."
	FallbackFollowUp   = "Puedes detallar si tu consulta es de RRHH o de Tecnologia?"
	FallbackConfidence = 0.35
	FallbackNote       = "No retrieval executed due to low-confidence routing."
)

// Agent answers a query for one domain. *agent.DomainAgent implements it.
type Agent interface {
	Answer(ctx context.Context, query string) (core.RAGAnswer, error)
}

// Options configures an Orchestrator.
type Options struct {
	// IntentMinConfidence is the minimum confidence required to honor an HR
	// or TECH label.
	IntentMinConfidence float64
	// ClassifyTimeout bounds the classifier call. Zero means no extra bound.
	ClassifyTimeout time.Duration
	// GenerateTimeout bounds the domain agent call. Zero means no extra bound.
	GenerateTimeout time.Duration
	Logger          logging.Logger
}

// Orchestrator classifies a query and routes it to the HR agent, the TECH
// agent or the fixed fallback.
type Orchestrator struct {
	classifier core.Classifier
	hr         Agent
	tech       Agent
	opts       Options
	logger     logging.Logger
}

// New creates an Orchestrator.
func New(classifier core.Classifier, hr, tech Agent, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		IntentMinConfidence: DefaultIntentMinConfidence,
		Logger:              logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Orchestrator{
		classifier: classifier,
		hr:         hr,
		tech:       tech,
		opts:       opts,
		logger:     logging.OrNoOp(opts.Logger),
	}
}

// IntentMinConfidence returns the configured routing threshold.
func (o *Orchestrator) IntentMinConfidence() float64 { return o.opts.IntentMinConfidence }

// Request is one routing cycle input. History holds prior user turns, oldest
// first, and must not contain Query itself.
type Request struct {
	Query          string
	ConversationID string
	History        []string
}

// Route runs one classify, route, envelope cycle. Classifier failures wrap
// core.ErrClassification and agent failures wrap core.ErrGeneration; neither
// is ever reported as a fallback.
func (o *Orchestrator) Route(ctx context.Context, req Request) (*core.RoutedResponse, error) {
	start := time.Now()
	query := strings.TrimSpace(req.Query)
	conversationID := strings.TrimSpace(req.ConversationID)
	if conversationID == "" {
		conversationID = DefaultConversationID
	}

	classification, err := o.classify(ctx, query, req.History)
	if err != nil {
		return nil, err
	}

	route, agent := o.selectRoute(classification)
	o.logger.Info("orchestrator.route.selected",
		"conversation_id", conversationID,
		"intent", classification.Intent,
		"confidence", classification.Confidence,
		"route", route)

	answer := FallbackAnswer()
	if agent != nil {
		answer, err = o.answer(ctx, agent, query)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", core.ErrGeneration, route, err)
		}
	}

	return &core.RoutedResponse{
		Intent:           classification.Intent,
		Confidence:       classification.Confidence,
		Rationale:        classification.Rationale,
		Answer:           answer.Answer,
		Citations:        answer.Citations,
		FollowUpQuestion: answer.FollowUpQuestion,
		RouteUsed:        route,
		ConversationID:   conversationID,
		ProcessingMS:     max(time.Since(start).Milliseconds(), 0),
		RetrievalHits:    answer.RetrievalHits,
		Debug: map[string]any{
			core.DebugThresholdUsed: o.opts.IntentMinConfidence,
			core.DebugHistoryTurns:  len(req.History),
			core.DebugEvidenceNotes: answer.EvidenceNotes,
		},
	}, nil
}

func (o *Orchestrator) classify(ctx context.Context, query string, history []string) (core.IntentClassification, error) {
	if o.opts.ClassifyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.opts.ClassifyTimeout)
		defer cancel()
	}

	start := time.Now()
	result, err := o.classifier.Classify(ctx, core.ClassificationRequest{
		Query:   query,
		History: append([]string(nil), history...),
	})
	logging.LogCall(o.logger, "orchestrator.classify", start, err)
	if err != nil {
		return core.IntentClassification{}, fmt.Errorf("%w: %w", core.ErrClassification, err)
	}
	return result.Normalize(), nil
}

func (o *Orchestrator) answer(ctx context.Context, agent Agent, query string) (core.RAGAnswer, error) {
	if o.opts.GenerateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.opts.GenerateTimeout)
		defer cancel()
	}
	answer, err := agent.Answer(ctx, query)
	if err != nil {
		return core.RAGAnswer{}, err
	}
	return answer.Normalize(), nil
}

// selectRoute applies the threshold first; only a confident classification
// is matched on its label. A nil agent means the fallback.
func (o *Orchestrator) selectRoute(c core.IntentClassification) (core.Route, Agent) {
	if c.Confidence < o.opts.IntentMinConfidence {
		return core.RouteFallback, nil
	}
	switch c.Intent {
	case core.IntentHR:
		return core.RouteHR, o.hr
	case core.IntentTech:
		return core.RouteTech, o.tech
	default:
		return core.RouteFallback, nil
	}
}

// FallbackAnswer returns the canned low-confidence answer. It performs no
// retrieval and no external call.
func FallbackAnswer() core.RAGAnswer {
	return core.RAGAnswer{
		Answer:           FallbackAnswerText,
		Citations:        []string{},
		Confidence:       FallbackConfidence,
		FollowUpQuestion: FallbackFollowUp,
		RetrievalHits:    0,
		EvidenceNotes:    []string{FallbackNote},
	}
}

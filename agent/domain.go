package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/intentmesh/core"
	"github.com/hupe1980/intentmesh/logging"
)

// DomainAgentOptions configures a DomainAgent instance.
type DomainAgentOptions struct {
	// Instruction is the persona handed to the generator on every call.
	Instruction Instruction
	Logger      logging.Logger
}

// DomainAgent answers queries for one business domain: it retrieves
// evidence from the domain corpus, asks the generator for a draft and merges
// retrieval provenance into the result.
type DomainAgent struct {
	domain      string
	retriever   core.Retriever
	generator   core.Generator
	instruction Instruction
	logger      logging.Logger
}

// NewDomainAgent creates an agent for domain.
func NewDomainAgent(domain string, retriever core.Retriever, generator core.Generator, optFns ...func(o *DomainAgentOptions)) *DomainAgent {
	opts := DomainAgentOptions{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &DomainAgent{
		domain:      domain,
		retriever:   retriever,
		generator:   generator,
		instruction: opts.Instruction,
		logger:      logging.OrNoOp(opts.Logger),
	}
}

// Domain returns the domain name of the agent.
func (a *DomainAgent) Domain() string { return a.domain }

// Answer retrieves, generates and merges. The generator is called even when
// retrieval returned nothing. Generator errors are returned unmodified.
func (a *DomainAgent) Answer(ctx context.Context, query string) (core.RAGAnswer, error) {
	docs := a.retriever.Retrieve(query)
	evidence, tags := FormatEvidence(docs)

	a.logger.Debug("agent.retrieval", "domain", a.domain, "hits", len(docs))

	instructions, err := a.instruction.Resolve(ctx)
	if err != nil {
		return core.RAGAnswer{}, fmt.Errorf("resolve %s instruction: %w", a.domain, err)
	}

	start := time.Now()
	draft, err := a.generator.Generate(ctx, core.GenerationRequest{
		Domain:       a.domain,
		Query:        query,
		Context:      evidence,
		Instructions: instructions,
	})
	logging.LogCall(a.logger, "agent.generate", start, err, "domain", a.domain)
	if err != nil {
		return core.RAGAnswer{}, err
	}

	return mergeDraft(draft, tags, a.domain), nil
}

// FormatEvidence renders retrieved documents as the generator context block
// and returns their citation tags in retrieval order.
func FormatEvidence(docs []core.ScoredDocument) (string, []string) {
	lines := make([]string, 0, len(docs))
	tags := make([]string, 0, len(docs))
	for _, doc := range docs {
		tag := doc.CitationTag()
		tags = append(tags, tag)
		lines = append(lines, fmt.Sprintf("[%s] (score=%d) %s", tag, doc.Score, doc.Content))
	}
	return strings.Join(lines, "\n\n"), tags
}

// mergeDraft folds retrieval provenance into a generator draft. Draft
// citations come first; hits never drop below the retrieved count.
func mergeDraft(draft core.RAGAnswer, tags []string, domain string) core.RAGAnswer {
	answer := draft.Normalize()
	answer.Citations = core.MergeCitations(answer.Citations, tags)
	answer.RetrievalHits = max(answer.RetrievalHits, len(tags))
	if len(answer.EvidenceNotes) == 0 {
		answer.EvidenceNotes = []string{fmt.Sprintf("%d context chunks retrieved for %s", len(tags), domain)}
	}
	return answer
}

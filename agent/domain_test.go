package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/intentmesh/core"
	"github.com/hupe1980/intentmesh/internal/testutil"
	"github.com/hupe1980/intentmesh/retriever"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeDraft_CitationOrder(t *testing.T) {
	got := mergeDraft(core.RAGAnswer{Citations: []string{"a#1", "b#2"}}, []string{"b#2", "c#3"}, DomainHR)
	assert.Equal(t, []string{"a#1", "b#2", "c#3"}, got.Citations)
}

func TestFormatEvidence(t *testing.T) {
	docs := testutil.NewCorpusBuilder("policy.md").Chunks("Vacaciones: 15 dias", "Onboarding en 2 semanas").Scored(6, 3)

	block, tags := FormatEvidence(docs)
	assert.Equal(t, "[policy.md#chunk-1] (score=6) Vacaciones: 15 dias\n\n[policy.md#chunk-2] (score=3) Onboarding en 2 semanas", block)
	assert.Equal(t, []string{"policy.md#chunk-1", "policy.md#chunk-2"}, tags)

	block, tags = FormatEvidence(nil)
	assert.Empty(t, block)
	assert.Empty(t, tags)
}

func TestDomainAgent_Answer(t *testing.T) {
	docs := testutil.NewCorpusBuilder("hr.md").Chunks("vacaciones anuales", "beneficios medicos").Scored(4, 0)
	ret := &testutil.StaticRetriever{Docs: docs}
	gen := &testutil.StubGenerator{Draft: core.RAGAnswer{
		Answer:        "Tienes 15 dias.",
		Citations:     []string{"hr.md#chunk-1", "handbook#chunk-9"},
		Confidence:    1.7,
		RetrievalHits: 1,
	}}

	a := NewDomainAgent(DomainHR, ret, gen, func(o *DomainAgentOptions) {
		o.Instruction = NewInstructionFromText(HRPersona)
	})
	got, err := a.Answer(context.Background(), "vacaciones")
	require.NoError(t, err)

	assert.Equal(t, "Tienes 15 dias.", got.Answer)
	assert.Equal(t, []string{"hr.md#chunk-1", "handbook#chunk-9", "hr.md#chunk-2"}, got.Citations)
	assert.Equal(t, 1.0, got.Confidence)
	assert.Equal(t, 2, got.RetrievalHits)
	assert.Equal(t, []string{"2 context chunks retrieved for HR"}, got.EvidenceNotes)

	calls := gen.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, core.GenerationRequest{
		Domain:       DomainHR,
		Query:        "vacaciones",
		Context:      "[hr.md#chunk-1] (score=4) vacaciones anuales\n\n[hr.md#chunk-2] (score=0) beneficios medicos",
		Instructions: HRPersona,
	}, calls[0])
	assert.Equal(t, []string{"vacaciones"}, ret.Queries())
}

func TestDomainAgent_KeepsDraftNotesAndHigherHits(t *testing.T) {
	gen := &testutil.StubGenerator{Draft: core.RAGAnswer{
		Answer:        "ok",
		RetrievalHits: 7,
		EvidenceNotes: []string{"runbook is outdated"},
	}}
	a := NewDomainAgent(DomainTech, &testutil.StaticRetriever{}, gen)

	got, err := a.Answer(context.Background(), "deploy")
	require.NoError(t, err)
	assert.Equal(t, 7, got.RetrievalHits)
	assert.Equal(t, []string{"runbook is outdated"}, got.EvidenceNotes)
	assert.Equal(t, []string{}, got.Citations)
}

func TestDomainAgent_EmptyRetrievalStillGenerates(t *testing.T) {
	gen := &testutil.StubGenerator{Draft: core.RAGAnswer{Answer: "sin contexto"}}
	a := NewDomainAgent(DomainTech, retriever.NewKeywordRetriever(nil), gen)

	got, err := a.Answer(context.Background(), "kubernetes")
	require.NoError(t, err)

	calls := gen.Calls()
	require.Len(t, calls, 1)
	assert.Empty(t, calls[0].Context)
	assert.Equal(t, 0, got.RetrievalHits)
	assert.Equal(t, []string{"0 context chunks retrieved for TECH"}, got.EvidenceNotes)
}

func TestDomainAgent_GeneratorErrorUnmodified(t *testing.T) {
	boom := errors.New("provider down")
	a := NewDomainAgent(DomainHR, &testutil.StaticRetriever{}, &testutil.StubGenerator{Err: boom})

	_, err := a.Answer(context.Background(), "x")
	assert.Same(t, boom, err)
}

func TestDomainAgent_InstructionError(t *testing.T) {
	boom := errors.New("no persona")
	gen := &testutil.StubGenerator{}
	a := NewDomainAgent(DomainHR, &testutil.StaticRetriever{}, gen, func(o *DomainAgentOptions) {
		o.Instruction = NewInstructionFromProvider(mockProvider{err: boom})
	})

	_, err := a.Answer(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, gen.Calls())
}

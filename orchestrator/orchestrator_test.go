package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hupe1980/intentmesh/agent"
	"github.com/hupe1980/intentmesh/core"
	"github.com/hupe1980/intentmesh/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Agent = (*agent.DomainAgent)(nil)

type fixture struct {
	classifier *testutil.StubClassifier
	hrGen      *testutil.StubGenerator
	techGen    *testutil.StubGenerator
	orch       *Orchestrator
}

func newFixture(c core.IntentClassification, optFns ...func(o *Options)) *fixture {
	f := &fixture{
		classifier: &testutil.StubClassifier{Result: c},
		hrGen:      &testutil.StubGenerator{Draft: core.RAGAnswer{Answer: "hr answer", Confidence: 0.9}},
		techGen:    &testutil.StubGenerator{Draft: core.RAGAnswer{Answer: "tech answer", Confidence: 0.8}},
	}
	hrDocs := testutil.NewCorpusBuilder("hr.md").Chunks("vacaciones").Scored(3)
	techDocs := testutil.NewCorpusBuilder("tech.md").Chunks("kubernetes", "api").Scored(4, 2)

	hr := agent.NewDomainAgent(agent.DomainHR, &testutil.StaticRetriever{Docs: hrDocs}, f.hrGen)
	tech := agent.NewDomainAgent(agent.DomainTech, &testutil.StaticRetriever{Docs: techDocs}, f.techGen)
	f.orch = New(f.classifier, hr, tech, optFns...)
	return f
}

func TestRoute_Table(t *testing.T) {
	tests := []struct {
		name   string
		intent core.IntentLabel
		conf   float64
		route  core.Route
		answer string
	}{
		{"hr above threshold", core.IntentHR, 0.75, core.RouteHR, "hr answer"},
		{"hr exactly at threshold", core.IntentHR, 0.60, core.RouteHR, "hr answer"},
		{"hr below threshold", core.IntentHR, 0.30, core.RouteFallback, FallbackAnswerText},
		{"tech above threshold", core.IntentTech, 0.78, core.RouteTech, "tech answer"},
		{"tech below threshold", core.IntentTech, 0.59, core.RouteFallback, FallbackAnswerText},
		{"confident unknown", core.IntentUnknown, 0.99, core.RouteFallback, FallbackAnswerText},
		{"unrecognized label", core.IntentLabel("FINANCE"), 0.99, core.RouteFallback, FallbackAnswerText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(core.IntentClassification{Intent: tt.intent, Confidence: tt.conf, Rationale: "r"})
			resp, err := f.orch.Route(context.Background(), Request{Query: "q", ConversationID: "c1"})
			require.NoError(t, err)
			assert.Equal(t, tt.route, resp.RouteUsed)
			assert.Equal(t, tt.answer, resp.Answer)
		})
	}
}

func TestRoute_FallbackMakesNoCalls(t *testing.T) {
	f := newFixture(core.IntentClassification{Intent: core.IntentHR, Confidence: 0.30, Rationale: "weak"})

	resp, err := f.orch.Route(context.Background(), Request{Query: "  vacaciones  "})
	require.NoError(t, err)

	assert.Equal(t, core.RouteFallback, resp.RouteUsed)
	assert.Equal(t, core.IntentHR, resp.Intent)
	assert.Equal(t, 0.30, resp.Confidence)
	assert.Equal(t, 0, resp.RetrievalHits)
	assert.Equal(t, []string{}, resp.Citations)
	assert.Equal(t, FallbackFollowUp, resp.FollowUpQuestion)
	assert.Equal(t, DefaultConversationID, resp.ConversationID)
	assert.Equal(t, []string{FallbackNote}, resp.Debug[core.DebugEvidenceNotes])
	assert.Empty(t, f.hrGen.Calls())
	assert.Empty(t, f.techGen.Calls())
}

func TestRoute_Envelope(t *testing.T) {
	f := newFixture(core.IntentClassification{Intent: core.IntentTech, Confidence: 1.5, Rationale: "  k8s  "},
		func(o *Options) { o.IntentMinConfidence = 0.7 })

	resp, err := f.orch.Route(context.Background(), Request{
		Query:          "  deploy a kubernetes  ",
		ConversationID: "conv-9",
		History:        []string{"hola", "api"},
	})
	require.NoError(t, err)

	assert.Equal(t, core.IntentTech, resp.Intent)
	assert.Equal(t, 1.0, resp.Confidence)
	assert.Equal(t, "k8s", resp.Rationale)
	assert.Equal(t, core.RouteTech, resp.RouteUsed)
	assert.Equal(t, "conv-9", resp.ConversationID)
	assert.Equal(t, []string{"tech.md#chunk-1", "tech.md#chunk-2"}, resp.Citations)
	assert.Equal(t, 2, resp.RetrievalHits)
	assert.GreaterOrEqual(t, resp.ProcessingMS, int64(0))
	assert.Equal(t, map[string]any{
		core.DebugThresholdUsed: 0.7,
		core.DebugHistoryTurns:  2,
		core.DebugEvidenceNotes: []string{"2 context chunks retrieved for TECH"},
	}, resp.Debug)

	calls := f.classifier.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, core.ClassificationRequest{Query: "deploy a kubernetes", History: []string{"hola", "api"}}, calls[0])
	assert.Equal(t, "deploy a kubernetes", f.techGen.Calls()[0].Query)
}

func TestRoute_ClassificationFailure(t *testing.T) {
	boom := errors.New("router offline")
	f := newFixture(core.IntentClassification{})
	f.classifier.Err = boom

	resp, err := f.orch.Route(context.Background(), Request{Query: "q"})
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, core.ErrClassification)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, core.ErrGeneration)
}

func TestRoute_GenerationFailure(t *testing.T) {
	boom := errors.New("writer offline")
	f := newFixture(core.IntentClassification{Intent: core.IntentHR, Confidence: 0.9, Rationale: "r"})
	f.hrGen.Err = boom

	resp, err := f.orch.Route(context.Background(), Request{Query: "q"})
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, core.ErrGeneration)
	assert.ErrorIs(t, err, boom)
}

func TestRoute_Timeouts(t *testing.T) {
	t.Run("classify", func(t *testing.T) {
		f := newFixture(core.IntentClassification{}, func(o *Options) { o.ClassifyTimeout = 10 * time.Millisecond })
		f.classifier.Block = true

		_, err := f.orch.Route(context.Background(), Request{Query: "q"})
		assert.ErrorIs(t, err, core.ErrClassification)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("generate", func(t *testing.T) {
		f := newFixture(core.IntentClassification{Intent: core.IntentTech, Confidence: 0.9, Rationale: "r"},
			func(o *Options) { o.GenerateTimeout = 10 * time.Millisecond })
		f.techGen.Block = true

		_, err := f.orch.Route(context.Background(), Request{Query: "q"})
		assert.ErrorIs(t, err, core.ErrGeneration)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestFallbackAnswer_Fresh(t *testing.T) {
	a := FallbackAnswer()
	a.EvidenceNotes[0] = "mutated"
	assert.Equal(t, FallbackNote, FallbackAnswer().EvidenceNotes[0])
	assert.Equal(t, 0.35, a.Confidence)
}

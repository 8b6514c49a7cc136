package classifier

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hupe1980/intentmesh/core"
	"github.com/hupe1980/intentmesh/internal/util"
	"github.com/hupe1980/intentmesh/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ core.Classifier = (*Heuristic)(nil)
	_ core.Classifier = (*ModelClassifier)(nil)
)

func TestClassifyText(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		intent     core.IntentLabel
		confidence float64
		rationale  string
	}{
		{"hr only", "vacaciones y onboarding", core.IntentHR, 0.75, "Matched HR keywords"},
		{"hr upper case", "Politica de VACACIONES", core.IntentHR, 0.75, "Matched HR keywords"},
		{"tech only", "como hago deploy en kubernetes", core.IntentTech, 0.78, "Matched TECH keywords"},
		{"tech substring", "arquitectura de microservicios", core.IntentTech, 0.78, "Matched TECH keywords"},
		{"no hits", "hola, que tal", core.IntentUnknown, 0.45, "Ambiguous or weak evidence"},
		{"tie", "beneficios del api", core.IntentUnknown, 0.45, "Ambiguous or weak evidence"},
		{"hr majority", "onboarding y beneficios para el api", core.IntentHR, 0.75, "Matched HR keywords"},
		{"empty", "", core.IntentUnknown, 0.45, "Ambiguous or weak evidence"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyText(tt.query)
			assert.Equal(t, tt.intent, got.Intent)
			assert.Equal(t, tt.confidence, got.Confidence)
			assert.Equal(t, tt.rationale, got.Rationale)
		})
	}
}

func TestHeuristic_IgnoresHistory(t *testing.T) {
	h := NewHeuristic()
	got, err := h.Classify(context.Background(), core.ClassificationRequest{
		Query:   "necesito ayuda",
		History: []string{"deploy en kubernetes"},
	})
	require.NoError(t, err)
	assert.Equal(t, core.IntentUnknown, got.Intent)
}

func TestRenderHistory(t *testing.T) {
	assert.Equal(t, "N/A", RenderHistory(nil))
	assert.Equal(t, "- uno\n- dos", RenderHistory([]string{"uno", "dos"}))
}

func TestModelClassifier_ToolCall(t *testing.T) {
	m := model.NewMockModel("router", "mock")
	require.NoError(t, m.RespondWithTool(ClassifyToolName, map[string]any{
		"intent":     "tech",
		"confidence": 1.4,
		"rationale":  "  mentions kubernetes  ",
	}))

	c := NewModelClassifier(m)
	got, err := c.Classify(context.Background(), core.ClassificationRequest{
		Query:   "  kubernetes rollout  ",
		History: []string{"hola"},
	})
	require.NoError(t, err)
	assert.Equal(t, core.IntentClassification{Intent: core.IntentTech, Confidence: 1, Rationale: "mentions kubernetes"}, got)

	reqs := m.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, RouterPrompt, reqs[0].Instructions)
	require.Len(t, reqs[0].Tools, 1)
	assert.Equal(t, ClassifyToolName, reqs[0].Tools[0].Function.Name)
	prompt := reqs[0].Messages[0].Content
	assert.True(t, strings.Contains(prompt, "- hola"))
	assert.True(t, strings.Contains(prompt, "Current user query:\nkubernetes rollout\n"))
}

func TestModelClassifier_TextFallbackAndUnknownLabel(t *testing.T) {
	m := model.NewMockModel("router", "mock")
	m.SetFallback(model.Response{Text: `{"intent": "FINANCE", "confidence": 0.9, "rationale": ""}`})

	got, err := NewModelClassifier(m).Classify(context.Background(), core.ClassificationRequest{Query: "budget"})
	require.NoError(t, err)
	assert.Equal(t, core.IntentUnknown, got.Intent)
	assert.Equal(t, 0.9, got.Confidence)
	assert.NotEmpty(t, got.Rationale)

	assert.Contains(t, m.Requests()[0].Messages[0].Content, "N/A")
}

func TestModelClassifier_Errors(t *testing.T) {
	t.Run("provider failure", func(t *testing.T) {
		boom := errors.New("rate limited")
		m := model.NewMockModel("router", "mock")
		m.FailWith(boom)

		_, err := NewModelClassifier(m).Classify(context.Background(), core.ClassificationRequest{Query: "x"})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("no structured output", func(t *testing.T) {
		m := model.NewMockModel("router", "mock")
		m.SetFallback(model.Response{Text: "I think it is HR"})

		_, err := NewModelClassifier(m).Classify(context.Background(), core.ClassificationRequest{Query: "x"})
		assert.ErrorIs(t, err, model.ErrNoStructuredOutput)
	})

	t.Run("missing field", func(t *testing.T) {
		m := model.NewMockModel("router", "mock")
		require.NoError(t, m.RespondWithTool(ClassifyToolName, map[string]any{"intent": "HR"}))

		_, err := NewModelClassifier(m).Classify(context.Background(), core.ClassificationRequest{Query: "x"})
		var verr *util.ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

func TestModelClassifier_CustomInstruction(t *testing.T) {
	m := model.NewMockModel("router", "mock")
	require.NoError(t, m.RespondWithTool(ClassifyToolName, map[string]any{
		"intent": "HR", "confidence": 0.8, "rationale": "policy",
	}))

	c := NewModelClassifier(m, func(o *ModelClassifierOptions) { o.Instruction = "route it" })
	_, err := c.Classify(context.Background(), core.ClassificationRequest{Query: "x"})
	require.NoError(t, err)
	assert.Equal(t, "route it", m.Requests()[0].Instructions)
}

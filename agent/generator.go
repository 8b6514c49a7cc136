package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hupe1980/intentmesh/core"
	"github.com/hupe1980/intentmesh/internal/util"
	"github.com/hupe1980/intentmesh/logging"
	"github.com/hupe1980/intentmesh/model"
)

// SubmitAnswerToolName is the function tool the model calls with its answer.
const SubmitAnswerToolName = "submit_answer"

// answerPayload is the structured output requested from the model.
// Optional fields are omitempty so the schema does not require them.
type answerPayload struct {
	Answer           string   `json:"answer" description:"Answer grounded in the retrieved context"`
	Citations        []string `json:"citations" description:"Citation tags of the evidence used, e.g. policy.md#chunk-2"`
	Confidence       float64  `json:"confidence" description:"Confidence between 0 and 1"`
	FollowUpQuestion string   `json:"follow_up_question" description:"One focused follow-up question"`
	RetrievalHits    int      `json:"retrieval_hits,omitempty" description:"Number of context chunks used"`
	EvidenceNotes    []string `json:"evidence_notes,omitempty" description:"Notes about evidence quality or gaps"`
}

// ModelGeneratorOptions configures a ModelGenerator.
type ModelGeneratorOptions struct {
	Logger logging.Logger
}

// ModelGenerator drafts domain answers through a language model.
type ModelGenerator struct {
	llm    model.Model
	schema map[string]any
	logger logging.Logger
}

// NewModelGenerator creates a generator backed by llm.
func NewModelGenerator(llm model.Model, optFns ...func(o *ModelGeneratorOptions)) *ModelGenerator {
	opts := ModelGeneratorOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &ModelGenerator{
		llm:    llm,
		schema: util.CreateSchema(answerPayload{}),
		logger: logging.OrNoOp(opts.Logger),
	}
}

// Generate implements core.Generator.
func (g *ModelGenerator) Generate(ctx context.Context, req core.GenerationRequest) (answer core.RAGAnswer, err error) {
	start := time.Now()
	defer func() {
		logging.LogCall(g.logger, "generator.model", start, err,
			"provider", g.llm.Info().Provider, "domain", req.Domain)
	}()

	prompt, err := util.RenderTemplate(answerTemplate, map[string]any{
		"domain":  req.Domain,
		"query":   req.Query,
		"context": req.Context,
	})
	if err != nil {
		return core.RAGAnswer{}, err
	}

	resp, err := model.Collect(ctx, g.llm, model.Request{
		Instructions: req.Instructions,
		Messages:     []model.Message{{Role: model.RoleUser, Content: prompt}},
		Tools: []model.ToolDefinition{
			model.NewFunctionTool(SubmitAnswerToolName, "Submit the grounded answer for the user query.", g.schema),
		},
	})
	if err != nil {
		return core.RAGAnswer{}, fmt.Errorf("generate %s answer: %w", req.Domain, err)
	}

	raw, err := model.StructuredArguments(resp, SubmitAnswerToolName)
	if err != nil {
		return core.RAGAnswer{}, err
	}

	var params map[string]any
	if err := json.Unmarshal(raw, &params); err != nil {
		return core.RAGAnswer{}, fmt.Errorf("decode %s arguments: %w", SubmitAnswerToolName, err)
	}
	if err := util.ValidateParameters(params, g.schema); err != nil {
		return core.RAGAnswer{}, err
	}

	var payload answerPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return core.RAGAnswer{}, fmt.Errorf("decode %s arguments: %w", SubmitAnswerToolName, err)
	}

	return core.RAGAnswer{
		Answer:           payload.Answer,
		Citations:        payload.Citations,
		Confidence:       payload.Confidence,
		FollowUpQuestion: payload.FollowUpQuestion,
		RetrievalHits:    payload.RetrievalHits,
		EvidenceNotes:    payload.EvidenceNotes,
	}.Normalize(), nil
}

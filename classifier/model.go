package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/intentmesh/core"
	"github.com/hupe1980/intentmesh/internal/util"
	"github.com/hupe1980/intentmesh/logging"
	"github.com/hupe1980/intentmesh/model"
)

// ClassifyToolName is the function tool the model must call with its verdict.
const ClassifyToolName = "classify_intent"

// intentPayload is the structured output requested from the model.
type intentPayload struct {
	Intent     string  `json:"intent" description:"Routing label" enum:"HR,TECH,UNKNOWN"`
	Confidence float64 `json:"confidence" description:"Confidence between 0 and 1"`
	Rationale  string  `json:"rationale" description:"Short, concrete justification"`
}

// ModelClassifierOptions configures a ModelClassifier.
type ModelClassifierOptions struct {
	// Instruction is the system prompt. Defaults to RouterPrompt.
	Instruction string
	Logger      logging.Logger
}

// ModelClassifier classifies intent through a language model using function
// calling for structured output.
type ModelClassifier struct {
	llm         model.Model
	instruction string
	schema      map[string]any
	logger      logging.Logger
}

// NewModelClassifier creates a classifier backed by llm.
func NewModelClassifier(llm model.Model, optFns ...func(o *ModelClassifierOptions)) *ModelClassifier {
	opts := ModelClassifierOptions{
		Instruction: RouterPrompt,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &ModelClassifier{
		llm:         llm,
		instruction: opts.Instruction,
		schema:      util.CreateSchema(intentPayload{}),
		logger:      logging.OrNoOp(opts.Logger),
	}
}

// Classify implements core.Classifier.
func (c *ModelClassifier) Classify(ctx context.Context, req core.ClassificationRequest) (result core.IntentClassification, err error) {
	start := time.Now()
	defer func() {
		logging.LogCall(c.logger, "classifier.model", start, err,
			"provider", c.llm.Info().Provider, "history_turns", len(req.History))
	}()

	prompt, err := util.RenderTemplate(classifyTemplate, map[string]any{
		"history": RenderHistory(req.History),
		"query":   strings.TrimSpace(req.Query),
	})
	if err != nil {
		return core.IntentClassification{}, err
	}

	resp, err := model.Collect(ctx, c.llm, model.Request{
		Instructions: c.instruction,
		Messages:     []model.Message{{Role: model.RoleUser, Content: prompt}},
		Tools: []model.ToolDefinition{
			model.NewFunctionTool(ClassifyToolName, "Report the routing label for the current query.", c.schema),
		},
	})
	if err != nil {
		return core.IntentClassification{}, fmt.Errorf("classify intent: %w", err)
	}

	payload, err := c.decode(resp)
	if err != nil {
		return core.IntentClassification{}, err
	}

	return core.IntentClassification{
		Intent:     core.IntentLabel(payload.Intent),
		Confidence: payload.Confidence,
		Rationale:  payload.Rationale,
	}.Normalize(), nil
}

func (c *ModelClassifier) decode(resp model.Response) (intentPayload, error) {
	raw, err := model.StructuredArguments(resp, ClassifyToolName)
	if err != nil {
		return intentPayload{}, err
	}

	var params map[string]any
	if err := json.Unmarshal(raw, &params); err != nil {
		return intentPayload{}, fmt.Errorf("decode %s arguments: %w", ClassifyToolName, err)
	}
	if err := util.ValidateParameters(params, c.schema); err != nil {
		return intentPayload{}, err
	}

	var payload intentPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return intentPayload{}, fmt.Errorf("decode %s arguments: %w", ClassifyToolName, err)
	}
	return payload, nil
}

// RenderHistory formats prior turns as a bullet list, or "N/A" when there
// are none.
func RenderHistory(history []string) string {
	if len(history) == 0 {
		return "N/A"
	}
	lines := make([]string, len(history))
	for i, turn := range history {
		lines[i] = "- " + turn
	}
	return strings.Join(lines, "\n")
}

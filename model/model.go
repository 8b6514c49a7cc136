package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ErrNoStructuredOutput is returned when a response carries neither the
// expected tool call nor a JSON body.
var ErrNoStructuredOutput = errors.New("model returned no structured output")

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one conversational turn handed to a provider.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ToolCall represents a function call request surfaced by a model provider.
// Unified across vendors so downstream logic does not need per-provider branching.
type ToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"` // "function"
	Function ToolCallFunction `json:"function"`
}

// ToolCallFunction describes the concrete function target of a tool call.
type ToolCallFunction struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolDefinition declaratively exposes a callable function to the model.
type ToolDefinition struct {
	Type     string             `json:"type"` // "function"
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes an individual function (tool) exposed to the model.
// Parameters is a JSON Schema object (draft agnostic, minimal subset expected).
type FunctionDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// NewFunctionTool is shorthand for a function ToolDefinition.
func NewFunctionTool(name, description string, parameters map[string]any) ToolDefinition {
	return ToolDefinition{
		Type:     "function",
		Function: FunctionDefinition{Name: name, Description: description, Parameters: parameters},
	}
}

// Request captures the normalized model input.
type Request struct {
	Instructions string           `json:"instructions"`
	Messages     []Message        `json:"messages"`
	Tools        []ToolDefinition `json:"tools,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the final completion emitted by a model.
type Response struct {
	ID           string      `json:"id"`
	Text         string      `json:"text"`
	ToolCalls    []ToolCall  `json:"tool_calls,omitempty"`
	FinishReason string      `json:"finish_reason"` // "stop", "length", "tool_calls", etc.
	Usage        *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "mock", etc.
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface required by classifiers and generators.
// Generate delivers exactly one Response or one error; both channels are
// closed when the call finishes.
type Model interface {
	Generate(ctx context.Context, req Request) (<-chan Response, <-chan error)

	// Info returns information about the model implementation.
	Info() Info
}

// Collect drains a Generate call and returns its final response. Context
// cancellation wins over a late response.
func Collect(ctx context.Context, m Model, req Request) (Response, error) {
	respCh, errCh := m.Generate(ctx, req)

	var (
		last Response
		got  bool
	)
	for respCh != nil || errCh != nil {
		select {
		case <-ctx.Done():
			return Response{}, ctx.Err()
		case r, ok := <-respCh:
			if !ok {
				respCh = nil
				continue
			}
			last, got = r, true
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil {
				return Response{}, err
			}
		}
	}
	if !got {
		return Response{}, fmt.Errorf("%s: empty response", m.Info().Provider)
	}
	return last, nil
}

// StructuredArguments returns the JSON payload of the named tool call. When
// the model answered in plain text instead, a JSON object in the text body
// (optionally inside a ```json fence) is accepted.
func StructuredArguments(resp Response, toolName string) (json.RawMessage, error) {
	for _, tc := range resp.ToolCalls {
		if tc.Function.Name == toolName && len(tc.Function.Arguments) > 0 {
			return tc.Function.Arguments, nil
		}
	}

	text := strings.TrimSpace(resp.Text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "{") && json.Valid([]byte(text)) {
		return json.RawMessage(text), nil
	}

	return nil, fmt.Errorf("%w: expected %s call", ErrNoStructuredOutput, toolName)
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
// Responses are keyed by the text of the last message; unmatched requests
// get the fallback response (or an echo when none is set).
type MockModel struct {
	info Info

	mu        sync.Mutex
	responses map[string]Response
	fallback  *Response
	err       error
	requests  []Request
}

// NewMockModel constructs a MockModel with tool support enabled.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: provider, SupportsTools: true},
		responses: make(map[string]Response),
	}
}

// AddResponse registers a deterministic canned response for an input prompt.
func (m *MockModel) AddResponse(prompt string, resp Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = resp
}

// SetFallback sets the response returned for unmatched prompts.
func (m *MockModel) SetFallback(resp Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = &resp
}

// RespondWithTool sets a fallback response consisting of a single call to
// toolName with args marshalled as JSON.
func (m *MockModel) RespondWithTool(toolName string, args any) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return err
	}
	m.SetFallback(Response{
		ToolCalls: []ToolCall{{
			ID:       "call_" + uuid.NewString(),
			Type:     "function",
			Function: ToolCallFunction{Name: toolName, Arguments: raw},
		}},
		FinishReason: "tool_calls",
	})
	return nil
}

// FailWith makes every subsequent call fail with err.
func (m *MockModel) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Requests returns a copy of all requests received so far.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.requests...)
}

// Generate implements Model.
func (m *MockModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 1)
	errCh := make(chan error, 1)

	go func() {
		defer close(respCh)
		defer close(errCh)

		m.mu.Lock()
		m.requests = append(m.requests, req)
		failure := m.err
		m.mu.Unlock()

		if err := ctx.Err(); err != nil {
			errCh <- err
			return
		}
		if failure != nil {
			errCh <- failure
			return
		}
		if len(req.Messages) == 0 {
			errCh <- fmt.Errorf("no messages provided")
			return
		}

		prompt := req.Messages[len(req.Messages)-1].Content

		m.mu.Lock()
		resp, ok := m.responses[prompt]
		if !ok && m.fallback != nil {
			resp, ok = *m.fallback, true
		}
		m.mu.Unlock()

		if !ok {
			resp = Response{Text: fmt.Sprintf("Mock response to: %s", prompt), FinishReason: "stop"}
		}
		if resp.ID == "" {
			resp.ID = uuid.NewString()
		}
		respCh <- resp
	}()

	return respCh, errCh
}

// Info implements Model interface.
func (m *MockModel) Info() Info { return m.info }

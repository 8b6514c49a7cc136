package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/intentmesh/model"
)

var _ model.Model = (*Model)(nil)

func TestGenerate_ToolCall(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "gpt-4o-mini",
			"choices": [{
				"index": 0,
				"finish_reason": "tool_calls",
				"message": {
					"role": "assistant",
					"content": "",
					"tool_calls": [{
						"id": "call_1",
						"type": "function",
						"function": {"name": "classify_intent", "arguments": "{\"intent\":\"HR\"}"}
					}]
				}
			}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15}
		}`))
	}))
	defer srv.Close()

	m := NewModel(func(o *Options) {
		o.APIKey = "sk-test"
		o.BaseURL = srv.URL + "/v1/"
	})

	resp, err := model.Collect(context.Background(), m, model.Request{
		Instructions: "route",
		Messages:     []model.Message{{Role: model.RoleUser, Content: "vacaciones"}},
		Tools:        []model.ToolDefinition{model.NewFunctionTool("classify_intent", "d", map[string]any{"type": "object"})},
	})
	require.NoError(t, err)

	assert.Equal(t, "chatcmpl-1", resp.ID)
	assert.Equal(t, "tool_calls", resp.FinishReason)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "classify_intent", resp.ToolCalls[0].Function.Name)
	assert.JSONEq(t, `{"intent":"HR"}`, string(resp.ToolCalls[0].Function.Arguments))
	assert.Equal(t, &model.TokenUsage{PromptTokens: 12, CompletionTokens: 3, TotalTokens: 15}, resp.Usage)

	msgs := captured["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "gpt-4o-mini", captured["model"])
	assert.Len(t, captured["tools"], 1)
}

func TestGenerate_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"message": "bad request", "type": "invalid_request_error"}}`))
	}))
	defer srv.Close()

	m := NewModel(func(o *Options) {
		o.APIKey = "sk-test"
		o.BaseURL = srv.URL + "/v1/"
	})
	_, err := model.Collect(context.Background(), m, model.Request{Messages: []model.Message{{Role: model.RoleUser, Content: "x"}}})
	assert.ErrorContains(t, err, "openai api error")
}

func TestBuildMessages(t *testing.T) {
	msgs := buildMessages(model.Request{Messages: []model.Message{
		{Role: model.RoleUser, Content: "q1"},
		{Role: model.RoleAssistant, Content: "a1"},
	}})
	require.Len(t, msgs, 2)
	assert.NotNil(t, msgs[0].OfUser)
	assert.NotNil(t, msgs[1].OfAssistant)
}

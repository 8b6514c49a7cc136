// Package model defines the provider-agnostic abstractions used to talk to
// language models inside intentmesh.
//
// Core goals:
//   - Keep request/response shapes minimal and transport independent
//   - Normalize tool / function call representation (ToolDefinition, ToolCall)
//     so structured output can be extracted the same way for every vendor
//   - Facilitate lightweight mocking for tests (MockModel)
//
// Providers (OpenAI, Anthropic) implement the Model interface in
// sub-packages so classifiers and generators stay decoupled from vendor SDKs.
package model

// Package agent contains the domain answering agents of intentmesh.
//
// A DomainAgent owns one corpus retriever, one persona and one Generator.
// Answering a query is a fixed pipeline:
//
//  1. Retrieve the top scored chunks for the query
//  2. Render them as a citation tagged evidence block
//  3. Ask the Generator for a draft grounded on that block
//  4. Merge the draft with the retrieval metadata
//
// ModelGenerator is the Generator backed by a model.Model. It exposes a
// submit_answer tool whose JSON schema is derived from the answer payload,
// and falls back to parsing JSON text when the model answers without calling
// the tool.
//
// Instructions may be static text or resolved per call through a Provider,
// which lets personas be loaded from configuration or a remote source.
package agent

// Package core provides the domain types and capability contracts shared by
// every intentmesh component:
//
//   - IntentClassification and the Classifier capability
//   - Document / ScoredDocument and the Retriever contract
//   - RAGAnswer, citation merging and the Generator capability
//   - RoutedResponse, the envelope produced per request
//   - ConversationStore, the bounded per-conversation memory contract
//
// Concrete behavior (retrieval, classification, routing, storage) lives in
// sibling packages so that implementations can be swapped at wiring time
// without touching callers.
package core

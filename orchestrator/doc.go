// Package orchestrator implements the confidence-gated routing cycle.
//
// A request moves through four states:
//
//	START       trim query, default the conversation id, start the clock
//	CLASSIFIED  classifier result, normalized
//	ROUTED      HR agent, TECH agent or the fixed fallback
//	ENVELOPED   core.RoutedResponse with the debug bag
//
// Any classification below the threshold collapses to the fallback,
// whatever its label.
package orchestrator

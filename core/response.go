package core

// Route names the branch the orchestrator took for a request.
type Route string

const (
	// RouteHR is the HR domain agent branch.
	RouteHR Route = "hr_rag_agent"
	// RouteTech is the TECH domain agent branch.
	RouteTech Route = "tech_rag_agent"
	// RouteFallback is the canned low-confidence answer; it never calls out.
	RouteFallback Route = "fallback_unknown"
)

// Debug bag keys.
const (
	DebugThresholdUsed = "threshold_used"
	DebugHistoryTurns  = "history_turns"
	DebugEvidenceNotes = "evidence_notes"
)

// RoutedResponse is the envelope returned for one request cycle.
type RoutedResponse struct {
	Intent           IntentLabel    `json:"intent"`
	Confidence       float64        `json:"confidence"`
	Rationale        string         `json:"rationale"`
	Answer           string         `json:"answer"`
	Citations        []string       `json:"citations"`
	FollowUpQuestion string         `json:"follow_up_question"`
	RouteUsed        Route          `json:"route_used"`
	ConversationID   string         `json:"conversation_id"`
	ProcessingMS     int64          `json:"processing_ms"`
	RetrievalHits    int            `json:"retrieval_hits"`
	Debug            map[string]any `json:"debug,omitempty"`
}

// WithoutDebug returns a shallow copy with the debug bag removed, for
// presentation layers that hide internal metadata.
func (r RoutedResponse) WithoutDebug() RoutedResponse {
	r.Debug = nil
	return r
}

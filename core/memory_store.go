package core

// ConversationStore keeps the recent user turns of each conversation.
//
// Implementations must serialize operations on the same conversation id and
// keep different ids fully independent.
type ConversationStore interface {
	// Append stores a trimmed copy of text and evicts the oldest turns
	// beyond the configured bound.
	Append(conversationID string, text string) error
	// History returns the turns oldest-to-newest. Unknown ids yield an empty
	// slice, never an error.
	History(conversationID string) ([]string, error)
	// Clear removes the conversation. Absent ids are a no-op.
	Clear(conversationID string) error
}

package memory

import (
	"strings"
	"sync"
)

// DefaultMaxHistoryTurns bounds each conversation when no explicit limit is given.
const DefaultMaxHistoryTurns = 4

// conversation is the history of a single id. Its mutex serializes appends
// and reads for that id only.
type conversation struct {
	mu    sync.Mutex
	turns []string
}

// InMemoryStore is a process-local ConversationStore. It offers:
//  1. Capped FIFO history per conversation id
//  2. Explicit Clear; nothing ever expires implicitly
//
// Concurrency: the id map is protected by an RWMutex, each conversation by
// its own mutex, so operations on different ids never contend on history.
type InMemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]*conversation
	maxTurns      int
}

// Options configures an InMemoryStore.
type Options struct {
	// MaxHistoryTurns caps the retained turns per conversation. Negative
	// values are treated as zero.
	MaxHistoryTurns int
}

// NewInMemoryStore creates an empty store.
func NewInMemoryStore(optFns ...func(o *Options)) *InMemoryStore {
	opts := Options{MaxHistoryTurns: DefaultMaxHistoryTurns}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxHistoryTurns < 0 {
		opts.MaxHistoryTurns = 0
	}
	return &InMemoryStore{
		conversations: make(map[string]*conversation),
		maxTurns:      opts.MaxHistoryTurns,
	}
}

// MaxHistoryTurns returns the configured bound.
func (s *InMemoryStore) MaxHistoryTurns() int { return s.maxTurns }

// Append stores a trimmed copy of text then evicts the oldest turns while the
// history exceeds the bound.
func (s *InMemoryStore) Append(conversationID string, text string) error {
	c := s.getOrCreate(conversationID)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.turns = append(c.turns, strings.TrimSpace(text))
	if excess := len(c.turns) - s.maxTurns; excess > 0 {
		// copy so evicted turns are not pinned by the backing array
		c.turns = append([]string(nil), c.turns[excess:]...)
	}
	return nil
}

// History returns a copy of the turns oldest-to-newest. Unknown ids yield an
// empty slice.
func (s *InMemoryStore) History(conversationID string) ([]string, error) {
	s.mu.RLock()
	c, ok := s.conversations[conversationID]
	s.mu.RUnlock()
	if !ok {
		return []string{}, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.turns))
	copy(out, c.turns)
	return out, nil
}

// Clear removes the conversation entirely. Absent ids are a no-op.
func (s *InMemoryStore) Clear(conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conversations, conversationID)
	return nil
}

// Len reports how many conversations currently hold history.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations)
}

func (s *InMemoryStore) getOrCreate(conversationID string) *conversation {
	s.mu.RLock()
	c, ok := s.conversations[conversationID]
	s.mu.RUnlock()
	if ok {
		return c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok = s.conversations[conversationID]; ok {
		return c
	}
	c = &conversation{}
	s.conversations[conversationID] = c
	return c
}

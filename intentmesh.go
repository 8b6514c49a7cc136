// Package intentmesh provides the routing service façade: it binds the
// orchestrator to conversation memory so that a single Ask call classifies
// a query, routes it to the HR or TECH domain agent (or the fallback) and
// remembers the query for the next turn of the same conversation.
//
// Most applications interact with this package by:
//  1. Building an orchestrator.Orchestrator from a classifier and two domain agents
//  2. Creating a Service via New() (optionally overriding the in-memory store)
//  3. Calling Ask once per user query
//
// internal/bootstrap wires all of the above from a config.Config.
package intentmesh

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/intentmesh/core"
	"github.com/hupe1980/intentmesh/logging"
	"github.com/hupe1980/intentmesh/memory"
	"github.com/hupe1980/intentmesh/orchestrator"
)

// Router runs one routing cycle. *orchestrator.Orchestrator implements it.
type Router interface {
	Route(ctx context.Context, req orchestrator.Request) (*core.RoutedResponse, error)
}

// Options configures the Service instance.
type Options struct {
	// Store keeps recent turns per conversation (defaults to an in-memory
	// store bounded to memory.DefaultMaxHistoryTurns).
	Store core.ConversationStore

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Service is the high-level façade aggregating the router and conversation memory.
type Service struct {
	router Router
	store  core.ConversationStore
	logger logging.Logger
}

// New creates a new Service. Any unset store is initialized with an
// in-memory implementation.
func New(router Router, optFns ...func(o *Options)) *Service {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Store == nil {
		opts.Store = memory.NewInMemoryStore()
	}

	return &Service{router: router, store: opts.Store, logger: logging.OrNoOp(opts.Logger)}
}

// Ask routes query within the given conversation. History is read before
// routing, so the query never sees itself; it is appended only after a
// response was produced and the context is still live. Failed or cancelled
// requests leave memory untouched.
func (s *Service) Ask(ctx context.Context, query, conversationID string) (*core.RoutedResponse, error) {
	start := time.Now()
	requestID := uuid.NewString()
	query = strings.TrimSpace(query)
	conversationID = strings.TrimSpace(conversationID)
	if conversationID == "" {
		conversationID = orchestrator.DefaultConversationID
	}

	s.logger.Debug("service.ask.start", "request_id", requestID, "conversation_id", conversationID)

	history, err := s.store.History(conversationID)
	if err != nil {
		s.logger.Error("service.ask.history_failed", "request_id", requestID, "error", err.Error())
		return nil, err
	}

	resp, err := s.router.Route(ctx, orchestrator.Request{
		Query:          query,
		ConversationID: conversationID,
		History:        history,
	})
	if err != nil {
		s.logger.Error("service.ask.failed", "request_id", requestID, "conversation_id", conversationID, "error", err.Error())
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		s.logger.Warn("service.ask.cancelled", "request_id", requestID, "conversation_id", conversationID)
		return nil, err
	}

	if err := s.store.Append(conversationID, query); err != nil {
		return nil, err
	}

	s.logger.Info("service.ask.complete",
		"request_id", requestID,
		"conversation_id", conversationID,
		"route", resp.RouteUsed,
		"intent", resp.Intent,
		"duration", time.Since(start))

	return resp, nil
}

// History returns the remembered turns of a conversation, oldest first.
func (s *Service) History(conversationID string) ([]string, error) {
	return s.store.History(conversationID)
}

// Reset forgets a conversation.
func (s *Service) Reset(conversationID string) error {
	return s.store.Clear(conversationID)
}

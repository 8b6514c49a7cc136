package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hupe1980/intentmesh/core"
	"github.com/hupe1980/intentmesh/logging"
	"github.com/hupe1980/intentmesh/transport/http/response"
)

// RoutingService is the subset of *intentmesh.Service the handlers need.
type RoutingService interface {
	Ask(ctx context.Context, query, conversationID string) (*core.RoutedResponse, error)
	History(conversationID string) ([]string, error)
	Reset(conversationID string) error
}

type AskHandler struct {
	svc       RoutingService
	hideDebug bool
	logger    logging.Logger
}

type AskRequest struct {
	Query          string `json:"query" binding:"required,max=4000"`
	ConversationID string `json:"conversation_id" binding:"max=128"`
	HideDebug      bool   `json:"hide_debug"`
}

// NewAskHandler creates the ask handler. hideDebug strips the debug bag from
// every reply regardless of the request flag.
func NewAskHandler(svc RoutingService, hideDebug bool, logger logging.Logger) *AskHandler {
	return &AskHandler{svc: svc, hideDebug: hideDebug, logger: logging.OrNoOp(logger)}
}

func (h *AskHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "query must not be blank")
		return
	}

	resp, err := h.svc.Ask(c.Request.Context(), req.Query, req.ConversationID)
	if err != nil {
		h.logger.Warn("http.ask.failed", "conversation_id", req.ConversationID, "error", err.Error())
		writeAskError(c, err)
		return
	}

	if h.hideDebug || req.HideDebug {
		stripped := resp.WithoutDebug()
		resp = &stripped
	}
	response.OK(c, resp)
}

// writeAskError maps routing failures onto HTTP statuses. Deadlines are
// checked first since they arrive wrapped in a capability error.
func writeAskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		response.Error(c, http.StatusGatewayTimeout, response.CodeUpstreamTimeout, "routing timed out")
	case errors.Is(err, context.Canceled):
		response.Error(c, 499, response.CodeRequestCancelled, "request cancelled")
	case errors.Is(err, core.ErrClassification):
		response.Error(c, http.StatusBadGateway, response.CodeUpstreamFailed, "intent classification failed")
	case errors.Is(err, core.ErrGeneration):
		response.Error(c, http.StatusBadGateway, response.CodeUpstreamFailed, "answer generation failed")
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "ask failed")
	}
}

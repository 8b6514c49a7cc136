package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hupe1980/intentmesh/transport/http/response"
)

type ConversationHandler struct {
	svc RoutingService
}

type historyResponse struct {
	ConversationID string   `json:"conversation_id"`
	Turns          []string `json:"turns"`
}

func NewConversationHandler(svc RoutingService) *ConversationHandler {
	return &ConversationHandler{svc: svc}
}

func (h *ConversationHandler) History(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	turns, err := h.svc.History(id)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "load history failed")
		return
	}
	response.OK(c, historyResponse{ConversationID: id, Turns: turns})
}

func (h *ConversationHandler) Reset(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := h.svc.Reset(id); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "reset conversation failed")
		return
	}
	response.OK(c, gin.H{"conversation_id": id})
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/wolfman30/botica-chatbot/internal/dialogue"
	"github.com/wolfman30/botica-chatbot/pkg/logging"
)

const (
	maxChatBody        = 64 << 10
	msgInternalError   = "Lo siento, ocurrió un error interno. Por favor intenta nuevamente."
	msgMessageRequired = "Por favor escribe un mensaje."
)

// Chat answers one message for a session key.
type Chat interface {
	Handle(ctx context.Context, key, message string) (dialogue.Reply, error)
}

// ChatRequest is the body of POST /api/chat. ThreadID is the session key.
type ChatRequest struct {
	Message  *string `json:"message"`
	ThreadID string  `json:"threadId,omitempty"`
}

// ChatResponse echoes the session key so the client can send it back.
type ChatResponse struct {
	Response string `json:"response"`
	ThreadID string `json:"threadId,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ChatHandler serves the synchronous JSON chat endpoint.
type ChatHandler struct {
	chat   Chat
	logger *logging.Logger
}

func NewChatHandler(chat Chat, logger *logging.Logger) *ChatHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ChatHandler{chat: chat, logger: logger}
}

// ServeHTTP handles POST /api/chat.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxChatBody))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ChatResponse{Response: msgMessageRequired, Error: "invalid request body"})
		return
	}
	if req.Message == nil || strings.TrimSpace(*req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, ChatResponse{Response: msgMessageRequired, ThreadID: req.ThreadID, Error: "message is required"})
		return
	}

	reply, err := h.chat.Handle(r.Context(), req.ThreadID, *req.Message)
	if err != nil {
		h.logger.Error("chat: turn failed", "error", err, "session_key", reply.SessionKey)
		detail := err.Error()
		if errors.Is(err, context.Canceled) {
			detail = "request cancelled"
		}
		writeJSON(w, http.StatusInternalServerError, ChatResponse{Response: msgInternalError, Error: detail})
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{Response: reply.Text, ThreadID: reply.SessionKey})
}

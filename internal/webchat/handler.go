package webchat

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/wolfman30/botica-chatbot/internal/dialogue"
	"github.com/wolfman30/botica-chatbot/pkg/logging"
)

// Chat answers one message for a session key.
type Chat interface {
	Handle(ctx context.Context, key, message string) (dialogue.Reply, error)
}

// Handler serves the chat over a WebSocket. Session keys are shared with the
// JSON endpoint, so a conversation can move between transports.
type Handler struct {
	chat     Chat
	logger   *logging.Logger
	allowAny bool
	allow    map[string]struct{}
	newKey   func() string
}

// InboundMessage is what the widget sends.
type InboundMessage struct {
	Type string `json:"type"` // "message", "ping"
	Text string `json:"text"`
}

// OutboundMessage is what we send to the widget.
type OutboundMessage struct {
	Type      string `json:"type"` // "session", "typing", "message", "pong", "error"
	Text      string `json:"text,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Step      string `json:"step,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// NewHandler creates a web chat handler. allowedOrigins follows the CORS
// setting; "*" accepts any browser origin.
func NewHandler(chat Chat, allowedOrigins []string, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	h := &Handler{
		chat:   chat,
		logger: logger,
		allow:  make(map[string]struct{}),
		newKey: func() string { return "session_" + uuid.NewString() },
	}
	for _, o := range allowedOrigins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		switch o {
		case "":
		case "*":
			h.allowAny = true
		default:
			h.allow[o] = struct{}{}
		}
	}
	return h
}

// HandleWebSocket upgrades to WebSocket. The optional "session" query
// parameter resumes an existing conversation.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	srv := websocket.Server{
		Handshake: h.handshake,
		Handler: func(conn *websocket.Conn) {
			h.serveWS(conn, r)
		},
	}
	srv.ServeHTTP(w, r)
}

func (h *Handler) handshake(cfg *websocket.Config, r *http.Request) error {
	origin, err := websocket.Origin(cfg, r)
	if err != nil {
		return err
	}
	if origin == nil {
		return fmt.Errorf("webchat: missing origin")
	}
	cfg.Origin = origin
	if h.allowAny {
		return nil
	}
	if _, ok := h.allow[origin.Scheme+"://"+origin.Host]; !ok {
		return fmt.Errorf("webchat: origin %s not allowed", origin.String())
	}
	return nil
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	ctx := r.Context()
	sessionID := strings.TrimSpace(r.URL.Query().Get("session"))
	if sessionID == "" {
		sessionID = h.newKey()
	}
	logger := h.logger.WithSession(sessionID)

	_ = websocket.JSON.Send(conn, OutboundMessage{Type: "session", SessionID: sessionID})
	logger.Info("webchat: connection opened")

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			logger.Debug("webchat: connection closed", "error", err)
			return
		}

		switch msg.Type {
		case "ping":
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "pong"})
			continue
		case "message":
		default:
			continue
		}
		if strings.TrimSpace(msg.Text) == "" {
			continue
		}

		_ = websocket.JSON.Send(conn, OutboundMessage{Type: "typing"})
		reply, err := h.chat.Handle(ctx, sessionID, msg.Text)
		if err != nil {
			logger.Error("webchat: turn failed", "error", err)
			_ = websocket.JSON.Send(conn, OutboundMessage{
				Type:      "error",
				Text:      "Lo siento, ocurrió un error interno. Por favor intenta nuevamente.",
				SessionID: sessionID,
			})
			continue
		}
		_ = websocket.JSON.Send(conn, OutboundMessage{
			Type:      "message",
			Text:      reply.Text,
			SessionID: reply.SessionKey,
			Step:      string(reply.Step),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/heartmarshall/readrace/internal/events"
	"github.com/heartmarshall/readrace/internal/transport/middleware"
	"github.com/heartmarshall/readrace/pkg/ctxutil"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

// TypeReady is the first frame of every stream; it is sent once the
// subscription is live.
const TypeReady = "stream.ready"

type eventSource interface {
	Subscribe(ctx context.Context, topics ...string) (<-chan events.Event, error)
}

// EventsHandler streams every bus event to a websocket client as
// {"type": topic, "data": payload}.
type EventsHandler struct {
	bus     eventSource
	origins []string
	log     *slog.Logger
}

// NewEventsHandler creates an EventsHandler. Browser clients must send an
// Origin listed in origins.
func NewEventsHandler(bus eventSource, origins []string, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		bus:     bus,
		origins: origins,
		log:     logger.With("handler", "events"),
	}
}

func (h *EventsHandler) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		HandshakeTimeout: 10 * time.Second,
		CheckOrigin:      h.checkOrigin,
	}
}

// checkOrigin accepts non-browser clients, which send no Origin.
func (h *EventsHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if middleware.OriginAllowed(origin, h.origins) {
		return true
	}
	h.log.WarnContext(r.Context(), "websocket origin rejected", slog.String("origin", origin))
	return false
}

// Stream handles GET /v1/events.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	up := h.upgrader()
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		h.log.DebugContext(r.Context(), "websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(ctxutil.Detach(r.Context()))
	defer cancel()

	stream, err := h.bus.Subscribe(ctx, events.AllTopics...)
	if err != nil {
		h.log.ErrorContext(ctx, "subscribe to events", slog.String("error", err.Error()))
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "subscribe failed"),
			time.Now().Add(writeWait))
		return
	}

	go h.readPump(ctx, cancel, conn)

	ready, _ := json.Marshal(map[string]any{"type": TypeReady, "data": map[string]any{"topics": events.AllTopics}})
	if err := h.write(conn, websocket.TextMessage, ready); err != nil {
		return
	}

	h.log.DebugContext(ctx, "event stream opened")
	h.writePump(ctx, conn, stream)
	h.log.DebugContext(ctx, "event stream closed")
}

// readPump discards client frames and cancels the stream when the client
// goes away.
func (h *EventsHandler) readPump(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn) {
	defer cancel()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.DebugContext(ctx, "websocket read", slog.String("error", err.Error()))
			}
			return
		}
	}
}

func (h *EventsHandler) writePump(ctx context.Context, conn *websocket.Conn, stream <-chan events.Event) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return

		case ev, ok := <-stream:
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				h.log.WarnContext(ctx, "encode stream event", slog.String("topic", ev.Topic), slog.String("error", err.Error()))
				continue
			}
			if err := h.write(conn, websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			if err := h.write(conn, websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *EventsHandler) write(conn *websocket.Conn, kind int, data []byte) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(kind, data)
}

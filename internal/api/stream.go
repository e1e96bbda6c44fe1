package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/terra-clan/learnpath/internal/progress"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = (streamPongWait * 9) / 10
	streamBuffer     = 8
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StreamMessage is a frame of the progress stream
type StreamMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

type subscriber struct {
	ch chan *progress.Snapshot
}

// Hub fans progress snapshots out to the websocket subscribers of each user.
// It implements progress.Publisher.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*subscriber]struct{}
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*subscriber]struct{})}
}

// Publish delivers snap to every subscriber of userID. Slow subscribers
// miss snapshots rather than block the tracker.
func (h *Hub) Publish(userID string, snap *progress.Snapshot) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs[userID] {
		select {
		case sub.ch <- snap:
		default:
			slog.Debug("progress subscriber lagging, snapshot dropped", "user_id", userID)
		}
	}
}

// Subscribers returns the number of open streams of userID
func (h *Hub) Subscribers(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}

func (h *Hub) subscribe(userID string) *subscriber {
	sub := &subscriber{ch: make(chan *progress.Snapshot, streamBuffer)}

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[*subscriber]struct{})
	}
	h.subs[userID][sub] = struct{}{}
	h.mu.Unlock()

	return sub
}

func (h *Hub) unsubscribe(userID string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.subs[userID], sub)
	if len(h.subs[userID]) == 0 {
		delete(h.subs, userID)
	}
}

// handleProgressStream pushes a snapshot on connect and after every refetch.
// Clients may send {"type":"refresh"} to force a refetch.
func (s *Server) handleProgressStream(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	sub := s.hub.subscribe(user.ID)
	defer s.hub.unsubscribe(user.ID, sub)

	slog.Info("progress stream connected", "user_id", user.ID)

	// The request context carries the HTTP timeout; the stream outlives it
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	initCtx, initCancel := context.WithTimeout(ctx, streamWriteWait)
	snap, err := s.tracker.Current(initCtx, user)
	initCancel()
	if err != nil {
		s.sendStreamError(conn, "progress storage is unavailable")
	} else if err := s.sendStreamMessage(conn, StreamMessage{Type: "snapshot", Data: overviewResponse(snap)}); err != nil {
		return
	}

	conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})

	// Read from WebSocket; only refresh requests are understood
	go func() {
		defer cancel()
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					slog.Debug("websocket read error", "error", err)
				}
				return
			}

			var msg StreamMessage
			if err := json.Unmarshal(message, &msg); err != nil {
				slog.Debug("invalid message format", "error", err)
				continue
			}

			if msg.Type == "refresh" {
				// A successful fetch is published back through the hub
				if _, err := s.tracker.FetchProgress(ctx, user); err != nil {
					slog.Debug("stream refresh failed", "user_id", user.ID, "error", err)
				}
			}
		}
	}()

	ping := time.NewTicker(streamPingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("progress stream disconnected", "user_id", user.ID)
			return
		case snap := <-sub.ch:
			if err := s.sendStreamMessage(conn, StreamMessage{Type: "snapshot", Data: overviewResponse(snap)}); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				return
			}
		}
	}
}

func (s *Server) sendStreamMessage(conn *websocket.Conn, msg StreamMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal stream message", "error", err)
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Debug("failed to send stream message", "error", err)
		return err
	}
	return nil
}

func (s *Server) sendStreamError(conn *websocket.Conn, message string) {
	s.sendStreamMessage(conn, StreamMessage{
		Type: "error",
		Data: message,
	})
}

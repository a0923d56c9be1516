package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/segmentio/ksuid"

	"github.com/mnohosten/laura-stem/pkg/stemmer"
	"github.com/mnohosten/laura-stem/pkg/text"
)

// DefaultHeartbeat is the interval between keepalive frames
const DefaultHeartbeat = 30 * time.Second

// WebSocket upgrader with default settings
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS is enforced by the router middleware
		return true
	},
}

// StreamManager tracks open stemming streams
type StreamManager struct {
	connections map[string]*StreamConnection
	heartbeat   time.Duration
	mu          sync.RWMutex
}

// StreamConnection is one open websocket
type StreamConnection struct {
	id         string
	conn       *websocket.Conn
	cancelFunc context.CancelFunc
	mu         sync.Mutex
}

// StreamRequest is a frame sent by the client. Words takes precedence over Text.
type StreamRequest struct {
	ID    string   `json:"id,omitempty"`
	Words []string `json:"words,omitempty"`
	Text  string   `json:"text,omitempty"`
}

// StreamResponse is a frame sent to the client
type StreamResponse struct {
	Type    string           `json:"type"` // "connected", "result", "error", "heartbeat"
	ID      string           `json:"id,omitempty"`
	Results []stemmer.Result `json:"results,omitempty"`
	Tokens  []text.Token     `json:"tokens,omitempty"`
	Error   string           `json:"error,omitempty"`
	Message string           `json:"message,omitempty"`
}

// NewStreamManager creates a manager. A zero heartbeat uses DefaultHeartbeat.
func NewStreamManager(heartbeat time.Duration) *StreamManager {
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}
	return &StreamManager{
		connections: make(map[string]*StreamConnection),
		heartbeat:   heartbeat,
	}
}

// Len returns the number of open streams
func (m *StreamManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.connections)
}

// Close closes all active connections
func (m *StreamManager) Close() error {
	m.mu.Lock()
	conns := m.connections
	m.connections = make(map[string]*StreamConnection)
	m.mu.Unlock()

	for _, conn := range conns {
		conn.Close()
	}
	return nil
}

func (m *StreamManager) addConnection(conn *StreamConnection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connections[conn.id] = conn
}

func (m *StreamManager) removeConnection(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.connections, id)
}

// Close cancels the connection and closes the socket
func (c *StreamConnection) Close() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
	c.conn.Close()
}

func (c *StreamConnection) send(resp StreamResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(resp)
}

// HandleStream handles GET /_ws/stem
func (h *Handlers) HandleStream(manager *StreamManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn("websocket upgrade failed", "error", err)
			return
		}
		if h.maxRequestSize > 0 {
			conn.SetReadLimit(h.maxRequestSize)
		}

		ctx, cancel := context.WithCancel(context.Background())
		wsConn := &StreamConnection{
			id:         ksuid.New().String(),
			conn:       conn,
			cancelFunc: cancel,
		}
		log := h.logger.With("stream", wsConn.id)

		manager.addConnection(wsConn)
		h.metrics.RecordStreamStart()
		defer func() {
			manager.removeConnection(wsConn.id)
			wsConn.Close()
			h.metrics.RecordStreamEnd()
			log.Debug("stream closed")
		}()

		if err := wsConn.send(StreamResponse{
			Type:    "connected",
			ID:      wsConn.id,
			Message: "stemming stream connected",
		}); err != nil {
			log.Warn("failed to send acknowledgment", "error", err)
			return
		}

		go func() {
			ticker := time.NewTicker(manager.heartbeat)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := wsConn.send(StreamResponse{Type: "heartbeat", Message: "keepalive"}); err != nil {
						log.Debug("heartbeat failed", "error", err)
						// Unblocks the read loop below.
						wsConn.Close()
						return
					}
				}
			}
		}()

		for {
			var req StreamRequest
			if err := conn.ReadJSON(&req); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Debug("stream read failed", "error", err)
				}
				return
			}

			resp := h.streamResponse(ctx, &req)
			if err := wsConn.send(resp); err != nil {
				log.Debug("stream write failed", "error", err)
				return
			}
		}
	}
}

func (h *Handlers) streamResponse(ctx context.Context, req *StreamRequest) StreamResponse {
	switch {
	case len(req.Words) > 0:
		if len(req.Words) > h.maxBatchWords {
			return StreamResponse{Type: "error", ID: req.ID, Error: "too many words in frame"}
		}
		results, err := stemmer.StemAll(ctx, req.Words, h.batch)
		if err != nil {
			return StreamResponse{Type: "error", ID: req.ID, Error: err.Error()}
		}
		corrected := 0
		for _, res := range results {
			if res.Corrected != res.Stem {
				corrected++
			}
		}
		h.metrics.RecordWords(len(results), corrected)
		return StreamResponse{Type: "result", ID: req.ID, Results: results}
	case req.Text != "":
		tokens := h.analyzer.Analyze(req.Text)
		h.metrics.RecordWords(len(tokens), 0)
		return StreamResponse{Type: "result", ID: req.ID, Tokens: tokens}
	default:
		return StreamResponse{Type: "error", ID: req.ID, Error: `frame needs "words" or "text"`}
	}
}

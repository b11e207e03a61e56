package hub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"

	"github.com/sakshamg567/blockfall/logger"
)

const (
	sendBuffer   = 256
	writeWait    = 10 * time.Second
	pingInterval = 54 * time.Second
)

// Session is one websocket client. The send channel is never closed;
// shutdown goes through ctx so late writers cannot panic.
type Session struct {
	ID     string
	conn   *websocket.Conn
	send   chan []byte
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

func NewSession(c *websocket.Conn) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		ID:     uuid.NewString(),
		conn:   c,
		send:   make(chan []byte, sendBuffer),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Send encodes an event envelope and queues it without blocking.
func (s *Session) Send(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("session %s: marshal %s payload: %v", s.ID, event, err)
		return
	}
	msg, err := json.Marshal(Message{Type: event, Data: data})
	if err != nil {
		logger.Error("session %s: marshal %s envelope: %v", s.ID, event, err)
		return
	}

	select {
	case <-s.ctx.Done():
		return
	default:
	}
	select {
	case s.send <- msg:
	default:
		logger.Warn("session %s send buffer full, dropping %s", s.ID, event)
	}
}

func (s *Session) cleanup() {
	s.once.Do(func() {
		s.cancel()
		s.conn.Close()
	})
}

func (s *Session) ReadPump(h *Hub) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("session %s readPump panic: %v", s.ID, r)
		}
		logger.Debug("session %s readPump exiting", s.ID)
		s.cleanup()
		h.Disconnect(s.ID)
	}()

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("session %s read: %v", s.ID, err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			logger.Warn("session %s sent invalid message: %v", s.ID, err)
			s.Send(EventError, errorPayload{Message: "invalid message"})
			continue
		}
		h.Dispatch(s.ID, msg)
	}
}

func (s *Session) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		s.cleanup()
	}()

	for {
		select {
		case <-s.ctx.Done():
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			s.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case msg := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Warn("session %s write: %v", s.ID, err)
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Warn("session %s ping: %v", s.ID, err)
				return
			}
		}
	}
}

// ServeWS runs a websocket connection against the hub until it closes.
func (h *Hub) ServeWS(c *websocket.Conn) {
	s := NewSession(c)
	logger.Info("websocket %s connected from %s", s.ID, c.RemoteAddr())
	h.Connect(s.ID, s)
	go s.ReadPump(h)
	s.WritePump()
}

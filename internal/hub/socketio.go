package hub

import (
	"encoding/json"

	socketio "github.com/googollee/go-socket.io"

	"github.com/sakshamg567/blockfall/logger"
)

const socketIOPrefix = "sio-"

type socketIOSink struct {
	conn socketio.Conn
}

func (s socketIOSink) Send(event string, payload any) {
	s.conn.Emit(event, payload)
}

func socketIOID(c socketio.Conn) string {
	return socketIOPrefix + c.ID()
}

// NewSocketIO returns a socket.io server that feeds the hub. The caller
// runs Serve and mounts it on /socket.io/.
func (h *Hub) NewSocketIO() *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		logger.Info("socket.io %s connected from %s", c.ID(), c.RemoteAddr())
		h.Connect(socketIOID(c), socketIOSink{conn: c})
		return nil
	})

	for _, event := range InboundEvents {
		server.OnEvent("/", event, func(c socketio.Conn, data map[string]interface{}) {
			raw, err := json.Marshal(data)
			if err != nil {
				c.Emit(EventError, errorPayload{Message: "invalid payload"})
				return
			}
			h.Dispatch(socketIOID(c), Message{Type: event, Data: raw})
		})
	}

	server.OnError("/", func(c socketio.Conn, err error) {
		if c == nil {
			logger.Warn("socket.io error: %v", err)
			return
		}
		logger.Warn("socket.io %s error: %v", c.ID(), err)
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		logger.Info("socket.io %s disconnected: %s", c.ID(), reason)
		h.Disconnect(socketIOID(c))
	})

	return server
}

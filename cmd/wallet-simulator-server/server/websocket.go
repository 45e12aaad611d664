package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeTimeout = 5 * time.Second

// wsSubscriber adapts a websocket connection to the hub's Subscriber
// interface. Writes are serialized with a mutex, as broadcasts and pong
// replies originate from different goroutines.
type wsSubscriber struct {
	id      string
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (w *wsSubscriber) ID() string {
	return w.id
}

func (w *wsSubscriber) Send(data []byte) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	err := w.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err != nil {
		return err
	}
	return w.conn.WriteMessage(websocket.TextMessage, data)
}

func (w *wsSubscriber) Close() error {
	return w.conn.Close()
}

func (s *Server) websocketHandler(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true // Accepting all requests
		},
	}

	connection, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("failed to upgrade connection", zap.Error(err))
		return
	}
	s.logger.Debug("new websocket connection")

	sub := &wsSubscriber{
		id:   uuid.NewString(),
		conn: connection,
	}
	s.hub.Subscribe(sub)

	go s.readLoop(sub)
}

// readLoop handles client messages until the transport fails. The only
// client message with a defined meaning is ping, which is answered with a
// pong; everything else is ignored. A session-level error never tears the
// channel down, only transport failure does.
func (s *Server) readLoop(sub *wsSubscriber) {
	defer s.hub.Unsubscribe(sub.id)

	for {
		_, data, err := sub.conn.ReadMessage()
		if err != nil {
			s.logger.Debug("websocket connection closed", zap.String("clientId", sub.id), zap.Error(err))
			return
		}

		var message struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &message); err != nil {
			continue
		}

		if message.Type == "ping" {
			pong, err := json.Marshal(map[string]interface{}{
				"type":      "pong",
				"timestamp": time.Now().UTC(),
			})
			if err != nil {
				continue
			}
			if err := sub.Send(pong); err != nil {
				s.logger.Debug("failed to send pong", zap.String("clientId", sub.id), zap.Error(err))
				return
			}
		}
	}
}

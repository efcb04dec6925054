package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

// Notice is the JSON envelope pushed to every connected spectator when a game
// changes. Payload carries the phase report for turn-advanced notices.
type Notice struct {
	Type    string      `json:"type"`
	GameID  string      `json:"game_id"`
	Turn    int         `json:"turn"`
	Phase   string      `json:"phase"`
	Payload interface{} `json:"payload,omitempty"`
}

// session is one connected websocket spectator.
type session struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks connected spectators and fans each notice out to all of them.
// Run must be started in its own goroutine before the first ServeWS call.
type Hub struct {
	sessions   map[*session]bool
	notices    chan []byte
	register   chan *session
	unregister chan *session
}

// NewHub creates an idle hub.
func NewHub() *Hub {
	return &Hub{
		sessions:   make(map[*session]bool),
		notices:    make(chan []byte),
		register:   make(chan *session),
		unregister: make(chan *session),
	}
}

// Run owns the session registry. It blocks until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case s := <-h.register:
			h.sessions[s] = true
		case s := <-h.unregister:
			if _, ok := h.sessions[s]; ok {
				delete(h.sessions, s)
				close(s.send)
			}
		case raw := <-h.notices:
			for s := range h.sessions {
				select {
				case s.send <- raw:
				default:
					// Writer is stuck. Drop the session rather than the hub.
					close(s.send)
					delete(h.sessions, s)
				}
			}
		}
	}
}

// Publish sends a notice to every connected session.
func (h *Hub) Publish(n Notice) {
	raw, err := json.Marshal(n)
	if err != nil {
		log.Printf("server: marshal notice: %v", err)
		return
	}
	h.notices <- raw
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// ServeWS upgrades the request and attaches the connection to the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade: %v", err)
		return
	}
	s := &session{hub: h, conn: conn, send: make(chan []byte, 16)}
	h.register <- s
	go s.writePump()
	go s.readPump()
}

// readPump drains the connection so control frames are processed; spectators
// have nothing to say, so inbound payloads are discarded.
func (s *session) readPump() {
	defer func() {
		s.hub.unregister <- s
		_ = s.conn.Close()
	}()
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("server: websocket read: %v", err)
			}
			return
		}
	}
}

// writePump forwards hub notices to the socket until the session is dropped.
func (s *session) writePump() {
	defer func() { _ = s.conn.Close() }()
	for raw := range s.send {
		if err := s.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
			return
		}
	}
}

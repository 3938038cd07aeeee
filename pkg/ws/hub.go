package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/versestream/backend/pkg/xcontext"
)

var ErrHubClosed = errors.New("hub is closed")

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients map[*Client]bool

	// last is sent to every client right after it registers.
	last []byte

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	count      chan chan int

	// done is closed when Run returns, nothing receives from the channels
	// above after that.
	done chan struct{}

	upgrader websocket.Upgrader
}

func NewHub(allowedOrigins []string) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		count:      make(chan chan int),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},
	}
}

func checkOrigin(allowedOrigins []string) func(r *http.Request) bool {
	if len(allowedOrigins) == 0 {
		return func(r *http.Request) bool { return true }
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}

		for _, allowed := range allowedOrigins {
			if allowed == "*" || allowed == origin {
				return true
			}
		}

		return false
	}
}

// Run must be called once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.disconnect(client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			if h.last != nil {
				if err := client.enqueue(h.last); err != nil {
					h.disconnect(client)
				}
			}

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.disconnect(client)
			}

		case msg := <-h.broadcast:
			h.last = msg
			for client := range h.clients {
				if err := client.enqueue(msg); err != nil {
					xcontext.Logger(ctx).Debugf("Drop websocket client: %v", err)
					h.disconnect(client)
				}
			}

		case reply := <-h.count:
			reply <- len(h.clients)
		}
	}
}

func (h *Hub) disconnect(client *Client) {
	delete(h.clients, client)
	close(client.send)
}

// BroadcastJSON sends v to every connected client. It blocks until the hub
// accepts the message.
func (h *Hub) BroadcastJSON(ctx context.Context, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	select {
	case h.broadcast <- b:
		return nil
	case <-h.done:
		return ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) Count(ctx context.Context) int {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
		return <-reply
	case <-h.done:
		return 0
	case <-ctx.Done():
		return 0
	}
}

// ServeHTTP upgrades the request. Clients asking ?compress=1 get zlib
// compressed binary frames.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	compress := r.URL.Query().Get("compress")
	client := newClient(h, conn, compress == "1" || compress == "true")
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.runWriter()
	go client.runReader()
}

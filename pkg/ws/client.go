package ws

import (
	"errors"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 16
)

// Client is a middleman between one websocket connection and the hub.
type Client struct {
	conn *websocket.Conn
	hub  *Hub
	send chan []byte

	// compress clients receive zlib compressed binary frames.
	compress bool
}

func newClient(hub *Hub, conn *websocket.Conn, compress bool) *Client {
	return &Client{
		conn:     conn,
		hub:      hub,
		send:     make(chan []byte, sendBuffer),
		compress: compress,
	}
}

// runReader only drains control frames, clients never send data.
func (c *Client) runReader() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		t, _, err := c.conn.ReadMessage()
		if err != nil || t == websocket.CloseMessage {
			return
		}
	}
}

func (c *Client) runWriter() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.write(msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) write(msg []byte) error {
	if !c.compress {
		return c.conn.WriteMessage(websocket.TextMessage, msg)
	}

	compressed, err := Compress(msg)
	if err != nil {
		return err
	}

	return c.conn.WriteMessage(websocket.BinaryMessage, compressed)
}

// enqueue never blocks. It fails when the client is too slow or already
// disconnected.
func (c *Client) enqueue(msg []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("connection is closed")
		}
	}()

	select {
	case c.send <- msg:
		return nil
	default:
		return errors.New("client is too slow")
	}
}

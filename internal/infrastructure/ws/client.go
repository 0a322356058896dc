package ws

import (
	"context"

	"github.com/gorilla/websocket"
	"github.com/sprintdeck/pokersync/internal/infrastructure/logging"
)

// Client is one websocket connection bound to a user and a room group.
type Client struct {
	conn    *connWrapper
	Message chan any
	ID      string // connection id, unique per socket
	UserID  string
	GroupID string
}

func NewClient(conn *websocket.Conn, id, userID, groupID string) *Client {
	return &Client{
		conn:    newConnWrapper(conn),
		Message: make(chan any, 64), // buffered so a slow reader never blocks the hub
		ID:      id,
		UserID:  userID,
		GroupID: groupID,
	}
}

// ReadPump feeds inbound frames to the sink until the socket closes, then
// unregisters the connection. Room state is untouched by a disconnect.
func (c *Client) ReadPump(core *Core, sink EventSink) {
	defer func() {
		core.Unregister() <- c
		_ = c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				core.logger.Warn(logging.WS, logging.EventIngress, "read error", map[logging.ExtraKey]any{
					logging.ConnectionID: c.ID,
					logging.ErrorMessage: err.Error(),
				})
			}
			break
		}

		if err := sink.HandleEvent(context.Background(), c.GroupID, c.UserID, c.ID, raw); err != nil {
			// Structurally invalid event: tell this client, keep the socket.
			c.enqueue(NewInvalidRequest(c.GroupID, err.Error()))
		}
	}
}

// WritePump drains the client's queue onto the socket.
func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for msg := range c.Message {
		if err := c.conn.WriteJSON(msg); err != nil {
			break
		}
	}
}

// enqueue is non-blocking: a client whose buffer is full loses the message
// rather than stalling the sender.
func (c *Client) enqueue(v any) bool {
	select {
	case c.Message <- v:
		return true
	default:
		return false
	}
}

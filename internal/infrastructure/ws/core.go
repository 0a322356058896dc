package ws

import (
	"github.com/sprintdeck/pokersync/internal/infrastructure/logging"
	"github.com/sprintdeck/pokersync/internal/infrastructure/metrics"
)

// Core is the hub: it owns registration and exposes the fan-out surface the
// dispatcher publishes through. Sends go straight to the GroupManager; only
// connection lifecycle flows through the run loop.
type Core struct {
	groups     *GroupManager
	register   chan *Client
	unregister chan *Client
	logger     logging.Logger
}

func NewCore(logger logging.Logger) *Core {
	return &Core{
		groups:     NewGroupManager(),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

func (c *Core) Run() {
	for {
		select {
		case cl := <-c.register:
			c.groups.Add(cl)
			metrics.ConnectedClients.Set(float64(c.groups.Len()))
			c.logger.Info(logging.WS, logging.Broadcast, "client registered", map[logging.ExtraKey]any{
				logging.ConnectionID: cl.ID,
				logging.UserID:       cl.UserID,
				logging.RoomID:       cl.GroupID,
			})

		case cl := <-c.unregister:
			c.groups.Remove(cl)
			metrics.ConnectedClients.Set(float64(c.groups.Len()))
			c.logger.Info(logging.WS, logging.Broadcast, "client unregistered", map[logging.ExtraKey]any{
				logging.ConnectionID: cl.ID,
				logging.UserID:       cl.UserID,
				logging.RoomID:       cl.GroupID,
			})
		}
	}
}

func (c *Core) Register() chan<- *Client {
	return c.register
}

func (c *Core) Unregister() chan<- *Client {
	return c.unregister
}

// SendToConnection implements the broker surface for single-connection
// delivery.
func (c *Core) SendToConnection(connectionID string, message any) error {
	return c.groups.SendToConnection(connectionID, message)
}

// SendToGroup implements the broker surface for room-wide delivery.
func (c *Core) SendToGroup(groupID string, message any, excludeUserID string) {
	c.groups.SendToGroup(groupID, message, excludeUserID)
}

package ws

import (
	"errors"
	"sync"

	"github.com/sprintdeck/pokersync/internal/infrastructure/metrics"
)

var ErrConnectionNotFound = errors.New("connection not found")

// GroupManager tracks which connections belong to which fan-out group. A
// group name is a room identifier, 1:1.
type GroupManager struct {
	groups map[string]map[string]*Client // groupID -> connectionID -> client
	conns  map[string]*Client            // connectionID -> client
	mu     sync.RWMutex
}

func NewGroupManager() *GroupManager {
	return &GroupManager{
		groups: make(map[string]map[string]*Client),
		conns:  make(map[string]*Client),
	}
}

func (gm *GroupManager) Add(cl *Client) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	group, ok := gm.groups[cl.GroupID]
	if !ok {
		group = make(map[string]*Client)
		gm.groups[cl.GroupID] = group
	}

	if _, exists := group[cl.ID]; !exists {
		group[cl.ID] = cl
		gm.conns[cl.ID] = cl
	}
}

func (gm *GroupManager) Remove(cl *Client) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	group, ok := gm.groups[cl.GroupID]
	if !ok {
		return
	}

	if _, exists := group[cl.ID]; !exists {
		return
	}

	delete(group, cl.ID)
	delete(gm.conns, cl.ID)
	close(cl.Message)

	if len(group) == 0 {
		delete(gm.groups, cl.GroupID)
	}
}

// SendToConnection queues a message for exactly one connection.
func (gm *GroupManager) SendToConnection(connectionID string, message any) error {
	gm.mu.RLock()
	cl, ok := gm.conns[connectionID]
	gm.mu.RUnlock()
	if !ok {
		return ErrConnectionNotFound
	}

	if !cl.enqueue(message) {
		metrics.DroppedMessages.Inc()
	}
	return nil
}

// SendToGroup queues a message for every connection in the group, skipping
// connections owned by excludeUserID when set. Unknown groups are a no-op:
// a room with no connected clients simply has no audience.
func (gm *GroupManager) SendToGroup(groupID string, message any, excludeUserID string) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	for _, cl := range gm.groups[groupID] {
		if excludeUserID != "" && cl.UserID == excludeUserID {
			continue
		}
		if !cl.enqueue(message) {
			metrics.DroppedMessages.Inc()
		}
	}
}

// Len reports the number of registered connections.
func (gm *GroupManager) Len() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.conns)
}

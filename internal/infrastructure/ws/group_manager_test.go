package ws

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestClient(id, userID, groupID string, buffer int) *Client {
	return &Client{
		Message: make(chan any, buffer),
		ID:      id,
		UserID:  userID,
		GroupID: groupID,
	}
}

func drain(cl *Client) []any {
	var out []any
	for {
		select {
		case v := <-cl.Message:
			out = append(out, v)
		default:
			return out
		}
	}
}

func TestGroupManager_SendToConnection(t *testing.T) {
	req := require.New(t)
	gm := NewGroupManager()

	cl := newTestClient("c1", "u1", "room1", 4)
	gm.Add(cl)

	req.NoError(gm.SendToConnection("c1", "hello"))
	req.Equal([]any{"hello"}, drain(cl))

	req.ErrorIs(gm.SendToConnection("missing", "hello"), ErrConnectionNotFound)
}

func TestGroupManager_SendToGroupDeliversToAllMembers(t *testing.T) {
	req := require.New(t)
	gm := NewGroupManager()

	c1 := newTestClient("c1", "u1", "room1", 4)
	c2 := newTestClient("c2", "u2", "room1", 4)
	other := newTestClient("c3", "u3", "room2", 4)
	gm.Add(c1)
	gm.Add(c2)
	gm.Add(other)

	gm.SendToGroup("room1", "msg", "")

	req.Equal([]any{"msg"}, drain(c1))
	req.Equal([]any{"msg"}, drain(c2))
	req.Empty(drain(other))
}

func TestGroupManager_SendToGroupExcludesUser(t *testing.T) {
	req := require.New(t)
	gm := NewGroupManager()

	c1 := newTestClient("c1", "u1", "room1", 4)
	c2 := newTestClient("c2", "u2", "room1", 4)
	// Same user on a second tab: excluded too
	c3 := newTestClient("c3", "u2", "room1", 4)
	gm.Add(c1)
	gm.Add(c2)
	gm.Add(c3)

	gm.SendToGroup("room1", "joined", "u2")

	req.Equal([]any{"joined"}, drain(c1))
	req.Empty(drain(c2))
	req.Empty(drain(c3))
}

func TestGroupManager_SendToUnknownGroupIsNoOp(t *testing.T) {
	gm := NewGroupManager()
	gm.SendToGroup("nobody-home", "msg", "")
}

func TestGroupManager_RemoveClosesAndForgets(t *testing.T) {
	req := require.New(t)
	gm := NewGroupManager()

	cl := newTestClient("c1", "u1", "room1", 4)
	gm.Add(cl)
	req.Equal(1, gm.Len())

	gm.Remove(cl)
	req.Zero(gm.Len())

	_, open := <-cl.Message
	req.False(open)

	// Second remove is harmless
	gm.Remove(cl)
}

func TestGroupManager_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	req := require.New(t)
	gm := NewGroupManager()

	cl := newTestClient("c1", "u1", "room1", 1)
	gm.Add(cl)

	gm.SendToGroup("room1", "first", "")
	gm.SendToGroup("room1", "dropped", "")

	req.Equal([]any{"first"}, drain(cl))
}

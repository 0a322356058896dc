package poker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseClientEvent_Join(t *testing.T) {
	req := require.New(t)

	ev, err := ParseClientEvent([]byte(`{"type":"join","roomId":"room1","nickname":"Alice"}`))
	req.NoError(err)
	req.Equal(EventJoin, ev.Type)
	req.Equal("room1", ev.RoomID)
	req.Equal("Alice", ev.Nickname)
}

func TestParseClientEvent_DoubleEncodedPayload(t *testing.T) {
	req := require.New(t)

	// Some transports deliver the event as a JSON string containing JSON
	ev, err := ParseClientEvent([]byte(`"{\"type\":\"vote\",\"roomId\":\"room1\",\"value\":\"8\"}"`))
	req.NoError(err)
	req.Equal(EventVote, ev.Type)
	req.Equal("8", ev.Value)
}

func TestParseClientEvent_UnknownType(t *testing.T) {
	req := require.New(t)

	ev, err := ParseClientEvent([]byte(`{"type":"teleport","roomId":"room1"}`))
	req.ErrorIs(err, ErrUnknownEventType)
	req.Equal("room1", ev.RoomID)
}

func TestParseClientEvent_Unparsable(t *testing.T) {
	req := require.New(t)

	_, err := ParseClientEvent([]byte(`{not json`))
	req.Error(err)
	req.NotErrorIs(err, ErrUnknownEventType)

	_, err = ParseClientEvent([]byte(`"also not json inside"`))
	req.Error(err)
}

func TestParseClientEvent_SetStory(t *testing.T) {
	req := require.New(t)

	ev, err := ParseClientEvent([]byte(`{"type":"setStory","story":"Login feature","storyUrl":"http://x/1"}`))
	req.NoError(err)
	req.Equal(EventSetStory, ev.Type)
	req.Equal("Login feature", ev.Story)
	req.Equal("http://x/1", ev.StoryURL)
}

func TestParseClientEvent_LeaveIsKnown(t *testing.T) {
	req := require.New(t)

	ev, err := ParseClientEvent([]byte(`{"type":"leave","roomId":"room1"}`))
	req.NoError(err)
	req.Equal(EventLeave, ev.Type)
}

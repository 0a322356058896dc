package poker

import (
	"encoding/json"
	"errors"
	"strings"
)

type EventType string

const (
	EventJoin        EventType = "join"
	EventLeave       EventType = "leave"
	EventVote        EventType = "vote"
	EventReveal      EventType = "reveal"
	EventReset       EventType = "reset"
	EventSetStory    EventType = "setStory"
	EventSetEstimate EventType = "setEstimate"
)

var ErrUnknownEventType = errors.New("unknown event type")

// ClientEvent is the closed set of inbound events. Everything a client can
// send parses into this before any room logic runs; payloads that don't fit
// never reach the state machine.
type ClientEvent struct {
	Type     EventType `json:"type"`
	RoomID   string    `json:"roomId"`
	Nickname string    `json:"nickname"`
	Value    string    `json:"value"`
	Story    string    `json:"story"`
	StoryURL string    `json:"storyUrl"`
	Estimate string    `json:"estimate"`
}

// ParseClientEvent decodes a raw frame into a ClientEvent. Some transports
// deliver the payload as a JSON object and some as a JSON string containing
// JSON, so a frame that decodes to a string is unwrapped and decoded again.
// An event whose type is not in the closed set parses fine but is flagged
// with ErrUnknownEventType so callers can treat it as a logged no-op.
func ParseClientEvent(raw []byte) (ClientEvent, error) {
	var ev ClientEvent

	data := raw
	if isJSONString(data) {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return ev, err
		}
		data = []byte(inner)
	}

	if err := json.Unmarshal(data, &ev); err != nil {
		return ev, err
	}

	switch ev.Type {
	case EventJoin, EventLeave, EventVote, EventReveal, EventReset, EventSetStory, EventSetEstimate:
		return ev, nil
	default:
		return ev, ErrUnknownEventType
	}
}

func isJSONString(raw []byte) bool {
	trimmed := strings.TrimLeft(string(raw), " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '"'
}

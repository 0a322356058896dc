package poker

import "github.com/sprintdeck/pokersync/internal/domain"

const (
	RoomStateMessage    = "roomState"
	UserJoinedMessage   = "userJoined"
	UserLeftMessage     = "userLeft"
	VotedMessage        = "voted"
	RevealedMessage     = "revealed"
	ResetMessage        = "reset"
	StoryUpdatedMessage = "storyUpdated"
	EstimateSetMessage  = "estimateSet"
)

// Message is the outbound envelope. Data carries one of the payload structs
// below, keyed by Type.
type Message struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
	Data   any    `json:"data"`
}

type RoomStatePayload struct {
	State domain.Snapshot `json:"state"`
}

type UserJoinedPayload struct {
	User domain.Participant `json:"user"`
}

// UserLeftPayload is reserved: no event currently removes a participant, but
// clients already understand the shape.
type UserLeftPayload struct {
	UserID string `json:"userId"`
}

type VotedPayload struct {
	UserID string `json:"userId"`
}

type RevealedPayload struct {
	Votes map[string]string `json:"votes"`
}

type StoryUpdatedPayload struct {
	Story    string `json:"story"`
	StoryURL string `json:"storyUrl"`
}

type EstimateSetPayload struct {
	Estimate string `json:"estimate"`
}

func NewRoomState(roomID string, state domain.Snapshot) *Message {
	return &Message{
		Type:   RoomStateMessage,
		RoomID: roomID,
		Data:   RoomStatePayload{State: state},
	}
}

func NewUserJoined(roomID string, user domain.Participant) *Message {
	return &Message{
		Type:   UserJoinedMessage,
		RoomID: roomID,
		Data:   UserJoinedPayload{User: user},
	}
}

func NewVoted(roomID, userID string) *Message {
	return &Message{
		Type:   VotedMessage,
		RoomID: roomID,
		Data:   VotedPayload{UserID: userID},
	}
}

func NewRevealed(roomID string, votes map[string]string) *Message {
	return &Message{
		Type:   RevealedMessage,
		RoomID: roomID,
		Data:   RevealedPayload{Votes: votes},
	}
}

func NewReset(roomID string) *Message {
	return &Message{
		Type:   ResetMessage,
		RoomID: roomID,
		Data:   struct{}{},
	}
}

func NewStoryUpdated(roomID, story, storyURL string) *Message {
	return &Message{
		Type:   StoryUpdatedMessage,
		RoomID: roomID,
		Data:   StoryUpdatedPayload{Story: story, StoryURL: storyURL},
	}
}

func NewEstimateSet(roomID, estimate string) *Message {
	return &Message{
		Type:   EstimateSetMessage,
		RoomID: roomID,
		Data:   EstimateSetPayload{Estimate: estimate},
	}
}

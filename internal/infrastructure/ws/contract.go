package ws

import "context"

// EventSink receives every inbound frame together with the room, user and
// connection it was attributed to. The poker ingress implements it. An error
// return means the event was structurally invalid and the client should be
// told; anything recoverable is the sink's business.
type EventSink interface {
	HandleEvent(ctx context.Context, groupID, userID, connectionID string, payload []byte) error
}

// ErrorPayload is the transport-level error frame sent back on a rejected
// event or a failed attach.
type ErrorPayload struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type errorMessage struct {
	Type   string       `json:"type"`
	RoomID string       `json:"roomId,omitempty"`
	Data   ErrorPayload `json:"data"`
}

func NewInvalidRequest(roomID, message string) any {
	return errorMessage{
		Type:   "error",
		RoomID: roomID,
		Data:   ErrorPayload{Code: "INVALID_REQUEST", Message: message},
	}
}

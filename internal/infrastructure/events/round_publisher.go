package events

import (
	"context"
	"encoding/json"

	"github.com/sprintdeck/pokersync/internal/domain"
	"github.com/sprintdeck/pokersync/internal/infrastructure/messaging"
)

const RoutingKeyRoundCompleted = "round.completed"

type RoundEventData struct {
	RoomID string       `json:"roomId"`
	Round  domain.Round `json:"round"`
}

// RoundPublisher emits a message whenever a revealed round is archived by a
// reset. Downstream consumers (reporting, history) are outside this process.
type RoundPublisher struct {
	rabbitmq *messaging.RabbitMQ
}

func NewRoundPublisher(rabbitmq *messaging.RabbitMQ) *RoundPublisher {
	return &RoundPublisher{
		rabbitmq: rabbitmq,
	}
}

func (p *RoundPublisher) PublishRoundCompleted(ctx context.Context, roomID string, round domain.Round) error {
	payload := RoundEventData{
		RoomID: roomID,
		Round:  round,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return p.rabbitmq.Publish(ctx, RoutingKeyRoundCompleted, body)
}

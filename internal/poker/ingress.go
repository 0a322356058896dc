package poker

import (
	"context"
	"errors"
	"fmt"

	"github.com/sprintdeck/pokersync/internal/domain"
	"github.com/sprintdeck/pokersync/internal/infrastructure/logging"
	"github.com/sprintdeck/pokersync/internal/infrastructure/metrics"
	"github.com/sprintdeck/pokersync/internal/infrastructure/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ErrInvalidRequest marks a structurally invalid event (no room identifier
// anywhere). It is the only ingress failure surfaced back to the client.
var ErrInvalidRequest = errors.New("roomId is required")

// RoundPublisher receives completed estimation rounds. The AMQP publisher
// implements it; a nil publisher disables the concern.
type RoundPublisher interface {
	PublishRoundCompleted(ctx context.Context, roomID string, round domain.Round) error
}

// Ingress turns raw inbound frames into room transitions and hands the
// resulting messages to the dispatcher. It is stateless per call; all shared
// state lives in the registry's rooms.
type Ingress struct {
	registry   *domain.Registry
	dispatcher *Dispatcher
	logger     logging.Logger
	publisher  RoundPublisher
	tracer     trace.Tracer
}

func NewIngress(registry *domain.Registry, dispatcher *Dispatcher, logger logging.Logger, publisher RoundPublisher) *Ingress {
	return &Ingress{
		registry:   registry,
		dispatcher: dispatcher,
		logger:     logger,
		publisher:  publisher,
		tracer:     tracing.GetTracer("poker.ingress"),
	}
}

// HandleEvent processes one inbound frame attributed to a user and
// connection. boundRoomID is the room the connection was attached to; a
// roomId inside the payload is only a fallback for transports that don't
// bind connections to rooms.
//
// Precondition failures (vote after reveal, privileged call by a
// non-facilitator) are silent no-ops. Unparsable or unknown payloads are
// logged and acknowledged so a protocol hiccup never costs the client its
// connection, and a processing panic is contained and logged the same way.
// Only a missing room identifier is an error to the caller.
func (i *Ingress) HandleEvent(ctx context.Context, boundRoomID, userID, connectionID string, payload []byte) error {
	defer func() {
		if r := recover(); r != nil {
			i.logger.Error(logging.Sync, logging.EventIngress, "panic while handling event", map[logging.ExtraKey]any{
				logging.UserID:       userID,
				logging.ErrorMessage: fmt.Sprint(r),
			})
		}
	}()

	ev, perr := ParseClientEvent(payload)
	if perr != nil && !errors.Is(perr, ErrUnknownEventType) {
		metrics.EventParseFailures.Inc()
		i.logger.Warn(logging.Sync, logging.EventIngress, "unparsable event payload", map[logging.ExtraKey]any{
			logging.UserID:       userID,
			logging.ErrorMessage: perr.Error(),
		})
		return nil
	}

	roomID := boundRoomID
	if roomID == "" {
		roomID = ev.RoomID
	}
	if roomID == "" {
		return ErrInvalidRequest
	}

	if errors.Is(perr, ErrUnknownEventType) {
		i.logger.Warn(logging.Sync, logging.EventIngress, "unhandled event type", map[logging.ExtraKey]any{
			logging.RoomID:    roomID,
			logging.UserID:    userID,
			logging.EventType: string(ev.Type),
		})
		return nil
	}

	ctx, span := i.tracer.Start(ctx, "poker.event",
		trace.WithAttributes(
			attribute.String("poker.event_type", string(ev.Type)),
			attribute.String("poker.room_id", roomID),
		))
	defer span.End()

	metrics.EventsTotal.WithLabelValues(string(ev.Type)).Inc()

	room := i.registry.GetOrCreate(roomID)
	metrics.OpenRooms.Set(float64(i.registry.Len()))

	i.dispatcher.Dispatch(i.apply(ctx, room, ev, userID, connectionID))
	return nil
}

// apply runs the transition for one event and returns the messages it
// produced. An empty slice means the event was a no-op.
func (i *Ingress) apply(ctx context.Context, room *domain.Room, ev ClientEvent, userID, connectionID string) []Outbound {
	switch ev.Type {
	case EventJoin:
		snapshot, joined := room.Join(userID, ev.Nickname)
		return []Outbound{
			toConnection(connectionID, NewRoomState(room.ID, snapshot)),
			toGroupExcluding(room.ID, userID, NewUserJoined(room.ID, joined)),
		}

	case EventVote:
		if !room.Vote(userID, ev.Value) {
			return nil
		}
		// The value stays server-side until reveal.
		return []Outbound{toGroup(room.ID, NewVoted(room.ID, userID))}

	case EventReveal:
		votes, ok := room.Reveal(userID)
		if !ok {
			return nil
		}
		return []Outbound{toGroup(room.ID, NewRevealed(room.ID, votes))}

	case EventReset:
		archived, ok := room.Reset(userID)
		if !ok {
			return nil
		}
		if archived != nil {
			i.publishRound(ctx, room.ID, *archived)
		}
		return []Outbound{toGroup(room.ID, NewReset(room.ID))}

	case EventSetStory:
		if !room.SetStory(userID, ev.Story, ev.StoryURL) {
			return nil
		}
		return []Outbound{toGroup(room.ID, NewStoryUpdated(room.ID, ev.Story, ev.StoryURL))}

	case EventSetEstimate:
		if !room.SetEstimate(userID, ev.Estimate) {
			return nil
		}
		return []Outbound{toGroup(room.ID, NewEstimateSet(room.ID, ev.Estimate))}

	case EventLeave:
		// Reserved. Connection teardown is the hub's business; room state
		// keeps the participant until product intent on departure settles.
		i.logger.Debug(logging.Sync, logging.EventIngress, "leave received, participant retained", map[logging.ExtraKey]any{
			logging.RoomID: room.ID,
			logging.UserID: userID,
		})
		return nil
	}

	return nil
}

func (i *Ingress) publishRound(ctx context.Context, roomID string, round domain.Round) {
	if i.publisher == nil {
		return
	}
	if err := i.publisher.PublishRoundCompleted(ctx, roomID, round); err != nil {
		i.logger.Warn(logging.RabbitMQ, logging.ExternalService, "round publish failed", map[logging.ExtraKey]any{
			logging.RoomID:       roomID,
			logging.ErrorMessage: err.Error(),
		})
	}
}

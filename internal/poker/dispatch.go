package poker

import (
	"github.com/sprintdeck/pokersync/internal/infrastructure/logging"
	"github.com/sprintdeck/pokersync/internal/infrastructure/metrics"
)

// Broker is the fan-out channel the dispatcher publishes through. The
// websocket hub implements it; tests substitute a recorder.
type Broker interface {
	SendToConnection(connectionID string, message any) error
	SendToGroup(groupID string, message any, excludeUserID string)
}

// Outbound addresses one message: either to a single connection (initial
// state sync) or to a whole room group, optionally excluding one user.
type Outbound struct {
	ConnectionID  string
	GroupID       string
	ExcludeUserID string
	Message       *Message
}

func toConnection(connectionID string, msg *Message) Outbound {
	return Outbound{ConnectionID: connectionID, Message: msg}
}

func toGroup(groupID string, msg *Message) Outbound {
	return Outbound{GroupID: groupID, Message: msg}
}

func toGroupExcluding(groupID, excludeUserID string, msg *Message) Outbound {
	return Outbound{GroupID: groupID, ExcludeUserID: excludeUserID, Message: msg}
}

// Dispatcher forwards state-machine output to the broker. Delivery is
// fire-and-forget: the state transition has already committed by the time
// anything is dispatched, so a stale connection only costs a log line.
type Dispatcher struct {
	broker Broker
	logger logging.Logger
}

func NewDispatcher(broker Broker, logger logging.Logger) *Dispatcher {
	return &Dispatcher{
		broker: broker,
		logger: logger,
	}
}

func (d *Dispatcher) Dispatch(outbound []Outbound) {
	for _, out := range outbound {
		if out.Message == nil {
			continue
		}

		if out.ConnectionID != "" {
			if err := d.broker.SendToConnection(out.ConnectionID, out.Message); err != nil {
				d.logger.Warn(logging.Sync, logging.Broadcast, "send to connection failed", map[logging.ExtraKey]any{
					logging.ConnectionID: out.ConnectionID,
					logging.MessageType:  out.Message.Type,
					logging.ErrorMessage: err.Error(),
				})
				continue
			}
			metrics.BroadcastsTotal.WithLabelValues("connection").Inc()
			continue
		}

		d.broker.SendToGroup(out.GroupID, out.Message, out.ExcludeUserID)
		metrics.BroadcastsTotal.WithLabelValues("group").Inc()
	}
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokersync_events_total",
		Help: "Inbound client events processed, by event type.",
	}, []string{"type"})

	EventParseFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokersync_event_parse_failures_total",
		Help: "Inbound frames that failed to parse into a known event shape.",
	})

	BroadcastsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokersync_broadcasts_total",
		Help: "Outbound messages dispatched, by delivery scope.",
	}, []string{"scope"})

	DroppedMessages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokersync_dropped_messages_total",
		Help: "Messages dropped because a client send buffer was full.",
	})

	OpenRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pokersync_rooms",
		Help: "Rooms currently tracked by the registry.",
	})

	ConnectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pokersync_connected_clients",
		Help: "Websocket clients currently registered with the hub.",
	})
)

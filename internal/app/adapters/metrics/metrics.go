package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ConnectionsActive - peers currently connected to the relay.
	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relay_connections_active",
		Help: "Number of currently connected peers",
	})

	// ConnectionsTotal - accepted and refused connections since start.
	ConnectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_connections_total",
			Help: "Connections handled since start, by outcome",
		}, []string{"outcome"},
	)

	// MessagesRelayed - frames decoded and fanned out to peers.
	MessagesRelayed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_messages_relayed_total",
		Help: "Messages forwarded to at least zero peers",
	})

	// FramesDiscarded - inbound frames dropped before broadcast.
	FramesDiscarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_frames_discarded_total",
			Help: "Inbound frames discarded, by reason",
		}, []string{"reason"},
	)

	// SlowConsumerDrops - frames skipped because a peer's send buffer was full.
	SlowConsumerDrops = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_slow_consumer_drops_total",
		Help: "Frames skipped for peers that were not ready to receive",
	})

	// CPUUsage - relay process host CPU load, sampled periodically.
	CPUUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relay_cpu_usage_percent",
		Help: "Host CPU usage percent",
	})

	// MemoryUsage - relay memory obtained from the OS.
	MemoryUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relay_memory_usage_bytes",
		Help: "Memory obtained from the OS in bytes",
	})
)

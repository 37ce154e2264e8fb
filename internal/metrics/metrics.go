// Package metrics exposes Prometheus collectors for a subscription connection.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Drop reasons reported on the frames_dropped_total counter.
const (
	ReasonRoutingMiss = "routing_miss"
	ReasonBufferFull  = "buffer_full"
	ReasonFraming     = "framing"
	ReasonDecode      = "decode"
)

// Metrics holds the collectors for one client.
//
// A zero registerer keeps the collectors unregistered; they still count and
// can be read with testutil.
type Metrics struct {
	FramesSent          prometheus.Counter
	FramesReceived      prometheus.Counter
	FramesDropped       *prometheus.CounterVec
	SubscriptionsActive prometheus.Gauge
	SubscriptionsTotal  prometheus.Counter
	Handshakes          *prometheus.CounterVec
}

// New creates the collectors and registers them on reg when reg is non-nil.
//
// Clients sharing a registerer share its collectors: when a collector is
// already registered the existing one is used. Any other registration
// failure panics, as with MustRegister.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FramesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "graphqlws_frames_sent_total",
			Help: "Total number of frames written to the connection",
		}),
		FramesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "graphqlws_frames_received_total",
			Help: "Total number of frames read from the connection",
		}),
		FramesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "graphqlws_frames_dropped_total",
			Help: "Total number of inbound frames dropped, by reason",
		}, []string{"reason"}),
		SubscriptionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "graphqlws_subscriptions_active",
			Help: "Number of subscriptions currently registered",
		}),
		SubscriptionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "graphqlws_subscriptions_started_total",
			Help: "Total number of subscriptions started",
		}),
		Handshakes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "graphqlws_handshakes_total",
			Help: "Total number of connection handshakes, by result",
		}, []string{"result"}),
	}

	if reg != nil {
		m.FramesSent = register(reg, m.FramesSent)
		m.FramesReceived = register(reg, m.FramesReceived)
		m.FramesDropped = register(reg, m.FramesDropped)
		m.SubscriptionsActive = register(reg, m.SubscriptionsActive)
		m.SubscriptionsTotal = register(reg, m.SubscriptionsTotal)
		m.Handshakes = register(reg, m.Handshakes)
	}

	return m
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	err := reg.Register(c)
	if err == nil {
		return c
	}

	if are, ok := errors.AsType[prometheus.AlreadyRegisteredError](err); ok {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing
		}
	}

	panic(err)
}

// Dropped increments the drop counter for reason.
func (m *Metrics) Dropped(reason string) {
	m.FramesDropped.WithLabelValues(reason).Inc()
}

// HandshakeResult records a handshake outcome.
func (m *Metrics) HandshakeResult(ok bool) {
	if ok {
		m.Handshakes.WithLabelValues("ack").Inc()
	} else {
		m.Handshakes.WithLabelValues("failed").Inc()
	}
}

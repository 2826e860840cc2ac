// Package metrics exposes Prometheus collectors for the chat assistant.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ActiveGames is the number of games with a running chat session.
	ActiveGames = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chatter_active_games",
		Help: "Games with a live chat session",
	})

	ChatLines = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chatter_chat_lines_total",
		Help: "Inbound chat lines",
	}, []string{"room"})

	// Commands counts recognized ! commands by name.
	Commands = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chatter_commands_total",
		Help: "Recognized chat commands",
	}, []string{"command"})

	Hints = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chatter_hints_total",
		Help: "Hint requests by outcome",
	}, []string{"result"}) // delivered, refused, failed

	MessagesSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chatter_messages_sent_total",
		Help: "Outbound chat messages",
	}, []string{"room", "result"})

	RateLimited = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chatter_rate_limited_total",
		Help: "Commands dropped by the rate limiter",
	})

	PingLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "chatter_ping_latency_seconds",
		Help:    "Round trip to the platform measured by !ping",
		Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
	})

	OpeningEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chatter_opening_entries",
		Help: "Entries in the loaded opening corpus",
	})
)

func init() {
	prometheus.MustRegister(
		ActiveGames,
		ChatLines,
		Commands,
		Hints,
		MessagesSent,
		RateLimited,
		PingLatency,
		OpeningEntries,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var framesCounter = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "alarmpanel",
	Subsystem: "client",
	Name:      "frames_received_total",
	Help:      "Status frames received from the panel server.",
})

var malformedCounter = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "alarmpanel",
	Subsystem: "client",
	Name:      "malformed_frames_total",
	Help:      "Status frames that could not be parsed.",
})

var commandCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "alarmpanel",
	Subsystem: "client",
	Name:      "commands_sent_total",
	Help:      "Commands sent to the panel server.",
}, []string{"cmd"})

var sendErrorCounter = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "alarmpanel",
	Subsystem: "client",
	Name:      "send_errors_total",
	Help:      "Commands that could not be sent.",
})

var openZonesGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "alarmpanel",
	Subsystem: "alarm",
	Name:      "open_zones",
	Help:      "Zones reported open in the last status.",
})

var entryGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "alarmpanel",
	Subsystem: "alarm",
	Name:      "entry_delay",
	Help:      "Entry delay remaining in the last status, 0 when inactive.",
})

func observeStatus(msg StatusMessage) {
	openZonesGauge.Set(float64(msg.OpenZones()))
	if msg.Entry > 0 {
		entryGauge.Set(msg.Entry)
	} else {
		entryGauge.Set(0)
	}
}

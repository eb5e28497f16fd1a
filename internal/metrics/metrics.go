package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	ticks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pacman",
			Subsystem: "session",
			Name:      "ticks_total",
			Help:      "Simulation ticks applied to running sessions.",
		},
	)
	tickDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "pacman",
			Subsystem: "session",
			Name:      "tick_duration_seconds",
			Help:      "Time spent advancing one session by one tick.",
			Buckets:   []float64{.00001, .000025, .00005, .0001, .00025, .0005, .001, .0025, .005, .01},
		},
	)
	sessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "pacman",
			Subsystem: "session",
			Name:      "active",
			Help:      "Sessions currently held by the manager.",
		},
	)
	sessionsEnded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pacman",
			Subsystem: "session",
			Name:      "ended_total",
			Help:      "Levels that ended, by outcome.",
		},
		[]string{"outcome"},
	)
	storeWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pacman",
			Subsystem: "store",
			Name:      "writes_total",
			Help:      "Game record writes, by result.",
		},
		[]string{"result"},
	)
	storeDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pacman",
			Subsystem: "store",
			Name:      "dropped_total",
			Help:      "Game records dropped because the write queue was full or closed.",
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ticks, tickDuration, sessionsActive, sessionsEnded, storeWrites, storeDropped)
	})
}

// RecordTick counts one tick and how long it took.
func RecordTick(duration time.Duration) {
	RegisterMetrics()
	ticks.Inc()
	tickDuration.Observe(duration.Seconds())
}

func SetActiveSessions(n int) {
	RegisterMetrics()
	sessionsActive.Set(float64(n))
}

// RecordSessionEnd counts a level ending with outcome "game_over" or
// "level_complete".
func RecordSessionEnd(outcome string) {
	RegisterMetrics()
	sessionsEnded.WithLabelValues(outcome).Inc()
}

func RecordWrite(err error) {
	RegisterMetrics()
	result := "ok"
	if err != nil {
		result = "error"
	}
	storeWrites.WithLabelValues(result).Inc()
}

func RecordDropped() {
	RegisterMetrics()
	storeDropped.Inc()
}

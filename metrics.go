package visor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// appMetrics are the per-App collectors. With a nil Registerer they are
// created but never registered.
type appMetrics struct {
	frames        prometheus.Counter
	deferred      prometheus.Counter
	reclaimed     prometheus.Counter
	liveHandles   prometheus.Gauge
	animators     prometheus.Gauge
	frameDuration prometheus.Histogram
}

func newAppMetrics(reg prometheus.Registerer) *appMetrics {
	f := promauto.With(reg)
	return &appMetrics{
		frames: f.NewCounter(prometheus.CounterOpts{
			Namespace: "visor",
			Name:      "frames_total",
			Help:      "Frames driven by App.Frame.",
		}),
		deferred: f.NewCounter(prometheus.CounterOpts{
			Namespace: "visor",
			Name:      "deferred_actions_total",
			Help:      "Actions run from the render-thread queue.",
		}),
		reclaimed: f.NewCounter(prometheus.CounterOpts{
			Namespace: "visor",
			Name:      "handles_reclaimed_total",
			Help:      "Foreign objects deleted by the handle sweep.",
		}),
		liveHandles: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "visor",
			Name:      "handles_live",
			Help:      "Addresses with a registered handle.",
		}),
		animators: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "visor",
			Name:      "animators_running",
			Help:      "Animators advanced by the App.",
		}),
		frameDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "visor",
			Name:      "frame_duration_seconds",
			Help:      "Wall time spent in App.Frame.",
			Buckets:   []float64{0.0005, 0.001, 0.002, 0.004, 0.008, 0.011, 0.016, 0.033, 0.05},
		}),
	}
}

// Package metrics exposes video load and playback events as Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/snapetech/vodproxy/internal/video"
)

// Collector implements video.Observer.
type Collector struct {
	loads        *prometheus.CounterVec
	loadDuration prometheus.Histogram
	loadedMB     prometheus.Counter
	plays        prometheus.Counter
	handles      *prometheus.GaugeVec
}

var _ video.Observer = (*Collector)(nil)

// New creates a Collector and registers it with reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vodproxy_loads_total",
			Help: "Simulated video loads by outcome.",
		}, []string{"status"}),
		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "vodproxy_load_duration_seconds",
			Help:    "Time spent in successful simulated loads.",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 2, 3, 5, 10, 30},
		}),
		loadedMB: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vodproxy_loaded_megabytes_total",
			Help: "Megabytes brought into memory by successful loads.",
		}),
		plays: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vodproxy_plays_total",
			Help: "Play calls that reached a loaded video.",
		}),
		handles: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vodproxy_handles",
			Help: "Lazy handles by state.",
		}, []string{"state"}),
	}
	reg.MustRegister(c.loads, c.loadDuration, c.loadedMB, c.plays, c.handles)
	return c
}

func (c *Collector) OnHandleCreated(id string) {
	c.handles.WithLabelValues(video.Unloaded.String()).Inc()
}

func (c *Collector) OnHandleLoaded(id string) {
	c.handles.WithLabelValues(video.Unloaded.String()).Dec()
	c.handles.WithLabelValues(video.Loaded.String()).Inc()
}

func (c *Collector) OnLoad(id string, sizeMB int, d time.Duration, err error) {
	if err != nil {
		c.loads.WithLabelValues(status(err)).Inc()
		return
	}
	c.loads.WithLabelValues("ok").Inc()
	c.loadDuration.Observe(d.Seconds())
	c.loadedMB.Add(float64(sizeMB))
}

func (c *Collector) OnPlay(id string) { c.plays.Inc() }

func status(err error) string {
	switch err.(type) {
	case video.ErrNotFound:
		return "not_found"
	case video.ErrLoadTimeout:
		return "timeout"
	}
	return "error"
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

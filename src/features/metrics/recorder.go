package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the Prometheus collectors for the extraction pipeline.
type Recorder struct {
	extracts       *prometheus.CounterVec
	writes         *prometheus.CounterVec
	extractSeconds prometheus.Histogram
	writeSeconds   prometheus.Histogram
	tagWarnings    prometheus.Counter
	workerRestarts prometheus.Counter
}

// NewRecorder creates a Recorder and registers its collectors.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		extracts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shoebox_extracts_total",
			Help: "Metadata extractions, by outcome.",
		}, []string{"outcome"}),
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shoebox_writes_total",
			Help: "Tag writes, by outcome.",
		}, []string{"outcome"}),
		extractSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "shoebox_extract_duration_seconds",
			Help:    "Time spent extracting one file.",
			Buckets: prometheus.DefBuckets,
		}),
		writeSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "shoebox_write_duration_seconds",
			Help:    "Time spent writing tags to one file.",
			Buckets: prometheus.DefBuckets,
		}),
		tagWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shoebox_tag_warnings_total",
			Help: "Non-fatal warnings produced while decoding tag records.",
		}),
		workerRestarts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shoebox_worker_restarts_total",
			Help: "Exiftool workers replaced after dying.",
		}),
	}
	reg.MustRegister(r.extracts, r.writes, r.extractSeconds, r.writeSeconds, r.tagWarnings, r.workerRestarts)
	return r
}

// ObserveExtract records one extraction attempt.
func (r *Recorder) ObserveExtract(d time.Duration, err error) {
	r.extracts.WithLabelValues(outcome(err)).Inc()
	r.extractSeconds.Observe(d.Seconds())
}

// ObserveWrite records one write attempt.
func (r *Recorder) ObserveWrite(d time.Duration, err error) {
	r.writes.WithLabelValues(outcome(err)).Inc()
	r.writeSeconds.Observe(d.Seconds())
}

// AddWarnings counts decode warnings from one record.
func (r *Recorder) AddWarnings(n int) {
	if n > 0 {
		r.tagWarnings.Add(float64(n))
	}
}

// WorkerReplaced counts one dead worker being replaced.
func (r *Recorder) WorkerReplaced() {
	r.workerRestarts.Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

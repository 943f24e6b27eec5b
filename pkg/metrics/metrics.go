// Package metrics records engine activity as Prometheus metrics.
// Every collector lives on a private registry so embedding applications
// never see them on the default one.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder receives engine events. Implementations must be cheap; they are
// called synchronously from the detector, codec and challenge paths.
type Recorder interface {
	// Detection records one detector evaluation and the categories of
	// every matched rule (one entry per matched rule).
	Detection(blocked bool, categories []string)

	// DecodeError records a malformed-input decode for a codec mode.
	DecodeError(mode string)

	// ChallengeAttempt records a validation attempt for a 0-based level.
	ChallengeAttempt(level int, success bool)

	// Score records the current anomaly score and its status.
	Score(total int, status string)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Detection(bool, []string) {}
func (Nop) DecodeError(string) {}
func (Nop) ChallengeAttempt(int, bool) {}
func (Nop) Score(int, string) {}

// Compile-time interface checks.
var (
	_ Recorder = Nop{}
	_ Recorder = (*Prometheus)(nil)
)

// Prometheus is a Recorder backed by client_golang collectors.
type Prometheus struct {
	registry *prometheus.Registry

	// Counters
	detectionsTotal *prometheus.CounterVec
	verdictsTotal   *prometheus.CounterVec
	decodeErrors    *prometheus.CounterVec
	challengeTotal  *prometheus.CounterVec

	// Gauges
	scoreTotal  prometheus.Gauge
	scoreStatus *prometheus.GaugeVec
}

// NewPrometheus creates the collectors and registers them on a fresh
// registry.
func NewPrometheus() (*Prometheus, error) {
	p := &Prometheus{registry: prometheus.NewRegistry()}
	if err := p.initMetrics(); err != nil {
		return nil, err
	}
	return p, nil
}

// initMetrics creates and registers all Prometheus metrics.
func (p *Prometheus) initMetrics() error {
	p.detectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whatthewaf_detections_total",
			Help: "Rule matches by attack category",
		},
		[]string{"category"},
	)

	p.verdictsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whatthewaf_verdicts_total",
			Help: "Detector evaluations by verdict",
		},
		[]string{"verdict"},
	)

	p.decodeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whatthewaf_decode_errors_total",
			Help: "Malformed decode inputs by codec mode",
		},
		[]string{"mode"},
	)

	p.challengeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whatthewaf_challenge_attempts_total",
			Help: "Challenge submissions by level and outcome",
		},
		[]string{"level", "outcome"},
	)

	p.scoreTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "whatthewaf_score_total",
			Help: "Current anomaly score of the calculator",
		},
	)

	p.scoreStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "whatthewaf_score_status",
			Help: "1 for the current score status, 0 otherwise",
		},
		[]string{"status"},
	)

	collectors := []prometheus.Collector{
		p.detectionsTotal,
		p.verdictsTotal,
		p.decodeErrors,
		p.challengeTotal,
		p.scoreTotal,
		p.scoreStatus,
	}

	for _, c := range collectors {
		if err := p.registry.Register(c); err != nil {
			return err
		}
	}

	return nil
}

// Registry returns the registry holding the collectors.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// Detection implements Recorder.
func (p *Prometheus) Detection(blocked bool, categories []string) {
	verdict := "allowed"
	if blocked {
		verdict = "blocked"
	}
	p.verdictsTotal.WithLabelValues(verdict).Inc()
	for _, c := range categories {
		p.detectionsTotal.WithLabelValues(c).Inc()
	}
}

// DecodeError implements Recorder.
func (p *Prometheus) DecodeError(mode string) {
	p.decodeErrors.WithLabelValues(mode).Inc()
}

// ChallengeAttempt implements Recorder. Levels are labelled 1-based to
// match what users see.
func (p *Prometheus) ChallengeAttempt(level int, success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	p.challengeTotal.WithLabelValues(strconv.Itoa(level+1), outcome).Inc()
}

// Score implements Recorder.
func (p *Prometheus) Score(total int, status string) {
	p.scoreTotal.Set(float64(total))
	p.scoreStatus.Reset()
	p.scoreStatus.WithLabelValues(status).Set(1)
}

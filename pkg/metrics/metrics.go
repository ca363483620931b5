package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "chainparser"

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	registrationLabels = []string{"program_id", "result"}
	decodeLabels       = []string{"program_id", "account", "result"}
)

// Metrics records registry activity. The zero value is not usable; use New.
type Metrics struct {
	registrations *prometheus.CounterVec
	decodes       *prometheus.CounterVec
	decodeBytes   *prometheus.HistogramVec
	programs      prometheus.Gauge
}

// New creates the registry metrics and registers them with reg. A nil reg
// leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "idl_registrations_total",
			Help:      "IDL registrations by program and outcome.",
		}, registrationLabels),
		decodes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "account_decodes_total",
			Help:      "Account decodes by program, account type and outcome.",
		}, decodeLabels),
		decodeBytes: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "account_decode_bytes",
			Help:      "Size of account data handed to the decoder.",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
		}, []string{"program_id"}),
		programs: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registered_programs",
			Help:      "Number of programs with a registered IDL.",
		}),
	}
}

func result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}

func (m *Metrics) ObserveRegistration(programID string, err error) {
	if m == nil {
		return
	}
	m.registrations.With(prometheus.Labels{"program_id": programID, "result": result(err)}).Inc()
}

// ObserveDecode records one decode. account is empty when no account type matched.
func (m *Metrics) ObserveDecode(programID, account string, size int, err error) {
	if m == nil {
		return
	}
	m.decodes.With(prometheus.Labels{"program_id": programID, "account": account, "result": result(err)}).Inc()
	m.decodeBytes.With(prometheus.Labels{"program_id": programID}).Observe(float64(size))
}

func (m *Metrics) SetPrograms(n int) {
	if m == nil {
		return
	}
	m.programs.Set(float64(n))
}

package metric

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "beatoken"

// ResultOK is the validation result label for accepted tokens.
const ResultOK = "ok"

// Registry holds the application metrics.
type Registry struct {
	reg *prometheus.Registry

	TokensIssued  *prometheus.CounterVec
	Validations   *prometheus.CounterVec
	TokensRevoked prometheus.Counter
	Deployments   *prometheus.CounterVec
}

// NewRegistry creates a registry with all metrics registered.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		TokensIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_issued_total",
			Help:      "Tokens issued, by kind.",
		}, []string{"kind"}),
		Validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Token validations, by result (ok or error code).",
		}, []string{"result"}),
		TokensRevoked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_revoked_total",
			Help:      "Tokens revoked.",
		}),
		Deployments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deployments_total",
			Help:      "Deployments created, by provider.",
		}, []string{"provider"}),
	}

	r.reg.MustRegister(r.TokensIssued, r.Validations, r.TokensRevoked, r.Deployments)
	return r
}

// TrackLiveTokens exports count as the beatoken_tokens_live gauge.
func (r *Registry) TrackLiveTokens(count func() int) error {
	if r == nil {
		return nil
	}
	return r.reg.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "tokens_live",
		Help:      "Live (issued and not revoked) token records.",
	}, func() float64 { return float64(count()) }))
}

// Issued counts an issued token.
func (r *Registry) Issued(kind string) {
	if r == nil {
		return
	}
	r.TokensIssued.WithLabelValues(kind).Inc()
}

// Validated counts a validation outcome.
func (r *Registry) Validated(result string) {
	if r == nil {
		return
	}
	r.Validations.WithLabelValues(result).Inc()
}

// Revoked counts a revocation.
func (r *Registry) Revoked() {
	if r == nil {
		return
	}
	r.TokensRevoked.Inc()
}

// Deployed counts a created deployment.
func (r *Registry) Deployed(provider string) {
	if r == nil {
		return
	}
	r.Deployments.WithLabelValues(provider).Inc()
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// WriteText writes all metrics in the Prometheus text exposition format.
func (r *Registry) WriteText(w io.Writer) error {
	families, err := r.reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

package http

import "github.com/prometheus/client_golang/prometheus"

var (
	registrationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "papr_registrations_total",
		Help: "Total number of researchers registered.",
	})
	tokensIssuedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "papr_tokens_issued_total",
		Help: "Total number of encrypted token bundles issued.",
	})
	submissionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "papr_manuscript_submissions_total",
		Help: "Total number of manuscript revisions accepted.",
	})
	reviewsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "papr_reviews_filed_total",
		Help: "Total number of reviews filed.",
	})
)

func init() {
	prometheus.MustRegister(registrationsTotal, tokensIssuedTotal, submissionsTotal, reviewsTotal)
}

// Package metrics exposes the server's prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Failed login kinds.
const (
	LoginUser  = "user"
	LoginAdmin = "admin"
)

// Metrics owns a registry and the collectors registered on it. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal     *prometheus.CounterVec
	responseTimeHistogram *prometheus.HistogramVec
	registrationsTotal    *prometheus.CounterVec
	referralCreditsTotal  *prometheus.CounterVec
	failedLoginsTotal     *prometheus.CounterVec
	adminActionsTotal     *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		responseTimeHistogram: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_time_seconds",
				Help:    "Histogram of response times",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		registrationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "referralhub_registrations_total",
				Help: "Accounts created, split by whether a referrer code was given",
			},
			[]string{"referred"},
		),
		referralCreditsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "referralhub_referral_credits_total",
				Help: "Referrer wallet credit attempts by outcome",
			},
			[]string{"result"},
		),
		failedLoginsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "referralhub_failed_logins_total",
				Help: "Rejected login attempts",
			},
			[]string{"kind"},
		),
		adminActionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "referralhub_admin_actions_total",
				Help: "Administrative mutations performed",
			},
			[]string{"action"},
		),
	}
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.responseTimeHistogram.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func (m *Metrics) Registration(referred bool) {
	if m == nil {
		return
	}
	m.registrationsTotal.WithLabelValues(strconv.FormatBool(referred)).Inc()
}

// ReferralCredit counts a credit attempt; matched is false when the code
// belonged to nobody.
func (m *Metrics) ReferralCredit(matched bool) {
	if m == nil {
		return
	}
	result := "credited"
	if !matched {
		result = "unmatched"
	}
	m.referralCreditsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) FailedLogin(kind string) {
	if m == nil {
		return
	}
	m.failedLoginsTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) AdminAction(action string) {
	if m == nil {
		return
	}
	m.adminActionsTotal.WithLabelValues(action).Inc()
}

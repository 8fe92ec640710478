// Package metrics exposes the prometheus counters shared by the services.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeRejected = "rejected"
	OutcomeConflict = "conflict"
)

type Collector struct {
	logins            *prometheus.CounterVec
	registrations     *prometheus.CounterVec
	authorizationDeny *prometheus.CounterVec
	notifications     *prometheus.CounterVec
	emails            *prometheus.CounterVec
}

// NewCollector registers the counters on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taxi_login_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taxi_registration_total",
			Help: "Registrations by outcome.",
		}, []string{"outcome"}),
		authorizationDeny: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taxi_authorization_denied_total",
			Help: "Requests rejected by the role check, by route.",
		}, []string{"route"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taxi_notifications_total",
			Help: "Post-commit notifications handed to the broker, by outcome.",
		}, []string{"outcome"}),
		emails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taxi_emails_sent_total",
			Help: "Emails delivered over SMTP, by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(c.logins, c.registrations, c.authorizationDeny, c.notifications, c.emails)
	return c
}

func (c *Collector) RecordLogin(outcome string) {
	c.logins.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordRegistration(outcome string) {
	c.registrations.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordAuthorizationDenied(route string) {
	c.authorizationDeny.WithLabelValues(route).Inc()
}

func (c *Collector) RecordNotification(outcome string) {
	c.notifications.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordEmail(outcome string) {
	c.emails.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Package metrics собирает и публикует Prometheus-метрики сервиса.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector — счётчики бизнес-событий витрины.
type Collector struct {
	signupCodesSent   prometheus.Counter
	signupOutcomes    *prometheus.CounterVec
	ordersPlaced      prometheus.Counter
	ordersPaid        prometheus.Counter
	searchQueries     prometheus.Counter
	emailSendFailures prometheus.Counter
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		signupCodesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bijou_signup_codes_sent_total",
			Help: "Verification codes issued to new signups.",
		}),
		signupOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bijou_signup_verify_total",
			Help: "Verification attempts by outcome.",
		}, []string{"outcome"}), // success | mismatch | expired | limit | absent
		ordersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bijou_orders_placed_total",
			Help: "Orders created in PENDING state.",
		}),
		ordersPaid: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bijou_orders_paid_total",
			Help: "Orders confirmed as paid.",
		}),
		searchQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bijou_search_queries_total",
			Help: "Product search queries served.",
		}),
		emailSendFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bijou_email_send_failures_total",
			Help: "SMTP dispatch failures.",
		}),
	}
	reg.MustRegister(c.signupCodesSent, c.signupOutcomes, c.ordersPlaced, c.ordersPaid, c.searchQueries, c.emailSendFailures)
	return c
}

func (c *Collector) RecordSignupCodeSent() { c.signupCodesSent.Inc() }
func (c *Collector) RecordSignupVerify(outcome string) {
	c.signupOutcomes.WithLabelValues(outcome).Inc()
}
func (c *Collector) RecordOrderPlaced()      { c.ordersPlaced.Inc() }
func (c *Collector) RecordOrderPaid()        { c.ordersPaid.Inc() }
func (c *Collector) RecordSearchQuery()      { c.searchQueries.Inc() }
func (c *Collector) RecordEmailSendFailure() { c.emailSendFailures.Inc() }

// Handler отдаёт /metrics для заданного реестра.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	CustomerOperationsTotal *prometheus.CounterVec
	Customers               prometheus.Gauge
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "customer_service_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		CustomerOperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "customer_service_customer_operations_total",
				Help: "Total number of successful customer writes by operation.",
			},
			[]string{"operation"},
		),
		Customers: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "customer_service_customers",
				Help: "Number of stored customers at the last statistics run.",
			},
		),
	}
)

func RecordDBQuery(queryName string, err error, duration time.Duration) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordCustomerCreated() {
	Business.CustomerOperationsTotal.WithLabelValues("create").Inc()
}

func RecordCustomerUpdated() {
	Business.CustomerOperationsTotal.WithLabelValues("update").Inc()
}

func RecordCustomerDeleted() {
	Business.CustomerOperationsTotal.WithLabelValues("delete").Inc()
}

func SetCustomerCount(count int64) {
	Business.Customers.Set(float64(count))
}

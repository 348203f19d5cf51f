package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

var (
	recordOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rally_record_operations_total",
		Help: "Record store operations by operation and result",
	}, []string{"operation", "result"})

	recordsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rally_records",
		Help: "Number of stage records currently stored",
	})
)

func ObserveOperation(operation string, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	recordOperationsTotal.WithLabelValues(operation, result).Inc()
}

func SetRecords(n int) {
	recordsGauge.Set(float64(n))
}

func Handler() http.Handler {
	return promhttp.Handler()
}

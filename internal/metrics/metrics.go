package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	actionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_actions_total",
		Help: "Server actions by resource, operation and outcome.",
	}, []string{"resource", "operation", "outcome"})

	backendRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_backend_requests_total",
		Help: "Requests sent to the LMS backend by method and status. Status 0 is a transport failure.",
	}, []string{"method", "status"})
)

func ObserveAction(resource, operation string, success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	actionsTotal.WithLabelValues(resource, operation, outcome).Inc()
}

func ObserveBackend(method string, status int) {
	backendRequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

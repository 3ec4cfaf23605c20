package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bridgectl_http_requests_total",
		Help: "HTTP requests served, by method, path and status class.",
	}, []string{"method", "path", "class"})

	swapOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bridgectl_swap_outcomes_total",
		Help: "Terminal states of submitted swaps.",
	}, []string{"status"})

	adminOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bridgectl_admin_outcomes_total",
		Help: "Terminal states of admin submissions, by operation.",
	}, []string{"op", "status"})
)

package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	visitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reckon_visits_total",
		Help: "Sessions recorded through the visit endpoint.",
	})
	computesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reckon_computes_total",
		Help: "Likelihood computations served.",
	})
	resultsSavedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reckon_results_saved_total",
		Help: "Entity results saved.",
	})
)

package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var refreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "atlas_refresh_total",
	Help: "Refresh pipeline outcomes by result.",
}, []string{"outcome"})

const (
	outcomeOK                = "ok"
	outcomeSourceUnavailable = "source_unavailable"
	outcomeWriteFailed       = "write_failed"
)

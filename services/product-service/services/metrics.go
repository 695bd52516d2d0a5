package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	importRowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_import_rows_total",
		Help: "Bulk import rows by outcome (created, failed).",
	}, []string{"outcome"})

	importImageWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_import_image_warnings_total",
		Help: "Rows imported without an image.",
	})

	importJobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_import_jobs_total",
		Help: "Async bulk import jobs by final status.",
	}, []string{"status"})
)

package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics
var (
	uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tracker_csv_uploads_total",
		Help: "Total number of CSV upload calls by kind and outcome",
	}, []string{"kind", "outcome"})

	rowsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tracker_csv_rows_processed_total",
		Help: "Total number of CSV rows written to storage",
	})

	rowsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tracker_csv_rows_skipped_total",
		Help: "Total number of CSV rows skipped (missing name or unparsable values)",
	})

	upsertDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tracker_stat_upsert_duration_seconds",
		Help:    "Duration of daily stat upserts",
		Buckets: prometheus.DefBuckets,
	})
)

// Package metrics exposes Prometheus counters for the split workflow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SplitsCreated counts successfully initialized split sessions.
	SplitsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitkip_splits_created_total",
		Help: "Number of split sessions created.",
	})

	// PurchasesRecorded counts accepted purchases.
	PurchasesRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitkip_purchases_recorded_total",
		Help: "Number of purchases recorded against participants.",
	})

	// PurchasesRejected counts purchases refused by the balance engine,
	// by failure reason.
	PurchasesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "splitkip_purchases_rejected_total",
		Help: "Number of purchases rejected by the balance engine.",
	}, []string{"reason"})

	// SettlementsComputed counts settlement solver runs.
	SettlementsComputed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitkip_settlements_computed_total",
		Help: "Number of settlement computations served.",
	})

	// CalculationsRecorded counts persisted standalone calculations.
	CalculationsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitkip_calculations_recorded_total",
		Help: "Number of standalone calculations persisted.",
	})

	// StoreFailures counts persistence errors on the fire-and-forget write
	// path, where the in-memory state is kept and the error only logged.
	StoreFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "splitkip_store_failures_total",
		Help: "Number of persistence failures, by operation.",
	}, []string{"operation"})
)

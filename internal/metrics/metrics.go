// Package metrics публикует счётчики Prometheus и служебный HTTP-сервер.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ExpensesRecorded - количество сохранённых трат.
	ExpensesRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "finbot_expenses_recorded_total",
		Help: "Number of expense records persisted.",
	})

	// SummariesServed - количество отданных сводок по периодам.
	SummariesServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finbot_summaries_served_total",
		Help: "Number of period summaries served.",
	}, []string{"period"})

	// StoreFailures - количество отказов хранилища.
	StoreFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "finbot_store_failures_total",
		Help: "Number of failed expense store operations.",
	})

	// ExportsServed - количество выполненных выгрузок.
	ExportsServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "finbot_exports_served_total",
		Help: "Number of record exports served.",
	})
)

package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	checkoutOrdersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_orders_total",
		Help: "Checkout attempts by outcome (placed, invalid, rejected, upstream_error).",
	}, []string{"outcome"})

	checkoutOrderValue = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_order_value_rupees",
		Help:    "Total of placed orders in rupees.",
		Buckets: []float64{100, 250, 500, 1000, 2500, 5000, 10000},
	})

	checkoutQuotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_quotes_total",
		Help: "Checkout quotes by shipping policy.",
	}, []string{"policy"})
)

//go:build !noprometheus
// +build !noprometheus

// Package instrument exposes group action metrics to prometheus.
package instrument

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultAddress is the listen address used when none is configured.
const DefaultAddress = ":6543"

var (
	groupActions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "csidh_group_actions_total",
			Help: "Number of completed group actions",
		},
	)
	groupActionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "csidh_group_action_duration_seconds",
			Help:    "Time taken by a single group action",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
		},
	)
	publicKeysRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "csidh_rejected_public_keys_total",
			Help: "Number of public keys that failed validation",
		},
	)
	keysGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "csidh_generated_keypairs_total",
			Help: "Number of generated key pairs",
		},
	)

	registerOnce sync.Once
)

// Init registers the metrics with the default prometheus registry.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(groupActions)
		prometheus.MustRegister(groupActionDuration)
		prometheus.MustRegister(publicKeysRejected)
		prometheus.MustRegister(keysGenerated)
	})
}

// StartPrometheusListener registers the metrics and exposes them via HTTP
// on addr.
func StartPrometheusListener(addr string) {
	Init()
	if addr == "" {
		addr = DefaultAddress
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go http.ListenAndServe(addr, mux)
}

// GroupAction counts a completed group action and observes its duration.
func GroupAction(d time.Duration) {
	groupActions.Inc()
	groupActionDuration.Observe(d.Seconds())
}

// PublicKeyRejected increments the counter for rejected public keys.
func PublicKeyRejected() {
	publicKeysRejected.Inc()
}

// KeyGenerated increments the counter for generated key pairs.
func KeyGenerated() {
	keysGenerated.Inc()
}

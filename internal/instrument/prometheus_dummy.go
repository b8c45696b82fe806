//go:build noprometheus
// +build noprometheus

package instrument

import "time"

// DefaultAddress is the listen address used when none is configured.
const DefaultAddress = ":6543"

// Init does nothing
func Init() {}

// StartPrometheusListener does nothing
func StartPrometheusListener(addr string) {}

// GroupAction does nothing
func GroupAction(d time.Duration) {}

// PublicKeyRejected does nothing
func PublicKeyRejected() {}

// KeyGenerated does nothing
func KeyGenerated() {}

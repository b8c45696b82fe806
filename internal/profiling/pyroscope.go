//go:build pyroscope
// +build pyroscope

// Package profiling optionally streams continuous profiles of long running
// commands to a Pyroscope server.
package profiling

import (
	"errors"
	"os"

	"github.com/grafana/pyroscope-go"
	"gopkg.in/op/go-logging.v1"
)

// Stop flushes and stops a running profiler.
type Stop func()

// Start initializes Pyroscope profiling, configured from the
// PYROSCOPE_SERVER_ADDRESS, PYROSCOPE_APP_NAME and PYROSCOPE_SERVICE_TAG
// environment variables. tag is added to the profile labels as "command".
func Start(log *logging.Logger, tag string) (Stop, error) {
	log.Info("Starting Pyroscope")

	serverAddress := os.Getenv("PYROSCOPE_SERVER_ADDRESS")
	if serverAddress == "" {
		return nil, errors.New("PYROSCOPE_SERVER_ADDRESS is not set")
	}

	appName := os.Getenv("PYROSCOPE_APP_NAME")
	if appName == "" {
		appName = "csidh"
	}

	serviceTag := os.Getenv("PYROSCOPE_SERVICE_TAG")
	if serviceTag == "" {
		serviceTag = "csidh"
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: appName,
		ServerAddress:   serverAddress,
		Logger:          pyroscope.StandardLogger,
		Tags: map[string]string{
			"service": serviceTag,
			"command": tag,
		},
	})
	if err != nil {
		return nil, err
	}
	log.Infof("Pyroscope started successfully at %s, app name: %s, service tag: %s", serverAddress, appName, serviceTag)
	return func() { _ = profiler.Stop() }, nil
}

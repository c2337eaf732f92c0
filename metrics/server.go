package metrics

import (
	"context"
	"net/http"

	"github.com/JudioLam9/contracts-v3/lib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsServer exposes the prometheus registry over http
type MetricsServer struct {
	server *http.Server
	config lib.MetricsConfig
	log    lib.LoggerI
}

// NewMetricsServer() creates a new metrics server, nil when metrics are disabled
func NewMetricsServer(config lib.MetricsConfig, log lib.LoggerI) *MetricsServer {
	// exit if telemetry is turned off in the config
	if !config.Enabled {
		return nil
	}
	// serve the registry on /metrics
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	// exit with the server object
	return &MetricsServer{
		server: &http.Server{
			Addr:    config.PrometheusAddress,
			Handler: mux,
		},
		config: config,
		log:    log,
	}
}

// Start() starts the telemetry server
func (s *MetricsServer) Start() {
	// exit if empty
	if s == nil {
		return
	}
	go func() {
		s.log.Infof("Starting metrics server on %s", s.config.PrometheusAddress)
		// run the server
		if err := s.server.ListenAndServe(); err != nil {
			if err != http.ErrServerClosed {
				s.log.Errorf("Metrics server failed with err: %s", err.Error())
			}
		}
	}()
}

// Stop() gracefully stops the telemetry server
func (s *MetricsServer) Stop() {
	// exit if empty
	if s == nil {
		return
	}
	// shutdown the server
	if err := s.server.Shutdown(context.Background()); err != nil {
		s.log.Error(err.Error())
	}
}

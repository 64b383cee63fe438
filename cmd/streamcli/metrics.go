package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/thrasher-corp/marketstream/log"
)

const metricsShutdownTimeout = 5 * time.Second

func newRouter() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.
		Methods(http.MethodGet).
		Path("/metrics").
		Name("metrics").
		Handler(promhttp.Handler())
	return router
}

// serveMetrics starts the prometheus endpoint when enabled; the returned
// function stops it
func serveMetrics(ctx context.Context) (func(), error) {
	if cfg == nil {
		return nil, errNoConfig
	}
	if !cfg.Metrics.Enabled {
		return func() {}, nil
	}
	var lc net.ListenConfig
	l, err := lc.Listen(ctx, "tcp", cfg.Metrics.ListenAddress)
	if err != nil {
		return nil, err
	}
	srv := &http.Server{
		Handler:           newRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf(log.Global, "Metrics server: %v", err)
		}
	}()
	log.Infof(log.Global, "Metrics server listening on http://%s/metrics", l.Addr())
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Errorf(log.Global, "Metrics server shutdown: %v", err)
		}
	}, nil
}
